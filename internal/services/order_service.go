package services

import (
	"fmt"
	"strings"
	"time"

	"poolhall/internal/domain"
	"poolhall/internal/state"
)

// CartLine is one item of a retail checkout.
type CartLine struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

type OrderService struct {
	State *state.Store
}

func NewOrderService(st *state.Store) *OrderService {
	return &OrderService{State: st}
}

// AddRetailSale sells qty units of one item. Nothing is recorded when the
// item is unknown or stock would go negative.
func (s *OrderService) AddRetailSale(itemID string, qty int) (domain.Order, error) {
	return s.Checkout([]CartLine{{ItemID: itemID, Quantity: qty}}, "")
}

// Checkout sells a cart as one order with one sale record per line. Every
// line is checked before any stock moves.
func (s *OrderService) Checkout(lines []CartLine, notes string) (domain.Order, error) {
	if len(lines) == 0 {
		return domain.Order{}, fmt.Errorf("cart empty: %w", ErrInvalidInput)
	}
	for _, l := range lines {
		if l.Quantity <= 0 {
			return domain.Order{}, fmt.Errorf("quantity %d for %s: %w", l.Quantity, l.ItemID, ErrInvalidInput)
		}
	}
	lines = mergeCart(lines)

	var out domain.Order
	err := s.State.Update(func(st *domain.AggregateState, now time.Time) error {
		// pre-check stock
		for _, l := range lines {
			it, err := findItem(st, l.ItemID)
			if err != nil {
				return err
			}
			if it.Stock < l.Quantity {
				return fmt.Errorf("%s (need %d, have %d): %w", it.Name, l.Quantity, it.Stock, ErrInsufficientStock)
			}
		}

		order := domain.Order{
			ID:        newID("order"),
			Timestamp: now,
			Notes:     strings.TrimSpace(notes),
			Status:    domain.OrderCompleted,
		}
		for _, l := range lines {
			it, _ := findItem(st, l.ItemID)
			it.Stock -= l.Quantity
			total := it.Price * float64(l.Quantity)
			order.Items = append(order.Items, domain.OrderItem{
				ItemID:     it.ID,
				ItemName:   it.Name,
				Quantity:   l.Quantity,
				UnitPrice:  it.Price,
				TotalPrice: total,
			})
			order.TotalPrice += total
			st.RetailSales = append(st.RetailSales, domain.RetailSale{
				ID:         newID("sale"),
				ItemID:     it.ID,
				ItemName:   it.Name,
				Quantity:   l.Quantity,
				UnitPrice:  it.Price,
				TotalPrice: total,
				Timestamp:  now,
				OrderID:    order.ID,
			})
		}
		st.Orders = append(st.Orders, order)
		out = cloneOrder(order)
		return nil
	})
	return out, err
}

// mergeCart folds repeated items into one line, keeping first-seen order.
// An order carries at most one line and one sale per item.
func mergeCart(lines []CartLine) []CartLine {
	out := make([]CartLine, 0, len(lines))
	pos := map[string]int{}
	for _, l := range lines {
		if i, ok := pos[l.ItemID]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		pos[l.ItemID] = len(out)
		out = append(out, l)
	}
	return out
}

// lineTotals validates order lines, merges repeated items (the first
// line's name and unit price win) and recomputes every total.
func lineTotals(items []domain.OrderItem) ([]domain.OrderItem, float64, error) {
	out := make([]domain.OrderItem, 0, len(items))
	pos := map[string]int{}
	for _, it := range items {
		if it.Quantity <= 0 || it.UnitPrice < 0 {
			return nil, 0, fmt.Errorf("order line %s: %w", it.ItemID, ErrInvalidInput)
		}
		if i, ok := pos[it.ItemID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		pos[it.ItemID] = len(out)
		out = append(out, it)
	}
	total := 0.0
	for i := range out {
		out[i].TotalPrice = out[i].UnitPrice * float64(out[i].Quantity)
		total += out[i].TotalPrice
	}
	return out, total, nil
}

// itemQty sums quantities per item; ids lists items in first-seen order.
func itemQty(items []domain.OrderItem) (qty map[string]int, ids []string) {
	qty = map[string]int{}
	for _, it := range items {
		if _, ok := qty[it.ItemID]; !ok {
			ids = append(ids, it.ItemID)
		}
		qty[it.ItemID] += it.Quantity
	}
	return qty, ids
}

// CreateOrder records an order as given. Stock is not touched; sales that
// move stock go through Checkout.
func (s *OrderService) CreateOrder(items []domain.OrderItem, notes string) (domain.Order, error) {
	lines, total, err := lineTotals(items)
	if err != nil {
		return domain.Order{}, err
	}
	if len(lines) == 0 {
		return domain.Order{}, fmt.Errorf("order empty: %w", ErrInvalidInput)
	}
	var out domain.Order
	err = s.State.Update(func(st *domain.AggregateState, now time.Time) error {
		out = domain.Order{
			ID:         newID("order"),
			Items:      lines,
			TotalPrice: total,
			Timestamp:  now,
			Notes:      strings.TrimSpace(notes),
			Status:     domain.OrderCompleted,
		}
		st.Orders = append(st.Orders, cloneOrder(out))
		return nil
	})
	return out, err
}

func findOrder(st *domain.AggregateState, id string) (int, error) {
	for i := range st.Orders {
		if st.Orders[i].ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("order %s: %w", id, ErrNotFound)
}

// belongsTo reports whether sale s was recorded with order o. Sales written
// before orders were linked are matched by timestamp.
func belongsTo(s domain.RetailSale, o domain.Order) bool {
	return s.OrderID == o.ID || (s.OrderID == "" && s.Timestamp.Equal(o.Timestamp))
}

// salesFor returns the indexes of every sale of itemID recorded with o.
func salesFor(st *domain.AggregateState, o domain.Order, itemID string) []int {
	var out []int
	for i, s := range st.RetailSales {
		if s.ItemID == itemID && belongsTo(s, o) {
			out = append(out, i)
		}
	}
	return out
}

// EditOrder replaces the lines and notes of an order. For every item of
// the old order that has a sale record, the quantity change is applied to
// the sale and, inversely, to stock.
func (s *OrderService) EditOrder(orderID string, items []domain.OrderItem, notes string) (domain.Order, error) {
	lines, total, err := lineTotals(items)
	if err != nil {
		return domain.Order{}, err
	}
	var out domain.Order
	err = s.State.Update(func(st *domain.AggregateState, _ time.Time) error {
		idx, err := findOrder(st, orderID)
		if err != nil {
			return err
		}
		old := st.Orders[idx]
		if old.Status == domain.OrderVoided {
			return fmt.Errorf("edit voided order %s: %w", old.ID, ErrInvalidState)
		}
		newQty, _ := itemQty(lines)
		oldQty, oldIDs := itemQty(old.Items)

		var drop []int
		for _, id := range oldIDs {
			diff := newQty[id] - oldQty[id]
			if diff == 0 {
				continue
			}
			idx := salesFor(st, old, id)
			if len(idx) == 0 {
				continue
			}
			if it, err := findItem(st, id); err == nil {
				if it.Stock-diff < 0 {
					return fmt.Errorf("%s (need %d more, have %d): %w", it.Name, diff, it.Stock, ErrInsufficientStock)
				}
				it.Stock -= diff
			}
			// Older documents may hold several sales per item; they are
			// folded into the first one.
			sale := &st.RetailSales[idx[0]]
			for _, si := range idx[1:] {
				sale.Quantity += st.RetailSales[si].Quantity
				drop = append(drop, si)
			}
			sale.Quantity += diff
			if sale.Quantity > 0 {
				sale.TotalPrice = float64(sale.Quantity) * sale.UnitPrice
			} else {
				drop = append(drop, idx[0])
			}
		}
		if len(drop) > 0 {
			st.RetailSales = removeIndexes(st.RetailSales, drop)
		}

		o := &st.Orders[idx]
		o.Items = lines
		o.TotalPrice = total
		o.Notes = strings.TrimSpace(notes)
		out = cloneOrder(*o)
		return nil
	})
	return out, err
}

// DeleteOrder undoes an order: its sales are removed and stock restored.
func (s *OrderService) DeleteOrder(orderID string) error {
	return s.State.Update(func(st *domain.AggregateState, _ time.Time) error {
		idx, err := findOrder(st, orderID)
		if err != nil {
			return err
		}
		o := st.Orders[idx]
		qty, _ := itemQty(o.Items)
		var drop []int
		for i, sale := range st.RetailSales {
			if _, inOrder := qty[sale.ItemID]; inOrder && belongsTo(sale, o) {
				drop = append(drop, i)
			}
		}
		for _, oi := range o.Items {
			if it, err := findItem(st, oi.ItemID); err == nil {
				it.Stock += oi.Quantity
			}
		}
		st.RetailSales = removeIndexes(st.RetailSales, drop)
		st.Orders = append(st.Orders[:idx], st.Orders[idx+1:]...)
		return nil
	})
}

// VoidOrder flags an order for audit. Unlike DeleteOrder it leaves stock
// and sale records alone.
func (s *OrderService) VoidOrder(orderID string) error {
	return s.State.Update(func(st *domain.AggregateState, _ time.Time) error {
		idx, err := findOrder(st, orderID)
		if err != nil {
			return err
		}
		if st.Orders[idx].Status == domain.OrderVoided {
			return fmt.Errorf("order %s already voided: %w", orderID, ErrInvalidState)
		}
		st.Orders[idx].Status = domain.OrderVoided
		return nil
	})
}

func cloneOrder(o domain.Order) domain.Order {
	o.Items = append([]domain.OrderItem(nil), o.Items...)
	return o
}

func removeIndexes[T any](in []T, idx []int) []T {
	skip := make(map[int]bool, len(idx))
	for _, i := range idx {
		skip[i] = true
	}
	out := in[:0:0]
	for i, v := range in {
		if !skip[i] {
			out = append(out, v)
		}
	}
	return out
}
