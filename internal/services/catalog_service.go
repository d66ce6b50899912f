package services

import (
	"fmt"
	"strings"
	"time"

	"poolhall/internal/domain"
	"poolhall/internal/state"
)

// CatalogService manages the things sessions and sales refer to: tables,
// price categories, retail items and the default rate.
type CatalogService struct {
	State *state.Store
}

func NewCatalogService(st *state.Store) *CatalogService {
	return &CatalogService{State: st}
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("empty name: %w", ErrInvalidInput)
	}
	return name, nil
}

// ---------- Price categories ----------

func (s *CatalogService) AddPriceCategory(name string, rate float64) (domain.PriceCategory, error) {
	name, err := cleanName(name)
	if err != nil {
		return domain.PriceCategory{}, err
	}
	if rate <= 0 {
		return domain.PriceCategory{}, fmt.Errorf("hourly rate %v: %w", rate, ErrInvalidInput)
	}
	cat := domain.PriceCategory{ID: newID("cat"), Name: name, HourlyRate: rate}
	err = s.State.Update(func(st *domain.AggregateState, _ time.Time) error {
		st.PriceCategories = append(st.PriceCategories, cat)
		return nil
	})
	return cat, err
}

func (s *CatalogService) UpdatePriceCategory(id, name string, rate float64) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	if rate <= 0 {
		return fmt.Errorf("hourly rate %v: %w", rate, ErrInvalidInput)
	}
	return s.State.Update(func(st *domain.AggregateState, _ time.Time) error {
		for i := range st.PriceCategories {
			if st.PriceCategories[i].ID == id {
				st.PriceCategories[i].Name = name
				st.PriceCategories[i].HourlyRate = rate
				return nil
			}
		}
		return fmt.Errorf("price category %s: %w", id, ErrNotFound)
	})
}

// DeletePriceCategory does not touch tables that reference the category;
// they fall back to the default rate.
func (s *CatalogService) DeletePriceCategory(id string) error {
	return s.State.Update(func(st *domain.AggregateState, _ time.Time) error {
		for i := range st.PriceCategories {
			if st.PriceCategories[i].ID == id {
				st.PriceCategories = append(st.PriceCategories[:i], st.PriceCategories[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("price category %s: %w", id, ErrNotFound)
	})
}

func (s *CatalogService) SetHourlyRate(rate float64) error {
	if rate <= 0 {
		return fmt.Errorf("hourly rate %v: %w", rate, ErrInvalidInput)
	}
	return s.State.Update(func(st *domain.AggregateState, _ time.Time) error {
		st.HourlyRate = rate
		return nil
	})
}

// ---------- Tables ----------

func hasCategory(st *domain.AggregateState, id string) bool {
	for _, c := range st.PriceCategories {
		if c.ID == id {
			return true
		}
	}
	return false
}

func (s *CatalogService) AddTable(name, priceCategoryID string) (domain.BilliardTable, error) {
	name, err := cleanName(name)
	if err != nil {
		return domain.BilliardTable{}, err
	}
	t := domain.BilliardTable{
		ID:              newID("table"),
		Name:            name,
		Status:          domain.TableAvailable,
		Position:        domain.Position{X: 50, Y: 50},
		Size:            domain.Size{Width: 180, Height: 140},
		PriceCategoryID: priceCategoryID,
	}
	err = s.State.Update(func(st *domain.AggregateState, _ time.Time) error {
		if priceCategoryID != "" && !hasCategory(st, priceCategoryID) {
			return fmt.Errorf("price category %s: %w", priceCategoryID, ErrNotFound)
		}
		st.Tables = append(st.Tables, t)
		return nil
	})
	return t, err
}

// RemoveTable refuses tables with a session in progress so no unpaid
// session disappears with its table.
func (s *CatalogService) RemoveTable(id string) error {
	return s.State.Update(func(st *domain.AggregateState, _ time.Time) error {
		for i, t := range st.Tables {
			if t.ID != id {
				continue
			}
			if t.Status != domain.TableAvailable {
				return fmt.Errorf("remove %s table %s: %w", t.Status, t.ID, ErrInvalidState)
			}
			st.Tables = append(st.Tables[:i], st.Tables[i+1:]...)
			return nil
		}
		return fmt.Errorf("table %s: %w", id, ErrNotFound)
	})
}

// TablePatch updates the presentation attributes of a table.
type TablePatch struct {
	Name            *string          `json:"name"`
	PriceCategoryID *string          `json:"priceCategoryId"`
	Position        *domain.Position `json:"position"`
	Size            *domain.Size     `json:"size"`
}

func (s *CatalogService) UpdateTable(id string, p TablePatch) (domain.BilliardTable, error) {
	var name string
	if p.Name != nil {
		n, err := cleanName(*p.Name)
		if err != nil {
			return domain.BilliardTable{}, err
		}
		name = n
	}
	if p.Size != nil && (p.Size.Width <= 0 || p.Size.Height <= 0) {
		return domain.BilliardTable{}, fmt.Errorf("table size: %w", ErrInvalidInput)
	}
	var out domain.BilliardTable
	err := s.State.Update(func(st *domain.AggregateState, _ time.Time) error {
		t, err := findTable(st, id)
		if err != nil {
			return err
		}
		if p.Name != nil {
			t.Name = name
		}
		if p.PriceCategoryID != nil {
			if *p.PriceCategoryID != "" && !hasCategory(st, *p.PriceCategoryID) {
				return fmt.Errorf("price category %s: %w", *p.PriceCategoryID, ErrNotFound)
			}
			t.PriceCategoryID = *p.PriceCategoryID
		}
		if p.Position != nil {
			t.Position = *p.Position
		}
		if p.Size != nil {
			t.Size = *p.Size
		}
		out = *t
		if t.CurrentSession != nil {
			cs := t.CurrentSession.Clone()
			out.CurrentSession = &cs
		}
		return nil
	})
	return out, err
}

// ---------- Retail items ----------

func (s *CatalogService) AddRetailItem(it domain.RetailItem) (domain.RetailItem, error) {
	name, err := cleanName(it.Name)
	if err != nil {
		return domain.RetailItem{}, err
	}
	if it.Price < 0 || it.Stock < 0 {
		return domain.RetailItem{}, fmt.Errorf("price/stock must not be negative: %w", ErrInvalidInput)
	}
	it.ID = newID("item")
	it.Name = name
	it.Category = strings.TrimSpace(it.Category)
	err = s.State.Update(func(st *domain.AggregateState, _ time.Time) error {
		st.RetailItems = append(st.RetailItems, it)
		return nil
	})
	return it, err
}

type ItemPatch struct {
	Name     *string  `json:"name"`
	Price    *float64 `json:"price"`
	Category *string  `json:"category"`
	Stock    *int     `json:"stock"`
}

func (s *CatalogService) UpdateRetailItem(id string, p ItemPatch) (domain.RetailItem, error) {
	if p.Name != nil {
		n, err := cleanName(*p.Name)
		if err != nil {
			return domain.RetailItem{}, err
		}
		p.Name = &n
	}
	if (p.Price != nil && *p.Price < 0) || (p.Stock != nil && *p.Stock < 0) {
		return domain.RetailItem{}, fmt.Errorf("price/stock must not be negative: %w", ErrInvalidInput)
	}
	var out domain.RetailItem
	err := s.State.Update(func(st *domain.AggregateState, _ time.Time) error {
		it, err := findItem(st, id)
		if err != nil {
			return err
		}
		if p.Name != nil {
			it.Name = *p.Name
		}
		if p.Price != nil {
			it.Price = *p.Price
		}
		if p.Category != nil {
			it.Category = strings.TrimSpace(*p.Category)
		}
		if p.Stock != nil {
			it.Stock = *p.Stock
		}
		out = *it
		return nil
	})
	return out, err
}

func (s *CatalogService) RemoveRetailItem(id string) error {
	return s.State.Update(func(st *domain.AggregateState, _ time.Time) error {
		for i := range st.RetailItems {
			if st.RetailItems[i].ID == id {
				st.RetailItems = append(st.RetailItems[:i], st.RetailItems[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("item %s: %w", id, ErrNotFound)
	})
}

func findItem(st *domain.AggregateState, id string) (*domain.RetailItem, error) {
	for i := range st.RetailItems {
		if st.RetailItems[i].ID == id {
			return &st.RetailItems[i], nil
		}
	}
	return nil, fmt.Errorf("item %s: %w", id, ErrNotFound)
}
