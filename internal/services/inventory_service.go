package services

import (
	"poolhall/internal/domain"
	"poolhall/internal/state"
)

// Availability is the stock badge shown next to a retail item.
type Availability struct {
	ItemID string `json:"itemId"`
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty"`
}

type InventoryService struct {
	State *state.Store
}

func NewInventoryService(st *state.Store) *InventoryService {
	return &InventoryService{State: st}
}

// CheckAvailability converts stock -> IN_STOCK / LOW_STOCK / OUT_OF_STOCK.
// Unknown items are reported out of stock.
func (s *InventoryService) CheckAvailability(itemID string) Availability {
	snap := s.State.Snapshot()
	it, err := findItem(&snap, itemID)
	if err != nil {
		return Availability{ItemID: itemID, Status: "OUT_OF_STOCK"}
	}
	return availabilityOf(*it)
}

// Stock lists every retail item with its availability.
func (s *InventoryService) Stock() []Availability {
	snap := s.State.Snapshot()
	out := make([]Availability, 0, len(snap.RetailItems))
	for _, it := range snap.RetailItems {
		out = append(out, availabilityOf(it))
	}
	return out
}

func availabilityOf(it domain.RetailItem) Availability {
	status := "OUT_OF_STOCK"
	switch {
	case it.Stock >= 5:
		status = "IN_STOCK"
	case it.Stock > 0:
		status = "LOW_STOCK"
	}
	return Availability{ItemID: it.ID, Status: status, Qty: it.Stock}
}
