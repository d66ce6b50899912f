package state

import (
	"fmt"
	"time"

	"poolhall/internal/domain"
)

// Default is the state a fresh install starts from before any remote
// snapshot is applied.
func Default(now time.Time) domain.AggregateState {
	st := domain.EmptyState(now)
	st.PriceCategories = []domain.PriceCategory{
		{ID: "cat-regular", Name: "Regular", HourlyRate: 15},
		{ID: "cat-vip", Name: "VIP", HourlyRate: 25},
		{ID: "cat-vvip", Name: "VVIP", HourlyRate: 50},
	}
	positions := []domain.Position{{X: 50, Y: 50}, {X: 250, Y: 50}, {X: 450, Y: 50}, {X: 50, Y: 200}}
	for i, p := range positions {
		st.Tables = append(st.Tables, domain.BilliardTable{
			ID:       fmt.Sprintf("table-%d", i+1),
			Name:     fmt.Sprintf("Table %d", i+1),
			Status:   domain.TableAvailable,
			Position: p,
			Size:     domain.Size{Width: 176, Height: 140},
		})
	}
	st.RetailItems = []domain.RetailItem{
		{ID: "item-1", Name: "Coca-Cola", Price: 3.5, Category: "Drinks", Stock: 50},
		{ID: "item-2", Name: "Water Bottle", Price: 2.0, Category: "Drinks", Stock: 100},
		{ID: "item-3", Name: "Energy Drink", Price: 4.5, Category: "Drinks", Stock: 30},
		{ID: "item-4", Name: "Chips", Price: 2.5, Category: "Snacks", Stock: 40},
		{ID: "item-5", Name: "Candy Bar", Price: 1.5, Category: "Snacks", Stock: 60},
		{ID: "item-6", Name: "Cigarettes", Price: 12.0, Category: "Tobacco", Stock: 25},
	}
	st.Orders = []domain.Order{}
	return st
}

// Merge overlays a remote snapshot on the local state. Collections missing
// from the snapshot keep their local value; an empty table or category
// list is treated as missing so a blank store never wipes the floor plan.
func Merge(local, remote domain.AggregateState) domain.AggregateState {
	out := local.Clone()
	remote = remote.Clone()
	if len(remote.Tables) > 0 {
		out.Tables = remote.Tables
	}
	if remote.Sessions != nil {
		out.Sessions = remote.Sessions
	}
	if remote.RetailItems != nil {
		out.RetailItems = remote.RetailItems
	}
	if len(remote.PriceCategories) > 0 {
		out.PriceCategories = remote.PriceCategories
	}
	if remote.RetailSales != nil {
		out.RetailSales = remote.RetailSales
	}
	if remote.Orders != nil {
		out.Orders = remote.Orders
	}
	if remote.HourlyRate > 0 {
		out.HourlyRate = remote.HourlyRate
	}
	if remote.UpdatedAt > 0 {
		out.UpdatedAt = remote.UpdatedAt
	}
	normalize(&out)
	return out
}

// normalize repairs records written by older clients: archived sessions
// without a status are completed, orders without one likewise.
func normalize(st *domain.AggregateState) {
	for i := range st.Sessions {
		if st.Sessions[i].Status == "" {
			st.Sessions[i].Status = domain.SessionCompleted
		}
	}
	for i := range st.Orders {
		if st.Orders[i].Status == "" {
			st.Orders[i].Status = domain.OrderCompleted
		}
	}
}
