package services

import "poolhall/internal/domain"

// ResolveRate returns the hourly rate of the table's price category, or
// defaultRate when the table has none or references a deleted one.
func ResolveRate(t domain.BilliardTable, cats []domain.PriceCategory, defaultRate float64) float64 {
	if t.PriceCategoryID == "" {
		return defaultRate
	}
	for _, c := range cats {
		if c.ID == t.PriceCategoryID {
			return c.HourlyRate
		}
	}
	return defaultRate
}
