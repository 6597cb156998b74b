package domain

import "strings"

// StockStatusFor derives the catalog label for a stock level.
func StockStatusFor(stock int) string {
	switch {
	case stock <= 0:
		return StockStatusOut
	case stock <= LowStockThreshold:
		return StockStatusLow
	default:
		return StockStatusIn
	}
}

func (p Product) WithStockStatus() Product {
	p.Status = StockStatusFor(p.Stock)
	return p
}

// ParseSaleStatus matches raw case-insensitively and returns the canonical
// spelling.
func ParseSaleStatus(raw string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "completed":
		return SaleStatusCompleted, true
	case "pending":
		return SaleStatusPending, true
	case "cancelled":
		return SaleStatusCancelled, true
	default:
		return "", false
	}
}

func ParseCustomerStatus(raw string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "active":
		return CustomerStatusActive, true
	case "inactive":
		return CustomerStatusInactive, true
	default:
		return "", false
	}
}
