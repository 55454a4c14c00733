package types

import "github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/domain"

// PageMeta carries listing pagination metadata.
type PageMeta struct {
	Page     int
	LastPage int
	Total    int64
}

// ExportOrderPage is one page of the export order listing.
type ExportOrderPage struct {
	Records []*domain.ExportOrder
	Meta    PageMeta
}

// ExportOrderDetail is a single order enriched with the sum of its item totals.
type ExportOrderDetail struct {
	Order      *domain.ExportOrder
	TotalPrice float64
}
