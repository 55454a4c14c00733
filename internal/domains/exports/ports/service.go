package ports

import (
	"context"

	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/application/types"
	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/domain"
)

// Service exposes the export order use cases to inbound adapters.
type Service interface {
	// CreateExportOrder runs the creation saga: uniqueness pre-check, per-item
	// stock check, atomic persistence, per-item stock decrement, and local
	// compensation when the decrement phase fails.
	CreateExportOrder(ctx context.Context, input types.CreateExportOrderInput) (*domain.ExportOrder, error)
	// ListExportOrders returns a filtered, paginated page, newest update first.
	ListExportOrders(ctx context.Context, input types.ListExportOrdersInput) (*types.ExportOrderPage, error)
	// GetExportOrder loads one order with its items and computed total.
	GetExportOrder(ctx context.Context, id string) (*types.ExportOrderDetail, error)
}
