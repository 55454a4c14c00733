package ports

import (
	"context"
	"errors"

	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/domain"
)

var (
	// ErrNotFound indicates no export order exists for the given identifier.
	ErrNotFound = errors.New("export order not found")
	// ErrConflict indicates the order number was claimed by a concurrent writer.
	// The storage-level unique constraint is the source of truth for uniqueness;
	// the saga's pre-check only short-circuits the common case.
	ErrConflict = errors.New("order number already exists")
)

// ListFilter narrows and pages the export order listing.
type ListFilter struct {
	Page     int
	Limit    int
	Search   string
	IsActive *bool
}

// ListResult carries one page of orders plus the unfiltered-by-page total.
type ListResult struct {
	Orders []*domain.ExportOrder
	Total  int64
}

// Repository persists export orders. CreateWithItems and DeleteByID form the
// local half of the creation saga and its compensation.
type Repository interface {
	// FindByOrderNumber returns the order matching the natural key, or ErrNotFound.
	FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.ExportOrder, error)
	// CreateWithItems inserts the order and all of its items as one atomic unit
	// and returns the persisted aggregate with generated identifiers. It returns
	// ErrConflict when the order number is already taken.
	CreateWithItems(ctx context.Context, order *domain.ExportOrder) (*domain.ExportOrder, error)
	// DeleteByID removes an order and, by cascade, its items. Used only for
	// compensation. Returns ErrNotFound when the order is already gone.
	DeleteByID(ctx context.Context, id string) error
	// GetByID returns the order with its items, or ErrNotFound.
	GetByID(ctx context.Context, id string) (*domain.ExportOrder, error)
	// List returns a filtered page ordered by last update, newest first.
	List(ctx context.Context, filter ListFilter) (*ListResult, error)
}
