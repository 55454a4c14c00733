package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/domain"
	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory export order store. It enforces the same
// order-number uniqueness contract as the PostgreSQL adapter, so the saga's
// behavior is identical in the dev fallback.
type Repository struct {
	mu       sync.RWMutex
	byID     map[string]*domain.ExportOrder
	byNumber map[string]string
}

func NewRepository() *Repository {
	return &Repository{
		byID:     map[string]*domain.ExportOrder{},
		byNumber: map[string]string{},
	}
}

func (r *Repository) FindByOrderNumber(_ context.Context, orderNumber string) (*domain.ExportOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byNumber[strings.TrimSpace(orderNumber)]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneOrder(r.byID[id]), nil
}

func (r *Repository) CreateWithItems(_ context.Context, order *domain.ExportOrder) (*domain.ExportOrder, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byNumber[order.OrderNumber]; taken {
		return nil, ports.ErrConflict
	}
	clone := cloneOrder(order)
	if clone.ID == "" {
		clone.ID = uuid.NewString()
	}
	now := time.Now()
	clone.CreatedAt = now
	clone.UpdatedAt = now
	for i := range clone.Items {
		if clone.Items[i].ID == "" {
			clone.Items[i].ID = uuid.NewString()
		}
	}
	r.byID[clone.ID] = clone
	r.byNumber[clone.OrderNumber] = clone.ID
	return cloneOrder(clone), nil
}

func (r *Repository) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.byID[id]
	if !ok {
		return ports.ErrNotFound
	}
	delete(r.byNumber, order.OrderNumber)
	delete(r.byID, id)
	return nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.ExportOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.byID[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneOrder(order), nil
}

func (r *Repository) List(_ context.Context, filter ports.ListFilter) (*ports.ListResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	matched := make([]*domain.ExportOrder, 0, len(r.byID))
	for _, order := range r.byID {
		if search != "" && !strings.Contains(strings.ToLower(order.OrderNumber), search) {
			continue
		}
		if filter.IsActive != nil && order.IsActive != *filter.IsActive {
			continue
		}
		matched = append(matched, cloneOrder(order))
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].UpdatedAt.After(matched[j].UpdatedAt)
	})

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.Limit
	if start < 0 {
		start = 0
	}
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Limit
	if filter.Limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return &ports.ListResult{Orders: matched[start:end], Total: total}, nil
}

func cloneOrder(order *domain.ExportOrder) *domain.ExportOrder {
	if order == nil {
		return nil
	}
	clone := *order
	clone.Items = append([]domain.ExportOrderItem(nil), order.Items...)
	return &clone
}
