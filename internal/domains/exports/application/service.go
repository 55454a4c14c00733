package application

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/application/types"
	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/domain"
	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/ports"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// Service orchestrates the exports bounded context use cases.
type Service struct {
	repo   ports.Repository
	stock  ports.StockGateway
	logger *slog.Logger
}

// Option configures optional Service dependencies.
type Option func(*Service)

// WithLogger attaches a structured logger used by the saga's phase logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService wires the exports service with its dependencies.
func NewService(repo ports.Repository, stock ports.StockGateway, opts ...Option) *Service {
	s := &Service{repo: repo, stock: stock}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateExportOrder validates the payload and drives the creation saga to a
// terminal state. The caller only ever sees a completed order or a terminal
// error from the taxonomy in errors.go, never a half-finished order.
func (s *Service) CreateExportOrder(ctx context.Context, input types.CreateExportOrderInput) (*domain.ExportOrder, error) {
	order, err := BuildOrder(input)
	if err != nil {
		return nil, err
	}
	saga := newCreationSaga(s.repo, s.stock, s.logger, order)
	return saga.run(ctx)
}

// ListExportOrders returns a page ordered by last update, newest first.
func (s *Service) ListExportOrders(ctx context.Context, input types.ListExportOrdersInput) (*types.ExportOrderPage, error) {
	page := input.Page
	if page <= 0 {
		page = defaultPage
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	result, err := s.repo.List(ctx, ports.ListFilter{
		Page:     page,
		Limit:    limit,
		Search:   input.Search,
		IsActive: input.IsActive,
	})
	if err != nil {
		return nil, err
	}
	lastPage := int(math.Ceil(float64(result.Total) / float64(limit)))
	return &types.ExportOrderPage{
		Records: result.Orders,
		Meta: types.PageMeta{
			Page:     page,
			LastPage: lastPage,
			Total:    result.Total,
		},
	}, nil
}

// GetExportOrder loads one order with its items and the sum of stored item
// totals. The sum never recomputes unit price times quantity.
func (s *Service) GetExportOrder(ctx context.Context, id string) (*types.ExportOrderDetail, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &types.ExportOrderDetail{
		Order:      order,
		TotalPrice: order.TotalPrice(),
	}, nil
}

// BuildOrder maps a creation payload into a validated domain aggregate. It is
// shared by the inline saga and the durable workflow activities.
func BuildOrder(input types.CreateExportOrderInput) (*domain.ExportOrder, error) {
	items := make([]domain.ExportOrderItem, 0, len(input.Items))
	for _, it := range input.Items {
		item := domain.ExportOrderItem{
			ProductID:       it.ProductID,
			WarehouseID:     it.WarehouseID,
			ProductName:     it.ProductName,
			QuantityOrdered: it.QuantityOrdered,
			PriceUnit:       it.PriceUnit,
			Currency:        it.Currency,
		}
		if it.Description != nil {
			item.Description = *it.Description
		}
		item.ResolveTotal(it.TotalPrice)
		items = append(items, item)
	}
	order, err := domain.NewExportOrder(
		input.OrderNumber,
		domain.Modality(input.Modality),
		domain.SalePlace(input.SalePlace),
		domain.DeliveryModality(input.DeliveryModality),
		items,
	)
	if err != nil {
		return nil, mapError(err)
	}
	if input.Observations != nil {
		order.Observations = *input.Observations
	}
	if input.ClientID != nil {
		if _, err := uuid.Parse(*input.ClientID); err != nil {
			return nil, fmt.Errorf("%w: client id must be a valid UUID", ErrInvalidRequest)
		}
		order.ClientID = *input.ClientID
	}
	if input.CreatedBy != nil {
		if _, err := uuid.Parse(*input.CreatedBy); err != nil {
			return nil, fmt.Errorf("%w: created by must be a valid UUID", ErrInvalidRequest)
		}
		order.CreatedBy = *input.CreatedBy
	}
	return order, nil
}

var _ ports.Service = (*Service)(nil)
