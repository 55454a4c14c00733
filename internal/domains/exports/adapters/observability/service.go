package observability

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/application"
	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/application/types"
	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/domain"
	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/ports"
)

const tracerName = "github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/adapters/observability/service"

// Service decorates the exports service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core exports service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) CreateExportOrder(ctx context.Context, input types.CreateExportOrderInput) (*domain.ExportOrder, error) {
	ctx, span := s.tracer.Start(ctx, "ExportsService.CreateExportOrder",
		trace.WithAttributes(
			attribute.String("order.number", input.OrderNumber),
			attribute.Int("order.items", len(input.Items)),
		))
	defer span.End()

	s.logInfo(ctx, "creating export order",
		slog.String("order_number", input.OrderNumber),
		slog.Int("items", len(input.Items)))
	result, err := s.inner.CreateExportOrder(ctx, input)
	if err != nil {
		reason := rejectionReason(err)
		s.metrics.recordRejected(ctx, reason)
		if errors.Is(err, application.ErrInconsistentState) {
			s.metrics.recordInconsistent(ctx)
		} else if errors.Is(err, application.ErrCompensatedFailure) {
			s.metrics.recordCompensated(ctx)
		}
		span.SetAttributes(attribute.String("order.rejection_reason", reason))
		return nil, s.handleError(ctx, span, err, "export order creation failed",
			slog.String("order_number", input.OrderNumber),
			slog.String("reason", reason))
	}
	s.metrics.recordCreated(ctx)
	s.logInfo(ctx, "export order created",
		slog.String("order_id", result.ID),
		slog.String("order_number", result.OrderNumber))
	return result, nil
}

func (s *Service) ListExportOrders(ctx context.Context, input types.ListExportOrdersInput) (*types.ExportOrderPage, error) {
	ctx, span := s.tracer.Start(ctx, "ExportsService.ListExportOrders",
		trace.WithAttributes(attribute.Int("page", input.Page), attribute.Int("limit", input.Limit)))
	defer span.End()

	result, err := s.inner.ListExportOrders(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list export orders")
	}
	span.SetAttributes(attribute.Int64("total", result.Meta.Total))
	return result, nil
}

func (s *Service) GetExportOrder(ctx context.Context, id string) (*types.ExportOrderDetail, error) {
	ctx, span := s.tracer.Start(ctx, "ExportsService.GetExportOrder",
		trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	result, err := s.inner.GetExportOrder(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			span.SetStatus(codes.Error, "not found")
			return nil, err
		}
		return nil, s.handleError(ctx, span, err, "failed to load export order", slog.String("order_id", id))
	}
	return result, nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, application.ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, application.ErrDuplicateOrder):
		return "duplicate_order"
	case errors.Is(err, application.ErrStockUnavailable):
		return "stock_unavailable"
	case errors.Is(err, application.ErrInconsistentState):
		return "inconsistent_state"
	case errors.Is(err, application.ErrCompensatedFailure):
		return "compensated"
	case errors.Is(err, ports.ErrUpstreamTimeout):
		return "upstream_timeout"
	case errors.Is(err, ports.ErrUpstreamFailure):
		return "upstream_failure"
	case errors.Is(err, application.ErrPersistenceFailure):
		return "persistence"
	default:
		return "other"
	}
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

type serviceMetrics struct {
	ordersCreated      metric.Int64Counter
	creationsRejected  metric.Int64Counter
	compensations      metric.Int64Counter
	inconsistentOrders metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("exports.service.orders_created",
		metric.WithDescription("Number of export orders created"))
	rejected, _ := m.Int64Counter("exports.service.creations_rejected",
		metric.WithDescription("Number of export order creations rejected, by reason"))
	compensated, _ := m.Int64Counter("exports.service.compensations",
		metric.WithDescription("Number of creations rolled back after a stock decrement failure"))
	inconsistent, _ := m.Int64Counter("exports.service.inconsistent_state_incidents",
		metric.WithDescription("Number of orders left persisted without a confirmed stock decrement"))
	return serviceMetrics{
		ordersCreated:      created,
		creationsRejected:  rejected,
		compensations:      compensated,
		inconsistentOrders: inconsistent,
	}
}

func (m serviceMetrics) recordCreated(ctx context.Context) {
	if m.ordersCreated != nil {
		m.ordersCreated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordRejected(ctx context.Context, reason string) {
	if m.creationsRejected != nil {
		m.creationsRejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	}
}

func (m serviceMetrics) recordCompensated(ctx context.Context) {
	if m.compensations != nil {
		m.compensations.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordInconsistent(ctx context.Context) {
	if m.inconsistentOrders != nil {
		m.inconsistentOrders.Add(ctx, 1)
	}
}

var _ ports.Service = (*Service)(nil)
