package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/domain"
	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/ports"
)

// sagaPhase names a state of the creation saga. Transitions are linear with
// two escape states: rejectedEarly (no side effects remain) and compensated
// (local write undone). inconsistent is the terminal failure of compensation.
type sagaPhase string

const (
	phaseValidating      sagaPhase = "validating"
	phaseCheckingStock   sagaPhase = "checking_stock"
	phasePersisting      sagaPhase = "persisting"
	phaseCommittingStock sagaPhase = "committing_stock"
	phaseCompleted       sagaPhase = "completed"
	phaseRejectedEarly   sagaPhase = "rejected_early"
	phaseCompensated     sagaPhase = "compensated"
	phaseInconsistent    sagaPhase = "inconsistent"
)

// creationSaga orchestrates one export order creation. A saga instance is
// request-scoped and single-goroutine: stock checks and decrements run
// sequentially so that "stop at first failure" is well-defined and failure
// ordering is deterministic. Concurrent instances share no in-process state;
// the storage unique constraint arbitrates order-number races.
type creationSaga struct {
	repo   ports.Repository
	stock  ports.StockGateway
	logger *slog.Logger

	phase     sagaPhase
	order     *domain.ExportOrder
	persisted *domain.ExportOrder
	// attempted counts DecrementStock calls made, successful or not. Items
	// beyond the first failure are never attempted.
	attempted int
}

func newCreationSaga(repo ports.Repository, stock ports.StockGateway, logger *slog.Logger, order *domain.ExportOrder) *creationSaga {
	return &creationSaga{
		repo:   repo,
		stock:  stock,
		logger: logger,
		phase:  phaseValidating,
		order:  order,
	}
}

// run drives the saga to one of its terminal phases. Once persist has
// succeeded the saga always reaches completed, compensated, or inconsistent;
// it is never abandoned mid-flight.
func (s *creationSaga) run(ctx context.Context) (*domain.ExportOrder, error) {
	if err := s.validate(ctx); err != nil {
		s.phase = phaseRejectedEarly
		return nil, err
	}
	if err := s.checkStock(ctx); err != nil {
		s.phase = phaseRejectedEarly
		return nil, err
	}
	if err := s.persist(ctx); err != nil {
		s.phase = phaseRejectedEarly
		return nil, err
	}
	if err := s.commitStock(ctx); err != nil {
		return nil, s.compensate(ctx, err)
	}
	s.phase = phaseCompleted
	return s.persisted, nil
}

// validate performs the best-effort duplicate pre-check. The storage unique
// constraint remains the source of truth; this only rejects the common case
// before any remote call is made.
func (s *creationSaga) validate(ctx context.Context) error {
	_, err := s.repo.FindByOrderNumber(ctx, s.order.OrderNumber)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %q", ErrDuplicateOrder, s.order.OrderNumber)
	case errors.Is(err, ports.ErrNotFound):
		s.phase = phaseCheckingStock
		return nil
	default:
		return fmt.Errorf("%w: order number pre-check: %w", ErrPersistenceFailure, err)
	}
}

// checkStock verifies availability for every item in caller order, aborting on
// the first negative or failed check. No reservation is taken: two concurrent
// orders can both pass this phase against the same limited stock, and only one
// decrement will succeed downstream. That window is accepted.
func (s *creationSaga) checkStock(ctx context.Context) error {
	for i := range s.order.Items {
		item := &s.order.Items[i]
		check, err := s.stock.CheckStock(ctx, item.ProductID, item.WarehouseID, item.QuantityOrdered)
		if err != nil {
			s.logCheckFailure(ctx, item, err)
			return fmt.Errorf("%w: %w", ErrStockVerification, err)
		}
		if !check.Available {
			shortage := &StockShortageError{
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				Requested:   item.QuantityOrdered,
				Available:   check.AvailableQuantity,
			}
			s.logInfo(ctx, "stock check rejected",
				slog.String("order_number", s.order.OrderNumber),
				slog.String("product_id", item.ProductID),
				slog.Int("requested", int(item.QuantityOrdered)),
				slog.Int("available", int(check.AvailableQuantity)))
			return shortage
		}
	}
	s.phase = phasePersisting
	return nil
}

// persist writes the order and its items in one transaction. A late Conflict
// means another saga won the order-number race; it is an ordinary rejection.
func (s *creationSaga) persist(ctx context.Context) error {
	created, err := s.repo.CreateWithItems(ctx, s.order)
	if err != nil {
		if errors.Is(err, ports.ErrConflict) {
			return fmt.Errorf("%w: %q", ErrDuplicateOrder, s.order.OrderNumber)
		}
		return fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
	}
	s.persisted = created
	s.phase = phaseCommittingStock
	return nil
}

// commitStock decrements stock for each item in the same order the checks ran,
// strictly one at a time. A failure on item k never attempts items k+1..n.
func (s *creationSaga) commitStock(ctx context.Context) error {
	for i := range s.persisted.Items {
		item := &s.persisted.Items[i]
		s.attempted++
		committed, err := s.stock.DecrementStock(ctx, item.ProductID, item.QuantityOrdered)
		if err != nil {
			s.logError(ctx, "stock decrement call failed", err,
				slog.String("order_id", s.persisted.ID),
				slog.String("product_id", item.ProductID),
				slog.Bool("timeout", errors.Is(err, ports.ErrUpstreamTimeout)))
			return fmt.Errorf("decrement stock for product %s: %w", item.ProductID, err)
		}
		if !committed {
			s.logError(ctx, "stock decrement rejected", nil,
				slog.String("order_id", s.persisted.ID),
				slog.String("product_id", item.ProductID))
			return fmt.Errorf("inventory rejected stock decrement for product %s", item.ProductID)
		}
	}
	return nil
}

// compensate undoes the local write after a commit-phase failure. The delete
// is idempotent from the saga's perspective: not-found counts as undone. When
// the delete itself fails, the order stays in storage with its stock not (or
// only partially) decremented and the incident is surfaced, never hidden.
func (s *creationSaga) compensate(ctx context.Context, cause error) error {
	err := s.repo.DeleteByID(ctx, s.persisted.ID)
	if err != nil && !errors.Is(err, ports.ErrNotFound) {
		s.phase = phaseInconsistent
		s.logError(ctx, "DATA INTEGRITY INCIDENT: compensating delete failed, export order persisted without confirmed stock decrement", err,
			slog.String("order_id", s.persisted.ID),
			slog.String("order_number", s.persisted.OrderNumber),
			slog.Int("decrements_attempted", s.attempted),
			slog.Int("items_total", len(s.persisted.Items)),
			slog.String("cause", cause.Error()))
		return fmt.Errorf("%w: order %s (%s): %w", ErrInconsistentState, s.persisted.ID, s.persisted.OrderNumber, errors.Join(cause, err))
	}
	if errors.Is(err, ports.ErrNotFound) {
		s.logInfo(ctx, "compensating delete found order already gone",
			slog.String("order_id", s.persisted.ID))
	}
	s.phase = phaseCompensated
	s.logInfo(ctx, "export order rolled back after stock adjustment failure",
		slog.String("order_id", s.persisted.ID),
		slog.String("order_number", s.persisted.OrderNumber),
		slog.Int("decrements_attempted", s.attempted))
	return fmt.Errorf("%w: %w", ErrCompensatedFailure, cause)
}

func (s *creationSaga) logCheckFailure(ctx context.Context, item *domain.ExportOrderItem, err error) {
	s.logError(ctx, "stock check call failed", err,
		slog.String("order_number", s.order.OrderNumber),
		slog.String("product_id", item.ProductID),
		slog.Bool("timeout", errors.Is(err, ports.ErrUpstreamTimeout)))
}

func (s *creationSaga) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	attrs = append(attrs, slog.String("saga_phase", string(s.phase)))
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *creationSaga) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	attrs = append(attrs, slog.String("saga_phase", string(s.phase)))
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}
