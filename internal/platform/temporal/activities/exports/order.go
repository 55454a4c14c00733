package exports

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/application"
	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/application/types"
	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/domain"
	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/ports"
)

const (
	// PrepareOrderActivityName validates the payload and runs the duplicate pre-check.
	PrepareOrderActivityName = "exports.activities.PrepareOrder"
	// VerifyStockActivityName checks availability for every order item.
	VerifyStockActivityName = "exports.activities.VerifyStock"
	// PersistOrderActivityName writes the order and its items atomically.
	PersistOrderActivityName = "exports.activities.PersistOrder"
	// CommitStockActivityName decrements stock item by item.
	CommitStockActivityName = "exports.activities.CommitStock"
	// CompensateOrderActivityName deletes a persisted order after a failed commit.
	CompensateOrderActivityName = "exports.activities.CompensateOrder"
)

// Application error types carried across the activity boundary. The workflow
// orchestrator adapter maps them back onto the application error taxonomy.
const (
	ErrTypeInvalidRequest      = "InvalidRequest"
	ErrTypeDuplicateOrder      = "DuplicateOrder"
	ErrTypeStockShortage       = "StockShortage"
	ErrTypeStockVerification   = "StockVerification"
	ErrTypePersistenceFailure  = "PersistenceFailure"
	ErrTypeStockCommitFailure  = "StockCommitFailure"
	ErrTypeCompensatedFailure  = "CompensatedFailure"
	ErrTypeInconsistentState   = "InconsistentState"
	ErrTypeCompensationFailure = "CompensationFailure"
)

// StockShortageDetails serializes the shortage across the activity boundary.
type StockShortageDetails struct {
	ProductID   string
	ProductName string
	Requested   int32
	Available   int32
}

// CompensateOrderInput identifies the persisted order to roll back.
type CompensateOrderInput struct {
	OrderID     string
	OrderNumber string
	Cause       string
}

// Activities groups activities that operate on the exports bounded context.
type Activities struct {
	repo  ports.Repository
	stock ports.StockGateway
}

// NewActivities wires the exports collaborators into the Temporal activities bundle.
func NewActivities(repo ports.Repository, stock ports.StockGateway) *Activities {
	return &Activities{repo: repo, stock: stock}
}

// PrepareOrder builds the domain aggregate from the payload and rejects order
// numbers that already exist. The storage unique constraint stays the source
// of truth; this only rejects the common case before remote calls are made.
func (a *Activities) PrepareOrder(ctx context.Context, input types.CreateExportOrderInput) (*domain.ExportOrder, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.repo == nil {
		return nil, errors.New("prepare order activity not initialized")
	}
	order, err := application.BuildOrder(input)
	if err != nil {
		logger.Error("PrepareOrder rejected payload", "orderNumber", input.OrderNumber, "error", err)
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidRequest, err)
	}
	_, err = a.repo.FindByOrderNumber(ctx, order.OrderNumber)
	switch {
	case err == nil:
		logger.Info("PrepareOrder found existing order number", "orderNumber", order.OrderNumber)
		return nil, temporal.NewNonRetryableApplicationError("order number already exists", ErrTypeDuplicateOrder, nil)
	case errors.Is(err, ports.ErrNotFound):
		return order, nil
	default:
		logger.Error("PrepareOrder pre-check failed", "orderNumber", order.OrderNumber, "error", err)
		return nil, temporal.NewApplicationError(err.Error(), ErrTypePersistenceFailure)
	}
}

// VerifyStock checks availability item by item, stopping at the first item
// that cannot be confirmed.
func (a *Activities) VerifyStock(ctx context.Context, order *domain.ExportOrder) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.stock == nil {
		return errors.New("verify stock activity not initialized")
	}
	for i := range order.Items {
		item := &order.Items[i]
		check, err := a.stock.CheckStock(ctx, item.ProductID, item.WarehouseID, item.QuantityOrdered)
		if err != nil {
			logger.Error("VerifyStock call failed", "orderNumber", order.OrderNumber, "productId", item.ProductID, "error", err)
			return temporal.NewApplicationError(err.Error(), ErrTypeStockVerification)
		}
		if !check.Available {
			logger.Info("VerifyStock rejected item",
				"orderNumber", order.OrderNumber,
				"productId", item.ProductID,
				"requested", item.QuantityOrdered,
				"available", check.AvailableQuantity)
			details := StockShortageDetails{
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				Requested:   item.QuantityOrdered,
				Available:   check.AvailableQuantity,
			}
			return temporal.NewNonRetryableApplicationError("insufficient stock", ErrTypeStockShortage, nil, details)
		}
	}
	return nil
}

// PersistOrder stores the order and its items in one transaction.
func (a *Activities) PersistOrder(ctx context.Context, order *domain.ExportOrder) (*domain.ExportOrder, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.repo == nil {
		return nil, errors.New("persist order activity not initialized")
	}
	created, err := a.repo.CreateWithItems(ctx, order)
	if err != nil {
		if errors.Is(err, ports.ErrConflict) {
			logger.Info("PersistOrder lost order number race", "orderNumber", order.OrderNumber)
			return nil, temporal.NewNonRetryableApplicationError("order number already exists", ErrTypeDuplicateOrder, err)
		}
		logger.Error("PersistOrder failed", "orderNumber", order.OrderNumber, "error", err)
		return nil, temporal.NewApplicationError(err.Error(), ErrTypePersistenceFailure)
	}
	logger.Info("PersistOrder completed", "orderId", created.ID, "orderNumber", created.OrderNumber)
	return created, nil
}

// CommitStock decrements stock for each item in check order, one at a time.
// A failure on item k never attempts items k+1..n. The decrement is not
// idempotent, so the workflow runs this activity with a single attempt.
func (a *Activities) CommitStock(ctx context.Context, order *domain.ExportOrder) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.stock == nil {
		return errors.New("commit stock activity not initialized")
	}
	for i := range order.Items {
		item := &order.Items[i]
		committed, err := a.stock.DecrementStock(ctx, item.ProductID, item.QuantityOrdered)
		if err != nil {
			logger.Error("CommitStock call failed", "orderId", order.ID, "productId", item.ProductID, "error", err)
			return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeStockCommitFailure, err)
		}
		if !committed {
			logger.Error("CommitStock rejected", "orderId", order.ID, "productId", item.ProductID)
			return temporal.NewNonRetryableApplicationError("inventory rejected stock decrement", ErrTypeStockCommitFailure, nil)
		}
	}
	return nil
}

// CompensateOrder removes the persisted order after a failed commit. A missing
// order counts as already undone, so retries of this activity are safe.
func (a *Activities) CompensateOrder(ctx context.Context, input CompensateOrderInput) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.repo == nil {
		return errors.New("compensate order activity not initialized")
	}
	err := a.repo.DeleteByID(ctx, input.OrderID)
	if err != nil && !errors.Is(err, ports.ErrNotFound) {
		logger.Error("CompensateOrder delete failed",
			"orderId", input.OrderID,
			"orderNumber", input.OrderNumber,
			"cause", input.Cause,
			"error", err)
		return temporal.NewApplicationError(err.Error(), ErrTypeCompensationFailure)
	}
	if errors.Is(err, ports.ErrNotFound) {
		logger.Info("CompensateOrder found order already gone", "orderId", input.OrderID)
	}
	logger.Info("CompensateOrder completed", "orderId", input.OrderID, "orderNumber", input.OrderNumber)
	return nil
}
