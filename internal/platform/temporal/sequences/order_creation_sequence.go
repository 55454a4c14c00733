package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/application/types"
	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/domain"
	exportactivities "github.com/Sistema-CRM-Ariol/exports-ms/internal/platform/temporal/activities/exports"
)

// RunOrderCreationSequence executes the ordered activities of the export order
// creation saga: prepare, verify stock, persist, commit stock, and on a failed
// commit the compensating delete. The commit runs with a single attempt because
// stock decrements are not idempotent; the compensation retries aggressively
// because the delete is.
func RunOrderCreationSequence(ctx workflow.Context, input types.CreateExportOrderInput) (*domain.ExportOrder, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order creation sequence started", "orderNumber", input.OrderNumber)

	prepareOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    5 * time.Second,
			MaximumAttempts:    3,
		},
	}
	verifyOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    5 * time.Second,
			MaximumAttempts:    3,
		},
	}
	persistOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 1},
	}
	commitOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 1},
	}
	compensateOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}

	var order domain.ExportOrder
	err := workflow.ExecuteActivity(
		workflow.WithActivityOptions(ctx, prepareOptions),
		exportactivities.PrepareOrderActivityName, input,
	).Get(ctx, &order)
	if err != nil {
		logger.Error("order creation sequence rejected at prepare", "orderNumber", input.OrderNumber, "error", err)
		return nil, err
	}

	if err := workflow.ExecuteActivity(
		workflow.WithActivityOptions(ctx, verifyOptions),
		exportactivities.VerifyStockActivityName, &order,
	).Get(ctx, nil); err != nil {
		logger.Error("order creation sequence rejected at stock verification", "orderNumber", order.OrderNumber, "error", err)
		return nil, err
	}

	var persisted domain.ExportOrder
	if err := workflow.ExecuteActivity(
		workflow.WithActivityOptions(ctx, persistOptions),
		exportactivities.PersistOrderActivityName, &order,
	).Get(ctx, &persisted); err != nil {
		logger.Error("order creation sequence failed at persist", "orderNumber", order.OrderNumber, "error", err)
		return nil, err
	}

	if err := workflow.ExecuteActivity(
		workflow.WithActivityOptions(ctx, commitOptions),
		exportactivities.CommitStockActivityName, &persisted,
	).Get(ctx, nil); err != nil {
		logger.Error("order creation sequence failed at stock commit, compensating",
			"orderId", persisted.ID, "orderNumber", persisted.OrderNumber, "error", err)
		return nil, compensate(ctx, compensateOptions, &persisted, err)
	}

	logger.Info("order creation sequence completed", "orderId", persisted.ID, "orderNumber", persisted.OrderNumber)
	return &persisted, nil
}

func compensate(ctx workflow.Context, options workflow.ActivityOptions, persisted *domain.ExportOrder, cause error) error {
	logger := workflow.GetLogger(ctx)
	compensateInput := exportactivities.CompensateOrderInput{
		OrderID:     persisted.ID,
		OrderNumber: persisted.OrderNumber,
		Cause:       cause.Error(),
	}
	if err := workflow.ExecuteActivity(
		workflow.WithActivityOptions(ctx, options),
		exportactivities.CompensateOrderActivityName, compensateInput,
	).Get(ctx, nil); err != nil {
		logger.Error("DATA INTEGRITY INCIDENT: compensating delete failed, export order persisted without confirmed stock decrement",
			"orderId", persisted.ID, "orderNumber", persisted.OrderNumber, "cause", cause.Error(), "error", err)
		return temporal.NewNonRetryableApplicationError(
			"order "+persisted.ID+" ("+persisted.OrderNumber+") left persisted without confirmed stock decrement",
			exportactivities.ErrTypeInconsistentState, cause)
	}
	logger.Info("order creation sequence rolled back", "orderId", persisted.ID, "orderNumber", persisted.OrderNumber)
	return temporal.NewNonRetryableApplicationError(cause.Error(), exportactivities.ErrTypeCompensatedFailure, cause)
}
