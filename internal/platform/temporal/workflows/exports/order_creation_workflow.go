package exports

import (
	"go.temporal.io/sdk/workflow"

	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/application/types"
	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/domain"
	"github.com/Sistema-CRM-Ariol/exports-ms/internal/platform/temporal/sequences"
)

const (
	// OrderCreationWorkflowName is the public identifier for registering the workflow.
	OrderCreationWorkflowName = "exports.workflows.OrderCreation"
	// OrderCreationTaskQueue is the queue consumed by the worker processing export workflows.
	OrderCreationTaskQueue = "EXPORT_ORDER_CREATION"
)

// OrderCreationWorkflowInput captures the payload required to create an export order.
type OrderCreationWorkflowInput struct {
	Command types.CreateExportOrderInput
	TraceID string
}

// OrderCreationWorkflow orchestrates the saga that creates an export order.
func OrderCreationWorkflow(ctx workflow.Context, input OrderCreationWorkflowInput) (*domain.ExportOrder, error) {
	logger := workflow.GetLogger(ctx)
	orderNumber := input.Command.OrderNumber
	logger.Info("OrderCreationWorkflow started", withTraceID(input.TraceID, "orderNumber", orderNumber)...)
	order, err := sequences.RunOrderCreationSequence(ctx, input.Command)
	if err != nil {
		logger.Error("OrderCreationWorkflow failed", withTraceID(input.TraceID, "orderNumber", orderNumber, "error", err)...)
		return nil, err
	}
	logger.Info("OrderCreationWorkflow completed", withTraceID(input.TraceID, "orderId", order.ID, "orderNumber", order.OrderNumber)...)
	return order, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
