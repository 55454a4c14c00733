package workflows

import (
	"context"
	"errors"
	"fmt"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/application"
	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/application/types"
	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/domain"
	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/ports"
	exportactivities "github.com/Sistema-CRM-Ariol/exports-ms/internal/platform/temporal/activities/exports"
	exportworkflows "github.com/Sistema-CRM-Ariol/exports-ms/internal/platform/temporal/workflows/exports"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalExportWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineExportWorkflows)(nil)
)

// TemporalExportWorkflows starts export order workflows on a Temporal cluster.
type TemporalExportWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalExportWorkflows wires a Temporal client into the orchestrator.
func NewTemporalExportWorkflows(c client.Client) *TemporalExportWorkflows {
	return &TemporalExportWorkflows{client: c, taskQueue: exportworkflows.OrderCreationTaskQueue}
}

// CreateExportOrder starts the durable creation workflow. The order number acts
// as the idempotency key: a second submission for the same number attaches to
// the running workflow instead of starting another saga.
func (o *TemporalExportWorkflows) CreateExportOrder(ctx context.Context, input types.CreateExportOrderInput) (*domain.ExportOrder, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal export workflows not configured")
	}
	workflowID := fmt.Sprintf("export-order-creation-%s", input.OrderNumber)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		exportworkflows.OrderCreationWorkflow,
		exportworkflows.OrderCreationWorkflowInput{Command: input, TraceID: workflowTraceID(ctx)},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			existingRun := o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
			var order domain.ExportOrder
			if err := existingRun.Get(ctx, &order); err != nil {
				return nil, mapWorkflowError(err)
			}
			return &order, nil
		}
		return nil, err
	}
	var order domain.ExportOrder
	if err := run.Get(ctx, &order); err != nil {
		return nil, mapWorkflowError(err)
	}
	return &order, nil
}

// InlineExportWorkflows executes the service directly without Temporal, useful
// for tests or dev fallbacks.
type InlineExportWorkflows struct {
	service ports.Service
}

// NewInlineExportWorkflows wraps the exports service for synchronous execution.
func NewInlineExportWorkflows(service ports.Service) *InlineExportWorkflows {
	return &InlineExportWorkflows{service: service}
}

// CreateExportOrder delegates to the application service without durable orchestration.
func (o *InlineExportWorkflows) CreateExportOrder(ctx context.Context, input types.CreateExportOrderInput) (*domain.ExportOrder, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline export workflows not configured")
	}
	return o.service.CreateExportOrder(ctx, input)
}

// mapWorkflowError converts errors crossing the Temporal boundary back onto
// the application error taxonomy so HTTP mapping behaves identically for both
// orchestrators.
func mapWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case exportactivities.ErrTypeInvalidRequest:
		return fmt.Errorf("%w: %s", application.ErrInvalidRequest, appErr.Message())
	case exportactivities.ErrTypeDuplicateOrder:
		return fmt.Errorf("%w: %s", application.ErrDuplicateOrder, appErr.Message())
	case exportactivities.ErrTypeStockShortage:
		var details exportactivities.StockShortageDetails
		if appErr.HasDetails() {
			if detailsErr := appErr.Details(&details); detailsErr == nil {
				return &application.StockShortageError{
					ProductID:   details.ProductID,
					ProductName: details.ProductName,
					Requested:   details.Requested,
					Available:   details.Available,
				}
			}
		}
		return fmt.Errorf("%w: %w: %s", application.ErrStockVerification, application.ErrStockUnavailable, appErr.Message())
	case exportactivities.ErrTypeStockVerification:
		return fmt.Errorf("%w: %s", application.ErrStockVerification, appErr.Message())
	case exportactivities.ErrTypePersistenceFailure:
		return fmt.Errorf("%w: %s", application.ErrPersistenceFailure, appErr.Message())
	case exportactivities.ErrTypeCompensatedFailure:
		return fmt.Errorf("%w: %s", application.ErrCompensatedFailure, appErr.Message())
	case exportactivities.ErrTypeInconsistentState:
		return fmt.Errorf("%w: %s", application.ErrInconsistentState, appErr.Message())
	default:
		return err
	}
}

func workflowTraceID(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span == nil {
		return ""
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() || !spanCtx.TraceID().IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
