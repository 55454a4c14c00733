package ports

import (
	"context"

	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/application/types"
	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/domain"
)

// WorkflowOrchestrator runs the creation saga either inline or on a durable
// workflow engine. Both paths execute the same phases with the same
// compensation policy; durability only changes where a crash resumes.
type WorkflowOrchestrator interface {
	CreateExportOrder(ctx context.Context, input types.CreateExportOrderInput) (*domain.ExportOrder, error)
}
