package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/adapters/http/mapper"
	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/application/types"
	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/domain"
	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/ports"
)

// ExportsAPI wires HTTP transport with the exports bounded context service
// and its optional durable workflow orchestrator.
type ExportsAPI struct {
	service   ports.Service
	workflows ports.WorkflowOrchestrator
}

// NewExportsAPI creates an ExportsAPI backed by the provided service.
func NewExportsAPI(service ports.Service, workflows ports.WorkflowOrchestrator) ExportsAPI {
	return ExportsAPI{service: service, workflows: workflows}
}

// Post /v1/exports
// Create an export order, verifying and decrementing stock per item
func (api *ExportsAPI) CreateExportOrder(c *gin.Context) {
	var payload mapper.CreateExportOrder
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	created, err := api.createOrder(c.Request.Context(), mapper.ToCreateInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.FromDomain(created))
}

func (api *ExportsAPI) createOrder(ctx context.Context, input types.CreateExportOrderInput) (*domain.ExportOrder, error) {
	if api.workflows != nil {
		return api.workflows.CreateExportOrder(ctx, input)
	}
	return api.service.CreateExportOrder(ctx, input)
}

// Get /v1/exports
// List export orders with pagination, search, and active filtering
func (api *ExportsAPI) ListExportOrders(c *gin.Context) {
	input := types.ListExportOrdersInput{Search: c.Query("search")}
	page, ok := parseIntQuery(c, "page")
	if !ok {
		return
	}
	input.Page = page
	limit, ok := parseIntQuery(c, "limit")
	if !ok {
		return
	}
	input.Limit = limit
	if raw := c.Query("isActive"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			respondBadRequest(c, err)
			return
		}
		input.IsActive = &active
	}
	result, err := api.service.ListExportOrders(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromPage(result))
}

// Get /v1/exports/:id
// Find an export order by ID
func (api *ExportsAPI) GetExportOrder(c *gin.Context) {
	detail, err := api.service.GetExportOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDetail(detail))
}

func parseIntQuery(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		respondBadRequest(c, err)
		return 0, false
	}
	return value, true
}
