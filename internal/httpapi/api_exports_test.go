package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/application"
	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/application/types"
	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/domain"
	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubService struct {
	createResult *domain.ExportOrder
	createErr    error
	listResult   *types.ExportOrderPage
	listErr      error
	getResult    *types.ExportOrderDetail
	getErr       error
	lastList     types.ListExportOrdersInput
}

func (s *stubService) CreateExportOrder(_ context.Context, _ types.CreateExportOrderInput) (*domain.ExportOrder, error) {
	return s.createResult, s.createErr
}

func (s *stubService) ListExportOrders(_ context.Context, input types.ListExportOrdersInput) (*types.ExportOrderPage, error) {
	s.lastList = input
	return s.listResult, s.listErr
}

func (s *stubService) GetExportOrder(_ context.Context, _ string) (*types.ExportOrderDetail, error) {
	return s.getResult, s.getErr
}

func newTestRouter(service ports.Service) *gin.Engine {
	return NewRouter(NewExportsAPI(service, nil))
}

func performRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

const createBody = `{
	"orderNumber": "EXP-001",
	"modality": "national",
	"salePlace": "warehouse",
	"deliveryModality": "pickup",
	"items": [{
		"productId": "p-1",
		"warehouseId": "w-1",
		"productName": "Widget",
		"quantityOrdered": 3,
		"priceUnit": 10.5,
		"currency": "USD"
	}]
}`

func decodeProblem(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	assert.Contains(t, recorder.Header().Get("Content-Type"), "application/problem+json")
	var problem map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &problem))
	return problem
}

func TestCreateExportOrderCreated(t *testing.T) {
	order := &domain.ExportOrder{
		ID:          "id-1",
		OrderNumber: "EXP-001",
		IsActive:    true,
		Items:       []domain.ExportOrderItem{{ID: "item-1", ProductID: "p-1", TotalPrice: 31.5}},
	}
	router := newTestRouter(&stubService{createResult: order})

	recorder := performRequest(router, http.MethodPost, "/v1/exports", createBody)

	require.Equal(t, http.StatusCreated, recorder.Code)
	var response map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "id-1", response["id"])
	assert.Equal(t, true, response["isActive"])
}

func TestCreateExportOrderMalformedBody(t *testing.T) {
	router := newTestRouter(&stubService{})

	recorder := performRequest(router, http.MethodPost, "/v1/exports", `{"orderNumber": `)

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	problem := decodeProblem(t, recorder)
	assert.Equal(t, "/problems/bad-request", problem["type"])
}

func TestCreateExportOrderStatusMapping(t *testing.T) {
	cases := []struct {
		name        string
		err         error
		wantStatus  int
		wantProblem string
	}{
		{"invalid request", fmt.Errorf("%w: modality", application.ErrInvalidRequest), http.StatusBadRequest, "/problems/validation-error"},
		{"duplicate order", fmt.Errorf("%w: EXP-001", application.ErrDuplicateOrder), http.StatusConflict, "/problems/conflict"},
		{"upstream timeout during check", fmt.Errorf("%w: %w", application.ErrStockVerification, ports.ErrUpstreamTimeout), http.StatusUnprocessableEntity, "/problems/stock-shortage"},
		{"persistence failure", fmt.Errorf("%w: db down", application.ErrPersistenceFailure), http.StatusInternalServerError, "/problems/internal-error"},
		{"compensated failure", fmt.Errorf("%w: decrement failed", application.ErrCompensatedFailure), http.StatusServiceUnavailable, "/problems/order-rolled-back"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(&stubService{createErr: tc.err})

			recorder := performRequest(router, http.MethodPost, "/v1/exports", createBody)

			require.Equal(t, tc.wantStatus, recorder.Code)
			problem := decodeProblem(t, recorder)
			assert.Equal(t, tc.wantProblem, problem["type"])
		})
	}
}

func TestCreateExportOrderStockShortageExtensions(t *testing.T) {
	shortage := &application.StockShortageError{
		ProductID:   "p-2",
		ProductName: "Gadget",
		Requested:   5,
		Available:   2,
	}
	router := newTestRouter(&stubService{createErr: shortage})

	recorder := performRequest(router, http.MethodPost, "/v1/exports", createBody)

	require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	problem := decodeProblem(t, recorder)
	assert.Equal(t, "/problems/stock-shortage", problem["type"])
	extensions, ok := problem["extensions"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "p-2", extensions["productId"])
	assert.Equal(t, "Gadget", extensions["productName"])
	assert.EqualValues(t, 5, extensions["requested"])
	assert.EqualValues(t, 2, extensions["available"])
}

func TestCreateExportOrderInconsistentState(t *testing.T) {
	err := fmt.Errorf("%w: order id-1 (EXP-001)", application.ErrInconsistentState)
	router := newTestRouter(&stubService{createErr: err})

	recorder := performRequest(router, http.MethodPost, "/v1/exports", createBody)

	require.Equal(t, http.StatusInternalServerError, recorder.Code)
	problem := decodeProblem(t, recorder)
	assert.Equal(t, "/problems/data-inconsistency", problem["type"])
	extensions, ok := problem["extensions"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, extensions["incident"])
}

func TestGetExportOrderNotFound(t *testing.T) {
	router := newTestRouter(&stubService{getErr: ports.ErrNotFound})

	recorder := performRequest(router, http.MethodGet, "/v1/exports/missing", "")

	require.Equal(t, http.StatusNotFound, recorder.Code)
	problem := decodeProblem(t, recorder)
	assert.Equal(t, "/problems/not-found", problem["type"])
}

func TestGetExportOrderIncludesTotal(t *testing.T) {
	detail := &types.ExportOrderDetail{
		Order:      &domain.ExportOrder{ID: "id-1", OrderNumber: "EXP-001"},
		TotalPrice: 63.25,
	}
	router := newTestRouter(&stubService{getResult: detail})

	recorder := performRequest(router, http.MethodGet, "/v1/exports/id-1", "")

	require.Equal(t, http.StatusOK, recorder.Code)
	var response map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, 63.25, response["totalPrice"])
}

func TestListExportOrdersParsesQuery(t *testing.T) {
	service := &stubService{listResult: &types.ExportOrderPage{
		Records: []*domain.ExportOrder{{ID: "id-1"}},
		Meta:    types.PageMeta{Page: 2, LastPage: 5, Total: 41},
	}}
	router := newTestRouter(service)

	recorder := performRequest(router, http.MethodGet, "/v1/exports?page=2&limit=10&search=EXP&isActive=true", "")

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 2, service.lastList.Page)
	assert.Equal(t, 10, service.lastList.Limit)
	assert.Equal(t, "EXP", service.lastList.Search)
	require.NotNil(t, service.lastList.IsActive)
	assert.True(t, *service.lastList.IsActive)

	var response map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	meta, ok := response["meta"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 41, meta["total"])
	assert.EqualValues(t, 5, meta["lastPage"])
}

func TestListExportOrdersRejectsBadQuery(t *testing.T) {
	router := newTestRouter(&stubService{})

	recorder := performRequest(router, http.MethodGet, "/v1/exports?page=abc", "")

	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(&stubService{})

	recorder := performRequest(router, http.MethodGet, "/healthz", "")

	require.Equal(t, http.StatusOK, recorder.Code)
}
