//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	// Contract between the CRM frontend and this service.
	ProviderName = "exports-api"
	ConsumerName = "crm-portal"

	// Contract between this service and the inventory microservice.
	InventoryProviderName = "inventory-ms"
	InventoryConsumerName = "exports-ms"

	StateExportsBaseline   = "export orders baseline"
	StateOrderExists       = "export order EXP-100 exists"
	StateOrderMissing      = "no export order with the requested id"
	StateStockAvailable    = "stock available for product p-1"
	StateStockShort        = "stock short for product p-9"
	StateDecrementAccepted = "decrement accepted for product p-1"
)

const (
	ExistingOrderNumber = "EXP-100"
	ExistingOrderID     = "8f14e45f-ceea-4e67-8d5a-2b1f0b7c9a01"
	MissingOrderID      = "00000000-0000-0000-0000-000000000404"

	AvailableProductID = "p-1"
	ShortProductID     = "p-9"
	PactWarehouseID    = "w-1"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the CRM portal consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// InventoryPactFile returns the pact file path for the inventory contract.
func InventoryPactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), InventoryConsumerName+"-"+InventoryProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleOrderPayload provides stable test data for export order interactions.
func ExampleOrderPayload() map[string]any {
	return map[string]any{
		"orderNumber":      ExistingOrderNumber,
		"modality":         "national",
		"salePlace":        "warehouse",
		"deliveryModality": "pickup",
		"items": []map[string]any{
			{
				"productId":       AvailableProductID,
				"warehouseId":     PactWarehouseID,
				"productName":     "Pact Widget",
				"quantityOrdered": 3,
				"priceUnit":       10.5,
				"currency":        "USD",
			},
		},
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
