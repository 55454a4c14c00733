//go:build pact
// +build pact

package consumer_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"

	"github.com/Sistema-CRM-Ariol/exports-ms/internal/clients/http/inventory"
	pacttest "github.com/Sistema-CRM-Ariol/exports-ms/test/pact"
)

// TestInventoryContract exercises the real inventory client against the pact
// mock server, pinning the request and response shapes this service relies on.
func TestInventoryContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.InventoryConsumerName,
		Provider: pacttest.InventoryProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json", "application\\/json(?:;\\s?charset=utf-8)?")

	pact.AddInteraction().
		Given(pacttest.StateStockAvailable).
		UponReceiving("a stock check for an available product").
		WithRequest("POST", "/v1/stock/check", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{
				"productId":   matchers.S(pacttest.AvailableProductID),
				"warehouseId": matchers.S(pacttest.PactWarehouseID),
				"quantity":    matchers.Like(3),
			})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"ok":        matchers.Like(true),
				"available": matchers.Like(25),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateStockShort).
		UponReceiving("a stock check for a short product").
		WithRequest("POST", "/v1/stock/check", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{
				"productId":   matchers.S(pacttest.ShortProductID),
				"warehouseId": matchers.S(pacttest.PactWarehouseID),
				"quantity":    matchers.Like(5),
			})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"ok":        matchers.Like(false),
				"available": matchers.Like(2),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateDecrementAccepted).
		UponReceiving("a stock decrement for a committed order").
		WithRequest("POST", "/v1/stock/decrement", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{
				"productId": matchers.S(pacttest.AvailableProductID),
				"quantity":  matchers.Like(3),
			})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"ok": matchers.Like(true),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		host := config.Host
		if host == "" {
			host = "localhost"
		}
		client, err := inventory.NewClient(fmt.Sprintf("http://%s:%d", host, config.Port))
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		available, err := client.CheckStock(ctx, inventory.CheckStockRequest{
			ProductID:   pacttest.AvailableProductID,
			WarehouseID: pacttest.PactWarehouseID,
			Quantity:    3,
		})
		if err != nil {
			return fmt.Errorf("check stock: %w", err)
		}
		if !available.OK {
			return fmt.Errorf("expected stock to be available, got %+v", available)
		}

		short, err := client.CheckStock(ctx, inventory.CheckStockRequest{
			ProductID:   pacttest.ShortProductID,
			WarehouseID: pacttest.PactWarehouseID,
			Quantity:    5,
		})
		if err != nil {
			return fmt.Errorf("check short stock: %w", err)
		}
		if short.OK {
			return fmt.Errorf("expected shortage, got %+v", short)
		}

		decremented, err := client.DecrementStock(ctx, inventory.DecrementStockRequest{
			ProductID: pacttest.AvailableProductID,
			Quantity:  3,
		})
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		if !decremented.OK {
			return fmt.Errorf("expected decrement to commit, got %+v", decremented)
		}
		return nil
	})
	require.NoError(t, err)
}
