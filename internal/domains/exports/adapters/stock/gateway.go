// Package stock adapts the inventory HTTP client to the StockGateway port.
package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sistema-CRM-Ariol/exports-ms/internal/clients/http/inventory"
	"github.com/Sistema-CRM-Ariol/exports-ms/internal/domains/exports/ports"
)

var _ ports.StockGateway = (*Gateway)(nil)

// Gateway maps inventory client calls and failures onto the port contract.
// Deadline expiry becomes ErrUpstreamTimeout, everything else transport-level
// becomes ErrUpstreamFailure, so the saga can log the two apart while treating
// them identically for state purposes.
type Gateway struct {
	client *inventory.Client
}

// NewGateway wires the inventory client into the stock port.
func NewGateway(client *inventory.Client) *Gateway {
	return &Gateway{client: client}
}

// CheckStock asks the inventory service for availability.
func (g *Gateway) CheckStock(ctx context.Context, productID, warehouseID string, quantity int32) (*ports.StockCheck, error) {
	if g == nil || g.client == nil {
		return nil, errors.New("stock gateway not configured")
	}
	resp, err := g.client.CheckStock(ctx, inventory.CheckStockRequest{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    quantity,
	})
	if err != nil {
		return nil, classify(err)
	}
	return &ports.StockCheck{
		Available:         resp.OK,
		AvailableQuantity: resp.Available,
	}, nil
}

// DecrementStock commits a decrement. committed=false is passed through as a
// normal negative outcome.
func (g *Gateway) DecrementStock(ctx context.Context, productID string, quantity int32) (bool, error) {
	if g == nil || g.client == nil {
		return false, errors.New("stock gateway not configured")
	}
	resp, err := g.client.DecrementStock(ctx, inventory.DecrementStockRequest{
		ProductID: productID,
		Quantity:  quantity,
	})
	if err != nil {
		return false, classify(err)
	}
	return resp.OK, nil
}

func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ports.ErrUpstreamTimeout, err)
	}
	return fmt.Errorf("%w: %v", ports.ErrUpstreamFailure, err)
}
