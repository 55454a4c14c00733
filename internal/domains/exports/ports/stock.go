package ports

import (
	"context"
	"errors"
)

var (
	// ErrUpstreamTimeout indicates the inventory service did not answer within
	// the configured deadline.
	ErrUpstreamTimeout = errors.New("inventory service timed out")
	// ErrUpstreamFailure indicates a transport or protocol level failure while
	// talking to the inventory service.
	ErrUpstreamFailure = errors.New("inventory service call failed")
)

// StockCheck is the answer to an availability question. A non-available result
// is a normal business outcome, not an error.
type StockCheck struct {
	Available         bool
	AvailableQuantity int32
}

// StockGateway abstracts the remote inventory service. Implementations bound
// every call by a timeout and perform no retries: CheckStock is safe to retry
// upstream, DecrementStock is not idempotent and must never be blindly retried.
type StockGateway interface {
	// CheckStock asks whether the warehouse can satisfy the requested quantity.
	CheckStock(ctx context.Context, productID, warehouseID string, quantity int32) (*StockCheck, error)
	// DecrementStock commits a stock decrement. committed=false is a normal
	// negative outcome; transport and timeout problems surface as errors.
	DecrementStock(ctx context.Context, productID string, quantity int32) (committed bool, err error)
}
