// Package inventory is the HTTP client for the remote inventory service.
package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds every inventory call unless overridden.
const DefaultTimeout = 5 * time.Second

const (
	checkStockPath     = "/v1/stock/check"
	decrementStockPath = "/v1/stock/decrement"
)

// Client talks to the inventory service. Every call is bounded by the
// configured timeout through the request context; the underlying http.Client
// carries no timeout of its own. The client performs no retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// Option configures optional client behavior.
type Option func(*Client)

// WithTimeout overrides the per-call deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithHTTPClient substitutes the transport, mainly for tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// NewClient builds an inventory client rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("inventory base URL is required")
	}
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
			},
		},
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// CheckStockRequest asks whether a warehouse can satisfy a quantity.
type CheckStockRequest struct {
	ProductID   string `json:"productId"`
	WarehouseID string `json:"warehouseId"`
	Quantity    int32  `json:"quantity"`
}

// CheckStockResponse answers an availability question. OK=false with a 200
// status is a normal negative business answer, not a transport failure.
type CheckStockResponse struct {
	OK        bool  `json:"ok"`
	Available int32 `json:"available"`
}

// DecrementStockRequest commits a stock decrement.
type DecrementStockRequest struct {
	ProductID string `json:"productId"`
	Quantity  int32  `json:"quantity"`
}

// DecrementStockResponse reports whether the decrement was applied.
type DecrementStockResponse struct {
	OK bool `json:"ok"`
}

// CheckStock performs the availability call. Safe to retry upstream.
func (c *Client) CheckStock(ctx context.Context, req CheckStockRequest) (*CheckStockResponse, error) {
	var out CheckStockResponse
	if err := c.post(ctx, checkStockPath, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DecrementStock performs the decrement call. Never retried here: the remote
// side exposes no idempotency key, so a repeat could apply twice.
func (c *Client) DecrementStock(ctx context.Context, req DecrementStockRequest) (*DecrementStockResponse, error) {
	var out DecrementStockResponse
	if err := c.post(ctx, decrementStockPath, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	if c == nil || c.httpClient == nil {
		return errors.New("inventory client not configured")
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode inventory request: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build inventory request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call inventory service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("inventory service returned %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode inventory response: %w", err)
	}
	return nil
}
