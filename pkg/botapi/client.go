// Package botapi provides a typed Go client for the trading bot's
// dashboard HTTP API.
//
// Every read endpoint has one method taking only a context; the two
// mutation endpoints take their key (order id, symbol). No retries happen
// at this layer: a failed call is reported to the caller and the poll loop
// decides when to try again.
package botapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds every request so a hung backend degrades the
	// dashboard to its last good state instead of wedging the poll loop.
	DefaultTimeout = 10 * time.Second

	basePath = "/api"
)

// Client issues typed HTTP requests against the bot's API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	limiter *rate.Limiter
}

// NewClient creates a client for the given base URL (scheme://host:port,
// without the /api suffix). Requests are lightly rate limited so a
// misconfigured poll interval cannot hammer the bot.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(10), 20),
	}
}

// WithRateLimit overrides the default request limiter.
func (c *Client) WithRateLimit(perSecond float64, burst int) *Client {
	c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	return c
}

// Account fetches the account summary (net liquidation, buying power).
func (c *Client) Account(ctx context.Context) (*Account, error) {
	var out Account
	if err := c.get(ctx, "/account", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PnL fetches today's realized and unrealized P&L.
func (c *Client) PnL(ctx context.Context) (*PnL, error) {
	var out PnL
	if err := c.get(ctx, "/pnl", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Positions fetches all open positions.
func (c *Client) Positions(ctx context.Context) ([]Position, error) {
	var out []Position
	if err := c.get(ctx, "/positions", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Activity fetches the recent signal and order record streams.
func (c *Client) Activity(ctx context.Context) (*Activity, error) {
	var out Activity
	if err := c.get(ctx, "/activity", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Status fetches process-wide state: mode, broker connection, market
// status and index quotes.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	var out Status
	if err := c.get(ctx, "/status", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// OpenOrders fetches orders still working at the broker.
func (c *Client) OpenOrders(ctx context.Context) ([]OpenOrder, error) {
	var out []OpenOrder
	if err := c.get(ctx, "/orders/open", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// History fetches today's terminal orders.
func (c *Client) History(ctx context.Context) ([]HistoricalOrder, error) {
	var out []HistoricalOrder
	if err := c.get(ctx, "/history", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CancelOrder asks the bot to cancel a working order. The backend either
// confirms or rejects; the client holds no order state of its own.
func (c *Client) CancelOrder(ctx context.Context, orderID int64) (*CancelResult, error) {
	var out CancelResult
	body := map[string]int64{"order_id": orderID}
	if err := c.post(ctx, "/orders/cancel", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClosePosition asks the bot to flatten a position at market.
func (c *Client) ClosePosition(ctx context.Context, symbol string) (*CloseResult, error) {
	var out CloseResult
	body := map[string]string{"symbol": symbol}
	if err := c.post(ctx, "/positions/close", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Shutdown asks the bot process to stop.
func (c *Client) Shutdown(ctx context.Context) (*ShutdownResult, error) {
	var out ShutdownResult
	if err := c.post(ctx, "/shutdown", struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// get performs a GET against an /api path and decodes the response.
func (c *Client) get(ctx context.Context, path string, target interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, target)
}

// post performs a POST with a JSON body and decodes the response.
func (c *Client) post(ctx context.Context, path string, body, target interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, payload, target)
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, target interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &TransportError{Err: err}
	}

	var body *bytes.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	} else {
		body = bytes.NewReader(nil)
	}

	url := c.BaseURL + basePath + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if err := CheckResponse(resp); err != nil {
		return err
	}

	return DecodeJSON(resp, target)
}
