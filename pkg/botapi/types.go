package botapi

import (
	"bytes"
	"fmt"
	"time"
)

// Account mirrors the /api/account payload. The backend forwards IB account
// summary tags verbatim, so the JSON keys are the tag names. Tags missing
// from the summary unmarshal to zero.
type Account struct {
	NetLiquidation float64 `json:"NetLiquidation"`
	BuyingPower    float64 `json:"BuyingPower"`
	TotalCashValue float64 `json:"TotalCashValue"`
	UnrealizedPnL  float64 `json:"UnrealizedPnL"`
	RealizedPnL    float64 `json:"RealizedPnL"`
}

// PnL is the bot's running daily profit-and-loss. Total is intentionally not
// on the wire; it is always derived as realized + unrealized.
type PnL struct {
	Realized    float64   `json:"realized"`
	Unrealized  float64   `json:"unrealized"`
	TotalTrades int       `json:"total_trades"`
	Timestamp   Timestamp `json:"timestamp"`
}

// Position is one open position. Quantity is signed: positive long,
// negative short. MarketPrice can be zero when the backend had no market
// data; consumers fall back to AvgCost.
type Position struct {
	Symbol        string  `json:"symbol"`
	Quantity      float64 `json:"position"`
	AvgCost       float64 `json:"avg_cost"`
	MarketPrice   float64 `json:"market_price"`
	MarketValue   float64 `json:"market_value"`
	UnrealizedPnL float64 `json:"unrealized_pnl"`
}

// OpenOrder is a working order still held at the broker. OrderID is the
// cancel key. Price of zero means a market order.
type OpenOrder struct {
	OrderID  int64   `json:"orderId"`
	Symbol   string  `json:"symbol"`
	Action   string  `json:"action"`
	Quantity float64 `json:"quantity"`
	Type     string  `json:"type"`
	Price    float64 `json:"price"`
	Status   string  `json:"status"`
}

// Signal is one received trading signal as journaled by the bot.
// Quantity is stored as text upstream and forwarded as-is.
type Signal struct {
	ID         int64     `json:"id"`
	Ticker     string    `json:"ticker"`
	Action     string    `json:"action"`
	Quantity   string    `json:"quantity"`
	Price      *float64  `json:"price"`
	ReceivedAt Timestamp `json:"received_at"`
	Status     string    `json:"status"`
}

// HistoricalOrder is a terminal (filled, cancelled or rejected) order row.
// FillPrice is nil until the order filled.
type HistoricalOrder struct {
	ID        int64     `json:"id"`
	IBOrderID int64     `json:"ib_order_id"`
	Ticker    string    `json:"ticker"`
	Action    string    `json:"action"`
	Quantity  float64   `json:"quantity"`
	FillPrice *float64  `json:"fill_price"`
	Status    string    `json:"status"`
	CreatedAt Timestamp `json:"created_at"`
}

// Activity bundles the two record streams behind /api/activity.
type Activity struct {
	Signals []Signal          `json:"signals"`
	Orders  []HistoricalOrder `json:"orders"`
}

// MarketStatus reports whether the exchange is open and why.
type MarketStatus struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
	Source string `json:"source"`
}

// IndexQuote is a market index snapshot. Value of zero means no data yet.
type IndexQuote struct {
	Value  float64 `json:"value"`
	Change float64 `json:"change"`
}

// Status is the process-wide state behind /api/status.
type Status struct {
	TradingStatus string                `json:"trading_status"`
	IBConnected   bool                  `json:"ib_connected"`
	Mode          string                `json:"mode"`
	MarketStatus  MarketStatus          `json:"market_status"`
	Indices       map[string]IndexQuote `json:"indices"`
}

// CancelResult acknowledges a successful order cancel.
type CancelResult struct {
	Status  string `json:"status"`
	OrderID int64  `json:"order_id"`
}

// CloseResult acknowledges a successful position close.
type CloseResult struct {
	Status string `json:"status"`
	Symbol string `json:"symbol"`
}

// ShutdownResult acknowledges a shutdown request.
type ShutdownResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Timestamp handles the backend's two timestamp shapes: SQLite text
// ("2006-01-02 15:04:05.999999") and RFC3339. Null and empty unmarshal to
// the zero time.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.999999",
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(data, `"`))
	if s == "null" || s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(time.RFC3339Nano) + `"`), nil
}
