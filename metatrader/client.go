// Package metatrader is a client for the MetaTrader trade REST API. It
// covers the read-only endpoints: price history, account, symbols and
// server time.
package metatrader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rustyeddy/pipengine/market"
	"github.com/shopspring/decimal"
)

const (
	// DefaultBaseURL is the public trade API host.
	DefaultBaseURL = "http://trade-api.reza-developer.com"
	// DefaultTimeout bounds every request when Config.Timeout is zero.
	DefaultTimeout = 30 * time.Second
)

// Timeframe is the bar period of a price history request.
type Timeframe string

const (
	M1  Timeframe = "M1"  // 1 minute
	M5  Timeframe = "M5"  // 5 minutes
	M15 Timeframe = "M15" // 15 minutes
	M30 Timeframe = "M30" // 30 minutes
	H1  Timeframe = "H1"  // 1 hour
	H4  Timeframe = "H4"  // 4 hours
	D1  Timeframe = "D1"  // 1 day
	W1  Timeframe = "W1"  // 1 week
	MN1 Timeframe = "MN1" // 1 month
)

// Timeframes lists every supported timeframe.
var Timeframes = []Timeframe{M1, M5, M15, M30, H1, H4, D1, W1, MN1}

// Valid reports whether tf is a supported timeframe.
func (tf Timeframe) Valid() bool {
	for _, t := range Timeframes {
		if tf == t {
			return true
		}
	}
	return false
}

// Config holds everything the client needs. There is no package-level state.
type Config struct {
	BaseURL string        `yaml:"base_url" json:"base_url"`
	APIKey  string        `yaml:"api_key,omitempty" json:"api_key,omitempty"`
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("metatrader: API error (status %d): %s", e.StatusCode, e.Body)
}

// Client talks to one MetaTrader REST endpoint.
type Client struct {
	http *resty.Client
}

// NewClient creates a client from cfg. An empty BaseURL uses DefaultBaseURL.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)
	client.SetHeader("Accept", "application/json")
	client.SetHeader("Content-Type", "application/json")
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}

	return &Client{http: client}
}

// BaseURL returns the API root the client sends requests to.
func (c *Client) BaseURL() string {
	return c.http.BaseURL
}

// HistoryRequest selects the bars to fetch.
type HistoryRequest struct {
	Symbol    string    // Required: e.g. "XAUUSD", "EURUSD"
	Timeframe Timeframe // default M1
	Start     *time.Time
	End       *time.Time
	Count     int // number of bars; zero lets the server decide
}

type historyResponse struct {
	Data []map[string]any `json:"data"`
}

// GetPriceHistory fetches OHLCV bars. Bar times are Unix milliseconds on
// the wire.
func (c *Client) GetPriceHistory(ctx context.Context, req HistoryRequest) (market.Bars, error) {
	if req.Symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if req.Timeframe == "" {
		req.Timeframe = M1
	}
	if !req.Timeframe.Valid() {
		return nil, fmt.Errorf("unsupported timeframe %q", req.Timeframe)
	}
	if req.Count < 0 {
		return nil, fmt.Errorf("count cannot be negative")
	}

	params := map[string]string{
		"symbol":    req.Symbol,
		"timeframe": string(req.Timeframe),
	}
	if req.Start != nil {
		params["startTime"] = req.Start.UTC().Format(time.RFC3339)
	}
	if req.End != nil {
		params["endTime"] = req.End.UTC().Format(time.RFC3339)
	}
	if req.Count > 0 {
		params["count"] = strconv.Itoa(req.Count)
	}

	var resp historyResponse
	if err := c.get(ctx, "/api/v1/price-history", params, &resp); err != nil {
		return nil, fmt.Errorf("price history %s %s: %w", req.Symbol, req.Timeframe, err)
	}
	if len(resp.Data) == 0 {
		return market.Bars{}, nil
	}

	rows := make([]market.Row, len(resp.Data))
	for i, d := range resp.Data {
		rows[i] = market.Row(d)
	}
	bars, err := market.ParseRows(rows)
	if err != nil {
		return nil, fmt.Errorf("price history %s: %w", req.Symbol, err)
	}
	return bars, nil
}

// AccountInfo is the trading account summary. Money fields are decimals.
type AccountInfo struct {
	Login      int64           `json:"login"`
	Name       string          `json:"name"`
	Server     string          `json:"server"`
	Currency   string          `json:"currency"`
	Leverage   int             `json:"leverage"`
	Balance    decimal.Decimal `json:"balance"`
	Equity     decimal.Decimal `json:"equity"`
	Margin     decimal.Decimal `json:"margin"`
	FreeMargin decimal.Decimal `json:"freeMargin"`
}

// GetAccountInfo returns the account summary.
func (c *Client) GetAccountInfo(ctx context.Context) (*AccountInfo, error) {
	var info AccountInfo
	if err := c.get(ctx, "/api/v1/account", nil, &info); err != nil {
		return nil, fmt.Errorf("account: %w", err)
	}
	return &info, nil
}

// Symbol describes one tradable instrument.
type Symbol struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Digits       int             `json:"digits"`
	ContractSize decimal.Decimal `json:"contractSize"`
	VolumeMin    decimal.Decimal `json:"volumeMin"`
	VolumeMax    decimal.Decimal `json:"volumeMax"`
	VolumeStep   decimal.Decimal `json:"volumeStep"`
}

// GetSymbols lists the tradable symbols.
func (c *Client) GetSymbols(ctx context.Context) ([]Symbol, error) {
	var symbols []Symbol
	if err := c.get(ctx, "/api/v1/symbols", nil, &symbols); err != nil {
		return nil, fmt.Errorf("symbols: %w", err)
	}
	return symbols, nil
}

type serverTimeResponse struct {
	ServerTime *int64 `json:"serverTime"`
}

// GetServerTime returns the server clock in UTC.
func (c *Client) GetServerTime(ctx context.Context) (time.Time, error) {
	var resp serverTimeResponse
	if err := c.get(ctx, "/api/v1/server-time", nil, &resp); err != nil {
		return time.Time{}, fmt.Errorf("server time: %w", err)
	}
	if resp.ServerTime == nil {
		return time.Time{}, errors.New("server time: response has no serverTime")
	}
	return time.UnixMilli(*resp.ServerTime).UTC(), nil
}

// Ping checks that the API is reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.GetServerTime(ctx)
	return err
}

func (c *Client) get(ctx context.Context, path string, params map[string]string, out any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return &APIError{StatusCode: resp.StatusCode(), Body: strings.TrimSpace(resp.String())}
	}

	dec := json.NewDecoder(bytes.NewReader(resp.Body()))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
