package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/tsis/risk"
)

// DefaultBaseURL points at a locally running `tsis serve`.
const DefaultBaseURL = "http://localhost:8080/api/v1"

// DefaultTimeout bounds every request made by a Client.
const DefaultTimeout = 30 * time.Second

// Error is a non-2xx response.
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

// DashboardMetrics is the subset of the dashboard metrics record the
// calculator and CLI use. TodayPnL is signed; negative is a net loss.
type DashboardMetrics struct {
	TotalPnL      float64 `json:"total_pnl"`
	TotalTrades   int     `json:"total_trades"`
	WinningTrades int     `json:"winning_trades"`
	LosingTrades  int     `json:"losing_trades"`
	WinRate       float64 `json:"win_rate"`
	TodayPnL      float64 `json:"today_pnl"`
	WeekPnL       float64 `json:"week_pnl"`
	MonthPnL      float64 `json:"month_pnl"`
}

// Client talks to the risk settings, position calculator and dashboard
// services. The bearer token is supplied per call and never inspected.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client for baseURL. A zero timeout uses
// DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetRiskSettings fetches the caller's risk settings.
func (c *Client) GetRiskSettings(ctx context.Context, token string) (risk.Settings, error) {
	var s risk.Settings
	err := c.do(ctx, http.MethodGet, "/risk-settings", token, nil, &s)
	return s, err
}

// UpdateRiskSettings sends a partial update and returns the merged record.
func (c *Client) UpdateRiskSettings(ctx context.Context, token string, u risk.SettingsUpdate) (risk.Settings, error) {
	var s risk.Settings
	err := c.do(ctx, http.MethodPut, "/risk-settings", token, u, &s)
	return s, err
}

// Calculate asks the position calculator service to size entry/stop.
func (c *Client) Calculate(ctx context.Context, token string, entry, stop float64) (risk.PositionCalculation, error) {
	params := url.Values{}
	params.Set("entry_price", strconv.FormatFloat(entry, 'f', -1, 64))
	params.Set("stop_price", strconv.FormatFloat(stop, 'f', -1, 64))

	var pc risk.PositionCalculation
	err := c.do(ctx, http.MethodGet, "/risk-settings/calculator?"+params.Encode(), token, nil, &pc)
	return pc, err
}

// GetDashboardMetrics fetches realized P&L figures.
func (c *Client) GetDashboardMetrics(ctx context.Context, token string) (DashboardMetrics, error) {
	var m DashboardMetrics
	err := c.do(ctx, http.MethodGet, "/dashboard/metrics", token, nil, &m)
	return m, err
}

// TodayPnL returns the today_pnl field of the dashboard metrics.
func (c *Client) TodayPnL(ctx context.Context, token string) (float64, error) {
	m, err := c.GetDashboardMetrics(ctx, token)
	if err != nil {
		return 0, err
	}
	return m.TodayPnL, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &Error{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
