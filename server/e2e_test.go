package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tsis/api"
	"github.com/rustyeddy/tsis/calculator"
	"github.com/rustyeddy/tsis/risk"
)

// TestClientServiceAgainstServer drives a calculator session through the
// HTTP client against a live server backed by SQLite.
func TestClientServiceAgainstServer(t *testing.T) {
	t.Parallel()

	s, j := newTestServer(t, Options{})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	client := api.NewClient(ts.URL+"/api/v1", 5*time.Second)
	svc := calculator.New(client,
		calculator.WithPersistence(j.Session("")),
		calculator.WithClock(func() time.Time { return testNow }))

	ctx := context.Background()

	svc.SetTicker("aapl")
	svc.SetEntryPrice("100")
	svc.SetStopPrice("95")
	st := svc.State()
	assert.Equal(t, risk.Orange, st.Status)
	assert.Equal(t, risk.MsgLoading, st.Message)

	require.NoError(t, svc.Refresh(ctx, testToken))
	st = svc.State()
	require.NotNil(t, st.Result)
	assert.Equal(t, int64(20), st.Result.RecommendedShares)
	assert.Equal(t, risk.Green, st.Status)
	assert.Equal(t, risk.MsgRiskOK, st.Message)

	require.NoError(t, svc.Calculate(ctx, testToken))
	st = svc.State()
	require.Len(t, st.History, 1)
	assert.Equal(t, "AAPL", st.History[0].Ticker)
	assert.Equal(t, int64(20), st.History[0].Shares)
	assert.Len(t, st.Matrix, 5)

	// A big loss today exhausts the daily budget.
	w := doJSON(t, s.Handler(), http.MethodPost, "/api/v1/trades", testToken,
		map[string]any{"ticker": "TSLA", "shares": 10, "entry_price": 100, "exit_price": 50})
	require.Equal(t, http.StatusCreated, w.Code)

	require.NoError(t, svc.LoadTodayPnL(ctx, testToken))
	st = svc.State()
	assert.Equal(t, -500.0, st.TodayPnL)
	assert.Equal(t, risk.Red, st.Status)

	saved, err := svc.SaveSettings(ctx, testToken, risk.SettingsUpdate{MaxLossDaily: ptr(2000.0)})
	require.NoError(t, err)
	assert.Equal(t, 2000.0, saved.MaxLossDaily)
	assert.NotEqual(t, risk.Red, svc.State().Status)

	// A new session restores ticker and history from the journal.
	restored := calculator.New(client, calculator.WithPersistence(j.Session("")))
	rs := restored.State()
	assert.Equal(t, "AAPL", rs.Ticker)
	require.Len(t, rs.History, 1)
	assert.Equal(t, st.History[0].ID, rs.History[0].ID)
}

func TestClientErrorsSurfaceAsAPIError(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t, Options{Tokens: []string{testToken}})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	client := api.NewClient(ts.URL+"/api/v1", 5*time.Second)
	_, err := client.GetRiskSettings(context.Background(), "wrong")

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	svc := calculator.New(client)
	svc.SetEntryPrice("100")
	svc.SetStopPrice("95")
	require.Error(t, svc.Calculate(context.Background(), "wrong"))
	assert.Equal(t, risk.Red, svc.State().Status)
	assert.Equal(t, risk.MsgCalcError, svc.State().Message)
}

func ptr[T any](v T) *T { return &v }
