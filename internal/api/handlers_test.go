package api

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketLens/internal/catalog"
	"MarketLens/internal/collector"
	"MarketLens/internal/markethours"
	"MarketLens/internal/metrics"
	"MarketLens/internal/model"
	"MarketLens/internal/watchlist"
)

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func chartOf(closes ...float64) *model.Chart {
	bars := make([]model.Bar, len(closes))
	for i, c := range closes {
		bars[i] = model.Bar{
			Time:   day0.AddDate(0, 0, i),
			Open:   c,
			High:   c + 0.123,
			Low:    c - 0.123,
			Close:  c,
			Volume: int64(100 * (i + 1)),
		}
	}
	return &model.Chart{Meta: model.ChartMeta{Currency: "USD", Timezone: "America/New_York"}, Bars: bars}
}

type testEnv struct {
	srv     *Server
	handler http.Handler
	fetcher *collector.MockFetcher
	metrics *metrics.Metrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100.456 + float64(i)
	}
	f := &collector.MockFetcher{
		Charts: map[string]*model.Chart{
			"AAPL":  chartOf(closes...),
			"TSLA":  chartOf(240, 250.5),
			"MSFT":  chartOf(400, 410),
			"GOOGL": chartOf(150, 151),
		},
		Intraday: map[string]*model.Chart{
			"AAPL": chartOf(200, 201.25),
		},
		Profiles: map[string]*model.Profile{
			"AAPL": {LongName: "Apple Inc.", MarketCap: null.IntFrom(3_000_000_000_000), TrailingPE: null.FloatFrom(30.1)},
			"TSLA": {LongName: "Tesla, Inc."},
		},
		Errors: map[string]error{
			"BOOM": &model.ProviderError{Provider: "mock", Symbol: "BOOM", Op: "chart", Err: errors.New("upstream timeout")},
			"MSFT": &model.ProviderError{Provider: "mock", Symbol: "MSFT", Op: "chart", Err: errors.New("flaky")},
		},
	}
	m := metrics.New()
	clock := markethours.NewClock(nil)
	col := collector.NewCollector(f, clock, collector.Options{
		TrendingSymbols: []string{"TSLA", "MSFT", "GOOGL"},
		Metrics:         m,
	})
	ranker := catalog.NewRanker(catalog.SearchUniverse(), col, 0)

	index := filepath.Join(t.TempDir(), "index.html")
	require.NoError(t, os.WriteFile(index, []byte("<html>MarketLens</html>"), 0o644))

	srv := NewServer(col, ranker, clock, watchlist.NewMemoryStore(), Options{
		Companies:      catalog.Companies,
		IndexFile:      index,
		StreamInterval: 20 * time.Millisecond,
		Metrics:        m,
	})
	return &testEnv{srv: srv, handler: srv.Handler(), fetcher: f, metrics: m}
}

func (e *testEnv) do(t *testing.T, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestStock(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodGet, "/api/stock/AAPL", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decode[map[string]any](t, rec)
	assert.Equal(t, "AAPL", body["symbol"])
	assert.Equal(t, "Apple Inc.", body["name"])
	assert.Equal(t, 159.46, body["current_price"])
	assert.Equal(t, 158.46, body["prev_close"])
	assert.Equal(t, 1.0, body["change"])
	assert.Equal(t, 100.0, body["rsi"])
	assert.Equal(t, 30.1, body["pe_ratio"])
	assert.NotNil(t, body["sma_50"])

	pred := body["prediction"].(map[string]any)
	assert.Equal(t, "bullish", pred["trend"])
	assert.Equal(t, 160.46, pred["next_day_price"])
	assert.Equal(t, 100.0, pred["confidence"])

	hist := body["historical"].([]any)
	require.Len(t, hist, 60)
	first := hist[0].(map[string]any)
	assert.Equal(t, "2024-01-01", first["date"])
	assert.Equal(t, 100.46, first["close"])
	assert.Equal(t, 100.58, first["high"])
}

func TestStock_ShortHistoryRendersNulls(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodGet, "/api/stock/TSLA", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Nil(t, body["sma_20"])
	assert.Nil(t, body["rsi"])
	assert.Nil(t, body["market_cap"])
	assert.Contains(t, rec.Body.String(), `"sma_50":null`)
}

func TestStock_Errors(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/api/stock/NOPE", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"No data found for symbol"}`, rec.Body.String())

	rec = e.do(t, http.MethodGet, "/api/stock/BOOM", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decode[errorBody](t, rec).Error, "upstream timeout")
}

func TestRealTime(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodGet, "/api/real-time/AAPL", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, 201.25, body["current_price"])
	assert.Equal(t, 1.25, body["change"])
	assert.Equal(t, "2024-01-02 00:00:00", body["market_time"])
	assert.Equal(t, "USD", body["currency"])
	assert.Equal(t, "America/New_York", body["timezone"])
	assert.Contains(t, body, "is_market_open")

	rec = e.do(t, http.MethodGet, "/api/real-time/NOPE", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"No real-time data available"}`, rec.Body.String())
}

func TestCompanies(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodGet, "/api/companies", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[[]model.Instrument](t, rec)
	assert.Len(t, got, 12)
	assert.Equal(t, "RELIANCE.NS", got[0].Symbol)
	assert.NotContains(t, rec.Body.String(), "sector")
}

func TestSearch(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodGet, "/api/search/appl", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[[]map[string]any](t, rec)
	require.NotEmpty(t, got)
	assert.Equal(t, "AAPL", got[0]["symbol"])
	assert.Equal(t, 159.46, got[0]["current_price"])
	assert.NotContains(t, got[0], "relevance_score")

	rec = e.do(t, http.MethodGet, "/api/search/%20%20", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestSearch_FailedQuoteStillListed(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodGet, "/api/search/microsoft", "")
	got := decode[[]map[string]any](t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, "MSFT", got[0]["symbol"])
	assert.Nil(t, got[0]["current_price"])
	assert.Nil(t, got[0]["day_high"])
}

func TestMarketSummary(t *testing.T) {
	e := newTestEnv(t)
	e.fetcher.Charts["^GSPC"] = chartOf(5000, 5012.345)
	rec := e.do(t, http.MethodGet, "/api/market-summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"name":"S&P 500","value":5012.35,"change":12.35,"change_percent":0.25}]`, rec.Body.String())
}

func TestTrending_PartialFailure(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodGet, "/api/trending", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[[]map[string]any](t, rec)
	require.Len(t, got, 2)
	assert.Equal(t, "TSLA", got[0]["symbol"])
	assert.Equal(t, "GOOGL", got[1]["symbol"])
	assert.Equal(t, "Tesla, Inc.", got[0]["name"])
}

func TestMarketStatus(t *testing.T) {
	e := newTestEnv(t)
	// Saturday
	e.srv.now = func() time.Time { return time.Date(2024, 6, 8, 14, 0, 0, 0, time.UTC) }
	rec := e.do(t, http.MethodGet, "/api/market-status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[[]marketStatusPayload](t, rec)
	require.Len(t, got, 4)
	assert.Equal(t, "US Markets (NYSE/NASDAQ)", got[0].Market)
	assert.Equal(t, "WEEKEND", got[0].Status)
	assert.Equal(t, "10:00", got[0].LocalTime)
	assert.False(t, got[0].IsOpen)
	assert.Equal(t, "Asia/Tokyo", got[3].Timezone)
}

func TestWatchlistFlow(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/api/watchlist", `{"symbol":"tsla"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"TSLA added to watchlist"}`, rec.Body.String())

	rec = e.do(t, http.MethodGet, "/api/watchlist", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"symbol":"TSLA","name":"Tesla, Inc.","current_price":250.5}]`, rec.Body.String())

	rec = e.do(t, http.MethodPost, "/api/watchlist", `{"symbol":"TSLA"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid symbol or already in watchlist"}`, rec.Body.String())

	rec = e.do(t, http.MethodDelete, "/api/watchlist", `{"symbol":"TSLA"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"TSLA removed from watchlist"}`, rec.Body.String())

	rec = e.do(t, http.MethodGet, "/api/watchlist", "")
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = e.do(t, http.MethodDelete, "/api/watchlist", `{"symbol":"TSLA"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Symbol not in watchlist"}`, rec.Body.String())
}

func TestWatchlist_BadRequests(t *testing.T) {
	e := newTestEnv(t)
	for _, body := range []string{`{"symbol":""}`, `{"symbol":"   "}`, `not json`, `{}`} {
		rec := e.do(t, http.MethodPost, "/api/watchlist", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestWatchlist_SessionsAndOmittedEntries(t *testing.T) {
	e := newTestEnv(t)
	e.do(t, http.MethodPost, "/api/watchlist", `{"symbol":"msft"}`, SessionHeader, "alice")
	e.do(t, http.MethodPost, "/api/watchlist", `{"symbol":"googl"}`, SessionHeader, "alice")

	rec := e.do(t, http.MethodGet, "/api/watchlist", "", SessionHeader, "alice")
	got := decode[[]watchlistPayload](t, rec)
	require.Len(t, got, 1, "MSFT fails to price and is omitted")
	assert.Equal(t, "GOOGL", got[0].Symbol)

	rec = e.do(t, http.MethodGet, "/api/watchlist", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestWatchlist_OversizedSessionRejected(t *testing.T) {
	e := newTestEnv(t)
	long := strings.Repeat("s", watchlist.MaxSessionLen+1)
	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
		rec := e.do(t, method, "/api/watchlist", `{"symbol":"aapl"}`, SessionHeader, long)
		assert.Equal(t, http.StatusBadRequest, rec.Code, method)
		assert.JSONEq(t, `{"error":"Invalid session id"}`, rec.Body.String(), method)
	}
}

func TestCORSAndPreflight(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodOptions, "/api/watchlist", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")

	rec = e.do(t, http.MethodGet, "/api/trending", "")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestIndexHealthAndMetrics(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "MarketLens")

	rec = e.do(t, http.MethodGet, "/healthz", "", RequestIDHeader, "req-123")
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))

	e.do(t, http.MethodGet, "/api/stock/NOPE", "")
	rec = e.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `marketlens_http_requests_total{code="404",route="GET /api/stock/{symbol}"} 1`)
	assert.Contains(t, rec.Body.String(), `marketlens_provider_requests_total{op="history",outcome="no_data"} 1`)
}

func wsURL(srv *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + path
}

func TestRealTimeStream(t *testing.T) {
	e := newTestEnv(t)
	ts := httptest.NewServer(e.handler)
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "/ws/real-time/AAPL"), nil)
	require.NoError(t, err)
	defer conn.Close()

	for i := 0; i < 2; i++ {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		var frame realTimePayload
		require.NoError(t, json.Unmarshal(msg, &frame))
		assert.Equal(t, "AAPL", frame.Symbol)
		assert.Equal(t, 201.25, frame.CurrentPrice)
	}
}

func TestRealTimeStream_ErrorFramesAndShutdown(t *testing.T) {
	e := newTestEnv(t)
	ts := httptest.NewServer(e.handler)
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "/ws/real-time/NOPE"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"No real-time data available"}`, string(msg))

	// the stream survives the error and keeps pushing
	_, msg, err = conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), "No real-time data available")

	e.srv.Close()
	for {
		if _, _, err = conn.ReadMessage(); err != nil {
			break
		}
	}
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}
