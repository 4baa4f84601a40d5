// Package api serves the HTTP and websocket surface.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"MarketLens/internal/markethours"
	"MarketLens/internal/metrics"
	"MarketLens/internal/model"
	"MarketLens/internal/watchlist"
)

// SessionHeader selects the caller's watchlist.
const SessionHeader = "X-Session-ID"

// DefaultStreamInterval is the push period of real-time streams.
const DefaultStreamInterval = 5 * time.Second

// Markets is the quote gateway as seen by the handlers.
type Markets interface {
	Analyze(ctx context.Context, symbol string) (*model.StockReport, error)
	RealTime(ctx context.Context, symbol string) (*model.RealTimeQuote, error)
	MarketSummary(ctx context.Context) []model.IndexSummary
	Trending(ctx context.Context) []model.TrendingEntry
	WatchlistPrices(ctx context.Context, symbols []string) []model.WatchlistEntry
}

// Searcher ranks the instrument catalog.
type Searcher interface {
	Search(ctx context.Context, query string) []model.SearchResult
}

// Options tunes a Server.
type Options struct {
	Companies      []model.Instrument
	IndexFile      string
	StreamInterval time.Duration
	Metrics        *metrics.Metrics
}

// Server holds the handler dependencies.
type Server struct {
	markets   Markets
	search    Searcher
	clock     *markethours.Clock
	watchlist watchlist.Store
	opts      Options
	validate  *validator.Validate
	now       func() time.Time

	// done is closed by Close to stop open streams.
	done chan struct{}
}

// NewServer wires the handlers.
func NewServer(markets Markets, search Searcher, clock *markethours.Clock, store watchlist.Store, opts Options) *Server {
	if opts.StreamInterval <= 0 {
		opts.StreamInterval = DefaultStreamInterval
	}
	if opts.Companies == nil {
		opts.Companies = []model.Instrument{}
	}
	return &Server{
		markets:   markets,
		search:    search,
		clock:     clock,
		watchlist: store,
		opts:      opts,
		validate:  validator.New(),
		now:       time.Now,
		done:      make(chan struct{}),
	}
}

// Handler returns the routed handler with CORS, request ids, access logs and
// metrics applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return cors(observe(s.opts.Metrics, mux))
}

// RegisterRoutes registers all HTTP routes on the provided mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.opts.Metrics != nil {
		mux.Handle("GET /metrics", s.opts.Metrics.Handler())
	}

	mux.HandleFunc("GET /api/companies", s.handleCompanies)
	mux.HandleFunc("GET /api/stock/{symbol}", s.handleStock)
	mux.HandleFunc("GET /api/market-summary", s.handleMarketSummary)
	mux.HandleFunc("GET /api/search/{query}", s.handleSearch)
	mux.HandleFunc("GET /api/real-time/{symbol}", s.handleRealTime)
	mux.HandleFunc("GET /api/market-status", s.handleMarketStatus)
	mux.HandleFunc("GET /api/trending", s.handleTrending)

	mux.HandleFunc("GET /api/watchlist", s.handleWatchlistList)
	mux.HandleFunc("POST /api/watchlist", s.handleWatchlistAdd)
	mux.HandleFunc("DELETE /api/watchlist", s.handleWatchlistRemove)

	mux.HandleFunc("GET /ws/real-time/{symbol}", s.handleRealTimeStream)
}

// Close stops every open stream. Safe to call once.
func (s *Server) Close() {
	close(s.done)
}
