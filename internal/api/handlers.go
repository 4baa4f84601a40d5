package api

import (
	"errors"
	"net/http"
	"os"

	json "github.com/goccy/go-json"

	"MarketLens/internal/logger"
	"MarketLens/internal/model"
	"MarketLens/internal/watchlist"
)

const (
	msgNoStockData    = "No data found for symbol"
	msgNoRealTimeData = "No real-time data available"
	msgInvalidSession = "Invalid session id"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if _, err := os.Stat(s.opts.IndexFile); err != nil {
		writeError(w, r, http.StatusNotFound, "landing page not found")
		return
	}
	http.ServeFile(w, r, s.opts.IndexFile)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCompanies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.opts.Companies)
}

func (s *Server) handleStock(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	report, err := s.markets.Analyze(r.Context(), symbol)
	if err != nil {
		s.singleSymbolError(w, r, symbol, err, msgNoStockData)
		return
	}
	writeJSON(w, r, http.StatusOK, presentStock(report))
}

func (s *Server) handleRealTime(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	q, err := s.markets.RealTime(r.Context(), symbol)
	if err != nil {
		s.singleSymbolError(w, r, symbol, err, msgNoRealTimeData)
		return
	}
	writeJSON(w, r, http.StatusOK, presentRealTime(q))
}

// singleSymbolError maps missing data to 404 and anything else to 500.
func (s *Server) singleSymbolError(w http.ResponseWriter, r *http.Request, symbol string, err error, notFound string) {
	if errors.Is(err, model.ErrNoData) {
		writeError(w, r, http.StatusNotFound, notFound)
		return
	}
	logger.From(r.Context()).Error().Err(err).Str("symbol", symbol).Msg("provider failure")
	writeError(w, r, http.StatusInternalServerError, err.Error())
}

func (s *Server) handleMarketSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, presentSummary(s.markets.MarketSummary(r.Context())))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	results := s.search.Search(r.Context(), r.PathValue("query"))
	writeJSON(w, r, http.StatusOK, presentSearch(results))
}

func (s *Server) handleMarketStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, presentStatuses(s.clock.Statuses(s.now())))
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, presentTrending(s.markets.Trending(r.Context())))
}

type watchlistRequest struct {
	Symbol string `json:"symbol" validate:"required,max=32"`
}

func session(r *http.Request) (string, error) {
	id := r.Header.Get(SessionHeader)
	if id == "" {
		return watchlist.DefaultSession, nil
	}
	return id, watchlist.CheckSession(id)
}

func (s *Server) handleWatchlistList(w http.ResponseWriter, r *http.Request) {
	sess, err := session(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, msgInvalidSession)
		return
	}
	symbols, err := s.watchlist.List(r.Context(), sess)
	if err != nil {
		logger.From(r.Context()).Error().Err(err).Msg("list watchlist")
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, presentWatchlist(s.markets.WatchlistPrices(r.Context(), symbols)))
}

func (s *Server) decodeWatchlistRequest(r *http.Request) (watchlistRequest, error) {
	var req watchlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, errors.Join(model.ErrValidation, err)
	}
	if err := s.validate.Struct(&req); err != nil {
		return req, errors.Join(watchlist.ErrInvalidSymbol, err)
	}
	return req, nil
}

func (s *Server) handleWatchlistAdd(w http.ResponseWriter, r *http.Request) {
	sess, err := session(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, msgInvalidSession)
		return
	}
	req, err := s.decodeWatchlistRequest(r)
	if err == nil {
		req.Symbol, err = s.watchlist.Add(r.Context(), sess, req.Symbol)
	}
	if err != nil {
		s.watchlistError(w, r, err, "Invalid symbol or already in watchlist")
		return
	}
	writeJSON(w, r, http.StatusOK, messageBody{Message: req.Symbol + " added to watchlist"})
}

func (s *Server) handleWatchlistRemove(w http.ResponseWriter, r *http.Request) {
	sess, err := session(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, msgInvalidSession)
		return
	}
	req, err := s.decodeWatchlistRequest(r)
	if err == nil {
		req.Symbol, err = s.watchlist.Remove(r.Context(), sess, req.Symbol)
	}
	if err != nil {
		s.watchlistError(w, r, err, "Symbol not in watchlist")
		return
	}
	writeJSON(w, r, http.StatusOK, messageBody{Message: req.Symbol + " removed from watchlist"})
}

func (s *Server) watchlistError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	if errors.Is(err, model.ErrValidation) {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}
	logger.From(r.Context()).Error().Err(err).Msg("watchlist store failure")
	writeError(w, r, http.StatusInternalServerError, err.Error())
}
