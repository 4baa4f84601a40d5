// Package catalog holds the static instrument reference data and ranks it
// against free-text queries, enriching matches with live quotes.
package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/guregu/null/v6"

	"MarketLens/internal/logger"
	"MarketLens/internal/model"
)

// DefaultMaxResults caps a search response.
const DefaultMaxResults = 20

// Merge concatenates instrument lists and drops later entries whose symbol
// (compared case-insensitively) was already seen.
func Merge(lists ...[]model.Instrument) []model.Instrument {
	seen := make(map[string]struct{})
	var out []model.Instrument
	for _, list := range lists {
		for _, inst := range list {
			key := strings.ToLower(inst.Symbol)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, inst)
		}
	}
	return out
}

// QuoteSource provides the live quote used to enrich matches.
type QuoteSource interface {
	Quote(ctx context.Context, symbol string) (*model.Quote, error)
}

// Ranker searches a fixed universe.
type Ranker struct {
	universe   []model.Instrument
	quotes     QuoteSource
	maxResults int
}

// NewRanker de-duplicates universe and binds it to a quote source.
func NewRanker(universe []model.Instrument, quotes QuoteSource, maxResults int) *Ranker {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &Ranker{
		universe:   Merge(universe),
		quotes:     quotes,
		maxResults: maxResults,
	}
}

type ranked struct {
	inst  model.Instrument
	score int
}

// Search returns matches ordered by relevance, ties kept in catalog order.
// An empty or blank query matches nothing. Only the returned matches are
// quoted; a match whose quote cannot be fetched is still returned, with
// every quote field unset.
func (r *Ranker) Search(ctx context.Context, query string) []model.SearchResult {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []model.SearchResult{}
	}

	var hits []ranked
	for _, inst := range r.universe {
		if score, ok := relevance(q, inst); ok {
			hits = append(hits, ranked{inst: inst, score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	n := min(len(hits), r.maxResults)
	out := make([]model.SearchResult, n)
	for i := range out {
		out[i] = r.enrich(ctx, hits[i].inst)
	}
	return out
}

// relevance scores a normalized query against one instrument.
// symbol prefix 10, symbol substring 5, name prefix 8, name substring 3.
func relevance(q string, inst model.Instrument) (int, bool) {
	symbol := strings.ToLower(inst.Symbol)
	name := strings.ToLower(inst.Name)

	symbolHit := strings.Contains(symbol, q)
	nameHit := strings.Contains(name, q)
	if !symbolHit && !nameHit {
		return 0, false
	}

	score := 0
	if strings.HasPrefix(symbol, q) {
		score += 10
	} else if symbolHit {
		score += 5
	}
	if strings.HasPrefix(name, q) {
		score += 8
	} else if nameHit {
		score += 3
	}
	return score, true
}

func (r *Ranker) enrich(ctx context.Context, inst model.Instrument) model.SearchResult {
	res := model.SearchResult{Instrument: inst}
	if r.quotes == nil {
		return res
	}
	q, err := r.quotes.Quote(ctx, inst.Symbol)
	if err != nil {
		logger.From(ctx).Warn().Err(err).Str("symbol", inst.Symbol).Msg("search enrichment unavailable")
		return res
	}
	res.CurrentPrice = null.FloatFrom(q.Price)
	res.Change = null.FloatFrom(q.Change)
	res.ChangePercent = q.ChangePercent
	res.DayHigh = null.FloatFrom(q.DayHigh)
	res.DayLow = null.FloatFrom(q.DayLow)
	res.Volume = q.Volume
	res.MarketCap = q.MarketCap
	res.PERatio = q.PERatio
	return res
}
