package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// Quote is the short 2-bar quote used for search, trending and summaries.
type Quote struct {
	Symbol        string
	Name          string
	Price         float64
	PrevClose     float64
	Change        float64
	ChangePercent null.Float
	DayHigh       float64
	DayLow        float64
	Volume        null.Int
	MarketCap     null.Int
	PERatio       null.Float
}

// RealTimeQuote is the latest intraday bar plus derived fields.
type RealTimeQuote struct {
	Symbol        string
	Name          string
	Price         float64
	Change        float64
	ChangePercent null.Float
	Volume        int64
	High          float64
	Low           float64
	Open          float64
	MarketTime    time.Time
	IsMarketOpen  bool
	Currency      string
	MarketCap     null.Int
	Timezone      string
}

// IndexSummary is one row of the market summary.
type IndexSummary struct {
	Name          string
	Value         float64
	Change        float64
	ChangePercent null.Float
}

// TrendingEntry is one row of the most-active list.
type TrendingEntry struct {
	Symbol        string
	Name          string
	Price         float64
	ChangePercent null.Float
	Volume        int64
	MarketCap     null.Int
}

// WatchlistEntry is a watched symbol with its latest close.
type WatchlistEntry struct {
	Symbol string
	Name   string
	Price  float64
}
