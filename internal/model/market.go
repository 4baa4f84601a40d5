package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// Bar represents a single OHLCV sample for one interval (a trading day or a minute).
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Series is an ordered run of bars, strictly increasing by time.
// Built fresh per request and never mutated once aligned.
type Series []Bar

// Closes returns the close prices in series order.
func (s Series) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, b := range s {
		closes[i] = b.Close
	}
	return closes
}

// Last returns the most recent bar. Callers must check Len first.
func (s Series) Last() Bar { return s[len(s)-1] }

// Tail returns the trailing n bars (or the whole series if shorter).
func (s Series) Tail(n int) Series {
	if n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}

// ChartMeta carries the provider metadata returned alongside a chart.
type ChartMeta struct {
	Symbol              string
	Currency            string
	LongName            string
	ShortName           string
	Timezone            string // IANA name, e.g. "America/New_York"
	PreviousClose       null.Float
	RegularMarketVolume null.Int
}

// Chart is the raw provider response for one symbol and span.
type Chart struct {
	Meta ChartMeta
	Bars []Bar
}

// Profile is the instrument metadata the provider exposes outside the chart.
type Profile struct {
	Symbol        string
	LongName      string
	ShortName     string
	Currency      string
	MarketCap     null.Int
	TrailingPE    null.Float
	Volume        null.Int
	PreviousClose null.Float
}

// DisplayName prefers the long name, then the short name.
func (p *Profile) DisplayName() string {
	if p == nil {
		return ""
	}
	if p.LongName != "" {
		return p.LongName
	}
	return p.ShortName
}
