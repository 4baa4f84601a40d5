package collector

import (
	"context"
	"time"

	"MarketLens/internal/model"
)

// Chart intervals.
const (
	IntervalDaily  = "1d"
	IntervalMinute = "1m"
)

// ChartQuery selects the bar interval and span of a chart request. Either
// Range (a provider span such as "1d" or "2d") or Start/End is set.
type ChartQuery struct {
	Interval string
	Range    string
	Start    time.Time
	End      time.Time
}

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	FetchChart(ctx context.Context, symbol string, q ChartQuery) (*model.Chart, error)
	FetchProfile(ctx context.Context, symbol string) (*model.Profile, error)
	Name() string
}
