package model

import "github.com/guregu/null/v6"

// Indicators holds the derived metrics for one series. Every field is optional:
// a metric whose window is not filled stays invalid instead of carrying a sentinel.
type Indicators struct {
	CurrentPrice  null.Float
	PrevClose     null.Float
	Change        null.Float
	ChangePercent null.Float
	High52w       null.Float
	Low52w        null.Float
	AvgVolume30   null.Int
	SMA20         null.Float
	SMA50         null.Float
	RSI14         null.Float
}

// Trend is the direction of the fitted forecast line.
type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendBearish Trend = "bearish"
	TrendNeutral Trend = "neutral"
)

// Forecast is the next-bar linear projection.
type Forecast struct {
	NextValue  null.Float
	Confidence float64 // R² scaled to 0..100
	Trend      Trend
}

// NeutralForecast is returned whenever the fit cannot be computed.
func NeutralForecast() Forecast {
	return Forecast{Trend: TrendNeutral}
}

// StockReport is the full analytics payload for one symbol.
type StockReport struct {
	Symbol     string
	Name       null.String
	Indicators Indicators
	Forecast   Forecast
	MarketCap  null.Int
	PERatio    null.Float
	Historical Series
}
