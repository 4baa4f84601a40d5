package api

import (
	"time"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"

	"MarketLens/internal/model"
)

// Presentation rounds every price-like figure to two places at the wire
// boundary; internal values keep full precision.
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func roundNull(v null.Float) null.Float {
	if !v.Valid {
		return v
	}
	return null.FloatFrom(round2(v.Float64))
}

type barPayload struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

type predictionPayload struct {
	NextDayPrice null.Float `json:"next_day_price"`
	Confidence   float64    `json:"confidence"`
	Trend        string     `json:"trend"`
}

type stockPayload struct {
	Symbol        string            `json:"symbol"`
	Name          null.String       `json:"name"`
	CurrentPrice  null.Float        `json:"current_price"`
	PrevClose     null.Float        `json:"prev_close"`
	Change        null.Float        `json:"change"`
	ChangePercent null.Float        `json:"change_percent"`
	High52Week    null.Float        `json:"high_52_week"`
	Low52Week     null.Float        `json:"low_52_week"`
	AvgVolume     null.Int          `json:"avg_volume"`
	MarketCap     null.Int          `json:"market_cap"`
	PERatio       null.Float        `json:"pe_ratio"`
	SMA20         null.Float        `json:"sma_20"`
	SMA50         null.Float        `json:"sma_50"`
	RSI           null.Float        `json:"rsi"`
	Prediction    predictionPayload `json:"prediction"`
	Historical    []barPayload      `json:"historical"`
}

func presentStock(r *model.StockReport) stockPayload {
	ind := r.Indicators
	p := stockPayload{
		Symbol:        r.Symbol,
		Name:          r.Name,
		CurrentPrice:  roundNull(ind.CurrentPrice),
		PrevClose:     roundNull(ind.PrevClose),
		Change:        roundNull(ind.Change),
		ChangePercent: roundNull(ind.ChangePercent),
		High52Week:    roundNull(ind.High52w),
		Low52Week:     roundNull(ind.Low52w),
		AvgVolume:     ind.AvgVolume30,
		MarketCap:     r.MarketCap,
		PERatio:       r.PERatio,
		SMA20:         roundNull(ind.SMA20),
		SMA50:         roundNull(ind.SMA50),
		RSI:           roundNull(ind.RSI14),
		Prediction: predictionPayload{
			NextDayPrice: roundNull(r.Forecast.NextValue),
			Confidence:   r.Forecast.Confidence,
			Trend:        string(r.Forecast.Trend),
		},
		Historical: make([]barPayload, len(r.Historical)),
	}
	for i, b := range r.Historical {
		p.Historical[i] = barPayload{
			Date:   b.Time.Format(time.DateOnly),
			Open:   round2(b.Open),
			High:   round2(b.High),
			Low:    round2(b.Low),
			Close:  round2(b.Close),
			Volume: b.Volume,
		}
	}
	return p
}

type realTimePayload struct {
	Symbol        string     `json:"symbol"`
	Name          string     `json:"name"`
	CurrentPrice  float64    `json:"current_price"`
	Change        float64    `json:"change"`
	ChangePercent null.Float `json:"change_percent"`
	Volume        int64      `json:"volume"`
	High          float64    `json:"high"`
	Low           float64    `json:"low"`
	Open          float64    `json:"open"`
	MarketTime    string     `json:"market_time"`
	IsMarketOpen  bool       `json:"is_market_open"`
	Currency      string     `json:"currency"`
	MarketCap     null.Int   `json:"market_cap"`
	Timezone      string     `json:"timezone"`
}

func presentRealTime(q *model.RealTimeQuote) realTimePayload {
	return realTimePayload{
		Symbol:        q.Symbol,
		Name:          q.Name,
		CurrentPrice:  round2(q.Price),
		Change:        round2(q.Change),
		ChangePercent: roundNull(q.ChangePercent),
		Volume:        q.Volume,
		High:          round2(q.High),
		Low:           round2(q.Low),
		Open:          round2(q.Open),
		MarketTime:    q.MarketTime.Format(time.DateTime),
		IsMarketOpen:  q.IsMarketOpen,
		Currency:      q.Currency,
		MarketCap:     q.MarketCap,
		Timezone:      q.Timezone,
	}
}

type indexPayload struct {
	Name          string     `json:"name"`
	Value         float64    `json:"value"`
	Change        float64    `json:"change"`
	ChangePercent null.Float `json:"change_percent"`
}

func presentSummary(rows []model.IndexSummary) []indexPayload {
	out := make([]indexPayload, len(rows))
	for i, s := range rows {
		out[i] = indexPayload{
			Name:          s.Name,
			Value:         round2(s.Value),
			Change:        round2(s.Change),
			ChangePercent: roundNull(s.ChangePercent),
		}
	}
	return out
}

type trendingPayload struct {
	Symbol        string     `json:"symbol"`
	Name          string     `json:"name"`
	CurrentPrice  float64    `json:"current_price"`
	ChangePercent null.Float `json:"change_percent"`
	Volume        int64      `json:"volume"`
	MarketCap     null.Int   `json:"market_cap"`
}

func presentTrending(rows []model.TrendingEntry) []trendingPayload {
	out := make([]trendingPayload, len(rows))
	for i, t := range rows {
		out[i] = trendingPayload{
			Symbol:        t.Symbol,
			Name:          t.Name,
			CurrentPrice:  round2(t.Price),
			ChangePercent: roundNull(t.ChangePercent),
			Volume:        t.Volume,
			MarketCap:     t.MarketCap,
		}
	}
	return out
}

func presentSearch(rows []model.SearchResult) []model.SearchResult {
	out := make([]model.SearchResult, len(rows))
	for i, r := range rows {
		r.CurrentPrice = roundNull(r.CurrentPrice)
		r.Change = roundNull(r.Change)
		r.ChangePercent = roundNull(r.ChangePercent)
		r.DayHigh = roundNull(r.DayHigh)
		r.DayLow = roundNull(r.DayLow)
		out[i] = r
	}
	return out
}

type marketStatusPayload struct {
	Market    string `json:"market"`
	Status    string `json:"status"`
	LocalTime string `json:"local_time"`
	Timezone  string `json:"timezone"`
	IsOpen    bool   `json:"is_open"`
}

func presentStatuses(rows []model.ExchangeStatus) []marketStatusPayload {
	out := make([]marketStatusPayload, len(rows))
	for i, s := range rows {
		out[i] = marketStatusPayload{
			Market:    s.Window.Name,
			Status:    string(s.Status),
			LocalTime: s.LocalTime,
			Timezone:  s.Window.Timezone,
			IsOpen:    s.IsOpen(),
		}
	}
	return out
}

type watchlistPayload struct {
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	CurrentPrice float64 `json:"current_price"`
}

func presentWatchlist(rows []model.WatchlistEntry) []watchlistPayload {
	out := make([]watchlistPayload, len(rows))
	for i, e := range rows {
		out[i] = watchlistPayload{Symbol: e.Symbol, Name: e.Name, CurrentPrice: round2(e.Price)}
	}
	return out
}
