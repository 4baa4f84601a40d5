package collector

import (
	"context"
	"errors"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/guregu/null/v6"

	"MarketLens/internal/calculator"
	"MarketLens/internal/logger"
	"MarketLens/internal/markethours"
	"MarketLens/internal/metrics"
	"MarketLens/internal/model"
)

// Defaults for Options fields left zero.
const (
	DefaultTimeout       = 5 * time.Second
	DefaultHistoryDays   = 365
	DefaultTrendingLimit = 8
	trendingNameLimit    = 30
)

// DefaultIndices is the market summary index list.
var DefaultIndices = []model.Instrument{
	{Symbol: "^NSEI", Name: "NIFTY 50"},
	{Symbol: "^BSESN", Name: "BSE SENSEX"},
	{Symbol: "^GSPC", Name: "S&P 500"},
	{Symbol: "^DJI", Name: "Dow Jones"},
}

// DefaultTrendingSymbols is the candidate list for the most-active view.
var DefaultTrendingSymbols = []string{
	"AAPL", "GOOGL", "MSFT", "TSLA", "AMZN", "META", "NVDA", "NFLX",
	"RELIANCE.NS", "TCS.NS", "HDFCBANK.NS", "INFY.NS", "ICICIBANK.NS",
}

// Options tunes a Collector.
type Options struct {
	Timeout         time.Duration
	HistoryDays     int
	Indices         []model.Instrument
	TrendingSymbols []string
	TrendingLimit   int
	Metrics         *metrics.Metrics
}

// Collector orchestrates data fetching and indicator computation.
type Collector struct {
	Fetcher Fetcher
	Clock   *markethours.Clock
	opts    Options
	now     func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, clock *markethours.Clock, opts Options) *Collector {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.HistoryDays <= 0 {
		opts.HistoryDays = DefaultHistoryDays
	}
	if len(opts.Indices) == 0 {
		opts.Indices = DefaultIndices
	}
	if len(opts.TrendingSymbols) == 0 {
		opts.TrendingSymbols = DefaultTrendingSymbols
	}
	if opts.TrendingLimit <= 0 {
		opts.TrendingLimit = DefaultTrendingLimit
	}
	if clock == nil {
		clock = markethours.NewClock(nil)
	}
	return &Collector{Fetcher: fetcher, Clock: clock, opts: opts, now: time.Now}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, model.ErrNoData):
		return metrics.OutcomeNoData
	default:
		return metrics.OutcomeError
	}
}

func (c *Collector) chart(ctx context.Context, op, symbol string, q ChartQuery) (*model.Chart, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	start := time.Now()
	chart, err := c.Fetcher.FetchChart(ctx, symbol, q)
	c.opts.Metrics.ObserveProvider(op, outcome(err), time.Since(start))
	return chart, err
}

// profile is best-effort: a failure is logged and yields nil.
func (c *Collector) profile(ctx context.Context, symbol string) *model.Profile {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	start := time.Now()
	p, err := c.Fetcher.FetchProfile(ctx, symbol)
	c.opts.Metrics.ObserveProvider("profile", outcome(err), time.Since(start))
	if err != nil {
		logger.From(ctx).Debug().Err(err).Str("symbol", symbol).Msg("profile unavailable")
		return nil
	}
	return p
}

func displayName(p *model.Profile, meta model.ChartMeta) string {
	if name := p.DisplayName(); name != "" {
		return name
	}
	if meta.LongName != "" {
		return meta.LongName
	}
	return meta.ShortName
}

// Analyze builds the full analytics report over the configured history span.
// ErrNoData is returned when the provider has no usable bars.
func (c *Collector) Analyze(ctx context.Context, symbol string) (*model.StockReport, error) {
	end := c.now()
	chart, err := c.chart(ctx, "history", symbol, ChartQuery{
		Interval: IntervalDaily,
		Start:    end.AddDate(0, 0, -c.opts.HistoryDays),
		End:      end,
	})
	if err != nil {
		return nil, err
	}
	series, err := calculator.Align(chart.Bars, calculator.Daily)
	if err != nil {
		return nil, err
	}

	ind, err := calculator.ComputeIndicators(series)
	if err != nil {
		logger.From(ctx).Warn().Err(err).Str("symbol", symbol).Int("bars", len(series)).Msg("indicators degraded")
	}

	report := &model.StockReport{
		Symbol:     symbol,
		Indicators: ind,
		Forecast:   calculator.Forecast(series),
		Historical: series,
	}
	p := c.profile(ctx, symbol)
	if name := displayName(p, chart.Meta); name != "" {
		report.Name = null.StringFrom(name)
	}
	if p != nil {
		report.MarketCap = p.MarketCap
		report.PERatio = p.TrailingPE
	}
	return report, nil
}

// snapshot is the 2-day quote shared by search, trending and the summary.
func (c *Collector) snapshot(ctx context.Context, op, symbol string, withProfile bool) (*model.Quote, model.Bar, error) {
	chart, err := c.chart(ctx, op, symbol, ChartQuery{Interval: IntervalDaily, Range: "2d"})
	if err != nil {
		return nil, model.Bar{}, err
	}
	series, err := calculator.Align(chart.Bars, calculator.Daily)
	if err != nil {
		return nil, model.Bar{}, err
	}

	last := series.Last()
	prev := last.Close
	if len(series) > 1 {
		prev = series[len(series)-2].Close
	}
	change, pct := calculator.PriceChange(last.Close, prev)

	q := &model.Quote{
		Symbol:        symbol,
		Price:         last.Close,
		PrevClose:     prev,
		Change:        change,
		ChangePercent: pct,
		DayHigh:       last.High,
		DayLow:        last.Low,
		Volume:        chart.Meta.RegularMarketVolume,
	}
	var p *model.Profile
	if withProfile {
		p = c.profile(ctx, symbol)
	}
	q.Name = displayName(p, chart.Meta)
	if p != nil {
		q.MarketCap = p.MarketCap
		q.PERatio = p.TrailingPE
		if p.Volume.Valid {
			q.Volume = p.Volume
		}
	}
	return q, last, nil
}

// Quote returns the latest daily quote with profile enrichment.
func (c *Collector) Quote(ctx context.Context, symbol string) (*model.Quote, error) {
	q, _, err := c.snapshot(ctx, "quote", symbol, true)
	return q, err
}

// RealTime returns the latest one-minute bar of the current session. The
// previous close is the prior minute, else the provider's previous close,
// else the latest close itself.
func (c *Collector) RealTime(ctx context.Context, symbol string) (*model.RealTimeQuote, error) {
	chart, err := c.chart(ctx, "realtime", symbol, ChartQuery{Interval: IntervalMinute, Range: "1d"})
	if err != nil {
		return nil, err
	}
	series, err := calculator.Align(chart.Bars, calculator.Intraday)
	if err != nil {
		return nil, err
	}
	latest := series.Last()
	p := c.profile(ctx, symbol)

	prev := latest.Close
	switch {
	case len(series) > 1:
		prev = series[len(series)-2].Close
	case p != nil && p.PreviousClose.Valid:
		prev = p.PreviousClose.Float64
	case chart.Meta.PreviousClose.Valid:
		prev = chart.Meta.PreviousClose.Float64
	}
	change, pct := calculator.PriceChange(latest.Close, prev)

	rt := &model.RealTimeQuote{
		Symbol:        symbol,
		Name:          displayName(p, chart.Meta),
		Price:         latest.Close,
		Change:        change,
		ChangePercent: pct,
		Volume:        latest.Volume,
		High:          latest.High,
		Low:           latest.Low,
		Open:          latest.Open,
		MarketTime:    latest.Time,
		IsMarketOpen:  c.Clock.IsOpenNow(symbol, c.now()),
		Currency:      chart.Meta.Currency,
		Timezone:      chart.Meta.Timezone,
	}
	if rt.Name == "" {
		rt.Name = symbol
	}
	if p != nil {
		rt.MarketCap = p.MarketCap
		if p.Currency != "" {
			rt.Currency = p.Currency
		}
	}
	if rt.Currency == "" {
		rt.Currency = "USD"
	}
	if rt.Timezone == "" {
		rt.Timezone = latest.Time.Location().String()
	}
	return rt, nil
}

// MarketSummary quotes every configured index. Indices that fail are omitted.
func (c *Collector) MarketSummary(ctx context.Context) []model.IndexSummary {
	out := make([]model.IndexSummary, 0, len(c.opts.Indices))
	for _, idx := range c.opts.Indices {
		q, _, err := c.snapshot(ctx, "summary", idx.Symbol, false)
		if err != nil {
			logger.From(ctx).Warn().Err(err).Str("symbol", idx.Symbol).Msg("index omitted from summary")
			continue
		}
		out = append(out, model.IndexSummary{
			Name:          idx.Name,
			Value:         q.Price,
			Change:        q.Change,
			ChangePercent: q.ChangePercent,
		})
	}
	return out
}

// Trending quotes the first TrendingLimit candidates and orders them by the
// latest session volume, most active first. Symbols that fail are omitted.
func (c *Collector) Trending(ctx context.Context) []model.TrendingEntry {
	symbols := c.opts.TrendingSymbols
	if len(symbols) > c.opts.TrendingLimit {
		symbols = symbols[:c.opts.TrendingLimit]
	}

	out := make([]model.TrendingEntry, 0, len(symbols))
	for _, sym := range symbols {
		q, last, err := c.snapshot(ctx, "trending", sym, true)
		if err != nil {
			logger.From(ctx).Warn().Err(err).Str("symbol", sym).Msg("symbol omitted from trending")
			continue
		}
		name := q.Name
		if name == "" {
			name = sym
		}
		out = append(out, model.TrendingEntry{
			Symbol:        sym,
			Name:          shorten(name, trendingNameLimit),
			Price:         q.Price,
			ChangePercent: q.ChangePercent,
			Volume:        last.Volume,
			MarketCap:     q.MarketCap,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Volume > out[j].Volume })
	return out
}

// WatchlistPrices returns the latest close of each symbol, in input order.
// Symbols that fail are omitted.
func (c *Collector) WatchlistPrices(ctx context.Context, symbols []string) []model.WatchlistEntry {
	out := make([]model.WatchlistEntry, 0, len(symbols))
	for _, sym := range symbols {
		chart, err := c.chart(ctx, "watchlist", sym, ChartQuery{Interval: IntervalDaily, Range: "1d"})
		var series model.Series
		if err == nil {
			series, err = calculator.Align(chart.Bars, calculator.Daily)
		}
		if err != nil {
			logger.From(ctx).Warn().Err(err).Str("symbol", sym).Msg("symbol omitted from watchlist")
			continue
		}
		name := displayName(c.profile(ctx, sym), chart.Meta)
		if name == "" {
			name = sym
		}
		out = append(out, model.WatchlistEntry{
			Symbol: sym,
			Name:   name,
			Price:  series.Last().Close,
		})
	}
	return out
}

// shorten cuts s to limit runes followed by "..." when it is longer.
func shorten(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "..."
}
