package collector

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"MarketLens/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Fixtures are keyed by symbol; symbols without a fixture get generated bars
// around Price, or ErrNoData when Price is zero.
type MockFetcher struct {
	Price    float64
	Charts   map[string]*model.Chart // daily fixtures
	Intraday map[string]*model.Chart // minute fixtures
	Profiles map[string]*model.Profile
	Errors   map[string]error

	mu    sync.Mutex
	calls []string
}

func (m *MockFetcher) Name() string { return "mock" }

// Calls returns the "op:symbol" log of requests served so far.
func (m *MockFetcher) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockFetcher) record(op, symbol string) {
	m.mu.Lock()
	m.calls = append(m.calls, op+":"+symbol)
	m.mu.Unlock()
}

func (m *MockFetcher) FetchChart(ctx context.Context, symbol string, q ChartQuery) (*model.Chart, error) {
	m.record("chart", symbol)
	if err := ctx.Err(); err != nil {
		return nil, &model.ProviderError{Provider: m.Name(), Symbol: symbol, Op: "chart", Err: err}
	}
	if err := m.Errors[symbol]; err != nil {
		return nil, err
	}

	fixtures := m.Charts
	if q.Interval == IntervalMinute {
		fixtures = m.Intraday
	}
	if c, ok := fixtures[symbol]; ok {
		if len(c.Bars) == 0 {
			return nil, fmt.Errorf("mock chart %s: %w", symbol, model.ErrNoData)
		}
		return c, nil
	}
	if m.Price <= 0 {
		return nil, fmt.Errorf("mock chart %s: %w", symbol, model.ErrNoData)
	}

	step := 24 * time.Hour
	if q.Interval == IntervalMinute {
		step = time.Minute
	}
	return &model.Chart{
		Meta: model.ChartMeta{Symbol: symbol, Currency: "USD", Timezone: "UTC"},
		Bars: generateMockBars(m.Price, barCount(q), step),
	}, nil
}

func (m *MockFetcher) FetchProfile(ctx context.Context, symbol string) (*model.Profile, error) {
	m.record("profile", symbol)
	if err := m.Errors[symbol]; err != nil {
		return nil, err
	}
	if p, ok := m.Profiles[symbol]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("mock profile %s: %w", symbol, model.ErrNoData)
}

// barCount maps a query to the number of generated bars.
func barCount(q ChartQuery) int {
	if q.Interval == IntervalMinute {
		return 60
	}
	if !q.Start.IsZero() && q.End.After(q.Start) {
		return int(q.End.Sub(q.Start).Hours() / 24)
	}
	if days, err := strconv.Atoi(strings.TrimSuffix(q.Range, "d")); err == nil && days > 0 {
		return days
	}
	return 1
}

func generateMockBars(basePrice float64, count int, step time.Duration) []model.Bar {
	end := time.Now().UTC().Truncate(step)
	bars := make([]model.Bar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.Bar{
			Time:   end.Add(-time.Duration(count-1-i) * step),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
