package calculator

import (
	"fmt"
	"math"
	"sort"
	"time"

	"MarketLens/internal/model"
)

// Granularity selects the key used to detect duplicate rows.
type Granularity int

const (
	// Daily collapses rows that fall on the same exchange-local calendar day.
	Daily Granularity = iota
	// Intraday collapses rows that fall on the same minute.
	Intraday
)

func (g Granularity) key(t time.Time) int64 {
	if g == Daily {
		y, m, d := t.Date()
		return int64(y)*10000 + int64(m)*100 + int64(d)
	}
	return t.Truncate(time.Minute).Unix()
}

// Align turns raw provider rows into an ordered, duplicate-free series.
// Unusable rows are dropped, duplicates collapse to the row the provider sent
// last, and the result is sorted ascending. Missing sessions are not filled.
func Align(rows []model.Bar, g Granularity) (model.Series, error) {
	if len(rows) == 0 {
		return nil, model.ErrNoData
	}

	out := make([]model.Bar, 0, len(rows))
	pos := make(map[int64]int, len(rows))
	for _, r := range rows {
		b, ok := normalizeBar(r)
		if !ok {
			continue
		}
		k := g.key(b.Time)
		if i, seen := pos[k]; seen {
			out[i] = b
			continue
		}
		pos[k] = len(out)
		out = append(out, b)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: all %d rows were invalid", model.ErrNoData, len(rows))
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return model.Series(out), nil
}

// normalizeBar rejects rows the math cannot use and widens the high/low
// envelope so that high >= max(open, close) and low <= min(open, close).
func normalizeBar(b model.Bar) (model.Bar, bool) {
	for _, v := range []float64{b.Open, b.High, b.Low, b.Close} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return b, false
		}
	}
	if b.Close <= 0 || b.Volume < 0 {
		return b, false
	}
	b.High = math.Max(b.High, math.Max(b.Open, math.Max(b.Close, b.Low)))
	b.Low = math.Min(b.Low, math.Min(b.Open, math.Min(b.Close, b.High)))
	return b, true
}
