package calculator

import (
	"time"

	"MarketLens/internal/model"
)

var day0 = time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)

// seriesFromCloses builds a daily series with a flat 1000-share volume.
func seriesFromCloses(closes ...float64) model.Series {
	s := make(model.Series, len(closes))
	for i, c := range closes {
		s[i] = model.Bar{
			Time:   day0.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	return s
}

func linearCloses(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}
