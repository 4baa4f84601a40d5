package calculator

import (
	"fmt"
	"math"

	"github.com/guregu/null/v6"

	"MarketLens/internal/model"
)

// CalculateRange scans the whole supplied span and returns the highest high and
// lowest low. With a 365-day request this is the 52-week range; shorter
// histories simply yield the range of what is available.
func CalculateRange(bars model.Series) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, model.ErrNoData
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, b := range bars {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	return high, low, nil
}

// CalculateAvgVolume returns the mean volume of the last min(window, len) bars,
// truncated to an integer.
func CalculateAvgVolume(bars model.Series, window int) (int64, error) {
	if window <= 0 {
		return 0, fmt.Errorf("window must be positive")
	}
	if len(bars) == 0 {
		return 0, model.ErrNoData
	}
	tail := bars.Tail(window)
	var sum float64
	for _, b := range tail {
		sum += float64(b.Volume)
	}
	return int64(sum / float64(len(tail))), nil
}

// PriceChange returns current-prev and the percentage move. The percentage is
// invalid when prev is zero.
func PriceChange(current, prev float64) (float64, null.Float) {
	change := current - prev
	if prev == 0 {
		return change, null.Float{}
	}
	return change, null.FloatFrom(change / prev * 100)
}
