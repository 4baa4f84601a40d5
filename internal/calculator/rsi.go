package calculator

import (
	"errors"
	"fmt"

	"MarketLens/internal/model"
)

// CalculateRSI computes the relative strength index of the most recent bar.
// Average gain and loss are simple means of the last period close-to-close
// deltas, so at least period+1 closes are required.
func CalculateRSI(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(closes) < period+1 {
		return 0, fmt.Errorf("%w: RSI%d needs %d closes, have %d", model.ErrInsufficientData, period, period+1, len(closes))
	}

	var sumGain, sumLoss float64
	for i := len(closes) - period; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			sumGain += delta
		} else {
			sumLoss -= delta
		}
	}
	avgGain := sumGain / float64(period)
	avgLoss := sumLoss / float64(period)

	// rs is unbounded when there were no losses
	if avgLoss == 0 {
		return 100.0, nil
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs), nil
}
