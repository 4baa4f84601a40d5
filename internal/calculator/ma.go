package calculator

import (
	"errors"
	"fmt"

	"MarketLens/internal/model"
)

// CalculateSMA computes the simple moving average of the trailing period prices.
// Only the most recent value of the rolling window is returned.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, fmt.Errorf("%w: SMA%d needs %d closes, have %d", model.ErrInsufficientData, period, period, len(prices))
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}
