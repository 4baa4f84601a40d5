package calculator

import (
	"fmt"

	"github.com/guregu/null/v6"

	"MarketLens/internal/model"
)

// Indicator windows.
const (
	AvgVolumeWindow = 30
	ShortSMAPeriod  = 20
	LongSMAPeriod   = 50
	RSIPeriod       = 14
)

// ComputeIndicators derives the indicator set from an aligned series.
// Metrics whose window is not filled stay invalid. When fewer than two bars are
// available the change fields cannot be computed and ErrInsufficientData is
// returned alongside the fields that could be filled.
func ComputeIndicators(series model.Series) (model.Indicators, error) {
	var ind model.Indicators
	if len(series) == 0 {
		return ind, model.ErrNoData
	}

	closes := series.Closes()
	current := closes[len(closes)-1]
	ind.CurrentPrice = null.FloatFrom(current)

	if high, low, err := CalculateRange(series); err == nil {
		ind.High52w = null.FloatFrom(high)
		ind.Low52w = null.FloatFrom(low)
	}
	if v, err := CalculateAvgVolume(series, AvgVolumeWindow); err == nil {
		ind.AvgVolume30 = null.IntFrom(v)
	}
	if v, err := CalculateSMA(closes, ShortSMAPeriod); err == nil {
		ind.SMA20 = null.FloatFrom(v)
	}
	if v, err := CalculateSMA(closes, LongSMAPeriod); err == nil {
		ind.SMA50 = null.FloatFrom(v)
	}
	if v, err := CalculateRSI(closes, RSIPeriod); err == nil {
		ind.RSI14 = null.FloatFrom(v)
	}

	if len(closes) < 2 {
		return ind, fmt.Errorf("%w: change needs 2 bars, have %d", model.ErrInsufficientData, len(closes))
	}
	prev := closes[len(closes)-2]
	change, pct := PriceChange(current, prev)
	ind.PrevClose = null.FloatFrom(prev)
	ind.Change = null.FloatFrom(change)
	ind.ChangePercent = pct
	return ind, nil
}
