package calculator

import (
	"errors"
	"fmt"
	"math"

	"github.com/guregu/null/v6"

	"MarketLens/internal/model"
)

// ForecastWindow is the number of trailing closes the trend line is fitted on.
const ForecastWindow = 30

var errDegenerateFit = errors.New("degenerate fit: window has zero variance")

// Forecast fits a least-squares line over the trailing closes and projects it
// one step past the window. It never fails: any problem with the fit yields a
// neutral forecast with zero confidence.
func Forecast(series model.Series) model.Forecast {
	closes := series.Tail(ForecastWindow).Closes()
	slope, intercept, r2, err := LinearFit(closes)
	if err != nil {
		return model.NeutralForecast()
	}

	next := slope*float64(len(closes)) + intercept
	if math.IsNaN(next) || math.IsInf(next, 0) || math.IsNaN(r2) {
		return model.NeutralForecast()
	}

	confidence := math.Round(r2*1000) / 10
	confidence = math.Max(0, math.Min(100, confidence))

	trend := model.TrendBearish
	if slope > 0 {
		trend = model.TrendBullish
	}
	return model.Forecast{
		NextValue:  null.FloatFrom(next),
		Confidence: confidence,
		Trend:      trend,
	}
}

// LinearFit regresses y on its index 0..n-1 and returns the slope, intercept
// and coefficient of determination.
func LinearFit(y []float64) (slope, intercept, r2 float64, err error) {
	n := len(y)
	if n < 2 {
		return 0, 0, 0, fmt.Errorf("%w: fit needs 2 points, have %d", model.ErrInsufficientData, n)
	}

	xMean := float64(n-1) / 2
	yMean := 0.0
	for _, v := range y {
		yMean += v
	}
	yMean /= float64(n)

	var sxy, sxx float64
	for i, v := range y {
		dx := float64(i) - xMean
		sxy += dx * (v - yMean)
		sxx += dx * dx
	}
	slope = sxy / sxx
	intercept = yMean - slope*xMean

	var ssRes, ssTot float64
	for i, v := range y {
		fit := slope*float64(i) + intercept
		ssRes += (v - fit) * (v - fit)
		ssTot += (v - yMean) * (v - yMean)
	}
	if ssTot == 0 {
		return slope, intercept, 0, errDegenerateFit
	}
	return slope, intercept, 1 - ssRes/ssTot, nil
}
