package calculator

import (
	"errors"
	"math"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"
)

// RollingMean computes the trailing simple moving average of values over the
// given window. Positions before the first full window are NaN.
func RollingMean(values []float64, window int) ([]float64, error) {
	if window <= 0 {
		return nil, errors.New("window must be positive")
	}
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}
	if len(values) < window {
		return out, nil
	}
	sma := trend.NewSmaWithPeriod[float64](window)
	full := helper.ChanToSlice(sma.Compute(helper.SliceToChan(values)))
	copy(out[window-1:], full)
	return out, nil
}
