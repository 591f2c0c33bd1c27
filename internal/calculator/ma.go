package calculator

import (
	"errors"

	"StockLens/internal/model"
)

// CalculateEMA computes the exponential moving average of values with
// alpha = 2/(span+1), seeded at the first value. The first span-1 entries
// are model.Undefined.
func CalculateEMA(values []float64, span int) ([]float64, error) {
	if span <= 0 {
		return nil, errors.New("span must be positive")
	}

	ema := make([]float64, len(values))
	alpha := 2.0 / float64(span+1)

	var avg float64
	for i, v := range values {
		if i == 0 {
			avg = v
		} else {
			avg = (1-alpha)*avg + alpha*v
		}
		if i < span-1 {
			ema[i] = model.Undefined
			continue
		}
		ema[i] = avg
	}
	return ema, nil
}
