package calculator

import (
	"errors"

	"StockLens/internal/model"
)

// CalculateRSI computes the Wilder-smoothed RSI series over the given period.
//
// Average gain and loss are exponential averages with alpha = 1/period seeded
// at the first bar, whose change counts as zero. The first period-1 values
// are model.Undefined. When the average loss is zero the RSI is 100.
func CalculateRSI(closes []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}

	rsi := make([]float64, len(closes))
	alpha := 1.0 / float64(period)

	var avgGain, avgLoss float64
	for i := range closes {
		gain, loss := 0.0, 0.0
		if i > 0 {
			change := closes[i] - closes[i-1]
			if change > 0 {
				gain = change
			} else {
				loss = -change
			}
		}

		if i == 0 {
			avgGain, avgLoss = gain, loss
		} else {
			avgGain = (1-alpha)*avgGain + alpha*gain
			avgLoss = (1-alpha)*avgLoss + alpha*loss
		}

		if i < period-1 {
			rsi[i] = model.Undefined
			continue
		}
		if avgLoss == 0 {
			rsi[i] = 100.0
			continue
		}
		rs := avgGain / avgLoss
		rsi[i] = 100.0 - 100.0/(1.0+rs)
	}
	return rsi, nil
}
