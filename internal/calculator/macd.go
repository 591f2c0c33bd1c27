package calculator

import (
	"errors"
	"fmt"

	"StockLens/internal/model"
)

// CalculateMACD returns the MACD line: EMA(fast) - EMA(slow) of closes.
// Entries where either average is undefined are model.Undefined.
func CalculateMACD(closes []float64, fast, slow int) ([]float64, error) {
	if fast <= 0 || slow <= 0 {
		return nil, errors.New("periods must be positive")
	}
	if fast >= slow {
		return nil, fmt.Errorf("fast period %d must be shorter than slow period %d", fast, slow)
	}

	fastEMA, err := CalculateEMA(closes, fast)
	if err != nil {
		return nil, fmt.Errorf("fast ema: %w", err)
	}
	slowEMA, err := CalculateEMA(closes, slow)
	if err != nil {
		return nil, fmt.Errorf("slow ema: %w", err)
	}

	macd := make([]float64, len(closes))
	for i := range closes {
		if !model.IsDefined(fastEMA[i]) || !model.IsDefined(slowEMA[i]) {
			macd[i] = model.Undefined
			continue
		}
		macd[i] = fastEMA[i] - slowEMA[i]
	}
	return macd, nil
}
