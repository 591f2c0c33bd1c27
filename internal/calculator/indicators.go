package calculator

import (
	"fmt"

	"StockLens/internal/model"
)

// Params selects the indicator windows.
type Params struct {
	RSIWindow int
	MACDFast  int
	MACDSlow  int
}

// DefaultParams are RSI(14) and MACD(12, 26).
var DefaultParams = Params{RSIWindow: 14, MACDFast: 12, MACDSlow: 26}

// Compute derives the RSI and MACD series for a price series.
func Compute(series *model.PriceSeries, p Params) (*model.IndicatorSeries, error) {
	closes := series.Closes()

	rsi, err := CalculateRSI(closes, p.RSIWindow)
	if err != nil {
		return nil, fmt.Errorf("rsi(%d): %w", p.RSIWindow, err)
	}
	macd, err := CalculateMACD(closes, p.MACDFast, p.MACDSlow)
	if err != nil {
		return nil, fmt.Errorf("macd(%d,%d): %w", p.MACDFast, p.MACDSlow, err)
	}
	return &model.IndicatorSeries{RSI: rsi, MACD: macd}, nil
}
