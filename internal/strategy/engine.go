package strategy

import (
	"errors"
	"fmt"

	"StockLens/internal/model"
)

// RSI band edges. Both comparisons are strict, so the edges themselves are
// neutral.
const (
	OversoldRSI   = 30.0
	OverboughtRSI = 70.0
)

// ErrNoRSI is returned when a series has no usable latest RSI value.
var ErrNoRSI = errors.New("no RSI value for the latest bar")

// Classify maps a single RSI value to its signal band.
func Classify(rsi float64) model.Signal {
	switch {
	case rsi < OversoldRSI:
		return model.SignalBuy
	case rsi > OverboughtRSI:
		return model.SignalSell
	default:
		return model.SignalNeutral
	}
}

// Evaluate reads the most recent RSI of ind and classifies it.
func Evaluate(symbol string, ind *model.IndicatorSeries) (model.SignalReading, error) {
	rsi, ok := ind.LastRSI()
	if !ok {
		return model.SignalReading{}, fmt.Errorf("%s: %w", symbol, ErrNoRSI)
	}
	return model.SignalReading{
		Symbol: symbol,
		RSI:    rsi,
		Signal: Classify(rsi),
	}, nil
}
