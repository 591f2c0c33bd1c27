package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds the daily bars fetched for one symbol, oldest first.
type PriceSeries struct {
	Symbol    string
	Bars      []OHLCV
	FetchedAt time.Time
}

// Closes returns the closing prices in bar order.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Times returns the bar timestamps in bar order.
func (s *PriceSeries) Times() []time.Time {
	times := make([]time.Time, len(s.Bars))
	for i, b := range s.Bars {
		times[i] = b.Time
	}
	return times
}

// Metadata is a snapshot of company facts for one symbol.
// A nil value means the provider did not report the field.
type Metadata struct {
	Symbol        string
	Name          string
	Currency      string
	CurrentPrice  *decimal.Decimal
	MarketCap     *decimal.Decimal
	TrailingPE    *decimal.Decimal
	DividendYield *decimal.Decimal
	FetchedAt     time.Time
}
