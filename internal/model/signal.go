package model

import "time"

// Signal is the RSI band a symbol currently sits in.
type Signal string

const (
	SignalBuy     Signal = "BUY"
	SignalSell    Signal = "SELL"
	SignalNeutral Signal = "NEUTRAL"
)

// SignalReading is the classification of one symbol's latest RSI.
type SignalReading struct {
	Symbol string
	RSI    float64
	Signal Signal
}

// StockAnalysis bundles everything fetched and derived for one symbol.
type StockAnalysis struct {
	Symbol     string
	Series     *PriceSeries
	Metadata   *Metadata
	Indicators *IndicatorSeries
	Reading    SignalReading
}

// Comparison is the result of one dashboard run over two symbols.
type Comparison struct {
	Stocks      []*StockAnalysis
	GeneratedAt time.Time
}
