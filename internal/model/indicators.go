package model

import "math"

// Undefined marks an indicator value that has insufficient history.
var Undefined = math.NaN()

// IsDefined reports whether v is a computed indicator value.
func IsDefined(v float64) bool {
	return !math.IsNaN(v)
}

// IndicatorSeries holds indicator values aligned index-by-index with the
// bars of a PriceSeries. Leading entries are Undefined.
type IndicatorSeries struct {
	RSI  []float64
	MACD []float64
}

// LastRSI returns the most recent RSI value, or false when the series is
// empty or its last value is undefined.
func (s *IndicatorSeries) LastRSI() (float64, bool) {
	if s == nil || len(s.RSI) == 0 {
		return 0, false
	}
	v := s.RSI[len(s.RSI)-1]
	return v, IsDefined(v)
}
