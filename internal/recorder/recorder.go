package recorder

import (
	"time"

	"StockLens/internal/model"
)

const (
	StatusOK     = "OK"
	StatusFailed = "FAILED"
)

// Snapshot is the per-symbol summary stored for a completed run.
type Snapshot struct {
	Symbol    string
	Bars      int
	LastClose float64
	RSI       float64
	MACD      float64 // NaN when undefined, stored as NULL
	Signal    model.Signal
}

// Run is one dashboard comparison, successful or not.
type Run struct {
	Timestamp time.Time
	Symbol1   string
	Symbol2   string
	Status    string
	Error     string
	Snapshots []Snapshot
}

// FromComparison summarizes a successful comparison.
func FromComparison(symbol1, symbol2 string, cmp *model.Comparison) *Run {
	run := &Run{
		Timestamp: cmp.GeneratedAt,
		Symbol1:   symbol1,
		Symbol2:   symbol2,
		Status:    StatusOK,
	}
	for _, s := range cmp.Stocks {
		snap := Snapshot{
			Symbol: s.Symbol,
			Bars:   len(s.Series.Bars),
			RSI:    s.Reading.RSI,
			MACD:   model.Undefined,
			Signal: s.Reading.Signal,
		}
		if n := len(s.Series.Bars); n > 0 {
			snap.LastClose = s.Series.Bars[n-1].Close
		}
		if n := len(s.Indicators.MACD); n > 0 {
			snap.MACD = s.Indicators.MACD[n-1]
		}
		run.Snapshots = append(run.Snapshots, snap)
	}
	return run
}

// Failed records a run that ended in an error.
func Failed(symbol1, symbol2 string, err error) *Run {
	return &Run{
		Timestamp: time.Now(),
		Symbol1:   symbol1,
		Symbol2:   symbol2,
		Status:    StatusFailed,
		Error:     err.Error(),
	}
}

// Recorder persists run history for later analysis. The dashboard never
// reads it back.
type Recorder interface {
	RecordRun(run *Run) error
	Close() error
}
