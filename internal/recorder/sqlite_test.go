package recorder

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockLens/internal/model"
)

func comparison() *model.Comparison {
	stock := func(symbol string, closes []float64, rsi float64, sig model.Signal) *model.StockAnalysis {
		s := &model.PriceSeries{Symbol: symbol}
		for i, c := range closes {
			s.Bars = append(s.Bars, model.OHLCV{Time: time.Unix(int64(i)*86400, 0), Close: c})
		}
		return &model.StockAnalysis{
			Symbol:     symbol,
			Series:     s,
			Indicators: &model.IndicatorSeries{RSI: []float64{model.Undefined, rsi}, MACD: []float64{model.Undefined, model.Undefined}},
			Reading:    model.SignalReading{Symbol: symbol, RSI: rsi, Signal: sig},
		}
	}
	return &model.Comparison{
		GeneratedAt: time.Unix(1700000000, 0),
		Stocks: []*model.StockAnalysis{
			stock("AAPL", []float64{10, 11}, 25, model.SignalBuy),
			stock("MSFT", []float64{20, 19}, 75, model.SignalSell),
		},
	}
}

func TestFromComparison(t *testing.T) {
	run := FromComparison("AAPL", "MSFT", comparison())

	assert.Equal(t, StatusOK, run.Status)
	require.Len(t, run.Snapshots, 2)
	assert.Equal(t, "AAPL", run.Snapshots[0].Symbol)
	assert.Equal(t, 11.0, run.Snapshots[0].LastClose)
	assert.Equal(t, 2, run.Snapshots[0].Bars)
	assert.Equal(t, model.SignalSell, run.Snapshots[1].Signal)
	assert.False(t, model.IsDefined(run.Snapshots[1].MACD))
}

func TestSQLiteRecorder_RecordRun(t *testing.T) {
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer rec.Close()

	require.NoError(t, rec.RecordRun(FromComparison("AAPL", "MSFT", comparison())))
	require.NoError(t, rec.RecordRun(Failed("AAPL", "XXXX", errors.New("not found"))))

	var runs, snapshots, nullMACD int
	require.NoError(t, rec.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&runs))
	require.NoError(t, rec.db.QueryRow(`SELECT COUNT(*) FROM run_snapshots`).Scan(&snapshots))
	require.NoError(t, rec.db.QueryRow(`SELECT COUNT(*) FROM run_snapshots WHERE macd IS NULL`).Scan(&nullMACD))
	assert.Equal(t, 2, runs)
	assert.Equal(t, 2, snapshots)
	assert.Equal(t, 2, nullMACD)

	var status, msg string
	require.NoError(t, rec.db.QueryRow(`SELECT status, error FROM runs WHERE symbol2 = 'XXXX'`).Scan(&status, &msg))
	assert.Equal(t, StatusFailed, status)
	assert.Equal(t, "not found", msg)
}

func TestSQLiteRecorder_ReopenKeepsSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	rec, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	require.NoError(t, rec.RecordRun(FromComparison("AAPL", "MSFT", comparison())))
	require.NoError(t, rec.Close())

	rec, err = NewSQLiteRecorder(path)
	require.NoError(t, err)
	defer rec.Close()

	var runs int
	require.NoError(t, rec.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&runs))
	assert.Equal(t, 1, runs)
}

func TestNoopRecorder(t *testing.T) {
	var rec Recorder = NewNoopRecorder()
	assert.NoError(t, rec.RecordRun(Failed("A", "B", errors.New("x"))))
	assert.NoError(t, rec.Close())
}
