package collector

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"StockLens/internal/calculator"
	"StockLens/internal/model"
	"StockLens/internal/strategy"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price    float64
	Bars     []model.OHLCV
	Metadata *model.Metadata
	// Errors fails every request for the keyed symbol.
	Errors map[string]error

	mu    sync.Mutex
	calls []string
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchHistory(_ context.Context, symbol string) (*model.PriceSeries, error) {
	m.record("history:" + symbol)
	if err := m.Errors[symbol]; err != nil {
		return nil, err
	}
	bars := m.Bars
	if bars == nil {
		bars = generateMockBars(m.Price, 126)
	}
	return &model.PriceSeries{Symbol: symbol, Bars: bars, FetchedAt: time.Now()}, nil
}

func (m *MockFetcher) FetchMetadata(_ context.Context, symbol string) (*model.Metadata, error) {
	m.record("metadata:" + symbol)
	if err := m.Errors[symbol]; err != nil {
		return nil, err
	}
	if m.Metadata != nil {
		meta := *m.Metadata
		meta.Symbol = symbol
		return &meta, nil
	}
	price := decimal.NewFromFloat(m.Price)
	return &model.Metadata{Symbol: symbol, Currency: "USD", CurrentPrice: &price, FetchedAt: time.Now()}, nil
}

// Calls returns the requests made so far, in order.
func (m *MockFetcher) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockFetcher) record(call string) {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()
}

func generateMockBars(basePrice float64, count int) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + 0.03*math.Sin(float64(i)/6))
		bars[i] = model.OHLCV{
			Time:   time.Now().AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// Collector orchestrates data fetching, indicator computation and signal
// derivation for a dashboard run.
type Collector struct {
	Fetcher Fetcher
	Params  calculator.Params
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, params calculator.Params) *Collector {
	return &Collector{Fetcher: fetcher, Params: params}
}

// Analyze fetches history and metadata for one symbol and derives its
// indicators and signal.
func (c *Collector) Analyze(ctx context.Context, symbol string) (*model.StockAnalysis, error) {
	series, err := c.Fetcher.FetchHistory(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	if len(series.Bars) == 0 {
		return nil, fmt.Errorf("fetch history: %w", ErrNoData)
	}

	meta, err := c.Fetcher.FetchMetadata(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch metadata: %w", err)
	}

	ind, err := calculator.Compute(series, c.Params)
	if err != nil {
		return nil, fmt.Errorf("compute indicators: %w", err)
	}

	reading, err := strategy.Evaluate(symbol, ind)
	if err != nil {
		return nil, fmt.Errorf("derive signal: %w", err)
	}

	return &model.StockAnalysis{
		Symbol:     symbol,
		Series:     series,
		Metadata:   meta,
		Indicators: ind,
		Reading:    reading,
	}, nil
}

// Compare analyzes both symbols one after the other. Any failure discards
// everything fetched so far.
func (c *Collector) Compare(ctx context.Context, symbol1, symbol2 string) (*model.Comparison, error) {
	cmp := &model.Comparison{GeneratedAt: time.Now()}
	for _, symbol := range []string{symbol1, symbol2} {
		a, err := c.Analyze(ctx, symbol)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", symbol, err)
		}
		log.Printf("[INFO] %s: %d bars from %s, RSI=%.2f (%s)",
			symbol, len(a.Series.Bars), c.Fetcher.Name(), a.Reading.RSI, a.Reading.Signal)
		cmp.Stocks = append(cmp.Stocks, a)
	}
	return cmp, nil
}
