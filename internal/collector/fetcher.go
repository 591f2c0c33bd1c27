package collector

import (
	"context"

	"StockLens/internal/model"
)

// Fetcher defines the interface for fetching market data for one symbol.
type Fetcher interface {
	// FetchHistory returns daily bars over the configured lookback, oldest first.
	FetchHistory(ctx context.Context, symbol string) (*model.PriceSeries, error)
	// FetchMetadata returns a snapshot of company facts. Fields the provider
	// does not report are left nil.
	FetchMetadata(ctx context.Context, symbol string) (*model.Metadata, error)
	Name() string
}
