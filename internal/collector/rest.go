package collector

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"resty.dev/v3"

	"StockLens/internal/model"
)

// RESTFetcher implements Fetcher against a self-hosted bar service.
type RESTFetcher struct {
	BaseURL        string
	APIKey         string
	LookbackMonths int
	Now            func() time.Time

	client *httpClient
}

// NewRESTFetcher creates a new fetcher for the bar service at baseURL.
func NewRESTFetcher(baseURL, apiKey string, lookbackMonths int, opts ClientOptions) *RESTFetcher {
	if lookbackMonths <= 0 {
		lookbackMonths = 6
	}
	return &RESTFetcher{
		BaseURL:        strings.TrimRight(baseURL, "/"),
		APIKey:         apiKey,
		LookbackMonths: lookbackMonths,
		Now:            time.Now,
		client:         newHTTPClient(opts),
	}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restBar is the expected JSON shape of one daily bar.
type restBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// restProfile is the expected JSON shape of the profile endpoint.
// Every numeric field is optional.
type restProfile struct {
	Name          string           `json:"name"`
	Currency      string           `json:"currency"`
	Price         *decimal.Decimal `json:"price"`
	MarketCap     *decimal.Decimal `json:"market_cap"`
	TrailingPE    *decimal.Decimal `json:"trailing_pe"`
	DividendYield *decimal.Decimal `json:"dividend_yield"`
}

func (f *RESTFetcher) authorize(r *resty.Request) {
	if f.APIKey != "" {
		r.SetHeader("Authorization", "Bearer "+f.APIKey)
	}
}

func (f *RESTFetcher) FetchHistory(ctx context.Context, symbol string) (*model.PriceSeries, error) {
	now := f.Now()
	start := now.AddDate(0, -f.LookbackMonths, 0)

	var bars []restBar
	_, err := f.client.get(ctx, f.BaseURL+"/api/v1/bars/daily", func(r *resty.Request) {
		f.authorize(r)
		r.SetQueryParams(map[string]string{
			"symbol": symbol,
			"from":   strconv.FormatInt(start.Unix(), 10),
			"to":     strconv.FormatInt(now.Unix(), 10),
		}).SetResult(&bars)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("fetch bars %s: %w", symbol, ErrNoData)
	}

	series := &model.PriceSeries{Symbol: symbol, Bars: make([]model.OHLCV, len(bars)), FetchedAt: now}
	for i, b := range bars {
		series.Bars[i] = model.OHLCV{
			Time:   time.Unix(b.Timestamp, 0).UTC(),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		}
	}
	// Ensure chronological order
	sort.Slice(series.Bars, func(i, j int) bool { return series.Bars[i].Time.Before(series.Bars[j].Time) })
	return series, nil
}

func (f *RESTFetcher) FetchMetadata(ctx context.Context, symbol string) (*model.Metadata, error) {
	var profile restProfile
	_, err := f.client.get(ctx, f.BaseURL+"/api/v1/profile", func(r *resty.Request) {
		f.authorize(r)
		r.SetQueryParam("symbol", symbol).SetResult(&profile)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	return &model.Metadata{
		Symbol:        symbol,
		Name:          profile.Name,
		Currency:      profile.Currency,
		CurrentPrice:  profile.Price,
		MarketCap:     profile.MarketCap,
		TrailingPE:    profile.TrailingPE,
		DividendYield: profile.DividendYield,
		FetchedAt:     f.Now(),
	}, nil
}
