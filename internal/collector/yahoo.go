package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"resty.dev/v3"

	"StockLens/internal/model"
)

// YahooFetcher implements Fetcher using the Yahoo Finance chart and
// quoteSummary APIs.
type YahooFetcher struct {
	ChartBaseURL   string
	SummaryBaseURL string
	CookieURL      string
	LookbackMonths int
	Now            func() time.Time

	client *httpClient

	mu    sync.Mutex
	crumb string
}

// YahooOptions configures a YahooFetcher.
type YahooOptions struct {
	ChartBaseURL   string
	SummaryBaseURL string
	CookieURL      string
	LookbackMonths int
	Client         ClientOptions
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(opts YahooOptions) *YahooFetcher {
	months := opts.LookbackMonths
	if months <= 0 {
		months = 6
	}
	return &YahooFetcher{
		ChartBaseURL:   strings.TrimRight(opts.ChartBaseURL, "/"),
		SummaryBaseURL: strings.TrimRight(opts.SummaryBaseURL, "/"),
		CookieURL:      opts.CookieURL,
		LookbackMonths: months,
		Now:            time.Now,
		client:         newHTTPClient(opts.Client),
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// yahooChart is the response structure from the chart API. Quote arrays
// hold nulls for sessions without trades.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"chart"`
}

// yahooValue is the {"raw": ..., "fmt": ...} wrapper used by quoteSummary.
// An empty object or an unparsable raw (e.g. "Infinity") means absent.
type yahooValue struct {
	Raw json.RawMessage `json:"raw"`
}

func (v yahooValue) decimal() *decimal.Decimal {
	if len(v.Raw) == 0 || string(v.Raw) == "null" {
		return nil
	}
	d, err := decimal.NewFromString(strings.Trim(string(v.Raw), `"`))
	if err != nil {
		return nil
	}
	return &d
}

type yahooSummary struct {
	QuoteSummary struct {
		Result []struct {
			Price *struct {
				Currency           string     `json:"currency"`
				LongName           string     `json:"longName"`
				ShortName          string     `json:"shortName"`
				RegularMarketPrice yahooValue `json:"regularMarketPrice"`
				MarketCap          yahooValue `json:"marketCap"`
			} `json:"price"`
			SummaryDetail *struct {
				TrailingPE    yahooValue `json:"trailingPE"`
				DividendYield yahooValue `json:"dividendYield"`
				MarketCap     yahooValue `json:"marketCap"`
			} `json:"summaryDetail"`
			FinancialData *struct {
				CurrentPrice yahooValue `json:"currentPrice"`
			} `json:"financialData"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"quoteSummary"`
}

// providerError turns a failed response into an error, preferring the
// description Yahoo puts in the JSON body.
func providerError(resp *resty.Response, err error, describe func(body []byte) *yahooError) error {
	var fe *FetchError
	if resp == nil || !errors.As(err, &fe) {
		return err
	}
	if ye := describe([]byte(resp.String())); ye != nil && ye.Description != "" {
		fe.Message = ye.Description
	}
	return fe
}

func chartErrorFromBody(body []byte) *yahooError {
	var c yahooChart
	if json.Unmarshal(body, &c) != nil {
		return nil
	}
	return c.Chart.Error
}

func summaryErrorFromBody(body []byte) *yahooError {
	var s yahooSummary
	if json.Unmarshal(body, &s) != nil {
		return nil
	}
	return s.QuoteSummary.Error
}

// FetchHistory fetches daily bars for the lookback window ending now.
func (f *YahooFetcher) FetchHistory(ctx context.Context, symbol string) (*model.PriceSeries, error) {
	now := f.Now()
	start := now.AddDate(0, -f.LookbackMonths, 0)

	var chart yahooChart
	resp, err := f.client.get(ctx, f.ChartBaseURL+"/v8/finance/chart/{symbol}", func(r *resty.Request) {
		r.SetPathParam("symbol", symbol).
			SetQueryParams(map[string]string{
				"interval":       "1d",
				"period1":        strconv.FormatInt(start.Unix(), 10),
				"period2":        strconv.FormatInt(now.Unix(), 10),
				"events":         "history",
				"includePrePost": "false",
			}).
			SetResult(&chart)
	})
	if err != nil {
		return nil, fmt.Errorf("yahoo chart: %w", providerError(resp, err, chartErrorFromBody))
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart: %w", NewValidationError(chart.Chart.Error.Description, nil))
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, ErrNoData)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	at := func(vals []*float64, i int) float64 {
		if i >= len(vals) || vals[i] == nil {
			return 0
		}
		return *vals[i]
	}

	bars := make([]model.OHLCV, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue // no trades that session
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   at(quote.Open, i),
			High:   at(quote.High, i),
			Low:    at(quote.Low, i),
			Close:  *quote.Close[i],
			Volume: at(quote.Volume, i),
		})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, ErrNoData)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return &model.PriceSeries{Symbol: symbol, Bars: bars, FetchedAt: now}, nil
}

// FetchMetadata fetches the price, summaryDetail and financialData modules.
// A rejected crumb is refreshed once.
func (f *YahooFetcher) FetchMetadata(ctx context.Context, symbol string) (*model.Metadata, error) {
	summary, err := f.fetchSummary(ctx, symbol)
	var fe *FetchError
	if errors.As(err, &fe) && fe.StatusCode == http.StatusUnauthorized {
		f.resetCrumb()
		summary, err = f.fetchSummary(ctx, symbol)
	}
	if err != nil {
		return nil, fmt.Errorf("yahoo quote summary: %w", err)
	}
	if summary.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo quote summary: %w", NewValidationError(summary.QuoteSummary.Error.Description, nil))
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo quote summary %s: %w", symbol, ErrNoData)
	}

	res := summary.QuoteSummary.Result[0]
	meta := &model.Metadata{Symbol: symbol, FetchedAt: f.Now()}
	if res.FinancialData != nil {
		meta.CurrentPrice = res.FinancialData.CurrentPrice.decimal()
	}
	if res.Price != nil {
		meta.Currency = res.Price.Currency
		meta.Name = res.Price.LongName
		if meta.Name == "" {
			meta.Name = res.Price.ShortName
		}
		if meta.CurrentPrice == nil {
			meta.CurrentPrice = res.Price.RegularMarketPrice.decimal()
		}
		meta.MarketCap = res.Price.MarketCap.decimal()
	}
	if res.SummaryDetail != nil {
		meta.TrailingPE = res.SummaryDetail.TrailingPE.decimal()
		meta.DividendYield = res.SummaryDetail.DividendYield.decimal()
		if meta.MarketCap == nil {
			meta.MarketCap = res.SummaryDetail.MarketCap.decimal()
		}
	}
	return meta, nil
}

func (f *YahooFetcher) fetchSummary(ctx context.Context, symbol string) (*yahooSummary, error) {
	crumb, err := f.sessionCrumb(ctx)
	if err != nil {
		return nil, err
	}

	var summary yahooSummary
	resp, err := f.client.get(ctx, f.SummaryBaseURL+"/v10/finance/quoteSummary/{symbol}", func(r *resty.Request) {
		r.SetPathParam("symbol", symbol).
			SetQueryParams(map[string]string{
				"modules": "price,summaryDetail,financialData",
				"crumb":   crumb,
			}).
			SetResult(&summary)
	})
	if err != nil {
		return nil, providerError(resp, err, summaryErrorFromBody)
	}
	return &summary, nil
}

// sessionCrumb returns the cached crumb, obtaining a session cookie and a
// new crumb when none is held.
func (f *YahooFetcher) sessionCrumb(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.crumb != "" {
		return f.crumb, nil
	}

	// The cookie endpoint answers 404 but still sets the session cookie.
	if f.CookieURL != "" {
		if _, err := f.client.get(ctx, f.CookieURL, nil); err != nil {
			var fe *FetchError
			if !errors.As(err, &fe) || fe.StatusCode == 0 {
				return "", fmt.Errorf("yahoo session cookie: %w", err)
			}
		}
	}

	resp, err := f.client.get(ctx, f.SummaryBaseURL+"/v1/test/getcrumb", nil)
	if err != nil {
		return "", fmt.Errorf("yahoo crumb: %w", err)
	}
	crumb := strings.TrimSpace(resp.String())
	if crumb == "" {
		return "", fmt.Errorf("yahoo crumb: %w", NewValidationError("empty crumb", nil))
	}
	f.crumb = crumb
	return crumb, nil
}

func (f *YahooFetcher) resetCrumb() {
	f.mu.Lock()
	f.crumb = ""
	f.mu.Unlock()
}
