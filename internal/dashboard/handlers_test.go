package dashboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockLens/internal/calculator"
	"StockLens/internal/collector"
	"StockLens/internal/model"
	"StockLens/internal/recorder"
)

type spyRecorder struct {
	mu   sync.Mutex
	runs []*recorder.Run
	err  error
}

func (s *spyRecorder) RecordRun(run *recorder.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, run)
	return s.err
}

func (s *spyRecorder) Close() error { return nil }

type captureComparer struct {
	symbols []string
}

func (c *captureComparer) Compare(_ context.Context, symbol1, symbol2 string) (*model.Comparison, error) {
	c.symbols = []string{symbol1, symbol2}
	return nil, errors.New("unavailable")
}

var testOptions = Options{
	Title:          "Stock analysis",
	DefaultSymbol1: "AAPL",
	DefaultSymbol2: "MSFT",
	LookbackMonths: 6,
}

func newTestRouter(fetcher *collector.MockFetcher, rec recorder.Recorder) http.Handler {
	col := collector.NewCollector(fetcher, calculator.DefaultParams)
	return SetupRoutes(NewHandler(col, rec, testOptions))
}

func postCompare(t *testing.T, h http.Handler, symbol1, symbol2 string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"symbol1": {symbol1}, "symbol2": {symbol2}}
	req := httptest.NewRequest(http.MethodPost, "/compare", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestIndex_DefaultInputs(t *testing.T) {
	h := newTestRouter(&collector.MockFetcher{Price: 100}, nil)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `name="symbol1" value="AAPL"`)
	assert.Contains(t, body, `name="symbol2" value="MSFT"`)
	assert.NotContains(t, body, "<img")
	assert.NotContains(t, body, "Error fetching stock data")
}

func TestCompare_Success(t *testing.T) {
	fetcher := &collector.MockFetcher{Price: 150}
	rec := &spyRecorder{}
	h := newTestRouter(fetcher, rec)

	w := postCompare(t, h, "AAPL", "MSFT")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "AAPL - Stock details")
	assert.Contains(t, body, "MSFT - Stock details")
	assert.Equal(t, 3, strings.Count(body, "data:image/svg&#43;xml;base64,")+strings.Count(body, "data:image/svg+xml;base64,"))
	assert.Contains(t, body, "AAPL: RSI")
	assert.Contains(t, body, "MSFT: RSI")
	assert.NotContains(t, body, "Error fetching stock data")

	// only the price is known to the mock
	assert.Contains(t, body, Placeholder)

	assert.Equal(t, []string{"history:AAPL", "metadata:AAPL", "history:MSFT", "metadata:MSFT"}, fetcher.Calls())
	require.Len(t, rec.runs, 1)
	assert.Equal(t, recorder.StatusOK, rec.runs[0].Status)
	assert.Len(t, rec.runs[0].Snapshots, 2)
}

func TestCompare_InvalidSymbolShowsSingleError(t *testing.T) {
	fetcher := &collector.MockFetcher{
		Price:  150,
		Errors: map[string]error{"XXXX": collector.NewValidationError("No data found, symbol may be delisted", nil)},
	}
	rec := &spyRecorder{}
	h := newTestRouter(fetcher, rec)

	w := postCompare(t, h, "AAPL", "XXXX")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Equal(t, 1, strings.Count(body, "Error fetching stock data"))
	assert.Equal(t, 1, strings.Count(body, `class="message error"`))
	assert.NotContains(t, body, "Stock details")
	assert.NotContains(t, body, "<img")
	assert.NotContains(t, body, "AAPL: RSI")

	require.Len(t, rec.runs, 1)
	assert.Equal(t, recorder.StatusFailed, rec.runs[0].Status)
	assert.Empty(t, rec.runs[0].Snapshots)
}

func TestCompare_InsufficientHistory(t *testing.T) {
	fetcher := &collector.MockFetcher{Price: 150, Bars: []model.OHLCV{{Close: 1}, {Close: 2}}}
	h := newTestRouter(fetcher, nil)

	body := postCompare(t, h, "AAPL", "MSFT").Body.String()

	assert.Equal(t, 1, strings.Count(body, "Error fetching stock data"))
	assert.NotContains(t, body, "<img")
}

func TestCompare_RecorderFailureNotShown(t *testing.T) {
	h := newTestRouter(&collector.MockFetcher{Price: 150}, &spyRecorder{err: errors.New("disk full")})

	body := postCompare(t, h, "AAPL", "MSFT").Body.String()

	assert.NotContains(t, body, "disk full")
	assert.Contains(t, body, "AAPL - Stock details")
}

func TestCompare_SymbolsUsedVerbatim(t *testing.T) {
	cmp := &captureComparer{}
	h := SetupRoutes(NewHandler(cmp, nil, testOptions))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/compare?symbol1=+aapl+&symbol2=", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{" aapl ", ""}, cmp.symbols)
	assert.Equal(t, 1, strings.Count(w.Body.String(), "Error fetching stock data: unavailable"))
}

func TestHealthCheck(t *testing.T) {
	h := newTestRouter(&collector.MockFetcher{}, nil)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestRoutes_MethodNotAllowed(t *testing.T) {
	h := newTestRouter(&collector.MockFetcher{}, nil)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/compare", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
