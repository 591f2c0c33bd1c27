package collector

import (
	"context"
	"log"
	"net/http"
	"net/http/cookiejar"
	"time"

	"golang.org/x/time/rate"
	"resty.dev/v3"
)

const (
	defaultRetryWaitTime    = 1 * time.Second
	defaultRetryMaxWaitTime = 10 * time.Second
	userAgent               = "Mozilla/5.0"
)

// ClientOptions configures the provider HTTP transport.
type ClientOptions struct {
	Timeout           time.Duration
	RetryCount        int
	Proxy             string
	RequestsPerSecond float64 // 0 disables throttling
	RetryWaitTime     time.Duration
}

// httpClient is a resty client whose every attempt, retries included,
// passes through a rate limiter.
type httpClient struct {
	rc      *resty.Client
	limiter *rate.Limiter
}

func newHTTPClient(opts ClientOptions) *httpClient {
	wait, maxWait := defaultRetryWaitTime, defaultRetryMaxWaitTime
	if opts.RetryWaitTime > 0 {
		wait, maxWait = opts.RetryWaitTime, opts.RetryWaitTime
	}
	c := &httpClient{}
	rc := resty.New().
		SetHeader("User-Agent", userAgent).
		SetRetryCount(opts.RetryCount).
		SetRetryWaitTime(wait).
		SetRetryMaxWaitTime(maxWait).
		AddRetryConditions(retryCondition).
		AddRetryHooks(retryHook).
		AddRequestMiddleware(c.throttle)
	if opts.Timeout > 0 {
		rc.SetTimeout(opts.Timeout)
	}
	if opts.Proxy != "" {
		rc.SetProxy(opts.Proxy)
	}
	if jar, err := cookiejar.New(nil); err == nil {
		rc.SetCookieJar(jar)
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	c.rc = rc
	c.limiter = rate.NewLimiter(limit, 1)
	return c
}

// throttle runs before each attempt.
func (c *httpClient) throttle(_ *resty.Client, r *resty.Request) error {
	return c.limiter.Wait(r.Context())
}

// get issues a GET. Transport failures and non-2xx answers come back as
// *FetchError; the response is returned in both the success and the
// status-error case.
func (c *httpClient) get(ctx context.Context, url string, prepare func(*resty.Request)) (*resty.Response, error) {
	req := c.rc.R().SetContext(ctx)
	if prepare != nil {
		prepare(req)
	}
	resp, err := req.Get(url)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	if !resp.IsSuccess() {
		return resp, ClassifyHTTPError(resp.StatusCode())
	}
	return resp, nil
}

func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	switch code := r.StatusCode(); {
	case code >= 500:
		return true
	case code == http.StatusTooManyRequests, code == http.StatusRequestTimeout:
		return true
	default:
		return false
	}
}

func retryHook(r *resty.Response, err error) {
	if err != nil {
		log.Printf("[WARN] retrying %s (attempt %d): %v", r.Request.URL, r.Request.Attempt, err)
		return
	}
	log.Printf("[WARN] retrying %s (attempt %d): status %d", r.Request.URL, r.Request.Attempt, r.StatusCode())
}
