package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"StockLens/internal/calculator"
	"StockLens/internal/collector"
	"StockLens/internal/config"
	"StockLens/internal/dashboard"
	"StockLens/internal/recorder"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] StockLens starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init fetcher
	ds := cfg.DataSource
	clientOpts := collector.ClientOptions{
		Timeout:           ds.Timeout,
		RetryCount:        ds.RetryCount,
		Proxy:             cfg.Proxy,
		RequestsPerSecond: ds.RequestsPerSecond,
	}
	var fetcher collector.Fetcher
	switch ds.Provider {
	case "rest":
		fetcher = collector.NewRESTFetcher(ds.BaseURL, ds.APIKey, ds.LookbackMonths, clientOpts)
	default:
		fetcher = collector.NewYahooFetcher(collector.YahooOptions{
			ChartBaseURL:   ds.ChartBaseURL,
			SummaryBaseURL: ds.SummaryBaseURL,
			CookieURL:      ds.CookieURL,
			LookbackMonths: ds.LookbackMonths,
			Client:         clientOpts,
		})
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Init collector
	col := collector.NewCollector(fetcher, calculator.Params{
		RSIWindow: cfg.Indicators.RSIWindow,
		MACDFast:  cfg.Indicators.MACDFast,
		MACDSlow:  cfg.Indicators.MACDSlow,
	})

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	handler := dashboard.NewHandler(col, rec, dashboard.Options{
		Title:          cfg.Dashboard.Title,
		DefaultSymbol1: cfg.Dashboard.DefaultSymbol1,
		DefaultSymbol2: cfg.Dashboard.DefaultSymbol2,
		LookbackMonths: ds.LookbackMonths,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           dashboard.SetupRoutes(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[INFO] listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[ERROR] http shutdown: %v", err)
	}
	log.Println("[INFO] StockLens stopped")
}
