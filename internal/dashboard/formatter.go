package dashboard

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"StockLens/internal/model"
)

// Placeholder is shown for any metadata field the provider did not report.
const Placeholder = "N/A"

const defaultCurrency = "USD"

// Panel is the rendered metadata card of one symbol.
type Panel struct {
	Symbol        string
	Name          string
	Price         string
	MarketCap     string
	TrailingPE    string
	DividendYield string
}

// SignalView is one styled signal message. Level is success, warning or info.
type SignalView struct {
	Symbol string
	Level  string
	Text   string
}

func orPlaceholder(d *decimal.Decimal, format func(decimal.Decimal) string) string {
	if d == nil {
		return Placeholder
	}
	return format(*d)
}

// FormatPanel formats a metadata snapshot for display.
func FormatPanel(meta *model.Metadata) Panel {
	currency := meta.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	return Panel{
		Symbol: meta.Symbol,
		Name:   meta.Name,
		Price: orPlaceholder(meta.CurrentPrice, func(d decimal.Decimal) string {
			return d.StringFixed(2) + " " + currency
		}),
		MarketCap: orPlaceholder(meta.MarketCap, func(d decimal.Decimal) string {
			return humanize.Comma(d.IntPart()) + " " + currency
		}),
		TrailingPE: orPlaceholder(meta.TrailingPE, func(d decimal.Decimal) string {
			return d.StringFixed(2)
		}),
		DividendYield: orPlaceholder(meta.DividendYield, decimal.Decimal.String),
	}
}

// FormatSignal formats one RSI reading as a styled message.
func FormatSignal(r model.SignalReading) SignalView {
	switch r.Signal {
	case model.SignalBuy:
		return SignalView{Symbol: r.Symbol, Level: "success",
			Text: fmt.Sprintf("📈 %s: RSI %.2f → Buy signal (oversold)", r.Symbol, r.RSI)}
	case model.SignalSell:
		return SignalView{Symbol: r.Symbol, Level: "warning",
			Text: fmt.Sprintf("📉 %s: RSI %.2f → Sell signal (overbought)", r.Symbol, r.RSI)}
	default:
		return SignalView{Symbol: r.Symbol, Level: "info",
			Text: fmt.Sprintf("ℹ️ %s: RSI %.2f → Neutral", r.Symbol, r.RSI)}
	}
}

// FormatError is the single message shown when a run fails.
func FormatError(err error) string {
	return fmt.Sprintf("⚠️ Error fetching stock data: %v", err)
}
