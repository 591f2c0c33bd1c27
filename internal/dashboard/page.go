package dashboard

import (
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"

	"StockLens/internal/chart"
	"StockLens/internal/model"
	"StockLens/internal/strategy"
)

//go:embed templates/page.html
var templates embed.FS

var pageTemplate = template.Must(template.ParseFS(templates, "templates/page.html"))

// ChartView is one rendered chart ready to embed.
type ChartView struct {
	Title string
	Src   template.URL
}

// Result is everything shown for a successful run.
type Result struct {
	Panels  []Panel
	Charts  []ChartView
	Signals []SignalView
}

// Page is the template data of the dashboard. Error and Result are never
// both set.
type Page struct {
	Title   string
	Symbol1 string
	Symbol2 string
	Error   string
	Result  *Result
}

func dataURI(svg []byte) template.URL {
	return template.URL("data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(svg))
}

// buildResult renders the cards, charts and signals of a comparison. A
// chart that fails to render fails the whole result.
func buildResult(cmp *model.Comparison, lookbackMonths int) (*Result, error) {
	res := &Result{}
	for _, s := range cmp.Stocks {
		res.Panels = append(res.Panels, FormatPanel(s.Metadata))
		res.Signals = append(res.Signals, FormatSignal(s.Reading))
	}

	figures := []chart.Figure{
		chart.PriceFigure(cmp.Stocks, lookbackMonths),
		chart.RSIFigure(cmp.Stocks, strategy.OversoldRSI, strategy.OverboughtRSI),
		chart.MACDFigure(cmp.Stocks),
	}
	for _, f := range figures {
		svg, err := chart.Render(f)
		if err != nil {
			return nil, fmt.Errorf("render chart: %w", err)
		}
		res.Charts = append(res.Charts, ChartView{Title: f.Title, Src: dataURI(svg)})
	}
	return res, nil
}
