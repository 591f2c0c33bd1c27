// Package chart builds and renders the dashboard's time-series figures.
package chart

import (
	"bytes"
	"fmt"
	"image/color"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"StockLens/internal/model"
)

var (
	Background = color.RGBA{R: 0x1E, G: 0x1E, B: 0x1E, A: 0xFF}
	Foreground = color.White

	// SeriesColors is the fixed color per symbol position.
	SeriesColors = []color.Color{
		color.RGBA{R: 0x00, G: 0xFF, B: 0xFF, A: 0xFF}, // cyan
		color.RGBA{R: 0xFF, G: 0x00, B: 0xFF, A: 0xFF}, // magenta
	}

	red   = color.RGBA{R: 0xFF, A: 0xFF}
	green = color.RGBA{G: 0x80, A: 0xFF}
	gray  = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}
)

// Series is one line of a figure. NaN values are left out of the line.
type Series struct {
	Label  string
	Times  []time.Time
	Values []float64
	Color  color.Color
}

// RefLine is a dashed horizontal line at a fixed value.
type RefLine struct {
	Label string // empty keeps the line out of the legend
	Value float64
	Color color.Color
}

// Figure describes a chart independently of how it is drawn.
type Figure struct {
	Title    string
	XLabel   string
	YLabel   string
	Series   []Series
	RefLines []RefLine
	// YMin and YMax fix the Y axis when YMax > YMin.
	YMin, YMax float64
	Width      vg.Length
	Height     vg.Length
}

func seriesFor(stocks []*model.StockAnalysis, label string, values func(*model.StockAnalysis) []float64) []Series {
	out := make([]Series, 0, len(stocks))
	for i, s := range stocks {
		out = append(out, Series{
			Label:  fmt.Sprintf("%s %s", s.Symbol, label),
			Times:  s.Series.Times(),
			Values: values(s),
			Color:  SeriesColors[i%len(SeriesColors)],
		})
	}
	return out
}

// PriceFigure overlays the closing prices of every stock.
func PriceFigure(stocks []*model.StockAnalysis, lookbackMonths int) Figure {
	return Figure{
		Title:  fmt.Sprintf("Price history (%d months)", lookbackMonths),
		XLabel: "Date",
		YLabel: "Price ($)",
		Series: seriesFor(stocks, "close", func(s *model.StockAnalysis) []float64 { return s.Series.Closes() }),
		Width:  10 * vg.Inch,
		Height: 5 * vg.Inch,
	}
}

// RSIFigure overlays the RSI series with the overbought and oversold levels.
func RSIFigure(stocks []*model.StockAnalysis, oversold, overbought float64) Figure {
	return Figure{
		Title:  "RSI",
		Series: seriesFor(stocks, "RSI", func(s *model.StockAnalysis) []float64 { return s.Indicators.RSI }),
		RefLines: []RefLine{
			{Label: "Overbought", Value: overbought, Color: red},
			{Label: "Oversold", Value: oversold, Color: green},
		},
		YMin:   0,
		YMax:   100,
		Width:  10 * vg.Inch,
		Height: 3 * vg.Inch,
	}
}

// MACDFigure overlays the MACD lines with a zero line.
func MACDFigure(stocks []*model.StockAnalysis) Figure {
	return Figure{
		Title:    "MACD",
		Series:   seriesFor(stocks, "MACD", func(s *model.StockAnalysis) []float64 { return s.Indicators.MACD }),
		RefLines: []RefLine{{Value: 0, Color: gray}},
		Width:    10 * vg.Inch,
		Height:   3 * vg.Inch,
	}
}

func points(s Series) plotter.XYs {
	pts := make(plotter.XYs, 0, len(s.Values))
	for i, v := range s.Values {
		if i >= len(s.Times) || !model.IsDefined(v) {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(s.Times[i].Unix()), Y: v})
	}
	return pts
}

func styleAxis(a *plot.Axis) {
	a.Label.TextStyle.Color = Foreground
	a.Tick.Label.Color = Foreground
	a.Tick.LineStyle.Color = Foreground
	a.LineStyle.Color = Foreground
}

func build(f Figure) (*plot.Plot, error) {
	p := plot.New()
	p.BackgroundColor = Background
	p.Title.Text = f.Title
	p.Title.TextStyle.Color = Foreground
	p.X.Label.Text = f.XLabel
	p.Y.Label.Text = f.YLabel
	styleAxis(&p.X)
	styleAxis(&p.Y)
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.Legend.TextStyle.Color = Foreground
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for _, s := range f.Series {
		line, err := plotter.NewLine(points(s))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.Label, err)
		}
		line.Color = s.Color
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(s.Label, line)
	}

	for _, r := range f.RefLines {
		value := r.Value
		fn := plotter.NewFunction(func(float64) float64 { return value })
		fn.Color = r.Color
		fn.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
		p.Add(fn)
		if r.Label != "" {
			p.Legend.Add(r.Label, fn)
		}
		// keep the reference line in view
		if value < p.Y.Min {
			p.Y.Min = value
		}
		if value > p.Y.Max {
			p.Y.Max = value
		}
	}

	if f.YMax > f.YMin {
		p.Y.Min, p.Y.Max = f.YMin, f.YMax
	}
	return p, nil
}

// Render draws the figure as an SVG document.
func Render(f Figure) ([]byte, error) {
	p, err := build(f)
	if err != nil {
		return nil, fmt.Errorf("build %q: %w", f.Title, err)
	}
	w, h := f.Width, f.Height
	if w == 0 || h == 0 {
		w, h = 10*vg.Inch, 4*vg.Inch
	}
	wt, err := p.WriterTo(w, h, "svg")
	if err != nil {
		return nil, fmt.Errorf("render %q: %w", f.Title, err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write %q: %w", f.Title, err)
	}
	return buf.Bytes(), nil
}
