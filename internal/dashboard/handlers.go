package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"

	"StockLens/internal/model"
	"StockLens/internal/recorder"
)

// Comparer runs one two-symbol analysis.
type Comparer interface {
	Compare(ctx context.Context, symbol1, symbol2 string) (*model.Comparison, error)
}

// Options holds the presentation settings of the dashboard.
type Options struct {
	Title          string
	DefaultSymbol1 string
	DefaultSymbol2 string
	LookbackMonths int
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	comparer Comparer
	recorder recorder.Recorder
	opts     Options
}

// NewHandler creates a new Handler
func NewHandler(comparer Comparer, rec recorder.Recorder, opts Options) *Handler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Handler{comparer: comparer, recorder: rec, opts: opts}
}

// Index handles GET /
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, &Page{
		Title:   h.opts.Title,
		Symbol1: h.opts.DefaultSymbol1,
		Symbol2: h.opts.DefaultSymbol2,
	})
}

// Compare handles GET and POST /compare. The symbols are used as entered.
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	symbol1 := r.FormValue("symbol1")
	symbol2 := r.FormValue("symbol2")
	page := &Page{Title: h.opts.Title, Symbol1: symbol1, Symbol2: symbol2}

	cmp, err := h.comparer.Compare(r.Context(), symbol1, symbol2)
	if err == nil {
		page.Result, err = buildResult(cmp, h.opts.LookbackMonths)
	}
	if err != nil {
		log.Printf("[ERROR] compare %q vs %q: %v", symbol1, symbol2, err)
		page.Result = nil
		page.Error = FormatError(err)
		h.record(recorder.Failed(symbol1, symbol2, err))
	} else {
		h.record(recorder.FromComparison(symbol1, symbol2, cmp))
	}

	h.render(w, page)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *Handler) record(run *recorder.Run) {
	if err := h.recorder.RecordRun(run); err != nil {
		log.Printf("[WARN] record run: %v", err)
	}
}

func (h *Handler) render(w http.ResponseWriter, page *Page) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, page); err != nil {
		log.Printf("[ERROR] render page: %v", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
