package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sentrakyc/veriwatch/analyzer/internal/service"
	"github.com/sentrakyc/veriwatch/analyzer/pkg/analysis"
	"github.com/sentrakyc/veriwatch/analyzer/pkg/loader"
	"github.com/sentrakyc/veriwatch/common/httputil"
	"github.com/sentrakyc/veriwatch/common/logging"
)

// Handler exposes the analysis service over HTTP.
type Handler struct {
	service *service.Service
	logger  *logging.Logger
}

// NewHandler creates a Handler.
func NewHandler(svc *service.Service, logger *logging.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Ready handles GET /readyz. The service is ready once a dataset is loaded.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.service.Dataset().TotalEvents == 0 {
		httputil.WriteError(w, http.StatusServiceUnavailable, "no events loaded")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Dataset handles GET /api/v1/dataset.
func (h *Handler) Dataset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.service.Dataset())
}

// AnalyzeRequest is the POST /api/v1/analyze body. Dates use 2006-01-02 and
// bound the range inclusively; thresholds are optional overrides.
type AnalyzeRequest struct {
	SourceResults     []string `json:"source_results"`
	From              string   `json:"from,omitempty"`
	To                string   `json:"to,omitempty"`
	RapidFireWindowMS int      `json:"rapid_fire_window_ms,omitempty"`
	SpikeSigma        float64  `json:"spike_sigma,omitempty"`
	RepeatTopN        int      `json:"repeat_top_n,omitempty"`
}

func (req *AnalyzeRequest) filter() (analysis.Filter, error) {
	f := analysis.Filter{SourceResults: req.SourceResults}
	var err error
	if req.From != "" {
		if f.From, err = time.Parse("2006-01-02", req.From); err != nil {
			return f, fmt.Errorf("invalid from date %q", req.From)
		}
	}
	if req.To != "" {
		if f.To, err = time.Parse("2006-01-02", req.To); err != nil {
			return f, fmt.Errorf("invalid to date %q", req.To)
		}
	}
	return f, nil
}

func (req *AnalyzeRequest) options() analysis.Options {
	return analysis.Options{
		RapidFireWindow: time.Duration(req.RapidFireWindowMS) * time.Millisecond,
		SpikeSigma:      req.SpikeSigma,
		RepeatTopN:      req.RepeatTopN,
	}
}

// Analyze handles POST /api/v1/analyze.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	filter, err := req.filter()
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.service.Run(r.Context(), filter, req.options())
	if errors.Is(err, analysis.ErrEmptySourceFilter) {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.logger.ErrorContext(r.Context(), "analysis run failed", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "analysis failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

// DrillDown handles GET /api/v1/niks/{nik}.
func (h *Handler) DrillDown(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	nik := strings.TrimPrefix(r.URL.Path, "/api/v1/niks/")
	if nik == "" || strings.Contains(nik, "/") {
		httputil.WriteError(w, http.StatusBadRequest, "nik required")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.service.DrillDown(r.Context(), nik))
}

// ExportDegradations handles GET /api/v1/export/degradations. Query
// parameters: sources (comma separated, required), from, to.
func (h *Handler) ExportDegradations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	filter := analysis.Filter{}
	if raw := r.URL.Query().Get("sources"); raw != "" {
		filter.SourceResults = strings.Split(raw, ",")
	}
	var err error
	if raw := r.URL.Query().Get("from"); raw != "" {
		if filter.From, err = time.Parse("2006-01-02", raw); err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "invalid from date")
			return
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if filter.To, err = time.Parse("2006-01-02", raw); err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "invalid to date")
			return
		}
	}

	findings, err := h.service.Degradations(r.Context(), filter)
	if errors.Is(err, analysis.ErrEmptySourceFilter) {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		httputil.WriteError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="degradations.csv"`)
	if err := loader.WriteDegradations(w, findings); err != nil {
		h.logger.ErrorContext(r.Context(), "degradation export failed", "error", err)
	}
}
