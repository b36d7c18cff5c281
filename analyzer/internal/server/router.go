package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sentrakyc/veriwatch/analyzer/internal/handlers"
	"github.com/sentrakyc/veriwatch/common/middleware"
)

// NewRouter constructs a ServeMux with analyzer API routes registered.
func NewRouter(h *handlers.Handler) http.Handler {
	mux := http.NewServeMux()

	// Analysis API
	mux.HandleFunc("/api/v1/analyze", h.Analyze)
	mux.HandleFunc("/api/v1/dataset", h.Dataset)
	mux.HandleFunc("/api/v1/niks/", h.DrillDown)
	mux.HandleFunc("/api/v1/export/degradations", h.ExportDegradations)

	// Health endpoints
	mux.HandleFunc("/healthz", h.Health)
	mux.HandleFunc("/readyz", h.Ready)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	return middleware.RequestID(mux)
}
