package main

import (
	"net/http"

	"github.com/angeloszaimis/download-links/internal/handler"
	"github.com/angeloszaimis/download-links/internal/metrics"
)

func setupRouter(downloadLinksHandler *handler.DownloadLinksHandler, metricsCollector *metrics.Collector) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("/api/fetch-download-links", downloadLinksHandler)
	mux.HandleFunc("GET /health", healthHandler)
	mux.HandleFunc("GET /metrics", metricsCollector.Handler())

	return mux
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
