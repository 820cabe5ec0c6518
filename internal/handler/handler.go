package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/angeloszaimis/download-links/internal/links"
	"github.com/angeloszaimis/download-links/internal/metrics"
)

const maxBodyBytes = 64 << 10

// Fetcher runs one invocation from a raw request body.
type Fetcher interface {
	Handle(ctx context.Context, body []byte) links.Outcome
}

type DownloadLinksHandler struct {
	logger           *slog.Logger
	fetcher          Fetcher
	metricsCollector *metrics.Collector
}

func NewDownloadLinksHandler(logger *slog.Logger, fetcher Fetcher, collector *metrics.Collector) *DownloadLinksHandler {
	return &DownloadLinksHandler{
		logger:           logger,
		fetcher:          fetcher,
		metricsCollector: collector,
	}
}

func (h *DownloadLinksHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Received request",
		slog.String("from", extractClientIP(r)),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("user_agent", r.UserAgent()))

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, []byte(`{"error":"Method not allowed"}`))
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if !errors.As(err, &tooLarge) {
			h.logger.Warn("Failed to read request body", slog.Any("err", err))
		}
		// An unreadable body decodes as malformed and is rejected with 400.
		body = nil
	}

	status, payload := h.invoke(r.Context(), body)
	writeJSON(w, status, payload)
}

// invoke runs the fetcher and records the invocation. Both entry points go
// through here.
func (h *DownloadLinksHandler) invoke(ctx context.Context, body []byte) (int, []byte) {
	start := time.Now()

	out := h.fetcher.Handle(ctx, body)
	status, payload := encodeOutcome(out)

	h.metricsCollector.Emit(metrics.MetricEvent{
		Type:       metrics.EventInvocationCompleted,
		Outcome:    out.Kind.String(),
		StatusCode: status,
		Duration:   time.Since(start),
	})

	return status, payload
}

func extractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}

	host, _, _ := net.SplitHostPort(r.RemoteAddr)
	return host
}
