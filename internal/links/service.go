package links

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/angeloszaimis/download-links/internal/metrics"
)

var errNoFormats = errors.New("no suitable video formats")

// Service runs the fetch-download-links flow. It holds no per-request state,
// so a single value can serve concurrent invocations.
type Service struct {
	logger    *slog.Logger
	resolver  Resolver
	collector *metrics.Collector
}

// NewService creates a Service. collector may be nil.
func NewService(logger *slog.Logger, resolver Resolver, collector *metrics.Collector) *Service {
	return &Service{
		logger:    logger,
		resolver:  resolver,
		collector: collector,
	}
}

// Handle decodes a raw request body and runs Fetch. Panics raised below this
// point are reported as an upstream failure instead of crashing the caller.
func (s *Service) Handle(ctx context.Context, body []byte) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Recovered from panic while fetching download links",
				slog.Any("panic", r))
			out = failed(fmt.Errorf("%v", r))
		}
	}()

	req, err := DecodeRequest(body)
	if err != nil {
		s.logger.Debug("Rejected request body", slog.String("error", err.Error()))
		return invalid(err)
	}

	return s.Fetch(ctx, req)
}

// Fetch validates the request, resolves the manifest and applies the
// selection policy.
func (s *Service) Fetch(ctx context.Context, req Request) Outcome {
	if err := req.Validate(); err != nil {
		s.logger.Debug("Rejected video id",
			slog.String("video_id", req.VideoID),
			slog.String("error", err.Error()))
		return invalid(err)
	}

	manifest, err := s.resolve(ctx, req.WatchURL())
	if err != nil {
		s.logger.Error("Error fetching video info",
			slog.String("video_id", req.VideoID),
			slog.Any("err", err))
		return failed(err)
	}

	formats := Select(manifest)
	if len(formats) == 0 {
		s.logger.Info("No playable formats",
			slog.String("video_id", req.VideoID),
			slog.Int("available", len(manifest.Formats)))
		return notFound()
	}

	s.logger.Debug("Selected formats",
		slog.String("video_id", req.VideoID),
		slog.Int("available", len(manifest.Formats)),
		slog.Int("selected", len(formats)))

	return ok(formats)
}

func (s *Service) resolve(ctx context.Context, watchURL string) (Manifest, error) {
	start := time.Now()
	manifest, err := s.resolver.Resolve(ctx, watchURL)

	s.collector.Emit(metrics.MetricEvent{
		Type:     metrics.EventResolverCalled,
		Duration: time.Since(start),
		Failed:   err != nil,
	})

	return manifest, err
}
