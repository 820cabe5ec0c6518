package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/angeloszaimis/download-links/config"
	"github.com/angeloszaimis/download-links/internal/circuitbreaker"
	"github.com/angeloszaimis/download-links/internal/handler"
	"github.com/angeloszaimis/download-links/internal/httpserver"
	"github.com/angeloszaimis/download-links/internal/links"
	"github.com/angeloszaimis/download-links/internal/metrics"
	"github.com/angeloszaimis/download-links/internal/resolver"
	"github.com/angeloszaimis/download-links/internal/transport"
	"github.com/angeloszaimis/download-links/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(os.Stdout, cfg.Logging.Level, true, cfg.Server.Environment)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	collector := metrics.NewCollector(cfg.Metrics.BufferSize, log)
	collector.Start(ctx)

	h := newDownloadLinksHandler(cfg, log, collector)

	switch cfg.Server.Mode {
	case config.ModeLambda:
		runLambda(ctx, log, h, collector)
	default:
		if err := runHTTP(ctx, cfg, log, h, collector); err != nil {
			log.Error("Error running server", slog.Any("err", err))
			os.Exit(1)
		}
	}
}

func newDownloadLinksHandler(cfg *config.Config, log *slog.Logger, collector *metrics.Collector) *handler.DownloadLinksHandler {
	httpClient := transport.NewClient(transport.Options{
		Timeout:     cfg.ResolverTimeout(),
		Fingerprint: cfg.Resolver.TLSFingerprint,
	})

	breaker := circuitbreaker.NewCircuitBreaker(
		cfg.Breaker.Threshold,
		cfg.BreakerResetTimeout(),
		breakerObserver(log, collector),
	)

	upstream := resolver.NewGuarded(resolver.NewYouTube(httpClient, cfg.ResolverTimeout()), breaker)
	service := links.NewService(log, upstream, collector)

	log.Info("Download links service configured",
		slog.String("mode", cfg.Server.Mode),
		slog.Bool("tls_fingerprint", cfg.Resolver.TLSFingerprint),
		slog.Bool("breaker_enabled", breaker.Enabled()))

	return handler.NewDownloadLinksHandler(log, service, collector)
}

func breakerObserver(log *slog.Logger, collector *metrics.Collector) circuitbreaker.ChangeFunc {
	return func(from, to circuitbreaker.State) {
		log.Warn("Circuit breaker state changed",
			slog.String("from", from.String()),
			slog.String("to", to.String()))

		collector.Emit(metrics.MetricEvent{
			Type:  metrics.EventBreakerChanged,
			State: to.String(),
		})
	}
}

func runLambda(ctx context.Context, log *slog.Logger, h *handler.DownloadLinksHandler, collector *metrics.Collector) {
	log.Info("Starting in lambda mode")

	lambda.StartWithOptions(h.HandleLambda,
		lambda.WithContext(ctx),
		lambda.WithEnableSIGTERM(func() {
			logSnapshot(log, collector.Snapshot())
		}),
	)
}

func runHTTP(ctx context.Context, cfg *config.Config, log *slog.Logger, h *handler.DownloadLinksHandler, collector *metrics.Collector) error {
	srv, err := httpserver.New(cfg.Server.Address, setupRouter(h, collector), cfg.ServerWriteTimeout())
	if err != nil {
		return err
	}

	srvErrCh := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", slog.String("addr", cfg.Server.Address))
		srvErrCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during shutdown", slog.Any("err", err))
		}
		<-collector.Done()
		logSnapshot(log, collector.Snapshot())
		return nil
	case err := <-srvErrCh:
		return err
	}
}

func logSnapshot(log *slog.Logger, snap metrics.Snapshot) {
	log.Info("Final metrics",
		slog.Int64("invocations", snap.TotalInvocations),
		slog.Any("outcomes", snap.Outcomes),
		slog.Int64("resolver_calls", snap.Resolver.Calls),
		slog.Int64("resolver_failures", snap.Resolver.Failures),
		slog.String("breaker_state", snap.BreakerState))
}
