// Command netgraph serves the social graph analytics HTTP API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/netgraph/internal/analytics"
	"github.com/persistorai/netgraph/internal/api"
	"github.com/persistorai/netgraph/internal/config"
	"github.com/persistorai/netgraph/internal/db"
	"github.com/persistorai/netgraph/internal/service"
	"github.com/persistorai/netgraph/internal/store"
	"github.com/persistorai/netgraph/internal/telemetry"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Fatal("netgraph exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    "netgraph",
		ServiceVersion: config.Version,
		Exporter:       cfg.TracesExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		OTLPInsecure:   isLocalEndpoint(cfg.OTLPEndpoint),
	})
	if err != nil {
		return err
	}

	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := shutdownTracing(flushCtx); err != nil {
			log.WithError(err).Warn("tracing shutdown failed")
		}
	}()

	source, closeSource, err := openSource(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeSource()

	breaker := store.NewBreakerSource(source, store.BreakerOptions{
		Name:         "store",
		FailureRatio: cfg.BreakerFailureRatio,
		MinRequests:  uint32(cfg.BreakerMinRequests), //nolint:gosec // validated to a small positive range.
		MaxRequests:  store.DefaultBreakerOptions().MaxRequests,
		Interval:     store.DefaultBreakerOptions().Interval,
		Timeout:      cfg.BreakerTimeout,
	}, log)

	opts := service.DefaultOptions()
	opts.ActivityWindowDays = cfg.ActivityWindowDays
	opts.CentralityWindowDays = cfg.CentralityWindowDays
	opts.PageRankWindowDays = cfg.PageRankWindowDays
	opts.HITSWindowDays = cfg.HITSWindowDays
	opts.Location = analytics.FixedOffset(cfg.TimezoneOffsetHours)

	svc := service.NewAnalyticsService(breaker, opts, log)

	handler := api.NewRouter(ctx, &api.RouterDeps{
		Log:            log,
		Analytics:      svc,
		ServiceName:    "netgraph",
		Version:        config.Version,
		SchemaVersion:  db.SchemaVersion(cfg.Driver),
		CORSOrigins:    cfg.CORSOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.QueryTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())

	metricsSrv := &http.Server{
		Addr:              cfg.MetricsAddr(),
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 2)

	go serve(srv, "api", log, errCh)
	go serve(metricsSrv, "metrics", log, errCh)

	log.WithFields(logrus.Fields{
		"addr":         cfg.Addr(),
		"metrics_addr": cfg.MetricsAddr(),
		"driver":       cfg.Driver,
		"version":      config.Version,
	}).Info("netgraph started")

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err = <-errCh:
		log.WithError(err).Error("server failed, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if serr := srv.Shutdown(shutdownCtx); serr != nil {
		log.WithError(serr).Error("api server shutdown error")
	}

	if serr := metricsSrv.Shutdown(shutdownCtx); serr != nil {
		log.WithError(serr).Error("metrics server shutdown error")
	}

	log.Info("netgraph stopped")

	return err
}

func serve(srv *http.Server, name string, log *logrus.Logger, errCh chan<- error) {
	log.WithFields(logrus.Fields{"server": name, "addr": srv.Addr}).Debug("listening")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		errCh <- err
	}
}
