package main

import (
	"context"
	"net"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/netgraph/internal/config"
	"github.com/persistorai/netgraph/internal/db"
	"github.com/persistorai/netgraph/internal/dbpool"
	"github.com/persistorai/netgraph/internal/domain"
	"github.com/persistorai/netgraph/internal/store"
)

// newLogger builds the process logger from the configured level and format.
func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if cfg.LogFormat == "text" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}

	log.SetLevel(level)

	return log
}

// openSource connects to the configured store. The returned func releases it.
func openSource(ctx context.Context, cfg *config.Config, log *logrus.Logger) (domain.Source, func(), error) {
	if cfg.Driver == config.DriverSQLite {
		src, err := store.OpenSQLite(ctx, cfg.SQLitePath, log, cfg.QueryTimeout)
		if err != nil {
			return nil, nil, err
		}

		log.WithField("path", cfg.SQLitePath).Info("serving sqlite snapshot")

		return src, func() { src.Close() }, nil //nolint:errcheck // read-only handle.
	}

	pool, err := dbpool.NewPool(ctx, dbpool.Options{
		URL:              cfg.DatabaseURL.Value(),
		MaxConns:         int32(cfg.DBMaxConns), //nolint:gosec // validated to at most 100.
		StatementTimeout: cfg.QueryTimeout,
	})
	if err != nil {
		return nil, nil, err
	}

	if cfg.RunMigrations {
		if err := db.RunMigrations(ctx, pool, log); err != nil {
			pool.Close()

			return nil, nil, err
		}
	}

	src := store.NewPostgresSource(store.Base{Pool: pool, Log: log, Timeout: cfg.QueryTimeout})

	return src, pool.Close, nil
}

// isLocalEndpoint reports whether an OTLP endpoint is on the loopback
// interface, where plaintext gRPC is acceptable.
func isLocalEndpoint(endpoint string) bool {
	host := endpoint
	if h, _, err := net.SplitHostPort(endpoint); err == nil {
		host = h
	}

	if strings.EqualFold(host, "localhost") {
		return true
	}

	ip := net.ParseIP(host)

	return ip != nil && ip.IsLoopback()
}
