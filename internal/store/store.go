// Package store provides read-only access to the social store: users,
// friendships and messages. PostgresSource serves the live database and
// SQLiteSource serves snapshot files; both satisfy domain.Source and share
// the row scanning and validation helpers in this package.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/netgraph/internal/dbpool"
)

const defaultQueryTimeout = 10 * time.Second

// Base contains shared dependencies for the PostgreSQL source.
type Base struct {
	Pool    *dbpool.Pool
	Log     *logrus.Logger
	Timeout time.Duration
}

// withTimeout bounds a single query by the configured timeout.
func (b *Base) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := b.Timeout
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}

	return context.WithTimeout(ctx, timeout)
}

// beginReadTx starts a read-only transaction.
func (b *Base) beginReadTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := b.Pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("beginning read transaction: %w", err)
	}

	return tx, nil
}
