package store

import (
	"context"
	"fmt"
	"time"

	"github.com/persistorai/netgraph/internal/domain"
	"github.com/persistorai/netgraph/internal/models"
)

const (
	pgUsersQuery   = `SELECT id, username FROM users ORDER BY id`
	pgFriendsQuery = `SELECT user_id, friend_id FROM friends ORDER BY user_id, friend_id`

	pgAggregateQuery = `SELECT sender_id, receiver_id, COUNT(*)
		FROM messages
		WHERE $1::timestamptz IS NULL OR sent_at >= $1
		GROUP BY sender_id, receiver_id
		ORDER BY sender_id, receiver_id`

	pgTimestampsQuery = `SELECT sent_at FROM messages
		WHERE $1::timestamptz IS NULL OR sent_at >= $1
		ORDER BY sent_at`

	pgSentQuery = `SELECT m.sender_id, u.username, m.sent_at
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE $1::timestamptz IS NULL OR m.sent_at >= $1
		ORDER BY m.sent_at, m.id`
)

// PostgresSource reads the social store from PostgreSQL. Every method runs
// one query inside its own read-only transaction.
type PostgresSource struct {
	Base
}

// NewPostgresSource creates a PostgresSource with the given shared base.
func NewPostgresSource(base Base) *PostgresSource {
	return &PostgresSource{Base: base}
}

// pgQuery runs sql in a read-only transaction and scans every row.
func pgQuery[T any](ctx context.Context, s *PostgresSource, what, sql string, scan func(func(dest ...any) error) (T, error), args ...any) ([]T, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // read-only, nothing to keep.

	rows, err := tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	defer rows.Close()

	out, err := collect(rows, scan)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}

	return out, nil
}

// ListUsers returns every user ordered by id.
func (s *PostgresSource) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := pgQuery(ctx, s, "listing users", pgUsersQuery, scanUser)
	if err != nil {
		return nil, err
	}

	return keepValid(s.Log, "users", users), nil
}

// ListFriendships returns every friendship row.
func (s *PostgresSource) ListFriendships(ctx context.Context) ([]models.Friendship, error) {
	pairs, err := pgQuery(ctx, s, "listing friendships", pgFriendsQuery, scanFriendship)
	if err != nil {
		return nil, err
	}

	return keepValid(s.Log, "friends", pairs), nil
}

// AggregateMessages counts messages per ordered pair inside w.
func (s *PostgresSource) AggregateMessages(ctx context.Context, w models.Window) ([]models.MessageAggRow, error) {
	rows, err := pgQuery(ctx, s, "aggregating messages", pgAggregateQuery, scanMessageAgg, w.SincePtr())
	if err != nil {
		return nil, err
	}

	return keepValid(s.Log, "messages", rows), nil
}

// MessageTimestamps returns the send time of every message inside w.
func (s *PostgresSource) MessageTimestamps(ctx context.Context, w models.Window) ([]time.Time, error) {
	return pgQuery(ctx, s, "listing message timestamps", pgTimestampsQuery,
		func(scan func(dest ...any) error) (time.Time, error) {
			var t time.Time
			if err := scan(&t); err != nil {
				return t, fmt.Errorf("scanning timestamp: %w", err)
			}

			return t.UTC(), nil
		}, w.SincePtr())
}

// SentMessages returns every message inside w with its sender's username.
func (s *PostgresSource) SentMessages(ctx context.Context, w models.Window) ([]models.SentMessage, error) {
	return pgQuery(ctx, s, "listing sent messages", pgSentQuery,
		func(scan func(dest ...any) error) (models.SentMessage, error) {
			var m models.SentMessage
			if err := scan(&m.UserID, &m.Username, &m.Timestamp); err != nil {
				return m, fmt.Errorf("scanning sent message: %w", err)
			}

			m.Timestamp = m.Timestamp.UTC()

			return m, nil
		}, w.SincePtr())
}

// Ping checks that the database answers.
func (s *PostgresSource) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.Pool.HealthCheck(ctx); err != nil {
		s.Log.WithError(err).Debug("store.ping_failed")
		return err
	}

	return nil
}

var _ domain.Source = (*PostgresSource)(nil)
