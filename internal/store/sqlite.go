package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite" // register the pure-Go sqlite driver

	"github.com/persistorai/netgraph/internal/domain"
	"github.com/persistorai/netgraph/internal/models"
)

const (
	liteUsersQuery   = `SELECT id, username FROM users ORDER BY id`
	liteFriendsQuery = `SELECT user_id, friend_id FROM friends ORDER BY user_id, friend_id`

	// sent_at is text in any of sqliteTimeLayouts, so bounds and ordering
	// compare julianday values rather than raw strings.
	liteAggregateQuery = `SELECT sender_id, receiver_id, COUNT(*)
		FROM messages
		WHERE ?1 IS NULL OR julianday(sent_at) >= julianday(?1)
		GROUP BY sender_id, receiver_id
		ORDER BY sender_id, receiver_id`

	liteTimestampsQuery = `SELECT sent_at FROM messages
		WHERE ?1 IS NULL OR julianday(sent_at) >= julianday(?1)
		ORDER BY julianday(sent_at), id`

	liteSentQuery = `SELECT m.sender_id, u.username, m.sent_at
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE ?1 IS NULL OR julianday(m.sent_at) >= julianday(?1)
		ORDER BY julianday(m.sent_at), m.id`
)

// SQLiteSource reads the social store from a SQLite snapshot file.
type SQLiteSource struct {
	db      *sql.DB
	log     *logrus.Logger
	timeout time.Duration
}

// OpenSQLite opens the snapshot at path read-only.
func OpenSQLite(ctx context.Context, path string, log *logrus.Logger, timeout time.Duration) (*SQLiteSource, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", path)

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite snapshot: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()

		return nil, fmt.Errorf("pinging sqlite snapshot: %w", err)
	}

	return NewSQLiteSource(sqlDB, log, timeout), nil
}

// NewSQLiteSource wraps an open database. The caller keeps ownership of
// sqlDB unless it calls Close.
func NewSQLiteSource(sqlDB *sql.DB, log *logrus.Logger, timeout time.Duration) *SQLiteSource {
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}

	return &SQLiteSource{db: sqlDB, log: log, timeout: timeout}
}

// Close closes the underlying database.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

func liteQuery[T any](ctx context.Context, s *SQLiteSource, what, query string, scan func(func(dest ...any) error) (T, error), args ...any) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query, args...)
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

// sinceArg renders the window bound as a query argument; nil is unbounded.
func sinceArg(w models.Window) any {
	if !w.Bounded() {
		return nil
	}

	return formatStoredTime(w.Since)
}

// ListUsers returns every user ordered by id.
func (s *SQLiteSource) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := liteQuery(ctx, s, "listing users", liteUsersQuery, scanUser)
	if err != nil {
		return nil, err
	}

	return keepValid(s.log, "users", users), nil
}

// ListFriendships returns every friendship row.
func (s *SQLiteSource) ListFriendships(ctx context.Context) ([]models.Friendship, error) {
	pairs, err := liteQuery(ctx, s, "listing friendships", liteFriendsQuery, scanFriendship)
	if err != nil {
		return nil, err
	}

	return keepValid(s.log, "friends", pairs), nil
}

// AggregateMessages counts messages per ordered pair inside w.
func (s *SQLiteSource) AggregateMessages(ctx context.Context, w models.Window) ([]models.MessageAggRow, error) {
	rows, err := liteQuery(ctx, s, "aggregating messages", liteAggregateQuery, scanMessageAgg, sinceArg(w))
	if err != nil {
		return nil, err
	}

	return keepValid(s.log, "messages", rows), nil
}

// skipUnparseable filters rows whose timestamp failed to parse.
func skipUnparseable[T any](log *logrus.Logger, rows []T, ok []bool) []T {
	out := rows[:0]
	dropped := 0

	for i, r := range rows {
		if !ok[i] {
			dropped++
			continue
		}

		out = append(out, r)
	}

	if dropped > 0 {
		log.WithFields(logrus.Fields{"table": "messages", "dropped": dropped}).Warn("store.unparseable_timestamps")
	}

	return out
}

// MessageTimestamps returns the send time of every message inside w.
// Rows with unparseable timestamps are skipped.
func (s *SQLiteSource) MessageTimestamps(ctx context.Context, w models.Window) ([]time.Time, error) {
	var ok []bool

	ts, err := liteQuery(ctx, s, "listing message timestamps", liteTimestampsQuery,
		func(scan func(dest ...any) error) (time.Time, error) {
			var raw string
			if err := scan(&raw); err != nil {
				return time.Time{}, fmt.Errorf("scanning timestamp: %w", err)
			}

			t, err := parseStoredTime(raw)
			ok = append(ok, err == nil)

			return t, nil
		}, sinceArg(w))
	if err != nil {
		return nil, err
	}

	return skipUnparseable(s.log, ts, ok), nil
}

// SentMessages returns every message inside w with its sender's username.
// Rows with unparseable timestamps are skipped.
func (s *SQLiteSource) SentMessages(ctx context.Context, w models.Window) ([]models.SentMessage, error) {
	var ok []bool

	msgs, err := liteQuery(ctx, s, "listing sent messages", liteSentQuery,
		func(scan func(dest ...any) error) (models.SentMessage, error) {
			var (
				m   models.SentMessage
				raw string
			)

			if err := scan(&m.UserID, &m.Username, &raw); err != nil {
				return m, fmt.Errorf("scanning sent message: %w", err)
			}

			t, err := parseStoredTime(raw)
			ok = append(ok, err == nil)
			m.Timestamp = t

			return m, nil
		}, sinceArg(w))
	if err != nil {
		return nil, err
	}

	return skipUnparseable(s.log, msgs, ok), nil
}

// Ping checks that the snapshot is readable.
func (s *SQLiteSource) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.db.PingContext(ctx)
}

var _ domain.Source = (*SQLiteSource)(nil)
