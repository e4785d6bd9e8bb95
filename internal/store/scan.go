package store

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/netgraph/internal/models"
)

// rowIterator is satisfied by both pgx.Rows and *sql.Rows.
type rowIterator interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// collect scans every row with scan.
func collect[T any](rows rowIterator, scan func(scan func(dest ...any) error) (T, error)) ([]T, error) {
	var out []T

	for rows.Next() {
		v, err := scan(rows.Scan)
		if err != nil {
			return nil, err
		}

		out = append(out, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return out, nil
}

type validatable interface {
	Validate() error
}

// keepValid drops rows that fail validation, logging each one.
func keepValid[T validatable](log *logrus.Logger, table string, rows []T) []T {
	out := rows[:0]

	for _, r := range rows {
		if err := r.Validate(); err != nil {
			log.WithFields(logrus.Fields{"table": table, "reason": err.Error()}).Warn("store.row_invalid")
			continue
		}

		out = append(out, r)
	}

	return out
}

func scanUser(scan func(dest ...any) error) (models.User, error) {
	var u models.User
	if err := scan(&u.ID, &u.Username); err != nil {
		return u, fmt.Errorf("scanning user: %w", err)
	}

	return u, nil
}

func scanFriendship(scan func(dest ...any) error) (models.Friendship, error) {
	var f models.Friendship
	if err := scan(&f.UserID, &f.FriendID); err != nil {
		return f, fmt.Errorf("scanning friendship: %w", err)
	}

	return f, nil
}

func scanMessageAgg(scan func(dest ...any) error) (models.MessageAggRow, error) {
	var (
		m     models.MessageAggRow
		count int64
	)

	if err := scan(&m.SenderID, &m.ReceiverID, &count); err != nil {
		return m, fmt.Errorf("scanning message pair: %w", err)
	}

	m.Weight = float64(count)

	return m, nil
}

// sqliteTimeLayouts are the text formats accepted for sent_at in snapshots.
var sqliteTimeLayouts = []string{
	time.DateTime,
	"2006-01-02 15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

// parseStoredTime parses a UTC timestamp stored as text.
func parseStoredTime(s string) (time.Time, error) {
	for _, layout := range sqliteTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: unparseable timestamp %q", models.ErrInvalidRow, s)
}

// formatStoredTime renders t in the snapshot text format.
func formatStoredTime(t time.Time) string {
	return t.UTC().Format(time.DateTime)
}
