package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/url"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
)

// sqliteLayouts are the timestamp layouts accepted from the snapshot.
var sqliteLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
	time.RFC3339Nano,
}

// parseTime parses a SQLite datetime string as UTC. Unparseable values yield
// the zero time.
func parseTime(s string) time.Time {
	for _, layout := range sqliteLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	slog.Warn("unparseable time", "value", s)
	return time.Time{}
}

// sanitizeURL removes credentials from a database URL for display.
func sanitizeURL(raw string) string {
	if raw == "" {
		return "(none)"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "[unparseable URL]"
	}
	u.User = nil
	return u.String()
}

// envOr returns the environment variable value or a default.
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// allowedTables is the set of table names that countRows may query.
var allowedTables = map[string]bool{
	"users":    true,
	"friends":  true,
	"messages": true,
}

// countRows counts all rows in a table.
func countRows(ctx context.Context, tx pgx.Tx, table string) (int, error) {
	if !allowedTables[table] {
		return 0, fmt.Errorf("disallowed table name: %s", table)
	}

	var count int
	sanitized := pgx.Identifier{table}.Sanitize()
	err := tx.QueryRow(ctx, fmt.Sprintf("SELECT count(*) FROM %s", sanitized)).Scan(&count)
	return count, err
}

// spotCheck verifies 5 random users match between SQLite and PostgreSQL.
func spotCheck(ctx context.Context, tx pgx.Tx, users []user) []string {
	if len(users) == 0 {
		return nil
	}
	count := min(5, len(users))
	indices := rand.Perm(len(users))[:count]
	checks := make([]string, 0, count)

	for _, idx := range indices {
		u := users[idx]
		var pgName string
		err := tx.QueryRow(ctx, `SELECT username FROM users WHERE id = $1`, u.ID).Scan(&pgName)
		switch {
		case err != nil:
			checks = append(checks, fmt.Sprintf("FAIL user %d: not found in postgres: %v", u.ID, err))
		case pgName != u.Username:
			checks = append(checks, fmt.Sprintf("FAIL user %d: username pg=%q sqlite=%q", u.ID, pgName, u.Username))
		default:
			checks = append(checks, fmt.Sprintf("ok   user %d: username=%s", u.ID, pgName))
		}
	}
	return checks
}

// printReport outputs the final import summary.
func printReport(r *report) {
	fmt.Println()
	fmt.Println("=== netgraph Import Report ===")
	if r.DryRun {
		fmt.Println("MODE: DRY RUN (no changes made)")
	}
	fmt.Printf("Source: %s\n", r.Source)
	fmt.Printf("Target: %s\n", r.Target)
	fmt.Println()
	printCounts("Users", r.UsersRead, r.UsersInserted, r.UsersVerified, r.DryRun)
	printCounts("Friends", r.FriendsRead, r.FriendsInserted, r.FriendsVerified, r.DryRun)
	printCounts("Messages", r.MessagesRead, r.MessagesInserted, r.MessagesVerified, r.DryRun)

	if len(r.Skipped) > 0 {
		fmt.Printf("\nSkipped rows (%d):\n", len(r.Skipped))
		for _, s := range r.Skipped {
			fmt.Printf("  - %s %s (reason: %s)\n", s.Table, s.Key, s.Reason)
		}
	}

	if len(r.SpotChecks) > 0 {
		fmt.Println("\nSpot checks:")
		for _, c := range r.SpotChecks {
			fmt.Printf("  %s\n", c)
		}
	}

	fmt.Printf("\nDuration: %.1fs\n", r.Duration.Seconds())
	if r.Err != nil {
		fmt.Printf("Status: FAILED: %v\n", r.Err)
	} else {
		fmt.Println("Status: SUCCESS")
	}
}

func printCounts(label string, read, inserted, verified int, dryRun bool) {
	fmt.Printf("%-9s %d read, %d inserted, %d in table %s\n",
		label+":", read, inserted, verified, statusMark(inserted, verified, dryRun))
}

// statusMark reports whether the table holds at least the inserted rows.
func statusMark(inserted, verified int, dryRun bool) string {
	if dryRun {
		return "(skipped)"
	}
	if verified >= inserted {
		return "[ok]"
	}
	return "[mismatch]"
}
