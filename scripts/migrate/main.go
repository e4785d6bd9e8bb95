// Package main provides a standalone import script that reads a social
// snapshot (users, friends, messages) from SQLite and writes it to the
// PostgreSQL schema served by netgraph.
//
// Usage:
//
//	SQLITE_PATH=/path/to/snapshot.sqlite DATABASE_URL=postgres://... go run ./scripts/migrate
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	_ "modernc.org/sqlite"
)

// config holds environment-driven import settings.
type config struct {
	SQLitePath  string
	DatabaseURL string
	DryRun      bool
}

// skippedRow records a row that was not imported.
type skippedRow struct {
	Table  string
	Key    string
	Reason string
}

// report holds the final import summary.
type report struct {
	Source           string
	Target           string
	UsersRead        int
	UsersInserted    int
	UsersVerified    int
	FriendsRead      int
	FriendsInserted  int
	FriendsVerified  int
	MessagesRead     int
	MessagesInserted int
	MessagesVerified int
	Skipped          []skippedRow
	SpotChecks       []string
	Duration         time.Duration
	DryRun           bool
	Err              error
}

func main() {
	cfg := loadConfig()
	if cfg.DatabaseURL == "" && !cfg.DryRun {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	slog.Info("starting import",
		"sqlite", cfg.SQLitePath,
		"dry_run", cfg.DryRun,
	)

	start := time.Now()
	r, err := runImport(context.Background(), cfg)
	r.Duration = time.Since(start)
	if err != nil {
		r.Err = err
		slog.Error("import failed", "error", err)
	}
	printReport(&r)
	if err != nil {
		os.Exit(1)
	}
}

// loadConfig reads configuration from environment variables.
func loadConfig() config {
	return config{
		SQLitePath:  envOr("SQLITE_PATH", "netgraph.sqlite"),
		DatabaseURL: envOr("DATABASE_URL", ""),
		DryRun:      os.Getenv("DRY_RUN") == "true" || os.Getenv("DRY_RUN") == "1",
	}
}

// runImport executes the full import pipeline in one transaction.
//
//nolint:funlen // Import pipeline is sequential; splitting would hurt readability.
func runImport(ctx context.Context, cfg config) (report, error) {
	r := report{
		Source: cfg.SQLitePath,
		Target: sanitizeURL(cfg.DatabaseURL),
		DryRun: cfg.DryRun,
	}

	lite, err := sql.Open("sqlite", cfg.SQLitePath+"?mode=ro")
	if err != nil {
		return r, fmt.Errorf("open sqlite: %w", err)
	}
	defer lite.Close()

	users, err := readUsers(ctx, lite)
	if err != nil {
		return r, fmt.Errorf("read users: %w", err)
	}
	r.UsersRead = len(users)
	slog.Info("read users from sqlite", "count", r.UsersRead)

	friends, err := readFriends(ctx, lite)
	if err != nil {
		return r, fmt.Errorf("read friends: %w", err)
	}
	r.FriendsRead = len(friends)
	slog.Info("read friends from sqlite", "count", r.FriendsRead)

	messages, err := readMessages(ctx, lite)
	if err != nil {
		return r, fmt.Errorf("read messages: %w", err)
	}
	r.MessagesRead = len(messages)
	slog.Info("read messages from sqlite", "count", r.MessagesRead)

	known := buildUserSet(users)
	friends, skippedFriends := filterFriends(friends, known)
	messages, skippedMessages := filterMessages(messages, known)
	r.Skipped = append(skippedFriends, skippedMessages...)

	if cfg.DryRun {
		slog.Info("dry run, skipping PostgreSQL writes")
		r.UsersInserted = len(users)
		r.FriendsInserted = len(friends)
		r.MessagesInserted = len(messages)
		return r, nil
	}

	conn, err := pgx.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return r, fmt.Errorf("connect postgres: %w", err)
	}
	defer conn.Close(ctx)

	tx, err := conn.Begin(ctx)
	if err != nil {
		return r, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	if r.UsersInserted, err = insertUsers(ctx, tx, users); err != nil {
		return r, fmt.Errorf("insert users: %w", err)
	}
	slog.Info("inserted users", "count", r.UsersInserted)

	if err := resetUserSequence(ctx, tx); err != nil {
		return r, fmt.Errorf("reset user sequence: %w", err)
	}

	if r.FriendsInserted, err = insertFriends(ctx, tx, friends); err != nil {
		return r, fmt.Errorf("insert friends: %w", err)
	}
	slog.Info("inserted friends", "count", r.FriendsInserted, "skipped", len(skippedFriends))

	if r.MessagesInserted, err = insertMessages(ctx, tx, messages); err != nil {
		return r, fmt.Errorf("insert messages: %w", err)
	}
	slog.Info("inserted messages", "count", r.MessagesInserted, "skipped", len(skippedMessages))

	if r.UsersVerified, err = countRows(ctx, tx, "users"); err != nil {
		return r, fmt.Errorf("verify user count: %w", err)
	}
	if r.FriendsVerified, err = countRows(ctx, tx, "friends"); err != nil {
		return r, fmt.Errorf("verify friend count: %w", err)
	}
	if r.MessagesVerified, err = countRows(ctx, tx, "messages"); err != nil {
		return r, fmt.Errorf("verify message count: %w", err)
	}

	r.SpotChecks = spotCheck(ctx, tx, users)

	if err := tx.Commit(ctx); err != nil {
		return r, fmt.Errorf("commit: %w", err)
	}
	slog.Info("transaction committed")
	return r, nil
}
