package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/persistorai/netgraph/client"
	"github.com/persistorai/netgraph/internal/db"
)

// executeArgs runs the given root command with args and returns any error.
// It suppresses cobra's usage/error output so test output stays clean.
func executeArgs(t *testing.T, root *cobra.Command, args ...string) error {
	t.Helper()
	root.SetOut(&strings.Builder{})
	root.SetErr(&strings.Builder{})
	root.SetArgs(args)
	_, err := root.ExecuteC()
	return err
}

// Argument and required-flag validation fires before any client call, so
// these never reach the network.
func TestCommandArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"path needs two usernames", []string{"graph", "path", "ann"}},
		{"path rejects three", []string{"graph", "path", "a", "b", "c"}},
		{"social takes no args", []string{"graph", "social", "extra"}},
		{"pagerank top must be int", []string{"graph", "pagerank", "--top", "many"}},
		{"days must be int", []string{"graph", "centrality", "--days", "week"}},
		{"offline needs sqlite", []string{"offline", "social"}},
		{"offline path needs two", []string{"offline", "path", "a", "--sqlite", "x.db"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resetFlags(t)
			if err := executeArgs(t, newRootCmd(), tc.args...); err == nil {
				t.Errorf("expected error for %v", tc.args)
			}
		})
	}
}

func TestGraphSubcommandsRegistered(t *testing.T) {
	root := newRootCmd()
	want := []string{
		"graph social", "graph messages", "graph centrality", "graph pagerank",
		"graph hits", "graph communities", "graph path", "timeseries",
		"users behavior", "users friends", "health", "offline pagerank", "offline friends",
	}
	for _, path := range want {
		cmd, _, err := root.Find(strings.Fields(path))
		if err != nil || cmd.Name() != strings.Fields(path)[len(strings.Fields(path))-1] {
			t.Errorf("command %q not registered", path)
		}
	}
}

func TestWindowFrom(t *testing.T) {
	var days int
	cmd := &cobra.Command{Use: "x"}
	addDaysFlag(cmd, &days)

	if windowFrom(cmd, days) != nil {
		t.Error("unset --days should defer to the server window")
	}

	if err := cmd.Flags().Set("days", "0"); err != nil {
		t.Fatal(err)
	}
	w := windowFrom(cmd, days)
	if w == nil || w.Days == nil || *w.Days != 0 {
		t.Errorf("explicit --days 0: got %+v", w)
	}
}

// newSnapshotFile writes a migrated SQLite snapshot with two triangles joined
// by nothing and a few messages.
func newSnapshotFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.sqlite")

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer sqlDB.Close()

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	if err := db.MigrateSQLite(context.Background(), sqlDB, log); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	seed := []string{
		`INSERT INTO users (id, username) VALUES (1, 'ann'), (2, 'bo'), (3, 'cy'), (4, 'di'), (5, 'ed'), (6, 'fay')`,
		`INSERT INTO friends (user_id, friend_id) VALUES (1, 2), (2, 3), (3, 1), (4, 5), (5, 6), (6, 4)`,
		`INSERT INTO messages (sender_id, receiver_id, sent_at) VALUES
			(1, 2, '2024-01-01 05:00:00'),
			(2, 1, '2024-01-01 05:10:00'),
			(3, 1, '2024-01-01 06:00:00')`,
	}
	for _, stmt := range seed {
		if _, err := sqlDB.Exec(stmt); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return path
}

func TestOfflineSocial(t *testing.T) {
	resetFlags(t)
	path := newSnapshotFile(t)

	var runErr error
	got := captureStdout(t, func() {
		runErr = executeArgs(t, newRootCmd(), "offline", "social", "--sqlite", path)
	})
	if runErr != nil {
		t.Fatalf("offline social: %v", runErr)
	}

	var g client.MetricGraph
	if err := json.Unmarshal([]byte(got), &g); err != nil {
		t.Fatalf("output is not a metric graph: %v\n%s", err, got)
	}
	if g.Metric != "degree" || len(g.Nodes) != 6 || len(g.Edges) != 6 {
		t.Errorf("got metric %q, %d nodes, %d edges", g.Metric, len(g.Nodes), len(g.Edges))
	}
	for _, n := range g.Nodes {
		if n.Metric != "degree" || n.Value != 2 {
			t.Errorf("node %d: got %s=%v, want degree=2", n.ID, n.Metric, n.Value)
		}
	}
}

func TestOfflineMessagesAllTime(t *testing.T) {
	resetFlags(t)
	path := newSnapshotFile(t)

	var runErr error
	got := captureStdout(t, func() {
		runErr = executeArgs(t, newRootCmd(), "offline", "messages", "--days", "0", "--sqlite", path)
	})
	if runErr != nil {
		t.Fatalf("offline messages: %v", runErr)
	}

	var g client.MetricGraph
	if err := json.Unmarshal([]byte(got), &g); err != nil {
		t.Fatalf("output is not a metric graph: %v\n%s", err, got)
	}
	if g.Metric != "activity" || len(g.Nodes) != 6 || len(g.Edges) != 3 {
		t.Fatalf("got metric %q, %d nodes, %d edges", g.Metric, len(g.Nodes), len(g.Edges))
	}

	want := map[string]float64{"ann": 3, "bo": 2, "cy": 1, "di": 0, "ed": 0, "fay": 0}
	for _, n := range g.Nodes {
		if n.Value != want[n.Username] {
			t.Errorf("%s activity: got %v, want %v", n.Username, n.Value, want[n.Username])
		}
	}
}

func TestOfflineCommunitiesQuiet(t *testing.T) {
	resetFlags(t)
	path := newSnapshotFile(t)

	var runErr error
	got := captureStdout(t, func() {
		runErr = executeArgs(t, newRootCmd(), "--format", "quiet", "offline", "communities", "--user", "fay", "--sqlite", path)
	})
	if runErr != nil {
		t.Fatalf("offline communities: %v", runErr)
	}
	if strings.TrimSpace(got) != "1" {
		t.Errorf("fay's community: got %q, want 1", got)
	}
}

func TestOfflinePathNoRoute(t *testing.T) {
	resetFlags(t)
	path := newSnapshotFile(t)

	err := executeArgs(t, newRootCmd(), "offline", "path", "ann", "fay", "--sqlite", path)
	if err == nil || !strings.Contains(err.Error(), "ann to fay") {
		t.Errorf("expected no-path error, got %v", err)
	}
}

func TestOfflineMissingSnapshot(t *testing.T) {
	resetFlags(t)
	err := executeArgs(t, newRootCmd(), "offline", "social", "--sqlite", filepath.Join(t.TempDir(), "absent.sqlite"))
	if err == nil {
		t.Error("expected error for a missing snapshot")
	}
}
