package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// user is a row of the users table.
type user struct {
	ID       int64
	Username string
}

// friend is a row of the friends table.
type friend struct {
	UserID   int64
	FriendID int64
}

// readUsers reads all users from SQLite in id order.
func readUsers(ctx context.Context, db *sql.DB) ([]user, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, username FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []user
	for rows.Next() {
		var u user
		if err := rows.Scan(&u.ID, &u.Username); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// readFriends reads all friendship rows from SQLite.
func readFriends(ctx context.Context, db *sql.DB) ([]friend, error) {
	rows, err := db.QueryContext(ctx, `SELECT user_id, friend_id FROM friends`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var friends []friend
	for rows.Next() {
		var f friend
		if err := rows.Scan(&f.UserID, &f.FriendID); err != nil {
			return nil, fmt.Errorf("scan friend: %w", err)
		}
		friends = append(friends, f)
	}
	return friends, rows.Err()
}

// buildUserSet creates a set of user IDs for fast lookup.
func buildUserSet(users []user) map[int64]bool {
	m := make(map[int64]bool, len(users))
	for i := range users {
		m[users[i].ID] = true
	}
	return m
}

// filterFriends drops self pairs and pairs referencing unknown users.
func filterFriends(friends []friend, known map[int64]bool) ([]friend, []skippedRow) {
	kept := friends[:0:0]
	var skipped []skippedRow

	for _, f := range friends {
		key := fmt.Sprintf("%d-%d", f.UserID, f.FriendID)
		switch {
		case f.UserID == f.FriendID:
			skipped = append(skipped, skippedRow{Table: "friends", Key: key, Reason: "self friendship"})
		case !known[f.UserID] || !known[f.FriendID]:
			skipped = append(skipped, skippedRow{Table: "friends", Key: key, Reason: "unknown user"})
		default:
			kept = append(kept, f)
		}
	}
	return kept, skipped
}

// insertUsers inserts users keeping their ids, ignoring rows already present.
func insertUsers(ctx context.Context, tx pgx.Tx, users []user) (int, error) {
	inserted := 0
	for _, u := range users {
		tag, err := tx.Exec(ctx,
			`INSERT INTO users (id, username) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			u.ID, u.Username,
		)
		if err != nil {
			return inserted, fmt.Errorf("insert user %d: %w", u.ID, err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

// resetUserSequence moves the users id sequence past the imported ids.
func resetUserSequence(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx,
		`SELECT setval(pg_get_serial_sequence('users', 'id'),
		        GREATEST((SELECT COALESCE(MAX(id), 0) FROM users), 1))`)
	return err
}

// insertFriends inserts friendship rows, ignoring pairs already present.
func insertFriends(ctx context.Context, tx pgx.Tx, friends []friend) (int, error) {
	inserted := 0
	for _, f := range friends {
		tag, err := tx.Exec(ctx,
			`INSERT INTO friends (user_id, friend_id) VALUES ($1, $2)
			 ON CONFLICT (user_id, friend_id) DO NOTHING`,
			f.UserID, f.FriendID,
		)
		if err != nil {
			return inserted, fmt.Errorf("insert friend %d-%d: %w", f.UserID, f.FriendID, err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}
