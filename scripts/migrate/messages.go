package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// message is a row of the messages table.
type message struct {
	SenderID   int64
	ReceiverID int64
	Content    string
	SentAt     time.Time
}

// readMessages reads all messages from SQLite in send order.
func readMessages(ctx context.Context, db *sql.DB) ([]message, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT sender_id, receiver_id, content, sent_at FROM messages ORDER BY sent_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []message
	for rows.Next() {
		var (
			m      message
			sentAt string
		)
		if err := rows.Scan(&m.SenderID, &m.ReceiverID, &m.Content, &sentAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.SentAt = parseTime(sentAt)
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// filterMessages drops messages referencing unknown users or lacking a timestamp.
func filterMessages(messages []message, known map[int64]bool) ([]message, []skippedRow) {
	kept := messages[:0:0]
	var skipped []skippedRow

	for _, m := range messages {
		key := fmt.Sprintf("%d->%d", m.SenderID, m.ReceiverID)
		switch {
		case !known[m.SenderID] || !known[m.ReceiverID]:
			skipped = append(skipped, skippedRow{Table: "messages", Key: key, Reason: "unknown user"})
		case m.SentAt.IsZero():
			skipped = append(skipped, skippedRow{Table: "messages", Key: key, Reason: "unparseable sent_at"})
		default:
			kept = append(kept, m)
		}
	}
	return kept, skipped
}

// insertMessages copies messages into PostgreSQL in batches of 1000.
func insertMessages(ctx context.Context, tx pgx.Tx, messages []message) (int, error) {
	const batchSize = 1000
	inserted := 0
	for i := 0; i < len(messages); i += batchSize {
		end := min(i+batchSize, len(messages))
		n, err := insertMessageBatch(ctx, tx, messages[i:end])
		inserted += n
		if err != nil {
			return inserted, fmt.Errorf("batch %d-%d: %w", i, end, err)
		}
	}
	return inserted, nil
}

// insertMessageBatch inserts a single batch with COPY.
func insertMessageBatch(ctx context.Context, tx pgx.Tx, batch []message) (int, error) {
	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{"messages"},
		[]string{"sender_id", "receiver_id", "content", "sent_at"},
		pgx.CopyFromSlice(len(batch), func(i int) ([]any, error) {
			m := batch[i]
			return []any{m.SenderID, m.ReceiverID, m.Content, m.SentAt}, nil
		}),
	)
	return int(n), err
}
