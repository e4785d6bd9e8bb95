// Package models defines the rows read from the social store and the
// payloads produced by the analytics endpoints.
package models

import (
	"fmt"
	"time"
)

// User is a row of the users table.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Validate checks the row before it enters a graph.
func (u User) Validate() error {
	if u.ID <= 0 {
		return fmt.Errorf("%w: user id %d", ErrInvalidRow, u.ID)
	}

	if u.Username == "" {
		return fmt.Errorf("%w: user %d has empty username", ErrInvalidRow, u.ID)
	}

	return nil
}

// Friendship is a row of the friends table. The pair is unordered.
type Friendship struct {
	UserID   int64 `json:"user_id"`
	FriendID int64 `json:"friend_id"`
}

// Validate checks the row before it enters a graph.
func (f Friendship) Validate() error {
	if f.UserID <= 0 || f.FriendID <= 0 {
		return fmt.Errorf("%w: friendship (%d, %d)", ErrInvalidRow, f.UserID, f.FriendID)
	}

	return nil
}

// MessageAggRow is the number of messages sent from SenderID to ReceiverID
// inside a query window.
type MessageAggRow struct {
	SenderID   int64   `json:"sender_id"`
	ReceiverID int64   `json:"receiver_id"`
	Weight     float64 `json:"weight"`
}

// Validate checks the row before it enters a graph.
func (m MessageAggRow) Validate() error {
	if m.SenderID <= 0 || m.ReceiverID <= 0 {
		return fmt.Errorf("%w: message pair (%d, %d)", ErrInvalidRow, m.SenderID, m.ReceiverID)
	}

	if m.Weight <= 0 {
		return fmt.Errorf("%w: message pair (%d, %d) has weight %v", ErrInvalidRow, m.SenderID, m.ReceiverID, m.Weight)
	}

	return nil
}

// SentMessage is one message joined with its sender's username.
type SentMessage struct {
	UserID    int64
	Username  string
	Timestamp time.Time
}
