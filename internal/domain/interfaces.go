// Package domain defines the interfaces shared between the store, service
// and API layers. Consumers should depend on these interfaces rather than
// re-declaring equivalent ones.
package domain

import (
	"context"
	"time"

	"github.com/persistorai/netgraph/internal/models"
)

// ConfiguredWindow asks a message-graph operation to use its configured
// window instead of an explicit number of days.
const ConfiguredWindow = -1

// TimeSeries windows.
const (
	WindowAll     = "all"
	WindowLast24h = "24h"
)

// Source is read-only access to the social store. Each call is a single
// query; nothing is cached between calls.
type Source interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	ListFriendships(ctx context.Context) ([]models.Friendship, error)

	// AggregateMessages returns message counts per ordered (sender, receiver)
	// pair for messages sent inside w.
	AggregateMessages(ctx context.Context, w models.Window) ([]models.MessageAggRow, error)

	// MessageTimestamps returns the UTC send time of every message inside w.
	MessageTimestamps(ctx context.Context, w models.Window) ([]time.Time, error)

	// SentMessages returns every message inside w joined with its sender's
	// username. Messages from unknown senders are omitted.
	SentMessages(ctx context.Context, w models.Window) ([]models.SentMessage, error)

	Ping(ctx context.Context) error
}

// GraphService computes metrics over the friendship and message graphs.
// days selects the message window; ConfiguredWindow uses the default, 0 means
// all time.
type GraphService interface {
	SocialNetwork(ctx context.Context) (*models.MetricGraph, error)
	MessageActivity(ctx context.Context, days int) (*models.MetricGraph, error)
	Centrality(ctx context.Context, days int) (*models.MetricGraph, error)
	PageRank(ctx context.Context, days, top int) (*models.MetricGraph, error)
	HITS(ctx context.Context, days int) (*models.HITSGraph, error)
	Communities(ctx context.Context, username string) (*models.CommunityGraph, error)
	ShortestPath(ctx context.Context, from, to string) (*models.PathResult, error)
}

// ActivityService summarizes messaging over time.
type ActivityService interface {
	TimeSeries(ctx context.Context, window string) (*models.TimeSeries, error)
	UserBehavior(ctx context.Context) (*models.UserBehaviorReport, error)
	FriendDistribution(ctx context.Context) (*models.FriendDistribution, error)
}

// AnalyticsService is the full set of operations exposed over HTTP.
type AnalyticsService interface {
	GraphService
	ActivityService
	Ready(ctx context.Context) error
}
