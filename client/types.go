package client

import (
	"encoding/json"
	"fmt"
)

// HealthResponse is returned by the liveness endpoint.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	SchemaVersion int     `json:"schema_version"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// ReadyResponse is returned by the readiness endpoint.
type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Edge is an edge of a rendered graph. Weight is zero for friendship edges.
type Edge struct {
	Source int64   `json:"source"`
	Target int64   `json:"target"`
	Weight float64 `json:"weight,omitempty"`
}

// MetricNode is a user with one scalar metric. On the wire the metric is
// keyed by its name, e.g. {"id": 1, "pagerank": 0.12, ...}.
type MetricNode struct {
	ID       int64
	Username string
	Metric   string
	Value    float64
	Size     float64
	Color    string
}

// MarshalJSON writes the metric value under the metric's name.
func (n MetricNode) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"id":       n.ID,
		"username": n.Username,
		"size":     n.Size,
		"color":    n.Color,
	}
	if n.Metric != "" {
		out[n.Metric] = n.Value
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a node, taking the one non-fixed key as the metric.
func (n *MetricNode) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	for key, value := range raw {
		var dst any
		switch key {
		case "id":
			dst = &n.ID
		case "username":
			dst = &n.Username
		case "size":
			dst = &n.Size
		case "color":
			dst = &n.Color
		default:
			if n.Metric != "" {
				return fmt.Errorf("unexpected field %q alongside metric %q", key, n.Metric)
			}
			n.Metric = key
			dst = &n.Value
		}
		if err := json.Unmarshal(value, dst); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
	}
	return nil
}

// RankedUser is an entry of a top-N ranking.
type RankedUser struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Score    float64 `json:"score"`
}

// MetricGraph is returned by the social, messages, centrality and pagerank
// endpoints.
type MetricGraph struct {
	Metric     string       `json:"metric"`
	Nodes      []MetricNode `json:"nodes"`
	Edges      []Edge       `json:"edges"`
	Converged  *bool        `json:"converged,omitempty"`
	Iterations int          `json:"iterations,omitempty"`
	TopUsers   []RankedUser `json:"top_users,omitempty"`
}

// HITSNode is a user's hub and authority scores.
type HITSNode struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	Hub         float64 `json:"hub"`
	Authority   float64 `json:"authority"`
	Size        float64 `json:"size"`
	Color       string  `json:"color"`
	CommunityID int     `json:"community_id"`
}

// HITSGraph is returned by the hits endpoint.
type HITSGraph struct {
	Nodes              []HITSNode `json:"nodes"`
	Edges              []Edge     `json:"edges"`
	Components         int        `json:"components"`
	FallbackComponents []int      `json:"fallback_components,omitempty"`
}

// CommunityNode is a user with a community assignment.
type CommunityNode struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Community int    `json:"community"`
	Color     string `json:"color"`
}

// CommunityLookup is the community of the user named in the request.
type CommunityLookup struct {
	UserID    int64   `json:"user_id"`
	Username  string  `json:"username"`
	Community int     `json:"community"`
	Members   []int64 `json:"members"`
}

// CommunityGraph is returned by the communities endpoint.
type CommunityGraph struct {
	Nodes        []CommunityNode  `json:"nodes"`
	Edges        []Edge           `json:"edges"`
	CommunityMap map[int][]int64  `json:"community_map"`
	Colors       []string         `json:"colors"`
	Modularity   float64          `json:"modularity"`
	Lookup       *CommunityLookup `json:"lookup,omitempty"`
}

// PathResult is a shortest friendship path between two users.
type PathResult struct {
	Path         []int64  `json:"path"`
	Usernames    []string `json:"usernames"`
	Cost         int      `json:"cost"`
	Steps        int      `json:"steps"`
	SkippedUsers int      `json:"skipped_users"`
}

// TimePoint is one hourly bucket of message volume.
type TimePoint struct {
	Timestamp string  `json:"timestamp"`
	Count     float64 `json:"count"`
	RawCount  int     `json:"raw_count"`
}

// TimeSeries is returned by the timeseries endpoint.
type TimeSeries struct {
	Window     string      `json:"window"`
	TimeSeries []TimePoint `json:"time_series"`
}

// UserBehavior summarizes one user's sending activity.
type UserBehavior struct {
	UserID       int64  `json:"user_id"`
	Username     string `json:"username"`
	MessageCount int    `json:"message_count"`
	ActivePeriod string `json:"active_period"`
}

// UserBehaviorReport is returned by the user behavior endpoint.
type UserBehaviorReport struct {
	UserBehavior []UserBehavior `json:"user_behavior"`
}

// FriendCount is one user's number of friends.
type FriendCount struct {
	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
	FriendCount int    `json:"friend_count"`
	Color       string `json:"color"`
}

// FriendDistribution is returned by the friend distribution endpoint.
type FriendDistribution struct {
	Users  []FriendCount `json:"users"`
	Mean   float64       `json:"mean"`
	Median float64       `json:"median"`
	Colors []string      `json:"colors"`
}
