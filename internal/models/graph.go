package models

import (
	"encoding/json"
	"fmt"
)

// Edge is an edge of a rendered graph. Weight is omitted for friendship edges.
type Edge struct {
	Source int64   `json:"source"`
	Target int64   `json:"target"`
	Weight float64 `json:"weight,omitempty"`
}

// MetricNode is a user rendered with a single scalar metric. The metric is
// serialized under its own name, e.g. {"degree": 3}.
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

// UnmarshalJSON reads a node written by MarshalJSON. The first key that is
// not one of the fixed fields is taken as the metric.
func (n *MetricNode) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	fields := map[string]any{
		"id":       &n.ID,
		"username": &n.Username,
		"size":     &n.Size,
		"color":    &n.Color,
	}

	for key, value := range raw {
		dst, ok := fields[key]
		if !ok {
			if n.Metric != "" {
				return fmt.Errorf("unexpected field %q alongside metric %q", key, n.Metric)
			}

			n.Metric = key
			dst = &n.Value
		}

		if err := json.Unmarshal(value, dst); err != nil {
			return fmt.Errorf("decoding %s: %w", key, err)
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

// MetricGraph is the payload of the degree, activity, centrality and
// pagerank endpoints.
type MetricGraph struct {
	Metric     string       `json:"metric"`
	Nodes      []MetricNode `json:"nodes"`
	Edges      []Edge       `json:"edges"`
	Converged  *bool        `json:"converged,omitempty"`
	Iterations int          `json:"iterations,omitempty"`
	TopUsers   []RankedUser `json:"top_users,omitempty"`
}

// HITSNode carries a user's hub and authority scores and the weakly-connected
// component they were computed in.
type HITSNode struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	Hub         float64 `json:"hub"`
	Authority   float64 `json:"authority"`
	Size        float64 `json:"size"`
	Color       string  `json:"color"`
	CommunityID int     `json:"community_id"`
}

// HITSGraph is the payload of the hits endpoint. FallbackComponents lists
// components that did not converge and were scored by weighted degree.
type HITSGraph struct {
	Nodes              []HITSNode `json:"nodes"`
	Edges              []Edge     `json:"edges"`
	Components         int        `json:"components"`
	FallbackComponents []int      `json:"fallback_components,omitempty"`
}

// CommunityNode is a user with their community assignment.
type CommunityNode struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Community int    `json:"community"`
	Color     string `json:"color"`
}

// CommunityLookup answers "which community is this user in".
type CommunityLookup struct {
	UserID    int64   `json:"user_id"`
	Username  string  `json:"username"`
	Community int     `json:"community"`
	Members   []int64 `json:"members"`
}

// CommunityGraph is the payload of the communities endpoint.
type CommunityGraph struct {
	Nodes        []CommunityNode  `json:"nodes"`
	Edges        []Edge           `json:"edges"`
	CommunityMap map[int][]int64  `json:"community_map"`
	Colors       []string         `json:"colors"`
	Modularity   float64          `json:"modularity"`
	Lookup       *CommunityLookup `json:"lookup,omitempty"`
}

// PathResult is a shortest path between two users.
type PathResult struct {
	Path         []int64  `json:"path"`
	Usernames    []string `json:"usernames"`
	Cost         int      `json:"cost"`
	Steps        int      `json:"steps"`
	SkippedUsers int      `json:"skipped_users"`
}
