package api_test

import (
	"context"

	"github.com/persistorai/netgraph/internal/models"
)

// mockAnalytics returns configured responses. Unset funcs return empty
// payloads.
type mockAnalytics struct {
	socialNetwork      func(ctx context.Context) (*models.MetricGraph, error)
	messageActivity    func(ctx context.Context, days int) (*models.MetricGraph, error)
	centrality         func(ctx context.Context, days int) (*models.MetricGraph, error)
	pageRank           func(ctx context.Context, days, top int) (*models.MetricGraph, error)
	hits               func(ctx context.Context, days int) (*models.HITSGraph, error)
	communities        func(ctx context.Context, username string) (*models.CommunityGraph, error)
	shortestPath       func(ctx context.Context, from, to string) (*models.PathResult, error)
	timeSeries         func(ctx context.Context, window string) (*models.TimeSeries, error)
	userBehavior       func(ctx context.Context) (*models.UserBehaviorReport, error)
	friendDistribution func(ctx context.Context) (*models.FriendDistribution, error)
	ready              func(ctx context.Context) error
}

func (m *mockAnalytics) SocialNetwork(ctx context.Context) (*models.MetricGraph, error) {
	if m.socialNetwork == nil {
		return &models.MetricGraph{Metric: "degree"}, nil
	}

	return m.socialNetwork(ctx)
}

func (m *mockAnalytics) MessageActivity(ctx context.Context, days int) (*models.MetricGraph, error) {
	if m.messageActivity == nil {
		return &models.MetricGraph{Metric: "activity"}, nil
	}

	return m.messageActivity(ctx, days)
}

func (m *mockAnalytics) Centrality(ctx context.Context, days int) (*models.MetricGraph, error) {
	if m.centrality == nil {
		return &models.MetricGraph{Metric: "centrality"}, nil
	}

	return m.centrality(ctx, days)
}

func (m *mockAnalytics) PageRank(ctx context.Context, days, top int) (*models.MetricGraph, error) {
	if m.pageRank == nil {
		return &models.MetricGraph{Metric: "pagerank"}, nil
	}

	return m.pageRank(ctx, days, top)
}

func (m *mockAnalytics) HITS(ctx context.Context, days int) (*models.HITSGraph, error) {
	if m.hits == nil {
		return &models.HITSGraph{}, nil
	}

	return m.hits(ctx, days)
}

func (m *mockAnalytics) Communities(ctx context.Context, username string) (*models.CommunityGraph, error) {
	if m.communities == nil {
		return &models.CommunityGraph{}, nil
	}

	return m.communities(ctx, username)
}

func (m *mockAnalytics) ShortestPath(ctx context.Context, from, to string) (*models.PathResult, error) {
	if m.shortestPath == nil {
		return &models.PathResult{}, nil
	}

	return m.shortestPath(ctx, from, to)
}

func (m *mockAnalytics) TimeSeries(ctx context.Context, window string) (*models.TimeSeries, error) {
	if m.timeSeries == nil {
		return &models.TimeSeries{Window: window}, nil
	}

	return m.timeSeries(ctx, window)
}

func (m *mockAnalytics) UserBehavior(ctx context.Context) (*models.UserBehaviorReport, error) {
	if m.userBehavior == nil {
		return &models.UserBehaviorReport{}, nil
	}

	return m.userBehavior(ctx)
}

func (m *mockAnalytics) FriendDistribution(ctx context.Context) (*models.FriendDistribution, error) {
	if m.friendDistribution == nil {
		return &models.FriendDistribution{}, nil
	}

	return m.friendDistribution(ctx)
}

func (m *mockAnalytics) Ready(ctx context.Context) error {
	if m.ready == nil {
		return nil
	}

	return m.ready(ctx)
}
