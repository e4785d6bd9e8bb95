package service

import (
	"context"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/netgraph/internal/analytics"
	"github.com/persistorai/netgraph/internal/graph"
	"github.com/persistorai/netgraph/internal/models"
	"github.com/persistorai/netgraph/internal/presentation"
)

// hitsPlaces is the number of decimals HITS scores are reported with.
const hitsPlaces = 6

// SocialNetwork scores every user by number of friends.
func (s *AnalyticsService) SocialNetwork(ctx context.Context) (*models.MetricGraph, error) {
	defer timeAnalysis("degree").ObserveDuration()

	s.log.Debug("analytics.social_network")

	g, err := s.friendGraph(ctx)
	if err != nil {
		return nil, err
	}

	out := metricGraph("degree", g.Users(), analytics.Degree(g), presentation.Paired, presentation.DegreeSizes)
	out.Edges = friendEdges(g)

	return out, nil
}

// MessageActivity scores every user by messages sent plus received.
func (s *AnalyticsService) MessageActivity(ctx context.Context, days int) (*models.MetricGraph, error) {
	defer timeAnalysis("activity").ObserveDuration()

	w, err := s.window(days, s.opts.ActivityWindowDays)
	if err != nil {
		return nil, err
	}

	s.log.WithField("window", w.String()).Debug("analytics.message_activity")

	g, err := s.messageGraph(ctx, w)
	if err != nil {
		return nil, err
	}

	out := metricGraph("activity", g.Users(), analytics.Activity(g), presentation.Viridis, presentation.MetricSizes)
	out.Edges = messageEdges(g)

	return out, nil
}

// Centrality scores every user by messages received.
func (s *AnalyticsService) Centrality(ctx context.Context, days int) (*models.MetricGraph, error) {
	defer timeAnalysis("centrality").ObserveDuration()

	w, err := s.window(days, s.opts.CentralityWindowDays)
	if err != nil {
		return nil, err
	}

	s.log.WithField("window", w.String()).Debug("analytics.centrality")

	g, err := s.messageGraph(ctx, w)
	if err != nil {
		return nil, err
	}

	out := metricGraph("centrality", g.Users(), analytics.InWeight(g), presentation.Viridis, presentation.MetricSizes)
	out.Edges = messageEdges(g)

	return out, nil
}

// PageRank scores every user by weighted PageRank. A positive top also
// returns the top highest-ranked users.
func (s *AnalyticsService) PageRank(ctx context.Context, days, top int) (*models.MetricGraph, error) {
	defer timeAnalysis("pagerank").ObserveDuration()

	w, err := s.window(days, s.opts.PageRankWindowDays)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"window": w.String(), "top": top}).Debug("analytics.pagerank")

	g, err := s.messageGraph(ctx, w)
	if err != nil {
		return nil, err
	}

	res := analytics.PageRank(ctx, g, s.opts.PageRank)
	if !res.Converged {
		s.nonConvergence("pagerank", logrus.Fields{
			"iterations": res.Iterations,
			"delta":      res.Delta,
		})
	}

	out := metricGraph("pagerank", g.Users(), res.Scores, presentation.Viridis, presentation.MetricSizes)
	out.Edges = messageEdges(g)
	out.Converged = &res.Converged
	out.Iterations = res.Iterations

	if top > 0 {
		out.TopUsers = topUsers(g.Users(), res.Scores, top)
	}

	return out, nil
}

// HITS scores hubs and authorities per weakly-connected component of the
// message graph.
func (s *AnalyticsService) HITS(ctx context.Context, days int) (*models.HITSGraph, error) {
	defer timeAnalysis("hits").ObserveDuration()

	w, err := s.window(days, s.opts.HITSWindowDays)
	if err != nil {
		return nil, err
	}

	s.log.WithField("window", w.String()).Debug("analytics.hits")

	g, err := s.messageGraph(ctx, w)
	if err != nil {
		return nil, err
	}

	res := analytics.HITS(ctx, g, s.opts.HITS)
	for _, c := range res.Fallback {
		s.nonConvergence("hits", logrus.Fields{
			"component":  c,
			"iterations": s.opts.HITS.MaxIterations,
		})
	}

	combined := make([]float64, g.Len())
	for i := range combined {
		combined[i] = res.Hubs[i] + res.Authorities[i]
	}

	styles := presentation.Styles(combined, presentation.Viridis, presentation.MetricSizes)

	out := &models.HITSGraph{
		Nodes:              make([]models.HITSNode, g.Len()),
		Edges:              messageEdges(g),
		Components:         res.ComponentCount,
		FallbackComponents: res.Fallback,
	}

	for i, u := range g.Users() {
		out.Nodes[i] = models.HITSNode{
			ID:          u.ID,
			Username:    u.Username,
			Hub:         presentation.Round(res.Hubs[i], hitsPlaces),
			Authority:   presentation.Round(res.Authorities[i], hitsPlaces),
			Size:        styles[i].Size,
			Color:       styles[i].Color,
			CommunityID: res.Components[i],
		}
	}

	return out, nil
}

// metricGraph renders one scalar per user, styled against the range of values.
func metricGraph(metric string, users []models.User, values []float64, p presentation.Palette, r presentation.SizeRange) *models.MetricGraph {
	styles := presentation.Styles(values, p, r)

	out := &models.MetricGraph{
		Metric: metric,
		Nodes:  make([]models.MetricNode, len(users)),
	}

	for i, u := range users {
		out.Nodes[i] = models.MetricNode{
			ID:       u.ID,
			Username: u.Username,
			Metric:   metric,
			Value:    values[i],
			Size:     styles[i].Size,
			Color:    styles[i].Color,
		}
	}

	return out
}

func friendEdges(g *graph.Undirected) []models.Edge {
	out := make([]models.Edge, 0, g.EdgeCount())
	for _, e := range g.Edges() {
		out = append(out, models.Edge{Source: g.User(e.U).ID, Target: g.User(e.V).ID})
	}

	return out
}

func messageEdges(g *graph.Directed) []models.Edge {
	out := make([]models.Edge, 0, g.ArcCount())
	for _, a := range g.Arcs() {
		out = append(out, models.Edge{
			Source: g.User(a.From).ID,
			Target: g.User(a.To).ID,
			Weight: a.Weight,
		})
	}

	return out
}

// topUsers ranks users by descending score, ties by ascending id.
func topUsers(users []models.User, scores []float64, n int) []models.RankedUser {
	ranked := make([]models.RankedUser, len(users))
	for i, u := range users {
		ranked[i] = models.RankedUser{ID: u.ID, Username: u.Username, Score: scores[i]}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}

		return ranked[i].ID < ranked[j].ID
	})

	if n < len(ranked) {
		ranked = ranked[:n]
	}

	return ranked
}
