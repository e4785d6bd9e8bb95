package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/netgraph/internal/analytics"
	"github.com/persistorai/netgraph/internal/graph"
	"github.com/persistorai/netgraph/internal/models"
	"github.com/persistorai/netgraph/internal/presentation"
)

// Communities partitions the friendship graph. Users without friends share
// the overflow community. A non-empty username also reports that user's
// community and its other members.
func (s *AnalyticsService) Communities(ctx context.Context, username string) (*models.CommunityGraph, error) {
	defer timeAnalysis("communities").ObserveDuration()

	s.log.WithField("username", username).Debug("analytics.communities")

	g, err := s.friendGraph(ctx)
	if err != nil {
		return nil, err
	}

	focus := -1
	if username != "" {
		i, ok := g.IndexByUsername(username)
		if !ok {
			return nil, fmt.Errorf("%w: %q", models.ErrUserNotFound, username)
		}

		focus = i
	}

	res := analytics.Communities(ctx, g)
	if res.Count == 0 {
		s.emptyResult("communities")
	}

	colors := presentation.HSVColors(res.Buckets())

	out := &models.CommunityGraph{
		Nodes:        make([]models.CommunityNode, g.Len()),
		Edges:        friendEdges(g),
		CommunityMap: make(map[int][]int64, res.Buckets()),
		Colors:       colors,
		Modularity:   res.Modularity,
	}

	for i, u := range g.Users() {
		c := res.Membership[i]
		out.Nodes[i] = models.CommunityNode{
			ID:        u.ID,
			Username:  u.Username,
			Community: c,
			Color:     colors[c],
		}
		out.CommunityMap[c] = append(out.CommunityMap[c], u.ID)
	}

	if focus >= 0 {
		out.Lookup = communityLookup(g, res, focus)
	}

	s.log.WithFields(logrus.Fields{
		"communities": res.Count,
		"overflow":    res.Overflow,
		"levels":      res.Levels,
	}).Debug("analytics.communities_done")

	return out, nil
}

func communityLookup(g *graph.Undirected, res analytics.CommunityResult, node int) *models.CommunityLookup {
	u := g.User(node)
	c := res.Membership[node]

	lookup := &models.CommunityLookup{
		UserID:    u.ID,
		Username:  u.Username,
		Community: c,
		Members:   []int64{},
	}

	for i, other := range g.Users() {
		if i != node && res.Membership[i] == c {
			lookup.Members = append(lookup.Members, other.ID)
		}
	}

	return lookup
}

// ShortestPath finds the fewest-hops friendship path between two usernames.
func (s *AnalyticsService) ShortestPath(ctx context.Context, from, to string) (*models.PathResult, error) {
	defer timeAnalysis("path").ObserveDuration()

	s.log.WithFields(logrus.Fields{"from": from, "to": to}).Debug("analytics.shortest_path")

	g, err := s.friendGraph(ctx)
	if err != nil {
		return nil, err
	}

	start, okStart := g.IndexByUsername(from)
	end, okEnd := g.IndexByUsername(to)

	switch {
	case !okStart:
		return nil, fmt.Errorf("%w: %q", models.ErrUserNotFound, from)
	case !okEnd:
		return nil, fmt.Errorf("%w: %q", models.ErrUserNotFound, to)
	}

	if g.EdgeCount() == 0 {
		return nil, fmt.Errorf("%w: no friendships", models.ErrDataUnavailable)
	}

	p, err := analytics.ShortestPath(ctx, g, start, end)
	if err != nil {
		return nil, fmt.Errorf("%s to %s: %w", from, to, err)
	}

	out := &models.PathResult{
		Path:         make([]int64, len(p.Nodes)),
		Usernames:    make([]string, len(p.Nodes)),
		Cost:         p.Cost,
		Steps:        p.Steps(),
		SkippedUsers: p.SkippedUsers(),
	}

	for i, n := range p.Nodes {
		u := g.User(n)
		out.Path[i] = u.ID
		out.Usernames[i] = u.Username
	}

	return out, nil
}
