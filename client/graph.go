package client

import (
	"context"
	"net/url"
	"strconv"
)

// GraphService handles the graph analysis endpoints.
type GraphService struct {
	c *Client
}

// WindowOptions selects the message window of an analysis. A nil Days uses
// the server's configured window; zero means all time.
type WindowOptions struct {
	Days *int
}

// Days returns a pointer to n for WindowOptions.Days.
func Days(n int) *int { return &n }

func (o *WindowOptions) values() url.Values {
	q := url.Values{}
	if o != nil && o.Days != nil {
		q.Set("days", strconv.Itoa(*o.Days))
	}
	return q
}

// PageRankOptions configures a PageRank request.
type PageRankOptions struct {
	WindowOptions
	// Top limits the returned ranking; 0 omits it.
	Top int
}

func (o *PageRankOptions) values() url.Values {
	if o == nil {
		return url.Values{}
	}
	q := o.WindowOptions.values()
	if o.Top > 0 {
		q.Set("top", strconv.Itoa(o.Top))
	}
	return q
}

func (s *GraphService) metricGraph(ctx context.Context, path string, q url.Values) (*MetricGraph, error) {
	var resp MetricGraph
	if err := s.c.get(ctx, path, q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Social returns the friendship graph sized by degree.
func (s *GraphService) Social(ctx context.Context) (*MetricGraph, error) {
	return s.metricGraph(ctx, "/api/v1/graph/social", nil)
}

// Messages returns the message graph sized by total activity.
func (s *GraphService) Messages(ctx context.Context, opts *WindowOptions) (*MetricGraph, error) {
	return s.metricGraph(ctx, "/api/v1/graph/messages", opts.values())
}

// Centrality returns the message graph sized by weighted in-degree.
func (s *GraphService) Centrality(ctx context.Context, opts *WindowOptions) (*MetricGraph, error) {
	return s.metricGraph(ctx, "/api/v1/graph/centrality", opts.values())
}

// PageRank returns the message graph scored by PageRank.
func (s *GraphService) PageRank(ctx context.Context, opts *PageRankOptions) (*MetricGraph, error) {
	return s.metricGraph(ctx, "/api/v1/graph/pagerank", opts.values())
}

// HITS returns hub and authority scores per weakly-connected component.
func (s *GraphService) HITS(ctx context.Context, opts *WindowOptions) (*HITSGraph, error) {
	var resp HITSGraph
	if err := s.c.get(ctx, "/api/v1/graph/hits", opts.values(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Communities partitions the friendship graph. A non-empty username adds a
// lookup of that user's community.
func (s *GraphService) Communities(ctx context.Context, username string) (*CommunityGraph, error) {
	q := url.Values{}
	if username != "" {
		q.Set("user", username)
	}
	var resp CommunityGraph
	if err := s.c.get(ctx, "/api/v1/graph/communities", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ShortestPath returns the shortest friendship path between two usernames.
func (s *GraphService) ShortestPath(ctx context.Context, from, to string) (*PathResult, error) {
	q := url.Values{}
	q.Set("from", from)
	q.Set("to", to)
	var resp PathResult
	if err := s.c.get(ctx, "/api/v1/graph/path", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
