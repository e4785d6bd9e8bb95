package client

import (
	"context"
	"net/url"
)

// Time series windows accepted by ActivityService.TimeSeries.
const (
	WindowAll = "all"
	Window24h = "24h"
)

// ActivityService handles the message volume and per-user endpoints.
type ActivityService struct {
	c *Client
}

// TimeSeries returns smoothed hourly message volume over window.
func (s *ActivityService) TimeSeries(ctx context.Context, window string) (*TimeSeries, error) {
	q := url.Values{}
	if window != "" {
		q.Set("window", window)
	}
	var resp TimeSeries
	if err := s.c.get(ctx, "/api/v1/timeseries", q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Behavior returns message counts and active periods per user.
func (s *ActivityService) Behavior(ctx context.Context) (*UserBehaviorReport, error) {
	var resp UserBehaviorReport
	if err := s.c.get(ctx, "/api/v1/users/behavior", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FriendDistribution returns friend counts with their mean and median.
func (s *ActivityService) FriendDistribution(ctx context.Context) (*FriendDistribution, error) {
	var resp FriendDistribution
	if err := s.c.get(ctx, "/api/v1/users/friend-distribution", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
