package api

import (
	"context"

	"github.com/persistorai/netgraph/internal/domain"
)

// AnalyticsRepository is the service the analytics handlers depend on.
type AnalyticsRepository = domain.AnalyticsService

// Readier reports whether the backing store can serve requests.
type Readier interface {
	Ready(ctx context.Context) error
}
