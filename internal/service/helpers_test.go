package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/persistorai/netgraph/internal/models"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func testUsers(n int) []models.User {
	out := make([]models.User, n)
	for i := range out {
		out[i] = models.User{ID: int64(i + 1), Username: fmt.Sprintf("u%d", i+1)}
	}

	return out
}

func friendships(pairs ...[2]int64) []models.Friendship {
	out := make([]models.Friendship, len(pairs))
	for i, p := range pairs {
		out[i] = models.Friendship{UserID: p[0], FriendID: p[1]}
	}

	return out
}

// socialSource serves n users and the given friendships.
func socialSource(n int, pairs ...[2]int64) *mockSource {
	return &mockSource{
		listUsers: func(context.Context) ([]models.User, error) { return testUsers(n), nil },
		listFriendships: func(context.Context) ([]models.Friendship, error) {
			return friendships(pairs...), nil
		},
	}
}

// messageSource serves n users and the given aggregated rows.
func messageSource(n int, rows ...models.MessageAggRow) *mockSource {
	return &mockSource{
		listUsers: func(context.Context) ([]models.User, error) { return testUsers(n), nil },
		aggregateMessages: func(context.Context, models.Window) ([]models.MessageAggRow, error) {
			return rows, nil
		},
	}
}

func newTestService(t *testing.T, src *mockSource) *AnalyticsService {
	t.Helper()

	log, _ := logtest.NewNullLogger()

	opts := DefaultOptions()
	opts.Now = func() time.Time { return fixedNow }

	return NewAnalyticsService(src, opts, log)
}
