package analytics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/persistorai/netgraph/internal/analytics"
	"github.com/persistorai/netgraph/internal/models"
)

func TestRollingMean_TrailingWindow(t *testing.T) {
	values := []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 10}

	got := analytics.RollingMean(values, 10)

	require.Len(t, got, 11)
	assert.InDelta(t, 1.0, got[0], 1e-12)
	assert.InDelta(t, 1.0, got[9], 1e-12)
	assert.InDelta(t, 1.9, got[10], 1e-12)
}

func TestRollingMean_MinPeriodsOne(t *testing.T) {
	got := analytics.RollingMean([]float64{2, 4, 9}, 10)

	assert.InDeltaSlice(t, []float64{2, 3, 5}, got, 1e-12)
}

func TestBucketByHour_AppliesFixedOffset(t *testing.T) {
	loc := analytics.FixedOffset(8)
	ts := []time.Time{
		time.Date(2024, 1, 1, 5, 10, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 5, 59, 59, 0, time.UTC),
		time.Date(2024, 1, 1, 3, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 16, 30, 0, 0, time.UTC),
	}

	buckets := analytics.BucketByHour(ts, loc)

	require.Len(t, buckets, 3)
	assert.Equal(t, "2024-01-01 11:00:00", buckets[0].Start.Format(time.DateTime))
	assert.Equal(t, 1, buckets[0].Count)
	assert.Equal(t, "2024-01-01 13:00:00", buckets[1].Start.Format(time.DateTime))
	assert.Equal(t, 2, buckets[1].Count)
	assert.Equal(t, "2024-01-02 00:00:00", buckets[2].Start.Format(time.DateTime))
}

func TestHourlySeries(t *testing.T) {
	loc := analytics.FixedOffset(0)
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	var ts []time.Time
	for h := 0; h < 10; h++ {
		ts = append(ts, start.Add(time.Duration(h)*time.Hour))
	}

	for i := 0; i < 10; i++ {
		ts = append(ts, start.Add(10*time.Hour+time.Duration(i)*time.Minute))
	}

	series := analytics.HourlySeries(ts, loc, 10)

	require.Len(t, series, 11)
	assert.Equal(t, 10, series[10].Count)
	assert.InDelta(t, 1.9, series[10].Smoothed, 1e-12)
}

func TestUserBehavior(t *testing.T) {
	loc := analytics.FixedOffset(8)
	at := func(h, m int) time.Time { return time.Date(2024, 1, 1, h, m, 0, 0, time.UTC) }

	msgs := []models.SentMessage{
		{UserID: 2, Username: "b", Timestamp: at(1, 0)},
		{UserID: 1, Username: "a", Timestamp: at(5, 0)},
		{UserID: 1, Username: "a", Timestamp: at(2, 0)},
		{UserID: 1, Username: "a", Timestamp: at(5, 30)},
		{UserID: 2, Username: "b", Timestamp: at(3, 0)},
	}

	got := analytics.UserBehavior(msgs, loc)

	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].UserID)
	assert.Equal(t, 3, got[0].MessageCount)
	assert.Equal(t, "2024-01-01 13:00:00", got[0].ActiveHour.Format(time.DateTime))

	// Tied hours resolve to the earliest.
	assert.Equal(t, 2, got[1].MessageCount)
	assert.Equal(t, "2024-01-01 09:00:00", got[1].ActiveHour.Format(time.DateTime))
}

func TestUserBehavior_NoMessages(t *testing.T) {
	assert.Empty(t, analytics.UserBehavior(nil, analytics.FixedOffset(8)))
}

func TestFriendDistribution(t *testing.T) {
	g := friendGraph(5, [2]int64{1, 2}, [2]int64{1, 3}, [2]int64{1, 4})

	d := analytics.FriendDistribution(g)

	require.Len(t, d.Counts, 4)
	assert.Equal(t, analytics.FriendCount{Node: 0, Count: 3}, d.Counts[0])
	assert.InDelta(t, 1.5, d.Mean, 1e-12)
	assert.InDelta(t, 1.0, d.Median, 1e-12)
}

func TestFriendDistribution_EvenMedian(t *testing.T) {
	g := friendGraph(4, [2]int64{1, 2}, [2]int64{2, 3}, [2]int64{3, 4}, [2]int64{1, 3})

	d := analytics.FriendDistribution(g)

	// Degrees 2, 2, 3, 1.
	assert.InDelta(t, 2.0, d.Median, 1e-12)
	assert.InDelta(t, 2.0, d.Mean, 1e-12)
}
