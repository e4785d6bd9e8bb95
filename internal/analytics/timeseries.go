package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/persistorai/netgraph/internal/models"
)

const (
	// DefaultTimezoneOffsetHours is the fixed offset applied before bucketing.
	DefaultTimezoneOffsetHours = 8

	// DefaultSmoothingWindow is the number of buckets in the rolling mean.
	DefaultSmoothingWindow = 10
)

// FixedOffset returns a zone hours east of UTC with no daylight saving.
func FixedOffset(hours int) *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", hours), hours*3600)
}

// Bucket is the number of messages in one local hour.
type Bucket struct {
	Start time.Time
	Count int
}

// SmoothedBucket pairs a bucket with its rolling mean.
type SmoothedBucket struct {
	Bucket
	Smoothed float64
}

func hourOf(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), lt.Hour(), 0, 0, 0, loc)
}

// BucketByHour counts timestamps per local hour in loc. Only hours with at
// least one message appear, in chronological order.
func BucketByHour(timestamps []time.Time, loc *time.Location) []Bucket {
	counts := make(map[int64]int)

	for _, ts := range timestamps {
		counts[hourOf(ts, loc).Unix()]++
	}

	keys := make([]int64, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	out := make([]Bucket, len(keys))
	for i, k := range keys {
		out[i] = Bucket{Start: time.Unix(k, 0).In(loc), Count: counts[k]}
	}

	return out
}

// RollingMean returns the trailing mean over window values. Early positions
// average over the values available so far.
func RollingMean(values []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}

	out := make([]float64, len(values))

	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}

		out[i] = sum / float64(min(i+1, window))
	}

	return out
}

// HourlySeries buckets timestamps by local hour and smooths the counts.
func HourlySeries(timestamps []time.Time, loc *time.Location, window int) []SmoothedBucket {
	buckets := BucketByHour(timestamps, loc)

	counts := make([]float64, len(buckets))
	for i, b := range buckets {
		counts[i] = float64(b.Count)
	}

	smoothed := RollingMean(counts, window)

	out := make([]SmoothedBucket, len(buckets))
	for i, b := range buckets {
		out[i] = SmoothedBucket{Bucket: b, Smoothed: smoothed[i]}
	}

	return out
}

// Behavior is one user's message total and busiest local hour.
type Behavior struct {
	UserID       int64
	Username     string
	MessageCount int
	ActiveHour   time.Time
}

// UserBehavior summarizes senders ordered by user id. Users who sent nothing
// do not appear. Ties for the busiest hour go to the earliest hour.
func UserBehavior(messages []models.SentMessage, loc *time.Location) []Behavior {
	type tally struct {
		username string
		total    int
		hours    map[int64]int
	}

	users := make(map[int64]*tally)

	for _, m := range messages {
		t, ok := users[m.UserID]
		if !ok {
			t = &tally{username: m.Username, hours: make(map[int64]int)}
			users[m.UserID] = t
		}

		t.total++
		t.hours[hourOf(m.Timestamp, loc).Unix()]++
	}

	out := make([]Behavior, 0, len(users))

	for id, t := range users {
		var bestHour int64
		bestCount := 0

		for h, c := range t.hours {
			if c > bestCount || (c == bestCount && h < bestHour) {
				bestHour, bestCount = h, c
			}
		}

		out = append(out, Behavior{
			UserID:       id,
			Username:     t.username,
			MessageCount: t.total,
			ActiveHour:   time.Unix(bestHour, 0).In(loc),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })

	return out
}
