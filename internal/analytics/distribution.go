package analytics

import (
	"sort"

	"github.com/persistorai/netgraph/internal/graph"
)

// FriendCount is a node with at least one friend.
type FriendCount struct {
	Node  int
	Count int
}

// Distribution summarizes friend counts over users who have friends.
type Distribution struct {
	Counts []FriendCount
	Mean   float64
	Median float64
}

// FriendDistribution counts friends per user in node order, skipping users
// without friends.
func FriendDistribution(g *graph.Undirected) Distribution {
	var d Distribution

	values := make([]int, 0, g.Len())

	for i := 0; i < g.Len(); i++ {
		if deg := g.Degree(i); deg > 0 {
			d.Counts = append(d.Counts, FriendCount{Node: i, Count: deg})
			values = append(values, deg)
		}
	}

	if len(values) == 0 {
		return d
	}

	total := 0
	for _, v := range values {
		total += v
	}

	d.Mean = float64(total) / float64(len(values))

	sort.Ints(values)

	mid := len(values) / 2
	if len(values)%2 == 1 {
		d.Median = float64(values[mid])
	} else {
		d.Median = float64(values[mid-1]+values[mid]) / 2
	}

	return d
}
