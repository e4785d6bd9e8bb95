package analytics_test

import (
	"fmt"

	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/persistorai/netgraph/internal/graph"
	"github.com/persistorai/netgraph/internal/models"
)

func users(n int) []models.User {
	out := make([]models.User, n)
	for i := range out {
		out[i] = models.User{ID: int64(i + 1), Username: fmt.Sprintf("u%d", i+1)}
	}

	return out
}

func friendGraph(n int, pairs ...[2]int64) *graph.Undirected {
	log, _ := logtest.NewNullLogger()

	rows := make([]models.Friendship, len(pairs))
	for i, p := range pairs {
		rows[i] = models.Friendship{UserID: p[0], FriendID: p[1]}
	}

	g, _ := graph.NewBuilder(log).BuildFriendGraph(users(n), rows)

	return g
}

type arc struct {
	from, to int64
	w        float64
}

func messageGraph(n int, arcs ...arc) *graph.Directed {
	log, _ := logtest.NewNullLogger()

	rows := make([]models.MessageAggRow, len(arcs))
	for i, a := range arcs {
		rows[i] = models.MessageAggRow{SenderID: a.from, ReceiverID: a.to, Weight: a.w}
	}

	g, _ := graph.NewBuilder(log).BuildMessageGraph(users(n), rows, models.Window{})

	return g
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}

	return total
}
