// Package graph holds the in-memory friendship and message graphs that the
// analytics operate on. Nodes are addressed by dense indices in user order;
// every known user is a node whether or not it has edges.
package graph

import "github.com/persistorai/netgraph/internal/models"

// Pair is an undirected edge between two node indices.
type Pair struct {
	U, V int
}

// Arc is a weighted directed edge between two node indices.
type Arc struct {
	From, To int
	Weight   float64
}

type nodeSet struct {
	users  []models.User
	index  map[int64]int
	byName map[string]int
}

func newNodeSet(capacity int) nodeSet {
	return nodeSet{
		users:  make([]models.User, 0, capacity),
		index:  make(map[int64]int, capacity),
		byName: make(map[string]int, capacity),
	}
}

func (s *nodeSet) add(u models.User) bool {
	if _, ok := s.index[u.ID]; ok {
		return false
	}

	s.index[u.ID] = len(s.users)
	if _, ok := s.byName[u.Username]; !ok {
		s.byName[u.Username] = len(s.users)
	}

	s.users = append(s.users, u)

	return true
}

// Len returns the number of nodes.
func (s *nodeSet) Len() int { return len(s.users) }

// Users returns the nodes' users in index order.
func (s *nodeSet) Users() []models.User { return s.users }

// User returns the user at node index i.
func (s *nodeSet) User(i int) models.User { return s.users[i] }

// Index returns the node index of a user id.
func (s *nodeSet) Index(id int64) (int, bool) {
	i, ok := s.index[id]
	return i, ok
}

// IndexByUsername returns the node index of the first user with the given username.
func (s *nodeSet) IndexByUsername(name string) (int, bool) {
	i, ok := s.byName[name]
	return i, ok
}

// Undirected is the friendship graph. Edges are unweighted and unique.
type Undirected struct {
	nodeSet
	adj   [][]int
	edges []Pair
}

// Neighbors returns the neighbors of node i in insertion order.
func (g *Undirected) Neighbors(i int) []int { return g.adj[i] }

// Degree returns the number of friends of node i.
func (g *Undirected) Degree(i int) int { return len(g.adj[i]) }

// Edges returns the unique edges in insertion order.
func (g *Undirected) Edges() []Pair { return g.edges }

// EdgeCount returns the number of unique edges.
func (g *Undirected) EdgeCount() int { return len(g.edges) }

// Directed is the message graph. Arc weights are message counts.
type Directed struct {
	nodeSet
	window models.Window
	out    [][]Arc
	in     [][]Arc
	arcs   []Arc
}

// Window returns the time window the graph's messages were aggregated over.
func (g *Directed) Window() models.Window { return g.window }

// Out returns the outgoing arcs of node i.
func (g *Directed) Out(i int) []Arc { return g.out[i] }

// In returns the incoming arcs of node i.
func (g *Directed) In(i int) []Arc { return g.in[i] }

// Arcs returns all arcs in insertion order.
func (g *Directed) Arcs() []Arc { return g.arcs }

// ArcCount returns the number of arcs.
func (g *Directed) ArcCount() int { return len(g.arcs) }

// OutWeight returns the total weight of arcs leaving node i.
func (g *Directed) OutWeight(i int) float64 { return sumWeights(g.out[i]) }

// InWeight returns the total weight of arcs entering node i.
func (g *Directed) InWeight(i int) float64 { return sumWeights(g.in[i]) }

func sumWeights(arcs []Arc) float64 {
	var total float64
	for _, a := range arcs {
		total += a.Weight
	}

	return total
}

// WeakComponents labels every node with the id of its weakly-connected
// component. Components are numbered in order of their lowest node index.
func (g *Directed) WeakComponents() (labels []int, count int) {
	labels = make([]int, g.Len())
	for i := range labels {
		labels[i] = -1
	}

	queue := make([]int, 0, g.Len())

	for start := range labels {
		if labels[start] != -1 {
			continue
		}

		labels[start] = count
		queue = append(queue[:0], start)

		for len(queue) > 0 {
			n := queue[0]
			queue = queue[1:]

			for _, a := range g.out[n] {
				if labels[a.To] == -1 {
					labels[a.To] = count
					queue = append(queue, a.To)
				}
			}

			for _, a := range g.in[n] {
				if labels[a.From] == -1 {
					labels[a.From] = count
					queue = append(queue, a.From)
				}
			}
		}

		count++
	}

	return labels, count
}
