// Package network holds the directed street multigraph the dispatch engine
// routes over, plus the per-round randomized enrichment of its edges.
package network

import "fmt"

// Node is a street intersection with 2-D coordinates in degrees
// (X longitude, Y latitude).
type Node struct {
	ID int64
	X  float64
	Y  float64
}

// Edge is a directed street segment. Multiple edges may connect the same
// ordered node pair; Key discriminates parallels. CapacityKmh and
// TravelTimeMin are filled in by Prepare once per optimization round.
type Edge struct {
	From int64
	To   int64
	Key  int

	// LengthKm is the segment length. Zero means unknown; Prepare derives it
	// from the endpoint coordinates.
	LengthKm float64
	// CapacityKmh is the sampled maximum aggregate speed the segment admits.
	CapacityKmh float64
	// TravelTimeMin is the nominal traversal time at full capacity.
	TravelTimeMin float64
}

// Graph is a directed multigraph. Node and edge iteration order is the
// insertion order, which keeps model construction and sampling deterministic
// for a given input.
type Graph struct {
	nodes map[int64]Node
	order []int64
	edges []*Edge
	out   map[int64][]*Edge
	in    map[int64][]*Edge
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[int64]Node),
		out:   make(map[int64][]*Edge),
		in:    make(map[int64][]*Edge),
	}
}

// AddNode inserts or replaces a node.
func (g *Graph) AddNode(n Node) {
	if _, ok := g.nodes[n.ID]; !ok {
		g.order = append(g.order, n.ID)
	}
	g.nodes[n.ID] = n
}

// AddEdge appends a directed edge between two existing nodes. The parallel
// key is assigned automatically.
func (g *Graph) AddEdge(from, to int64, lengthKm float64) (*Edge, error) {
	if _, ok := g.nodes[from]; !ok {
		return nil, fmt.Errorf("edge %d->%d: unknown source node", from, to)
	}
	if _, ok := g.nodes[to]; !ok {
		return nil, fmt.Errorf("edge %d->%d: unknown target node", from, to)
	}
	if lengthKm < 0 {
		return nil, fmt.Errorf("edge %d->%d: negative length", from, to)
	}
	key := 0
	for _, e := range g.out[from] {
		if e.To == to {
			key++
		}
	}
	e := &Edge{From: from, To: to, Key: key, LengthKm: lengthKm}
	g.edges = append(g.edges, e)
	g.out[from] = append(g.out[from], e)
	g.in[to] = append(g.in[to], e)
	return e, nil
}

// Node returns the node with the given id.
func (g *Graph) Node(id int64) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// HasNode reports whether the node exists.
func (g *Graph) HasNode(id int64) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// NodeIDs returns all node ids in insertion order.
func (g *Graph) NodeIDs() []int64 {
	out := make([]int64, len(g.order))
	copy(out, g.order)
	return out
}

// Edges returns all edges in insertion order. The pointers are shared with
// the graph: mutating an edge mutates the graph.
func (g *Graph) Edges() []*Edge { return g.edges }

// OutEdges returns the edges leaving the node.
func (g *Graph) OutEdges(id int64) []*Edge { return g.out[id] }

// InEdges returns the edges entering the node.
func (g *Graph) InEdges(id int64) []*Edge { return g.in[id] }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Degree returns the total degree (in + out) of the node.
func (g *Graph) Degree(id int64) int { return len(g.out[id]) + len(g.in[id]) }
