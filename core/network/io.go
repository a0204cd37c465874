package network

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

type graphFile struct {
	Nodes []nodeRecord `json:"nodes"`
	Edges []edgeRecord `json:"edges"`
}

type nodeRecord struct {
	ID int64   `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

type edgeRecord struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
	// LengthKm may be omitted; Prepare then derives it from coordinates.
	LengthKm float64 `json:"length_km,omitempty"`
}

// ReadJSON decodes a graph from its JSON representation: a node list with
// coordinates and a directed edge list. Parallel edges are expressed by
// repeating a from/to pair.
func ReadJSON(r io.Reader) (*Graph, error) {
	var f graphFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode graph: %w", err)
	}
	g := NewGraph()
	for _, n := range f.Nodes {
		g.AddNode(Node{ID: n.ID, X: n.X, Y: n.Y})
	}
	for _, e := range f.Edges {
		if _, err := g.AddEdge(e.From, e.To, e.LengthKm); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// LoadJSON reads a graph from a JSON file on disk.
func LoadJSON(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadJSON(f)
}
