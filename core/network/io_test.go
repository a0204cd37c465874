package network

import (
	"strings"
	"testing"
)

func TestReadJSON(t *testing.T) {
	in := `{
		"nodes": [{"id": 1, "x": -75.58, "y": 6.24}, {"id": 2, "x": -75.57, "y": 6.24}],
		"edges": [{"from": 1, "to": 2, "length_km": 0.9}, {"from": 2, "to": 1}]
	}`
	g, err := ReadJSON(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if g.NodeCount() != 2 || g.EdgeCount() != 2 {
		t.Fatalf("expected 2 nodes and 2 edges got %d/%d", g.NodeCount(), g.EdgeCount())
	}
	e := lookupEdge(t, g, 1, 2)
	if e.LengthKm != 0.9 {
		t.Fatalf("expected length 0.9 got %v", e.LengthKm)
	}
	// The reverse edge omitted its length; Prepare derives it later.
	if back := lookupEdge(t, g, 2, 1); back.LengthKm != 0 {
		t.Fatalf("expected zero length got %v", back.LengthKm)
	}
}

func lookupEdge(t *testing.T, g *Graph, from, to int64) *Edge {
	t.Helper()
	for _, e := range g.OutEdges(from) {
		if e.To == to {
			return e
		}
	}
	t.Fatalf("no edge %d->%d", from, to)
	return nil
}

func TestReadJSONRejectsUnknownEndpoint(t *testing.T) {
	in := `{"nodes": [{"id": 1}], "edges": [{"from": 1, "to": 99}]}`
	if _, err := ReadJSON(strings.NewReader(in)); err == nil {
		t.Fatalf("expected error for edge to unknown node")
	}
}

func TestReadJSONMalformed(t *testing.T) {
	if _, err := ReadJSON(strings.NewReader("{")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestLoadJSONMissingFile(t *testing.T) {
	if _, err := LoadJSON("does-not-exist.json"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
