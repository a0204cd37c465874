package network

import "fmt"

// Grid builds a rows×cols street grid with bidirectional edges between
// orthogonal neighbours, each of the given length. It stands in for a real
// downloaded street network in the CLI demo and in tests: the grid is
// strongly connected, so every node can host an incident.
func Grid(rows, cols int, spacingKm float64) (*Graph, error) {
	if rows < 2 || cols < 2 {
		return nil, fmt.Errorf("grid needs at least 2x2 nodes, got %dx%d", rows, cols)
	}
	if spacingKm <= 0 {
		return nil, fmt.Errorf("grid spacing must be positive")
	}
	g := NewGraph()
	spacingDeg := spacingKm / degreesToKm
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			g.AddNode(Node{
				ID: int64(r*cols + c),
				X:  float64(c) * spacingDeg,
				Y:  float64(r) * spacingDeg,
			})
		}
	}
	link := func(a, b int64) error {
		if _, err := g.AddEdge(a, b, spacingKm); err != nil {
			return err
		}
		_, err := g.AddEdge(b, a, spacingKm)
		return err
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			id := int64(r*cols + c)
			if c+1 < cols {
				if err := link(id, id+1); err != nil {
					return nil, err
				}
			}
			if r+1 < rows {
				if err := link(id, id+int64(cols)); err != nil {
					return nil, err
				}
			}
		}
	}
	return g, nil
}
