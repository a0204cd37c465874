package network

import (
	"math"
	"math/rand"
	"testing"

	"github.com/ambuflow/ambuflow/core/model"
)

func TestPrepareDegenerateCapacityRange(t *testing.T) {
	g := NewGraph()
	g.AddNode(Node{ID: 1})
	g.AddNode(Node{ID: 2})
	e := mustEdge(t, g, 1, 2)
	e.LengthKm = 10

	_, err := Prepare(g, Range{Min: 50, Max: 50}, Range{Min: 20, Max: 50}, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if e.CapacityKmh != 50 {
		t.Fatalf("expected capacity 50 got %v", e.CapacityKmh)
	}
	// 10 km at 50 km/h is exactly 12 minutes regardless of randomization.
	if math.Abs(e.TravelTimeMin-12) > 1e-12 {
		t.Fatalf("expected 12 min got %v", e.TravelTimeMin)
	}
}

func TestPrepareDerivesLengthFromCoordinates(t *testing.T) {
	g := NewGraph()
	g.AddNode(Node{ID: 1, X: 0, Y: 0})
	g.AddNode(Node{ID: 2, X: 0.01, Y: 0})
	e := mustEdge(t, g, 1, 2)
	e.LengthKm = 0

	if _, err := Prepare(g, Range{Min: 50, Max: 100}, Range{Min: 20, Max: 50}, rand.New(rand.NewSource(1))); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	want := 0.01 * 111.0
	if math.Abs(e.LengthKm-want) > 1e-9 {
		t.Fatalf("expected derived length %v got %v", want, e.LengthKm)
	}
}

func TestPrepareSpeedSubRangesOrdered(t *testing.T) {
	g, err := Grid(3, 3, 0.5)
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	for seed := int64(0); seed < 20; seed++ {
		speeds, err := Prepare(g, Range{Min: 50, Max: 100}, Range{Min: 30, Max: 60}, rand.New(rand.NewSource(seed)))
		if err != nil {
			t.Fatalf("Prepare: %v", err)
		}
		light := speeds[model.SeverityLight]
		medium := speeds[model.SeverityMedium]
		critical := speeds[model.SeverityCritical]
		if light < 30 || light > 40 {
			t.Fatalf("seed %d: light speed %v outside [30,40]", seed, light)
		}
		if medium < 40 || medium > 50 {
			t.Fatalf("seed %d: medium speed %v outside [40,50]", seed, medium)
		}
		if critical < 50 || critical > 60 {
			t.Fatalf("seed %d: critical speed %v outside [50,60]", seed, critical)
		}
	}
}

func TestPrepareDeterministicForSeed(t *testing.T) {
	build := func() (*Graph, map[model.Severity]float64) {
		g, err := Grid(3, 3, 0.5)
		if err != nil {
			t.Fatalf("Grid: %v", err)
		}
		speeds, err := Prepare(g, Range{Min: 50, Max: 100}, Range{Min: 20, Max: 50}, rand.New(rand.NewSource(7)))
		if err != nil {
			t.Fatalf("Prepare: %v", err)
		}
		return g, speeds
	}
	g1, s1 := build()
	g2, s2 := build()
	for sev, v := range s1 {
		if s2[sev] != v {
			t.Fatalf("speeds differ for %s: %v vs %v", sev, v, s2[sev])
		}
	}
	e1, e2 := g1.Edges(), g2.Edges()
	for i := range e1 {
		if e1[i].CapacityKmh != e2[i].CapacityKmh {
			t.Fatalf("edge %d capacity differs: %v vs %v", i, e1[i].CapacityKmh, e2[i].CapacityKmh)
		}
	}
}

func TestPrepareRejectsBadRanges(t *testing.T) {
	g, _ := Grid(2, 2, 0.5)
	rng := rand.New(rand.NewSource(1))
	if _, err := Prepare(g, Range{Min: 0, Max: 10}, Range{Min: 20, Max: 50}, rng); err == nil {
		t.Fatalf("expected error for zero capacity minimum")
	}
	if _, err := Prepare(g, Range{Min: 50, Max: 40}, Range{Min: 20, Max: 50}, rng); err == nil {
		t.Fatalf("expected error for inverted range")
	}
	if _, err := Prepare(g, Range{Min: 50, Max: 60}, Range{Min: 20, Max: 50}, nil); err == nil {
		t.Fatalf("expected error for nil rng")
	}
}
