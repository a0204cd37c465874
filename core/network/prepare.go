package network

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/ambuflow/ambuflow/core/model"
)

// degreesToKm approximates one degree of latitude/longitude as kilometers
// when an edge carries no geometry length.
const degreesToKm = 111.0

// Range bounds a uniform sample.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Validate checks the range is positive and ordered.
func (r Range) Validate() error {
	if r.Min <= 0 {
		return fmt.Errorf("range minimum must be positive, got %v", r.Min)
	}
	if r.Max < r.Min {
		return fmt.Errorf("range maximum %v below minimum %v", r.Max, r.Min)
	}
	return nil
}

func (r Range) sample(rng *rand.Rand) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Prepare enriches every edge with a sampled capacity, a length (derived from
// coordinates when absent) and the nominal traversal time, then samples one
// required speed per severity from three contiguous sub-ranges of speed
// (Light lowest, Critical highest). Edge attributes are mutated in place; the
// per-severity speeds are returned. Sampling uses the caller-supplied rng so
// rounds are reproducible.
func Prepare(g *Graph, capacity, speed Range, rng *rand.Rand) (map[model.Severity]float64, error) {
	if rng == nil {
		return nil, fmt.Errorf("prepare: rng is required")
	}
	if err := capacity.Validate(); err != nil {
		return nil, fmt.Errorf("capacity %w", err)
	}
	if err := speed.Validate(); err != nil {
		return nil, fmt.Errorf("required speed %w", err)
	}

	for _, e := range g.Edges() {
		e.CapacityKmh = capacity.sample(rng)
		if e.LengthKm == 0 {
			from, _ := g.Node(e.From)
			to, _ := g.Node(e.To)
			e.LengthKm = math.Hypot(to.X-from.X, to.Y-from.Y) * degreesToKm
		}
		e.TravelTimeMin = e.LengthKm / e.CapacityKmh * 60
	}

	third := (speed.Max - speed.Min) / 3
	speeds := map[model.Severity]float64{
		model.SeverityLight:    Range{Min: speed.Min, Max: speed.Min + third}.sample(rng),
		model.SeverityMedium:   Range{Min: speed.Min + third, Max: speed.Min + 2*third}.sample(rng),
		model.SeverityCritical: Range{Min: speed.Min + 2*third, Max: speed.Max}.sample(rng),
	}
	return speeds, nil
}
