package dispatch

import (
	"time"

	"github.com/ambuflow/ambuflow/core/model"
)

// Assignment pairs a dispatched vehicle with the incident it serves, along
// with the realized route and its metrics. It carries everything the
// dashboard needs without re-deriving optimization state.
type Assignment struct {
	VehicleID       string         `json:"vehicle_id"`
	VehicleClass    model.Class    `json:"vehicle_class"`
	OperationalCost float64        `json:"operational_cost"`
	IncidentNode    int64          `json:"incident_node"`
	Severity        model.Severity `json:"severity"`
	Priority        int            `json:"priority"`
	// TimeMin is the realized response time in minutes.
	TimeMin float64 `json:"time_min"`
	// RequiredSpeedKmh is the speed the incident's severity demanded.
	RequiredSpeedKmh float64 `json:"required_speed_kmh"`
	DistanceKm       float64 `json:"distance_km"`
	// Path is the ordered node walk from the base to the incident.
	Path []int64 `json:"path"`
}

// Result aggregates one fully solved optimization round.
type Result struct {
	RoundID     string        `json:"round_id"`
	BaseNode    int64         `json:"base_node"`
	Status      string        `json:"status"`
	TotalCost   float64       `json:"total_cost"`
	Assignments []Assignment  `json:"assignments"`
	SolveTime   time.Duration `json:"solve_time"`
	SolverNodes int           `json:"solver_nodes"`
}
