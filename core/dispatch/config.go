package dispatch

import "fmt"

// Config holds the engine's objective weights and solver limits.
type Config struct {
	// Beta weighs the priority-scaled response time term.
	Beta float64 `json:"beta"`
	// Gamma weighs the priority-and-cost-scaled distance term.
	Gamma float64 `json:"gamma"`
	// BigM gates the response-time variable of unassigned pairs. Zero means
	// derive it from the instance (total edge length over the slowest
	// required speed, with headroom). A configured value below the derived
	// bound is rejected at build time.
	BigM float64 `json:"big_m"`
	// RelaxationFactor is the default capacity oversubscription multiplier
	// applied when the caller passes zero.
	RelaxationFactor float64 `json:"relaxation_factor"`
	// SolveTimeoutSeconds bounds one MILP solve.
	SolveTimeoutSeconds int `json:"solve_timeout_seconds"`
	// MaxNodes bounds the branch-and-bound tree; zero means unlimited.
	MaxNodes int `json:"max_nodes"`
}

// SetDefaults applies the fixed weights of the original formulation.
func (c *Config) SetDefaults() {
	if c.Beta == 0 {
		c.Beta = 0.5
	}
	if c.Gamma == 0 {
		c.Gamma = 1.0
	}
	if c.RelaxationFactor == 0 {
		c.RelaxationFactor = 1.0
	}
	if c.SolveTimeoutSeconds == 0 {
		c.SolveTimeoutSeconds = 30
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Beta < 0 || c.Gamma < 0 {
		return fmt.Errorf("objective weights must be non-negative")
	}
	if c.RelaxationFactor < 1 {
		return fmt.Errorf("relaxation factor must be >= 1.0, got %v", c.RelaxationFactor)
	}
	if c.BigM < 0 {
		return fmt.Errorf("big_m must be non-negative")
	}
	if c.SolveTimeoutSeconds < 0 || c.MaxNodes < 0 {
		return fmt.Errorf("solver limits must be non-negative")
	}
	return nil
}
