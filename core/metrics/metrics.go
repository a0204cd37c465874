// Package metrics defines the sink contract dispatch results are reported
// through. Implementations live under infra/metrics.
package metrics

import "time"

// Config selects and parameterizes the metric sinks.
type Config struct {
	// PrometheusEnabled registers round metrics on the Prometheus registry.
	PrometheusEnabled bool `json:"prometheus_enabled"`
	// PrometheusPort is the port the /metrics endpoint listens on.
	PrometheusPort int `json:"prometheus_port"`

	// InfluxEnabled activates the InfluxDB sink.
	InfluxEnabled bool   `json:"influx_enabled"`
	InfluxURL     string `json:"influx_url"`
	InfluxToken   string `json:"influx_token"`
	InfluxOrg     string `json:"influx_org"`
	InfluxBucket  string `json:"influx_bucket"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.PrometheusPort == 0 {
		c.PrometheusPort = 2112
	}
}

// RoundRecord summarizes one optimization round.
type RoundRecord struct {
	RoundID     string
	Status      string
	SolveTime   time.Duration
	Incidents   int
	Assignments int
	TotalCost   float64
}

// AssignmentRecord is one dispatched vehicle within a round.
type AssignmentRecord struct {
	RoundID       string
	VehicleID     string
	VehicleClass  string
	Severity      string
	Priority      int
	TimeMin       float64
	DistanceKm    float64
	RequiredSpeed float64
	Time          time.Time
}

// Sink receives dispatch outcomes.
type Sink interface {
	RecordRound(RoundRecord) error
	RecordAssignments([]AssignmentRecord) error
	Close() error
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) RecordRound(RoundRecord) error              { return nil }
func (NopSink) RecordAssignments([]AssignmentRecord) error { return nil }
func (NopSink) Close() error                               { return nil }
