package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/ambuflow/ambuflow/core/metrics"
)

// PromSink records optimization rounds in Prometheus metrics.
type PromSink struct {
	rounds      *prometheus.CounterVec
	solveTime   prometheus.Histogram
	assignments *prometheus.CounterVec
	roundCost   prometheus.Gauge
}

// NewPromSink registers dispatch metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.Sink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (coremetrics.Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	rounds := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_rounds_total",
		Help: "Total number of optimization rounds by solver status",
	}, []string{"status"})
	solveTime := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dispatch_solve_duration_seconds",
		Help:    "Time spent solving the dispatch model",
		Buckets: prometheus.DefBuckets,
	})
	assignments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_assignments_total",
		Help: "Total number of vehicle assignments by class and severity",
	}, []string{"vehicle_class", "severity"})
	roundCost := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dispatch_round_cost",
		Help: "Objective value of the latest optimization round",
	})

	if err := reg.Register(rounds); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			rounds = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(solveTime); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			solveTime = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(assignments); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			assignments = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(roundCost); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			roundCost = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}

	return &PromSink{rounds: rounds, solveTime: solveTime, assignments: assignments, roundCost: roundCost}, nil
}

// RecordRound increments the round counter and observes the solve time.
func (s *PromSink) RecordRound(r coremetrics.RoundRecord) error {
	s.rounds.WithLabelValues(r.Status).Inc()
	s.solveTime.Observe(r.SolveTime.Seconds())
	s.roundCost.Set(r.TotalCost)
	return nil
}

// RecordAssignments increments the assignment counter per record.
func (s *PromSink) RecordAssignments(recs []coremetrics.AssignmentRecord) error {
	for _, r := range recs {
		s.assignments.WithLabelValues(r.VehicleClass, r.Severity).Inc()
	}
	return nil
}

// Close is a no-op; Prometheus collectors stay registered.
func (s *PromSink) Close() error { return nil }
