package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/ambuflow/ambuflow/core/metrics"
)

func TestPromSinkRecordsRounds(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordRound(coremetrics.RoundRecord{
		RoundID:     "r1",
		Status:      "optimal",
		SolveTime:   120 * time.Millisecond,
		Incidents:   3,
		Assignments: 3,
		TotalCost:   443.3,
	}))
	require.NoError(t, sink.RecordAssignments([]coremetrics.AssignmentRecord{
		{RoundID: "r1", VehicleID: "Amb_001", VehicleClass: "Light", Severity: "Light"},
		{RoundID: "r1", VehicleID: "Amb_004", VehicleClass: "Critical", Severity: "Critical"},
	}))

	ps := sink.(*PromSink)
	assert.Equal(t, 1.0, testutil.ToFloat64(ps.rounds.WithLabelValues("optimal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ps.assignments.WithLabelValues("Light", "Light")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ps.assignments.WithLabelValues("Critical", "Critical")))
	assert.Equal(t, 443.3, testutil.ToFloat64(ps.roundCost))
	assert.NoError(t, sink.Close())
}

func TestPromSinkDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)
	second, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)

	// Both sinks share the collectors that were registered first.
	require.NoError(t, first.RecordRound(coremetrics.RoundRecord{Status: "optimal"}))
	require.NoError(t, second.RecordRound(coremetrics.RoundRecord{Status: "optimal"}))
	ps := first.(*PromSink)
	assert.Equal(t, 2.0, testutil.ToFloat64(ps.rounds.WithLabelValues("optimal")))
}
