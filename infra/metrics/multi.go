package metrics

import coremetrics "github.com/ambuflow/ambuflow/core/metrics"

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRound forwards the record to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordRound(r coremetrics.RoundRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordRound(r); err != nil {
			return err
		}
	}
	return nil
}

// RecordAssignments forwards assignment records to all sinks.
func (m *MultiSink) RecordAssignments(recs []coremetrics.AssignmentRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordAssignments(recs); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink, returning the first error encountered.
func (m *MultiSink) Close() error {
	var first error
	for _, s := range m.Sinks {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
