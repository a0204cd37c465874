package metrics

import (
	"fmt"

	coremetrics "github.com/ambuflow/ambuflow/core/metrics"
)

// NewSinks builds the sink stack selected by the configuration. With nothing
// enabled a NopSink is returned so callers never hold a nil sink.
func NewSinks(cfg coremetrics.Config) (coremetrics.Sink, error) {
	cfg.SetDefaults()
	var sinks []coremetrics.Sink
	if cfg.PrometheusEnabled {
		prom, err := NewPromSink(cfg)
		if err != nil {
			return nil, fmt.Errorf("prometheus sink: %w", err)
		}
		sinks = append(sinks, prom)
	}
	if cfg.InfluxEnabled {
		sinks = append(sinks, NewInfluxSinkWithFallback(cfg.InfluxURL, cfg.InfluxToken, cfg.InfluxOrg, cfg.InfluxBucket))
	}
	switch len(sinks) {
	case 0:
		return coremetrics.NopSink{}, nil
	case 1:
		return sinks[0], nil
	default:
		return NewMultiSink(sinks...), nil
	}
}
