package outbound

import "time"

// MetricsRecorder records business metrics from the application layer
type MetricsRecorder interface {
	RecordMatchRequest(source string, duration time.Duration, results int)
	RecordCacheOperation(operation, status string)
	RecordRecipeCreated(source string)
	RecordExternalRequest(service, status string)
}

// NopMetrics discards every measurement
type NopMetrics struct{}

func (NopMetrics) RecordMatchRequest(string, time.Duration, int) {}
func (NopMetrics) RecordCacheOperation(string, string)           {}
func (NopMetrics) RecordRecipeCreated(string)                    {}
func (NopMetrics) RecordExternalRequest(string, string)          {}
