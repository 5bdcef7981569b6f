package memengine

import (
	"context"
	"math"
	"time"
)

const (
	metricQueryDuration        = "eventstore_query_duration_seconds"
	metricAppendDuration       = "eventstore_append_duration_seconds"
	metricEventsAppended       = "eventstore_events_appended_total"
	metricConcurrencyConflicts = "eventstore_concurrency_conflicts_total"

	labelOperation = "operation"
	labelStatus    = "status"

	operationQuery  = "query"
	operationAppend = "append"

	statusSuccess  = "success"
	statusError    = "error"
	statusConflict = "concurrency_conflict"

	logMsgQueryCompleted      = "eventstore operation: query completed"
	logMsgEventsAppended      = "eventstore operation: events appended"
	logMsgConcurrencyConflict = "eventstore operation: concurrency conflict detected"

	logAttrEventCount       = "event_count"
	logAttrDurationMS       = "duration_ms"
	logAttrFilter           = "filter"
	logAttrExpectedSequence = "expected_sequence"
	logAttrActualSequence   = "actual_sequence"
)

func (es *EventStore) logDebug(ctx context.Context, msg string, args ...any) {
	switch {
	case es.contextualLogger != nil:
		es.contextualLogger.DebugContext(ctx, msg, args...)
	case es.logger != nil:
		es.logger.Debug(msg, args...)
	}
}

func (es *EventStore) logInfo(ctx context.Context, msg string, args ...any) {
	switch {
	case es.contextualLogger != nil:
		es.contextualLogger.InfoContext(ctx, msg, args...)
	case es.logger != nil:
		es.logger.Info(msg, args...)
	}
}

func (es *EventStore) logWarn(ctx context.Context, msg string, args ...any) {
	switch {
	case es.contextualLogger != nil:
		es.contextualLogger.WarnContext(ctx, msg, args...)
	case es.logger != nil:
		es.logger.Warn(msg, args...)
	}
}

func (es *EventStore) recordDuration(metric string, operation string, status string, duration time.Duration) {
	if es.metricsCollector == nil {
		return
	}

	es.metricsCollector.RecordDuration(metric, duration, map[string]string{
		labelOperation: operation,
		labelStatus:    status,
	})
}

func (es *EventStore) recordAppended(count int) {
	if es.metricsCollector == nil {
		return
	}

	es.metricsCollector.RecordValue(metricEventsAppended, float64(count), map[string]string{
		labelOperation: operationAppend,
	})
}

func (es *EventStore) recordConflict() {
	if es.metricsCollector == nil {
		return
	}

	es.metricsCollector.IncrementCounter(metricConcurrencyConflicts, map[string]string{
		labelOperation: operationAppend,
	})
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
