package shell

import (
	"context"
	"log/slog"
	"time"

	"github.com/AntonStoeckl/library-catalog-go/eventstore"
	"github.com/AntonStoeckl/library-catalog-go/library/core"
)

const (
	// CommandHandlerDurationMetric tracks command handler execution duration.
	CommandHandlerDurationMetric = "commandhandler_handle_duration_seconds"
	// CommandHandlerCallsMetric tracks total command handler calls.
	CommandHandlerCallsMetric = "commandhandler_handle_calls_total"
	// CommandHandlerIdempotentMetric tracks idempotent operations.
	CommandHandlerIdempotentMetric = "commandhandler_idempotent_operations_total"
	// CommandHandlerRetriesMetric tracks retry attempts, labeled with command_type, attempt_number and error_type.
	CommandHandlerRetriesMetric = "commandhandler_retries_total"
	// CommandHandlerRetryDelayMetric tracks the backoff delay before each retry.
	CommandHandlerRetryDelayMetric = "commandhandler_retry_delay_seconds"
	// CommandHandlerMaxRetriesReachedMetric tracks when max retries are exhausted.
	CommandHandlerMaxRetriesReachedMetric = "commandhandler_max_retries_reached_total"

	// StatusSuccess indicates successful command completion.
	StatusSuccess = "success"
	// StatusError indicates a command processing error.
	StatusError = "error"
	// StatusIdempotent indicates no state change was needed.
	StatusIdempotent = "idempotent"

	// LogMsgCommandStarted is logged when command processing begins.
	LogMsgCommandStarted = "command handler started"
	// LogMsgCommandCompleted is logged when command processing succeeds.
	LogMsgCommandCompleted = "command handler completed"
	// LogMsgCommandFailed is logged when command processing fails.
	LogMsgCommandFailed = "command handler failed"

	// LogAttrCommandType identifies the command type in logs.
	LogAttrCommandType = "command_type"
	// LogAttrStatus indicates the command processing status.
	LogAttrStatus = "status"
	// LogAttrDurationMS indicates the processing duration in milliseconds.
	LogAttrDurationMS = "duration_ms"
	// LogAttrBusinessOutcome classifies the business result.
	LogAttrBusinessOutcome = "business_outcome"
	// LogAttrError contains error details.
	LogAttrError = "error"
	// LogAttrRetryAttempts contains the number of attempts the command needed.
	LogAttrRetryAttempts = "retry_attempts"
)

// Interface aliases for convenience, they match the EventStore observability interfaces.

// MetricsCollector interface for collecting command handler performance metrics.
type MetricsCollector = eventstore.MetricsCollector

// ContextualLogger interface for context-aware logging in command handlers.
type ContextualLogger = eventstore.ContextualLogger

// Logger interface for basic logging in command handlers.
type Logger = eventstore.Logger

// NopLogger returns a ContextualLogger that discards everything, it is the default of all components.
func NopLogger() ContextualLogger {
	return slog.New(slog.DiscardHandler)
}

// ClassifyBusinessOutcome analyzes a decision to determine the business outcome.
func ClassifyBusinessOutcome(result core.DecisionResult) string {
	switch {
	case result.IsIdempotent():
		return StatusIdempotent
	case result.HasError() != nil:
		return StatusError
	default:
		return StatusSuccess
	}
}

// BuildCommandLabels creates standard metric labels for command handler operations.
func BuildCommandLabels(commandType, status string) map[string]string {
	return map[string]string{
		LogAttrCommandType: commandType,
		LogAttrStatus:      status,
	}
}

// ToMilliseconds converts a time.Duration to float64 milliseconds with precision.
func ToMilliseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

// RecordCommandMetrics records duration, call count and idempotent operations of a command.
func RecordCommandMetrics(collector MetricsCollector, commandType string, status string, duration time.Duration) {
	if collector == nil {
		return
	}

	labels := BuildCommandLabels(commandType, status)
	collector.RecordDuration(CommandHandlerDurationMetric, duration, labels)
	collector.IncrementCounter(CommandHandlerCallsMetric, labels)

	if status == StatusIdempotent {
		collector.IncrementCounter(CommandHandlerIdempotentMetric, labels)
	}
}

// LogCommandStart logs the beginning of command processing.
func LogCommandStart(ctx context.Context, logger ContextualLogger, commandType string) {
	logger.DebugContext(ctx, LogMsgCommandStarted, LogAttrCommandType, commandType)
}

// LogCommandSuccess logs successful (or idempotent) command completion.
func LogCommandSuccess(
	ctx context.Context,
	logger ContextualLogger,
	commandType string,
	businessOutcome string,
	result HandlerResult,
	duration time.Duration,
) {

	logger.InfoContext(ctx, LogMsgCommandCompleted,
		LogAttrCommandType, commandType,
		LogAttrBusinessOutcome, businessOutcome,
		LogAttrRetryAttempts, result.RetryAttempts,
		LogAttrDurationMS, ToMilliseconds(duration),
	)
}

// LogCommandError logs failed command processing, business rule violations included.
func LogCommandError(
	ctx context.Context,
	logger ContextualLogger,
	commandType string,
	err error,
	duration time.Duration,
) {

	logger.WarnContext(ctx, LogMsgCommandFailed,
		LogAttrCommandType, commandType,
		LogAttrError, err.Error(),
		LogAttrDurationMS, ToMilliseconds(duration),
	)
}

// FinishCommand logs the outcome of a command and records its metrics.
// A non-nil err wins over the business outcome.
func FinishCommand(
	ctx context.Context,
	logger ContextualLogger,
	collector MetricsCollector,
	commandType string,
	startTime time.Time,
	businessOutcome string,
	result HandlerResult,
	err error,
) {

	duration := time.Since(startTime)

	if err != nil {
		LogCommandError(ctx, logger, commandType, err, duration)
		RecordCommandMetrics(collector, commandType, StatusError, duration)

		return
	}

	LogCommandSuccess(ctx, logger, commandType, businessOutcome, result, duration)
	RecordCommandMetrics(collector, commandType, businessOutcome, duration)
}
