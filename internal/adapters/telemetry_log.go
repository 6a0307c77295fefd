package adapters

import (
	"github.com/rs/zerolog"

	"upgrade-guard/internal/ports"
)

// TelemetryLogAdapter emits run telemetry as structured log events.
type TelemetryLogAdapter struct {
	Logger zerolog.Logger
}

func NewTelemetryLogAdapter(logger zerolog.Logger) TelemetryLogAdapter {
	return TelemetryLogAdapter{Logger: logger}
}

func (a TelemetryLogAdapter) RecordRun(operation string, outcome string, durationMS int64) {
	a.Logger.Info().
		Str("operation", operation).
		Str("outcome", outcome).
		Int64("duration_ms", durationMS).
		Msg("run recorded")
}

var _ ports.TelemetryPort = TelemetryLogAdapter{}
