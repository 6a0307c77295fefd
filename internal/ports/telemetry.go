package ports

type TelemetryPort interface {
	RecordRun(operation string, outcome string, durationMS int64)
}
