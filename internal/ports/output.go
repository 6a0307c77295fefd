package ports

import "upgrade-guard/internal/types"

type OutputPort interface {
	WriteDriftReport(report types.DriftReport) error
	WriteAdviceReport(report types.AdviceReport) error
	WriteConflictReport(report types.ConflictReport) error
	WriteGuardVerdict(verdict types.GuardVerdict) error
	WriteMirrorPlan(plan types.MirrorPlan) error
	WriteExecutionReport(report types.ExecutionReport) error
}
