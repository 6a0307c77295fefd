package adapters

import (
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"upgrade-guard/internal/ports"
	"upgrade-guard/internal/types"
)

// OutputFileAdapter writes every report as a YAML document under one
// output directory. Report contents are pre-sorted by the core layer
// so identical inputs produce identical files.
type OutputFileAdapter struct {
	Dir string
}

func NewOutputFileAdapter(dir string) OutputFileAdapter {
	return OutputFileAdapter{Dir: dir}
}

func (a OutputFileAdapter) WriteDriftReport(report types.DriftReport) error {
	return a.writeYAML("drift.report.yaml", report)
}

func (a OutputFileAdapter) WriteAdviceReport(report types.AdviceReport) error {
	return a.writeYAML("advice.report.yaml", report)
}

func (a OutputFileAdapter) WriteConflictReport(report types.ConflictReport) error {
	return a.writeYAML("conflicts.report.yaml", report)
}

func (a OutputFileAdapter) WriteGuardVerdict(verdict types.GuardVerdict) error {
	return a.writeYAML("guard.verdict.yaml", verdict)
}

func (a OutputFileAdapter) WriteMirrorPlan(plan types.MirrorPlan) error {
	return a.writeYAML("mirror.plan.yaml", plan)
}

func (a OutputFileAdapter) WriteExecutionReport(report types.ExecutionReport) error {
	return a.writeYAML("execution.report.yaml", report)
}

func (a OutputFileAdapter) writeYAML(filename string, value any) error {
	path, err := a.ensurePath(filename)
	if err != nil {
		return err
	}
	content, err := yaml.Marshal(value)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to serialize report").
			WithCause(err)
	}
	return os.WriteFile(path, content, 0644)
}

func (a OutputFileAdapter) ensurePath(filename string) (string, error) {
	if a.Dir == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is empty")
	}
	if err := os.MkdirAll(a.Dir, 0755); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create output directory").
			WithCause(err)
	}
	return filepath.Join(a.Dir, filename), nil
}

var _ ports.OutputPort = OutputFileAdapter{}
