package types

import "time"

// ProposedUpgrade is one (package, target version) pair submitted to
// the policy guard for evaluation.
type ProposedUpgrade struct {
	Package        string    `yaml:"package"`
	Ecosystem      Ecosystem `yaml:"ecosystem"`
	CurrentVersion string    `yaml:"current_version"`
	TargetVersion  string    `yaml:"target_version"`
	Signed         bool      `yaml:"signed"`
}

type Violation struct {
	Package string `yaml:"package"`
	Rule    string `yaml:"rule"`
	Detail  string `yaml:"detail"`
}

// GuardVerdict is the contract evaluation result. Deferred lists packages
// excluded from the verdict by an active snooze; they contribute nothing to
// Status but are kept for visibility.
type GuardVerdict struct {
	GeneratedAt time.Time     `yaml:"generated_at"`
	Status      VerdictStatus `yaml:"status"`
	Violations  []Violation   `yaml:"violations,omitempty"`
	Deferred    []string      `yaml:"deferred,omitempty"`
}
