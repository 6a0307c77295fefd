package types

import "time"

// Requirement is one edge in the declared dependency graph: the owning
// package needs Name within Constraint.
type Requirement struct {
	Name       string `yaml:"name"`
	Constraint string `yaml:"constraint,omitempty"`
}

// PackageSpec declares one package in a proposed post-upgrade dependency
// set. Constraint is a PEP 440 specifier set ("" means unconstrained).
// Available lists the versions known to exist upstream; when present it is
// the ground truth for intersection checks.
type PackageSpec struct {
	Constraint string        `yaml:"constraint,omitempty"`
	Requires   []Requirement `yaml:"requires,omitempty"`
	Available  []string      `yaml:"available,omitempty"`
}

// DependencySpec is the conflict resolver's input: the full proposed
// dependency set keyed by package name.
type DependencySpec struct {
	Packages map[string]PackageSpec `yaml:"packages"`
}

// ConstraintSource records where a constraint on a package came from.
// Direct constraints come from the root specification itself.
type ConstraintSource struct {
	Package    string `yaml:"package"`
	Constraint string `yaml:"constraint"`
	RequiredBy string `yaml:"required_by"`
	Direct     bool   `yaml:"direct"`
}

type Conflict struct {
	Package        string             `yaml:"package"`
	Type           ConflictType       `yaml:"conflict_type"`
	Severity       ConflictSeverity   `yaml:"severity"`
	Constraints    []ConstraintSource `yaml:"constraints,omitempty"`
	AutoResolvable bool               `yaml:"auto_resolvable"`
	Suggestions    []string           `yaml:"resolution_suggestions,omitempty"`
}

type Resolution struct {
	Package       string         `yaml:"package"`
	Type          ResolutionType `yaml:"resolution_type"`
	TargetVersion string         `yaml:"target_version,omitempty"`
	Confidence    float64        `yaml:"confidence"`
	Description   string         `yaml:"description"`
	Commands      []string       `yaml:"commands,omitempty"`
}

type ConflictReport struct {
	GeneratedAt         time.Time      `yaml:"generated_at"`
	Conflicts           []Conflict     `yaml:"conflicts"`
	Resolutions         []Resolution   `yaml:"resolutions"`
	Summary             map[string]int `yaml:"summary"`
	AutoResolvableCount int            `yaml:"auto_resolvable_count"`
}
