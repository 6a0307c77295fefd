package types

// Ecosystem selects the version grammar used for a package: PEP 440 for
// PyPI packages, Debian version ordering for apt packages.
type Ecosystem string

const (
	EcosystemPyPI   Ecosystem = "pypi"
	EcosystemDebian Ecosystem = "debian"
)

type DriftSeverity string

const (
	DriftUpToDate DriftSeverity = "up_to_date"
	DriftPatch    DriftSeverity = "patch"
	DriftMinor    DriftSeverity = "minor"
	DriftMajor    DriftSeverity = "major"
	DriftConflict DriftSeverity = "conflict"
	DriftUnknown  DriftSeverity = "unknown"
)

var driftRank = map[DriftSeverity]int{
	DriftUpToDate: 0,
	DriftPatch:    1,
	DriftMinor:    2,
	DriftMajor:    3,
	DriftConflict: 4,
	DriftUnknown:  5,
}

// WorseDrift returns the higher-ranked of two drift severities.
func WorseDrift(a DriftSeverity, b DriftSeverity) DriftSeverity {
	if driftRank[b] > driftRank[a] {
		return b
	}
	return a
}

type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

var priorityRank = map[Priority]int{
	PriorityCritical: 3,
	PriorityHigh:     2,
	PriorityMedium:   1,
	PriorityLow:      0,
}

// PriorityRank returns a numeric rank for sort ordering, higher = more urgent.
func PriorityRank(p Priority) int {
	return priorityRank[p]
}

type ConflictType string

const (
	ConflictVersion  ConflictType = "version_conflict"
	ConflictCircular ConflictType = "circular_dependency"
	ConflictMissing  ConflictType = "missing_dependency"
)

type ConflictSeverity string

const (
	ConflictSeverityLow      ConflictSeverity = "low"
	ConflictSeverityMedium   ConflictSeverity = "medium"
	ConflictSeverityHigh     ConflictSeverity = "high"
	ConflictSeverityCritical ConflictSeverity = "critical"
)

type ResolutionType string

const (
	ResolutionPin       ResolutionType = "pin"
	ResolutionUpgrade   ResolutionType = "upgrade"
	ResolutionDowngrade ResolutionType = "downgrade"
	ResolutionRemove    ResolutionType = "remove"
	ResolutionManual    ResolutionType = "manual"
)

type VerdictStatus string

const (
	VerdictSafe        VerdictStatus = "safe"
	VerdictNeedsReview VerdictStatus = "needs_review"
	VerdictBlocked     VerdictStatus = "blocked"
)

var verdictRank = map[VerdictStatus]int{
	VerdictSafe:        0,
	VerdictNeedsReview: 1,
	VerdictBlocked:     2,
}

// WorseVerdict returns the more restrictive of two verdict statuses.
func WorseVerdict(a VerdictStatus, b VerdictStatus) VerdictStatus {
	if verdictRank[b] > verdictRank[a] {
		return b
	}
	return a
}

type FinalStatus string

const (
	StatusCompleted          FinalStatus = "completed"
	StatusPartiallyCompleted FinalStatus = "partially_completed"
	StatusRolledBack         FinalStatus = "rolled_back"
)
