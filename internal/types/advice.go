package types

import "time"

// Recommendation is the advisor's judgement on a single package upgrade.
// Invariant: AutoApplySafe implies Confidence is at or above the effective
// threshold and the drift severity is patch (or a security-flagged minor
// when the advisor runs security-first).
type Recommendation struct {
	Package            string   `yaml:"package"`
	CurrentVersion     string   `yaml:"current_version"`
	RecommendedVersion string   `yaml:"recommended_version"`
	Priority           Priority `yaml:"priority"`
	Confidence         float64  `yaml:"confidence"`
	AutoApplySafe      bool     `yaml:"auto_apply_safe"`
	Reasons            []string `yaml:"reasons,omitempty"`
	Risks              []string `yaml:"risks,omitempty"`
	Mitigations        []string `yaml:"mitigations,omitempty"`
	EstimatedImpact    string   `yaml:"estimated_impact"`
}

// AdviceReport is the complete advisor output. Recommendations is ordered
// by priority descending, then confidence descending, then package name so
// identical inputs always serialize identically.
type AdviceReport struct {
	GeneratedAt         time.Time        `yaml:"generated_at"`
	Recommendations     []Recommendation `yaml:"recommendations"`
	SafeToAutoApply     []string         `yaml:"safe_to_auto_apply"`
	RequiresReview      []string         `yaml:"requires_review"`
	Summary             map[string]int   `yaml:"summary"`
	MirrorUpdatesNeeded bool             `yaml:"mirror_updates_needed"`
}
