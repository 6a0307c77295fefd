package core

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"upgrade-guard/internal/types"
)

// Advisor turns drift records into concrete upgrade recommendations
// with confidence scores and auto-apply decisions.
type Advisor struct {
	// Conservative raises the confidence threshold required before an
	// upgrade is marked safe to auto-apply.
	Conservative bool
	// SecurityFirst promotes security-flagged packages to critical
	// priority regardless of their drift severity.
	SecurityFirst bool
}

// AdviceInput bundles everything the advisor needs for one run.
type AdviceInput struct {
	Drift    types.DriftReport
	Metadata map[string]types.PackageMetadata
	// Mirrored is keyed by "name@version" and reports whether the
	// artifact is already present in the local mirror.
	Mirrored map[string]bool
	Contract *types.Contract
}

const (
	baseConfidence      = 0.5
	patchBonus          = 0.3
	minorBonus          = 0.1
	majorPenalty        = 0.2
	popularityBonus     = 0.1
	maturityBonus       = 0.1
	freshnessPenalty    = 0.15
	mirrorBonus         = 0.05
	popularityThreshold = 1_000_000
	maturityAgeDays     = 90
	freshnessAgeDays    = 7
)

// Advise produces a recommendation for every drifted package and an
// aggregate report ordered by priority, confidence and name.
func (a Advisor) Advise(now time.Time, in AdviceInput) types.AdviceReport {
	contract := in.Contract
	if contract == nil {
		defaulted := types.DefaultContract()
		contract = &defaulted
	}

	recommendations := make([]types.Recommendation, 0, len(in.Drift.Packages))
	mirrorGaps := 0
	for _, record := range in.Drift.Packages {
		if !upgradeable(record.Severity) {
			continue
		}
		mirrored := in.Mirrored[record.Package+"@"+record.LatestVersion]
		if !mirrored {
			mirrorGaps++
		}
		recommendations = append(recommendations, a.recommend(record, in.Metadata[record.Package], contract, mirrored))
	}

	sort.Slice(recommendations, func(i, j int) bool {
		left, right := recommendations[i], recommendations[j]
		if left.Priority != right.Priority {
			return types.PriorityRank(left.Priority) > types.PriorityRank(right.Priority)
		}
		if left.Confidence != right.Confidence {
			return left.Confidence > right.Confidence
		}
		return left.Package < right.Package
	})

	report := types.AdviceReport{
		GeneratedAt:         now.UTC(),
		Recommendations:     recommendations,
		Summary:             map[string]int{},
		MirrorUpdatesNeeded: mirrorGaps > 0,
	}
	for _, rec := range recommendations {
		report.Summary[string(rec.Priority)]++
		if rec.AutoApplySafe {
			report.SafeToAutoApply = append(report.SafeToAutoApply, rec.Package)
		} else {
			report.RequiresReview = append(report.RequiresReview, rec.Package)
		}
	}
	return report
}

func (a Advisor) recommend(record types.DriftRecord, meta types.PackageMetadata, contract *types.Contract, mirrored bool) types.Recommendation {
	rec := types.Recommendation{
		Package:            record.Package,
		CurrentVersion:     record.CurrentVersion,
		RecommendedVersion: record.LatestVersion,
		Priority:           a.priorityFor(record.Severity),
		EstimatedImpact:    impactFor(record.Severity),
	}

	confidence := baseConfidence
	switch record.Severity {
	case types.DriftPatch:
		confidence += patchBonus
		rec.Reasons = append(rec.Reasons, "patch release with backwards compatible fixes")
	case types.DriftMinor:
		confidence += minorBonus
		rec.Reasons = append(rec.Reasons, "minor release, additive changes expected")
		rec.Risks = append(rec.Risks, "new features may change runtime behaviour")
		rec.Mitigations = append(rec.Mitigations, "run the integration test suite before rollout")
	case types.DriftMajor:
		confidence -= majorPenalty
		rec.Reasons = append(rec.Reasons, "major release available")
		rec.Risks = append(rec.Risks, "breaking API changes are likely across a major boundary")
		rec.Mitigations = append(rec.Mitigations, "review the upstream changelog and migration notes")
	}

	if meta.DownloadCount > popularityThreshold {
		confidence += popularityBonus
		rec.Reasons = append(rec.Reasons, "widely adopted release")
	}
	if meta.VersionAgeDays > maturityAgeDays {
		confidence += maturityBonus
		rec.Reasons = append(rec.Reasons, "release has been stable for over three months")
	} else if meta.VersionAgeDays > 0 && meta.VersionAgeDays < freshnessAgeDays {
		confidence -= freshnessPenalty
		rec.Risks = append(rec.Risks, "release is less than a week old")
		rec.Mitigations = append(rec.Mitigations, "wait for early adopter feedback or pin after testing")
	}

	if meta.SecurityFlagged {
		rec.Priority = types.PriorityCritical
		rec.Reasons = append(rec.Reasons, securityReason(meta.Advisories))
	}

	if isPrerelease(record.Ecosystem, record.LatestVersion) && !contract.Policy.AllowPrereleases {
		confidence -= majorPenalty
		rec.Risks = append(rec.Risks, "target version is a pre-release")
	}
	if mirrored {
		confidence += mirrorBonus
		rec.Reasons = append(rec.Reasons, "artifact already present in the local mirror")
	}

	rec.Confidence = clampConfidence(confidence)
	eligible := record.Severity == types.DriftPatch ||
		(a.SecurityFirst && meta.SecurityFlagged && record.Severity == types.DriftMinor)
	rec.AutoApplySafe = eligible &&
		rec.Confidence >= contract.ThresholdFor(record.Package, a.Conservative) &&
		!isPrerelease(record.Ecosystem, record.LatestVersion)
	return rec
}

// FilterAutoApply re-runs the auto-apply gate over an upgrade plan and
// splits it into the entries the executor may touch and the names held
// back for review. Plans carry no package metadata, so the gate scores
// on the version delta, the contract thresholds and prerelease status
// alone.
func (a Advisor) FilterAutoApply(contract *types.Contract, upgrades []types.ProposedUpgrade) (safe []types.ProposedUpgrade, held []string) {
	if contract == nil {
		defaulted := types.DefaultContract()
		contract = &defaulted
	}
	for _, upgrade := range upgrades {
		record := types.DriftRecord{
			Package:        upgrade.Package,
			Ecosystem:      upgrade.Ecosystem,
			CurrentVersion: upgrade.CurrentVersion,
			LatestVersion:  upgrade.TargetVersion,
			Severity:       classifyDelta(upgrade.CurrentVersion, upgrade.TargetVersion),
		}
		if a.recommend(record, types.PackageMetadata{}, contract, false).AutoApplySafe {
			safe = append(safe, upgrade)
		} else {
			held = append(held, upgrade.Package)
		}
	}
	return safe, held
}

func upgradeable(severity types.DriftSeverity) bool {
	switch severity {
	case types.DriftPatch, types.DriftMinor, types.DriftMajor:
		return true
	default:
		return false
	}
}

// priorityFor maps drift severity to rollout priority. Security-first
// runs never let a patch linger at low priority and treat a pending
// major as high.
func (a Advisor) priorityFor(severity types.DriftSeverity) types.Priority {
	switch severity {
	case types.DriftPatch:
		if a.SecurityFirst {
			return types.PriorityMedium
		}
		return types.PriorityLow
	case types.DriftMinor:
		return types.PriorityMedium
	case types.DriftMajor:
		if a.SecurityFirst {
			return types.PriorityHigh
		}
		return types.PriorityMedium
	default:
		return types.PriorityLow
	}
}

func impactFor(severity types.DriftSeverity) string {
	switch severity {
	case types.DriftMajor:
		return "high"
	case types.DriftMinor:
		return "medium"
	default:
		return "low"
	}
}

func securityReason(advisories []string) string {
	if len(advisories) == 0 {
		return "security fix available"
	}
	return fmt.Sprintf("addresses security advisories: %s", strings.Join(advisories, ", "))
}

func clampConfidence(value float64) float64 {
	clamped := math.Min(1, math.Max(0, value))
	return math.Round(clamped*100) / 100
}
