package core

import (
	"fmt"
	"sort"
	"time"

	"upgrade-guard/internal/types"
)

// AnalyzeDrift compares every installed package against its available
// versions and classifies how far it has drifted. The contract may be
// nil, in which case no bound filtering is applied.
func AnalyzeDrift(now time.Time, refs []types.PackageRef, contract *types.Contract) types.DriftReport {
	cache := newVersionCache()
	records := make([]types.DriftRecord, 0, len(refs))
	for _, ref := range refs {
		records = append(records, classifyDrift(cache, ref, contract))
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Package < records[j].Package
	})

	report := types.DriftReport{
		GeneratedAt: now.UTC(),
		Packages:    records,
		Severity:    types.DriftUpToDate,
	}
	for _, record := range records {
		report.Severity = types.WorseDrift(report.Severity, record.Severity)
	}
	report.Notes = driftNotes(records)
	return report
}

func classifyDrift(cache *versionCache, ref types.PackageRef, contract *types.Contract) types.DriftRecord {
	record := types.DriftRecord{
		Package:        ref.Name,
		Ecosystem:      ref.Ecosystem,
		CurrentVersion: ref.CurrentVersion,
	}
	if len(ref.AvailableVersions) == 0 {
		record.Severity = types.DriftUnknown
		record.Notes = []string{"no available versions known"}
		return record
	}

	candidates := ref.AvailableVersions
	if contract != nil {
		if rule, ok := contract.Rule(ref.Name); ok {
			admissible := admissibleVersions(cache, ref.Ecosystem, rule, candidates)
			if len(admissible) == 0 {
				record.Severity = types.DriftConflict
				record.Notes = []string{"contract bounds exclude every available version"}
				return record
			}
			candidates = admissible
		}
	}

	latest, ok := cache.latest(ref.Ecosystem, candidates)
	if !ok {
		record.Severity = types.DriftUnknown
		record.Notes = []string{"available versions did not parse"}
		return record
	}
	record.LatestVersion = latest

	cmp, err := cache.compare(ref.Ecosystem, ref.CurrentVersion, latest)
	if err != nil {
		record.Severity = types.DriftUnknown
		record.Notes = []string{fmt.Sprintf("current version %q did not parse", ref.CurrentVersion)}
		return record
	}
	if cmp >= 0 {
		record.Severity = types.DriftUpToDate
		return record
	}
	record.Severity = classifyDelta(ref.CurrentVersion, latest)
	return record
}

// admissibleVersions filters candidates through a contract rule: floor
// and ceiling bounds, the allowed-versions constraints and the
// blocked-versions list.
func admissibleVersions(cache *versionCache, ecosystem types.Ecosystem, rule types.PackageRule, candidates []string) []string {
	admissible := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		if versionAdmissible(cache, ecosystem, rule, candidate) {
			admissible = append(admissible, candidate)
		}
	}
	return admissible
}

func versionAdmissible(cache *versionCache, ecosystem types.Ecosystem, rule types.PackageRule, candidate string) bool {
	for _, blocked := range rule.BlockedVersions {
		if blocked == candidate {
			return false
		}
	}
	if rule.Ceiling != "" {
		cmp, err := cache.compare(ecosystem, candidate, rule.Ceiling)
		if err != nil || cmp > 0 {
			return false
		}
	}
	if rule.Floor != "" {
		cmp, err := cache.compare(ecosystem, candidate, rule.Floor)
		if err != nil || cmp < 0 {
			return false
		}
	}
	if len(rule.AllowedVersions) > 0 {
		matched := false
		for _, constraint := range rule.AllowedVersions {
			if ok, err := cache.satisfies(ecosystem, constraint, candidate); err == nil && ok {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func driftNotes(records []types.DriftRecord) []string {
	counts := map[types.DriftSeverity]int{}
	for _, record := range records {
		counts[record.Severity]++
	}
	notes := make([]string, 0, 4)
	for _, severity := range []types.DriftSeverity{
		types.DriftConflict, types.DriftMajor, types.DriftMinor, types.DriftPatch,
	} {
		if counts[severity] > 0 {
			notes = append(notes, fmt.Sprintf("%d package(s) with %s drift", counts[severity], severity))
		}
	}
	if counts[types.DriftUnknown] > 0 {
		notes = append(notes, fmt.Sprintf("%d package(s) could not be classified", counts[types.DriftUnknown]))
	}
	return notes
}
