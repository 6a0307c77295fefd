package core

import (
	"sort"
	"time"

	"upgrade-guard/internal/types"
)

// staleAfterDays is the mirror freshness window. Entries older than
// this are scheduled for a refresh even when the version matches.
const staleAfterDays = 30

// PlanMirror compares the packages the pipeline wants to install
// against the mirror's content index and buckets each one as missing,
// stale or available.
func PlanMirror(now time.Time, needed []types.MirrorNeed, entries []types.MirrorEntry) types.MirrorPlan {
	index := make(map[string]types.MirrorEntry, len(entries))
	for _, entry := range entries {
		current, ok := index[entry.Package]
		if !ok || entry.LastModified.After(current.LastModified) {
			index[entry.Package] = entry
		}
	}

	plan := types.MirrorPlan{
		GeneratedAt: now.UTC(),
		Packages:    []types.MirrorPackageInfo{},
		ToAdd:       []types.MirrorNeed{},
		ToUpdate:    []types.MirrorNeed{},
		Available:   []types.MirrorNeed{},
	}
	for _, need := range needed {
		plan.Packages = append(plan.Packages, LookupMirror(entries, need.Name, need.Version))
		entry, ok := index[need.Name]
		if !ok {
			plan.ToAdd = append(plan.ToAdd, need)
			continue
		}
		age := int(now.Sub(entry.LastModified).Hours() / 24)
		need.AgeDays = age
		if entry.Version != need.Version || age > staleAfterDays {
			plan.ToUpdate = append(plan.ToUpdate, need)
			continue
		}
		plan.Available = append(plan.Available, need)
	}

	for _, bucket := range []*[]types.MirrorNeed{&plan.ToAdd, &plan.ToUpdate, &plan.Available} {
		needs := *bucket
		sort.Slice(needs, func(i, j int) bool { return needs[i].Name < needs[j].Name })
	}
	sort.Slice(plan.Packages, func(i, j int) bool { return plan.Packages[i].Name < plan.Packages[j].Name })
	plan.Summary = map[string]int{
		"to_add":    len(plan.ToAdd),
		"to_update": len(plan.ToUpdate),
		"available": len(plan.Available),
	}
	return plan
}

// LookupMirror answers a single (package, version) query against the
// mirror's content index.
func LookupMirror(entries []types.MirrorEntry, name, version string) types.MirrorPackageInfo {
	info := types.MirrorPackageInfo{Name: name, Version: version}
	for _, entry := range entries {
		if entry.Package != name {
			continue
		}
		if info.LastUpdated == nil || entry.LastModified.After(*info.LastUpdated) {
			modified := entry.LastModified
			info.LastUpdated = &modified
		}
		if entry.Version == version {
			info.Available = true
		}
	}
	return info
}
