package core

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"upgrade-guard/internal/types"
)

// Resolver detects dependency conflicts in a declared dependency set
// and proposes resolutions for them.
type Resolver struct {
	// Conservative suppresses destructive suggestions such as removing
	// a dependency edge to break a cycle.
	Conservative bool
}

// autoResolveConfidence is the minimum resolution confidence at which
// a conflict is considered resolvable without human review.
const autoResolveConfidence = 0.8

// Resolve inspects the dependency specification for version conflicts,
// circular dependencies and missing dependencies, and pairs each
// conflict with the best available resolution.
func (r Resolver) Resolve(now time.Time, spec types.DependencySpec) types.ConflictReport {
	cache := newVersionCache()
	conflicts := make([]types.Conflict, 0)
	resolutions := make([]types.Resolution, 0)

	names := sortedPackageNames(spec)
	for _, name := range names {
		if conflict, resolution, found := r.versionConflict(cache, spec, name); found {
			conflicts = append(conflicts, conflict)
			if resolution != nil {
				resolutions = append(resolutions, *resolution)
			}
		}
	}
	for _, name := range names {
		for _, missing := range missingRequirements(spec, name) {
			conflict, resolution := r.missingConflict(name, missing)
			conflicts = append(conflicts, conflict)
			resolutions = append(resolutions, resolution)
		}
	}
	for _, cycle := range findCycles(spec) {
		conflict, resolution := r.circularConflict(cycle)
		conflicts = append(conflicts, conflict)
		resolutions = append(resolutions, resolution)
	}

	sort.Slice(conflicts, func(i, j int) bool {
		if conflicts[i].Package != conflicts[j].Package {
			return conflicts[i].Package < conflicts[j].Package
		}
		return conflicts[i].Type < conflicts[j].Type
	})
	sort.Slice(resolutions, func(i, j int) bool {
		return resolutions[i].Package < resolutions[j].Package
	})

	report := types.ConflictReport{
		GeneratedAt: now.UTC(),
		Conflicts:   conflicts,
		Resolutions: resolutions,
		Summary:     map[string]int{},
	}
	for _, conflict := range conflicts {
		report.Summary[string(conflict.Type)]++
		if conflict.AutoResolvable {
			report.AutoResolvableCount++
		}
	}
	return report
}

// versionConflict reports whether the constraints gathered for a
// package admit no available version, and if so suggests a resolution.
func (r Resolver) versionConflict(cache *versionCache, spec types.DependencySpec, name string) (types.Conflict, *types.Resolution, bool) {
	pkg := spec.Packages[name]
	sources := constraintSources(spec, name)
	if len(sources) == 0 || len(pkg.Available) == 0 {
		return types.Conflict{}, nil, false
	}

	constraints := make([]string, 0, len(sources))
	for _, source := range sources {
		constraints = append(constraints, source.Constraint)
	}
	if _, ok := cache.lowestSatisfying(types.EcosystemPyPI, constraints, pkg.Available); ok {
		return types.Conflict{}, nil, false
	}

	severity := types.ConflictSeverityMedium
	if len(sources) > 2 {
		severity = types.ConflictSeverityHigh
	}
	conflict := types.Conflict{
		Package:     name,
		Type:        types.ConflictVersion,
		Severity:    severity,
		Constraints: sources,
	}

	resolution := r.relaxDirectPin(cache, name, pkg, sources)
	if resolution == nil {
		resolution = &types.Resolution{
			Package:     name,
			Type:        types.ResolutionManual,
			Confidence:  0.3,
			Description: fmt.Sprintf("no version of %s satisfies all declared constraints, manual reconciliation required", name),
		}
	}
	conflict.AutoResolvable = resolution.Type != types.ResolutionManual && resolution.Confidence >= autoResolveConfidence
	conflict.Suggestions = []string{resolution.Description}
	return conflict, resolution, true
}

// relaxDirectPin tries to satisfy the transitive constraints alone. If
// a version exists, the direct constraint is the one to move and the
// resolution is an upgrade or downgrade of the pin.
func (r Resolver) relaxDirectPin(cache *versionCache, name string, pkg types.PackageSpec, sources []types.ConstraintSource) *types.Resolution {
	transitive := make([]string, 0, len(sources))
	var direct *types.ConstraintSource
	for i, source := range sources {
		if source.Direct {
			direct = &sources[i]
			continue
		}
		transitive = append(transitive, source.Constraint)
	}
	if direct == nil || len(transitive) == 0 {
		return nil
	}
	target, ok := cache.lowestSatisfying(types.EcosystemPyPI, transitive, pkg.Available)
	if !ok {
		return nil
	}

	resolutionType := types.ResolutionUpgrade
	if pinned := pinnedVersion(direct.Constraint); pinned != "" {
		if cmp, err := cache.compare(types.EcosystemPyPI, target, pinned); err == nil && cmp < 0 {
			resolutionType = types.ResolutionDowngrade
		}
	}
	return &types.Resolution{
		Package:       name,
		Type:          resolutionType,
		TargetVersion: target,
		Confidence:    0.85,
		Description:   fmt.Sprintf("move the direct constraint %q on %s to %s to satisfy transitive requirements", direct.Constraint, name, target),
		Commands:      []string{fmt.Sprintf("pip install %s==%s", name, target)},
	}
}

func (r Resolver) missingConflict(requirer, missing string) (types.Conflict, types.Resolution) {
	conflict := types.Conflict{
		Package:  missing,
		Type:     types.ConflictMissing,
		Severity: types.ConflictSeverityHigh,
		Constraints: []types.ConstraintSource{{
			Package:    missing,
			RequiredBy: requirer,
		}},
		Suggestions: []string{fmt.Sprintf("declare %s, required by %s", missing, requirer)},
	}
	resolution := types.Resolution{
		Package:     missing,
		Type:        types.ResolutionPin,
		Confidence:  0.75,
		Description: fmt.Sprintf("add %s to the dependency set to satisfy %s", missing, requirer),
		Commands:    []string{fmt.Sprintf("pip install %s", missing)},
	}
	return conflict, resolution
}

func (r Resolver) circularConflict(cycle []string) (types.Conflict, types.Resolution) {
	path := strings.Join(append(append([]string{}, cycle...), cycle[0]), " -> ")
	conflict := types.Conflict{
		Package:     cycle[0],
		Type:        types.ConflictCircular,
		Severity:    types.ConflictSeverityCritical,
		Suggestions: []string{fmt.Sprintf("break the dependency cycle %s", path)},
	}
	resolution := types.Resolution{
		Package:     cycle[0],
		Type:        types.ResolutionManual,
		Confidence:  0.2,
		Description: fmt.Sprintf("dependency cycle %s requires restructuring", path),
	}
	if !r.Conservative && len(cycle) > 1 {
		resolution.Type = types.ResolutionRemove
		resolution.Confidence = 0.4
		resolution.Description = fmt.Sprintf("remove the dependency of %s on %s to break the cycle %s", cycle[len(cycle)-1], cycle[0], path)
	}
	return conflict, resolution
}

// constraintSources gathers every constraint that applies to a
// package: its own declared constraint plus constraints contributed by
// packages that require it.
func constraintSources(spec types.DependencySpec, name string) []types.ConstraintSource {
	sources := make([]types.ConstraintSource, 0, 2)
	if pkg, ok := spec.Packages[name]; ok && pkg.Constraint != "" {
		sources = append(sources, types.ConstraintSource{
			Package:    name,
			Constraint: pkg.Constraint,
			Direct:     true,
		})
	}
	for _, requirer := range sortedPackageNames(spec) {
		for _, req := range spec.Packages[requirer].Requires {
			if req.Name == name && req.Constraint != "" {
				sources = append(sources, types.ConstraintSource{
					Package:    name,
					Constraint: req.Constraint,
					RequiredBy: requirer,
				})
			}
		}
	}
	return sources
}

func missingRequirements(spec types.DependencySpec, name string) []string {
	missing := make([]string, 0)
	for _, req := range spec.Packages[name].Requires {
		if _, ok := spec.Packages[req.Name]; !ok {
			missing = append(missing, req.Name)
		}
	}
	sort.Strings(missing)
	return missing
}

// findCycles runs a depth-first search with an explicit recursion
// stack and returns each dependency cycle once, rotated so the
// lexicographically smallest member comes first.
func findCycles(spec types.DependencySpec) [][]string {
	const (
		unvisited = iota
		inProgress
		done
	)
	state := make(map[string]int, len(spec.Packages))
	stack := make([]string, 0, len(spec.Packages))
	seen := map[string]bool{}
	cycles := make([][]string, 0)

	var visit func(name string)
	visit = func(name string) {
		state[name] = inProgress
		stack = append(stack, name)
		for _, req := range spec.Packages[name].Requires {
			next := req.Name
			if _, ok := spec.Packages[next]; !ok {
				continue
			}
			switch state[next] {
			case unvisited:
				visit(next)
			case inProgress:
				cycle := extractCycle(stack, next)
				key := strings.Join(cycle, "|")
				if !seen[key] {
					seen[key] = true
					cycles = append(cycles, cycle)
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[name] = done
	}

	for _, name := range sortedPackageNames(spec) {
		if state[name] == unvisited {
			visit(name)
		}
	}
	return cycles
}

func extractCycle(stack []string, start string) []string {
	idx := 0
	for i, name := range stack {
		if name == start {
			idx = i
			break
		}
	}
	cycle := append([]string{}, stack[idx:]...)
	return rotateToSmallest(cycle)
}

func rotateToSmallest(cycle []string) []string {
	smallest := 0
	for i, name := range cycle {
		if name < cycle[smallest] {
			smallest = i
		}
	}
	rotated := make([]string, 0, len(cycle))
	rotated = append(rotated, cycle[smallest:]...)
	rotated = append(rotated, cycle[:smallest]...)
	return rotated
}

func sortedPackageNames(spec types.DependencySpec) []string {
	names := make([]string, 0, len(spec.Packages))
	for name := range spec.Packages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func pinnedVersion(constraint string) string {
	trimmed := strings.TrimSpace(constraint)
	if strings.HasPrefix(trimmed, "==") {
		return strings.TrimSpace(strings.TrimPrefix(trimmed, "=="))
	}
	return ""
}
