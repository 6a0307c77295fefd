// Package core contains the pure decision logic of upgrade-guard: drift
// classification, upgrade advice, conflict resolution, mirror planning
// and the safe-upgrade state machine. Functions in this package do not
// touch the filesystem or the network.
package core

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	debversion "github.com/knqyf263/go-deb-version"

	pep440 "github.com/aquasecurity/go-pep440-version"

	"upgrade-guard/internal/types"
)

// versionCache memoizes parsed version strings so the same version is
// never parsed twice during a report run.
type versionCache struct {
	deb  map[string]debversion.Version
	pep  map[string]pep440.Version
	spec map[string]pep440.Specifiers
}

func newVersionCache() *versionCache {
	return &versionCache{
		deb:  make(map[string]debversion.Version),
		pep:  make(map[string]pep440.Version),
		spec: make(map[string]pep440.Specifiers),
	}
}

func (c *versionCache) debVersion(raw string) (debversion.Version, error) {
	if cached, ok := c.deb[raw]; ok {
		return cached, nil
	}
	parsed, err := debversion.NewVersion(raw)
	if err != nil {
		return debversion.Version{}, fmt.Errorf("parse debian version %q: %w", raw, err)
	}
	c.deb[raw] = parsed
	return parsed, nil
}

func (c *versionCache) pepVersion(raw string) (pep440.Version, error) {
	if cached, ok := c.pep[raw]; ok {
		return cached, nil
	}
	parsed, err := pep440.Parse(raw)
	if err != nil {
		return pep440.Version{}, fmt.Errorf("parse python version %q: %w", raw, err)
	}
	c.pep[raw] = parsed
	return parsed, nil
}

func (c *versionCache) specifiers(raw string) (pep440.Specifiers, error) {
	if cached, ok := c.spec[raw]; ok {
		return cached, nil
	}
	parsed, err := pep440.NewSpecifiers(raw)
	if err != nil {
		return pep440.Specifiers{}, fmt.Errorf("parse constraint %q: %w", raw, err)
	}
	c.spec[raw] = parsed
	return parsed, nil
}

// compare returns a negative value when a sorts before b, zero when the
// versions are equal and a positive value when a sorts after b, using
// the comparison rules of the given ecosystem.
func (c *versionCache) compare(ecosystem types.Ecosystem, a, b string) (int, error) {
	switch ecosystem {
	case types.EcosystemDebian:
		left, err := c.debVersion(a)
		if err != nil {
			return 0, err
		}
		right, err := c.debVersion(b)
		if err != nil {
			return 0, err
		}
		return left.Compare(right), nil
	default:
		left, err := c.pepVersion(a)
		if err != nil {
			return 0, err
		}
		right, err := c.pepVersion(b)
		if err != nil {
			return 0, err
		}
		return left.Compare(right), nil
	}
}

// satisfies reports whether the version matches the PEP 440 style
// constraint. Debian versions are normalized through their upstream
// component before evaluation.
func (c *versionCache) satisfies(ecosystem types.Ecosystem, constraint, version string) (bool, error) {
	specifiers, err := c.specifiers(constraint)
	if err != nil {
		return false, err
	}
	candidate := version
	if ecosystem == types.EcosystemDebian {
		candidate = upstreamComponent(version)
	}
	parsed, err := c.pepVersion(candidate)
	if err != nil {
		return false, err
	}
	return specifiers.Check(parsed), nil
}

// sortAscending orders raw version strings from oldest to newest in
// place. Unparseable versions sort before parseable ones so callers
// always consider valid candidates last.
func (c *versionCache) sortAscending(ecosystem types.Ecosystem, versions []string) {
	sort.SliceStable(versions, func(i, j int) bool {
		cmp, err := c.compare(ecosystem, versions[i], versions[j])
		if err != nil {
			return versions[i] < versions[j]
		}
		return cmp < 0
	})
}

// latest returns the newest version in the candidate list, skipping
// versions that do not parse. The boolean is false when no candidate
// parsed.
func (c *versionCache) latest(ecosystem types.Ecosystem, candidates []string) (string, bool) {
	best := ""
	for _, candidate := range candidates {
		if best == "" {
			if _, err := c.compare(ecosystem, candidate, candidate); err == nil {
				best = candidate
			}
			continue
		}
		cmp, err := c.compare(ecosystem, candidate, best)
		if err != nil {
			continue
		}
		if cmp > 0 {
			best = candidate
		}
	}
	return best, best != ""
}

// lowestSatisfying returns the oldest candidate version that satisfies
// every constraint in the list. The boolean is false when no candidate
// satisfies them all.
func (c *versionCache) lowestSatisfying(ecosystem types.Ecosystem, constraints, candidates []string) (string, bool) {
	ordered := make([]string, len(candidates))
	copy(ordered, candidates)
	c.sortAscending(ecosystem, ordered)
	for _, candidate := range ordered {
		if c.satisfiesAll(ecosystem, constraints, candidate) {
			return candidate, true
		}
	}
	return "", false
}

func (c *versionCache) satisfiesAll(ecosystem types.Ecosystem, constraints []string, candidate string) bool {
	for _, constraint := range constraints {
		ok, err := c.satisfies(ecosystem, constraint, candidate)
		if err != nil || !ok {
			return false
		}
	}
	return true
}

// upstreamComponent strips the Debian epoch prefix and revision suffix
// so the remaining upstream version can be fed through a PEP 440
// parser for constraint checks.
func upstreamComponent(version string) string {
	trimmed := version
	if idx := strings.Index(trimmed, ":"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	if idx := strings.LastIndex(trimmed, "-"); idx > 0 {
		trimmed = trimmed[:idx]
	}
	return trimmed
}

// releaseComponents extracts the leading numeric dotted components of a
// version for major/minor/patch delta classification. Non-numeric
// segments terminate the scan.
func releaseComponents(version string) []int {
	trimmed := upstreamComponent(strings.TrimSpace(version))
	parts := strings.Split(trimmed, ".")
	components := make([]int, 0, len(parts))
	for _, part := range parts {
		digits := leadingDigits(part)
		if digits == "" {
			break
		}
		value, err := strconv.Atoi(digits)
		if err != nil {
			break
		}
		components = append(components, value)
		if digits != part {
			break
		}
	}
	return components
}

func leadingDigits(value string) string {
	for i, r := range value {
		if r < '0' || r > '9' {
			return value[:i]
		}
	}
	return value
}

// classifyDelta maps the difference between a current and a newer
// version onto a drift severity. It assumes the caller already knows
// the target is strictly newer.
func classifyDelta(current, target string) types.DriftSeverity {
	from := releaseComponents(current)
	to := releaseComponents(target)
	if len(from) == 0 || len(to) == 0 {
		return types.DriftUnknown
	}
	if componentAt(from, 0) != componentAt(to, 0) {
		return types.DriftMajor
	}
	if componentAt(from, 1) != componentAt(to, 1) {
		return types.DriftMinor
	}
	return types.DriftPatch
}

func componentAt(components []int, index int) int {
	if index < len(components) {
		return components[index]
	}
	return 0
}

// majorJump returns the number of major releases between the current
// and the target version, or zero when either does not expose a
// numeric major component.
func majorJump(current, target string) int {
	from := releaseComponents(current)
	to := releaseComponents(target)
	if len(from) == 0 || len(to) == 0 {
		return 0
	}
	jump := to[0] - from[0]
	if jump < 0 {
		return -jump
	}
	return jump
}

// CompareVersions compares two version strings under the ecosystem's
// ordering rules.
func CompareVersions(ecosystem types.Ecosystem, a, b string) (int, error) {
	return newVersionCache().compare(ecosystem, a, b)
}

// MajorJump reports the distance between the major components of two
// versions.
func MajorJump(current, target string) int {
	return majorJump(current, target)
}

// IsPrerelease reports whether a version carries a pre-release marker
// under the ecosystem's conventions.
func IsPrerelease(ecosystem types.Ecosystem, version string) bool {
	return isPrerelease(ecosystem, version)
}

// prereleasePattern matches the PEP 440 pre-release and dev-release
// markers at the end of a version string.
var prereleasePattern = regexp.MustCompile(`(?i)[-._]?(a|b|c|rc|alpha|beta|pre|preview|dev)[-._]?\d*$`)

// isPrerelease reports whether the version string carries a
// pre-release marker. Debian versions signal pre-releases with a
// tilde component.
func isPrerelease(ecosystem types.Ecosystem, version string) bool {
	if ecosystem == types.EcosystemDebian {
		return strings.Contains(version, "~")
	}
	return prereleasePattern.MatchString(strings.TrimSpace(version))
}
