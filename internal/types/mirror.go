package types

import "time"

// MirrorEntry is one artifact in the offline mirror's content index.
type MirrorEntry struct {
	Package      string    `yaml:"package"`
	Version      string    `yaml:"version"`
	Path         string    `yaml:"path"`
	SizeBytes    int64     `yaml:"size_bytes"`
	LastModified time.Time `yaml:"last_modified"`
}

// MirrorPackageInfo answers one (package, version) lookup against the
// mirror. Available means an artifact for the exact version exists;
// LastUpdated is the newest artifact time seen for the package at any
// version, nil when the mirror has never carried it.
type MirrorPackageInfo struct {
	Name        string     `yaml:"name"`
	Version     string     `yaml:"version"`
	Available   bool       `yaml:"available"`
	LastUpdated *time.Time `yaml:"last_updated,omitempty"`
}

type MirrorNeed struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	AgeDays int    `yaml:"age_days,omitempty"`
}

// MirrorPlan categorizes the recommended (package, version) pairs against
// the mirror: absent entries go to ToAdd, stale entries to ToUpdate.
// Packages carries the raw per-package lookup behind the buckets.
type MirrorPlan struct {
	GeneratedAt time.Time           `yaml:"generated_at"`
	Packages    []MirrorPackageInfo `yaml:"packages"`
	ToAdd       []MirrorNeed        `yaml:"to_add"`
	ToUpdate    []MirrorNeed        `yaml:"to_update"`
	Available   []MirrorNeed        `yaml:"available"`
	Summary     map[string]int      `yaml:"summary"`
}
