package types

import "time"

// PackageRef describes one installed package together with the upstream
// versions currently published for it. AvailableVersions is expected to be
// ascending and free of duplicates; the drift analyzer relies on the last
// entry being the newest release.
type PackageRef struct {
	Name              string    `yaml:"name"`
	Ecosystem         Ecosystem `yaml:"ecosystem"`
	CurrentVersion    string    `yaml:"current_version"`
	AvailableVersions []string  `yaml:"available_versions"`
}

// PackageMetadata carries advisory signals consulted by the upgrade
// advisor. All fields are optional; the zero value means "no signal".
type PackageMetadata struct {
	SecurityFlagged bool     `yaml:"security_flagged"`
	Advisories      []string `yaml:"advisories"`
	DownloadCount   int64    `yaml:"download_count"`
	VersionAgeDays  int      `yaml:"version_age_days"`
}

type DriftRecord struct {
	Package        string        `yaml:"package"`
	Ecosystem      Ecosystem     `yaml:"ecosystem"`
	CurrentVersion string        `yaml:"current_version"`
	LatestVersion  string        `yaml:"latest_version"`
	Severity       DriftSeverity `yaml:"severity"`
	Notes          []string      `yaml:"notes,omitempty"`
}

// DriftReport aggregates per-package drift. Packages is sorted by name and
// Severity is the worst severity across all packages.
type DriftReport struct {
	GeneratedAt time.Time     `yaml:"generated_at"`
	Packages    []DriftRecord `yaml:"packages"`
	Severity    DriftSeverity `yaml:"severity"`
	Notes       []string      `yaml:"notes,omitempty"`
}
