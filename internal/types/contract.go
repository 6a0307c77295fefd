package types

// Contract is the declarative policy document governing which upgrades are
// permitted. It is loaded once per run and never mutated.
type Contract struct {
	APIVersion string           `yaml:"api_version"`
	Metadata   ContractMetadata `yaml:"metadata"`
	Policy     ContractPolicy   `yaml:"policy"`
	Allowlist  []PackageRule    `yaml:"allowlist,omitempty"`
	Denylist   []DenyRule       `yaml:"denylist,omitempty"`
	Snoozes    []Snooze         `yaml:"snoozes,omitempty"`
	Signatures SignaturePolicy  `yaml:"signatures,omitempty"`
}

type ContractMetadata struct {
	Name   string   `yaml:"name"`
	Owners []string `yaml:"owners"`
}

// ContractPolicy holds contract-wide defaults. ConfidenceThreshold and
// ConservativeThreshold gate auto-apply; a per-package override on a
// PackageRule takes precedence over both.
type ContractPolicy struct {
	DefaultAllowed        bool    `yaml:"default_allowed"`
	ConfidenceThreshold   float64 `yaml:"confidence_threshold"`
	ConservativeThreshold float64 `yaml:"conservative_threshold"`
	MaxMajorJump          int     `yaml:"max_major_jump"`
	AllowPrereleases      bool    `yaml:"allow_prereleases"`
}

// PackageRule is a per-package allowlist entry. Ceiling and Floor are
// inclusive version bounds; an empty string means unbounded. Blocked pins
// name exact versions that must never be installed.
type PackageRule struct {
	Name                string   `yaml:"name"`
	Ceiling             string   `yaml:"ceiling,omitempty"`
	Floor               string   `yaml:"floor,omitempty"`
	AllowedVersions     []string `yaml:"allowed_versions,omitempty"`
	BlockedVersions     []string `yaml:"blocked_versions,omitempty"`
	RequiresReview      bool     `yaml:"requires_review,omitempty"`
	ConfidenceThreshold float64  `yaml:"confidence_threshold,omitempty"`
	Reason              string   `yaml:"reason,omitempty"`
}

type DenyRule struct {
	Name   string `yaml:"name"`
	Reason string `yaml:"reason,omitempty"`
}

// Snooze is a time-boxed exception letting a package bypass one rule until
// ExpiresAt. Expired snoozes no longer defer the package; they downgrade it
// to needs-review instead.
type Snooze struct {
	ID          string `yaml:"id"`
	Package     string `yaml:"package"`
	Rule        string `yaml:"rule,omitempty"`
	Reason      string `yaml:"reason,omitempty"`
	RequestedBy string `yaml:"requested_by,omitempty"`
	Approver    string `yaml:"approver,omitempty"`
	ExpiresAt   string `yaml:"expires_at"`
}

type SignaturePolicy struct {
	Required bool     `yaml:"required"`
	Keyring  string   `yaml:"keyring,omitempty"`
	Enforced []string `yaml:"enforced,omitempty"`
}

// DefaultContract returns the policy defaults applied when a contract omits
// the policy section entirely.
func DefaultContract() Contract {
	return Contract{
		APIVersion: "v1",
		Policy: ContractPolicy{
			DefaultAllowed:        true,
			ConfidenceThreshold:   0.65,
			ConservativeThreshold: 0.75,
			MaxMajorJump:          1,
		},
	}
}

// Rule returns the allowlist rule for a package, if any.
func (c Contract) Rule(name string) (PackageRule, bool) {
	for _, rule := range c.Allowlist {
		if rule.Name == name {
			return rule, true
		}
	}
	return PackageRule{}, false
}

// Denied returns the denylist entry for a package, if any.
func (c Contract) Denied(name string) (DenyRule, bool) {
	for _, rule := range c.Denylist {
		if rule.Name == name {
			return rule, true
		}
	}
	return DenyRule{}, false
}

// ThresholdFor resolves the auto-apply confidence threshold for a package:
// per-package override first, then the conservative or default contract
// threshold.
func (c Contract) ThresholdFor(name string, conservative bool) float64 {
	if rule, ok := c.Rule(name); ok && rule.ConfidenceThreshold > 0 {
		return rule.ConfidenceThreshold
	}
	if conservative {
		if c.Policy.ConservativeThreshold > 0 {
			return c.Policy.ConservativeThreshold
		}
		return 0.75
	}
	if c.Policy.ConfidenceThreshold > 0 {
		return c.Policy.ConfidenceThreshold
	}
	return 0.65
}
