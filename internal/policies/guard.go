// Package policies holds the contract evaluation rules that decide
// whether proposed upgrades may proceed.
package policies

import (
	"context"
	"fmt"
	"sort"
	"time"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"

	"upgrade-guard/internal/core"
	"upgrade-guard/internal/types"
)

const (
	RuleDenylist       = "denylist"
	RuleVersionBounds  = "version_bounds"
	RuleBlockedVersion = "blocked_version"
	RulePrerelease     = "prerelease"
	RuleSignature      = "signature"
	RuleMajorJump      = "major_jump"
	RuleRequiresReview = "requires_review"
	RuleSnoozeExpired  = "snooze_expired"
	RuleDefaultDenied  = "default_denied"
)

// ValidateContract checks the structural invariants of a contract
// document before it is used for evaluation.
func ValidateContract(ctx context.Context, contract types.Contract) error {
	assert.NotEmpty(ctx, contract.APIVersion, "api_version must be set")
	if contract.APIVersion != "v1" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported contract api_version: %s", contract.APIVersion))
	}
	if t := contract.Policy.ConfidenceThreshold; t < 0 || t > 1 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("policy.confidence_threshold must be within [0, 1]")
	}
	if t := contract.Policy.ConservativeThreshold; t < 0 || t > 1 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("policy.conservative_threshold must be within [0, 1]")
	}
	for _, rule := range contract.Allowlist {
		if rule.Name == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("allowlist entries must name a package")
		}
		if t := rule.ConfidenceThreshold; t < 0 || t > 1 {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("allowlist rule for %s has a confidence threshold outside [0, 1]", rule.Name))
		}
	}
	for _, rule := range contract.Denylist {
		if rule.Name == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("denylist entries must name a package")
		}
	}
	for _, snooze := range contract.Snoozes {
		if snooze.Package == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("snooze %s must name a package", snooze.ID))
		}
		if snooze.Approver == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodePermissionDenied).
				WithMsg(fmt.Sprintf("snooze %s for %s lacks an approver", snooze.ID, snooze.Package))
		}
		if _, err := parseExpiry(snooze.ExpiresAt); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("snooze %s has an unparseable expiry %q", snooze.ID, snooze.ExpiresAt)).
				WithCause(err)
		}
	}
	return nil
}

// EvaluateUpgrades grades every proposed upgrade against the contract
// and folds the results into a single verdict. Packages covered by an
// active snooze are deferred and do not affect the overall status.
func EvaluateUpgrades(now time.Time, contract types.Contract, upgrades []types.ProposedUpgrade) types.GuardVerdict {
	verdict := types.GuardVerdict{
		GeneratedAt: now.UTC(),
		Status:      types.VerdictSafe,
	}
	for _, upgrade := range upgrades {
		status, violations := evaluateOne(now, contract, upgrade)
		if status == "" {
			verdict.Deferred = append(verdict.Deferred, upgrade.Package)
			continue
		}
		verdict.Status = types.WorseVerdict(verdict.Status, status)
		verdict.Violations = append(verdict.Violations, violations...)
	}
	sort.Slice(verdict.Violations, func(i, j int) bool {
		if verdict.Violations[i].Package != verdict.Violations[j].Package {
			return verdict.Violations[i].Package < verdict.Violations[j].Package
		}
		return verdict.Violations[i].Rule < verdict.Violations[j].Rule
	})
	sort.Strings(verdict.Deferred)
	return verdict
}

// evaluateOne returns the per-package status and its violations. An
// empty status means the package is deferred by an active snooze.
// Denylist hits block before snoozes are consulted, so a snooze can
// never defer a denylisted package.
func evaluateOne(now time.Time, contract types.Contract, upgrade types.ProposedUpgrade) (types.VerdictStatus, []types.Violation) {
	violations := blockingViolations(contract, upgrade)
	reviews := reviewViolations(contract, upgrade)

	if len(violations) == 0 && len(reviews) == 0 {
		return types.VerdictSafe, nil
	}
	for _, violation := range violations {
		if violation.Rule == RuleDenylist {
			return types.VerdictBlocked, append(violations, reviews...)
		}
	}

	snooze, active, expired := snoozeFor(now, contract, upgrade.Package)
	if active {
		violations = withoutRule(violations, snooze.Rule)
		reviews = withoutRule(reviews, snooze.Rule)
		if len(violations) == 0 && len(reviews) == 0 {
			return "", nil
		}
	}
	if expired {
		reviews = append(reviews, types.Violation{
			Package: upgrade.Package,
			Rule:    RuleSnoozeExpired,
			Detail:  fmt.Sprintf("snooze %s expired %s", snooze.ID, snooze.ExpiresAt),
		})
	}

	if len(violations) > 0 {
		return types.VerdictBlocked, append(violations, reviews...)
	}
	return types.VerdictNeedsReview, reviews
}

// blockingViolations collects the rules whose breach blocks the
// upgrade outright.
func blockingViolations(contract types.Contract, upgrade types.ProposedUpgrade) []types.Violation {
	violations := make([]types.Violation, 0, 2)
	if deny, ok := contract.Denied(upgrade.Package); ok {
		detail := "package is denylisted"
		if deny.Reason != "" {
			detail = fmt.Sprintf("package is denylisted: %s", deny.Reason)
		}
		violations = append(violations, types.Violation{Package: upgrade.Package, Rule: RuleDenylist, Detail: detail})
	}

	rule, ruled := contract.Rule(upgrade.Package)
	if !ruled && !contract.Policy.DefaultAllowed {
		violations = append(violations, types.Violation{
			Package: upgrade.Package,
			Rule:    RuleDefaultDenied,
			Detail:  "package has no allowlist entry and the contract does not allow by default",
		})
	}
	if ruled {
		violations = append(violations, boundViolations(rule, upgrade)...)
	}

	if !contract.Policy.AllowPrereleases && core.IsPrerelease(upgrade.Ecosystem, upgrade.TargetVersion) {
		violations = append(violations, types.Violation{
			Package: upgrade.Package,
			Rule:    RulePrerelease,
			Detail:  fmt.Sprintf("target version %s is a pre-release", upgrade.TargetVersion),
		})
	}

	if signatureRequired(contract.Signatures, upgrade.Package) && !upgrade.Signed {
		violations = append(violations, types.Violation{
			Package: upgrade.Package,
			Rule:    RuleSignature,
			Detail:  "artifact signature is required but missing",
		})
	}
	return violations
}

func boundViolations(rule types.PackageRule, upgrade types.ProposedUpgrade) []types.Violation {
	violations := make([]types.Violation, 0, 1)
	for _, blocked := range rule.BlockedVersions {
		if blocked == upgrade.TargetVersion {
			violations = append(violations, types.Violation{
				Package: upgrade.Package,
				Rule:    RuleBlockedVersion,
				Detail:  fmt.Sprintf("version %s is explicitly blocked", upgrade.TargetVersion),
			})
		}
	}
	if rule.Ceiling != "" {
		if cmp, err := core.CompareVersions(upgrade.Ecosystem, upgrade.TargetVersion, rule.Ceiling); err != nil || cmp > 0 {
			violations = append(violations, types.Violation{
				Package: upgrade.Package,
				Rule:    RuleVersionBounds,
				Detail:  fmt.Sprintf("target %s exceeds ceiling %s", upgrade.TargetVersion, rule.Ceiling),
			})
		}
	}
	if rule.Floor != "" {
		if cmp, err := core.CompareVersions(upgrade.Ecosystem, upgrade.TargetVersion, rule.Floor); err != nil || cmp < 0 {
			violations = append(violations, types.Violation{
				Package: upgrade.Package,
				Rule:    RuleVersionBounds,
				Detail:  fmt.Sprintf("target %s is below floor %s", upgrade.TargetVersion, rule.Floor),
			})
		}
	}
	return violations
}

// reviewViolations collects the rules whose breach demands human
// review rather than an outright block.
func reviewViolations(contract types.Contract, upgrade types.ProposedUpgrade) []types.Violation {
	violations := make([]types.Violation, 0, 1)
	if rule, ok := contract.Rule(upgrade.Package); ok && rule.RequiresReview {
		detail := "contract marks this package as requiring review"
		if rule.Reason != "" {
			detail = fmt.Sprintf("contract marks this package as requiring review: %s", rule.Reason)
		}
		violations = append(violations, types.Violation{Package: upgrade.Package, Rule: RuleRequiresReview, Detail: detail})
	}
	maxJump := contract.Policy.MaxMajorJump
	if maxJump <= 0 {
		maxJump = 1
	}
	if jump := core.MajorJump(upgrade.CurrentVersion, upgrade.TargetVersion); jump > maxJump {
		violations = append(violations, types.Violation{
			Package: upgrade.Package,
			Rule:    RuleMajorJump,
			Detail:  fmt.Sprintf("upgrade crosses %d major versions, contract allows %d", jump, maxJump),
		})
	}
	return violations
}

// snoozeFor finds the snooze covering a package. active is true while
// the snooze has not expired; expired is true when one existed but has
// lapsed.
func snoozeFor(now time.Time, contract types.Contract, name string) (types.Snooze, bool, bool) {
	for _, snooze := range contract.Snoozes {
		if snooze.Package != name {
			continue
		}
		expiry, err := parseExpiry(snooze.ExpiresAt)
		if err != nil {
			continue
		}
		if now.Before(expiry) {
			return snooze, true, false
		}
		return snooze, false, true
	}
	return types.Snooze{}, false, false
}

// withoutRule drops the violations a snooze covers. A snooze without a
// rule covers every violation for its package.
func withoutRule(violations []types.Violation, rule string) []types.Violation {
	if rule == "" {
		return nil
	}
	kept := violations[:0]
	for _, violation := range violations {
		if violation.Rule != rule {
			kept = append(kept, violation)
		}
	}
	return kept
}

func signatureRequired(policy types.SignaturePolicy, name string) bool {
	if !policy.Required {
		return false
	}
	if len(policy.Enforced) == 0 {
		return true
	}
	for _, enforced := range policy.Enforced {
		if enforced == name {
			return true
		}
	}
	return false
}

func parseExpiry(value string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}
