package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"upgrade-guard/internal/adapters"
	"upgrade-guard/internal/core"
	"upgrade-guard/internal/policies"
	"upgrade-guard/internal/ports"
	"upgrade-guard/internal/types"
)

// ExecuteSafeUpgrade runs the full guarded pipeline for an upgrade
// plan: contract evaluation first, then batched application with
// checkpoints. Blocked or review-needing plans never reach the package
// manager.
func (s Service) ExecuteSafeUpgrade(ctx context.Context, req ExecuteRequest) (result ExecuteResult, err error) {
	started := s.now()
	defer func() { s.record("execute-safe-upgrade", started, err) }()

	if err := ctx.Err(); err != nil {
		return ExecuteResult{}, err
	}
	for _, check := range []struct {
		value string
		msg   string
	}{
		{req.ContractPath, "contract path is required"},
		{req.UpgradesPath, "upgrade plan path is required"},
		{req.CheckpointDir, "checkpoint directory is required"},
		{req.OutputDir, "output directory is required"},
	} {
		if strings.TrimSpace(check.value) == "" {
			return ExecuteResult{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(check.msg)
		}
	}

	contract, contractHash, err := s.loadContract(ctx, req.ContractPath)
	if err != nil {
		return ExecuteResult{}, err
	}
	upgrades, err := s.Inventory.LoadProposedUpgrades(req.UpgradesPath)
	if err != nil {
		return ExecuteResult{}, err
	}

	verdict := policies.EvaluateUpgrades(s.now(), contract, upgrades)
	switch verdict.Status {
	case types.VerdictBlocked:
		return ExecuteResult{}, errbuilder.New().
			WithCode(errbuilder.CodePermissionDenied).
			WithMsg(fmt.Sprintf("guard verdict blocked: %d violation(s)", len(verdict.Violations)))
	case types.VerdictNeedsReview:
		return ExecuteResult{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("guard verdict needs_review: %d violation(s)", len(verdict.Violations)))
	}

	requests, held := executableRequests(contract, upgrades, verdict.Deferred)
	if len(requests) == 0 {
		return ExecuteResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("no upgrade in the plan is safe to auto-apply")
	}

	executor := &core.Executor{
		Manager:      s.manager(req.PipBinary),
		Checkpoints:  s.checkpoints(req.CheckpointDir),
		Health:       s.Health,
		BatchSize:    req.BatchSize,
		AutoRollback: !req.NoRollback,
		Clock:        s.Clock,
	}
	report, err := executor.Execute(ctx, requests, contractHash)
	if err != nil {
		return ExecuteResult{}, err
	}
	if err := adapters.NewOutputFileAdapter(req.OutputDir).WriteExecutionReport(report); err != nil {
		return ExecuteResult{}, err
	}
	return ExecuteResult{Report: report, HeldForReview: held, OutputDir: req.OutputDir}, nil
}

// executableRequests narrows the plan to what the executor may touch:
// snooze-deferred packages are dropped first, then every remaining
// entry must pass the advisor's auto-apply gate. Held names come back
// for reporting.
func executableRequests(contract types.Contract, upgrades []types.ProposedUpgrade, deferred []string) ([]types.UpgradeRequest, []string) {
	skip := make(map[string]struct{}, len(deferred))
	for _, name := range deferred {
		skip[name] = struct{}{}
	}
	remaining := make([]types.ProposedUpgrade, 0, len(upgrades))
	for _, upgrade := range upgrades {
		if _, ok := skip[upgrade.Package]; ok {
			continue
		}
		remaining = append(remaining, upgrade)
	}

	safe, held := core.Advisor{}.FilterAutoApply(&contract, remaining)
	requests := make([]types.UpgradeRequest, 0, len(safe))
	for _, upgrade := range safe {
		requests = append(requests, types.UpgradeRequest{
			Package:       upgrade.Package,
			TargetVersion: upgrade.TargetVersion,
		})
	}
	return requests, held
}

func (s Service) manager(binary string) ports.PackageManagerPort {
	if s.Manager != nil {
		return s.Manager
	}
	return adapters.NewPipExecAdapter(binary, 2*time.Minute)
}

func (s Service) checkpoints(dir string) ports.CheckpointStorePort {
	if s.Checkpoints != nil {
		return s.Checkpoints
	}
	return adapters.NewCheckpointDirAdapter(dir)
}
