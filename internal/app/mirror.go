package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"upgrade-guard/internal/adapters"
	"upgrade-guard/internal/core"
	"upgrade-guard/internal/types"
)

func (s Service) MirrorStatus(ctx context.Context, req MirrorStatusRequest) (result MirrorStatusResult, err error) {
	started := s.now()
	defer func() { s.record("mirror-status", started, err) }()

	if err := ctx.Err(); err != nil {
		return MirrorStatusResult{}, err
	}
	if strings.TrimSpace(req.MirrorDir) == "" {
		return MirrorStatusResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("mirror directory is required")
	}
	if strings.TrimSpace(req.UpgradesPath) == "" {
		return MirrorStatusResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("upgrade plan path is required")
	}

	upgrades, err := s.Inventory.LoadProposedUpgrades(req.UpgradesPath)
	if err != nil {
		return MirrorStatusResult{}, err
	}
	needed := make([]types.MirrorNeed, 0, len(upgrades))
	for _, upgrade := range upgrades {
		needed = append(needed, types.MirrorNeed{Name: upgrade.Package, Version: upgrade.TargetVersion})
	}

	mirror := adapters.NewMirrorDirAdapter(req.MirrorDir)
	entries, err := mirror.Scan()
	if err != nil {
		return MirrorStatusResult{}, err
	}

	plan := core.PlanMirror(s.now(), needed, entries)
	if strings.TrimSpace(req.OutputDir) != "" {
		if err := adapters.NewOutputFileAdapter(req.OutputDir).WriteMirrorPlan(plan); err != nil {
			return MirrorStatusResult{}, err
		}
	}

	triggered := false
	if req.Sync && len(plan.ToAdd)+len(plan.ToUpdate) > 0 {
		if err := mirror.TriggerSync(plan); err != nil {
			return MirrorStatusResult{}, err
		}
		triggered = true
	}
	return MirrorStatusResult{Plan: plan, SyncTriggered: triggered, OutputDir: req.OutputDir}, nil
}
