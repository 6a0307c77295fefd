package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"upgrade-guard/internal/adapters"
	"upgrade-guard/internal/policies"
	"upgrade-guard/internal/types"
)

func (s Service) Guard(ctx context.Context, req GuardRequest) (result GuardResult, err error) {
	started := s.now()
	defer func() { s.record("guard", started, err) }()

	if err := ctx.Err(); err != nil {
		return GuardResult{}, err
	}
	if strings.TrimSpace(req.ContractPath) == "" {
		return GuardResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("contract path is required")
	}
	if strings.TrimSpace(req.UpgradesPath) == "" {
		return GuardResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("upgrade plan path is required")
	}

	contract, _, err := s.loadContract(ctx, req.ContractPath)
	if err != nil {
		return GuardResult{}, err
	}
	upgrades, err := s.Inventory.LoadProposedUpgrades(req.UpgradesPath)
	if err != nil {
		return GuardResult{}, err
	}

	verdict := policies.EvaluateUpgrades(s.now(), contract, upgrades)
	if strings.TrimSpace(req.OutputDir) != "" {
		if err := adapters.NewOutputFileAdapter(req.OutputDir).WriteGuardVerdict(verdict); err != nil {
			return GuardResult{}, err
		}
	}
	return GuardResult{Verdict: verdict, OutputDir: req.OutputDir}, nil
}

// loadContract reads, validates and hashes a contract document.
func (s Service) loadContract(ctx context.Context, path string) (types.Contract, string, error) {
	contract, hash, err := s.Contracts.Load(path)
	if err != nil {
		return types.Contract{}, "", err
	}
	if err := policies.ValidateContract(ctx, contract); err != nil {
		return types.Contract{}, "", err
	}
	return contract, hash, nil
}
