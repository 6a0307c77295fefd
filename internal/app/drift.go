package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"upgrade-guard/internal/adapters"
	"upgrade-guard/internal/core"
	"upgrade-guard/internal/types"
)

func (s Service) Drift(ctx context.Context, req DriftRequest) (result DriftResult, err error) {
	started := s.now()
	defer func() { s.record("drift", started, err) }()

	if err := ctx.Err(); err != nil {
		return DriftResult{}, err
	}
	if strings.TrimSpace(req.InventoryPath) == "" {
		return DriftResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("inventory path is required")
	}
	if strings.TrimSpace(req.OutputDir) == "" {
		return DriftResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is required")
	}

	refs, err := s.Inventory.LoadPackages(req.InventoryPath)
	if err != nil {
		return DriftResult{}, err
	}
	contract, err := s.loadOptionalContract(ctx, req.ContractPath)
	if err != nil {
		return DriftResult{}, err
	}

	report := core.AnalyzeDrift(s.now(), refs, contract)
	if err := adapters.NewOutputFileAdapter(req.OutputDir).WriteDriftReport(report); err != nil {
		return DriftResult{}, err
	}
	return DriftResult{Report: report, OutputDir: req.OutputDir}, nil
}

// loadOptionalContract loads and validates a contract when a path is
// given. An empty path means no contract constraints apply.
func (s Service) loadOptionalContract(ctx context.Context, path string) (*types.Contract, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	contract, _, err := s.loadContract(ctx, path)
	if err != nil {
		return nil, err
	}
	return &contract, nil
}
