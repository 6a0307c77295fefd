package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"upgrade-guard/internal/adapters"
	"upgrade-guard/internal/core"
	"upgrade-guard/internal/types"
)

func (s Service) Advise(ctx context.Context, req AdviseRequest) (result AdviseResult, err error) {
	started := s.now()
	defer func() { s.record("advise", started, err) }()

	if err := ctx.Err(); err != nil {
		return AdviseResult{}, err
	}
	if strings.TrimSpace(req.InventoryPath) == "" {
		return AdviseResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("inventory path is required")
	}
	if strings.TrimSpace(req.OutputDir) == "" {
		return AdviseResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is required")
	}

	refs, err := s.Inventory.LoadPackages(req.InventoryPath)
	if err != nil {
		return AdviseResult{}, err
	}
	contract, err := s.loadOptionalContract(ctx, req.ContractPath)
	if err != nil {
		return AdviseResult{}, err
	}

	metadata := map[string]types.PackageMetadata{}
	if strings.TrimSpace(req.MetadataPath) != "" {
		metadata, err = s.Inventory.LoadMetadata(req.MetadataPath)
		if err != nil {
			return AdviseResult{}, err
		}
	}

	mirrored := map[string]bool{}
	if strings.TrimSpace(req.MirrorDir) != "" {
		entries, err := adapters.NewMirrorDirAdapter(req.MirrorDir).Scan()
		if err != nil {
			return AdviseResult{}, err
		}
		for _, entry := range entries {
			mirrored[entry.Package+"@"+entry.Version] = true
		}
	}

	advisor := core.Advisor{Conservative: req.Conservative, SecurityFirst: req.SecurityFirst}
	report := advisor.Advise(s.now(), core.AdviceInput{
		Drift:    core.AnalyzeDrift(s.now(), refs, contract),
		Metadata: metadata,
		Mirrored: mirrored,
		Contract: contract,
	})
	if err := adapters.NewOutputFileAdapter(req.OutputDir).WriteAdviceReport(report); err != nil {
		return AdviseResult{}, err
	}
	return AdviseResult{Report: report, OutputDir: req.OutputDir}, nil
}
