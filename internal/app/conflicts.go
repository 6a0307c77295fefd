package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"upgrade-guard/internal/adapters"
	"upgrade-guard/internal/core"
)

func (s Service) ResolveConflicts(ctx context.Context, req ResolveConflictsRequest) (result ResolveConflictsResult, err error) {
	started := s.now()
	defer func() { s.record("resolve-conflicts", started, err) }()

	if err := ctx.Err(); err != nil {
		return ResolveConflictsResult{}, err
	}
	if strings.TrimSpace(req.SpecPath) == "" {
		return ResolveConflictsResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("dependency spec path is required")
	}
	if strings.TrimSpace(req.OutputDir) == "" {
		return ResolveConflictsResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is required")
	}

	spec, err := s.Inventory.LoadDependencySpec(req.SpecPath)
	if err != nil {
		return ResolveConflictsResult{}, err
	}

	resolver := core.Resolver{Conservative: req.Conservative}
	report := resolver.Resolve(s.now(), spec)
	if err := adapters.NewOutputFileAdapter(req.OutputDir).WriteConflictReport(report); err != nil {
		return ResolveConflictsResult{}, err
	}
	return ResolveConflictsResult{Report: report, OutputDir: req.OutputDir}, nil
}
