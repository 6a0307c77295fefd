package cli

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"upgrade-guard/internal/app"
	"upgrade-guard/internal/types"
)

type guardOptions struct {
	Contract  string
	Upgrades  string
	OutputDir string
}

func newGuardCommand() *cobra.Command {
	opts := guardOptions{}
	cmd := &cobra.Command{
		Use:   "guard",
		Short: "Evaluate an upgrade plan against the contract",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGuard(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Contract, "contract", "", "Upgrade contract path")
	cmd.Flags().StringVar(&opts.Upgrades, "upgrades", "", "Upgrade plan path")
	cmd.Flags().StringVar(&opts.OutputDir, "output-dir", "", "Verdict output directory")
	_ = viper.BindPFlag("contract", cmd.Flags().Lookup("contract"))
	_ = viper.BindPFlag("upgrades", cmd.Flags().Lookup("upgrades"))
	_ = viper.BindPFlag("output_dir", cmd.Flags().Lookup("output-dir"))
	return cmd
}

func runGuard(ctx context.Context, cmd *cobra.Command, opts guardOptions) error {
	service := newAppService()
	result, err := service.Guard(ctx, app.GuardRequest{
		ContractPath: resolveString(cmd, opts.Contract, "contract", "contract"),
		UpgradesPath: resolveString(cmd, opts.Upgrades, "upgrades", "upgrades"),
		OutputDir:    resolveString(cmd, opts.OutputDir, "output_dir", "output-dir"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("guard: %s, %d violation(s), %d deferred\n",
		result.Verdict.Status, len(result.Verdict.Violations), len(result.Verdict.Deferred))
	switch result.Verdict.Status {
	case types.VerdictBlocked:
		return errbuilder.New().
			WithCode(errbuilder.CodePermissionDenied).
			WithMsg(fmt.Sprintf("guard verdict blocked: %d violation(s)", len(result.Verdict.Violations)))
	case types.VerdictNeedsReview:
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("guard verdict needs_review: %d violation(s)", len(result.Verdict.Violations)))
	}
	return nil
}
