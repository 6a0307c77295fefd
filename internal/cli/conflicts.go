package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"upgrade-guard/internal/app"
)

type resolveConflictsOptions struct {
	Spec         string
	OutputDir    string
	Conservative bool
}

func newResolveConflictsCommand() *cobra.Command {
	opts := resolveConflictsOptions{}
	cmd := &cobra.Command{
		Use:   "resolve-conflicts",
		Short: "Detect dependency conflicts and suggest resolutions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runResolveConflicts(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Spec, "spec", "", "Dependency spec path")
	cmd.Flags().StringVar(&opts.OutputDir, "output-dir", "", "Report output directory")
	cmd.Flags().BoolVar(&opts.Conservative, "conservative", false, "Suppress destructive resolution suggestions")
	_ = viper.BindPFlag("spec", cmd.Flags().Lookup("spec"))
	_ = viper.BindPFlag("output_dir", cmd.Flags().Lookup("output-dir"))
	_ = viper.BindPFlag("conservative", cmd.Flags().Lookup("conservative"))
	return cmd
}

func runResolveConflicts(ctx context.Context, cmd *cobra.Command, opts resolveConflictsOptions) error {
	service := newAppService()
	result, err := service.ResolveConflicts(ctx, app.ResolveConflictsRequest{
		SpecPath:     resolveString(cmd, opts.Spec, "spec", "spec"),
		OutputDir:    resolveString(cmd, opts.OutputDir, "output_dir", "output-dir"),
		Conservative: resolveBool(cmd, opts.Conservative, "conservative", "conservative"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("conflicts: %d found, %d auto-resolvable, report in %s\n",
		len(result.Report.Conflicts), result.Report.AutoResolvableCount, result.OutputDir)
	return nil
}
