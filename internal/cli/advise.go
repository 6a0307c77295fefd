package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"upgrade-guard/internal/app"
)

type adviseOptions struct {
	Inventory     string
	Metadata      string
	Contract      string
	MirrorDir     string
	OutputDir     string
	Conservative  bool
	SecurityFirst bool
}

func newAdviseCommand() *cobra.Command {
	opts := adviseOptions{}
	cmd := &cobra.Command{
		Use:   "advise",
		Short: "Recommend upgrades with confidence scores and auto-apply decisions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAdvise(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Inventory, "inventory", "", "Installed package inventory path")
	cmd.Flags().StringVar(&opts.Metadata, "metadata", "", "Package metadata path")
	cmd.Flags().StringVar(&opts.Contract, "contract", "", "Upgrade contract path")
	cmd.Flags().StringVar(&opts.MirrorDir, "mirror-dir", "", "Local mirror directory")
	cmd.Flags().StringVar(&opts.OutputDir, "output-dir", "", "Report output directory")
	cmd.Flags().BoolVar(&opts.Conservative, "conservative", false, "Raise the auto-apply confidence bar")
	cmd.Flags().BoolVar(&opts.SecurityFirst, "security-first", false, "Promote security-flagged packages to critical priority")
	_ = viper.BindPFlag("inventory", cmd.Flags().Lookup("inventory"))
	_ = viper.BindPFlag("metadata", cmd.Flags().Lookup("metadata"))
	_ = viper.BindPFlag("contract", cmd.Flags().Lookup("contract"))
	_ = viper.BindPFlag("mirror_dir", cmd.Flags().Lookup("mirror-dir"))
	_ = viper.BindPFlag("output_dir", cmd.Flags().Lookup("output-dir"))
	_ = viper.BindPFlag("conservative", cmd.Flags().Lookup("conservative"))
	_ = viper.BindPFlag("security_first", cmd.Flags().Lookup("security-first"))
	return cmd
}

func runAdvise(ctx context.Context, cmd *cobra.Command, opts adviseOptions) error {
	service := newAppService()
	result, err := service.Advise(ctx, app.AdviseRequest{
		InventoryPath: resolveString(cmd, opts.Inventory, "inventory", "inventory"),
		MetadataPath:  resolveString(cmd, opts.Metadata, "metadata", "metadata"),
		ContractPath:  resolveString(cmd, opts.Contract, "contract", "contract"),
		MirrorDir:     resolveString(cmd, opts.MirrorDir, "mirror_dir", "mirror-dir"),
		OutputDir:     resolveString(cmd, opts.OutputDir, "output_dir", "output-dir"),
		Conservative:  resolveBool(cmd, opts.Conservative, "conservative", "conservative"),
		SecurityFirst: resolveBool(cmd, opts.SecurityFirst, "security_first", "security-first"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("advise: %d recommendation(s), %d safe to auto-apply, report in %s\n",
		len(result.Report.Recommendations), len(result.Report.SafeToAutoApply), result.OutputDir)
	return nil
}
