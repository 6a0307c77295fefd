package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"upgrade-guard/internal/app"
)

type driftOptions struct {
	Inventory string
	Contract  string
	OutputDir string
}

func newDriftCommand() *cobra.Command {
	opts := driftOptions{}
	cmd := &cobra.Command{
		Use:   "drift",
		Short: "Classify how far installed packages drift from available versions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDrift(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Inventory, "inventory", "", "Installed package inventory path")
	cmd.Flags().StringVar(&opts.Contract, "contract", "", "Upgrade contract path")
	cmd.Flags().StringVar(&opts.OutputDir, "output-dir", "", "Report output directory")
	_ = viper.BindPFlag("inventory", cmd.Flags().Lookup("inventory"))
	_ = viper.BindPFlag("contract", cmd.Flags().Lookup("contract"))
	_ = viper.BindPFlag("output_dir", cmd.Flags().Lookup("output-dir"))
	return cmd
}

func runDrift(ctx context.Context, cmd *cobra.Command, opts driftOptions) error {
	service := newAppService()
	result, err := service.Drift(ctx, app.DriftRequest{
		InventoryPath: resolveString(cmd, opts.Inventory, "inventory", "inventory"),
		ContractPath:  resolveString(cmd, opts.Contract, "contract", "contract"),
		OutputDir:     resolveString(cmd, opts.OutputDir, "output_dir", "output-dir"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("drift: %s across %d package(s), report in %s\n",
		result.Report.Severity, len(result.Report.Packages), result.OutputDir)
	return nil
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetString(key)
}

func resolveBool(cmd *cobra.Command, value bool, key string, flagName string) bool {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetBool(key)
}

func resolveInt(cmd *cobra.Command, value int, key string, flagName string) int {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetInt(key)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}
