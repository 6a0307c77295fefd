package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"upgrade-guard/internal/app"
)

type mirrorStatusOptions struct {
	MirrorDir string
	Upgrades  string
	OutputDir string
	Sync      bool
}

func newMirrorStatusCommand() *cobra.Command {
	opts := mirrorStatusOptions{}
	cmd := &cobra.Command{
		Use:   "mirror-status",
		Short: "Compare an upgrade plan against the local mirror",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMirrorStatus(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.MirrorDir, "mirror-dir", "", "Local mirror directory")
	cmd.Flags().StringVar(&opts.Upgrades, "upgrades", "", "Upgrade plan path")
	cmd.Flags().StringVar(&opts.OutputDir, "output-dir", "", "Plan output directory")
	cmd.Flags().BoolVar(&opts.Sync, "sync", false, "Request a mirror sync for missing or stale artifacts")
	_ = viper.BindPFlag("mirror_dir", cmd.Flags().Lookup("mirror-dir"))
	_ = viper.BindPFlag("upgrades", cmd.Flags().Lookup("upgrades"))
	_ = viper.BindPFlag("output_dir", cmd.Flags().Lookup("output-dir"))
	_ = viper.BindPFlag("sync", cmd.Flags().Lookup("sync"))
	return cmd
}

func runMirrorStatus(ctx context.Context, cmd *cobra.Command, opts mirrorStatusOptions) error {
	service := newAppService()
	result, err := service.MirrorStatus(ctx, app.MirrorStatusRequest{
		MirrorDir:    resolveString(cmd, opts.MirrorDir, "mirror_dir", "mirror-dir"),
		UpgradesPath: resolveString(cmd, opts.Upgrades, "upgrades", "upgrades"),
		OutputDir:    resolveString(cmd, opts.OutputDir, "output_dir", "output-dir"),
		Sync:         resolveBool(cmd, opts.Sync, "sync", "sync"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("mirror: %d to add, %d to update, %d available\n",
		len(result.Plan.ToAdd), len(result.Plan.ToUpdate), len(result.Plan.Available))
	if result.SyncTriggered {
		fmt.Println("mirror: sync requested")
	}
	return nil
}
