package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"upgrade-guard/internal/adapters"
	"upgrade-guard/internal/app"
	"upgrade-guard/internal/types"
)

type executeOptions struct {
	Contract      string
	Upgrades      string
	CheckpointDir string
	OutputDir     string
	PipBinary     string
	BatchSize     int
	NoRollback    bool
	HealthCmds    []string
}

func newExecuteCommand() *cobra.Command {
	opts := executeOptions{}
	cmd := &cobra.Command{
		Use:   "execute-safe-upgrade",
		Short: "Apply a guarded upgrade plan with checkpoints and rollback",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExecute(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Contract, "contract", "", "Upgrade contract path")
	cmd.Flags().StringVar(&opts.Upgrades, "upgrades", "", "Upgrade plan path")
	cmd.Flags().StringVar(&opts.CheckpointDir, "checkpoint-dir", "", "Checkpoint storage directory")
	cmd.Flags().StringVar(&opts.OutputDir, "output-dir", "", "Report output directory")
	cmd.Flags().StringVar(&opts.PipBinary, "pip", "pip", "Pip-compatible installer binary")
	cmd.Flags().IntVar(&opts.BatchSize, "batch-size", 5, "Upgrades per checkpoint batch")
	cmd.Flags().BoolVar(&opts.NoRollback, "no-rollback", false, "Keep partial results instead of rolling back failed batches")
	cmd.Flags().StringSliceVar(&opts.HealthCmds, "health-check", nil, "Extra health check commands run after each batch")
	_ = viper.BindPFlag("contract", cmd.Flags().Lookup("contract"))
	_ = viper.BindPFlag("upgrades", cmd.Flags().Lookup("upgrades"))
	_ = viper.BindPFlag("checkpoint_dir", cmd.Flags().Lookup("checkpoint-dir"))
	_ = viper.BindPFlag("output_dir", cmd.Flags().Lookup("output-dir"))
	_ = viper.BindPFlag("pip", cmd.Flags().Lookup("pip"))
	_ = viper.BindPFlag("batch_size", cmd.Flags().Lookup("batch-size"))
	_ = viper.BindPFlag("no_rollback", cmd.Flags().Lookup("no-rollback"))
	return cmd
}

func runExecute(ctx context.Context, cmd *cobra.Command, opts executeOptions) error {
	service := newAppService()
	pip := resolveString(cmd, opts.PipBinary, "pip", "pip")
	if pip == "" {
		pip = "pip"
	}
	if err := service.Health.Register("pip-check", adapters.NewExecHealthCheck(pip, []string{"check"}, time.Minute)); err != nil {
		return err
	}
	for i, health := range opts.HealthCmds {
		name := fmt.Sprintf("custom-%d", i+1)
		if err := service.Health.Register(name, adapters.NewExecHealthCheck("sh", []string{"-c", health}, time.Minute)); err != nil {
			return err
		}
	}

	result, err := service.ExecuteSafeUpgrade(ctx, app.ExecuteRequest{
		ContractPath:  resolveString(cmd, opts.Contract, "contract", "contract"),
		UpgradesPath:  resolveString(cmd, opts.Upgrades, "upgrades", "upgrades"),
		CheckpointDir: resolveString(cmd, opts.CheckpointDir, "checkpoint_dir", "checkpoint-dir"),
		OutputDir:     resolveString(cmd, opts.OutputDir, "output_dir", "output-dir"),
		PipBinary:     pip,
		BatchSize:     resolveInt(cmd, opts.BatchSize, "batch_size", "batch-size"),
		NoRollback:    resolveBool(cmd, opts.NoRollback, "no_rollback", "no-rollback"),
	})
	if err != nil {
		return err
	}

	report := result.Report
	fmt.Printf("execute: %s, %d/%d upgraded in %d batch(es), report in %s\n",
		report.FinalStatus, report.Summary.Successful, report.Summary.Total,
		report.Summary.Batches, result.OutputDir)
	if len(result.HeldForReview) > 0 {
		fmt.Printf("execute: held for review: %s\n", strings.Join(result.HeldForReview, ", "))
	}
	if report.FinalStatus != types.StatusCompleted {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("execution finished %s", report.FinalStatus))
	}
	return nil
}
