package core

import (
	"context"
	"fmt"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"upgrade-guard/internal/ports"
	"upgrade-guard/internal/shared"
	"upgrade-guard/internal/types"
)

const (
	defaultBatchSize       = 5
	defaultKeepCheckpoints = 10
)

// Executor applies approved upgrades in small batches, taking a lock
// checkpoint before each batch and rolling back when a batch fails.
type Executor struct {
	Manager     ports.PackageManagerPort
	Checkpoints ports.CheckpointStorePort
	Health      *HealthRegistry

	// BatchSize caps how many upgrades share one checkpoint. Zero
	// means the default of five.
	BatchSize int
	// AutoRollback restores the pre-batch lock when any upgrade or
	// health check in the batch fails.
	AutoRollback bool
	// KeepCheckpoints bounds checkpoint storage, oldest pruned first.
	KeepCheckpoints int

	Clock func() time.Time
}

// Execute runs the requested upgrades batch by batch. Batches are
// strictly sequential: a batch only starts after the previous one has
// been committed. Infrastructure failures (snapshot, checkpoint
// storage, rollback) surface as errors; upgrade and health failures
// are recorded in the report instead.
func (e *Executor) Execute(ctx context.Context, requests []types.UpgradeRequest, contractHash string) (types.ExecutionReport, error) {
	if len(requests) == 0 {
		return types.ExecutionReport{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("no upgrades requested")
	}

	now := e.now()
	report := types.ExecutionReport{
		StartedAt:   now,
		FinalStatus: types.StatusCompleted,
		Summary:     types.ExecutionSummary{Total: len(requests)},
	}

	committed := 0
	for _, batch := range splitBatches(requests, e.batchSize()) {
		report.Summary.Batches++

		lock, err := e.Manager.SnapshotLock(ctx)
		if err != nil {
			return report, errbuilder.New().
				WithCode(errbuilder.CodeUnavailable).
				WithMsg("lock snapshot failed, aborting before any mutation").
				WithCause(err)
		}
		checkpoint := types.Checkpoint{
			ID:           checkpointID(lock, contractHash, e.now()),
			CreatedAt:    e.now(),
			ContractHash: contractHash,
		}
		if err := e.Checkpoints.Save(checkpoint, lock); err != nil {
			return report, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("checkpoint storage failed, aborting before any mutation").
				WithCause(err)
		}
		report.Checkpoints = append(report.Checkpoints, checkpoint)

		attempts, batchErr := e.applyBatch(ctx, batch)
		report.Upgrades = append(report.Upgrades, attempts...)
		if batchErr == nil && e.Health != nil {
			batchErr = e.Health.RunAll(ctx)
		}

		if batchErr != nil {
			log.Warn().Err(batchErr).Str("checkpoint", checkpoint.ID).Msg("batch failed")
			if !e.AutoRollback {
				report.FinalStatus = types.StatusPartiallyCompleted
				for _, attempt := range attempts {
					if attempt.Success {
						report.Summary.Successful++
					}
				}
				continue
			}
			if err := e.Manager.RestoreLock(ctx, lock); err != nil {
				report.FinalStatus = types.StatusPartiallyCompleted
				return report, errbuilder.New().
					WithCode(errbuilder.CodeInternal).
					WithMsg(fmt.Sprintf("rollback to checkpoint %s failed, system state is inconsistent", checkpoint.ID)).
					WithCause(err)
			}
			report.RollbackPerformed = true
			if committed > 0 {
				report.FinalStatus = types.StatusPartiallyCompleted
			} else {
				report.FinalStatus = types.StatusRolledBack
			}
			break
		}

		committed += len(batch)
		report.Summary.Successful += len(batch)
	}

	report.Summary.Failed = report.Summary.Total - report.Summary.Successful
	report.CompletedAt = e.now()
	if err := e.Checkpoints.Prune(e.keepCheckpoints()); err != nil {
		log.Warn().Err(err).Msg("checkpoint pruning failed")
	}
	return report, nil
}

// applyBatch upgrades each package in turn, best-effort: one failure
// does not stop the batch, every package gets exactly one attempt, and
// the first error marks the whole batch failed.
func (e *Executor) applyBatch(ctx context.Context, batch []types.UpgradeRequest) ([]types.UpgradeAttempt, error) {
	attempts := make([]types.UpgradeAttempt, 0, len(batch))
	var batchErr error
	for _, request := range batch {
		started := e.now()
		attempt := types.UpgradeAttempt{Package: request.Package}
		if previous, err := e.Manager.InstalledVersion(ctx, request.Package); err == nil {
			attempt.PreviousVersion = previous
		}

		err := e.Manager.Upgrade(ctx, request.Package, request.TargetVersion)
		attempt.DurationMS = e.now().Sub(started).Milliseconds()
		if err != nil {
			attempt.ErrorMessage = err.Error()
			if batchErr == nil {
				batchErr = fmt.Errorf("upgrade %s to %s: %w", request.Package, request.TargetVersion, err)
			}
		} else {
			attempt.Success = true
			attempt.NewVersion = request.TargetVersion
		}
		attempts = append(attempts, attempt)
	}
	return attempts, batchErr
}

func (e *Executor) batchSize() int {
	if e.BatchSize > 0 {
		return e.BatchSize
	}
	return defaultBatchSize
}

func (e *Executor) keepCheckpoints() int {
	if e.KeepCheckpoints > 0 {
		return e.KeepCheckpoints
	}
	return defaultKeepCheckpoints
}

func (e *Executor) now() time.Time {
	if e.Clock != nil {
		return e.Clock().UTC()
	}
	return time.Now().UTC()
}

func splitBatches(requests []types.UpgradeRequest, size int) [][]types.UpgradeRequest {
	batches := make([][]types.UpgradeRequest, 0, (len(requests)+size-1)/size)
	for start := 0; start < len(requests); start += size {
		end := start + size
		if end > len(requests) {
			end = len(requests)
		}
		batches = append(batches, requests[start:end])
	}
	return batches
}

func checkpointID(lock []byte, contractHash string, at time.Time) string {
	content := append(append([]byte{}, lock...), []byte(contractHash)...)
	return fmt.Sprintf("cp-%s-%d", shared.ShortHash(content), at.Unix())
}
