package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upgrade-guard/internal/types"
)

// fakeManager scripts the package manager port. Failures are keyed by
// package name.
type fakeManager struct {
	installed   map[string]string
	failOn      map[string]error
	snapshotErr error
	restoreErr  error

	upgraded []string
	restored [][]byte
}

func newFakeManager() *fakeManager {
	return &fakeManager{
		installed: map[string]string{},
		failOn:    map[string]error{},
	}
}

func (f *fakeManager) Upgrade(_ context.Context, name string, version string) error {
	if err := f.failOn[name]; err != nil {
		return err
	}
	f.installed[name] = version
	f.upgraded = append(f.upgraded, name)
	return nil
}

func (f *fakeManager) InstalledVersion(_ context.Context, name string) (string, error) {
	version, ok := f.installed[name]
	if !ok {
		return "", errors.New("not installed")
	}
	return version, nil
}

func (f *fakeManager) SnapshotLock(context.Context) ([]byte, error) {
	if f.snapshotErr != nil {
		return nil, f.snapshotErr
	}
	lock := ""
	for name, version := range f.installed {
		lock += fmt.Sprintf("%s==%s\n", name, version)
	}
	return []byte(lock), nil
}

func (f *fakeManager) RestoreLock(_ context.Context, lock []byte) error {
	if f.restoreErr != nil {
		return f.restoreErr
	}
	f.restored = append(f.restored, lock)
	return nil
}

type fakeCheckpoints struct {
	saved   []types.Checkpoint
	locks   map[string][]byte
	pruned  int
	saveErr error
}

func newFakeCheckpoints() *fakeCheckpoints {
	return &fakeCheckpoints{locks: map[string][]byte{}}
}

func (f *fakeCheckpoints) Save(checkpoint types.Checkpoint, lock []byte) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, checkpoint)
	f.locks[checkpoint.ID] = lock
	return nil
}

func (f *fakeCheckpoints) Load(id string) ([]byte, error) {
	lock, ok := f.locks[id]
	if !ok {
		return nil, errors.New("missing")
	}
	return lock, nil
}

func (f *fakeCheckpoints) List() ([]types.Checkpoint, error) {
	return append([]types.Checkpoint{}, f.saved...), nil
}

func (f *fakeCheckpoints) Prune(keep int) error {
	f.pruned = keep
	return nil
}

func testClock() func() time.Time {
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func requestList(count int) []types.UpgradeRequest {
	requests := make([]types.UpgradeRequest, 0, count)
	for i := 0; i < count; i++ {
		requests = append(requests, types.UpgradeRequest{
			Package:       fmt.Sprintf("pkg-%02d", i+1),
			TargetVersion: "2.0.0",
		})
	}
	return requests
}

func TestExecutorCompletesInBatches(t *testing.T) {
	manager := newFakeManager()
	store := newFakeCheckpoints()
	executor := &Executor{
		Manager:      manager,
		Checkpoints:  store,
		AutoRollback: true,
		Clock:        testClock(),
	}

	report, err := executor.Execute(t.Context(), requestList(7), "hash-1")
	require.NoError(t, err)

	assert.Equal(t, types.StatusCompleted, report.FinalStatus)
	assert.Equal(t, 7, report.Summary.Successful)
	assert.Zero(t, report.Summary.Failed)
	assert.Equal(t, 2, report.Summary.Batches, "seven upgrades split into 5 + 2")
	assert.Len(t, report.Checkpoints, 2)
	assert.False(t, report.RollbackPerformed)
	assert.Equal(t, defaultKeepCheckpoints, store.pruned)
	for _, checkpoint := range report.Checkpoints {
		assert.Equal(t, "hash-1", checkpoint.ContractHash)
	}
}

func TestExecutorRollsBackFailedBatch(t *testing.T) {
	manager := newFakeManager()
	manager.installed["pkg-03"] = "1.0.0"
	manager.failOn["pkg-03"] = errors.New("wheel build failed")
	store := newFakeCheckpoints()
	executor := &Executor{
		Manager:      manager,
		Checkpoints:  store,
		AutoRollback: true,
		Clock:        testClock(),
	}

	report, err := executor.Execute(t.Context(), requestList(5), "hash-1")
	require.NoError(t, err)

	assert.Equal(t, types.StatusRolledBack, report.FinalStatus)
	assert.True(t, report.RollbackPerformed)
	require.Len(t, manager.restored, 1)
	assert.Equal(t, store.locks[report.Checkpoints[0].ID], manager.restored[0],
		"the lock restored must be the one checkpointed before the batch")

	// The batch is best-effort: every package gets an attempt even
	// after the failure, and the whole batch is rolled back.
	require.Len(t, report.Upgrades, 5)
	assert.True(t, report.Upgrades[0].Success)
	assert.True(t, report.Upgrades[1].Success)
	assert.False(t, report.Upgrades[2].Success)
	assert.Contains(t, report.Upgrades[2].ErrorMessage, "wheel build failed")
	assert.Equal(t, "1.0.0", report.Upgrades[2].PreviousVersion)
	assert.True(t, report.Upgrades[3].Success)
	assert.True(t, report.Upgrades[4].Success)
	assert.Zero(t, report.Summary.Successful, "rolled back successes do not count")
}

func TestExecutorPartialWhenEarlierBatchesCommitted(t *testing.T) {
	manager := newFakeManager()
	manager.failOn["pkg-06"] = errors.New("conflict")
	executor := &Executor{
		Manager:      manager,
		Checkpoints:  newFakeCheckpoints(),
		AutoRollback: true,
		Clock:        testClock(),
	}

	report, err := executor.Execute(t.Context(), requestList(7), "hash-1")
	require.NoError(t, err)

	assert.Equal(t, types.StatusPartiallyCompleted, report.FinalStatus)
	assert.True(t, report.RollbackPerformed)
	assert.Equal(t, 5, report.Summary.Successful, "the first committed batch survives")
}

func TestExecutorHealthFailureTriggersRollback(t *testing.T) {
	manager := newFakeManager()
	health := NewHealthRegistry()
	require.NoError(t, health.Register("probe", func(context.Context) error {
		return errors.New("import failed")
	}))
	executor := &Executor{
		Manager:      manager,
		Checkpoints:  newFakeCheckpoints(),
		Health:       health,
		AutoRollback: true,
		Clock:        testClock(),
	}

	report, err := executor.Execute(t.Context(), requestList(2), "hash-1")
	require.NoError(t, err)

	assert.Equal(t, types.StatusRolledBack, report.FinalStatus)
	assert.True(t, report.RollbackPerformed)
	assert.Len(t, manager.restored, 1)
}

func TestExecutorNoRollbackKeepsPartialResults(t *testing.T) {
	manager := newFakeManager()
	manager.failOn["pkg-02"] = errors.New("conflict")
	executor := &Executor{
		Manager:     manager,
		Checkpoints: newFakeCheckpoints(),
		BatchSize:   2,
		Clock:       testClock(),
	}

	report, err := executor.Execute(t.Context(), requestList(4), "hash-1")
	require.NoError(t, err)

	assert.Equal(t, types.StatusPartiallyCompleted, report.FinalStatus)
	assert.False(t, report.RollbackPerformed)
	assert.Empty(t, manager.restored)
	// pkg-01 kept from the failed batch, pkg-03 and pkg-04 from the
	// second batch.
	assert.Equal(t, 3, report.Summary.Successful)
	assert.Equal(t, 1, report.Summary.Failed)
}

func TestExecutorSnapshotFailureAbortsBeforeMutation(t *testing.T) {
	manager := newFakeManager()
	manager.snapshotErr = errors.New("pip freeze crashed")
	executor := &Executor{
		Manager:      manager,
		Checkpoints:  newFakeCheckpoints(),
		AutoRollback: true,
		Clock:        testClock(),
	}

	_, err := executor.Execute(t.Context(), requestList(2), "hash-1")
	require.Error(t, err)
	assert.Empty(t, manager.upgraded, "no package may be touched without a checkpoint")
}

func TestExecutorRollbackFailureIsFatal(t *testing.T) {
	manager := newFakeManager()
	manager.failOn["pkg-01"] = errors.New("conflict")
	manager.restoreErr = errors.New("disk full")
	executor := &Executor{
		Manager:      manager,
		Checkpoints:  newFakeCheckpoints(),
		AutoRollback: true,
		Clock:        testClock(),
	}

	_, err := executor.Execute(t.Context(), requestList(1), "hash-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rollback")
}

func TestExecutorRejectsEmptyPlan(t *testing.T) {
	executor := &Executor{
		Manager:     newFakeManager(),
		Checkpoints: newFakeCheckpoints(),
		Clock:       testClock(),
	}
	_, err := executor.Execute(t.Context(), nil, "hash-1")
	require.Error(t, err)
}
