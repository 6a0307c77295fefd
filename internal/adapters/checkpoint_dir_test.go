package adapters

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upgrade-guard/internal/types"
)

func checkpointAt(id string, created time.Time) types.Checkpoint {
	return types.Checkpoint{ID: id, CreatedAt: created, ContractHash: "abc123"}
}

func TestCheckpointDirAdapterSaveAndLoad(t *testing.T) {
	store := NewCheckpointDirAdapter(t.TempDir())
	lock := []byte("requests==2.28.1\nurllib3==1.26.12\n")

	created := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(checkpointAt("cp-aaa-1", created), lock))

	restored, err := store.Load("cp-aaa-1")
	require.NoError(t, err)
	assert.Equal(t, lock, restored)
}

func TestCheckpointDirAdapterLoadMissing(t *testing.T) {
	store := NewCheckpointDirAdapter(t.TempDir())
	_, err := store.Load("cp-missing-1")
	require.Error(t, err)
}

func TestCheckpointDirAdapterSaveEmptyDirFails(t *testing.T) {
	store := NewCheckpointDirAdapter("")
	require.Error(t, store.Save(checkpointAt("cp-aaa-1", time.Now()), []byte("lock")))
}

func TestCheckpointDirAdapterListOrdersByCreation(t *testing.T) {
	store := NewCheckpointDirAdapter(t.TempDir())
	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	// Save out of order, List returns oldest first.
	require.NoError(t, store.Save(checkpointAt("cp-bbb-2", base.Add(time.Hour)), []byte("b")))
	require.NoError(t, store.Save(checkpointAt("cp-aaa-1", base), []byte("a")))
	require.NoError(t, store.Save(checkpointAt("cp-ccc-3", base.Add(2*time.Hour)), []byte("c")))

	listed, err := store.List()
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "cp-aaa-1", listed[0].ID)
	assert.Equal(t, "cp-bbb-2", listed[1].ID)
	assert.Equal(t, "cp-ccc-3", listed[2].ID)
}

func TestCheckpointDirAdapterPruneKeepsNewest(t *testing.T) {
	dir := t.TempDir()
	store := NewCheckpointDirAdapter(dir)
	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("cp-%03d", i)
		require.NoError(t, store.Save(checkpointAt(id, base.Add(time.Duration(i)*time.Minute)), []byte(id)))
	}

	require.NoError(t, store.Prune(2))

	listed, err := store.List()
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "cp-003", listed[0].ID)
	assert.Equal(t, "cp-004", listed[1].ID)

	_, err = os.Stat(filepath.Join(dir, "cp-000.lock"))
	assert.True(t, os.IsNotExist(err), "pruned lock blob must be removed")
	_, err = os.Stat(filepath.Join(dir, "cp-004.lock"))
	assert.NoError(t, err, "kept lock blob must survive")
}

func TestCheckpointDirAdapterPruneNoopWhenUnderLimit(t *testing.T) {
	store := NewCheckpointDirAdapter(t.TempDir())
	require.NoError(t, store.Save(checkpointAt("cp-aaa-1", time.Now().UTC()), []byte("lock")))

	require.NoError(t, store.Prune(10))

	listed, err := store.List()
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}
