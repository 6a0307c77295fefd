package adapters

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"upgrade-guard/internal/ports"
	"upgrade-guard/internal/types"
)

// CheckpointDirAdapter stores lock snapshots as "<id>.lock" blobs next
// to an index.yaml listing the checkpoint metadata.
type CheckpointDirAdapter struct {
	Dir string
}

func NewCheckpointDirAdapter(dir string) CheckpointDirAdapter {
	return CheckpointDirAdapter{Dir: dir}
}

type checkpointIndex struct {
	Checkpoints []types.Checkpoint `yaml:"checkpoints"`
}

func (a CheckpointDirAdapter) Save(checkpoint types.Checkpoint, lock []byte) error {
	if a.Dir == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("checkpoint directory is empty")
	}
	if err := os.MkdirAll(a.Dir, 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create checkpoint directory").
			WithCause(err)
	}
	if err := os.WriteFile(a.lockPath(checkpoint.ID), lock, 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write checkpoint lock").
			WithCause(err)
	}
	index, err := a.readIndex()
	if err != nil {
		return err
	}
	index.Checkpoints = append(index.Checkpoints, checkpoint)
	return a.writeIndex(index)
}

func (a CheckpointDirAdapter) Load(id string) ([]byte, error) {
	data, err := os.ReadFile(a.lockPath(id))
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("checkpoint not found").
			WithCause(err)
	}
	return data, nil
}

func (a CheckpointDirAdapter) List() ([]types.Checkpoint, error) {
	index, err := a.readIndex()
	if err != nil {
		return nil, err
	}
	ordered := append([]types.Checkpoint(nil), index.Checkpoints...)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})
	return ordered, nil
}

// Prune keeps the newest checkpoints and removes the rest together
// with their lock blobs.
func (a CheckpointDirAdapter) Prune(keep int) error {
	ordered, err := a.List()
	if err != nil {
		return err
	}
	if keep < 0 || len(ordered) <= keep {
		return nil
	}
	drop := ordered[:len(ordered)-keep]
	kept := ordered[len(ordered)-keep:]
	for _, checkpoint := range drop {
		if err := os.Remove(a.lockPath(checkpoint.ID)); err != nil && !os.IsNotExist(err) {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to remove pruned checkpoint").
				WithCause(err)
		}
	}
	return a.writeIndex(checkpointIndex{Checkpoints: kept})
}

func (a CheckpointDirAdapter) lockPath(id string) string {
	return filepath.Join(a.Dir, id+".lock")
}

func (a CheckpointDirAdapter) readIndex() (checkpointIndex, error) {
	data, err := os.ReadFile(filepath.Join(a.Dir, "index.yaml"))
	if os.IsNotExist(err) {
		return checkpointIndex{}, nil
	}
	if err != nil {
		return checkpointIndex{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read checkpoint index").
			WithCause(err)
	}
	var index checkpointIndex
	if err := yaml.Unmarshal(data, &index); err != nil {
		return checkpointIndex{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse checkpoint index").
			WithCause(err)
	}
	return index, nil
}

func (a CheckpointDirAdapter) writeIndex(index checkpointIndex) error {
	content, err := yaml.Marshal(index)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to serialize checkpoint index").
			WithCause(err)
	}
	return os.WriteFile(filepath.Join(a.Dir, "index.yaml"), content, 0644)
}

var _ ports.CheckpointStorePort = CheckpointDirAdapter{}
