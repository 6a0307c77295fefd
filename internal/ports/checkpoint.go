package ports

import "upgrade-guard/internal/types"

type CheckpointStorePort interface {
	Save(checkpoint types.Checkpoint, lock []byte) error
	Load(id string) ([]byte, error)
	List() ([]types.Checkpoint, error)
	Prune(keep int) error
}
