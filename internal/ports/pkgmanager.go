package ports

import "context"

type PackageManagerPort interface {
	Upgrade(ctx context.Context, name string, version string) error
	InstalledVersion(ctx context.Context, name string) (string, error)
	SnapshotLock(ctx context.Context) ([]byte, error)
	RestoreLock(ctx context.Context, lock []byte) error
}
