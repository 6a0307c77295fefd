package ports

import "upgrade-guard/internal/types"

type InventoryPort interface {
	LoadPackages(path string) ([]types.PackageRef, error)
	LoadMetadata(path string) (map[string]types.PackageMetadata, error)
	LoadDependencySpec(path string) (types.DependencySpec, error)
	LoadProposedUpgrades(path string) ([]types.ProposedUpgrade, error)
}
