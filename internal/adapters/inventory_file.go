// Package adapters contains the filesystem and subprocess
// implementations of the ports used by the application layer.
package adapters

import (
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"upgrade-guard/internal/ports"
	"upgrade-guard/internal/shared"
	"upgrade-guard/internal/types"
)

type InventoryFileAdapter struct{}

func NewInventoryFileAdapter() InventoryFileAdapter {
	return InventoryFileAdapter{}
}

// inventoryDocument is the on-disk shape of an installed-package
// inventory file.
type inventoryDocument struct {
	Packages []types.PackageRef `yaml:"packages"`
}

func (a InventoryFileAdapter) LoadPackages(path string) ([]types.PackageRef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("inventory file not found").
			WithCause(err)
	}
	var doc inventoryDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse inventory yaml").
			WithCause(err)
	}
	for i, ref := range doc.Packages {
		if ref.Ecosystem == "" {
			doc.Packages[i].Ecosystem = types.EcosystemPyPI
		}
		if ref.Ecosystem == types.EcosystemPyPI || ref.Ecosystem == "" {
			doc.Packages[i].Name = shared.NormalizePipName(ref.Name)
		}
	}
	return doc.Packages, nil
}

type metadataDocument struct {
	Metadata map[string]types.PackageMetadata `yaml:"metadata"`
}

func (a InventoryFileAdapter) LoadMetadata(path string) (map[string]types.PackageMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("metadata file not found").
			WithCause(err)
	}
	var doc metadataDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse metadata yaml").
			WithCause(err)
	}
	if doc.Metadata == nil {
		doc.Metadata = map[string]types.PackageMetadata{}
	}
	return doc.Metadata, nil
}

func (a InventoryFileAdapter) LoadDependencySpec(path string) (types.DependencySpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.DependencySpec{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("dependency spec file not found").
			WithCause(err)
	}
	var spec types.DependencySpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return types.DependencySpec{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse dependency spec yaml").
			WithCause(err)
	}
	if spec.Packages == nil {
		spec.Packages = map[string]types.PackageSpec{}
	}
	return spec, nil
}

type upgradesDocument struct {
	Upgrades []types.ProposedUpgrade `yaml:"upgrades"`
}

func (a InventoryFileAdapter) LoadProposedUpgrades(path string) ([]types.ProposedUpgrade, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("upgrade plan file not found").
			WithCause(err)
	}
	var doc upgradesDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse upgrade plan yaml").
			WithCause(err)
	}
	for i, upgrade := range doc.Upgrades {
		if upgrade.Ecosystem == "" {
			doc.Upgrades[i].Ecosystem = types.EcosystemPyPI
		}
	}
	return doc.Upgrades, nil
}

var _ ports.InventoryPort = InventoryFileAdapter{}
