package adapters

import (
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"upgrade-guard/internal/ports"
	"upgrade-guard/internal/shared"
	"upgrade-guard/internal/types"
)

type ContractFileAdapter struct{}

func NewContractFileAdapter() ContractFileAdapter {
	return ContractFileAdapter{}
}

// Load reads a contract document and computes its canonical hash. The
// hash is taken over a re-marshalled form so formatting differences in
// the source file do not change it.
func (a ContractFileAdapter) Load(path string) (types.Contract, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Contract{}, "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("contract file not found").
			WithCause(err)
	}
	contract := types.DefaultContract()
	if err := yaml.Unmarshal(data, &contract); err != nil {
		return types.Contract{}, "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse contract yaml").
			WithCause(err)
	}
	canonical, err := yaml.Marshal(contract)
	if err != nil {
		return types.Contract{}, "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to canonicalize contract").
			WithCause(err)
	}
	return contract, shared.ContentHash(canonical), nil
}

var _ ports.ContractPort = ContractFileAdapter{}
