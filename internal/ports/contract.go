package ports

import "upgrade-guard/internal/types"

type ContractPort interface {
	// Load reads and validates a contract document. The second return
	// value is the canonical content hash of the document.
	Load(path string) (types.Contract, string, error)
}
