package ports

import "upgrade-guard/internal/types"

type MirrorIndexPort interface {
	Scan() ([]types.MirrorEntry, error)
	TriggerSync(plan types.MirrorPlan) error
}
