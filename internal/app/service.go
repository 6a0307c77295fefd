// Package app wires the ports and core logic into the operations the
// CLI exposes.
package app

import (
	"time"

	"upgrade-guard/internal/adapters"
	"upgrade-guard/internal/core"
	"upgrade-guard/internal/ports"
)

type Service struct {
	Inventory ports.InventoryPort
	Contracts ports.ContractPort
	Telemetry ports.TelemetryPort
	Health    *core.HealthRegistry

	// Manager and Checkpoints override the adapters built from request
	// paths when set. Tests inject fakes here.
	Manager     ports.PackageManagerPort
	Checkpoints ports.CheckpointStorePort

	Clock func() time.Time
}

func NewService(telemetry ports.TelemetryPort) Service {
	return Service{
		Inventory: adapters.NewInventoryFileAdapter(),
		Contracts: adapters.NewContractFileAdapter(),
		Telemetry: telemetry,
		Health:    core.NewHealthRegistry(),
		Clock:     time.Now,
	}
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

// record emits run telemetry for one operation.
func (s Service) record(operation string, started time.Time, err error) {
	if s.Telemetry == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	s.Telemetry.RecordRun(operation, outcome, s.now().Sub(started).Milliseconds())
}
