package types

import "time"

// UpgradeRequest is one queued (package, target version) pair.
type UpgradeRequest struct {
	Package       string `yaml:"package"`
	TargetVersion string `yaml:"target_version"`
}

// Checkpoint identifies a restorable lock snapshot taken before a batch of
// upgrades. The lock blob itself lives in checkpoint storage; ContractHash
// pins the contract the batch was evaluated against.
type Checkpoint struct {
	ID           string    `yaml:"id"`
	CreatedAt    time.Time `yaml:"created_at"`
	ContractHash string    `yaml:"contract_hash"`
}

// UpgradeAttempt records the outcome of one package upgrade within a batch.
// Attempts are immutable: exactly one per package per batch.
type UpgradeAttempt struct {
	Package         string `yaml:"package"`
	PreviousVersion string `yaml:"previous_version"`
	NewVersion      string `yaml:"new_version,omitempty"`
	Success         bool   `yaml:"success"`
	DurationMS      int64  `yaml:"duration_ms"`
	ErrorMessage    string `yaml:"error_message,omitempty"`
}

type ExecutionSummary struct {
	Total      int `yaml:"total"`
	Successful int `yaml:"successful"`
	Failed     int `yaml:"failed"`
	Batches    int `yaml:"batches"`
}

type ExecutionReport struct {
	StartedAt         time.Time        `yaml:"started_at"`
	CompletedAt       time.Time        `yaml:"completed_at"`
	Upgrades          []UpgradeAttempt `yaml:"upgrades"`
	Checkpoints       []Checkpoint     `yaml:"checkpoints"`
	RollbackPerformed bool             `yaml:"rollback_performed"`
	FinalStatus       FinalStatus      `yaml:"final_status"`
	Summary           ExecutionSummary `yaml:"summary"`
}
