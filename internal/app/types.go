package app

import "upgrade-guard/internal/types"

type DriftRequest struct {
	InventoryPath string
	ContractPath  string
	OutputDir     string
}

type DriftResult struct {
	Report    types.DriftReport
	OutputDir string
}

type AdviseRequest struct {
	InventoryPath string
	MetadataPath  string
	ContractPath  string
	MirrorDir     string
	OutputDir     string
	Conservative  bool
	SecurityFirst bool
}

type AdviseResult struct {
	Report    types.AdviceReport
	OutputDir string
}

type ResolveConflictsRequest struct {
	SpecPath     string
	OutputDir    string
	Conservative bool
}

type ResolveConflictsResult struct {
	Report    types.ConflictReport
	OutputDir string
}

type GuardRequest struct {
	ContractPath string
	UpgradesPath string
	OutputDir    string
}

type GuardResult struct {
	Verdict   types.GuardVerdict
	OutputDir string
}

type MirrorStatusRequest struct {
	MirrorDir    string
	UpgradesPath string
	OutputDir    string
	Sync         bool
}

type MirrorStatusResult struct {
	Plan          types.MirrorPlan
	SyncTriggered bool
	OutputDir     string
}

type ExecuteRequest struct {
	ContractPath  string
	UpgradesPath  string
	CheckpointDir string
	OutputDir     string
	PipBinary     string
	BatchSize     int
	NoRollback    bool
}

type ExecuteResult struct {
	Report types.ExecutionReport
	// HeldForReview lists plan entries that passed the guard but did
	// not clear the advisor's auto-apply gate. They are never applied.
	HeldForReview []string
	OutputDir     string
}
