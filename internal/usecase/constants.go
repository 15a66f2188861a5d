package usecase

import "time"

const (
	// DefaultFundFanOut bounds concurrent partnership computations
	// during fund-level aggregation.
	DefaultFundFanOut = 8

	// DefaultSnapshotTTL is how long cached performance snapshots live.
	// Recomputation from the ledger is always correct, so the TTL only
	// bounds staleness, never correctness.
	DefaultSnapshotTTL = 5 * time.Minute
)
