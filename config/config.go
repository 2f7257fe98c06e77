// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config defines configuration parameters for the governance VM.
package config

// Config contains the engine tunables that are not part of any DAO's own
// configuration.
type Config struct {
	// RevealRebate is paid from a proposal's balance to whoever submits a
	// valid reveal, voter or keeper.
	RevealRebate uint64 `json:"revealRebate"`
	// RebateReserve is the minimum balance a proposal must retain after a
	// rebate. If the rebate would break the reserve it is skipped, never
	// failed.
	RebateReserve uint64 `json:"rebateReserve"`
	// ProposalEndowment is transferred from the proposer to the proposal's
	// own account at creation and funds reveal rebates.
	ProposalEndowment uint64 `json:"proposalEndowment"`
	// WeightExpiryOffset is added to the current unix time on every voter
	// weight sync so stale reads are rejected by the consuming platform.
	WeightExpiryOffset uint64 `json:"weightExpiryOffset"`
	// EventLogCapacity bounds the number of events retained in memory; the
	// persisted audit log is unbounded.
	EventLogCapacity int `json:"eventLogCapacity"`
}

// DefaultConfig returns the default configuration for the governance VM.
// The rebate and reserve defaults mirror long-standing deployed values.
func DefaultConfig() Config {
	return Config{
		RevealRebate:       1_000_000,
		RebateReserve:      1_500_000,
		ProposalEndowment:  10_000_000,
		WeightExpiryOffset: 100,
		EventLogCapacity:   4096,
	}
}
