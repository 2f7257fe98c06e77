// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package govern

import "github.com/luxfi/ids"

// VoterRecord is one voter's commit-reveal state for one proposal. It is
// created at commit time with weights snapshotted from the balance source,
// mutated exactly once at reveal time, and never deleted. Snapshotting at
// commit prevents buy-vote-sell manipulation: weight is never re-read after
// the commitment is stored.
type VoterRecord struct {
	Voter    ids.ID `json:"voter"`
	Proposal ids.ID `json:"proposal"`
	// Commitment is SHA256(vote_byte || salt || voter), set exactly once.
	Commitment ids.ID `json:"commitment"`
	// CapitalWeight is the raw balance at commit time, own plus delegated.
	CapitalWeight uint64 `json:"capitalWeight"`
	// CommunityWeight is the quadratic weight at commit time, own plus
	// delegated, each term rooted before summing.
	CommunityWeight uint64 `json:"communityWeight"`
	HasCommitted    bool   `json:"hasCommitted"`
	HasRevealed     bool   `json:"hasRevealed"`
	VotedYes        bool   `json:"votedYes"`
	// Keeper may submit the reveal on the voter's behalf. It cannot alter
	// the vote; the commitment preimage still binds the voter's identity.
	// Empty when no keeper is authorized.
	Keeper ids.ID `json:"keeper,omitempty"`
}

// CanReveal reports whether caller is the voter or the authorized keeper.
func (vr *VoterRecord) CanReveal(caller ids.ID) bool {
	return caller == vr.Voter || (vr.Keeper != ids.Empty && caller == vr.Keeper)
}

// VoteDelegation grants a delegator's weight to a delegatee for exactly one
// proposal. It carries weight only, never a vote: the delegatee picks the
// vote and salt independently, so delegation preserves ballot privacy. A
// delegation funds at most one commit.
type VoteDelegation struct {
	Delegator ids.ID `json:"delegator"`
	Delegatee ids.ID `json:"delegatee"`
	Proposal  ids.ID `json:"proposal"`
	// DelegatedCapital is the delegator's raw balance at delegation time.
	DelegatedCapital uint64 `json:"delegatedCapital"`
	// DelegatedCommunity is Isqrt(DelegatedCapital), rooted per holder so a
	// whale cannot launder size into a smaller quadratic weight by routing
	// through a delegatee.
	DelegatedCommunity uint64 `json:"delegatedCommunity"`
	IsUsed             bool   `json:"isUsed"`
}
