// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package govern defines the governance data model: DAO configuration,
// proposals, per-voter commit-reveal records and one-shot delegations,
// together with the commitment scheme and tally rules that operate on them.
package govern

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/luxfi/ids"

	"github.com/luxfi/daovm/types"
)

const (
	MaxNameLen        = 64
	MaxTitleLen       = 128
	MaxDescriptionLen = 1024

	// MinRevealWindowSeconds is the protocol floor for a DAO's reveal window.
	MinRevealWindowSeconds = 5
	// MinVotingDurationSeconds is the protocol floor for a proposal's voting
	// window.
	MinVotingDurationSeconds = 5
)

// DAO is one governance instance's configuration. It is immutable after
// creation except for ProposalCount, which increases by one per proposal and
// derives new proposal identities.
type DAO struct {
	ID              ids.ID             `json:"id"`
	Authority       ids.ID             `json:"authority"`
	Name            string             `json:"name"`
	GovernanceToken ids.ID             `json:"governanceToken"`
	QuorumPct       uint8              `json:"quorumPercentage"`
	// RequiredBalance is the minimum token balance needed to commit a vote.
	// Zero means unrestricted.
	RequiredBalance uint64             `json:"requiredBalance"`
	RevealWindow    int64              `json:"revealWindowSeconds"`
	ExecutionDelay  int64              `json:"executionDelaySeconds"`
	Voting          types.VotingConfig `json:"votingConfig"`
	ProposalCount   uint64             `json:"proposalCount"`
	// MigratedFrom records the external governance instance this DAO was
	// mirrored from. Informational only; empty for native DAOs.
	MigratedFrom ids.ID `json:"migratedFrom,omitempty"`
}

// NewDAO validates and builds a DAO configuration. migratedFrom is empty for
// a natively created DAO.
func NewDAO(
	authority ids.ID,
	name string,
	governanceToken ids.ID,
	quorumPct uint8,
	requiredBalance uint64,
	revealWindowSeconds int64,
	executionDelaySeconds int64,
	voting types.VotingConfig,
	migratedFrom ids.ID,
) (*DAO, error) {
	switch {
	case len(name) > MaxNameLen:
		return nil, ErrNameTooLong
	case quorumPct == 0 || quorumPct > 100:
		return nil, ErrInvalidQuorum
	case revealWindowSeconds < MinRevealWindowSeconds:
		return nil, ErrRevealWindowTooShort
	case executionDelaySeconds < 0:
		return nil, ErrInvalidExecutionDelay
	}
	if err := voting.Verify(); err != nil {
		return nil, errValidation(err)
	}
	return &DAO{
		ID:              DAOID(authority, name),
		Authority:       authority,
		Name:            name,
		GovernanceToken: governanceToken,
		QuorumPct:       quorumPct,
		RequiredBalance: requiredBalance,
		RevealWindow:    revealWindowSeconds,
		ExecutionDelay:  executionDelaySeconds,
		Voting:          voting,
		MigratedFrom:    migratedFrom,
	}, nil
}

// DAOID derives a DAO's identity from its authority and name. The derivation
// is deterministic, so a DAO is addressable before it exists.
func DAOID(authority ids.ID, name string) ids.ID {
	return deriveID([]byte("dao"), authority[:], []byte(name))
}

// ProposalID derives a proposal's identity from its DAO and sequence index.
func ProposalID(dao ids.ID, index uint64) ids.ID {
	var idx [8]byte
	binary.BigEndian.PutUint64(idx[:], index)
	return deriveID([]byte("proposal"), dao[:], idx[:])
}

// TreasuryID derives the identity of a DAO's guarded treasury account.
func TreasuryID(dao ids.ID) ids.ID {
	return deriveID([]byte("treasury"), dao[:])
}

func deriveID(parts ...[]byte) ids.ID {
	h := sha256.New()
	for _, part := range parts {
		h.Write(part)
	}
	var id ids.ID
	copy(id[:], h.Sum(nil))
	return id
}
