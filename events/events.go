// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package events defines the audit trail the governance engine emits. Every
// state transition produces exactly one event after its writes succeed, so
// the log is a faithful replayable history of the engine.
package events

import (
	"github.com/luxfi/ids"

	"github.com/luxfi/daovm/types"
)

// Event is a completed governance state transition.
type Event interface {
	// Kind names the transition, e.g. "proposal_finalized".
	Kind() string
	// Scope is the DAO the event belongs to. Subscription filters match on
	// its bytes.
	Scope() ids.ID
}

type DAOCreated struct {
	DAO       ids.ID `serialize:"true" json:"dao"`
	Authority ids.ID `serialize:"true" json:"authority"`
	Name      string `serialize:"true" json:"name"`
}

type DAOMigrated struct {
	DAO          ids.ID `serialize:"true" json:"dao"`
	MigratedFrom ids.ID `serialize:"true" json:"migratedFrom"`
}

type ProposalCreated struct {
	DAO       ids.ID `serialize:"true" json:"dao"`
	Proposal  ids.ID `serialize:"true" json:"proposal"`
	Proposer  ids.ID `serialize:"true" json:"proposer"`
	Index     uint64 `serialize:"true" json:"index"`
	VotingEnd int64  `serialize:"true" json:"votingEnd"`
	RevealEnd int64  `serialize:"true" json:"revealEnd"`
}

type ProposalCancelled struct {
	DAO      ids.ID `serialize:"true" json:"dao"`
	Proposal ids.ID `serialize:"true" json:"proposal"`
}

type ProposalVetoed struct {
	DAO      ids.ID `serialize:"true" json:"dao"`
	Proposal ids.ID `serialize:"true" json:"proposal"`
}

type VoteCommitted struct {
	DAO      ids.ID `serialize:"true" json:"dao"`
	Proposal ids.ID `serialize:"true" json:"proposal"`
	Voter    ids.ID `serialize:"true" json:"voter"`
}

type VoteDelegated struct {
	DAO       ids.ID `serialize:"true" json:"dao"`
	Proposal  ids.ID `serialize:"true" json:"proposal"`
	Delegator ids.ID `serialize:"true" json:"delegator"`
	Delegatee ids.ID `serialize:"true" json:"delegatee"`
}

type VoteRevealed struct {
	DAO      ids.ID `serialize:"true" json:"dao"`
	Proposal ids.ID `serialize:"true" json:"proposal"`
	Voter    ids.ID `serialize:"true" json:"voter"`
	VotedYes bool   `serialize:"true" json:"votedYes"`
	Rebated  bool   `serialize:"true" json:"rebated"`
}

type ProposalFinalized struct {
	DAO            ids.ID               `serialize:"true" json:"dao"`
	Proposal       ids.ID               `serialize:"true" json:"proposal"`
	Status         types.ProposalStatus `serialize:"true" json:"status"`
	CapitalYes     uint64               `serialize:"true" json:"capitalYes"`
	CapitalNo      uint64               `serialize:"true" json:"capitalNo"`
	CommunityYes   uint64               `serialize:"true" json:"communityYes"`
	CommunityNo    uint64               `serialize:"true" json:"communityNo"`
	CommitCount    uint64               `serialize:"true" json:"commitCount"`
	RevealCount    uint64               `serialize:"true" json:"revealCount"`
	QuorumMet      bool                 `serialize:"true" json:"quorumMet"`
	ExecutionAfter int64                `serialize:"true" json:"executionAfter"`
}

type TreasuryDeposit struct {
	DAO       ids.ID `serialize:"true" json:"dao"`
	Depositor ids.ID `serialize:"true" json:"depositor"`
	Amount    uint64 `serialize:"true" json:"amount"`
}

type TreasuryExecuted struct {
	DAO        ids.ID                   `serialize:"true" json:"dao"`
	Proposal   ids.ID                   `serialize:"true" json:"proposal"`
	ActionKind types.TreasuryActionKind `serialize:"true" json:"actionKind"`
	Amount     uint64                   `serialize:"true" json:"amount"`
	Recipient  ids.ID                   `serialize:"true" json:"recipient"`
	Token      ids.ID                   `serialize:"true" json:"token"`
}

type VoterWeightSynced struct {
	DAO    ids.ID `serialize:"true" json:"dao"`
	Owner  ids.ID `serialize:"true" json:"owner"`
	Weight uint64 `serialize:"true" json:"weight"`
}

func (e *DAOCreated) Kind() string        { return "dao_created" }
func (e *DAOCreated) Scope() ids.ID       { return e.DAO }
func (e *DAOMigrated) Kind() string       { return "dao_migrated" }
func (e *DAOMigrated) Scope() ids.ID      { return e.DAO }
func (e *ProposalCreated) Kind() string   { return "proposal_created" }
func (e *ProposalCreated) Scope() ids.ID  { return e.DAO }
func (e *ProposalCancelled) Kind() string { return "proposal_cancelled" }
func (e *ProposalCancelled) Scope() ids.ID {
	return e.DAO
}
func (e *ProposalVetoed) Kind() string     { return "proposal_vetoed" }
func (e *ProposalVetoed) Scope() ids.ID    { return e.DAO }
func (e *VoteCommitted) Kind() string      { return "vote_committed" }
func (e *VoteCommitted) Scope() ids.ID     { return e.DAO }
func (e *VoteDelegated) Kind() string      { return "vote_delegated" }
func (e *VoteDelegated) Scope() ids.ID     { return e.DAO }
func (e *VoteRevealed) Kind() string       { return "vote_revealed" }
func (e *VoteRevealed) Scope() ids.ID      { return e.DAO }
func (e *ProposalFinalized) Kind() string  { return "proposal_finalized" }
func (e *ProposalFinalized) Scope() ids.ID { return e.DAO }
func (e *TreasuryDeposit) Kind() string    { return "treasury_deposit" }
func (e *TreasuryDeposit) Scope() ids.ID   { return e.DAO }
func (e *TreasuryExecuted) Kind() string   { return "treasury_executed" }
func (e *TreasuryExecuted) Scope() ids.ID  { return e.DAO }
func (e *VoterWeightSynced) Kind() string  { return "voter_weight_synced" }
func (e *VoterWeightSynced) Scope() ids.ID { return e.DAO }
