// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package govern

import (
	"math/bits"

	safemath "github.com/luxfi/math"

	"github.com/luxfi/ids"

	"github.com/luxfi/daovm/types"
)

// Proposal is one governed action moving through the lifecycle
//
//	Voting -> Passed -> (executed | Vetoed)
//	Voting -> Failed
//	Voting -> Cancelled
//
// Tallies stay at zero for the whole voting phase and only grow during the
// reveal phase. Proposals are never deleted.
type Proposal struct {
	ID       ids.ID `json:"id"`
	DAO      ids.ID `json:"dao"`
	Proposer ids.ID `json:"proposer"`
	// Index is the proposal's sequence number within its DAO; ID is derived
	// from (DAO, Index).
	Index       uint64               `json:"index"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Status      types.ProposalStatus `json:"status"`
	VotingEnd   int64                `json:"votingEnd"`
	RevealEnd   int64                `json:"revealEnd"`

	YesCapital   uint64 `json:"yesCapital"`
	NoCapital    uint64 `json:"noCapital"`
	YesCommunity uint64 `json:"yesCommunity"`
	NoCommunity  uint64 `json:"noCommunity"`
	CommitCount  uint64 `json:"commitCount"`
	RevealCount  uint64 `json:"revealCount"`

	// Action is fixed at creation and never mutated. Nil when the proposal
	// carries no treasury action.
	Action *types.TreasuryAction `json:"action,omitempty"`

	// ExecutionUnlocksAt is set only when the proposal passes; it stays zero
	// on failure.
	ExecutionUnlocksAt int64 `json:"executionUnlocksAt"`
	IsExecuted         bool  `json:"isExecuted"`
}

// NewProposal validates and builds a proposal against its DAO at time now
// (unix seconds). The caller is responsible for bumping dao.ProposalCount.
func NewProposal(
	dao *DAO,
	proposer ids.ID,
	title string,
	description string,
	votingDurationSeconds int64,
	action *types.TreasuryAction,
	now int64,
) (*Proposal, error) {
	switch {
	case len(title) > MaxTitleLen:
		return nil, ErrTitleTooLong
	case len(description) > MaxDescriptionLen:
		return nil, ErrDescriptionTooLong
	case votingDurationSeconds < MinVotingDurationSeconds:
		return nil, ErrVotingDurationTooShort
	}
	if action != nil {
		if err := action.Verify(); err != nil {
			return nil, errValidation(err)
		}
	}
	return &Proposal{
		ID:          ProposalID(dao.ID, dao.ProposalCount),
		DAO:         dao.ID,
		Proposer:    proposer,
		Index:       dao.ProposalCount,
		Title:       title,
		Description: description,
		Status:      types.StatusVoting,
		VotingEnd:   now + votingDurationSeconds,
		RevealEnd:   now + votingDurationSeconds + dao.RevealWindow,
		Action:      action,
	}, nil
}

// AddRevealedWeight folds a revealed voter's snapshotted weights into the
// tally pair selected by the vote. Every addition is overflow-checked; on
// overflow the proposal is left untouched.
func (p *Proposal) AddRevealedWeight(voteYes bool, capital, community uint64) error {
	yesCap, noCap := p.YesCapital, p.NoCapital
	yesCom, noCom := p.YesCommunity, p.NoCommunity

	var err error
	if voteYes {
		if yesCap, err = safemath.Add64(yesCap, capital); err != nil {
			return errArithmetic(err)
		}
		if yesCom, err = safemath.Add64(yesCom, community); err != nil {
			return errArithmetic(err)
		}
	} else {
		if noCap, err = safemath.Add64(noCap, capital); err != nil {
			return errArithmetic(err)
		}
		if noCom, err = safemath.Add64(noCom, community); err != nil {
			return errArithmetic(err)
		}
	}
	revealCount, err := safemath.Add64(p.RevealCount, 1)
	if err != nil {
		return errArithmetic(err)
	}

	p.YesCapital, p.NoCapital = yesCap, noCap
	p.YesCommunity, p.NoCommunity = yesCom, noCom
	p.RevealCount = revealCount
	return nil
}

// TallyResult is the outcome of evaluating a proposal's accumulated tallies.
type TallyResult struct {
	QuorumMet bool
	Passed    bool
}

// EvaluateTally computes pass/fail from the proposal's tallies under the
// DAO's voting mode. Quorum compares revealed committers against total
// committers on cross-multiplied integers, so no fractional weight exists:
//
//	quorum_met := commit_count > 0 && reveal_count*100 >= commit_count*quorum_pct
//
// The pass rule is evaluated only when quorum is met. DualChamber requires
// both chambers to independently clear their own threshold; a failing chamber
// fails the proposal regardless of the other's margin.
func EvaluateTally(dao *DAO, p *Proposal) TallyResult {
	quorumMet := p.CommitCount > 0 &&
		p.RevealCount*100 >= p.CommitCount*uint64(dao.QuorumPct)
	if !quorumMet {
		return TallyResult{}
	}

	var passed bool
	switch dao.Voting.Mode {
	case types.TokenWeighted:
		passed = (p.YesCapital|p.NoCapital) != 0 && p.YesCapital > p.NoCapital
	case types.Quadratic:
		passed = (p.YesCommunity|p.NoCommunity) != 0 && p.YesCommunity > p.NoCommunity
	case types.DualChamber:
		capitalPasses := chamberClears(p.YesCapital, p.NoCapital, dao.Voting.CapitalThreshold)
		communityPasses := chamberClears(p.YesCommunity, p.NoCommunity, dao.Voting.CommunityThreshold)
		passed = capitalPasses && communityPasses
	}
	return TallyResult{QuorumMet: true, Passed: passed}
}

// chamberClears reports whether yes*100 >= (yes+no)*threshold, computed in
// 128 bits so full-range tallies cannot overflow the comparison.
func chamberClears(yes, no uint64, threshold uint8) bool {
	if yes == 0 && no == 0 {
		return false
	}
	lhsHi, lhsLo := bits.Mul64(yes, 100)

	totalLo, carry := bits.Add64(yes, no, 0)
	rhsHi, rhsLo := bits.Mul64(totalLo, uint64(threshold))
	rhsHi += carry * uint64(threshold)

	if lhsHi != rhsHi {
		return lhsHi > rhsHi
	}
	return lhsLo >= rhsLo
}
