// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"errors"

	"github.com/luxfi/database"
	"github.com/luxfi/ids"
	safemath "github.com/luxfi/math"

	"github.com/luxfi/daovm/events"
	"github.com/luxfi/daovm/govern"
	"github.com/luxfi/daovm/types"
)

// CommitVote stores a voter's binding commitment. The voter's weight is
// snapshotted from the balance source now and never re-read: buying tokens
// after committing changes nothing, selling them changes nothing either.
func (e *Engine) CommitVote(
	proposalID ids.ID,
	voter ids.ID,
	commitment ids.ID,
	keeper ids.ID,
	now int64,
) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.commitVote(proposalID, voter, commitment, keeper, now)
	if err := e.seal("commit_vote", err); err != nil {
		return err
	}
	e.emit(&events.VoteCommitted{
		DAO:      p.DAO,
		Proposal: p.ID,
		Voter:    voter,
	})
	return nil
}

func (e *Engine) commitVote(
	proposalID ids.ID,
	voter ids.ID,
	commitment ids.ID,
	keeper ids.ID,
	now int64,
) (*govern.Proposal, error) {
	p, dao, err := e.openForVoting(proposalID, now)
	if err != nil {
		return nil, err
	}

	raw, err := e.balances.TokenBalance(dao.GovernanceToken, voter)
	if err != nil {
		return nil, err
	}
	if dao.RequiredBalance > 0 && raw < dao.RequiredBalance {
		return nil, govern.ErrInsufficientWeight
	}

	return p, e.storeCommit(p, &govern.VoterRecord{
		Voter:           voter,
		Proposal:        p.ID,
		Commitment:      commitment,
		CapitalWeight:   raw,
		CommunityWeight: govern.Isqrt(raw),
		Keeper:          keeper,
	})
}

// DelegateVote grants the delegator's weight to a delegatee for one
// proposal. Only weight moves: the delegatee picks the vote and salt alone,
// so the delegator learns nothing and reveals nothing.
func (e *Engine) DelegateVote(proposalID, delegator, delegatee ids.ID, now int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.delegateVote(proposalID, delegator, delegatee, now)
	if err := e.seal("delegate_vote", err); err != nil {
		return err
	}
	e.emit(&events.VoteDelegated{
		DAO:       p.DAO,
		Proposal:  p.ID,
		Delegator: delegator,
		Delegatee: delegatee,
	})
	return nil
}

func (e *Engine) delegateVote(proposalID, delegator, delegatee ids.ID, now int64) (*govern.Proposal, error) {
	p, dao, err := e.openForVoting(proposalID, now)
	if err != nil {
		return nil, err
	}

	exists, err := e.store.HasDelegation(p.ID, delegator)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, govern.ErrAlreadyDelegated
	}

	raw, err := e.balances.TokenBalance(dao.GovernanceToken, delegator)
	if err != nil {
		return nil, err
	}
	if raw == 0 {
		return nil, govern.ErrInsufficientWeight
	}

	return p, e.store.PutDelegation(&govern.VoteDelegation{
		Delegator: delegator,
		Delegatee: delegatee,
		Proposal:  p.ID,
		// Rooted per holder: combining after the root keeps a large holder
		// from shrinking its quadratic footprint by routing through a
		// delegatee.
		DelegatedCapital:   raw,
		DelegatedCommunity: govern.Isqrt(raw),
	})
}

// CommitDelegatedVote is CommitVote plus a consumed delegation: the
// delegatee commits its own weight and the delegated weight together. The
// commitment preimage uses the delegatee's identity, so the reveal path is
// identical to an undelegated vote.
func (e *Engine) CommitDelegatedVote(
	proposalID ids.ID,
	delegator ids.ID,
	caller ids.ID,
	commitment ids.ID,
	keeper ids.ID,
	now int64,
) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.commitDelegatedVote(proposalID, delegator, caller, commitment, keeper, now)
	if err := e.seal("commit_delegated_vote", err); err != nil {
		return err
	}
	e.emit(&events.VoteCommitted{
		DAO:      p.DAO,
		Proposal: p.ID,
		Voter:    caller,
	})
	return nil
}

func (e *Engine) commitDelegatedVote(
	proposalID ids.ID,
	delegator ids.ID,
	caller ids.ID,
	commitment ids.ID,
	keeper ids.ID,
	now int64,
) (*govern.Proposal, error) {
	p, dao, err := e.openForVoting(proposalID, now)
	if err != nil {
		return nil, err
	}

	del, err := e.store.GetDelegation(p.ID, delegator)
	if err != nil {
		return nil, err
	}
	switch {
	case del.Delegatee != caller:
		return nil, govern.ErrNotDelegatee
	case del.Proposal != p.ID:
		return nil, govern.ErrWrongProposal
	case del.IsUsed:
		return nil, govern.ErrDelegationUsed
	}

	raw, err := e.balances.TokenBalance(dao.GovernanceToken, caller)
	if err != nil {
		return nil, err
	}
	capital, err := safemath.Add64(raw, del.DelegatedCapital)
	if err != nil {
		return nil, govern.WrapArithmetic(err)
	}
	community, err := safemath.Add64(govern.Isqrt(raw), del.DelegatedCommunity)
	if err != nil {
		return nil, govern.WrapArithmetic(err)
	}

	if err := e.storeCommit(p, &govern.VoterRecord{
		Voter:           caller,
		Proposal:        p.ID,
		Commitment:      commitment,
		CapitalWeight:   capital,
		CommunityWeight: community,
		Keeper:          keeper,
	}); err != nil {
		return nil, err
	}

	del.IsUsed = true
	return p, e.store.PutDelegation(del)
}

// RevealVote discloses a committed vote. The recomputed commitment always
// binds the original voter's identity, keeper or not, so a keeper can only
// submit the vote the voter actually committed to. A fixed rebate pays the
// caller from the proposal's endowment when the reserve allows it.
func (e *Engine) RevealVote(
	proposalID ids.ID,
	caller ids.ID,
	voter ids.ID,
	voteYes bool,
	salt [govern.SaltLength]byte,
	now int64,
) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, rebated, err := e.revealVote(proposalID, caller, voter, voteYes, salt, now)
	if err := e.seal("reveal_vote", err); err != nil {
		return err
	}
	e.emit(&events.VoteRevealed{
		DAO:      p.DAO,
		Proposal: p.ID,
		Voter:    voter,
		VotedYes: voteYes,
		Rebated:  rebated,
	})
	return nil
}

func (e *Engine) revealVote(
	proposalID ids.ID,
	caller ids.ID,
	voter ids.ID,
	voteYes bool,
	salt [govern.SaltLength]byte,
	now int64,
) (*govern.Proposal, bool, error) {
	p, err := e.store.GetProposal(proposalID)
	if err != nil {
		return nil, false, err
	}
	if now < p.VotingEnd {
		return nil, false, govern.ErrRevealTooEarly
	}
	if now >= p.RevealEnd {
		return nil, false, govern.ErrRevealClosed
	}

	vr, err := e.store.GetVoterRecord(p.ID, voter)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, false, govern.ErrNotCommitted
		}
		return nil, false, err
	}
	switch {
	case !vr.HasCommitted:
		return nil, false, govern.ErrNotCommitted
	case vr.HasRevealed:
		return nil, false, govern.ErrAlreadyRevealed
	case !vr.CanReveal(caller):
		return nil, false, govern.ErrNotAuthorizedReveal
	}
	if !govern.VerifyCommitment(vr.Commitment, voteYes, salt, vr.Voter) {
		return nil, false, govern.ErrCommitmentMismatch
	}

	if err := p.AddRevealedWeight(voteYes, vr.CapitalWeight, vr.CommunityWeight); err != nil {
		return nil, false, err
	}
	vr.HasRevealed = true
	vr.VotedYes = voteYes

	if err := e.store.PutVoterRecord(vr); err != nil {
		return nil, false, err
	}
	if err := e.store.PutProposal(p); err != nil {
		return nil, false, err
	}

	// Best effort: the reveal is the essential effect, the rebate degrades
	// to nothing when the endowment cannot keep its reserve.
	rebated := false
	balance, err := e.ledger.Balance(p.ID)
	if err != nil {
		return nil, false, err
	}
	if balance > e.cfg.RevealRebate+e.cfg.RebateReserve {
		if err := e.ledger.Transfer(p.ID, caller, e.cfg.RevealRebate); err != nil {
			return nil, false, err
		}
		rebated = true
	}
	return p, rebated, nil
}

// CommittedWeight reports a voter's committed quadratic weight for a
// proposal, or zero when nothing was committed. Read-only.
func (e *Engine) CommittedWeight(proposalID, voter ids.ID) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	vr, err := e.store.GetVoterRecord(proposalID, voter)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	if !vr.HasCommitted {
		return 0, nil
	}
	return vr.CommunityWeight, nil
}

// openForVoting loads a proposal and its DAO and checks the commit-phase
// window.
func (e *Engine) openForVoting(proposalID ids.ID, now int64) (*govern.Proposal, *govern.DAO, error) {
	p, err := e.store.GetProposal(proposalID)
	if err != nil {
		return nil, nil, err
	}
	if p.Status != types.StatusVoting {
		return nil, nil, govern.ErrVotingNotOpen
	}
	if now >= p.VotingEnd {
		return nil, nil, govern.ErrVotingClosed
	}
	dao, err := e.store.GetDAO(p.DAO)
	if err != nil {
		return nil, nil, err
	}
	return p, dao, nil
}

// storeCommit writes a fresh voter record and bumps the proposal's commit
// count. Fails when the voter already committed.
func (e *Engine) storeCommit(p *govern.Proposal, vr *govern.VoterRecord) error {
	exists, err := e.store.HasVoterRecord(p.ID, vr.Voter)
	if err != nil {
		return err
	}
	if exists {
		return govern.ErrAlreadyCommitted
	}

	vr.HasCommitted = true
	p.CommitCount, err = safemath.Add64(p.CommitCount, 1)
	if err != nil {
		return govern.WrapArithmetic(err)
	}

	if err := e.store.PutVoterRecord(vr); err != nil {
		return err
	}
	return e.store.PutProposal(p)
}
