// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"errors"

	"github.com/luxfi/ids"
	safemath "github.com/luxfi/math"

	"github.com/luxfi/daovm/events"
	"github.com/luxfi/daovm/govern"
	"github.com/luxfi/daovm/types"
)

var errUnlockOverflow = errors.New("execution unlock time overflows")

// CreateProposal opens a new proposal against a DAO. The proposer funds the
// proposal's account with a fixed endowment that later pays reveal rebates.
func (e *Engine) CreateProposal(
	daoID ids.ID,
	proposer ids.ID,
	title string,
	description string,
	votingDurationSeconds int64,
	action *types.TreasuryAction,
	now int64,
) (*govern.Proposal, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.createProposal(daoID, proposer, title, description, votingDurationSeconds, action, now)
	if err := e.seal("create_proposal", err); err != nil {
		return nil, err
	}
	e.emit(&events.ProposalCreated{
		DAO:       p.DAO,
		Proposal:  p.ID,
		Proposer:  p.Proposer,
		Index:     p.Index,
		VotingEnd: p.VotingEnd,
		RevealEnd: p.RevealEnd,
	})
	return p, nil
}

func (e *Engine) createProposal(
	daoID ids.ID,
	proposer ids.ID,
	title string,
	description string,
	votingDurationSeconds int64,
	action *types.TreasuryAction,
	now int64,
) (*govern.Proposal, error) {
	dao, err := e.store.GetDAO(daoID)
	if err != nil {
		return nil, err
	}
	p, err := govern.NewProposal(dao, proposer, title, description, votingDurationSeconds, action, now)
	if err != nil {
		return nil, err
	}
	if err := e.ledger.Transfer(proposer, p.ID, e.cfg.ProposalEndowment); err != nil {
		return nil, err
	}

	dao.ProposalCount, err = safemath.Add64(dao.ProposalCount, 1)
	if err != nil {
		return nil, govern.WrapArithmetic(err)
	}

	if err := e.store.PutDAO(dao); err != nil {
		return nil, err
	}
	return p, e.store.PutProposal(p)
}

// CancelProposal cancels a proposal that is still voting. Authority only;
// the escape hatch for mistakes or security issues caught before reveals.
func (e *Engine) CancelProposal(proposalID, caller ids.ID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.cancelProposal(proposalID, caller)
	if err := e.seal("cancel_proposal", err); err != nil {
		return err
	}
	e.emit(&events.ProposalCancelled{
		DAO:      p.DAO,
		Proposal: p.ID,
	})
	return nil
}

func (e *Engine) cancelProposal(proposalID, caller ids.ID) (*govern.Proposal, error) {
	p, err := e.store.GetProposal(proposalID)
	if err != nil {
		return nil, err
	}
	dao, err := e.store.GetDAO(p.DAO)
	if err != nil {
		return nil, err
	}
	if caller != dao.Authority {
		return nil, govern.ErrNotAuthority
	}
	if p.Status != types.StatusVoting {
		return nil, govern.ErrNotCancellable
	}
	p.Status = types.StatusCancelled
	return p, e.store.PutProposal(p)
}

// VetoProposal blocks a passed proposal during its timelock. Authority only;
// impossible once the timelock has expired or the action has executed.
func (e *Engine) VetoProposal(proposalID, caller ids.ID, now int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.vetoProposal(proposalID, caller, now)
	if err := e.seal("veto_proposal", err); err != nil {
		return err
	}
	e.emit(&events.ProposalVetoed{
		DAO:      p.DAO,
		Proposal: p.ID,
	})
	return nil
}

func (e *Engine) vetoProposal(proposalID, caller ids.ID, now int64) (*govern.Proposal, error) {
	p, err := e.store.GetProposal(proposalID)
	if err != nil {
		return nil, err
	}
	dao, err := e.store.GetDAO(p.DAO)
	if err != nil {
		return nil, err
	}
	switch {
	case caller != dao.Authority:
		return nil, govern.ErrNotAuthority
	case p.Status != types.StatusPassed:
		return nil, govern.ErrNotPassed
	case p.IsExecuted:
		return nil, govern.ErrAlreadyExecuted
	case now >= p.ExecutionUnlocksAt:
		return nil, govern.ErrVetoWindowExpired
	}
	p.Status = types.StatusVetoed
	return p, e.store.PutProposal(p)
}

// FinalizeProposal closes a proposal after its reveal window and records the
// outcome. Permissionless; idempotency comes from the status transition.
func (e *Engine) FinalizeProposal(proposalID ids.ID, now int64) (*govern.Proposal, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, result, err := e.finalizeProposal(proposalID, now)
	if err := e.seal("finalize_proposal", err); err != nil {
		return nil, err
	}
	e.emit(&events.ProposalFinalized{
		DAO:            p.DAO,
		Proposal:       p.ID,
		Status:         p.Status,
		CapitalYes:     p.YesCapital,
		CapitalNo:      p.NoCapital,
		CommunityYes:   p.YesCommunity,
		CommunityNo:    p.NoCommunity,
		CommitCount:    p.CommitCount,
		RevealCount:    p.RevealCount,
		QuorumMet:      result.QuorumMet,
		ExecutionAfter: p.ExecutionUnlocksAt,
	})
	return p, nil
}

func (e *Engine) finalizeProposal(proposalID ids.ID, now int64) (*govern.Proposal, govern.TallyResult, error) {
	p, err := e.store.GetProposal(proposalID)
	if err != nil {
		return nil, govern.TallyResult{}, err
	}
	if now < p.RevealEnd {
		return nil, govern.TallyResult{}, govern.ErrRevealStillOpen
	}
	if p.Status != types.StatusVoting {
		return nil, govern.TallyResult{}, govern.ErrAlreadyFinalized
	}
	dao, err := e.store.GetDAO(p.DAO)
	if err != nil {
		return nil, govern.TallyResult{}, err
	}

	result := govern.EvaluateTally(dao, p)
	if result.Passed {
		p.Status = types.StatusPassed
		// ExecutionDelay is non-negative, so a wrapped sum is detectable.
		p.ExecutionUnlocksAt = now + dao.ExecutionDelay
		if p.ExecutionUnlocksAt < now {
			return nil, govern.TallyResult{}, govern.WrapArithmetic(errUnlockOverflow)
		}
	} else {
		p.Status = types.StatusFailed
	}
	return p, result, e.store.PutProposal(p)
}

// ExecuteProposal releases a passed proposal's treasury action after the
// timelock. Permissionless. The caller names the target it expects the action
// to pay, and execution refuses if the fixed payload disagrees. The executed
// flag flips before any value moves, so a retry can never pay twice.
func (e *Engine) ExecuteProposal(proposalID, target ids.ID, now int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.executeProposal(proposalID, target, now)
	if err := e.seal("execute_proposal", err); err != nil {
		return err
	}
	if p.Action != nil {
		e.emit(&events.TreasuryExecuted{
			DAO:        p.DAO,
			Proposal:   p.ID,
			ActionKind: p.Action.Kind,
			Amount:     p.Action.Amount,
			Recipient:  p.Action.Recipient,
			Token:      p.Action.Token,
		})
	}
	return nil
}

func (e *Engine) executeProposal(proposalID, target ids.ID, now int64) (*govern.Proposal, error) {
	p, err := e.store.GetProposal(proposalID)
	if err != nil {
		return nil, err
	}
	switch {
	case p.Status != types.StatusPassed:
		return nil, govern.ErrNotPassed
	case p.IsExecuted:
		return nil, govern.ErrAlreadyExecuted
	case now < p.ExecutionUnlocksAt:
		return nil, govern.ErrTimelockActive
	}

	p.IsExecuted = true
	if err := e.store.PutProposal(p); err != nil {
		return nil, err
	}

	if p.Action == nil {
		return p, nil
	}
	if target != p.Action.Recipient {
		return nil, govern.ErrRecipientMismatch
	}
	if err := p.Action.Verify(); err != nil {
		return nil, err
	}
	return p, e.ledger.ExecuteAction(govern.TreasuryID(p.DAO), p.Action)
}
