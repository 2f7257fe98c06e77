// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package types defines the closed variant types shared across the governance
// VM: voting modes, proposal lifecycle states, and guarded treasury actions.
package types

import (
	"errors"
	"fmt"

	"github.com/luxfi/ids"
)

var (
	ErrInvalidThreshold      = errors.New("threshold must be 1-100")
	ErrUnknownVotingMode     = errors.New("unknown voting mode")
	ErrUnknownActionKind     = errors.New("unknown treasury action kind")
	ErrInvalidTreasuryAction = errors.New("treasury action payload is invalid")
	ErrTokenRequired         = errors.New("send-token action requires a token")
)

// VotingMode selects how revealed weight decides a proposal.
type VotingMode uint8

const (
	// TokenWeighted counts raw token balance: one token, one vote.
	TokenWeighted VotingMode = iota
	// Quadratic counts the floor square root of token balance.
	Quadratic
	// DualChamber requires the token-weighted chamber AND the quadratic
	// chamber to independently clear their configured thresholds.
	DualChamber
)

func (m VotingMode) String() string {
	switch m {
	case TokenWeighted:
		return "token_weighted"
	case Quadratic:
		return "quadratic"
	case DualChamber:
		return "dual_chamber"
	default:
		return "unknown"
	}
}

// VotingConfig is a DAO's voting mode plus the chamber thresholds used by
// DualChamber. Thresholds are percentages in [1,100] and are meaningful only
// when Mode is DualChamber.
type VotingConfig struct {
	Mode               VotingMode `json:"mode"`
	CapitalThreshold   uint8      `json:"capitalThreshold,omitempty"`
	CommunityThreshold uint8      `json:"communityThreshold,omitempty"`
}

// Verify checks the config's shape invariants.
func (c VotingConfig) Verify() error {
	switch c.Mode {
	case TokenWeighted, Quadratic:
		return nil
	case DualChamber:
		if c.CapitalThreshold == 0 || c.CapitalThreshold > 100 {
			return fmt.Errorf("%w: capital threshold %d", ErrInvalidThreshold, c.CapitalThreshold)
		}
		if c.CommunityThreshold == 0 || c.CommunityThreshold > 100 {
			return fmt.Errorf("%w: community threshold %d", ErrInvalidThreshold, c.CommunityThreshold)
		}
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrUnknownVotingMode, c.Mode)
	}
}

// ProposalStatus is a proposal's lifecycle state. Passed-and-executed,
// Failed, Cancelled and Vetoed are terminal.
type ProposalStatus uint8

const (
	StatusVoting ProposalStatus = iota
	StatusPassed
	StatusFailed
	StatusCancelled
	StatusVetoed
)

func (s ProposalStatus) String() string {
	switch s {
	case StatusVoting:
		return "voting"
	case StatusPassed:
		return "passed"
	case StatusFailed:
		return "failed"
	case StatusCancelled:
		return "cancelled"
	case StatusVetoed:
		return "vetoed"
	default:
		return "unknown"
	}
}

// TreasuryActionKind is the kind of guarded treasury action a proposal may
// carry.
type TreasuryActionKind uint8

const (
	// SendNative transfers native units from the DAO treasury.
	SendNative TreasuryActionKind = iota
	// SendToken transfers token units from the DAO treasury.
	SendToken
	// CustomCall carries no value; execution only emits the event for an
	// off-engine relayer to act on.
	CustomCall
)

func (k TreasuryActionKind) String() string {
	switch k {
	case SendNative:
		return "send_native"
	case SendToken:
		return "send_token"
	case CustomCall:
		return "custom_call"
	default:
		return "unknown"
	}
}

// TreasuryAction is the payload fixed at proposal creation and released only
// by a passed, unlocked, unvetoed proposal.
type TreasuryAction struct {
	Kind      TreasuryActionKind `json:"kind"`
	Amount    uint64             `json:"amount"`
	Recipient ids.ID             `json:"recipient"`
	// Token is the token to move for SendToken and must be empty otherwise.
	Token ids.ID `json:"token,omitempty"`
}

// Verify checks the action-kind shape invariants. It runs at proposal
// creation and again at execution.
func (a *TreasuryAction) Verify() error {
	if a.Recipient == ids.Empty {
		return fmt.Errorf("%w: empty recipient", ErrInvalidTreasuryAction)
	}
	switch a.Kind {
	case SendNative:
		if a.Amount == 0 {
			return fmt.Errorf("%w: zero amount", ErrInvalidTreasuryAction)
		}
		if a.Token != ids.Empty {
			return fmt.Errorf("%w: native send carries a token", ErrInvalidTreasuryAction)
		}
	case SendToken:
		if a.Amount == 0 {
			return fmt.Errorf("%w: zero amount", ErrInvalidTreasuryAction)
		}
		if a.Token == ids.Empty {
			return ErrTokenRequired
		}
	case CustomCall:
		if a.Amount != 0 {
			return fmt.Errorf("%w: custom call must carry zero amount", ErrInvalidTreasuryAction)
		}
		if a.Token != ids.Empty {
			return fmt.Errorf("%w: custom call carries a token", ErrInvalidTreasuryAction)
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownActionKind, a.Kind)
	}
	return nil
}
