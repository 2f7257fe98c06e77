// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package govern

import (
	"errors"
	"fmt"
)

// Error categories. Every specific error below wraps exactly one category, so
// callers can classify failures with errors.Is against the category while the
// message names the precise cause.
var (
	ErrValidation     = errors.New("validation failed")
	ErrState          = errors.New("operation not valid in current state")
	ErrAuthorization  = errors.New("caller not authorized")
	ErrCryptoMismatch = errors.New("commitment verification failed")
	ErrDuplicate      = errors.New("duplicate operation")
	ErrWindow         = errors.New("operation outside its time window")
	ErrArithmetic     = errors.New("arithmetic overflow")
)

var (
	ErrNameTooLong            = fmt.Errorf("%w: DAO name max %d chars", ErrValidation, MaxNameLen)
	ErrInvalidQuorum          = fmt.Errorf("%w: quorum must be 1-100", ErrValidation)
	ErrRevealWindowTooShort   = fmt.Errorf("%w: reveal window too short", ErrValidation)
	ErrInvalidExecutionDelay  = fmt.Errorf("%w: execution delay must be non-negative", ErrValidation)
	ErrTitleTooLong           = fmt.Errorf("%w: title max %d chars", ErrValidation, MaxTitleLen)
	ErrDescriptionTooLong     = fmt.Errorf("%w: description max %d chars", ErrValidation, MaxDescriptionLen)
	ErrVotingDurationTooShort = fmt.Errorf("%w: voting duration too short", ErrValidation)
	ErrInsufficientWeight     = fmt.Errorf("%w: not enough governance tokens", ErrValidation)
	ErrWrongProposal          = fmt.Errorf("%w: delegation belongs to a different proposal", ErrValidation)
	ErrRecipientMismatch      = fmt.Errorf("%w: target does not match action recipient", ErrValidation)

	ErrVotingNotOpen    = fmt.Errorf("%w: voting is not open", ErrState)
	ErrNotCancellable   = fmt.Errorf("%w: only voting proposals can be cancelled", ErrState)
	ErrNotPassed        = fmt.Errorf("%w: proposal did not pass", ErrState)
	ErrAlreadyFinalized = fmt.Errorf("%w: proposal already finalized", ErrState)
	ErrAlreadyExecuted  = fmt.Errorf("%w: treasury action already executed", ErrState)
	ErrNotCommitted     = fmt.Errorf("%w: no commitment found for this voter", ErrState)
	ErrRevealTooEarly   = fmt.Errorf("%w: reveal phase has not started", ErrState)

	ErrNotAuthority         = fmt.Errorf("%w: caller is not the DAO authority", ErrAuthorization)
	ErrNotAuthorizedReveal  = fmt.Errorf("%w: caller may not reveal this vote", ErrAuthorization)
	ErrNotDelegatee         = fmt.Errorf("%w: caller is not the designated delegatee", ErrAuthorization)

	ErrCommitmentMismatch = fmt.Errorf("%w: recomputed commitment differs from stored", ErrCryptoMismatch)

	ErrDAOExists        = fmt.Errorf("%w: DAO with this authority and name exists", ErrDuplicate)
	ErrAlreadyCommitted = fmt.Errorf("%w: voter already committed", ErrDuplicate)
	ErrAlreadyRevealed  = fmt.Errorf("%w: vote already revealed", ErrDuplicate)
	ErrDelegationUsed   = fmt.Errorf("%w: delegation already consumed", ErrDuplicate)
	ErrAlreadyDelegated = fmt.Errorf("%w: delegator already delegated for this proposal", ErrDuplicate)

	ErrVotingClosed      = fmt.Errorf("%w: voting period has closed", ErrWindow)
	ErrRevealClosed      = fmt.Errorf("%w: reveal window has closed", ErrWindow)
	ErrRevealStillOpen   = fmt.Errorf("%w: reveal phase is still open", ErrWindow)
	ErrTimelockActive    = fmt.Errorf("%w: execution timelock has not expired", ErrWindow)
	ErrVetoWindowExpired = fmt.Errorf("%w: veto window has expired", ErrWindow)
)

// errValidation folds a shape error from another package into the validation
// category without losing the original sentinel.
func errValidation(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

// errArithmetic folds a checked-math failure into the arithmetic category.
func errArithmetic(err error) error {
	return fmt.Errorf("%w: %w", ErrArithmetic, err)
}

// WrapArithmetic tags a checked-math failure from another package with the
// arithmetic category.
func WrapArithmetic(err error) error {
	return errArithmetic(err)
}
