// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"github.com/luxfi/ids"

	"github.com/luxfi/daovm/events"
	"github.com/luxfi/daovm/govern"
)

// DepositTreasury moves native units from a depositor into a DAO's guarded
// treasury. Anyone may fund a treasury; only a passed, unlocked, unvetoed
// proposal ever moves value back out.
func (e *Engine) DepositTreasury(daoID, depositor ids.ID, amount uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.depositTreasury(daoID, depositor, amount)
	if err := e.seal("deposit_treasury", err); err != nil {
		return err
	}
	e.emit(&events.TreasuryDeposit{
		DAO:       daoID,
		Depositor: depositor,
		Amount:    amount,
	})
	return nil
}

func (e *Engine) depositTreasury(daoID, depositor ids.ID, amount uint64) error {
	if _, err := e.store.GetDAO(daoID); err != nil {
		return err
	}
	return e.ledger.Transfer(depositor, govern.TreasuryID(daoID), amount)
}

// TreasuryBalance reports a DAO's guarded treasury balance. Read-only.
func (e *Engine) TreasuryBalance(daoID ids.ID) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Balance(govern.TreasuryID(daoID))
}
