// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"github.com/luxfi/ids"
)

// FundAccount credits native units to an account. This is the host's entry
// point for minting balance into the engine's ledger; nothing inside the
// engine ever creates value.
func (e *Engine) FundAccount(acct ids.ID, amount uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seal("fund_account", e.ledger.Credit(acct, amount))
}

// SetTokenBalance mirrors an owner's balance of a governance token from the
// host's token ledger. Weight snapshots read these balances.
func (e *Engine) SetTokenBalance(token, owner ids.ID, amount uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seal("set_token_balance", e.ledger.SetTokenBalance(token, owner, amount))
}

// Balance reports an account's native balance. Read-only.
func (e *Engine) Balance(acct ids.ID) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Balance(acct)
}
