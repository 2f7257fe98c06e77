// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package treasury tracks native and token balances and performs the value
// transfers that the governance engine authorizes: proposal endowments,
// reveal rebates, treasury deposits, and guarded treasury actions. The engine
// owns all authorization logic; this package only moves units.
package treasury

import (
	"errors"
	"fmt"
	"sync"

	"github.com/luxfi/database"
	"github.com/luxfi/database/prefixdb"
	"github.com/luxfi/ids"
	safemath "github.com/luxfi/math"

	"github.com/luxfi/daovm/types"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnsupportedAction = errors.New("unsupported treasury action")

	nativePrefix = []byte("native")
	tokenPrefix  = []byte("token")
)

// Ledger is a persistent balance ledger. Native balances are keyed by
// account identity; token balances by (token, owner). Missing keys read as
// zero.
type Ledger struct {
	mu sync.RWMutex

	nativeDB database.Database
	tokenDB  database.Database
}

// New creates a ledger over db.
func New(db database.Database) *Ledger {
	return &Ledger{
		nativeDB: prefixdb.New(nativePrefix, db),
		tokenDB:  prefixdb.New(tokenPrefix, db),
	}
}

// Balance returns acct's native balance.
func (l *Ledger) Balance(acct ids.ID) (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.get(l.nativeDB, acct[:])
}

// Credit adds amount to acct's native balance.
func (l *Ledger) Credit(acct ids.ID, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	balance, err := l.get(l.nativeDB, acct[:])
	if err != nil {
		return err
	}
	newBalance, err := safemath.Add64(balance, amount)
	if err != nil {
		return err
	}
	return l.put(l.nativeDB, acct[:], newBalance)
}

// Transfer moves amount of native units from one account to another.
func (l *Ledger) Transfer(from, to ids.ID, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	fromBalance, err := l.get(l.nativeDB, from[:])
	if err != nil {
		return err
	}
	if fromBalance < amount {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientFunds, fromBalance, amount)
	}
	toBalance, err := l.get(l.nativeDB, to[:])
	if err != nil {
		return err
	}
	newToBalance, err := safemath.Add64(toBalance, amount)
	if err != nil {
		return err
	}
	if err := l.put(l.nativeDB, from[:], fromBalance-amount); err != nil {
		return err
	}
	return l.put(l.nativeDB, to[:], newToBalance)
}

// TokenBalance returns owner's balance of token. This is the balance source
// the engine snapshots voting weight from.
func (l *Ledger) TokenBalance(token, owner ids.ID) (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.get(l.tokenDB, pairKey(token, owner))
}

// SetTokenBalance overwrites owner's balance of token. It is the sync point
// for an external token ledger.
func (l *Ledger) SetTokenBalance(token, owner ids.ID, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.put(l.tokenDB, pairKey(token, owner), amount)
}

// TransferToken moves amount of token from one owner to another.
func (l *Ledger) TransferToken(token, from, to ids.ID, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	fromBalance, err := l.get(l.tokenDB, pairKey(token, from))
	if err != nil {
		return err
	}
	if fromBalance < amount {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientFunds, fromBalance, amount)
	}
	toBalance, err := l.get(l.tokenDB, pairKey(token, to))
	if err != nil {
		return err
	}
	newToBalance, err := safemath.Add64(toBalance, amount)
	if err != nil {
		return err
	}
	if err := l.put(l.tokenDB, pairKey(token, from), fromBalance-amount); err != nil {
		return err
	}
	return l.put(l.tokenDB, pairKey(token, to), newToBalance)
}

// ExecuteAction performs a validated treasury action out of the treasury
// account. Authorization has already happened upstream; CustomCall moves no
// value here, an off-engine relayer acts on the emitted event.
func (l *Ledger) ExecuteAction(treasury ids.ID, action *types.TreasuryAction) error {
	switch action.Kind {
	case types.SendNative:
		return l.Transfer(treasury, action.Recipient, action.Amount)
	case types.SendToken:
		return l.TransferToken(action.Token, treasury, action.Recipient, action.Amount)
	case types.CustomCall:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedAction, action.Kind)
	}
}

func (l *Ledger) get(db database.Database, key []byte) (uint64, error) {
	b, err := db.Get(key)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return database.ParseUInt64(b)
}

func (l *Ledger) put(db database.Database, key []byte, amount uint64) error {
	return db.Put(key, database.PackUInt64(amount))
}

func pairKey(a, b ids.ID) []byte {
	key := make([]byte, 0, 2*ids.IDLen)
	key = append(key, a[:]...)
	return append(key, b[:]...)
}
