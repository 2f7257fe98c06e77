// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"errors"

	"github.com/luxfi/database"
	"github.com/luxfi/ids"

	"github.com/luxfi/daovm/events"
	"github.com/luxfi/daovm/govern"
	"github.com/luxfi/daovm/types"
)

// DAOParams are the caller-supplied fields of a new DAO.
type DAOParams struct {
	Authority       ids.ID
	Name            string
	GovernanceToken ids.ID
	QuorumPct       uint8
	RequiredBalance uint64
	RevealWindow    int64
	ExecutionDelay  int64
	Voting          types.VotingConfig
}

// CreateDAO creates a new governance instance. The DAO's identity is derived
// from (authority, name), so the same authority cannot create two DAOs with
// the same name.
func (e *Engine) CreateDAO(p DAOParams) (*govern.DAO, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	d, err := e.createDAO(p, ids.Empty)
	if err := e.seal("create_dao", err); err != nil {
		return nil, err
	}
	e.emit(&events.DAOCreated{
		DAO:       d.ID,
		Authority: d.Authority,
		Name:      d.Name,
	})
	return d, nil
}

// MigrateDAO mirrors an external governance instance as a new DAO. The
// migration is non-destructive: it records provenance and forces an
// unrestricted minimum balance, nothing else differs from CreateDAO.
func (e *Engine) MigrateDAO(p DAOParams, migratedFrom ids.ID) (*govern.DAO, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p.RequiredBalance = 0
	d, err := e.createDAO(p, migratedFrom)
	if err := e.seal("migrate_dao", err); err != nil {
		return nil, err
	}
	e.emit(&events.DAOMigrated{
		DAO:          d.ID,
		MigratedFrom: migratedFrom,
	})
	return d, nil
}

func (e *Engine) createDAO(p DAOParams, migratedFrom ids.ID) (*govern.DAO, error) {
	d, err := govern.NewDAO(
		p.Authority,
		p.Name,
		p.GovernanceToken,
		p.QuorumPct,
		p.RequiredBalance,
		p.RevealWindow,
		p.ExecutionDelay,
		p.Voting,
		migratedFrom,
	)
	if err != nil {
		return nil, err
	}
	switch _, err := e.store.GetDAO(d.ID); {
	case err == nil:
		return nil, govern.ErrDAOExists
	case !errors.Is(err, database.ErrNotFound):
		return nil, err
	}
	return d, e.store.PutDAO(d)
}
