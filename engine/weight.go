// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"github.com/luxfi/ids"

	"github.com/luxfi/daovm/events"
	"github.com/luxfi/daovm/govern"
	"github.com/luxfi/daovm/realms"
	"github.com/luxfi/daovm/types"
)

// SyncVoterWeight refreshes the externally consumed voter weight record for
// one owner under a realm. The weight is the owner's current balance shaped
// by the DAO's voting mode, and it expires shortly after issuance so
// consumers never trust a stale snapshot.
func (e *Engine) SyncVoterWeight(realm, daoID, owner ids.ID, now int64) (*realms.VoterWeightRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	record, err := e.syncVoterWeight(realm, daoID, owner, now)
	if err := e.seal("sync_voter_weight", err); err != nil {
		return nil, err
	}
	e.emit(&events.VoterWeightSynced{
		DAO:    daoID,
		Owner:  owner,
		Weight: record.Weight,
	})
	return record, nil
}

func (e *Engine) syncVoterWeight(realm, daoID, owner ids.ID, now int64) (*realms.VoterWeightRecord, error) {
	dao, err := e.store.GetDAO(daoID)
	if err != nil {
		return nil, err
	}
	raw, err := e.balances.TokenBalance(dao.GovernanceToken, owner)
	if err != nil {
		return nil, err
	}

	weight := raw
	switch dao.Voting.Mode {
	case types.Quadratic, types.DualChamber:
		weight = govern.Isqrt(raw)
	}

	record := &realms.VoterWeightRecord{
		Realm:     realm,
		Mint:      dao.GovernanceToken,
		Owner:     owner,
		Weight:    weight,
		HasExpiry: true,
		Expiry:    uint64(now) + e.cfg.WeightExpiryOffset,
	}
	b, err := record.Bytes()
	if err != nil {
		return nil, err
	}
	return record, e.store.PutVoterWeight(realm, dao.GovernanceToken, owner, b)
}

// GetVoterWeight returns the last synced weight record for (realm, mint,
// owner). Read-only.
func (e *Engine) GetVoterWeight(realm, mint, owner ids.ID) (*realms.VoterWeightRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, err := e.store.GetVoterWeight(realm, mint, owner)
	if err != nil {
		return nil, err
	}
	return realms.Parse(b)
}
