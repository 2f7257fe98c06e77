// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/database"
	"github.com/luxfi/database/memdb"
	"github.com/luxfi/ids"

	"github.com/luxfi/daovm/govern"
	"github.com/luxfi/daovm/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(memdb.New())
}

func TestStoreDAO(t *testing.T) {
	require := require.New(t)
	s := newTestStore(t)

	dao, err := govern.NewDAO(
		ids.GenerateTestID(),
		"ops",
		ids.GenerateTestID(),
		50,
		0,
		60,
		0,
		types.VotingConfig{Mode: types.TokenWeighted},
		ids.Empty,
	)
	require.NoError(err)

	_, err = s.GetDAO(dao.ID)
	require.ErrorIs(err, database.ErrNotFound)

	require.NoError(s.PutDAO(dao))

	got, err := s.GetDAO(dao.ID)
	require.NoError(err)
	require.Equal(dao, got)

	// Overwrite with a bumped proposal count
	dao.ProposalCount++
	require.NoError(s.PutDAO(dao))
	got, err = s.GetDAO(dao.ID)
	require.NoError(err)
	require.Equal(uint64(1), got.ProposalCount)
}

func TestStoreProposal(t *testing.T) {
	require := require.New(t)
	s := newTestStore(t)

	dao, err := govern.NewDAO(
		ids.GenerateTestID(),
		"ops",
		ids.GenerateTestID(),
		50,
		0,
		60,
		0,
		types.VotingConfig{Mode: types.TokenWeighted},
		ids.Empty,
	)
	require.NoError(err)

	p, err := govern.NewProposal(dao, ids.GenerateTestID(), "t", "d", 300, nil, 1_000)
	require.NoError(err)

	_, err = s.GetProposal(p.ID)
	require.ErrorIs(err, database.ErrNotFound)

	require.NoError(s.PutProposal(p))
	got, err := s.GetProposal(p.ID)
	require.NoError(err)
	require.Equal(p, got)
}

func TestStoreVoterRecord(t *testing.T) {
	require := require.New(t)
	s := newTestStore(t)

	proposal := ids.GenerateTestID()
	voter := ids.GenerateTestID()

	has, err := s.HasVoterRecord(proposal, voter)
	require.NoError(err)
	require.False(has)

	vr := &govern.VoterRecord{
		Voter:           voter,
		Proposal:        proposal,
		Commitment:      ids.GenerateTestID(),
		CapitalWeight:   100,
		CommunityWeight: 10,
		HasCommitted:    true,
	}
	require.NoError(s.PutVoterRecord(vr))

	has, err = s.HasVoterRecord(proposal, voter)
	require.NoError(err)
	require.True(has)

	got, err := s.GetVoterRecord(proposal, voter)
	require.NoError(err)
	require.Equal(vr, got)

	// Keyed per (proposal, voter): the same voter on another proposal is
	// absent
	_, err = s.GetVoterRecord(ids.GenerateTestID(), voter)
	require.ErrorIs(err, database.ErrNotFound)
}

func TestStoreDelegation(t *testing.T) {
	require := require.New(t)
	s := newTestStore(t)

	proposal := ids.GenerateTestID()
	delegator := ids.GenerateTestID()

	has, err := s.HasDelegation(proposal, delegator)
	require.NoError(err)
	require.False(has)

	d := &govern.VoteDelegation{
		Delegator:          delegator,
		Delegatee:          ids.GenerateTestID(),
		Proposal:           proposal,
		DelegatedCapital:   400,
		DelegatedCommunity: 20,
	}
	require.NoError(s.PutDelegation(d))

	has, err = s.HasDelegation(proposal, delegator)
	require.NoError(err)
	require.True(has)

	got, err := s.GetDelegation(proposal, delegator)
	require.NoError(err)
	require.Equal(d, got)
}

func TestStoreVoterWeight(t *testing.T) {
	require := require.New(t)
	s := newTestStore(t)

	realm := ids.GenerateTestID()
	mint := ids.GenerateTestID()
	owner := ids.GenerateTestID()

	_, err := s.GetVoterWeight(realm, mint, owner)
	require.ErrorIs(err, database.ErrNotFound)

	record := []byte{1, 2, 3}
	require.NoError(s.PutVoterWeight(realm, mint, owner, record))

	got, err := s.GetVoterWeight(realm, mint, owner)
	require.NoError(err)
	require.Equal(record, got)

	// A different mint under the same realm and owner is a distinct record
	_, err = s.GetVoterWeight(realm, ids.GenerateTestID(), owner)
	require.ErrorIs(err, database.ErrNotFound)
}
