// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package govern

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ids"

	"github.com/luxfi/daovm/types"
)

func TestDAOCodec(t *testing.T) {
	require := require.New(t)

	dao, err := NewDAO(
		ids.GenerateTestID(),
		"engineering",
		ids.GenerateTestID(),
		66,
		1_000,
		120,
		86_400,
		types.VotingConfig{
			Mode:               types.DualChamber,
			CapitalThreshold:   60,
			CommunityThreshold: 40,
		},
		ids.Empty,
	)
	require.NoError(err)
	dao.ProposalCount = 7

	b, err := dao.Bytes()
	require.NoError(err)
	require.Len(b, DAOLen)

	parsed, err := ParseDAO(b)
	require.NoError(err)
	require.Equal(dao, parsed)
	require.Equal(dao.ID, parsed.ID)
}

func TestDAOCodecProvenance(t *testing.T) {
	require := require.New(t)

	migratedFrom := ids.GenerateTestID()
	dao, err := NewDAO(
		ids.GenerateTestID(),
		"migrated",
		ids.GenerateTestID(),
		50,
		0,
		60,
		0,
		types.VotingConfig{Mode: types.Quadratic},
		migratedFrom,
	)
	require.NoError(err)

	b, err := dao.Bytes()
	require.NoError(err)
	require.Len(b, DAOLen)

	parsed, err := ParseDAO(b)
	require.NoError(err)
	require.Equal(migratedFrom, parsed.MigratedFrom)
}

func TestProposalCodec(t *testing.T) {
	require := require.New(t)

	dao := newTestDAO(t, types.VotingConfig{Mode: types.TokenWeighted}, 50)
	p, err := NewProposal(dao, ids.GenerateTestID(), "upgrade", "switch the runtime", 300, &types.TreasuryAction{
		Kind:      types.SendToken,
		Amount:    500,
		Recipient: ids.GenerateTestID(),
		Token:     ids.GenerateTestID(),
	}, 1_000)
	require.NoError(err)

	// Walk the proposal partway through its lifecycle before serializing
	p.CommitCount = 3
	require.NoError(p.AddRevealedWeight(true, 100, 10))
	require.NoError(p.AddRevealedWeight(false, 25, 5))

	b, err := p.Bytes()
	require.NoError(err)
	require.Len(b, ProposalLen)

	parsed, err := ParseProposal(b)
	require.NoError(err)
	require.Equal(p, parsed)

	// An action-less proposal parses with a nil action
	p2, err := NewProposal(dao, ids.GenerateTestID(), "signal", "", 300, nil, 1_000)
	require.NoError(err)
	b2, err := p2.Bytes()
	require.NoError(err)
	require.Len(b2, ProposalLen)
	parsed2, err := ParseProposal(b2)
	require.NoError(err)
	require.Nil(parsed2.Action)
	require.Equal(p2, parsed2)
}

func TestVoterRecordCodec(t *testing.T) {
	require := require.New(t)

	vr := &VoterRecord{
		Voter:           ids.GenerateTestID(),
		Proposal:        ids.GenerateTestID(),
		Commitment:      ids.GenerateTestID(),
		CapitalWeight:   10_000,
		CommunityWeight: 100,
		HasCommitted:    true,
		Keeper:          ids.GenerateTestID(),
	}

	b, err := vr.Bytes()
	require.NoError(err)
	require.Len(b, VoterRecordLen)

	parsed, err := ParseVoterRecord(b)
	require.NoError(err)
	require.Equal(vr, parsed)

	// Without a keeper
	vr.Keeper = ids.Empty
	vr.HasRevealed = true
	vr.VotedYes = true
	b, err = vr.Bytes()
	require.NoError(err)
	parsed, err = ParseVoterRecord(b)
	require.NoError(err)
	require.Equal(vr, parsed)
}

func TestDelegationCodec(t *testing.T) {
	require := require.New(t)

	d := &VoteDelegation{
		Delegator:          ids.GenerateTestID(),
		Delegatee:          ids.GenerateTestID(),
		Proposal:           ids.GenerateTestID(),
		DelegatedCapital:   4_000_000,
		DelegatedCommunity: 2_000,
		IsUsed:             true,
	}

	b, err := d.Bytes()
	require.NoError(err)
	require.Len(b, DelegationLen)

	parsed, err := ParseDelegation(b)
	require.NoError(err)
	require.Equal(d, parsed)
}

func TestParseRejectsCorruptRecords(t *testing.T) {
	require := require.New(t)

	dao := newTestDAO(t, types.VotingConfig{Mode: types.TokenWeighted}, 50)
	b, err := dao.Bytes()
	require.NoError(err)

	// Wrong codec version
	bad := make([]byte, len(b))
	copy(bad, b)
	bad[0], bad[1] = 0xff, 0xff
	_, err = ParseDAO(bad)
	require.ErrorIs(err, errWrongCodecVersion)

	// Truncated record
	_, err = ParseDAO(b[:len(b)-1])
	require.Error(err)

	// Trailing bytes
	_, err = ParseDAO(append(b, 0))
	require.ErrorIs(err, errTrailingBytes)
}
