// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package govern

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ids"

	"github.com/luxfi/daovm/types"
)

func newTestDAO(t *testing.T, voting types.VotingConfig, quorumPct uint8) *DAO {
	t.Helper()
	dao, err := NewDAO(
		ids.GenerateTestID(),
		"test-dao",
		ids.GenerateTestID(),
		quorumPct,
		0,
		60,    // reveal window
		3600,  // execution delay
		voting,
		ids.Empty,
	)
	require.NoError(t, err)
	return dao
}

func TestNewDAOValidation(t *testing.T) {
	authority := ids.GenerateTestID()
	token := ids.GenerateTestID()
	voting := types.VotingConfig{Mode: types.TokenWeighted}

	tests := []struct {
		name        string
		daoName     string
		quorumPct   uint8
		revealWin   int64
		execDelay   int64
		voting      types.VotingConfig
		expectedErr error
	}{
		{
			name:      "valid",
			daoName:   "valid",
			quorumPct: 50,
			revealWin: 60,
			voting:    voting,
		},
		{
			name:        "name too long",
			daoName:     strings.Repeat("x", MaxNameLen+1),
			quorumPct:   50,
			revealWin:   60,
			voting:      voting,
			expectedErr: ErrNameTooLong,
		},
		{
			name:        "quorum zero",
			daoName:     "dao",
			quorumPct:   0,
			revealWin:   60,
			voting:      voting,
			expectedErr: ErrInvalidQuorum,
		},
		{
			name:        "quorum over 100",
			daoName:     "dao",
			quorumPct:   101,
			revealWin:   60,
			voting:      voting,
			expectedErr: ErrInvalidQuorum,
		},
		{
			name:        "reveal window too short",
			daoName:     "dao",
			quorumPct:   50,
			revealWin:   MinRevealWindowSeconds - 1,
			voting:      voting,
			expectedErr: ErrRevealWindowTooShort,
		},
		{
			name:        "negative execution delay",
			daoName:     "dao",
			quorumPct:   50,
			revealWin:   60,
			execDelay:   -1,
			voting:      voting,
			expectedErr: ErrInvalidExecutionDelay,
		},
		{
			name:      "dual chamber threshold out of range",
			daoName:   "dao",
			quorumPct: 50,
			revealWin: 60,
			voting: types.VotingConfig{
				Mode:               types.DualChamber,
				CapitalThreshold:   0,
				CommunityThreshold: 50,
			},
			expectedErr: ErrValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			_, err := NewDAO(authority, tt.daoName, token, tt.quorumPct, 0, tt.revealWin, tt.execDelay, tt.voting, ids.Empty)
			require.ErrorIs(err, tt.expectedErr)
		})
	}
}

func TestDerivedIDsAreDeterministic(t *testing.T) {
	require := require.New(t)

	authority := ids.GenerateTestID()
	require.Equal(DAOID(authority, "a"), DAOID(authority, "a"))
	require.NotEqual(DAOID(authority, "a"), DAOID(authority, "b"))
	require.NotEqual(DAOID(authority, "a"), DAOID(ids.GenerateTestID(), "a"))

	dao := DAOID(authority, "a")
	require.Equal(ProposalID(dao, 0), ProposalID(dao, 0))
	require.NotEqual(ProposalID(dao, 0), ProposalID(dao, 1))
	require.NotEqual(TreasuryID(dao), dao)
}

func TestNewProposalValidation(t *testing.T) {
	require := require.New(t)

	dao := newTestDAO(t, types.VotingConfig{Mode: types.TokenWeighted}, 50)
	proposer := ids.GenerateTestID()
	now := int64(1_000_000)

	p, err := NewProposal(dao, proposer, "title", "desc", 300, nil, now)
	require.NoError(err)
	require.Equal(types.StatusVoting, p.Status)
	require.Equal(now+300, p.VotingEnd)
	require.Equal(now+300+dao.RevealWindow, p.RevealEnd)
	require.Zero(p.CommitCount)
	require.Zero(p.ExecutionUnlocksAt)

	_, err = NewProposal(dao, proposer, strings.Repeat("t", MaxTitleLen+1), "", 300, nil, now)
	require.ErrorIs(err, ErrTitleTooLong)

	_, err = NewProposal(dao, proposer, "t", strings.Repeat("d", MaxDescriptionLen+1), 300, nil, now)
	require.ErrorIs(err, ErrDescriptionTooLong)

	_, err = NewProposal(dao, proposer, "t", "d", MinVotingDurationSeconds-1, nil, now)
	require.ErrorIs(err, ErrVotingDurationTooShort)

	// Malformed treasury action is a validation failure
	_, err = NewProposal(dao, proposer, "t", "d", 300, &types.TreasuryAction{
		Kind:      types.SendNative,
		Amount:    0,
		Recipient: ids.GenerateTestID(),
	}, now)
	require.ErrorIs(err, ErrValidation)
}

func TestAddRevealedWeight(t *testing.T) {
	require := require.New(t)

	dao := newTestDAO(t, types.VotingConfig{Mode: types.TokenWeighted}, 50)
	p, err := NewProposal(dao, ids.GenerateTestID(), "t", "d", 300, nil, 0)
	require.NoError(err)

	require.NoError(p.AddRevealedWeight(true, 100, 10))
	require.NoError(p.AddRevealedWeight(false, 40, 6))
	require.NoError(p.AddRevealedWeight(true, 1, 1))

	require.Equal(uint64(101), p.YesCapital)
	require.Equal(uint64(40), p.NoCapital)
	require.Equal(uint64(11), p.YesCommunity)
	require.Equal(uint64(6), p.NoCommunity)
	require.Equal(uint64(3), p.RevealCount)
}

func TestAddRevealedWeightOverflowLeavesTalliesUntouched(t *testing.T) {
	require := require.New(t)

	dao := newTestDAO(t, types.VotingConfig{Mode: types.TokenWeighted}, 50)
	p, err := NewProposal(dao, ids.GenerateTestID(), "t", "d", 300, nil, 0)
	require.NoError(err)

	require.NoError(p.AddRevealedWeight(true, 1<<63, 1))

	err = p.AddRevealedWeight(true, 1<<63, 1)
	require.ErrorIs(err, ErrArithmetic)

	// All-or-nothing: the failed reveal changed nothing
	require.Equal(uint64(1<<63), p.YesCapital)
	require.Equal(uint64(1), p.YesCommunity)
	require.Equal(uint64(1), p.RevealCount)
}

func TestEvaluateTallyQuorum(t *testing.T) {
	require := require.New(t)

	dao := newTestDAO(t, types.VotingConfig{Mode: types.TokenWeighted}, 50)
	p, err := NewProposal(dao, ids.GenerateTestID(), "t", "d", 300, nil, 0)
	require.NoError(err)

	// 4 of 10 revealed at 50% quorum: 400 < 500
	p.CommitCount = 10
	p.RevealCount = 4
	p.YesCapital = 100
	result := EvaluateTally(dao, p)
	require.False(result.QuorumMet)
	require.False(result.Passed)

	// 5 of 10 revealed: 500 >= 500
	p.RevealCount = 5
	result = EvaluateTally(dao, p)
	require.True(result.QuorumMet)
	require.True(result.Passed)

	// No commits never meets quorum
	p.CommitCount = 0
	p.RevealCount = 0
	require.False(EvaluateTally(dao, p).QuorumMet)
}

func TestEvaluateTallyTokenWeighted(t *testing.T) {
	require := require.New(t)

	dao := newTestDAO(t, types.VotingConfig{Mode: types.TokenWeighted}, 1)
	p, err := NewProposal(dao, ids.GenerateTestID(), "t", "d", 300, nil, 0)
	require.NoError(err)
	p.CommitCount = 2
	p.RevealCount = 2

	// A tie fails
	p.YesCapital, p.NoCapital = 50, 50
	require.False(EvaluateTally(dao, p).Passed)

	// Strict majority passes; community tallies are ignored
	p.YesCapital, p.NoCapital = 51, 50
	p.YesCommunity, p.NoCommunity = 0, 100
	require.True(EvaluateTally(dao, p).Passed)

	// Zero total fails even with quorum met
	p.YesCapital, p.NoCapital = 0, 0
	require.False(EvaluateTally(dao, p).Passed)
}

func TestEvaluateTallyQuadratic(t *testing.T) {
	require := require.New(t)

	dao := newTestDAO(t, types.VotingConfig{Mode: types.Quadratic}, 1)
	p, err := NewProposal(dao, ids.GenerateTestID(), "t", "d", 300, nil, 0)
	require.NoError(err)
	p.CommitCount = 2
	p.RevealCount = 2

	// Quadratic mode reads the community tallies only
	p.YesCapital, p.NoCapital = 0, 1_000_000
	p.YesCommunity, p.NoCommunity = 11, 10
	require.True(EvaluateTally(dao, p).Passed)

	p.YesCommunity, p.NoCommunity = 10, 10
	require.False(EvaluateTally(dao, p).Passed)
}

func TestEvaluateTallyDualChamber(t *testing.T) {
	require := require.New(t)

	dao := newTestDAO(t, types.VotingConfig{
		Mode:               types.DualChamber,
		CapitalThreshold:   60,
		CommunityThreshold: 40,
	}, 1)
	p, err := NewProposal(dao, ids.GenerateTestID(), "t", "d", 300, nil, 0)
	require.NoError(err)
	p.CommitCount = 2
	p.RevealCount = 2

	// Capital 55% yes fails its 60% threshold even with community at 100%
	p.YesCapital, p.NoCapital = 55, 45
	p.YesCommunity, p.NoCommunity = 100, 0
	require.False(EvaluateTally(dao, p).Passed)

	// Both chambers clear
	p.YesCapital, p.NoCapital = 60, 40
	p.YesCommunity, p.NoCommunity = 40, 60
	require.True(EvaluateTally(dao, p).Passed)

	// Community misses its threshold by one unit
	p.YesCommunity, p.NoCommunity = 39, 61
	require.False(EvaluateTally(dao, p).Passed)

	// An empty chamber fails the whole proposal
	p.YesCapital, p.NoCapital = 0, 0
	p.YesCommunity, p.NoCommunity = 100, 0
	require.False(EvaluateTally(dao, p).Passed)
}

func TestEvaluateTallyDualChamberFullRange(t *testing.T) {
	require := require.New(t)

	dao := newTestDAO(t, types.VotingConfig{
		Mode:               types.DualChamber,
		CapitalThreshold:   50,
		CommunityThreshold: 50,
	}, 1)
	p, err := NewProposal(dao, ids.GenerateTestID(), "t", "d", 300, nil, 0)
	require.NoError(err)
	p.CommitCount = 1
	p.RevealCount = 1

	// Tallies near the top of the range must not overflow the comparison
	p.YesCapital, p.NoCapital = 1<<63, 1<<63-1
	p.YesCommunity, p.NoCommunity = 1<<63, 1<<63-1
	require.True(EvaluateTally(dao, p).Passed)

	p.YesCapital, p.NoCapital = 1<<63-1, 1<<63
	require.False(EvaluateTally(dao, p).Passed)
}
