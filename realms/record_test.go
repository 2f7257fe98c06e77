// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package realms

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ids"
)

func TestRecordRoundTrip(t *testing.T) {
	require := require.New(t)

	r := &VoterWeightRecord{
		Realm:     ids.GenerateTestID(),
		Mint:      ids.GenerateTestID(),
		Owner:     ids.GenerateTestID(),
		Weight:    12_345,
		HasExpiry: true,
		Expiry:    987_654,
		HasAction: true,
		Action:    ActionCastVote,
		HasTarget: true,
		Target:    ids.GenerateTestID(),
	}

	b, err := r.Bytes()
	require.NoError(err)
	require.Len(b, RecordLen)

	parsed, err := Parse(b)
	require.NoError(err)
	require.Equal(r, parsed)
}

func TestRecordRoundTripNoOptionals(t *testing.T) {
	require := require.New(t)

	r := &VoterWeightRecord{
		Realm:  ids.GenerateTestID(),
		Mint:   ids.GenerateTestID(),
		Owner:  ids.GenerateTestID(),
		Weight: 1,
	}

	b, err := r.Bytes()
	require.NoError(err)
	require.Len(b, RecordLen)

	parsed, err := Parse(b)
	require.NoError(err)
	require.Equal(r, parsed)
	require.False(parsed.HasExpiry)
	require.Zero(parsed.Expiry)
}

func TestRecordLayoutIsFixed(t *testing.T) {
	require := require.New(t)

	// Optional fields occupy full width whether set or not, so every record
	// is byte-addressable by external readers.
	with, err := (&VoterWeightRecord{HasExpiry: true, Expiry: 5}).Bytes()
	require.NoError(err)
	require.Len(with, RecordLen)

	without, err := (&VoterWeightRecord{}).Bytes()
	require.NoError(err)
	require.Len(without, RecordLen)

	// The layout is populated, not a zeroed buffer
	full, err := (&VoterWeightRecord{
		Realm:  ids.GenerateTestID(),
		Weight: 7,
	}).Bytes()
	require.NoError(err)
	require.NotEqual(make([]byte, RecordLen), full)
}

func TestParseRejectsBadLength(t *testing.T) {
	require := require.New(t)

	b, err := (&VoterWeightRecord{Weight: 9}).Bytes()
	require.NoError(err)

	_, err = Parse(b[:len(b)-1])
	require.ErrorIs(err, ErrBadRecordLen)

	_, err = Parse(append(b, 0))
	require.ErrorIs(err, ErrBadRecordLen)
}
