// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package realms provides the externally consumed voter weight record. Its
// byte layout is fixed: downstream governance tooling reads the record
// directly, so the encoding carries no version header and every optional
// field occupies its full width.
package realms

import (
	"errors"

	"github.com/luxfi/ids"

	"github.com/luxfi/daovm/utils/wrappers"
)

// WeightAction constrains what a synced weight may be used for.
type WeightAction byte

const (
	ActionCastVote WeightAction = iota
	ActionCommentProposal
	ActionCreateGovernance
	ActionCreateProposal
	ActionSignOffProposal
)

// RecordLen is the exact serialized size of a VoterWeightRecord:
// realm, mint and owner identities, the weight, then optional expiry,
// action and target, and a reserved tail.
const RecordLen = 3*wrappers.IDLen + // realm, mint, owner
	wrappers.LongLen + // weight
	wrappers.BoolLen + wrappers.LongLen + // optional expiry
	wrappers.BoolLen + wrappers.ByteLen + // optional action
	wrappers.BoolLen + wrappers.IDLen + // optional target
	wrappers.LongLen // reserved

var (
	ErrBadRecordLen = errors.New("wrong voter weight record length")

	errBadRecord = errors.New("malformed voter weight record")
)

// VoterWeightRecord is the snapshot of one owner's voting weight within a
// realm, scoped to a governance token.
type VoterWeightRecord struct {
	Realm  ids.ID
	Mint   ids.ID
	Owner  ids.ID
	Weight uint64

	// Expiry is the slot after which the weight is stale. Zero with
	// HasExpiry false means the weight never expires.
	HasExpiry bool
	Expiry    uint64

	// Action restricts the weight to one governance action.
	HasAction bool
	Action    WeightAction

	// Target pins the weight to a single proposal or governance account.
	HasTarget bool
	Target    ids.ID
}

// Bytes serializes the record into its fixed layout.
func (r *VoterWeightRecord) Bytes() ([]byte, error) {
	p := wrappers.Packer{MaxSize: RecordLen, Bytes: make([]byte, 0, RecordLen)}

	p.PackID(r.Realm)
	p.PackID(r.Mint)
	p.PackID(r.Owner)
	p.PackLong(r.Weight)

	p.PackBool(r.HasExpiry)
	if r.HasExpiry {
		p.PackLong(r.Expiry)
	} else {
		p.PackLong(0)
	}

	p.PackBool(r.HasAction)
	if r.HasAction {
		p.PackByte(byte(r.Action))
	} else {
		p.PackByte(0)
	}

	p.PackBool(r.HasTarget)
	if r.HasTarget {
		p.PackID(r.Target)
	} else {
		p.PackID(ids.Empty)
	}

	p.PackLong(0) // reserved

	return p.Bytes, p.Err
}

// Parse decodes a record from its fixed layout.
func Parse(b []byte) (*VoterWeightRecord, error) {
	if len(b) != RecordLen {
		return nil, ErrBadRecordLen
	}
	p := wrappers.Packer{Bytes: b}

	r := &VoterWeightRecord{}
	r.Realm = p.UnpackID()
	r.Mint = p.UnpackID()
	r.Owner = p.UnpackID()
	r.Weight = p.UnpackLong()

	r.HasExpiry = p.UnpackBool()
	expiry := p.UnpackLong()
	if r.HasExpiry {
		r.Expiry = expiry
	}

	r.HasAction = p.UnpackBool()
	action := p.UnpackByte()
	if r.HasAction {
		r.Action = WeightAction(action)
	}

	r.HasTarget = p.UnpackBool()
	target := p.UnpackID()
	if r.HasTarget {
		r.Target = target
	}

	p.UnpackLong() // reserved

	if p.Err != nil {
		return nil, errBadRecord
	}
	return r, nil
}
