// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package govern

import (
	"errors"
	"fmt"

	"github.com/luxfi/ids"

	"github.com/luxfi/daovm/types"
	"github.com/luxfi/daovm/utils/wrappers"
)

// Records are stored at fixed upper-bound sizes: every variant and optional
// field reserves space for its longest form, so storage per record is
// deterministic and pre-allocatable. Each layout starts with a two-byte codec
// version header.
const (
	codecVersion uint16 = 0

	headerLen       = wrappers.ShortLen
	votingConfigLen = wrappers.ByteLen + 2*wrappers.ByteLen
	actionLen       = wrappers.ByteLen + wrappers.LongLen + 2*wrappers.IDLen

	// DAOLen is the serialized size of a DAO record.
	DAOLen = headerLen + wrappers.IDLen + (wrappers.ShortLen + MaxNameLen) +
		wrappers.IDLen + wrappers.ByteLen + 4*wrappers.LongLen +
		votingConfigLen + (wrappers.BoolLen + wrappers.IDLen)

	// ProposalLen is the serialized size of a Proposal record.
	ProposalLen = headerLen + 2*wrappers.IDLen + wrappers.LongLen +
		(wrappers.ShortLen + MaxTitleLen) + (wrappers.ShortLen + MaxDescriptionLen) +
		wrappers.ByteLen + 8*wrappers.LongLen +
		(wrappers.BoolLen + actionLen) + wrappers.LongLen + wrappers.BoolLen

	// VoterRecordLen is the serialized size of a VoterRecord.
	VoterRecordLen = headerLen + 3*wrappers.IDLen + 2*wrappers.LongLen +
		3*wrappers.BoolLen + (wrappers.BoolLen + wrappers.IDLen)

	// DelegationLen is the serialized size of a VoteDelegation.
	DelegationLen = headerLen + 3*wrappers.IDLen + 2*wrappers.LongLen + wrappers.BoolLen
)

var (
	errWrongCodecVersion = errors.New("unsupported codec version")
	errTrailingBytes     = errors.New("record has trailing bytes")
)

// Bytes serializes the DAO at its fixed size. The DAO's ID is not stored; it
// is re-derived from authority and name on parse.
func (d *DAO) Bytes() ([]byte, error) {
	p := wrappers.Packer{MaxSize: DAOLen, Bytes: make([]byte, 0, DAOLen)}
	p.PackShort(codecVersion)
	p.PackID(d.Authority)
	p.PackStr(d.Name, MaxNameLen)
	p.PackID(d.GovernanceToken)
	p.PackByte(d.QuorumPct)
	p.PackLong(d.RequiredBalance)
	p.PackLong(uint64(d.RevealWindow))
	p.PackLong(uint64(d.ExecutionDelay))
	packVotingConfig(&p, d.Voting)
	p.PackLong(d.ProposalCount)
	p.PackBool(d.MigratedFrom != ids.Empty)
	p.PackID(d.MigratedFrom)
	return p.Bytes, p.Err
}

// ParseDAO deserializes a DAO record.
func ParseDAO(b []byte) (*DAO, error) {
	p := wrappers.Packer{Bytes: b}
	if v := p.UnpackShort(); v != codecVersion {
		return nil, fmt.Errorf("%w: %d", errWrongCodecVersion, v)
	}
	d := &DAO{}
	d.Authority = p.UnpackID()
	d.Name = p.UnpackStr(MaxNameLen)
	d.GovernanceToken = p.UnpackID()
	d.QuorumPct = p.UnpackByte()
	d.RequiredBalance = p.UnpackLong()
	d.RevealWindow = int64(p.UnpackLong())
	d.ExecutionDelay = int64(p.UnpackLong())
	d.Voting = unpackVotingConfig(&p)
	d.ProposalCount = p.UnpackLong()
	hasProvenance := p.UnpackBool()
	migrated := p.UnpackID()
	if hasProvenance {
		d.MigratedFrom = migrated
	}
	if err := finish(&p); err != nil {
		return nil, err
	}
	d.ID = DAOID(d.Authority, d.Name)
	return d, nil
}

// Bytes serializes the proposal at its fixed size. The proposal's ID is
// re-derived from (DAO, Index) on parse.
func (pr *Proposal) Bytes() ([]byte, error) {
	p := wrappers.Packer{MaxSize: ProposalLen, Bytes: make([]byte, 0, ProposalLen)}
	p.PackShort(codecVersion)
	p.PackID(pr.DAO)
	p.PackID(pr.Proposer)
	p.PackLong(pr.Index)
	p.PackStr(pr.Title, MaxTitleLen)
	p.PackStr(pr.Description, MaxDescriptionLen)
	p.PackByte(byte(pr.Status))
	p.PackLong(uint64(pr.VotingEnd))
	p.PackLong(uint64(pr.RevealEnd))
	p.PackLong(pr.YesCapital)
	p.PackLong(pr.NoCapital)
	p.PackLong(pr.YesCommunity)
	p.PackLong(pr.NoCommunity)
	p.PackLong(pr.CommitCount)
	p.PackLong(pr.RevealCount)
	p.PackBool(pr.Action != nil)
	action := types.TreasuryAction{}
	if pr.Action != nil {
		action = *pr.Action
	}
	p.PackByte(byte(action.Kind))
	p.PackLong(action.Amount)
	p.PackID(action.Recipient)
	p.PackID(action.Token)
	p.PackLong(uint64(pr.ExecutionUnlocksAt))
	p.PackBool(pr.IsExecuted)
	return p.Bytes, p.Err
}

// ParseProposal deserializes a Proposal record.
func ParseProposal(b []byte) (*Proposal, error) {
	p := wrappers.Packer{Bytes: b}
	if v := p.UnpackShort(); v != codecVersion {
		return nil, fmt.Errorf("%w: %d", errWrongCodecVersion, v)
	}
	pr := &Proposal{}
	pr.DAO = p.UnpackID()
	pr.Proposer = p.UnpackID()
	pr.Index = p.UnpackLong()
	pr.Title = p.UnpackStr(MaxTitleLen)
	pr.Description = p.UnpackStr(MaxDescriptionLen)
	pr.Status = types.ProposalStatus(p.UnpackByte())
	pr.VotingEnd = int64(p.UnpackLong())
	pr.RevealEnd = int64(p.UnpackLong())
	pr.YesCapital = p.UnpackLong()
	pr.NoCapital = p.UnpackLong()
	pr.YesCommunity = p.UnpackLong()
	pr.NoCommunity = p.UnpackLong()
	pr.CommitCount = p.UnpackLong()
	pr.RevealCount = p.UnpackLong()
	hasAction := p.UnpackBool()
	action := types.TreasuryAction{
		Kind:   types.TreasuryActionKind(p.UnpackByte()),
		Amount: p.UnpackLong(),
	}
	action.Recipient = p.UnpackID()
	action.Token = p.UnpackID()
	if hasAction {
		pr.Action = &action
	}
	pr.ExecutionUnlocksAt = int64(p.UnpackLong())
	pr.IsExecuted = p.UnpackBool()
	if err := finish(&p); err != nil {
		return nil, err
	}
	pr.ID = ProposalID(pr.DAO, pr.Index)
	return pr, nil
}

// Bytes serializes the voter record at its fixed size.
func (vr *VoterRecord) Bytes() ([]byte, error) {
	p := wrappers.Packer{MaxSize: VoterRecordLen, Bytes: make([]byte, 0, VoterRecordLen)}
	p.PackShort(codecVersion)
	p.PackID(vr.Voter)
	p.PackID(vr.Proposal)
	p.PackID(vr.Commitment)
	p.PackLong(vr.CapitalWeight)
	p.PackLong(vr.CommunityWeight)
	p.PackBool(vr.HasCommitted)
	p.PackBool(vr.HasRevealed)
	p.PackBool(vr.VotedYes)
	p.PackBool(vr.Keeper != ids.Empty)
	p.PackID(vr.Keeper)
	return p.Bytes, p.Err
}

// ParseVoterRecord deserializes a VoterRecord.
func ParseVoterRecord(b []byte) (*VoterRecord, error) {
	p := wrappers.Packer{Bytes: b}
	if v := p.UnpackShort(); v != codecVersion {
		return nil, fmt.Errorf("%w: %d", errWrongCodecVersion, v)
	}
	vr := &VoterRecord{}
	vr.Voter = p.UnpackID()
	vr.Proposal = p.UnpackID()
	vr.Commitment = p.UnpackID()
	vr.CapitalWeight = p.UnpackLong()
	vr.CommunityWeight = p.UnpackLong()
	vr.HasCommitted = p.UnpackBool()
	vr.HasRevealed = p.UnpackBool()
	vr.VotedYes = p.UnpackBool()
	hasKeeper := p.UnpackBool()
	keeper := p.UnpackID()
	if hasKeeper {
		vr.Keeper = keeper
	}
	if err := finish(&p); err != nil {
		return nil, err
	}
	return vr, nil
}

// Bytes serializes the delegation at its fixed size.
func (d *VoteDelegation) Bytes() ([]byte, error) {
	p := wrappers.Packer{MaxSize: DelegationLen, Bytes: make([]byte, 0, DelegationLen)}
	p.PackShort(codecVersion)
	p.PackID(d.Delegator)
	p.PackID(d.Delegatee)
	p.PackID(d.Proposal)
	p.PackLong(d.DelegatedCapital)
	p.PackLong(d.DelegatedCommunity)
	p.PackBool(d.IsUsed)
	return p.Bytes, p.Err
}

// ParseDelegation deserializes a VoteDelegation.
func ParseDelegation(b []byte) (*VoteDelegation, error) {
	p := wrappers.Packer{Bytes: b}
	if v := p.UnpackShort(); v != codecVersion {
		return nil, fmt.Errorf("%w: %d", errWrongCodecVersion, v)
	}
	d := &VoteDelegation{}
	d.Delegator = p.UnpackID()
	d.Delegatee = p.UnpackID()
	d.Proposal = p.UnpackID()
	d.DelegatedCapital = p.UnpackLong()
	d.DelegatedCommunity = p.UnpackLong()
	d.IsUsed = p.UnpackBool()
	if err := finish(&p); err != nil {
		return nil, err
	}
	return d, nil
}

func packVotingConfig(p *wrappers.Packer, c types.VotingConfig) {
	p.PackByte(byte(c.Mode))
	p.PackByte(c.CapitalThreshold)
	p.PackByte(c.CommunityThreshold)
}

func unpackVotingConfig(p *wrappers.Packer) types.VotingConfig {
	return types.VotingConfig{
		Mode:               types.VotingMode(p.UnpackByte()),
		CapitalThreshold:   p.UnpackByte(),
		CommunityThreshold: p.UnpackByte(),
	}
}

func finish(p *wrappers.Packer) error {
	if p.Err != nil {
		return p.Err
	}
	if p.Offset != len(p.Bytes) {
		return errTrailingBytes
	}
	return nil
}
