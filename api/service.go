// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package api provides the JSON-RPC handlers for the governance VM.
package api

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"

	"github.com/luxfi/ids"

	"github.com/luxfi/daovm/engine"
	"github.com/luxfi/daovm/events"
	"github.com/luxfi/daovm/govern"
	"github.com/luxfi/daovm/types"
	"github.com/luxfi/daovm/utils/json"
)

var (
	ErrInvalidRequest = errors.New("invalid request")

	errBadSalt = fmt.Errorf("%w: salt must be %d hex-encoded bytes", ErrInvalidRequest, govern.SaltLength)
)

// VM is the surface the service needs from its host.
type VM interface {
	Engine() *engine.Engine
	// Now returns the host clock's current unix time. The service reads it
	// once per request and threads the reading through the whole operation.
	Now() int64
}

// Service provides the RPC API for the governance VM.
type Service struct {
	vm VM
}

// NewService creates a new API service.
func NewService(vm VM) *Service {
	return &Service{vm: vm}
}

// VotingConfigArgs selects a voting mode and, for dual-chamber DAOs, its
// thresholds.
type VotingConfigArgs struct {
	Mode               string     `json:"mode"`
	CapitalThreshold   json.Uint8 `json:"capitalThreshold"`
	CommunityThreshold json.Uint8 `json:"communityThreshold"`
}

func (a *VotingConfigArgs) parse() (types.VotingConfig, error) {
	var mode types.VotingMode
	switch a.Mode {
	case "tokenWeighted":
		mode = types.TokenWeighted
	case "quadratic":
		mode = types.Quadratic
	case "dualChamber":
		mode = types.DualChamber
	default:
		return types.VotingConfig{}, fmt.Errorf("%w: unknown voting mode %q", ErrInvalidRequest, a.Mode)
	}
	return types.VotingConfig{
		Mode:               mode,
		CapitalThreshold:   uint8(a.CapitalThreshold),
		CommunityThreshold: uint8(a.CommunityThreshold),
	}, nil
}

// TreasuryActionArgs describes the guarded action attached to a proposal.
type TreasuryActionArgs struct {
	Kind      string      `json:"kind"`
	Amount    json.Uint64 `json:"amount"`
	Recipient string      `json:"recipient"`
	Token     string      `json:"token"`
}

func (a *TreasuryActionArgs) parse() (*types.TreasuryAction, error) {
	var kind types.TreasuryActionKind
	switch a.Kind {
	case "sendNative":
		kind = types.SendNative
	case "sendToken":
		kind = types.SendToken
	case "customCall":
		kind = types.CustomCall
	default:
		return nil, fmt.Errorf("%w: unknown treasury action kind %q", ErrInvalidRequest, a.Kind)
	}
	recipient, err := ids.FromString(a.Recipient)
	if err != nil {
		return nil, fmt.Errorf("%w: recipient: %w", ErrInvalidRequest, err)
	}
	token := ids.Empty
	if a.Token != "" {
		if token, err = ids.FromString(a.Token); err != nil {
			return nil, fmt.Errorf("%w: token: %w", ErrInvalidRequest, err)
		}
	}
	return &types.TreasuryAction{
		Kind:      kind,
		Amount:    uint64(a.Amount),
		Recipient: recipient,
		Token:     token,
	}, nil
}

type CreateDAOArgs struct {
	Authority       string           `json:"authority"`
	Name            string           `json:"name"`
	GovernanceToken string           `json:"governanceToken"`
	QuorumPct       json.Uint8       `json:"quorumPercentage"`
	RequiredBalance json.Uint64      `json:"requiredBalance"`
	RevealWindow    json.Int64       `json:"revealWindowSeconds"`
	ExecutionDelay  json.Int64       `json:"executionDelaySeconds"`
	Voting          VotingConfigArgs `json:"votingConfig"`

	// MigratedFrom names an external governance instance to mirror. When
	// set the DAO is created through the migration path.
	MigratedFrom string `json:"migratedFrom"`
}

type CreateDAOReply struct {
	DAO      string `json:"dao"`
	Treasury string `json:"treasury"`
}

// CreateDAO creates a governance instance, natively or by migrating an
// external one.
func (s *Service) CreateDAO(_ *http.Request, args *CreateDAOArgs, reply *CreateDAOReply) error {
	authority, err := ids.FromString(args.Authority)
	if err != nil {
		return fmt.Errorf("%w: authority: %w", ErrInvalidRequest, err)
	}
	token, err := ids.FromString(args.GovernanceToken)
	if err != nil {
		return fmt.Errorf("%w: governanceToken: %w", ErrInvalidRequest, err)
	}
	voting, err := args.Voting.parse()
	if err != nil {
		return err
	}

	params := engine.DAOParams{
		Authority:       authority,
		Name:            args.Name,
		GovernanceToken: token,
		QuorumPct:       uint8(args.QuorumPct),
		RequiredBalance: uint64(args.RequiredBalance),
		RevealWindow:    int64(args.RevealWindow),
		ExecutionDelay:  int64(args.ExecutionDelay),
		Voting:          voting,
	}

	var dao *govern.DAO
	if args.MigratedFrom != "" {
		migratedFrom, err := ids.FromString(args.MigratedFrom)
		if err != nil {
			return fmt.Errorf("%w: migratedFrom: %w", ErrInvalidRequest, err)
		}
		dao, err = s.vm.Engine().MigrateDAO(params, migratedFrom)
		if err != nil {
			return err
		}
	} else if dao, err = s.vm.Engine().CreateDAO(params); err != nil {
		return err
	}

	reply.DAO = dao.ID.String()
	reply.Treasury = govern.TreasuryID(dao.ID).String()
	return nil
}

type GetDAOArgs struct {
	DAO string `json:"dao"`
}

type GetDAOReply struct {
	DAO *govern.DAO `json:"dao"`
}

// GetDAO returns a DAO's configuration.
func (s *Service) GetDAO(_ *http.Request, args *GetDAOArgs, reply *GetDAOReply) error {
	id, err := ids.FromString(args.DAO)
	if err != nil {
		return fmt.Errorf("%w: dao: %w", ErrInvalidRequest, err)
	}
	reply.DAO, err = s.vm.Engine().GetDAO(id)
	return err
}

type CreateProposalArgs struct {
	DAO            string              `json:"dao"`
	Proposer       string              `json:"proposer"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	VotingDuration json.Int64          `json:"votingDurationSeconds"`
	TreasuryAction *TreasuryActionArgs `json:"treasuryAction"`
}

type CreateProposalReply struct {
	Proposal  string      `json:"proposal"`
	Index     json.Uint64 `json:"index"`
	VotingEnd json.Int64  `json:"votingEnd"`
	RevealEnd json.Int64  `json:"revealEnd"`
}

// CreateProposal opens a proposal against a DAO.
func (s *Service) CreateProposal(_ *http.Request, args *CreateProposalArgs, reply *CreateProposalReply) error {
	daoID, err := ids.FromString(args.DAO)
	if err != nil {
		return fmt.Errorf("%w: dao: %w", ErrInvalidRequest, err)
	}
	proposer, err := ids.FromString(args.Proposer)
	if err != nil {
		return fmt.Errorf("%w: proposer: %w", ErrInvalidRequest, err)
	}
	var action *types.TreasuryAction
	if args.TreasuryAction != nil {
		if action, err = args.TreasuryAction.parse(); err != nil {
			return err
		}
	}

	p, err := s.vm.Engine().CreateProposal(
		daoID,
		proposer,
		args.Title,
		args.Description,
		int64(args.VotingDuration),
		action,
		s.vm.Now(),
	)
	if err != nil {
		return err
	}
	reply.Proposal = p.ID.String()
	reply.Index = json.Uint64(p.Index)
	reply.VotingEnd = json.Int64(p.VotingEnd)
	reply.RevealEnd = json.Int64(p.RevealEnd)
	return nil
}

type GetProposalArgs struct {
	Proposal string `json:"proposal"`
}

type GetProposalReply struct {
	Proposal *govern.Proposal `json:"proposal"`
	Status   string           `json:"status"`
}

// GetProposal returns a proposal's full state.
func (s *Service) GetProposal(_ *http.Request, args *GetProposalArgs, reply *GetProposalReply) error {
	id, err := ids.FromString(args.Proposal)
	if err != nil {
		return fmt.Errorf("%w: proposal: %w", ErrInvalidRequest, err)
	}
	p, err := s.vm.Engine().GetProposal(id)
	if err != nil {
		return err
	}
	reply.Proposal = p
	reply.Status = p.Status.String()
	return nil
}

type ProposalCallerArgs struct {
	Proposal string `json:"proposal"`
	Caller   string `json:"caller"`
}

type SuccessReply struct {
	Success bool `json:"success"`
}

// CancelProposal cancels a still-voting proposal. Authority only.
func (s *Service) CancelProposal(_ *http.Request, args *ProposalCallerArgs, reply *SuccessReply) error {
	proposalID, caller, err := parseProposalCaller(args)
	if err != nil {
		return err
	}
	if err := s.vm.Engine().CancelProposal(proposalID, caller); err != nil {
		return err
	}
	reply.Success = true
	return nil
}

// VetoProposal vetoes a passed proposal during its timelock. Authority only.
func (s *Service) VetoProposal(_ *http.Request, args *ProposalCallerArgs, reply *SuccessReply) error {
	proposalID, caller, err := parseProposalCaller(args)
	if err != nil {
		return err
	}
	if err := s.vm.Engine().VetoProposal(proposalID, caller, s.vm.Now()); err != nil {
		return err
	}
	reply.Success = true
	return nil
}

type CommitVoteArgs struct {
	Proposal   string `json:"proposal"`
	Voter      string `json:"voter"`
	Commitment string `json:"commitment"`
	// Keeper optionally authorizes a third party to submit the reveal.
	Keeper string `json:"keeper"`
	// Delegator, when set, consumes that delegator's delegation and commits
	// the combined weight.
	Delegator string `json:"delegator"`
}

// CommitVote stores a vote commitment, optionally consuming a delegation.
func (s *Service) CommitVote(_ *http.Request, args *CommitVoteArgs, reply *SuccessReply) error {
	proposalID, err := ids.FromString(args.Proposal)
	if err != nil {
		return fmt.Errorf("%w: proposal: %w", ErrInvalidRequest, err)
	}
	voter, err := ids.FromString(args.Voter)
	if err != nil {
		return fmt.Errorf("%w: voter: %w", ErrInvalidRequest, err)
	}
	commitment, err := ids.FromString(args.Commitment)
	if err != nil {
		return fmt.Errorf("%w: commitment: %w", ErrInvalidRequest, err)
	}
	keeper := ids.Empty
	if args.Keeper != "" {
		if keeper, err = ids.FromString(args.Keeper); err != nil {
			return fmt.Errorf("%w: keeper: %w", ErrInvalidRequest, err)
		}
	}

	now := s.vm.Now()
	if args.Delegator != "" {
		delegator, err := ids.FromString(args.Delegator)
		if err != nil {
			return fmt.Errorf("%w: delegator: %w", ErrInvalidRequest, err)
		}
		if err := s.vm.Engine().CommitDelegatedVote(proposalID, delegator, voter, commitment, keeper, now); err != nil {
			return err
		}
	} else if err := s.vm.Engine().CommitVote(proposalID, voter, commitment, keeper, now); err != nil {
		return err
	}
	reply.Success = true
	return nil
}

type DelegateVoteArgs struct {
	Proposal  string `json:"proposal"`
	Delegator string `json:"delegator"`
	Delegatee string `json:"delegatee"`
}

// DelegateVote grants the delegator's weight to a delegatee for one proposal.
func (s *Service) DelegateVote(_ *http.Request, args *DelegateVoteArgs, reply *SuccessReply) error {
	proposalID, err := ids.FromString(args.Proposal)
	if err != nil {
		return fmt.Errorf("%w: proposal: %w", ErrInvalidRequest, err)
	}
	delegator, err := ids.FromString(args.Delegator)
	if err != nil {
		return fmt.Errorf("%w: delegator: %w", ErrInvalidRequest, err)
	}
	delegatee, err := ids.FromString(args.Delegatee)
	if err != nil {
		return fmt.Errorf("%w: delegatee: %w", ErrInvalidRequest, err)
	}
	if err := s.vm.Engine().DelegateVote(proposalID, delegator, delegatee, s.vm.Now()); err != nil {
		return err
	}
	reply.Success = true
	return nil
}

type RevealVoteArgs struct {
	Proposal string `json:"proposal"`
	// Caller is whoever submits the reveal: the voter or the keeper.
	Caller string `json:"caller"`
	Voter  string `json:"voter"`
	Vote   bool   `json:"vote"`
	// Salt is the hex-encoded 32-byte salt from the commitment preimage.
	Salt string `json:"salt"`
}

// RevealVote discloses a committed vote and updates the tallies.
func (s *Service) RevealVote(_ *http.Request, args *RevealVoteArgs, reply *SuccessReply) error {
	proposalID, err := ids.FromString(args.Proposal)
	if err != nil {
		return fmt.Errorf("%w: proposal: %w", ErrInvalidRequest, err)
	}
	caller, err := ids.FromString(args.Caller)
	if err != nil {
		return fmt.Errorf("%w: caller: %w", ErrInvalidRequest, err)
	}
	voter, err := ids.FromString(args.Voter)
	if err != nil {
		return fmt.Errorf("%w: voter: %w", ErrInvalidRequest, err)
	}
	saltBytes, err := hex.DecodeString(args.Salt)
	if err != nil || len(saltBytes) != govern.SaltLength {
		return errBadSalt
	}
	var salt [govern.SaltLength]byte
	copy(salt[:], saltBytes)

	if err := s.vm.Engine().RevealVote(proposalID, caller, voter, args.Vote, salt, s.vm.Now()); err != nil {
		return err
	}
	reply.Success = true
	return nil
}

type FinalizeProposalArgs struct {
	Proposal string `json:"proposal"`
}

type FinalizeProposalReply struct {
	Status             string     `json:"status"`
	ExecutionUnlocksAt json.Int64 `json:"executionUnlocksAt"`
}

// FinalizeProposal closes a proposal after its reveal window. Permissionless.
func (s *Service) FinalizeProposal(_ *http.Request, args *FinalizeProposalArgs, reply *FinalizeProposalReply) error {
	proposalID, err := ids.FromString(args.Proposal)
	if err != nil {
		return fmt.Errorf("%w: proposal: %w", ErrInvalidRequest, err)
	}
	p, err := s.vm.Engine().FinalizeProposal(proposalID, s.vm.Now())
	if err != nil {
		return err
	}
	reply.Status = p.Status.String()
	reply.ExecutionUnlocksAt = json.Int64(p.ExecutionUnlocksAt)
	return nil
}

type ExecuteProposalArgs struct {
	Proposal string `json:"proposal"`
	// Target is the account the caller expects the treasury action to pay.
	// Omitted for proposals that carry no action.
	Target string `json:"target,omitempty"`
}

// ExecuteProposal releases a passed proposal's treasury action after the
// timelock. Permissionless.
func (s *Service) ExecuteProposal(_ *http.Request, args *ExecuteProposalArgs, reply *SuccessReply) error {
	proposalID, err := ids.FromString(args.Proposal)
	if err != nil {
		return fmt.Errorf("%w: proposal: %w", ErrInvalidRequest, err)
	}
	target := ids.Empty
	if args.Target != "" {
		if target, err = ids.FromString(args.Target); err != nil {
			return fmt.Errorf("%w: target: %w", ErrInvalidRequest, err)
		}
	}
	if err := s.vm.Engine().ExecuteProposal(proposalID, target, s.vm.Now()); err != nil {
		return err
	}
	reply.Success = true
	return nil
}

type DepositTreasuryArgs struct {
	DAO       string      `json:"dao"`
	Depositor string      `json:"depositor"`
	Amount    json.Uint64 `json:"amount"`
}

// DepositTreasury funds a DAO's guarded treasury.
func (s *Service) DepositTreasury(_ *http.Request, args *DepositTreasuryArgs, reply *SuccessReply) error {
	daoID, err := ids.FromString(args.DAO)
	if err != nil {
		return fmt.Errorf("%w: dao: %w", ErrInvalidRequest, err)
	}
	depositor, err := ids.FromString(args.Depositor)
	if err != nil {
		return fmt.Errorf("%w: depositor: %w", ErrInvalidRequest, err)
	}
	if err := s.vm.Engine().DepositTreasury(daoID, depositor, uint64(args.Amount)); err != nil {
		return err
	}
	reply.Success = true
	return nil
}

type GetTreasuryArgs struct {
	DAO string `json:"dao"`
}

type GetTreasuryReply struct {
	Treasury string      `json:"treasury"`
	Balance  json.Uint64 `json:"balance"`
}

// GetTreasury reports a DAO's treasury identity and balance.
func (s *Service) GetTreasury(_ *http.Request, args *GetTreasuryArgs, reply *GetTreasuryReply) error {
	daoID, err := ids.FromString(args.DAO)
	if err != nil {
		return fmt.Errorf("%w: dao: %w", ErrInvalidRequest, err)
	}
	balance, err := s.vm.Engine().TreasuryBalance(daoID)
	if err != nil {
		return err
	}
	reply.Treasury = govern.TreasuryID(daoID).String()
	reply.Balance = json.Uint64(balance)
	return nil
}

type SyncVoterWeightArgs struct {
	Realm string `json:"realm"`
	DAO   string `json:"dao"`
	Owner string `json:"owner"`
}

type SyncVoterWeightReply struct {
	Weight json.Uint64 `json:"weight"`
	Expiry json.Uint64 `json:"expiry"`
}

// SyncVoterWeight refreshes the externally consumed weight record for an
// owner under a realm.
func (s *Service) SyncVoterWeight(_ *http.Request, args *SyncVoterWeightArgs, reply *SyncVoterWeightReply) error {
	realm, err := ids.FromString(args.Realm)
	if err != nil {
		return fmt.Errorf("%w: realm: %w", ErrInvalidRequest, err)
	}
	daoID, err := ids.FromString(args.DAO)
	if err != nil {
		return fmt.Errorf("%w: dao: %w", ErrInvalidRequest, err)
	}
	owner, err := ids.FromString(args.Owner)
	if err != nil {
		return fmt.Errorf("%w: owner: %w", ErrInvalidRequest, err)
	}
	record, err := s.vm.Engine().SyncVoterWeight(realm, daoID, owner, s.vm.Now())
	if err != nil {
		return err
	}
	reply.Weight = json.Uint64(record.Weight)
	reply.Expiry = json.Uint64(record.Expiry)
	return nil
}

type GetCommittedWeightArgs struct {
	Proposal string `json:"proposal"`
	Voter    string `json:"voter"`
}

type GetCommittedWeightReply struct {
	Weight json.Uint64 `json:"weight"`
}

// GetCommittedWeight reports the quadratic weight a voter committed to a
// proposal, or zero if none.
func (s *Service) GetCommittedWeight(_ *http.Request, args *GetCommittedWeightArgs, reply *GetCommittedWeightReply) error {
	proposalID, err := ids.FromString(args.Proposal)
	if err != nil {
		return fmt.Errorf("%w: proposal: %w", ErrInvalidRequest, err)
	}
	voter, err := ids.FromString(args.Voter)
	if err != nil {
		return fmt.Errorf("%w: voter: %w", ErrInvalidRequest, err)
	}
	weight, err := s.vm.Engine().CommittedWeight(proposalID, voter)
	if err != nil {
		return err
	}
	reply.Weight = json.Uint64(weight)
	return nil
}

type GetEventsArgs struct {
	Limit int `json:"limit"`
}

type eventEnvelope struct {
	Kind  string       `json:"kind"`
	Event events.Event `json:"event"`
}

type GetEventsReply struct {
	Events []eventEnvelope `json:"events"`
}

// GetEvents returns the most recent governance events, oldest first.
func (s *Service) GetEvents(_ *http.Request, args *GetEventsArgs, reply *GetEventsReply) error {
	limit := args.Limit
	if limit <= 0 {
		limit = 100
	}
	for _, ev := range s.vm.Engine().EventLog().Recent(limit) {
		reply.Events = append(reply.Events, eventEnvelope{
			Kind:  ev.Kind(),
			Event: ev,
		})
	}
	return nil
}

func parseProposalCaller(args *ProposalCallerArgs) (ids.ID, ids.ID, error) {
	proposalID, err := ids.FromString(args.Proposal)
	if err != nil {
		return ids.Empty, ids.Empty, fmt.Errorf("%w: proposal: %w", ErrInvalidRequest, err)
	}
	caller, err := ids.FromString(args.Caller)
	if err != nil {
		return ids.Empty, ids.Empty, fmt.Errorf("%w: caller: %w", ErrInvalidRequest, err)
	}
	return proposalID, caller, nil
}
