// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package engine applies governance operations to persistent state. Every
// operation is atomic: it either applies all of its writes or none, enforced
// by a single-writer lock and a versioned database that is committed on
// success and aborted on any error. Time is never read here; the caller
// samples its clock once per request and passes the reading in.
package engine

import (
	"sync"

	"github.com/luxfi/database"
	"github.com/luxfi/database/prefixdb"
	"github.com/luxfi/database/versiondb"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/daovm/config"
	"github.com/luxfi/daovm/events"
	"github.com/luxfi/daovm/govern"
	"github.com/luxfi/daovm/metrics"
	"github.com/luxfi/daovm/state"
	"github.com/luxfi/daovm/treasury"
)

var (
	statePrefix  = []byte("state")
	ledgerPrefix = []byte("ledger")
	eventPrefix  = []byte("event")
)

// BalanceSource reads an owner's balance of a governance token. Weight
// snapshots are taken from here exactly once, at commit or delegation time.
type BalanceSource interface {
	TokenBalance(token, owner ids.ID) (uint64, error)
}

// Engine is the governance state machine.
type Engine struct {
	mu sync.Mutex

	cfg     config.Config
	log     log.Logger
	metrics metrics.Metrics

	db       *versiondb.Database
	store    *state.Store
	ledger   *treasury.Ledger
	balances BalanceSource

	eventLog *events.Log
	sinks    events.Tee
}

// New builds an engine over db. If balances is nil the engine's own token
// ledger is the balance source. The event log lives outside the versioned
// state so emission stays decoupled from the mutation that triggered it.
func New(
	cfg config.Config,
	logger log.Logger,
	m metrics.Metrics,
	db database.Database,
	balances BalanceSource,
) (*Engine, error) {
	vdb := versiondb.New(db)
	ledger := treasury.New(prefixdb.New(ledgerPrefix, vdb))
	if balances == nil {
		balances = ledger
	}
	eventLog, err := events.NewLog(logger, prefixdb.New(eventPrefix, db), cfg.EventLogCapacity)
	if err != nil {
		return nil, err
	}
	return &Engine{
		cfg:      cfg,
		log:      logger,
		metrics:  m,
		db:       vdb,
		store:    state.New(prefixdb.New(statePrefix, vdb)),
		ledger:   ledger,
		balances: balances,
		eventLog: eventLog,
		sinks:    events.Tee{eventLog},
	}, nil
}

// Ledger exposes the engine's native and token ledger, used to fund accounts
// and to mirror external token balances.
func (e *Engine) Ledger() *treasury.Ledger {
	return e.ledger
}

// EventLog returns the engine's persistent audit log.
func (e *Engine) EventLog() *events.Log {
	return e.eventLog
}

// AddSink registers an additional event sink, e.g. a pubsub bridge. Not safe
// to call concurrently with operations.
func (e *Engine) AddSink(s events.Sink) {
	e.sinks = append(e.sinks, s)
}

// seal finishes an operation: abort on error, commit on success, and count
// the outcome either way.
func (e *Engine) seal(op string, err error) error {
	if err != nil {
		e.db.Abort()
		e.metrics.IncRejected(op)
		e.log.Debug("operation rejected",
			"op", op,
			"error", err,
		)
		return err
	}
	if err := e.db.Commit(); err != nil {
		e.metrics.IncRejected(op)
		return err
	}
	e.metrics.IncAccepted(op)
	return nil
}

func (e *Engine) emit(evs ...events.Event) {
	for _, ev := range evs {
		e.sinks.Emit(ev)
		e.metrics.IncEmitted(ev.Kind())
	}
}

// GetDAO returns the DAO with the given identity.
func (e *Engine) GetDAO(id ids.ID) (*govern.DAO, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.GetDAO(id)
}

// GetProposal returns the proposal with the given identity.
func (e *Engine) GetProposal(id ids.ID) (*govern.Proposal, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.GetProposal(id)
}

// GetVoterRecord returns one voter's commit-reveal state for a proposal.
func (e *Engine) GetVoterRecord(proposal, voter ids.ID) (*govern.VoterRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.GetVoterRecord(proposal, voter)
}

// GetDelegation returns a delegator's delegation for a proposal.
func (e *Engine) GetDelegation(proposal, delegator ids.ID) (*govern.VoteDelegation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.GetDelegation(proposal, delegator)
}
