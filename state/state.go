// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package state persists governance records in a content-addressed key-value
// store. Every record's key is a deterministic function of its semantic
// identity, so lookups need no ownership graph: a DAO by its derived ID, a
// proposal by its derived ID, a voter record by (proposal, voter), a
// delegation by (proposal, delegator).
package state

import (
	"sync"

	"github.com/luxfi/database"
	"github.com/luxfi/database/prefixdb"
	"github.com/luxfi/ids"

	"github.com/luxfi/daovm/govern"
)

var (
	daoPrefix        = []byte("dao")
	proposalPrefix   = []byte("proposal")
	voterPrefix      = []byte("voter")
	delegationPrefix = []byte("delegation")
	weightPrefix     = []byte("weight")
)

// Store is the record store for one governance VM instance. The engine
// serializes whole requests; the store's own lock only guards concurrent
// read access from the API surface.
type Store struct {
	mu sync.RWMutex

	daoDB        database.Database
	proposalDB   database.Database
	voterDB      database.Database
	delegationDB database.Database
	weightDB     database.Database
}

// New creates a store over db, partitioning it per record kind.
func New(db database.Database) *Store {
	return &Store{
		daoDB:        prefixdb.New(daoPrefix, db),
		proposalDB:   prefixdb.New(proposalPrefix, db),
		voterDB:      prefixdb.New(voterPrefix, db),
		delegationDB: prefixdb.New(delegationPrefix, db),
		weightDB:     prefixdb.New(weightPrefix, db),
	}
}

// GetDAO returns the DAO with the given derived ID, or database.ErrNotFound.
func (s *Store) GetDAO(id ids.ID) (*govern.DAO, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, err := s.daoDB.Get(id[:])
	if err != nil {
		return nil, err
	}
	return govern.ParseDAO(b)
}

// PutDAO writes a DAO record under its derived ID.
func (s *Store) PutDAO(d *govern.DAO) error {
	b, err := d.Bytes()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.daoDB.Put(d.ID[:], b)
}

// GetProposal returns the proposal with the given derived ID.
func (s *Store) GetProposal(id ids.ID) (*govern.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, err := s.proposalDB.Get(id[:])
	if err != nil {
		return nil, err
	}
	return govern.ParseProposal(b)
}

// PutProposal writes a proposal record under its derived ID.
func (s *Store) PutProposal(p *govern.Proposal) error {
	b, err := p.Bytes()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.proposalDB.Put(p.ID[:], b)
}

// GetVoterRecord returns the record keyed by (proposal, voter).
func (s *Store) GetVoterRecord(proposal, voter ids.ID) (*govern.VoterRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, err := s.voterDB.Get(pairKey(proposal, voter))
	if err != nil {
		return nil, err
	}
	return govern.ParseVoterRecord(b)
}

// HasVoterRecord reports whether a record exists for (proposal, voter).
func (s *Store) HasVoterRecord(proposal, voter ids.ID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.voterDB.Has(pairKey(proposal, voter))
}

// PutVoterRecord writes a voter record under (proposal, voter).
func (s *Store) PutVoterRecord(vr *govern.VoterRecord) error {
	b, err := vr.Bytes()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.voterDB.Put(pairKey(vr.Proposal, vr.Voter), b)
}

// GetDelegation returns the delegation keyed by (proposal, delegator).
func (s *Store) GetDelegation(proposal, delegator ids.ID) (*govern.VoteDelegation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, err := s.delegationDB.Get(pairKey(proposal, delegator))
	if err != nil {
		return nil, err
	}
	return govern.ParseDelegation(b)
}

// HasDelegation reports whether a delegation exists for (proposal, delegator).
func (s *Store) HasDelegation(proposal, delegator ids.ID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.delegationDB.Has(pairKey(proposal, delegator))
}

// PutDelegation writes a delegation under (proposal, delegator).
func (s *Store) PutDelegation(d *govern.VoteDelegation) error {
	b, err := d.Bytes()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delegationDB.Put(pairKey(d.Proposal, d.Delegator), b)
}

// PutVoterWeight writes a packed external voter weight record under
// (realm, mint, owner).
func (s *Store) PutVoterWeight(realm, mint, owner ids.ID, record []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.weightDB.Put(tripleKey(realm, mint, owner), record)
}

// GetVoterWeight returns the packed external voter weight record for
// (realm, mint, owner).
func (s *Store) GetVoterWeight(realm, mint, owner ids.ID) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.weightDB.Get(tripleKey(realm, mint, owner))
}

func pairKey(a, b ids.ID) []byte {
	key := make([]byte, 0, 2*ids.IDLen)
	key = append(key, a[:]...)
	return append(key, b[:]...)
}

func tripleKey(a, b, c ids.ID) []byte {
	key := make([]byte, 0, 3*ids.IDLen)
	key = append(key, a[:]...)
	key = append(key, b[:]...)
	return append(key, c[:]...)
}
