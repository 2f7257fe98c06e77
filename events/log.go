// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package events

import (
	"errors"
	"sync"

	"github.com/luxfi/database"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/pubsub"
)

// Sink receives events as the engine emits them.
type Sink interface {
	Emit(Event)
}

var (
	_ Sink = (*Log)(nil)

	sizeKey = []byte("size")
)

// Log is an append-only, persistent event log. Events are stored under their
// index so history can be paged in order, and a bounded window of recent
// events is kept in memory for cheap reads.
type Log struct {
	mu sync.RWMutex

	log      log.Logger
	db       database.Database
	size     uint64
	recent   []Event
	capacity int
}

// NewLog opens the log over db, restoring the persisted size.
func NewLog(logger log.Logger, db database.Database, capacity int) (*Log, error) {
	size := uint64(0)
	b, err := db.Get(sizeKey)
	switch {
	case err == nil:
		if size, err = database.ParseUInt64(b); err != nil {
			return nil, err
		}
	case !errors.Is(err, database.ErrNotFound):
		return nil, err
	}
	return &Log{
		log:      logger,
		db:       db,
		size:     size,
		capacity: capacity,
	}, nil
}

// Emit appends e to the log. The log is advisory: a failed append is logged
// and dropped rather than failing the operation that produced the event.
func (l *Log) Emit(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, err := Codec.Marshal(codecVersion, &e)
	if err != nil {
		l.log.Error("failed to serialize event", "kind", e.Kind(), "error", err)
		return
	}
	if err := l.db.Put(database.PackUInt64(l.size), b); err != nil {
		l.log.Error("failed to persist event", "kind", e.Kind(), "error", err)
		return
	}
	l.size++
	if err := l.db.Put(sizeKey, database.PackUInt64(l.size)); err != nil {
		l.log.Error("failed to persist event log size", "error", err)
	}

	l.recent = append(l.recent, e)
	if len(l.recent) > l.capacity {
		l.recent = l.recent[len(l.recent)-l.capacity:]
	}
}

// Size returns the number of events ever emitted.
func (l *Log) Size() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.size
}

// Get returns the event at index.
func (l *Log) Get(index uint64) (Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	b, err := l.db.Get(database.PackUInt64(index))
	if err != nil {
		return nil, err
	}
	var e Event
	if _, err := Codec.Unmarshal(b, &e); err != nil {
		return nil, err
	}
	return e, nil
}

// Recent returns up to max of the newest events, oldest first.
func (l *Log) Recent(max int) []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := len(l.recent)
	if max < n {
		n = max
	}
	out := make([]Event, n)
	copy(out, l.recent[len(l.recent)-n:])
	return out
}

// Tee fans an event out to several sinks.
type Tee []Sink

func (t Tee) Emit(e Event) {
	for _, s := range t {
		s.Emit(e)
	}
}

// Filterer adapts an event for pubsub delivery. Subscribers filter on the
// bytes of the DAO the event is scoped to.
type Filterer struct {
	event Event
}

func NewFilterer(e Event) *Filterer {
	return &Filterer{event: e}
}

// Filter implements pubsub.Filterer.
func (f *Filterer) Filter(filters []pubsub.Filter) ([]bool, interface{}) {
	scope := f.event.Scope()
	matches := make([]bool, len(filters))
	for i, filter := range filters {
		matches[i] = filter.Check(scope[:])
	}
	return matches, f.event
}

// ScopeBytes is what a subscriber registers to follow a DAO.
func ScopeBytes(dao ids.ID) []byte {
	return dao[:]
}
