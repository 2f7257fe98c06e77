// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package events

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/database/memdb"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/pubsub"

	"github.com/luxfi/daovm/types"
)

func TestLogEmitAndGet(t *testing.T) {
	require := require.New(t)

	l, err := NewLog(log.NewNoOpLogger(), memdb.New(), 10)
	require.NoError(err)
	require.Zero(l.Size())

	dao := ids.GenerateTestID()
	l.Emit(&DAOCreated{DAO: dao, Authority: ids.GenerateTestID(), Name: "ops"})
	l.Emit(&ProposalCreated{DAO: dao, Proposal: ids.GenerateTestID(), Index: 0})

	require.Equal(uint64(2), l.Size())

	first, err := l.Get(0)
	require.NoError(err)
	created, ok := first.(*DAOCreated)
	require.True(ok)
	require.Equal(dao, created.DAO)
	require.Equal("ops", created.Name)

	second, err := l.Get(1)
	require.NoError(err)
	require.Equal("proposal_created", second.Kind())
}

func TestTreasuryExecutedRoundtrip(t *testing.T) {
	require := require.New(t)

	l, err := NewLog(log.NewNoOpLogger(), memdb.New(), 10)
	require.NoError(err)

	dao := ids.GenerateTestID()
	recipient := ids.GenerateTestID()
	l.Emit(&TreasuryExecuted{
		DAO:        dao,
		Proposal:   ids.GenerateTestID(),
		ActionKind: types.SendNative,
		Amount:     700,
		Recipient:  recipient,
	})

	ev, err := l.Get(0)
	require.NoError(err)
	require.Equal("treasury_executed", ev.Kind())
	require.Equal(dao, ev.Scope())

	executed, ok := ev.(*TreasuryExecuted)
	require.True(ok)
	require.Equal(types.SendNative, executed.ActionKind)
	require.Equal(uint64(700), executed.Amount)
	require.Equal(recipient, executed.Recipient)
}

func TestLogSurvivesReopen(t *testing.T) {
	require := require.New(t)

	db := memdb.New()
	l, err := NewLog(log.NewNoOpLogger(), db, 10)
	require.NoError(err)

	l.Emit(&TreasuryDeposit{DAO: ids.GenerateTestID(), Amount: 7})
	require.Equal(uint64(1), l.Size())

	reopened, err := NewLog(log.NewNoOpLogger(), db, 10)
	require.NoError(err)
	require.Equal(uint64(1), reopened.Size())

	ev, err := reopened.Get(0)
	require.NoError(err)
	deposit, ok := ev.(*TreasuryDeposit)
	require.True(ok)
	require.Equal(uint64(7), deposit.Amount)
}

func TestLogRecentWindow(t *testing.T) {
	require := require.New(t)

	l, err := NewLog(log.NewNoOpLogger(), memdb.New(), 3)
	require.NoError(err)

	for i := uint64(0); i < 5; i++ {
		l.Emit(&ProposalCreated{Index: i})
	}

	recent := l.Recent(10)
	require.Len(recent, 3)
	require.Equal(uint64(2), recent[0].(*ProposalCreated).Index)
	require.Equal(uint64(4), recent[2].(*ProposalCreated).Index)

	recent = l.Recent(2)
	require.Len(recent, 2)
	require.Equal(uint64(3), recent[0].(*ProposalCreated).Index)

	// Everything is still in the persistent log
	require.Equal(uint64(5), l.Size())
	ev, err := l.Get(0)
	require.NoError(err)
	require.Zero(ev.(*ProposalCreated).Index)
}

type scopeFilter struct {
	scope []byte
}

func (f *scopeFilter) Check(b []byte) bool {
	return string(b) == string(f.scope)
}

func TestFilterer(t *testing.T) {
	require := require.New(t)

	dao := ids.GenerateTestID()
	other := ids.GenerateTestID()
	ev := &ProposalVetoed{DAO: dao, Proposal: ids.GenerateTestID()}

	matches, payload := NewFilterer(ev).Filter([]pubsub.Filter{
		&scopeFilter{scope: ScopeBytes(dao)},
		&scopeFilter{scope: ScopeBytes(other)},
	})
	require.Equal([]bool{true, false}, matches)
	require.Equal(ev, payload)
}
