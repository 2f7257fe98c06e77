// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package daovm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/database"
	"github.com/luxfi/database/memdb"
	"github.com/luxfi/log"

	"github.com/luxfi/daovm/config"
)

func TestVMNew(t *testing.T) {
	require := require.New(t)

	vm, err := New(config.DefaultConfig(), log.NewNoOpLogger(), memdb.New(), nil)
	require.NoError(err)
	require.NotNil(vm.Engine())

	vm.Clock().Set(time.Unix(12_345, 0))
	require.Equal(int64(12_345), vm.Now())

	handlers, err := vm.CreateHandlers(context.Background())
	require.NoError(err)
	require.Contains(handlers, "")
	require.Contains(handlers, "/events")

	require.NoError(vm.Shutdown(context.Background()))
}

func TestVMShutdownClosesDatabase(t *testing.T) {
	require := require.New(t)

	db := memdb.New()
	vm, err := New(config.DefaultConfig(), log.NewNoOpLogger(), db, nil)
	require.NoError(err)

	require.NoError(vm.Shutdown(context.Background()))
	_, err = db.Get([]byte("any"))
	require.ErrorIs(err, database.ErrClosed)
}
