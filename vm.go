// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package daovm hosts the private-ballot governance engine: it owns the
// clock, the database, metrics, the event fan-out, and the HTTP surface, and
// delegates every state transition to the engine.
package daovm

import (
	"context"
	"net/http"

	"github.com/gorilla/rpc/v2"
	"github.com/gorilla/rpc/v2/json2"
	"github.com/luxfi/database"
	"github.com/luxfi/log"
	"github.com/luxfi/metric"
	"github.com/luxfi/pubsub"

	"github.com/luxfi/daovm/api"
	"github.com/luxfi/daovm/config"
	"github.com/luxfi/daovm/engine"
	"github.com/luxfi/daovm/events"
	"github.com/luxfi/daovm/metrics"
	"github.com/luxfi/daovm/utils/timer/mockable"
)

var _ api.VM = (*VM)(nil)

// VM hosts the governance engine.
type VM struct {
	cfg   config.Config
	log   log.Logger
	clock mockable.Clock

	registerer metric.Registerer
	metrics    metrics.Metrics

	baseDB database.Database
	engine *engine.Engine
	pubsub *pubsub.Server
}

// New builds a VM over db. A nil balances source means weights are read from
// the engine's own token ledger.
func New(
	cfg config.Config,
	logger log.Logger,
	db database.Database,
	balances engine.BalanceSource,
) (*VM, error) {
	vm := &VM{
		cfg:        cfg,
		log:        logger,
		registerer: metric.NewRegistry(),
		baseDB:     db,
	}

	var err error
	vm.metrics, err = metrics.New(vm.registerer)
	if err != nil {
		return nil, err
	}

	vm.engine, err = engine.New(cfg, logger, vm.metrics, db, balances)
	if err != nil {
		return nil, err
	}

	vm.pubsub = pubsub.New(vm.log)
	vm.engine.AddSink(&pubsubSink{server: vm.pubsub})

	vm.log.Info("governance VM initialized",
		"revealRebate", cfg.RevealRebate,
		"proposalEndowment", cfg.ProposalEndowment,
	)
	return vm, nil
}

// Engine returns the governance engine.
func (vm *VM) Engine() *engine.Engine {
	return vm.engine
}

// Now samples the VM clock. Each request reads it exactly once.
func (vm *VM) Now() int64 {
	return vm.clock.Time().Unix()
}

// Clock exposes the VM clock so tests and hosts can pin time.
func (vm *VM) Clock() *mockable.Clock {
	return &vm.clock
}

// CreateHandlers returns the HTTP surface: the JSON-RPC service and the
// event subscription socket.
func (vm *VM) CreateHandlers(context.Context) (map[string]http.Handler, error) {
	codec := json2.NewCodec()

	rpcServer := rpc.NewServer()
	rpcServer.RegisterCodec(codec, "application/json")
	rpcServer.RegisterCodec(codec, "application/json;charset=UTF-8")
	if err := rpcServer.RegisterService(api.NewService(vm), "dao"); err != nil {
		return nil, err
	}

	return map[string]http.Handler{
		"":        rpcServer,
		"/events": vm.pubsub,
	}, nil
}

// Shutdown releases the VM's database.
func (vm *VM) Shutdown(context.Context) error {
	return vm.baseDB.Close()
}

// pubsubSink forwards engine events to websocket subscribers, filtered by
// DAO.
type pubsubSink struct {
	server *pubsub.Server
}

func (s *pubsubSink) Emit(e events.Event) {
	s.server.Publish(events.NewFilterer(e))
}
