// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metrics counts governance operations and their failures.
package metrics

import (
	"github.com/luxfi/metric"
)

const opLabel = "op"

var (
	_ Metrics = (*metricsImpl)(nil)

	opLabels = []string{opLabel}
)

// Metrics records accepted and rejected governance operations, labelled by
// operation name.
type Metrics interface {
	IncAccepted(op string)
	IncRejected(op string)
	IncEmitted(eventKind string)
}

type metricsImpl struct {
	accepted metric.CounterVec
	rejected metric.CounterVec
	emitted  metric.CounterVec
}

func New(registerer metric.Registerer) (Metrics, error) {
	m := &metricsImpl{
		accepted: metric.NewCounterVec(
			metric.CounterOpts{
				Name: "operations_accepted",
				Help: "number of governance operations that succeeded",
			},
			opLabels,
		),
		rejected: metric.NewCounterVec(
			metric.CounterOpts{
				Name: "operations_rejected",
				Help: "number of governance operations that failed",
			},
			opLabels,
		),
		emitted: metric.NewCounterVec(
			metric.CounterOpts{
				Name: "events_emitted",
				Help: "number of governance events emitted",
			},
			[]string{"kind"},
		),
	}
	if err := registerer.Register(metric.AsCollector(m.accepted)); err != nil {
		return nil, err
	}
	if err := registerer.Register(metric.AsCollector(m.rejected)); err != nil {
		return nil, err
	}
	if err := registerer.Register(metric.AsCollector(m.emitted)); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *metricsImpl) IncAccepted(op string) {
	m.accepted.With(metric.Labels{opLabel: op}).Inc()
}

func (m *metricsImpl) IncRejected(op string) {
	m.rejected.With(metric.Labels{opLabel: op}).Inc()
}

func (m *metricsImpl) IncEmitted(eventKind string) {
	m.emitted.With(metric.Labels{"kind": eventKind}).Inc()
}

type noop struct{}

// Noop returns metrics that record nothing.
func Noop() Metrics { return noop{} }

func (noop) IncAccepted(string) {}
func (noop) IncRejected(string) {}
func (noop) IncEmitted(string)  {}
