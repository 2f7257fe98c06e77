// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"testing"

	"github.com/luxfi/metric"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersCollectors(t *testing.T) {
	require := require.New(t)
	reg := metric.NewRegistry()

	m, err := New(reg)
	require.NoError(err)

	m.IncAccepted("create_dao")
	m.IncAccepted("create_dao")
	m.IncRejected("commit_vote")
	m.IncEmitted("proposal_finalized")

	families, err := reg.Gather()
	require.NoError(err)

	counts := make(map[string]float64)
	for _, mf := range families {
		for _, sample := range mf.GetMetric() {
			counts[mf.GetName()] += sample.GetCounter().GetValue()
		}
	}
	require.Equal(float64(2), counts["operations_accepted"])
	require.Equal(float64(1), counts["operations_rejected"])
	require.Equal(float64(1), counts["events_emitted"])

	// Registering the same collectors twice must fail
	_, err = New(reg)
	require.Error(err)
}

func TestNoop(t *testing.T) {
	m := Noop()
	m.IncAccepted("create_dao")
	m.IncRejected("create_dao")
	m.IncEmitted("dao_created")
}
