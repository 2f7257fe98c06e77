// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package events

import (
	"github.com/luxfi/codec"
	"github.com/luxfi/codec/linearcodec"
)

const codecVersion = 0

// Codec serializes events for the persistent log.
var Codec codec.Manager

func init() {
	c := linearcodec.NewDefault()

	c.RegisterType(&DAOCreated{})
	c.RegisterType(&DAOMigrated{})
	c.RegisterType(&ProposalCreated{})
	c.RegisterType(&ProposalCancelled{})
	c.RegisterType(&ProposalVetoed{})
	c.RegisterType(&VoteCommitted{})
	c.RegisterType(&VoteDelegated{})
	c.RegisterType(&VoteRevealed{})
	c.RegisterType(&ProposalFinalized{})
	c.RegisterType(&TreasuryDeposit{})
	c.RegisterType(&TreasuryExecuted{})
	c.RegisterType(&VoterWeightSynced{})

	Codec = codec.NewDefaultManager()
	if err := Codec.RegisterCodec(codecVersion, c); err != nil {
		panic(err)
	}
}
