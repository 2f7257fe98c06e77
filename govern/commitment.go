// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package govern

import (
	"crypto/sha256"

	"github.com/luxfi/ids"
)

// SaltLength is the required length of the commitment salt.
const SaltLength = 32

// ComputeCommitment computes the binding vote commitment:
//
//	commitment = SHA256(vote_byte || salt[32] || voter[32])
//
// The digest hides the vote until reveal; the voter identity in the preimage
// prevents replaying another voter's commitment.
func ComputeCommitment(voteYes bool, salt [SaltLength]byte, voter ids.ID) ids.ID {
	voteByte := byte(0)
	if voteYes {
		voteByte = 1
	}

	h := sha256.New()
	h.Write([]byte{voteByte})
	h.Write(salt[:])
	h.Write(voter[:])

	var id ids.ID
	copy(id[:], h.Sum(nil))
	return id
}

// VerifyCommitment checks a revealed (vote, salt) pair against the stored
// commitment. The voter identity must be the original committer's, even when
// a keeper submits the reveal.
func VerifyCommitment(commitment ids.ID, voteYes bool, salt [SaltLength]byte, voter ids.ID) bool {
	return ComputeCommitment(voteYes, salt, voter) == commitment
}
