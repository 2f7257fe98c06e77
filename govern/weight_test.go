// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package govern

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsqrt(t *testing.T) {
	require := require.New(t)

	require.Zero(Isqrt(0))
	require.Equal(uint64(1), Isqrt(1))
	require.Equal(uint64(1), Isqrt(3))
	require.Equal(uint64(2), Isqrt(4))
	require.Equal(uint64(3), Isqrt(15))
	require.Equal(uint64(4), Isqrt(16))
	require.Equal(uint64(100), Isqrt(10_000))
	require.Equal(uint64(1_000_000), Isqrt(1_000_000_000_000))
	require.Equal(uint64(math.MaxUint32), Isqrt(math.MaxUint64))
}

func TestIsqrtFloorProperty(t *testing.T) {
	require := require.New(t)

	samples := []uint64{
		2, 5, 7, 10, 99, 100, 101, 255, 256, 257,
		1<<32 - 1, 1 << 32, 1<<32 + 1,
		1<<63 - 1, 1 << 63, math.MaxUint64 - 1, math.MaxUint64,
	}
	for _, n := range samples {
		r := Isqrt(n)
		require.LessOrEqual(r*r, n, "isqrt(%d)=%d", n, r)
		if r < math.MaxUint32 {
			require.Greater((r+1)*(r+1), n, "isqrt(%d)=%d", n, r)
		}
	}
}
