// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package govern

import "math/bits"

// Isqrt returns the integer floor square root of n without floating point,
// via Newton's method converging monotonically downward. For all n,
// Isqrt(n)^2 <= n < (Isqrt(n)+1)^2.
func Isqrt(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	// Seed with the first power of two at or above sqrt(n). The seed is at
	// most 1<<32, so no intermediate sum can overflow.
	x := uint64(1) << ((bits.Len64(n) + 1) / 2)
	for {
		y := (x + n/x) / 2
		if y >= x {
			return x
		}
		x = y
	}
}
