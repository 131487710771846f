package shamir

import (
	"github.com/pkg/errors"

	"github.com/corvid/shadowbmp/bitmap"
)

// ErrNotDivisible is returned by FormShadows when the secret's pixel array
// length is not a multiple of k.
var ErrNotDivisible = errors.New("shamir: secret pixel count is not divisible by k")

// ErrInvalidShadowCount is returned by FormShadows when n falls outside
// [1, 250]: shadow indices are used as GF(251) evaluation points 1..n, and
// an index of 251 or more wraps back to 0 mod 251, which would evaluate
// the polynomial at x=0 and leak its constant coefficient in plaintext.
var ErrInvalidShadowCount = errors.New("shamir: shadow count n must be in [1, 250]")

// MostSquareFactor factors size into the most-square (width, height) pair
// with width <= height: the largest divisor of size not exceeding its
// square root becomes the width. If size is prime (or otherwise has no
// divisor in [2, sqrt(size)]) the factoring loop falls back to a 1 x size
// shadow rather than degenerating to a width of 1 only by accident.
func MostSquareFactor(size int) (width uint32, height int32) {
	if size <= 0 {
		return 0, 0
	}

	y := isqrt(size)
	for ; y > 1; y-- {
		if size%y == 0 {
			return uint32(y), int32(size / y)
		}
	}
	return 1, int32(size)
}

// isqrt returns floor(sqrt(n)) for non-negative n using integer search,
// matching the original reference's floor(sqrt(x)) factoring seed without
// depending on floating point rounding near perfect squares.
func isqrt(n int) int {
	if n < 2 {
		return n
	}
	lo, hi := 1, n
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if mid <= n/mid {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// FormShadows splits secret's pixel array into n shadow bitmaps such that
// any k of them reconstruct it. Each shadow is a bitmap.Bitmap with
// ShadowIndex in [1, n], Key set to seed, and a pixel array of length
// len(secret.Pixels)/k, dimensioned by MostSquareFactor.
func FormShadows(secret *bitmap.Bitmap, k, n int, seed uint16) ([]bitmap.Bitmap, error) {
	if n < 1 || n > 250 {
		return nil, ErrInvalidShadowCount
	}

	total := len(secret.Pixels)
	if total%k != 0 {
		return nil, ErrNotDivisible
	}

	blocks := total / k
	width, height := MostSquareFactor(blocks)

	shadows := make([]bitmap.Bitmap, n)
	for s := 0; s < n; s++ {
		shadows[s] = *bitmap.NewRaw(width, height, seed, uint16(s+1), blocks)
	}

	for j := 0; j < blocks; j++ {
		coeff := secret.Pixels[j*k : j*k+k]
		for s := 0; s < n; s++ {
			shadows[s].Pixels[j] = Evaluate(coeff, byte(s+1))
		}
	}

	return shadows, nil
}
