package prng

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPermuteUnpermuteIsIdentity(t *testing.T) {
	seeds := []uint16{0, 1, 691, 12345, 65535}
	for _, seed := range seeds {
		original := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
		buf := append([]byte(nil), original...)

		New(seed).Permute(buf)
		New(seed).Unpermute(buf)

		require.Equalf(t, original, buf, "seed=%d", seed)
	}
}

func TestPermuteIsDeterministic(t *testing.T) {
	buf1 := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	buf2 := append([]byte(nil), buf1...)

	New(691).Permute(buf1)
	New(691).Permute(buf2)

	require.Equal(t, buf1, buf2)
}

func TestPermuteLeavesIndexZeroFixed(t *testing.T) {
	buf := []byte{42, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	New(691).Permute(buf)
	require.Equal(t, byte(42), buf[0])
}

func TestPermuteHandlesShortBuffers(t *testing.T) {
	require.NotPanics(t, func() {
		New(1).Permute(nil)
		New(1).Permute([]byte{1})
		New(1).Permute([]byte{1, 2})
	})
	require.NotPanics(t, func() {
		New(1).Unpermute(nil)
		New(1).Unpermute([]byte{1})
		New(1).Unpermute([]byte{1, 2})
	})
}

func TestPermuteActuallyShufflesLargerBuffers(t *testing.T) {
	original := make([]byte, 64)
	for i := range original {
		original[i] = byte(i)
	}
	buf := append([]byte(nil), original...)

	New(691).Permute(buf)

	require.NotEqual(t, original, buf)
}
