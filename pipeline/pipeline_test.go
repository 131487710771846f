package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corvid/shadowbmp/bitmap"
)

// writeCarrier writes a freshly allocated plain (non-shadow) carrier BMP
// of the given dimensions, filled with a simple repeating pattern, so
// discoverCarriers always finds enough capacity.
func writeCarrier(t *testing.T, dir, name string, width uint32, height int32) string {
	t.Helper()
	b := bitmap.New(width, height, 0, 0)
	for i := range b.Pixels {
		b.Pixels[i] = byte(i % 256)
	}
	path := filepath.Join(dir, name)
	require.NoError(t, bitmap.WriteFile(path, b))
	return path
}

func writeSecret(t *testing.T, dir, name string, width uint32, height int32, pixels []byte) string {
	t.Helper()
	b := bitmap.New(width, height, 0, 0)
	require.Equal(t, len(b.Pixels), len(pixels))
	copy(b.Pixels, pixels)
	path := filepath.Join(dir, name)
	require.NoError(t, bitmap.WriteFile(path, b))
	return path
}

func runRoundTrip(t *testing.T, k, n int, seed uint16, permute bool) {
	t.Helper()
	dir := t.TempDir()

	width, height := uint32(12), int32(1)
	arraySize := int(bitmap.PixelArraySize(width, height))
	require.Zero(t, arraySize%k, "fixture array size must divide k cleanly")

	secretPixels := make([]byte, arraySize)
	for i := range secretPixels {
		secretPixels[i] = byte((i*37 + 11) % 251) // keep within GF(251) domain
	}
	secretPath := writeSecret(t, dir, "secret.bmp", width, height, secretPixels)

	// One big carrier per shadow is plenty of capacity for a 12-byte secret.
	for i := 0; i < n; i++ {
		writeCarrier(t, dir, "carrier"+string(rune('a'+i))+".bmp", 64, 64)
	}

	require.NoError(t, Distribute(DistributeConfig{
		SecretPath: secretPath,
		Dir:        dir,
		K:          k,
		N:          n,
		Seed:       seed,
		Permute:    permute,
	}))

	recoveredPath := filepath.Join(dir, "recovered.bmp")
	require.NoError(t, Recover(RecoverConfig{
		SecretPath: recoveredPath,
		Dir:        dir,
		K:          k,
		Width:      width,
		Height:     height,
		Permute:    permute,
	}))

	recovered, err := bitmap.ReadFile(recoveredPath)
	require.NoError(t, err)

	expected := make([]byte, len(secretPixels))
	copy(expected, secretPixels)
	truncateGrayscale(expected)
	require.Equal(t, expected, recovered.Pixels)
}

func TestDistributeRecoverRoundTrip(t *testing.T) {
	cases := []struct {
		name    string
		k, n    int
		seed    uint16
		permute bool
	}{
		{"2of2", 2, 2, 691, false},
		{"2of3", 2, 3, 1, false},
		{"3of5", 3, 5, 12345, false},
		{"2of2-permuted", 2, 2, 691, true},
		{"4of4", 4, 4, 65535, false},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			runRoundTrip(t, c.k, c.n, c.seed, c.permute)
		})
	}
}

func TestScenario3TruncationRoundTrip(t *testing.T) {
	dir := t.TempDir()
	width, height := uint32(2), int32(2)
	arraySize := int(bitmap.PixelArraySize(width, height))

	pixels := make([]byte, arraySize)
	for i := range pixels {
		pixels[i] = 255 // above the GF(251) domain; must be truncated to 250
	}
	secretPath := writeSecret(t, dir, "secret.bmp", width, height, pixels)

	writeCarrier(t, dir, "c1.bmp", 32, 32)
	writeCarrier(t, dir, "c2.bmp", 32, 32)

	require.NoError(t, Distribute(DistributeConfig{
		SecretPath: secretPath,
		Dir:        dir,
		K:          2,
		N:          2,
		Seed:       691,
	}))

	recoveredPath := filepath.Join(dir, "recovered.bmp")
	require.NoError(t, Recover(RecoverConfig{
		SecretPath: recoveredPath,
		Dir:        dir,
		K:          2,
		Width:      width,
		Height:     height,
	}))

	recovered, err := bitmap.ReadFile(recoveredPath)
	require.NoError(t, err)
	for _, b := range recovered.Pixels {
		require.Equal(t, byte(250), b)
	}
}

func TestDistributeRejectsBadThreshold(t *testing.T) {
	dir := t.TempDir()
	secretPath := writeSecret(t, dir, "secret.bmp", 2, 2, make([]byte, int(bitmap.PixelArraySize(2, 2))))

	err := Distribute(DistributeConfig{SecretPath: secretPath, Dir: dir, K: 1, N: 2, Seed: 1})
	require.ErrorIs(t, err, ErrInvalidThreshold)

	err = Distribute(DistributeConfig{SecretPath: secretPath, Dir: dir, K: 3, N: 2, Seed: 1})
	require.ErrorIs(t, err, ErrInvalidShadowCount)
}

func TestDistributeFailsWithoutEnoughCarriers(t *testing.T) {
	dir := t.TempDir()
	width, height := uint32(2), int32(2)
	secretPath := writeSecret(t, dir, "secret.bmp", width, height, make([]byte, int(bitmap.PixelArraySize(width, height))))

	writeCarrier(t, dir, "only-one.bmp", 32, 32)

	err := Distribute(DistributeConfig{SecretPath: secretPath, Dir: dir, K: 2, N: 2, Seed: 1})
	require.ErrorIs(t, err, ErrInsufficientCarriers)
}

func TestRecoverFailsWithoutEnoughShadows(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "not-a-bmp.txt"), []byte("hello"), 0o644))

	err := Recover(RecoverConfig{SecretPath: filepath.Join(dir, "out.bmp"), Dir: dir, K: 2, Width: 2, Height: 2})
	require.ErrorIs(t, err, ErrInsufficientCarriers)
}

func TestDistributeRejectsTooManyShadows(t *testing.T) {
	dir := t.TempDir()
	secretPath := writeSecret(t, dir, "secret.bmp", 2, 2, make([]byte, int(bitmap.PixelArraySize(2, 2))))

	err := Distribute(DistributeConfig{SecretPath: secretPath, Dir: dir, K: 2, N: 251, Seed: 1})
	require.ErrorIs(t, err, ErrInvalidShadowCount)
}

func TestRecoverRejectsMissingDimensions(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.bmp")

	err := Recover(RecoverConfig{SecretPath: out, Dir: dir, K: 2, Width: 0, Height: 4})
	require.ErrorIs(t, err, ErrMissingDimensions)

	err = Recover(RecoverConfig{SecretPath: out, Dir: dir, K: 2, Width: 4, Height: 0})
	require.ErrorIs(t, err, ErrMissingDimensions)
}
