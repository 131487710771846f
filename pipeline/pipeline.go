// Package pipeline wires together bitmap, shamir, stego and prng into the
// two end-to-end operations this project exists to perform: splitting a
// secret bitmap into n steganographically-hidden shadows, and recovering
// the secret from any k of them.
package pipeline

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/corvid/shadowbmp/bitmap"
	"github.com/corvid/shadowbmp/prng"
	"github.com/corvid/shadowbmp/shamir"
	"github.com/corvid/shadowbmp/stego"
)

// ErrInvalidThreshold is returned when k falls outside [2, 250], the
// range GF(251) polynomial evaluation supports with nonzero evaluation
// points.
var ErrInvalidThreshold = errors.New("pipeline: threshold k must be in [2, 250]")

// ErrInvalidShadowCount is returned when n < k (fewer shadows than the
// threshold can never be reassembled) or n > 250 (shadow indices are
// GF(251) evaluation points and must stay nonzero mod 251).
var ErrInvalidShadowCount = errors.New("pipeline: shadow count n must satisfy k <= n <= 250")

// ErrMissingDimensions is returned by Recover when Width or Height is
// zero. The original secret's dimensions aren't recoverable from the
// shadows themselves, so a caller-supplied zero can only produce a
// degenerate empty bitmap rather than a meaningful default.
var ErrMissingDimensions = errors.New("pipeline: recover requires nonzero width and height")

// DistributeConfig describes one distribute operation: split the secret
// bitmap at SecretPath into N shadows under a (K, N) threshold scheme,
// embed each into a carrier BMP discovered in Dir, and write the results
// as shadow<N>.bmp files in Dir.
type DistributeConfig struct {
	SecretPath string
	Dir        string
	K, N       int
	Seed       uint16
	Permute    bool
	Verbose    bool
}

// RecoverConfig describes one recover operation: find K valid shadow
// carriers in Dir, extract and solve them, and write the reconstructed
// secret to SecretPath. Width and Height are the ORIGINAL secret's
// dimensions in pixels (the padded pixel array size is derived from them
// with bitmap.PixelArraySize), required because that information isn't
// recoverable from the shadows alone.
type RecoverConfig struct {
	SecretPath string
	Dir        string
	K          int
	Width      uint32
	Height     int32
	Permute    bool
	Verbose    bool
}

// truncateGrayscale caps every pixel byte above 250 down to 250 in place,
// so the whole pixel array is valid input to GF(251) arithmetic. Only
// values 251-255 are affected; this project's carrier/secret images are
// expected to be (near-)grayscale already, so the visible effect is
// negligible banding at the very top of the range.
func truncateGrayscale(pixels []byte) {
	for i, v := range pixels {
		if v > gf251Max {
			pixels[i] = gf251Max
		}
	}
}

const gf251Max = 250

func logf(verbose bool, format string, args ...interface{}) {
	if verbose {
		log.Printf(format, args...)
	}
}

// Distribute implements the full split-and-hide pipeline: read the
// secret, truncate it into GF(251), optionally permute its pixel order,
// split it into cfg.N shadows under a cfg.K threshold, discover cfg.N
// carrier BMPs in cfg.Dir with enough capacity to hold them, embed each
// shadow via LSB steganography, and write the results as shadow<i>.bmp.
func Distribute(cfg DistributeConfig) error {
	if cfg.K < 2 || cfg.K > 250 {
		return ErrInvalidThreshold
	}
	if cfg.N < cfg.K || cfg.N > 250 {
		return ErrInvalidShadowCount
	}

	secret, err := bitmap.ReadFile(cfg.SecretPath)
	if err != nil {
		return errors.Wrapf(err, "pipeline: read secret %s", cfg.SecretPath)
	}

	truncateGrayscale(secret.Pixels)

	if cfg.Permute {
		prng.New(cfg.Seed).Permute(secret.Pixels)
		logf(cfg.Verbose, "permuted %d secret pixels with seed %d", len(secret.Pixels), cfg.Seed)
	}

	if len(secret.Pixels)%cfg.K != 0 {
		return errors.Wrapf(shamir.ErrNotDivisible, "secret has %d pixels, not divisible by k=%d", len(secret.Pixels), cfg.K)
	}
	blocks := len(secret.Pixels) / cfg.K

	carriers, carrierPaths, err := discoverCarriers(cfg.Dir, cfg.N, blocks)
	if err != nil {
		return err
	}
	logf(cfg.Verbose, "found %d carriers: %v", len(carriers), carrierPaths)

	shadows, err := shamir.FormShadows(secret, cfg.K, cfg.N, cfg.Seed)
	if err != nil {
		return errors.Wrap(err, "pipeline: form shadows")
	}

	for i := range shadows {
		if err := stego.Embed(carriers[i], &shadows[i]); err != nil {
			return errors.Wrapf(err, "pipeline: embed shadow %d into %s", i+1, carrierPaths[i])
		}

		outPath := filepath.Join(cfg.Dir, fmt.Sprintf("shadow%d.bmp", i+1))
		if err := bitmap.WriteFile(outPath, carriers[i]); err != nil {
			return errors.Wrapf(err, "pipeline: write %s", outPath)
		}
		logf(cfg.Verbose, "wrote %s (shadow index %d, %d pixels hidden)", outPath, i+1, len(shadows[i].Pixels))
	}

	return nil
}

// Recover implements the full extract-and-solve pipeline: find cfg.K
// shadow-bearing carriers in cfg.Dir, extract their hidden shadow pixels,
// solve the Shamir system for every block of cfg.K pixels, optionally
// reverse the distribute-time permutation, and write the reconstructed
// secret to cfg.SecretPath.
func Recover(cfg RecoverConfig) error {
	if cfg.K < 2 || cfg.K > 250 {
		return ErrInvalidThreshold
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return ErrMissingDimensions
	}

	total := int(bitmap.PixelArraySize(cfg.Width, cfg.Height))
	if total%cfg.K != 0 {
		return errors.Wrapf(shamir.ErrNotDivisible, "secret would have %d pixels, not divisible by k=%d", total, cfg.K)
	}
	blocks := total / cfg.K
	shadowWidth, shadowHeight := shamir.MostSquareFactor(blocks)

	carriers, carrierPaths, err := discoverShadows(cfg.Dir, cfg.K, blocks)
	if err != nil {
		return err
	}
	logf(cfg.Verbose, "found %d shadow carriers: %v", len(carriers), carrierPaths)

	shadowData := make([][]byte, len(carriers))
	xs := make([]byte, len(carriers))
	for i, carrier := range carriers {
		shadow, err := stego.Extract(carrier, shadowWidth, shadowHeight)
		if err != nil {
			return errors.Wrapf(err, "pipeline: extract shadow from %s", carrierPaths[i])
		}
		shadowData[i] = shadow.Pixels
		xs[i] = byte(carrier.ShadowIndex)
	}

	seed := carriers[0].Key

	secretPixels := make([]byte, total)
	ys := make([]byte, len(carriers))
	for j := 0; j < blocks; j++ {
		for i := range carriers {
			ys[i] = shadowData[i][j]
		}
		block, err := shamir.Solve(xs, ys)
		if err != nil {
			return errors.Wrapf(err, "pipeline: solve block %d", j)
		}
		copy(secretPixels[j*cfg.K:j*cfg.K+cfg.K], block)
	}

	if cfg.Permute {
		prng.New(seed).Unpermute(secretPixels)
		logf(cfg.Verbose, "unpermuted %d secret pixels with seed %d", len(secretPixels), seed)
	}

	secret := bitmap.New(cfg.Width, cfg.Height, seed, 0)
	copy(secret.Pixels, secretPixels)

	if err := bitmap.WriteFile(cfg.SecretPath, secret); err != nil {
		return errors.Wrapf(err, "pipeline: write %s", cfg.SecretPath)
	}
	logf(cfg.Verbose, "wrote %s (%d pixels)", cfg.SecretPath, len(secret.Pixels))

	return nil
}
