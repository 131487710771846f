// Package stego implements least-significant-bit steganography: embedding
// a shadow's pixel bytes into the LSBs of a carrier bitmap's pixel array,
// and extracting them back out. One carrier byte holds one bit of shadow
// data, MSB-first, so embedding a shadow requires a carrier with at least
// eight times as many pixel bytes.
package stego

import (
	"github.com/pkg/errors"

	"github.com/corvid/shadowbmp/bitmap"
)

// ErrCarrierTooSmall is returned when the carrier does not have enough
// pixel bytes to hold the shadow (it needs at least 8 per shadow byte).
var ErrCarrierTooSmall = errors.New("stego: carrier capacity exceeded")

// Embed conceals shadow's pixel bytes into the least significant bit of
// each of the first 8*len(shadow.Pixels) bytes of carrier.Pixels, MSB-first
// within each byte, and copies shadow's Key and ShadowIndex into carrier's
// header. carrier is modified in place.
func Embed(carrier *bitmap.Bitmap, shadow *bitmap.Bitmap) error {
	needed := 8 * len(shadow.Pixels)
	if len(carrier.Pixels) < needed {
		return errors.Wrapf(ErrCarrierTooSmall, "need %d carrier bytes, have %d", needed, len(carrier.Pixels))
	}

	for i, b := range shadow.Pixels {
		for j := 0; j < 8; j++ {
			bit := (b >> (7 - j)) & 1
			idx := 8*i + j
			carrier.Pixels[idx] = (carrier.Pixels[idx] &^ 1) | bit
		}
	}

	carrier.Key = shadow.Key
	carrier.ShadowIndex = shadow.ShadowIndex

	return nil
}

// Extract reverses Embed: given the raw, unpadded dimensions of the shadow
// that was embedded (width*height pixel bytes, exactly, not BMP
// row-padded — see bitmap.NewRaw), it reads that many bytes' worth of LSBs
// out of carrier.Pixels (MSB-first, 8 carrier bytes per shadow byte) and
// returns them as a new bitmap.Bitmap, carrying carrier's Key and
// ShadowIndex. Callers (see package pipeline) are responsible for deriving
// width and height via shamir.MostSquareFactor before calling Extract.
func Extract(carrier *bitmap.Bitmap, width uint32, height int32) (*bitmap.Bitmap, error) {
	shadowPixelCount := int(width) * int(abs32(height))
	needed := 8 * shadowPixelCount
	if len(carrier.Pixels) < needed {
		return nil, errors.Wrapf(ErrCarrierTooSmall, "need %d carrier bytes, have %d", needed, len(carrier.Pixels))
	}

	shadow := bitmap.NewRaw(width, height, carrier.Key, carrier.ShadowIndex, shadowPixelCount)
	for i := 0; i < shadowPixelCount; i++ {
		var b byte
		for j := 0; j < 8; j++ {
			bit := carrier.Pixels[8*i+j] & 1
			b = (b << 1) | bit
		}
		shadow.Pixels[i] = b
	}

	return shadow, nil
}

func abs32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}
