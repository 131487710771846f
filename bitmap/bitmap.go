// Package bitmap provides a byte-exact codec for the narrow family of BMP
// files this project operates on: uncompressed, 8-bit indexed, 40-byte DIB
// header, with the two reserved BMP header fields repurposed to carry a
// secret-sharing key and a shadow index.
package bitmap

const (
	// BMPHeaderSize is the size in bytes of the leading "BM" file header.
	BMPHeaderSize = 14
	// DIBHeaderSize is the size in bytes of the BITMAPINFOHEADER.
	DIBHeaderSize = 40
	// PaletteSize is the size in bytes of a 256-entry BGRA palette.
	PaletteSize = 1024
	// DataOffset is the fixed byte offset of the pixel array for every
	// bitmap this package produces.
	DataOffset = BMPHeaderSize + DIBHeaderSize + PaletteSize
	// Depth is the only supported bit depth.
	Depth = 8
	// BitsPerPixel is an alias kept for readability at call sites that
	// compute pixel-array padding.
	BitsPerPixel = Depth
)

// Bitmap is the in-memory representation of one 8-bit indexed BMP image.
// Orientation (top-down vs bottom-up, implied by the sign of Height) is the
// caller's concern; this package stores pixels exactly as read or given.
type Bitmap struct {
	Width       uint32
	Height      int32
	Key         uint16 // reserved header field #1: the PRNG seed
	ShadowIndex uint16 // reserved header field #2: 0 means "not a shadow"
	Palette     [PaletteSize]byte
	Pixels      []byte
}

// PixelArraySize returns the padded size, in bytes, of the pixel array for
// an 8-bit bitmap of the given width and height, accounting for BMP's
// 4-byte row alignment. Height may be negative (top-down order); only its
// magnitude affects the size.
func PixelArraySize(width uint32, height int32) uint32 {
	h := height
	if h < 0 {
		h = -h
	}
	return ((BitsPerPixel*width + 31) / 32) * 4 * uint32(h)
}

// FileSize returns the total on-disk size of the bitmap described by b.
func FileSize(b *Bitmap) uint32 {
	return uint32(DataOffset) + uint32(len(b.Pixels))
}

// grayscalePalette is the standard 256-entry grayscale BGRA palette: every
// entry is (i, i, i, 0).
func grayscalePalette() [PaletteSize]byte {
	var p [PaletteSize]byte
	for i := 0; i < 256; i++ {
		j := i * 4
		p[j] = byte(i)
		p[j+1] = byte(i)
		p[j+2] = byte(i)
		p[j+3] = 0
	}
	return p
}

// New allocates a fresh Bitmap with the given dimensions, key and shadow
// index, a zeroed pixel array sized via PixelArraySize, and the standard
// grayscale palette.
func New(width uint32, height int32, key, shadowIndex uint16) *Bitmap {
	return &Bitmap{
		Width:       width,
		Height:      height,
		Key:         key,
		ShadowIndex: shadowIndex,
		Palette:     grayscalePalette(),
		Pixels:      make([]byte, PixelArraySize(width, height)),
	}
}

// NewRaw allocates a Bitmap like New, except its pixel array is exactly
// pixelCount bytes rather than the row-padded size PixelArraySize would
// compute. Shadow bitmaps use this: their width and height are chosen
// (see shamir.MostSquareFactor) so that width*height already equals the
// exact number of shadow pixels, with no BMP row-alignment padding, since
// shadows are never themselves written out as standalone files.
func NewRaw(width uint32, height int32, key, shadowIndex uint16, pixelCount int) *Bitmap {
	return &Bitmap{
		Width:       width,
		Height:      height,
		Key:         key,
		ShadowIndex: shadowIndex,
		Palette:     grayscalePalette(),
		Pixels:      make([]byte, pixelCount),
	}
}

// IsShadow reports whether b carries a non-zero shadow index, i.e. whether
// it was produced as (or steganographically carries) one of the n shares
// of a distributed secret.
func (b *Bitmap) IsShadow() bool {
	return b.ShadowIndex != 0
}
