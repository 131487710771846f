package bitmap

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
)

// ErrBadMagic is returned when a stream does not begin with the BMP magic
// number "BM".
var ErrBadMagic = errors.New("bitmap: not a BMP file")

// ErrUnsupportedDIB is returned when the DIB header size field is not 40,
// the only BITMAPINFOHEADER layout this package understands.
var ErrUnsupportedDIB = errors.New("bitmap: unsupported DIB header size")

// ErrUnsupportedDepth is returned when the bit depth is not 8.
var ErrUnsupportedDepth = errors.New("bitmap: unsupported bit depth, only 8-bit indexed bitmaps are supported")

// ErrUnsupportedCompression is returned when the compression field is
// nonzero; only uncompressed bitmaps are supported.
var ErrUnsupportedCompression = errors.New("bitmap: compressed bitmaps are not supported")

// Codec reads and writes the byte-exact 8-bit indexed BMP layout this
// project uses, including the two reserved header fields repurposed as
// key and shadow index. The zero value is ready to use.
type Codec struct{}

// Decode reads one bitmap from r. All multi-byte header fields are
// little-endian on the wire; Decode normalizes them into host-native Go
// values, so callers never need to think about byte order again.
func (Codec) Decode(r io.Reader) (*Bitmap, error) {
	br := bufio.NewReader(r)

	var magic [2]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return nil, errors.Wrap(err, "bitmap: read magic")
	}
	if magic[0] != 'B' || magic[1] != 'M' {
		return nil, ErrBadMagic
	}

	var fileSize uint32
	var key, shadowIndex uint16
	var dataOffset uint32
	if err := binary.Read(br, binary.LittleEndian, &fileSize); err != nil {
		return nil, errors.Wrap(err, "bitmap: read file size")
	}
	if err := binary.Read(br, binary.LittleEndian, &key); err != nil {
		return nil, errors.Wrap(err, "bitmap: read key field")
	}
	if err := binary.Read(br, binary.LittleEndian, &shadowIndex); err != nil {
		return nil, errors.Wrap(err, "bitmap: read shadow index field")
	}
	if err := binary.Read(br, binary.LittleEndian, &dataOffset); err != nil {
		return nil, errors.Wrap(err, "bitmap: read data offset")
	}

	var dibSize uint32
	if err := binary.Read(br, binary.LittleEndian, &dibSize); err != nil {
		return nil, errors.Wrap(err, "bitmap: read DIB header size")
	}
	if dibSize != DIBHeaderSize {
		return nil, errors.Wrapf(ErrUnsupportedDIB, "got %d, want %d", dibSize, DIBHeaderSize)
	}

	b := &Bitmap{Key: key, ShadowIndex: shadowIndex}

	var planes, depth uint16
	var compression, pixelArraySize, hres, vres, ncolors, nimpcolors uint32
	for _, field := range []struct {
		name string
		ptr  any
	}{
		{"width", &b.Width},
		{"height", &b.Height},
		{"planes", &planes},
		{"depth", &depth},
		{"compression", &compression},
		{"pixel array size", &pixelArraySize},
		{"hres", &hres},
		{"vres", &vres},
		{"ncolors", &ncolors},
		{"nimpcolors", &nimpcolors},
	} {
		if err := binary.Read(br, binary.LittleEndian, field.ptr); err != nil {
			return nil, errors.Wrapf(err, "bitmap: read %s", field.name)
		}
	}

	if depth != Depth {
		return nil, errors.Wrapf(ErrUnsupportedDepth, "got %d", depth)
	}
	if compression != 0 {
		return nil, ErrUnsupportedCompression
	}

	if _, err := io.ReadFull(br, b.Palette[:]); err != nil {
		return nil, errors.Wrap(err, "bitmap: read palette")
	}

	imageSize := pixelArraySize
	if fileSize > dataOffset {
		imageSize = fileSize - dataOffset
	}
	b.Pixels = make([]byte, imageSize)
	if _, err := io.ReadFull(br, b.Pixels); err != nil {
		return nil, errors.Wrap(err, "bitmap: read pixel array")
	}

	return b, nil
}

// Encode writes b to w in the exact on-disk layout Decode expects,
// recomputing FileSize, DataOffset and the pixel array size from b's
// current contents.
func (Codec) Encode(w io.Writer, b *Bitmap) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.Write([]byte{'B', 'M'}); err != nil {
		return errors.Wrap(err, "bitmap: write magic")
	}

	fileSize := FileSize(b)
	fields := []any{
		fileSize,
		b.Key,
		b.ShadowIndex,
		uint32(DataOffset),
		uint32(DIBHeaderSize),
		b.Width,
		b.Height,
		uint16(1),     // planes
		uint16(Depth), // depth
		uint32(0),     // compression
		uint32(len(b.Pixels)),
		uint32(0), // hres
		uint32(0), // vres
		uint32(0), // ncolors
		uint32(0), // nimpcolors
	}
	for _, f := range fields {
		if err := binary.Write(bw, binary.LittleEndian, f); err != nil {
			return errors.Wrap(err, "bitmap: write header")
		}
	}

	if _, err := bw.Write(b.Palette[:]); err != nil {
		return errors.Wrap(err, "bitmap: write palette")
	}
	if _, err := bw.Write(b.Pixels); err != nil {
		return errors.Wrap(err, "bitmap: write pixel array")
	}

	return errors.Wrap(bw.Flush(), "bitmap: flush")
}

// ReadFile opens path and decodes a Bitmap from it.
func ReadFile(path string) (*Bitmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "bitmap: open %s", path)
	}
	defer f.Close()

	b, err := (Codec{}).Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "bitmap: decode %s", path)
	}
	return b, nil
}

// WriteFile creates (or truncates) path and encodes b into it.
func WriteFile(path string, b *Bitmap) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "bitmap: create %s", path)
	}
	defer f.Close()

	if err := (Codec{}).Encode(f, b); err != nil {
		return errors.Wrapf(err, "bitmap: encode %s", path)
	}
	return nil
}
