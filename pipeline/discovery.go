package pipeline

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"

	"github.com/corvid/shadowbmp/bitmap"
)

// ErrInsufficientCarriers is returned when dir does not contain enough
// valid carrier (or shadow-bearing) BMPs to satisfy a (k, n) request.
var ErrInsufficientCarriers = errors.New("pipeline: not enough valid BMPs in directory")

// discoverFiles lists the regular files directly inside dir, in a stable
// (lexical) order, mirroring a single synchronous directory walk.
func discoverFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "pipeline: read dir %s", dir)
	}

	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
	}
	return paths, nil
}

// CountFiles reports the number of regular files directly inside dir, used
// as the default shadow count (-n) when the caller doesn't supply one.
func CountFiles(dir string) (int, error) {
	paths, err := discoverFiles(dir)
	if err != nil {
		return 0, err
	}
	return len(paths), nil
}

// discoverCarriers scans dir for up to n valid carrier BMPs: any file that
// decodes as a supported 8-bit bitmap and has enough pixel capacity to
// embed a shadow of shadowBytes bytes. Bitmaps that already carry a
// non-zero ShadowIndex are not excluded. It returns their decoded bitmaps in
// discovery order, or ErrInsufficientCarriers if dir doesn't contain n of
// them.
func discoverCarriers(dir string, n, shadowBytes int) ([]*bitmap.Bitmap, []string, error) {
	paths, err := discoverFiles(dir)
	if err != nil {
		return nil, nil, err
	}

	var bitmaps []*bitmap.Bitmap
	var used []string
	for _, path := range paths {
		if len(bitmaps) == n {
			break
		}
		b, err := bitmap.ReadFile(path)
		if err != nil {
			continue // not a valid BMP at all; skip silently like the reference scanner
		}
		if len(b.Pixels) < 8*shadowBytes {
			continue
		}
		bitmaps = append(bitmaps, b)
		used = append(used, path)
	}

	if len(bitmaps) < n {
		return nil, nil, errors.Wrapf(ErrInsufficientCarriers, "found %d of %d needed in %s", len(bitmaps), n, dir)
	}
	return bitmaps, used, nil
}

// discoverShadows scans dir for up to k valid shadow-bearing carriers:
// bitmaps with a non-zero ShadowIndex and enough pixel capacity to yield
// shadowBytes worth of extracted shadow data.
func discoverShadows(dir string, k, shadowBytes int) ([]*bitmap.Bitmap, []string, error) {
	paths, err := discoverFiles(dir)
	if err != nil {
		return nil, nil, err
	}

	var bitmaps []*bitmap.Bitmap
	var used []string
	for _, path := range paths {
		if len(bitmaps) == k {
			break
		}
		b, err := bitmap.ReadFile(path)
		if err != nil {
			continue
		}
		if !b.IsShadow() {
			continue
		}
		if len(b.Pixels) < 8*shadowBytes {
			continue
		}
		bitmaps = append(bitmaps, b)
		used = append(used, path)
	}

	if len(bitmaps) < k {
		return nil, nil, errors.Wrapf(ErrInsufficientCarriers, "found %d of %d needed shadows in %s", len(bitmaps), k, dir)
	}
	return bitmaps, used, nil
}
