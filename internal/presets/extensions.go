package presets

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gabriel-vasile/mimetype"
)

var (
	// ErrNoMatch is returned when an extension pattern matches no file.
	ErrNoMatch = errors.New("pattern matched no extension")
	// ErrNotBundle is returned for a file that is not a zip based bundle.
	ErrNotBundle = errors.New("not an extension bundle")
)

// crxMagic opens every Chrome extension package.
var crxMagic = []byte("Cr24")

// FindExtensions expands patterns under dir. Matches are deduplicated and
// returned sorted so a preset always produces the same request.
func FindExtensions(dir string, patterns ...string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range patterns {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(dir, pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoMatch, pattern)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

// LoadExtensions reads every bundle matched by patterns under dir.
func LoadExtensions(dir string, patterns ...string) ([][]byte, error) {
	files, err := FindExtensions(dir, patterns...)
	if err != nil {
		return nil, err
	}

	bundles := make([][]byte, 0, len(files))
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read extension: %w", err)
		}
		if err := CheckBundle(data); err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		bundles = append(bundles, data)
	}
	return bundles, nil
}

// CheckBundle reports whether data is a zip or crx bundle. A crx must carry
// a zip archive after its header. Children of zip, such as xpi or jar, are
// accepted.
func CheckBundle(data []byte) error {
	archive := data
	if bytes.HasPrefix(data, crxMagic) {
		var err error
		if archive, err = crxArchive(data); err != nil {
			return err
		}
	}

	mtype := mimetype.Detect(archive)
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is("application/zip") {
			return nil
		}
	}
	return fmt.Errorf("%w: detected %s", ErrNotBundle, mtype.String())
}

// crxArchive returns the zip payload of a crx package.
//
//	v2: magic, version, public key length, signature length, key, signature, zip
//	v3: magic, version, header length, protobuf header, zip
func crxArchive(data []byte) ([]byte, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("%w: truncated crx header", ErrNotBundle)
	}

	var offset uint64
	switch version := binary.LittleEndian.Uint32(data[4:8]); version {
	case 2:
		if len(data) < 16 {
			return nil, fmt.Errorf("%w: truncated crx header", ErrNotBundle)
		}
		keyLen := uint64(binary.LittleEndian.Uint32(data[8:12]))
		sigLen := uint64(binary.LittleEndian.Uint32(data[12:16]))
		offset = 16 + keyLen + sigLen
	case 3:
		offset = 12 + uint64(binary.LittleEndian.Uint32(data[8:12]))
	default:
		return nil, fmt.Errorf("%w: unsupported crx version %d", ErrNotBundle, version)
	}

	if offset > uint64(len(data)) {
		return nil, fmt.Errorf("%w: truncated crx header", ErrNotBundle)
	}
	return data[offset:], nil
}
