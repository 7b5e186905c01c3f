/*
Package archive extracts image files from zip archives.

Only regular files whose names carry one of the supported image extensions
are returned; directories, hidden files and anything else are skipped.
*/
package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io/ioutil"
	"path"
	"sort"
	"strings"

	"github.com/klauspost/compress/zip"
)

// Extensions lists the file extensions treated as images
var Extensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".tga", ".tif", ".tiff"}

var (
	// ErrNoImages is returned when an archive holds no image entries
	ErrNoImages = errors.New("archive: no images found")
	errTooLarge = errors.New("archive: entry too large")
	errUnsafe   = errors.New("archive: entry escapes the archive")
)

// MaxEntrySize bounds the uncompressed size of a single entry
const MaxEntrySize = 64 << (10 * 2)

// Entry is a single file extracted from an archive
type Entry struct {
	Name string
	Data []byte
}

// IsImage reports whether name has one of the supported image extensions
func IsImage(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// IsArchive reports whether name looks like a zip archive
func IsArchive(name string) bool {
	return strings.EqualFold(path.Ext(name), ".zip")
}

// Entries returns every image within the zip archive held in data, sorted by
// name
func Entries(data []byte) ([]Entry, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}

	var entries []Entry
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}

		// Ignore any hidden files, such as macOS resource forks
		base := path.Base(f.Name)
		if base[0] == '.' || strings.HasPrefix(f.Name, "__MACOSX/") {
			continue
		}

		if !IsImage(f.Name) {
			continue
		}

		// Names must stay below wherever the archive is unpacked
		name := path.Clean(f.Name)
		if path.IsAbs(name) || name == ".." || strings.HasPrefix(name, "../") {
			return nil, fmt.Errorf("%w: %s", errUnsafe, f.Name)
		}

		if f.UncompressedSize64 > MaxEntrySize {
			return nil, fmt.Errorf("%w: %s", errTooLarge, f.Name)
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("archive: %s: %w", f.Name, err)
		}
		b, err := ioutil.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("archive: %s: %w", f.Name, err)
		}

		entries = append(entries, Entry{Name: name, Data: b})
	}

	if len(entries) == 0 {
		return nil, ErrNoImages
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	return entries, nil
}
