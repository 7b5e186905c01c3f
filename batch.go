package indexbmp

import (
	"context"
	"errors"
	"fmt"

	"github.com/bodgit/indexbmp/archive"
	"github.com/bodgit/indexbmp/decode"
)

var (
	errEmptyBatch = errors.New("no images to convert")
	errCollision  = errors.New("output name already used")
)

// Batch is an explicit set of images to convert together
type Batch struct {
	Entries []archive.Entry
}

// Largest returns the entry with the greatest pixel area, taken as the
// representative image of the batch, along with the number of images in the
// batch. The first of equally sized entries wins. Only image headers are
// read.
func (b Batch) Largest() (archive.Entry, int, error) {
	if len(b.Entries) == 0 {
		return archive.Entry{}, 0, newError(InputError, "", errEmptyBatch)
	}

	best, area := 0, -1
	for i, e := range b.Entries {
		cfg, _, err := decode.Config(e.Data)
		if err != nil {
			return archive.Entry{}, 0, newError(DecodeError, e.Name, err)
		}
		if a := cfg.Width * cfg.Height; a > area {
			best, area = i, a
		}
	}

	return b.Entries[best], len(b.Entries), nil
}

// ConvertBatch converts every image in b in order. Each image is given an
// equal share of the progress. The first failure aborts the whole batch and
// no results are returned; the error names the failing image.
func (c *Converter) ConvertBatch(ctx context.Context, b Batch, fn ProgressFunc) ([]*Result, error) {
	return c.convertAll(ctx, b.Entries, newTracker(fn), 0, 100)
}

// ConvertArchive extracts every image from the zip archive in data and
// converts them as a batch. Extraction accounts for the first 20% of the
// progress.
func (c *Converter) ConvertArchive(ctx context.Context, name string, data []byte, fn ProgressFunc) ([]*Result, error) {
	t := newTracker(fn)
	p := t.band(0, 100)

	if err := checkInput(name, data, MaxArchiveSize, archive.IsArchive); err != nil {
		return nil, newError(InputError, name, err)
	}
	p.report(5)

	entries, err := archive.Entries(data)
	if err != nil {
		return nil, newError(InputError, name, err)
	}
	p.report(progressExtracted)

	c.logger.Printf("Found %d images in %q\n", len(entries), name)

	return c.convertAll(ctx, entries, t, progressExtracted, 100)
}

// checkNames makes sure no two entries produce the same output file
func checkNames(entries []archive.Entry) error {
	seen := make(map[string]string, len(entries))
	for _, e := range entries {
		out := OutputName(e.Name)
		if prev, ok := seen[out]; ok {
			return newError(InputError, e.Name, fmt.Errorf("%w: %s by %s", errCollision, out, prev))
		}
		seen[out] = e.Name
	}
	return nil
}

func (c *Converter) convertAll(ctx context.Context, entries []archive.Entry, t *tracker, lo, hi float64) ([]*Result, error) {
	if len(entries) == 0 {
		return nil, newError(InputError, "", errEmptyBatch)
	}

	if err := checkNames(entries); err != nil {
		return nil, err
	}

	n := float64(len(entries))
	results := make([]*Result, 0, len(entries))
	for i, e := range entries {
		p := t.band(lo+(hi-lo)*float64(i)/n, lo+(hi-lo)*float64(i+1)/n)
		r, err := c.convert(ctx, e.Name, e.Data, p)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}

	return results, nil
}
