package indexbmp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"math/rand"
	"path"
	"path/filepath"
	"strings"

	"github.com/bodgit/indexbmp/archive"
	"github.com/bodgit/indexbmp/bmp"
	"github.com/bodgit/indexbmp/cache"
	"github.com/bodgit/indexbmp/decode"
	"github.com/bodgit/indexbmp/dither"
	"github.com/bodgit/indexbmp/palette"
	"github.com/bodgit/indexbmp/quantize"
	"github.com/bodgit/indexbmp/resize"
)

// Input size limits
const (
	MaxImageSize   = 10 << (10 * 2)
	MaxArchiveSize = 50 << (10 * 2)
)

var (
	errEmptyInput  = errors.New("empty file")
	errUnsupported = errors.New("unsupported file type")
	errUnsafeName  = errors.New("output outside destination directory")
)

// Result is a converted image
type Result struct {
	// Bitmap holds the encoded file
	Bitmap []byte
	// Preview is the indexed image expanded back to full color. It is only
	// meant for display.
	Preview *image.NRGBA
	// Filename is the source name with a .bmp extension
	Filename string
	// Source is the name of the source image
	Source string
	Width  int
	Height int
	// Colors is the number of palette entries in use
	Colors int
	// Size is the length of Bitmap in bytes
	Size int
}

// OutputName returns name with its extension replaced by .bmp
func OutputName(name string) string {
	return strings.TrimSuffix(name, path.Ext(name)) + ".bmp"
}

// OutputPath returns where the bitmap called name is written below dir. Names
// that would land outside dir are rejected.
func OutputPath(dir, name string) (string, error) {
	local := filepath.FromSlash(name)
	if !filepath.IsLocal(local) {
		return "", newError(InputError, name, errUnsafeName)
	}
	return filepath.Join(dir, local), nil
}

func checkInput(name string, data []byte, limit int, valid func(string) bool) error {
	if path.Ext(name) != "" && !valid(name) {
		return fmt.Errorf("%w: %s", errUnsupported, path.Ext(name))
	}
	if len(data) == 0 {
		return errEmptyInput
	}
	if len(data) > limit {
		return fmt.Errorf("file too large: %d bytes, maximum %d", len(data), limit)
	}
	return nil
}

// Convert runs a single image through the pipeline. name is only used to
// derive the output filename and in errors.
func (c *Converter) Convert(ctx context.Context, name string, data []byte, fn ProgressFunc) (*Result, error) {
	return c.convert(ctx, name, data, newTracker(fn).band(0, 100))
}

func (c *Converter) fromCache(name, sha string) *Result {
	e, err := c.cache.Get(sha, c.opts.key())
	if err != nil {
		c.logger.Printf("Cache lookup for %q failed: %v\n", name, err)
		return nil
	}
	if e == nil {
		return nil
	}

	pm, err := bmp.Decode(bytes.NewReader(e.Bitmap))
	if err != nil {
		c.logger.Printf("Ignoring unreadable cache entry for %q: %v\n", name, err)
		return nil
	}
	if e.Colors < 1 || e.Colors > len(pm.Palette) {
		return nil
	}
	pm.Palette = pm.Palette[:e.Colors]

	c.logger.Printf("Using cached conversion of %q\n", name)

	return &Result{
		Bitmap:   e.Bitmap,
		Preview:  palette.Expand(pm),
		Filename: OutputName(name),
		Source:   name,
		Width:    e.Width,
		Height:   e.Height,
		Colors:   e.Colors,
		Size:     len(e.Bitmap),
	}
}

func (c *Converter) convert(ctx context.Context, name string, data []byte, p *band) (*Result, error) {
	p.report(progressStart)

	if err := checkInput(name, data, MaxImageSize, archive.IsImage); err != nil {
		return nil, newError(InputError, name, err)
	}

	var sha string
	if c.cache != nil {
		sha = cache.Key(data)
		if r := c.fromCache(name, sha); r != nil {
			p.report(progressDone)
			return r, nil
		}
	}

	m, _, err := c.decoder.Decode(ctx, data)
	if err != nil {
		if errors.Is(err, decode.ErrEmptyImage) {
			return nil, newError(DimensionError, name, err)
		}
		return nil, newError(DecodeError, name, err)
	}
	p.report(progressDecoded)

	w, h := resize.Dimensions(m.Rect.Dx(), m.Rect.Dy(), c.opts.MaxSize)
	p.report(progressPlanned)

	m, err = resize.Resample(m, w, h, c.opts.Interpolation, c.opts.Sharpening)
	if err != nil {
		return nil, newError(DimensionError, name, err)
	}
	p.report(progressResampled)

	q, err := quantize.New(c.opts.Quantization, rand.New(rand.NewSource(c.opts.Seed)))
	if err != nil {
		return nil, newError(QuantizationError, name, err)
	}
	pal, pm, err := q.Quantize(m, palette.MaxColors, c.opts.reserved())
	if err != nil {
		return nil, newError(QuantizationError, name, err)
	}
	if len(pal) == 0 {
		return nil, newError(QuantizationError, name, quantize.ErrEmptyPalette)
	}
	p.report(progressQuantized)

	// The ditherer keeps the palette but replaces every index
	if c.opts.Dithering {
		pm = dither.FloydSteinberg(m, pal)
	}
	p.report(progressDithered)

	b := new(bytes.Buffer)
	b.Grow(bmp.FileSize(w, h))
	enc := bmp.Encoder{Logger: c.logger}
	if err := enc.Encode(b, pm); err != nil {
		return nil, newError(EncodingError, name, err)
	}
	p.report(progressEncoded)

	r := &Result{
		Bitmap:   b.Bytes(),
		Preview:  palette.Expand(pm),
		Filename: OutputName(name),
		Source:   name,
		Width:    w,
		Height:   h,
		Colors:   len(pal),
		Size:     b.Len(),
	}

	if c.cache != nil {
		if err := c.cache.Put(sha, c.opts.key(), &cache.Entry{Width: w, Height: h, Colors: len(pal), Bitmap: r.Bitmap}); err != nil {
			c.logger.Printf("Unable to cache conversion of %q: %v\n", name, err)
		}
	}

	c.logger.Printf("Converted %q to %dx%d with %d colors\n", name, w, h, len(pal))

	p.report(progressDone)

	return r, nil
}
