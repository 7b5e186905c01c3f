package indexbmp

import (
	"errors"
	"fmt"

	"github.com/bodgit/indexbmp/palette"
	"github.com/bodgit/indexbmp/quantize"
	"github.com/bodgit/indexbmp/resize"
)

// MaxSizes lists the permitted values for Options.MaxSize
var MaxSizes = []int{256, 512, 1024}

var errNoTransparentColor = errors.New("transparent mode requires a transparent color")

// Options controls how images are converted
type Options struct {
	// MaxSize bounds the longer side of the output, one of MaxSizes
	MaxSize int
	// Quantization selects the palette algorithm
	Quantization quantize.Method
	// Dithering enables Floyd-Steinberg error diffusion
	Dithering bool
	// Interpolation selects the resampling filter
	Interpolation resize.Filter
	// Sharpening applies an unsharp mask after each progressive step
	Sharpening bool
	// TransparentMode reserves the last palette entry for TransparentColor
	TransparentMode  bool
	TransparentColor *palette.Color
	// Seed feeds the k-means centroid selection; the same seed gives the
	// same palette
	Seed int64
}

// DefaultOptions returns the default conversion options
func DefaultOptions() Options {
	return Options{
		MaxSize:       256,
		Quantization:  quantize.MedianCut,
		Interpolation: resize.Progressive,
	}
}

// Validate checks the options are usable
func (o Options) Validate() error {
	ok := false
	for _, s := range MaxSizes {
		if o.MaxSize == s {
			ok = true
			break
		}
	}
	if !ok {
		return newError(InputError, "", fmt.Errorf("unsupported maximum size %d", o.MaxSize))
	}

	if _, err := quantize.ParseMethod(string(o.Quantization)); err != nil {
		return newError(InputError, "", err)
	}

	if _, err := resize.ParseFilter(string(o.Interpolation)); err != nil {
		return newError(InputError, "", err)
	}

	if o.TransparentMode && o.TransparentColor == nil {
		return newError(InputError, "", errNoTransparentColor)
	}

	return nil
}

// reserved returns the color pinned to the final palette slot, if any
func (o Options) reserved() *palette.Color {
	if !o.TransparentMode {
		return nil
	}
	return o.TransparentColor
}

// key describes every option that affects the output, for use as a cache
// key
func (o Options) key() string {
	method, _ := quantize.ParseMethod(string(o.Quantization))
	filter, _ := resize.ParseFilter(string(o.Interpolation))

	s := fmt.Sprintf("max=%d,quantization=%s,dither=%t,interpolation=%s", o.MaxSize, method, o.Dithering, filter)
	if filter == resize.Progressive {
		s += fmt.Sprintf(",sharpen=%t", o.Sharpening)
	}
	if c := o.reserved(); c != nil {
		s += ",transparent=" + c.Hex()
	}
	if method == quantize.KMeans {
		s += fmt.Sprintf(",seed=%d", o.Seed)
	}
	return s
}
