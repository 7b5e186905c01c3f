/*
Package resize implements the dimension planner and the resampling filters
used to fit a source raster into the output bitmap.

All filters operate on *image.NRGBA rasters whose bounds start at the origin
and sample the source at x*(srcW/dstW), y*(srcH/dstH) with neighbourhood
coordinates kept inside the source; there is no wraparound at the edges.
*/
package resize

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strings"
)

// Filter selects the resampling algorithm
type Filter string

// Supported filters
const (
	Progressive Filter = "progressive"
	Lanczos     Filter = "lanczos"
	Bicubic     Filter = "bicubic"
	Hermite     Filter = "hermite"
)

// Filters lists every supported filter, default first
var Filters = []Filter{Progressive, Lanczos, Bicubic, Hermite}

var errBadSize = errors.New("resize: invalid target size")

// ParseFilter converts s to a Filter. An empty string selects Progressive.
func ParseFilter(s string) (Filter, error) {
	if s == "" {
		return Progressive, nil
	}
	for _, f := range Filters {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("resize: unknown filter %q", s)
}

func (f Filter) String() string {
	return string(f)
}

// Resampler maps a raster onto new dimensions
type Resampler interface {
	Resample(m *image.NRGBA, width, height int) *image.NRGBA
}

// New returns the Resampler implementing f. Sharpening only affects the
// progressive filter.
func New(f Filter, sharpen bool) (Resampler, error) {
	switch f {
	case Progressive, "":
		return progressive{sharpen: sharpen}, nil
	case Lanczos:
		return lanczos{a: 3}, nil
	case Bicubic:
		return bicubic{}, nil
	case Hermite:
		return hermite{}, nil
	}
	return nil, fmt.Errorf("resize: unknown filter %q", string(f))
}

// Resample resizes m to width by height using filter f
func Resample(m *image.NRGBA, width, height int, f Filter, sharpen bool) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, errBadSize
	}
	b := m.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, errors.New("resize: empty source image")
	}
	r, err := New(f, sharpen)
	if err != nil {
		return nil, err
	}
	return r.Resample(origin(m), width, height), nil
}

// origin returns m with its top-left corner at (0, 0)
func origin(m *image.NRGBA) *image.NRGBA {
	if m.Rect.Min == (image.Point{}) {
		return m
	}
	dup := *m
	dup.Pix = m.Pix[m.PixOffset(m.Rect.Min.X, m.Rect.Min.Y):]
	dup.Rect = m.Rect.Sub(m.Rect.Min)
	return &dup
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clamp8 stores v the way a clamped byte array does; round half to even
func clamp8(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.RoundToEven(v))
}

// roundHalfUp matches the usual rounding of non-negative pixel values
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
