/*
Package quantize reduces the colors of a raster to a palette of at most 256
entries and assigns every pixel the index of its nearest palette color.

When a reserved color is supplied it is appended as the final palette entry
after quantizing to one fewer color, and it takes part in the nearest color
search like any other entry.
*/
package quantize

import (
	"errors"
	"fmt"
	"image"
	"math"
	"math/rand"
	"strings"

	"github.com/bodgit/indexbmp/palette"
)

// Method selects the quantization algorithm
type Method string

// Supported methods
const (
	MedianCut Method = "median-cut"
	Octree    Method = "octree"
	KMeans    Method = "k-means"
	Weighted  Method = "weighted"
)

// Methods lists every supported method, default first
var Methods = []Method{MedianCut, Octree, KMeans, Weighted}

var (
	// ErrEmptyPalette is returned if quantizing produced no colors
	ErrEmptyPalette = errors.New("quantize: empty palette")
	errMaxColors    = errors.New("quantize: maximum colors must be between 1 and 256")
	errEmptyImage   = errors.New("quantize: empty image")
)

// ParseMethod converts s to a Method. An empty string selects MedianCut.
func ParseMethod(s string) (Method, error) {
	if s == "" {
		return MedianCut, nil
	}
	for _, m := range Methods {
		if strings.EqualFold(s, string(m)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("quantize: unknown method %q", s)
}

func (m Method) String() string {
	return string(m)
}

// Quantizer builds a palette for an image and indexes every pixel against it
type Quantizer interface {
	Quantize(m *image.NRGBA, maxColors int, reserved *palette.Color) (palette.Palette, *image.Paletted, error)
}

// New returns the Quantizer implementing method. rng seeds the k-means
// centroids and may be nil for the other methods; a nil rng with k-means
// uses a fixed seed.
func New(method Method, rng *rand.Rand) (Quantizer, error) {
	switch method {
	case MedianCut, "":
		return medianCut{}, nil
	case Octree:
		return octree{}, nil
	case KMeans:
		if rng == nil {
			rng = rand.New(rand.NewSource(1))
		}
		return kmeans{rng: rng, iterations: 10, samples: 10000}, nil
	case Weighted:
		return weighted{}, nil
	}
	return nil, fmt.Errorf("quantize: unknown method %q", string(method))
}

// targetColors validates the request and returns the number of colors the
// algorithm itself may produce
func targetColors(m *image.NRGBA, maxColors int, reserved *palette.Color) (int, error) {
	if maxColors < 1 || maxColors > palette.MaxColors {
		return 0, errMaxColors
	}
	if m.Rect.Dx() <= 0 || m.Rect.Dy() <= 0 {
		return 0, errEmptyImage
	}
	if reserved != nil {
		return maxColors - 1, nil
	}
	return maxColors, nil
}

// finish appends the reserved color and indexes every pixel of m
func finish(m *image.NRGBA, p palette.Palette, reserved *palette.Color) (palette.Palette, *image.Paletted, error) {
	if reserved != nil {
		p = append(p, *reserved)
	}
	if len(p) == 0 {
		return nil, nil, ErrEmptyPalette
	}
	return p, p.Index(m), nil
}

// pixels returns the RGB of every pixel in m, in row-major order, taking
// every stride'th pixel
func pixels(m *image.NRGBA, stride int) []palette.Color {
	w, h := m.Rect.Dx(), m.Rect.Dy()
	out := make([]palette.Color, 0, (w*h+stride-1)/stride)
	for i := 0; i < w*h; i += stride {
		o := (i/w)*m.Stride + (i%w)*4
		out = append(out, palette.Color{R: m.Pix[o], G: m.Pix[o+1], B: m.Pix[o+2]})
	}
	return out
}

func round(v float64) uint8 {
	return uint8(math.Floor(v + 0.5))
}

// mean returns the per-channel rounded average of colors
func mean(colors []palette.Color) palette.Color {
	var r, g, b int
	for _, c := range colors {
		r += int(c.R)
		g += int(c.G)
		b += int(c.B)
	}
	n := float64(len(colors))
	return palette.Color{
		R: round(float64(r) / n),
		G: round(float64(g) / n),
		B: round(float64(b) / n),
	}
}
