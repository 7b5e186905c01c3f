package resize

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// Steps bigger than this are split into successive halvings
const maxStepRatio = 0.5

type progressive struct {
	sharpen bool
}

// scale performs one high quality step. The Catmull-Rom kernel in x/image/draw
// widens its support by the downscale factor so every source pixel in the
// footprint contributes.
func scale(m *image.NRGBA, width, height int) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(out, out.Bounds(), m, m.Bounds(), draw.Src, nil)
	return out
}

// steps returns the size of every scaling pass taken from sw by sh down to
// width by height. Large reductions halve the image until it is within 1.5x
// of the target, never going below it, and finish with a pass at the exact
// target size.
func steps(sw, sh, width, height int) []image.Point {
	ratio := math.Min(float64(width)/float64(sw), float64(height)/float64(sh))
	if ratio >= maxStepRatio {
		return []image.Point{{X: width, Y: height}}
	}

	var s []image.Point
	w, h := sw, sh
	for float64(w) > float64(width)*1.5 || float64(h) > float64(height)*1.5 {
		w /= 2
		if w < width {
			w = width
		}
		h /= 2
		if h < height {
			h = height
		}
		s = append(s, image.Pt(w, h))
	}

	return append(s, image.Pt(width, height))
}

func (p progressive) Resample(m *image.NRGBA, width, height int) *image.NRGBA {
	s := steps(m.Rect.Dx(), m.Rect.Dy(), width, height)
	if len(s) == 1 {
		return scale(m, width, height)
	}

	cur := m
	for _, pt := range s {
		cur = scale(cur, pt.X, pt.Y)
		if p.sharpen {
			Sharpen(cur)
		}
	}
	return cur
}
