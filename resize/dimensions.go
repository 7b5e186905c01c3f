package resize

import "math"

const (
	// Multiple is the granularity of both output dimensions
	Multiple = 16
	// MinSize is the smallest output dimension
	MinSize = Multiple
)

// Dimensions returns the output size for a source of width by height. The
// source is scaled uniformly so the longer side fits within maxSize, never
// upscaled, and then each side is independently snapped to a multiple of 16
// that is at least 16 and no greater than maxSize. Snapping the sides
// independently means the aspect ratio may drift slightly.
func Dimensions(width, height, maxSize int) (int, int) {
	w, h := float64(width), float64(height)

	if scale := float64(maxSize) / math.Max(w, h); scale < 1 {
		w *= scale
		h *= scale
	}

	return snap(w, maxSize), snap(h, maxSize)
}

func snap(d float64, maxSize int) int {
	s := int(roundHalfUp(d/Multiple)) * Multiple
	if s > maxSize {
		s = int(math.Floor(d/Multiple)) * Multiple
	}
	if s < MinSize {
		s = MinSize
	}
	return s
}
