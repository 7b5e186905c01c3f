package quantize

import (
	"image"
	"sort"

	"github.com/bodgit/indexbmp/palette"
)

type medianCut struct{}

type channel int

const (
	red channel = iota
	green
	blue
)

func (c channel) of(col palette.Color) uint8 {
	switch c {
	case green:
		return col.G
	case blue:
		return col.B
	}
	return col.R
}

type bucket []palette.Color

// box caches the widest range of a bucket so it is only computed once
type box struct {
	colors bucket
	spread int
	ch     channel
}

func newBox(b bucket) box {
	spread, ch := b.widest()
	return box{colors: b, spread: spread, ch: ch}
}

// ranges returns the spread of each channel
func (b bucket) ranges() (int, int, int) {
	minR, minG, minB := 255, 255, 255
	maxR, maxG, maxB := 0, 0, 0
	for _, c := range b {
		r, g, bl := int(c.R), int(c.G), int(c.B)
		if r < minR {
			minR = r
		}
		if r > maxR {
			maxR = r
		}
		if g < minG {
			minG = g
		}
		if g > maxG {
			maxG = g
		}
		if bl < minB {
			minB = bl
		}
		if bl > maxB {
			maxB = bl
		}
	}
	return maxR - minR, maxG - minG, maxB - minB
}

// widest returns the largest range and the channel to split on
func (b bucket) widest() (int, channel) {
	r, g, bl := b.ranges()

	max := r
	if g > max {
		max = g
	}
	if bl > max {
		max = bl
	}

	var ch channel
	if r > g {
		if r > bl {
			ch = red
		} else {
			ch = blue
		}
	} else {
		if g > bl {
			ch = green
		} else {
			ch = blue
		}
	}
	return max, ch
}

func (medianCut) Quantize(m *image.NRGBA, maxColors int, reserved *palette.Color) (palette.Palette, *image.Paletted, error) {
	target, err := targetColors(m, maxColors, reserved)
	if err != nil {
		return nil, nil, err
	}
	if target == 0 {
		return finish(m, nil, reserved)
	}

	buckets := []box{newBox(pixels(m, 1))}

	for len(buckets) < target {
		// The first bucket with a strictly larger range wins
		largest, largestRange := -1, 0
		for i, b := range buckets {
			if b.spread > largestRange {
				largest, largestRange = i, b.spread
			}
		}

		if largest < 0 || len(buckets[largest].colors) < 2 {
			break
		}

		b, ch := buckets[largest].colors, buckets[largest].ch
		sort.SliceStable(b, func(i, j int) bool {
			return ch.of(b[i]) < ch.of(b[j])
		})
		median := len(b) / 2

		buckets = append(buckets, box{})
		copy(buckets[largest+2:], buckets[largest+1:])
		buckets[largest], buckets[largest+1] = newBox(b[:median:median]), newBox(b[median:])
	}

	p := make(palette.Palette, 0, len(buckets)+1)
	for _, b := range buckets {
		p = append(p, mean(b.colors))
	}

	return finish(m, p, reserved)
}
