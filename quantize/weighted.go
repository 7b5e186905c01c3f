package quantize

import (
	"image"
	"image/color"

	"github.com/bodgit/indexbmp/palette"
	"github.com/ericpauley/go-quantize/quantize"
)

// weighted uses a population weighted median cut over a color histogram,
// so dominant colors claim more of the palette
type weighted struct{}

func (weighted) Quantize(m *image.NRGBA, maxColors int, reserved *palette.Color) (palette.Palette, *image.Paletted, error) {
	target, err := targetColors(m, maxColors, reserved)
	if err != nil {
		return nil, nil, err
	}
	if target == 0 {
		return finish(m, nil, reserved)
	}

	q := quantize.MedianCutQuantizer{}
	cp := q.Quantize(make(color.Palette, 0, target), m)

	return finish(m, palette.FromColorPalette(cp), reserved)
}
