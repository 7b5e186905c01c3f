package bmp

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"
	"io/ioutil"
	"log"

	"github.com/bodgit/indexbmp/palette"
)

var (
	// ErrInvalidDimensions is returned for an image with no pixels
	ErrInvalidDimensions = errors.New("bmp: width and height must be positive")
	// ErrInvalidPalette is returned for an empty or oversized palette
	ErrInvalidPalette = errors.New("bmp: palette must contain 1-256 colors")
	// ErrInvalidPixels is returned when the pixel buffer doesn't match the
	// dimensions
	ErrInvalidPixels = errors.New("bmp: pixel data length must match width × height")
)

// Encoder writes bitmaps. Out of range palette indices are clamped to the
// last palette entry and reported to Logger if set.
type Encoder struct {
	Logger *log.Logger
}

type encoder struct {
	w      *bufio.Writer
	logger *log.Logger
}

func validate(m *image.Paletted) error {
	w, h := m.Rect.Dx(), m.Rect.Dy()
	if w <= 0 || h <= 0 {
		return ErrInvalidDimensions
	}
	if len(m.Palette) == 0 || len(m.Palette) > paletteEntries {
		return fmt.Errorf("%w: got %d", ErrInvalidPalette, len(m.Palette))
	}
	if m.Stride != w || len(m.Pix) != w*h {
		return fmt.Errorf("%w: got %d, want %d", ErrInvalidPixels, len(m.Pix), w*h)
	}
	return nil
}

func (e *encoder) writeHeaders(width, height int) error {
	imageSize := RowSize(width) * height

	fh := fileHeader{
		Magic:  [2]byte{'B', 'M'},
		Size:   uint32(FileSize(width, height)),
		Offset: PixelOffset,
	}
	if err := binary.Write(e.w, binary.LittleEndian, &fh); err != nil {
		return err
	}

	ih := infoHeader{
		Size:          infoHeaderSize,
		Width:         int32(width),
		Height:        int32(height), // Positive for bottom-up
		Planes:        1,
		BitCount:      bitsPerPixel,
		ImageSize:     uint32(imageSize),
		XPelsPerMeter: pixelsPerMetre,
		YPelsPerMeter: pixelsPerMetre,
		ColorsUsed:    paletteEntries,
	}
	return binary.Write(e.w, binary.LittleEndian, &ih)
}

func (e *encoder) writeColorTable(p palette.Palette) error {
	var table [colorTableSize]byte
	for i, c := range p {
		table[i*4+0] = c.B
		table[i*4+1] = c.G
		table[i*4+2] = c.R
	}
	_, err := e.w.Write(table[:])
	return err
}

func (e *encoder) writePixels(m *image.Paletted, colors int) error {
	w, h := m.Rect.Dx(), m.Rect.Dy()
	row := make([]byte, RowSize(w))

	var clamped, first int
	max := uint8(colors - 1)

	for y := h - 1; y >= 0; y-- {
		copy(row, m.Pix[y*m.Stride:y*m.Stride+w])
		for x, i := range row[:w] {
			if i > max {
				if clamped == 0 {
					first = y*w + x
				}
				clamped++
				row[x] = max
			}
		}
		if _, err := e.w.Write(row); err != nil {
			return err
		}
	}

	if clamped > 0 {
		e.logger.Printf("bmp: clamped %d out of range palette indices to %d, first at pixel %d\n", clamped, max, first)
	}

	return nil
}

// Encode writes the paletted image m to w. The palette is padded with black
// to 256 entries on disk.
func (enc *Encoder) Encode(w io.Writer, m *image.Paletted) error {
	if err := validate(m); err != nil {
		return err
	}

	logger := enc.Logger
	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}

	e := encoder{
		w:      bufio.NewWriter(w),
		logger: logger,
	}

	if err := e.writeHeaders(m.Rect.Dx(), m.Rect.Dy()); err != nil {
		return err
	}

	p := palette.FromColorPalette(m.Palette)
	if err := e.writeColorTable(p); err != nil {
		return err
	}

	if err := e.writePixels(m, len(p)); err != nil {
		return err
	}

	return e.w.Flush()
}

// Encode writes the paletted image m to w in 8-bit bitmap format
func Encode(w io.Writer, m *image.Paletted) error {
	var e Encoder
	return e.Encode(w, m)
}
