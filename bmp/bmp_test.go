package bmp

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"log"
	"strings"
	"testing"

	"github.com/bodgit/indexbmp/palette"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPaletted(w, h int, p palette.Palette, pix ...uint8) *image.Paletted {
	m := image.NewPaletted(image.Rect(0, 0, w, h), p.ColorPalette())
	copy(m.Pix, pix)
	return m
}

func TestEncodeLayout(t *testing.T) {
	m := newPaletted(2, 2, palette.Palette{{R: 0, G: 0, B: 0}}, 0, 0, 0, 0)

	b := new(bytes.Buffer)
	require.Nil(t, Encode(b, m))

	out := b.Bytes()
	require.Len(t, out, 1086)
	assert.Equal(t, 1086, FileSize(2, 2))

	assert.Equal(t, []byte{0x42, 0x4d}, out[0:2])
	assert.Equal(t, uint32(1086), binary.LittleEndian.Uint32(out[2:]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(out[6:]))
	assert.Equal(t, uint32(14+40+1024), binary.LittleEndian.Uint32(out[10:]))

	assert.Equal(t, uint32(40), binary.LittleEndian.Uint32(out[14:]))
	assert.Equal(t, int32(2), int32(binary.LittleEndian.Uint32(out[18:])))
	assert.Equal(t, int32(2), int32(binary.LittleEndian.Uint32(out[22:])))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(out[26:]))
	assert.Equal(t, byte(8), out[28])
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(out[30:]))
	assert.Equal(t, uint32(8), binary.LittleEndian.Uint32(out[34:]))
	assert.Equal(t, int32(2835), int32(binary.LittleEndian.Uint32(out[38:])))
	assert.Equal(t, int32(2835), int32(binary.LittleEndian.Uint32(out[42:])))
	assert.Equal(t, uint32(256), binary.LittleEndian.Uint32(out[46:]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(out[50:]))
}

func TestEncodeColorTableAndRows(t *testing.T) {
	p := palette.Palette{{R: 0x11, G: 0x22, B: 0x33}, {R: 0xaa, G: 0xbb, B: 0xcc}, {R: 1, G: 2, B: 3}}
	// 3x2: top row 0 1 2, bottom row 2 1 0
	m := newPaletted(3, 2, p, 0, 1, 2, 2, 1, 0)

	b := new(bytes.Buffer)
	require.Nil(t, Encode(b, m))
	out := b.Bytes()

	table := out[54 : 54+1024]
	assert.Equal(t, []byte{0x33, 0x22, 0x11, 0x00}, table[0:4])
	assert.Equal(t, []byte{0xcc, 0xbb, 0xaa, 0x00}, table[4:8])
	assert.Equal(t, []byte{3, 2, 1, 0}, table[8:12])
	// Padding entries are black
	assert.Equal(t, make([]byte, 1024-12), table[12:])

	// Bottom row first, each padded to four bytes
	assert.Equal(t, []byte{2, 1, 0, 0, 0, 1, 2, 0}, out[PixelOffset:])
	assert.Equal(t, FileSize(3, 2), len(out))
}

func TestRowSize(t *testing.T) {
	tables := []struct {
		width, want int
	}{
		{1, 4}, {2, 4}, {4, 4}, {5, 8}, {16, 16}, {17, 20},
	}
	for _, table := range tables {
		assert.Equal(t, table.want, RowSize(table.width))
	}
}

func TestEncodeDeterministic(t *testing.T) {
	p := make(palette.Palette, 200)
	for i := range p {
		p[i] = palette.Color{R: uint8(i), G: uint8(255 - i), B: uint8(i * 3)}
	}
	pix := make([]uint8, 37*19)
	for i := range pix {
		pix[i] = uint8(i % 200)
	}

	b1, b2 := new(bytes.Buffer), new(bytes.Buffer)
	require.Nil(t, Encode(b1, newPaletted(37, 19, p, pix...)))
	require.Nil(t, Encode(b2, newPaletted(37, 19, p, pix...)))
	assert.Equal(t, b1.Bytes(), b2.Bytes())
}

func TestEncodeValidation(t *testing.T) {
	tables := []struct {
		name string
		m    *image.Paletted
		err  error
	}{
		{
			"zero width",
			image.NewPaletted(image.Rect(0, 0, 0, 4), palette.Palette{{}}.ColorPalette()),
			ErrInvalidDimensions,
		},
		{
			"empty palette",
			image.NewPaletted(image.Rect(0, 0, 4, 4), nil),
			ErrInvalidPalette,
		},
		{
			"oversized palette",
			image.NewPaletted(image.Rect(0, 0, 4, 4), make(palette.Palette, 257).ColorPalette()),
			ErrInvalidPalette,
		},
		{
			"short pixels",
			&image.Paletted{Pix: make([]uint8, 15), Stride: 4, Rect: image.Rect(0, 0, 4, 4), Palette: palette.Palette{{}}.ColorPalette()},
			ErrInvalidPixels,
		},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			err := Encode(new(bytes.Buffer), table.m)
			assert.True(t, errors.Is(err, table.err), "got %v", err)
		})
	}
}

func TestEncodeClampsIndices(t *testing.T) {
	p := palette.Palette{{R: 255}, {G: 255}}
	m := newPaletted(2, 1, p, 0, 9)

	logs := new(strings.Builder)
	e := Encoder{Logger: log.New(logs, "", 0)}

	b := new(bytes.Buffer)
	require.Nil(t, e.Encode(b, m))

	assert.Equal(t, []byte{0, 1, 0, 0}, b.Bytes()[PixelOffset:])
	assert.Contains(t, logs.String(), "clamped 1")
	// The input is left alone
	assert.Equal(t, uint8(9), m.Pix[1])
}

func TestRoundTrip(t *testing.T) {
	p := palette.Palette{{R: 255}, {G: 255}, {B: 255}, {R: 10, G: 20, B: 30}}
	pix := make([]uint8, 5*3)
	for i := range pix {
		pix[i] = uint8(i % 4)
	}
	m := newPaletted(5, 3, p, pix...)

	b := new(bytes.Buffer)
	require.Nil(t, Encode(b, m))

	cfg, err := DecodeConfig(bytes.NewReader(b.Bytes()))
	require.Nil(t, err)
	assert.Equal(t, 5, cfg.Width)
	assert.Equal(t, 3, cfg.Height)

	d, err := Decode(bytes.NewReader(b.Bytes()))
	require.Nil(t, err)
	assert.Len(t, d.Palette, 256)
	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			assert.Equal(t, m.ColorIndexAt(x, y), d.ColorIndexAt(x, y))
		}
	}
	r, g, b2, _ := d.Palette[3].RGBA()
	assert.Equal(t, color.RGBA{10, 20, 30, 0xff}, color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b2 >> 8), 0xff})
}
