package bmp

import (
	"errors"
	"image"
	"io"

	"golang.org/x/image/bmp"
)

var errNotPaletted = errors.New("bmp: not an 8-bit paletted bitmap")

// Decode reads a bitmap previously written by Encode. The palette is the full
// 256 entries stored on disk.
func Decode(r io.Reader) (*image.Paletted, error) {
	m, err := bmp.Decode(r)
	if err != nil {
		return nil, err
	}
	pm, ok := m.(*image.Paletted)
	if !ok {
		return nil, errNotPaletted
	}
	return pm, nil
}

// DecodeConfig returns the dimensions of a bitmap without decoding it
func DecodeConfig(r io.Reader) (image.Config, error) {
	return bmp.DecodeConfig(r)
}
