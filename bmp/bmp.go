/*
Package bmp implements an encoder for uncompressed 8-bit palette indexed
Windows bitmaps.

The file is written as a 14 byte file header, a 40 byte BITMAPINFOHEADER,
a color table of exactly 256 four byte entries (blue, green, red, zero) with
unused entries padded with black, and finally one byte per pixel. Each row is
padded with zeroes to a multiple of 4 bytes and rows are stored bottom-up,
which is signalled by a positive height. All values are little-endian.
*/
package bmp

const (
	fileHeaderSize = 14
	infoHeaderSize = 40
	paletteEntries = 256
	colorTableSize = paletteEntries * 4

	// PixelOffset is the offset of the pixel data from the start of the file
	PixelOffset = fileHeaderSize + infoHeaderSize + colorTableSize

	bitsPerPixel = 8
	// 2835 pixels per metre is roughly 72 DPI
	pixelsPerMetre = 2835
)

type fileHeader struct {
	Magic     [2]byte
	Size      uint32
	Reserved1 uint16
	Reserved2 uint16
	Offset    uint32
}

type infoHeader struct {
	Size            uint32
	Width           int32
	Height          int32
	Planes          uint16
	BitCount        uint16
	Compression     uint32
	ImageSize       uint32
	XPelsPerMeter   int32
	YPelsPerMeter   int32
	ColorsUsed      uint32
	ColorsImportant uint32
}

// RowSize returns the padded length in bytes of one row of pixels
func RowSize(width int) int {
	return (width + 3) &^ 3
}

// FileSize returns the size of the encoded file for the given dimensions
func FileSize(width, height int) int {
	return PixelOffset + RowSize(width)*height
}
