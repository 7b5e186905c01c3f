package palette

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHex(t *testing.T) {
	tables := []struct {
		in   string
		want Color
	}{
		{"#ff00ff", Color{255, 0, 255}},
		{"00FF7f", Color{0, 255, 127}},
		{"#abc", Color{0xaa, 0xbb, 0xcc}},
		{" #010203 ", Color{1, 2, 3}},
	}
	for _, table := range tables {
		c, err := ParseHex(table.in)
		require.Nil(t, err, table.in)
		assert.Equal(t, table.want, c)
	}

	for _, in := range []string{"", "#12345", "#gggggg", "red"} {
		_, err := ParseHex(in)
		assert.NotNil(t, err, in)
	}
}

func TestHex(t *testing.T) {
	assert.Equal(t, "#ff0080", Color{255, 0, 128}.Hex())
	assert.Equal(t, "#000000", Color{}.String())
}
