package icon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"xhcart/xhgc/addrtable"
	"xhcart/xherr"
)

func TestEncode(t *testing.T) {
	raw := make([]byte, Size)
	raw[0], raw[1], raw[2], raw[3] = 0x10, 0x20, 0x30, 0xFF

	sec, err := Encode(raw)
	require.NoError(t, err)
	assert.Equal(t, addrtable.SlotIcon, sec.Slot)
	assert.Equal(t, 160000, sec.Size())
	assert.Zero(t, sec.CRC32)

	b, g, r, a := PixelAt(sec.Bytes, 0, 0)
	assert.Equal(t, []byte{0x10, 0x20, 0x30, 0xFF}, []byte{b, g, r, a})
}

func TestEncode_SizeMismatch(t *testing.T) {
	for _, n := range []int{0, Size - 1, Size + 1} {
		_, err := Encode(make([]byte, n))
		assert.True(t, xherr.Is(err, xherr.KindSizeMismatch), "size %d", n)
	}
}
