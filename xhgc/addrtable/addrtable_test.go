package addrtable

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"xhcart/xherr"
)

func TestSlotOffset(t *testing.T) {
	expectedValues := map[int]int{
		0:  0x0F00,
		1:  0x0F10,
		6:  0x0F60,
		14: 0x0FE0,
	}
	for i, expected := range expectedValues {
		offset, err := SlotOffset(i)
		assert.NoError(t, err)
		assert.Equal(t, expected, offset)
	}
}

func TestSlotOffset_OutOfRange(t *testing.T) {
	for _, i := range []int{-1, 15, 100} {
		_, err := SlotOffset(i)
		assert.True(t, xherr.Is(err, xherr.KindIndexOutOfRange))
	}
	header := make([]byte, 4096)
	err := WriteSlot(header, 15, 4096, 1, 1)
	assert.True(t, xherr.Is(err, xherr.KindIndexOutOfRange))
	assert.Equal(t, make([]byte, 4096), header)
}

func TestWriteSlot_ReadSlot(t *testing.T) {
	header := make([]byte, 4096)
	require.NoError(t, WriteSlot(header, SlotManifest, 0x2A000, 160, 0xDEADBEEF))

	assert.Equal(
		t,
		[]byte{
			0x00, 0xA0, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00,
			0xA0, 0x00, 0x00, 0x00,
			0xEF, 0xBE, 0xAD, 0xDE,
		},
		header[0x0F20:0x0F30],
	)

	slot, err := ReadSlot(header, SlotManifest)
	require.NoError(t, err)
	assert.Equal(t, Slot{Index: SlotManifest, DataOffset: 0x2A000, DataSize: 160, CRC32: 0xDEADBEEF}, slot)
	assert.Equal(t, "MANF", slot.Name())
	assert.Equal(t, uint64(0x2A0A0), slot.End())

	// neighbours untouched
	assert.True(t, lo.EveryBy(header[:0x0F20], func(b byte) bool { return b == 0 }))
	assert.True(t, lo.EveryBy(header[0x0F30:], func(b byte) bool { return b == 0 }))
}

func TestClearAllSlots(t *testing.T) {
	header := make([]byte, 4096)
	for i := range header {
		header[i] = 0xFF
	}
	ClearAllSlots(header)

	table, err := ReadTable(header)
	require.NoError(t, err)
	assert.Len(t, table, SlotCount)
	assert.True(t, lo.EveryBy(table, func(slot Slot) bool { return slot.IsZero() }))
	assert.Equal(t, byte(0xFF), header[Base-1])
	assert.Equal(t, byte(0xFF), header[End])
}

func TestSlotName(t *testing.T) {
	names := lo.Map(
		lo.Times(SlotCount, func(i int) int { return i }),
		func(i int, _ int) string {
			return SlotName(i)
		},
	)
	assert.Equal(t, []string{"ICON", "THMB", "MANF", "ENTRY", "INDEX", "DATA", "IMAGE", "SLOT7"}, names[:8])
}

func TestSlot_FitsIn(t *testing.T) {
	slot := Slot{Index: SlotData, DataOffset: 0x1000, DataSize: 0x10}
	assert.True(t, slot.FitsIn(0x1010))
	assert.False(t, slot.FitsIn(0x100F))
	assert.False(t, slot.FitsIn(0x0800))

	// End wraps around here; FitsIn must not
	wrapping := Slot{Index: SlotManifest, DataOffset: 0xFFFFFFFFFFFFF000, DataSize: 0x2000}
	assert.Less(t, wrapping.End(), wrapping.DataOffset)
	assert.False(t, wrapping.FitsIn(0x3000))
}
