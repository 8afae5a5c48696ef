package xhgc

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"xhcart/ds"
	"xhcart/xhgc/addrtable"
	"xhcart/xhgc/header"
	"xhcart/xhgc/index"
	"xhcart/xhgc/manifest"
	"xhcart/xhgc/section"
	"xhcart/xherr"
)

func createMeta() header.Meta {
	return header.Meta{
		Title:   "Demo Game",
		Version: "1.0.0",
		CartID:  "0x0123456789ABCDEF",
		Entry:   "main.lua",
		MinFW:   "0.0.0",
	}
}

// createImage lays out a header, one ENTRY payload at 4096 and padding.
func createImage(t *testing.T, payload []byte) []byte {
	head, err := header.EncodeWithoutCRC(createMeta())
	require.NoError(t, err)
	head, err = header.WithSlot(head, addrtable.SlotEntry, header.Size, uint32(len(payload)), ds.Crc32(payload))
	require.NoError(t, err)
	head, err = header.RecomputeCRC(head)
	require.NoError(t, err)

	image := append(head, payload...)
	return append(image, make([]byte, ds.PaddingTo(len(image), header.Size))...)
}

// layoutImage places each section at the next 4096-aligned offset.
func layoutImage(t *testing.T, secs ...section.Section) []byte {
	head, err := header.EncodeWithoutCRC(createMeta())
	require.NoError(t, err)
	var body []byte
	for _, sec := range secs {
		offset := header.Size + len(body)
		head, err = header.WithSlot(head, sec.Slot, uint64(offset), uint32(sec.Size()), sec.CRC32)
		require.NoError(t, err)
		body = append(body, sec.Bytes...)
		body = append(body, make([]byte, ds.PaddingTo(len(body), header.Size))...)
	}
	head, err = header.RecomputeCRC(head)
	require.NoError(t, err)
	return append(head, body...)
}

func createIndexed(t *testing.T, files ...index.File) (section.Section, section.Section) {
	indexSection, dataSection, err := index.Encode(files, true)
	require.NoError(t, err)
	return indexSection, dataSection
}

func reseal(t *testing.T, image []byte, update func(head []byte) []byte) []byte {
	head, err := header.RecomputeCRC(update(ds.ShallowCopy(image[:header.Size])))
	require.NoError(t, err)
	return append(head, image[header.Size:]...)
}

func TestVerify(t *testing.T) {
	bs, err := header.Encode(createMeta())
	require.NoError(t, err)
	require.True(t, Verify(bs))

	crcStart := header.OffsetCRC32
	lo.ForEach(
		lo.Times(
			header.Size,
			func(i int) int {
				return i
			},
		),
		func(i int, _ int) {
			if i >= crcStart && i < crcStart+4 {
				return
			}
			flipped := ds.ShallowCopy(bs)
			flipped[i] ^= 0x01
			assert.False(t, Verify(flipped), "byte %d", i)
		},
	)

	assert.False(t, Verify(bs[:100]))
}

func TestVerifyImage(t *testing.T) {
	image := createImage(t, []byte("hello"))
	require.NoError(t, VerifyImage(image))
	assert.Len(t, image, 2*header.Size)

	tampered := ds.ShallowCopy(image)
	tampered[header.Size] ^= 0xFF
	err := VerifyImage(tampered)
	assert.True(t, xherr.Is(err, xherr.KindIntegrity))
	assert.Contains(t, err.Error(), "ENTRY")

	tampered = ds.ShallowCopy(image)
	tampered[header.OffsetCartID] ^= 0xFF
	err = VerifyImage(tampered)
	assert.True(t, xherr.Is(err, xherr.KindIntegrity))
	assert.Contains(t, err.Error(), "header")

	assert.True(t, xherr.Is(VerifyImage(image[:10]), xherr.KindInvalidSize))
}

func TestVerifyImage_Bounds(t *testing.T) {
	image := createImage(t, []byte("hello"))

	outside := reseal(
		t, image,
		func(head []byte) []byte {
			require.NoError(t, addrtable.WriteSlot(head, addrtable.SlotData, header.Size, 3*header.Size, 0))
			return head
		},
	)
	assert.True(t, xherr.Is(VerifyImage(outside), xherr.KindIntegrity))

	wrapping := reseal(
		t, image,
		func(head []byte) []byte {
			require.NoError(t, addrtable.WriteSlot(head, addrtable.SlotManifest, 0xFFFFFFFFFFFFF000, 0x2000, 0))
			return head
		},
	)
	assert.True(t, xherr.Is(VerifyImage(wrapping), xherr.KindIntegrity))

	misaligned := reseal(
		t, image,
		func(head []byte) []byte {
			require.NoError(t, addrtable.WriteSlot(head, addrtable.SlotEntry, header.Size+1, 4, 0))
			return head
		},
	)
	assert.True(t, xherr.Is(VerifyImage(misaligned), xherr.KindIntegrity))

	// the ICON slot records a zero CRC32 and is only bounds-checked
	withIcon := reseal(
		t, image,
		func(head []byte) []byte {
			require.NoError(t, addrtable.WriteSlot(head, addrtable.SlotIcon, header.Size, 5, 0))
			return head
		},
	)
	assert.NoError(t, VerifyImage(withIcon))
}

func TestVerifyImage_Files(t *testing.T) {
	indexSection, dataSection := createIndexed(
		t,
		index.File{Path: "a.lua", Size: 5, Bytes: []byte("alpha")},
		index.File{Path: "b.lua", Size: 4, Bytes: []byte("beta")},
	)
	require.NoError(t, VerifyImage(layoutImage(t, indexSection, dataSection)))

	// DATA and INDEX both carry matching section CRC32s; only the entry is wrong
	entries, err := index.Decode(indexSection.Bytes)
	require.NoError(t, err)
	entries[1].CRC32 ^= 0xFFFFFFFF
	tamperedBytes := index.EncodeIndex(entries)
	tampered := section.Section{Slot: addrtable.SlotIndex, Bytes: tamperedBytes, CRC32: ds.Crc32(tamperedBytes)}
	err = VerifyImage(layoutImage(t, tampered, dataSection))
	assert.True(t, xherr.Is(err, xherr.KindIntegrity))
	assert.Contains(t, err.Error(), "b.lua")

	entries[1].CRC32 ^= 0xFFFFFFFF
	entries[1].DataSize = 100
	tamperedBytes = index.EncodeIndex(entries)
	tampered = section.Section{Slot: addrtable.SlotIndex, Bytes: tamperedBytes, CRC32: ds.Crc32(tamperedBytes)}
	err = VerifyImage(layoutImage(t, tampered, dataSection))
	assert.True(t, xherr.Is(err, xherr.KindIntegrity))
	assert.Contains(t, err.Error(), "outside DATA")
}

func TestVerifyImage_ImageCRC(t *testing.T) {
	image := createImage(t, []byte("hello"))
	crc, err := ImageCRC(image, true)
	require.NoError(t, err)

	sealed := reseal(
		t, image,
		func(head []byte) []byte {
			require.NoError(t, addrtable.WriteSlot(head, addrtable.SlotImage, 0, uint32(len(image)), crc))
			return head
		},
	)
	require.NoError(t, VerifyImage(sealed))

	// the image CRC32 does not depend on what slot 6 held before
	again, err := ImageCRC(sealed, true)
	require.NoError(t, err)
	assert.Equal(t, crc, again)

	wrongSize := reseal(
		t, image,
		func(head []byte) []byte {
			require.NoError(t, addrtable.WriteSlot(head, addrtable.SlotImage, 0, uint32(len(image)-1), crc))
			return head
		},
	)
	assert.True(t, xherr.Is(VerifyImage(wrongSize), xherr.KindIntegrity))

	padded := ds.ShallowCopy(sealed)
	padded[len(padded)-1] = 0x01
	assert.True(t, xherr.Is(VerifyImage(padded), xherr.KindIntegrity))
}

func TestInspect(t *testing.T) {
	image := createImage(t, []byte("hello"))

	inspection, err := Inspect(image)
	require.NoError(t, err)
	assert.Equal(t, "XHGC_PAC", inspection.Magic)
	assert.Equal(t, "Demo Game", inspection.Title)
	assert.Equal(t, uint64(0x0123456789ABCDEF), inspection.CartID)
	assert.Equal(t, len(image), inspection.FileSize)
	assert.True(t, inspection.CRCValid)
	assert.Equal(t, "0x0F00..0x0FFB", inspection.AddrTableRange)
	assert.Equal(t, "0x0FFC..0x0FFF", inspection.CRC32Range)
	assert.Len(t, inspection.AddressTable, addrtable.SlotCount)

	used := inspection.UsedSlots()
	require.Len(t, used, 1)
	assert.Equal(t, "ENTRY", used[0].Name())

	lhm := inspection.ToOrderedMap()
	keys := lhm.Keys()
	assert.Equal(t, "magic", keys[0])
	assert.Equal(t, "addr_table", keys[len(keys)-1])
	cartID, ok := lhm.Get("cart_id")
	require.True(t, ok)
	assert.Equal(t, "0x0123456789abcdef", cartID)

	_, err = Inspect(image[:header.Size-1])
	assert.True(t, xherr.Is(err, xherr.KindInvalidSize))
}

func TestInspect_Sections(t *testing.T) {
	manifestSection, err := manifest.Encode(manifest.Meta{Title: "Demo Game", CartID: "0x0123456789ABCDEF"})
	require.NoError(t, err)
	indexSection, dataSection := createIndexed(t, index.File{Path: "main.lua", Size: 8, Bytes: []byte("print(1)")})
	image := layoutImage(t, manifestSection, indexSection, dataSection)

	inspection, err := Inspect(image)
	require.NoError(t, err)
	assert.Empty(t, inspection.Notes)
	require.Len(t, inspection.Manifest, 2)
	assert.Equal(t, manifest.FieldTitle, inspection.Manifest[0].ID)
	assert.Equal(t, "0x0123456789abcdef", inspection.Manifest[1].Text())
	require.Len(t, inspection.Index, 1)
	assert.Equal(t, "main.lua", inspection.Index[0].Name)
	assert.Equal(t, uint32(8), inspection.Index[0].DataSize)

	lhm := inspection.ToOrderedMap()
	entries, ok := lhm.Get("index")
	require.True(t, ok)
	assert.Len(t, entries, 1)

	// a bare header cannot hold the sections its slots point at
	inspection, err = Inspect(image[:header.Size])
	require.NoError(t, err)
	assert.Empty(t, inspection.Manifest)
	assert.Empty(t, inspection.Index)
	assert.NotEmpty(t, inspection.Notes)
}

func TestInspect_CorruptSection(t *testing.T) {
	manifestSection, err := manifest.Encode(manifest.Meta{Title: "Demo Game"})
	require.NoError(t, err)
	image := layoutImage(t, manifestSection)
	image[header.Size] ^= 0xFF

	inspection, err := Inspect(image)
	require.NoError(t, err)
	assert.Empty(t, inspection.Manifest)
	require.Len(t, inspection.Notes, 1)
	assert.Contains(t, inspection.Notes[0], "magic")
}

func TestIsXHGCFile(t *testing.T) {
	assert.True(t, IsXHGCFile(createImage(t, []byte("x"))))
	assert.False(t, IsXHGCFile([]byte("XHGC")))
	assert.False(t, IsXHGCFile(make([]byte, header.Size)))
}
