package xhgc

import (
	"github.com/pkg/errors"
	"xhcart/ds"
	"xhcart/xhgc/addrtable"
	"xhcart/xhgc/header"
	"xhcart/xhgc/index"
	"xhcart/xherr"
)

// Verify recomputes the header CRC32 with the stored field zeroed and
// compares it with the stored value. bs may be a header or a full image.
func Verify(bs []byte) bool {
	if len(bs) < header.Size {
		return false
	}
	stored, err := header.StoredCRC(bs[:header.Size])
	if err != nil {
		return false
	}
	computed, err := header.ComputeCRC(bs[:header.Size])
	if err != nil {
		return false
	}
	return stored == computed
}

// ImageCRC computes the whole-image checksum stored in slot 6: the CRC32 of
// the image with slot 6 cleared and, when sealed is set, the header CRC32
// recomputed over that cleared header. The result does not depend on what
// slot 6 held before, so it differs from a CRC32 taken over the image as
// stored, and from tools that hash the image with a stale slot 6 in place.
func ImageCRC(image []byte, sealed bool) (uint32, error) {
	if len(image) < header.Size {
		return 0, xherr.InvalidSize("image", header.Size, len(image))
	}
	cleared, err := header.WithSlot(image[:header.Size], addrtable.SlotImage, 0, 0, 0)
	if err != nil {
		return 0, errors.Wrap(err, "xhgc.ImageCRC error")
	}
	if sealed {
		cleared, err = header.RecomputeCRC(cleared)
	} else {
		cleared, err = header.ClearCRC(cleared)
	}
	if err != nil {
		return 0, errors.Wrap(err, "xhgc.ImageCRC error")
	}
	whole := make([]byte, 0, len(image))
	whole = append(whole, cleared...)
	whole = append(whole, image[header.Size:]...)
	return ds.Crc32(whole), nil
}

// VerifyImage checks the header CRC32 (when the header is sealed), the
// bounds and CRC32 of every used slot, the CRC32 of every file listed in
// INDEX, and the whole-image CRC32 in slot 6 when one is recorded.
func VerifyImage(image []byte) error {
	if len(image) < header.Size {
		return xherr.InvalidSize("image", header.Size, len(image))
	}
	stored, err := header.StoredCRC(image[:header.Size])
	if err != nil {
		return err
	}
	sealed := stored != 0
	if sealed && !Verify(image) {
		return xherr.Integrity("header", "stored CRC32 0x%08X does not match", stored)
	}

	table, err := addrtable.ReadTable(image[:header.Size])
	if err != nil {
		return errors.Wrap(err, "xhgc.VerifyImage error")
	}
	for _, slot := range table {
		if slot.IsZero() || slot.Index == addrtable.SlotImage {
			continue
		}
		if slot.DataOffset%header.Size != 0 {
			return xherr.Integrity(slot.Name(), "data offset 0x%X is not 4096-aligned", slot.DataOffset)
		}
		if slot.DataOffset < header.Size || !slot.FitsIn(len(image)) {
			return xherr.Integrity(
				slot.Name(), "section of %d bytes at 0x%X outside image of %d bytes",
				slot.DataSize, slot.DataOffset, len(image),
			)
		}
		if slot.Index == addrtable.SlotIcon {
			continue
		}
		if crc := ds.Crc32(image[slot.DataOffset:slot.End()]); crc != slot.CRC32 {
			return xherr.Integrity(slot.Name(), "CRC32 0x%08X, stored 0x%08X", crc, slot.CRC32)
		}
	}

	if err := verifyFiles(image, table); err != nil {
		return errors.Wrap(err, "xhgc.VerifyImage error")
	}

	imageSlot := table[addrtable.SlotImage]
	if imageSlot.IsZero() {
		return nil
	}
	if imageSlot.DataOffset != 0 || uint64(imageSlot.DataSize) != uint64(len(image)) {
		return xherr.Integrity(
			imageSlot.Name(), "records %d bytes at 0x%X, image has %d bytes",
			imageSlot.DataSize, imageSlot.DataOffset, len(image),
		)
	}
	crc, err := ImageCRC(image, sealed)
	if err != nil {
		return errors.Wrap(err, "xhgc.VerifyImage error")
	}
	if crc != imageSlot.CRC32 {
		return xherr.Integrity(imageSlot.Name(), "CRC32 0x%08X, stored 0x%08X", crc, imageSlot.CRC32)
	}
	return nil
}

// verifyFiles checks each INDEX entry against its bytes inside DATA. Both
// slots are already known to lie inside the image.
func verifyFiles(image []byte, table []addrtable.Slot) error {
	indexSlot := table[addrtable.SlotIndex]
	dataSlot := table[addrtable.SlotData]
	if indexSlot.IsZero() || dataSlot.IsZero() {
		return nil
	}
	entries, err := index.Decode(image[indexSlot.DataOffset:indexSlot.End()])
	if err != nil {
		return err
	}
	data := image[dataSlot.DataOffset:dataSlot.End()]
	for _, entry := range entries {
		bs, ok := index.Lookup(entries, data, entry.Name)
		if !ok {
			return xherr.Integrity(
				entry.Name, "%d bytes at 0x%X outside DATA of %d bytes",
				entry.DataSize, entry.DataOffset, len(data),
			)
		}
		if crc := ds.Crc32(bs); crc != entry.CRC32 {
			return xherr.Integrity(entry.Name, "CRC32 0x%08X, stored 0x%08X", crc, entry.CRC32)
		}
	}
	return nil
}
