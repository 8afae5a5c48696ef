package pipeline

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"xhcart/ds"
	"xhcart/xhgc"
	"xhcart/xhgc/addrtable"
	"xhcart/xhgc/header"
	"xhcart/xhgc/section"
	"xhcart/xherr"
)

// Apply appends secs to image and returns the next image. image must start
// with a valid header; it is never modified.
//
// The icon sits right after the header; every other section starts at the
// next 4096 boundary. Each section is zero padded so the image length stays
// 4096-aligned, while its slot records the unpadded size.
func Apply(image []byte, stage Stage, secs []section.Section, opts Options) ([]byte, *Report, error) {
	if len(image) < header.Size {
		return nil, nil, xherr.InvalidSize("image", header.Size, len(image))
	}
	if !xhgc.IsXHGCFile(image) {
		return nil, nil, xherr.Integrity("header", "magic %q is not %q", image[:len(header.Magic)], header.Magic[:])
	}

	head := ds.ShallowCopy(image[:header.Size])
	body := ds.ShallowCopy(image[header.Size:])
	report := Report{
		Step:     stage.String(),
		Status:   StatusOK,
		Sections: []SectionReport{},
	}

	var err error
	for _, sec := range secs {
		if !lo.Contains(stage.Slots(), sec.Slot) {
			return nil, nil, xherr.Configuration(stage.String(), "stage does not fill slot %s", sec.Name())
		}
		if uint64(sec.Size()) > math.MaxUint32 {
			return nil, nil, xherr.InvalidSize(sec.Name(), math.MaxUint32, sec.Size())
		}

		total := header.Size + len(body)
		offset := ds.AlignUp(total, Alignment)
		if sec.Slot == addrtable.SlotIcon {
			if total != header.Size {
				return nil, nil, xherr.Configuration(sec.Name(), "must directly follow the header, image already has %d bytes", total)
			}
			offset = header.Size
		}
		body = append(body, make([]byte, offset-total)...)

		head, err = header.WithSlot(head, sec.Slot, uint64(offset), uint32(sec.Size()), sec.CRC32)
		if err != nil {
			return nil, nil, errors.Wrap(err, "pipeline.Apply error")
		}
		padding := ds.PaddingTo(offset+sec.Size(), Alignment)
		body = append(body, sec.Bytes...)
		body = append(body, make([]byte, padding)...)

		report.Sections = append(
			report.Sections,
			SectionReport{
				Name:        sec.Name(),
				Offset:      uint64(offset),
				Size:        sec.Size(),
				CRC32:       formatCRC(sec.CRC32),
				PaddingSize: padding,
			},
		)
	}

	// a stale image checksum from an earlier stage never survives
	head, err = header.WithSlot(head, addrtable.SlotImage, 0, 0, 0)
	if err != nil {
		return nil, nil, errors.Wrap(err, "pipeline.Apply error")
	}
	head, err = seal(head, opts.HeaderCRC32)
	if err != nil {
		return nil, nil, errors.Wrap(err, "pipeline.Apply error")
	}
	next := concat(head, body)

	if opts.ImageCRC32 {
		if uint64(len(next)) > math.MaxUint32 {
			return nil, nil, xherr.InvalidSize("image", math.MaxUint32, len(next))
		}
		imageCRC, err := xhgc.ImageCRC(next, opts.HeaderCRC32)
		if err != nil {
			return nil, nil, errors.Wrap(err, "pipeline.Apply error")
		}
		head, err = header.WithSlot(head, addrtable.SlotImage, 0, uint32(len(next)), imageCRC)
		if err != nil {
			return nil, nil, errors.Wrap(err, "pipeline.Apply error")
		}
		head, err = seal(head, opts.HeaderCRC32)
		if err != nil {
			return nil, nil, errors.Wrap(err, "pipeline.Apply error")
		}
		next = concat(head, body)
		report.ImageCRC32 = formatCRC(imageCRC)
	}

	storedCRC, err := header.StoredCRC(head)
	if err != nil {
		return nil, nil, errors.Wrap(err, "pipeline.Apply error")
	}
	report.HeaderCRC32 = formatCRC(storedCRC)
	report.FileSize = len(next)
	return next, &report, nil
}

// seal writes the header CRC32, or zeroes the field when it is disabled.
func seal(head []byte, enabled bool) ([]byte, error) {
	if enabled {
		return header.RecomputeCRC(head)
	}
	return header.ClearCRC(head)
}

func concat(head []byte, body []byte) []byte {
	bs := make([]byte, 0, len(head)+len(body))
	bs = append(bs, head...)
	return append(bs, body...)
}

func formatCRC(crc uint32) string {
	return fmt.Sprintf("0x%08X", crc)
}
