package xhgc

import (
	"fmt"

	"github.com/iancoleman/orderedmap"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"xhcart/xhgc/addrtable"
	"xhcart/xhgc/header"
	"xhcart/xhgc/index"
	"xhcart/xhgc/manifest"
	"xhcart/xherr"
)

// Inspect decodes the header at the start of bs, which may be a bare
// header or a complete image. For an image the MANF and INDEX sections are
// decoded as well; a section that fails to decode is noted, not returned
// as an error.
func Inspect(bs []byte) (*Inspection, error) {
	if len(bs) < header.Size {
		return nil, xherr.InvalidSize("header", header.Size, len(bs))
	}
	decoded, err := header.Decode(bs[:header.Size])
	if err != nil {
		return nil, errors.Wrap(err, "xhgc.Inspect error")
	}
	inspection := &Inspection{
		Header:         *decoded,
		FileSize:       len(bs),
		CRCValid:       Verify(bs),
		AddrTableRange: fmt.Sprintf("0x%04X..0x%04X", addrtable.Base, header.OffsetCRC32-1),
		CRC32Range:     fmt.Sprintf("0x%04X..0x%04X", header.OffsetCRC32, header.Size-1),
	}

	if payload, ok := slotPayload(inspection, bs, addrtable.SlotManifest); ok {
		fields, err := manifest.Decode(payload)
		if err != nil {
			inspection.Notes = append(inspection.Notes, err.Error())
		}
		inspection.Manifest = fields
	}
	if payload, ok := slotPayload(inspection, bs, addrtable.SlotIndex); ok {
		entries, err := index.Decode(payload)
		if err != nil {
			inspection.Notes = append(inspection.Notes, err.Error())
		}
		inspection.Index = entries
	}
	return inspection, nil
}

func slotPayload(inspection *Inspection, bs []byte, i int) ([]byte, bool) {
	if i >= len(inspection.AddressTable) {
		return nil, false
	}
	slot := inspection.AddressTable[i]
	if slot.IsZero() {
		return nil, false
	}
	if slot.DataOffset < header.Size || !slot.FitsIn(len(bs)) {
		inspection.Notes = append(
			inspection.Notes,
			fmt.Sprintf("%s: %d bytes at 0x%X outside file", slot.Name(), slot.DataSize, slot.DataOffset),
		)
		return nil, false
	}
	return bs[slot.DataOffset:slot.End()], true
}

// ToOrderedMap lays the inspection out in header order, for JSON output.
func (r Inspection) ToOrderedMap() *orderedmap.OrderedMap {
	lhm := orderedmap.New()
	lhm.Set("magic", r.Magic)
	lhm.Set("header_version", r.HeaderVersion)
	lhm.Set("header_size", r.HeaderSize)
	lhm.Set("flags", r.Flags)
	lhm.Set("cart_id", fmt.Sprintf("0x%016x", r.CartID))
	lhm.Set("title", r.Title)
	lhm.Set("title_zh", r.TitleZh)
	lhm.Set("publisher", r.Publisher)
	lhm.Set("version", r.Version)
	lhm.Set("entry", r.Entry)
	lhm.Set("min_fw", r.MinFW)
	lhm.Set("crc32", fmt.Sprintf("0x%08X", r.CRC32))
	lhm.Set("crc_valid", r.CRCValid)
	lhm.Set("file_size", r.FileSize)
	lhm.Set("addr_table_range", r.AddrTableRange)
	lhm.Set("crc32_range", r.CRC32Range)
	lhm.Set(
		"manifest",
		lo.Map(
			r.Manifest,
			func(field manifest.Field, _ int) *orderedmap.OrderedMap {
				fieldMap := orderedmap.New()
				fieldMap.Set("id", field.ID)
				fieldMap.Set("name", field.ID.String())
				fieldMap.Set("value", field.Text())
				return fieldMap
			},
		),
	)
	lhm.Set(
		"index",
		lo.Map(
			r.Index,
			func(entry index.Entry, _ int) *orderedmap.OrderedMap {
				entryMap := orderedmap.New()
				entryMap.Set("name", entry.Name)
				entryMap.Set("data_offset", fmt.Sprintf("0x%08X", entry.DataOffset))
				entryMap.Set("size", entry.DataSize)
				entryMap.Set("crc32", fmt.Sprintf("0x%08X", entry.CRC32))
				return entryMap
			},
		),
	)
	lhm.Set("notes", r.Notes)
	lhm.Set(
		"addr_table",
		lo.Map(
			r.AddressTable,
			func(slot addrtable.Slot, _ int) *orderedmap.OrderedMap {
				slotOffset, _ := addrtable.SlotOffset(slot.Index)
				slotMap := orderedmap.New()
				slotMap.Set("name", slot.Name())
				slotMap.Set("offset", fmt.Sprintf("0x%04X", slotOffset))
				slotMap.Set("data_offset", fmt.Sprintf("0x%08X", slot.DataOffset))
				slotMap.Set("size", slot.DataSize)
				slotMap.Set("crc32", fmt.Sprintf("0x%08X", slot.CRC32))
				return slotMap
			},
		),
	)
	return lhm
}

// UsedSlots drops the all-zero slots.
func (r Inspection) UsedSlots() []addrtable.Slot {
	return lo.Filter(
		r.AddressTable,
		func(slot addrtable.Slot, _ int) bool {
			return !slot.IsZero()
		},
	)
}
