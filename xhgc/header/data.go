// Package header encodes and decodes the fixed 4096-byte cartridge header.
package header

import (
	"xhcart/xhgc/addrtable"
)

type (
	// Meta is the subset of the pack metadata the header stores.
	Meta struct {
		Title     string
		TitleZh   string
		Publisher string
		Version   string
		CartID    string
		Entry     string
		MinFW     string
	}
	Header struct {
		Magic         string           `json:"magic"`
		HeaderVersion uint32           `json:"header_version"`
		HeaderSize    uint32           `json:"header_size"`
		Flags         uint32           `json:"flags"`
		CartID        uint64           `json:"cart_id"`
		Title         string           `json:"title"`
		TitleZh       string           `json:"title_zh"`
		Publisher     string           `json:"publisher"`
		Version       string           `json:"version"`
		Entry         string           `json:"entry"`
		MinFW         string           `json:"min_fw"`
		AddressTable  []addrtable.Slot `json:"address_table"`
		CRC32         uint32           `json:"crc32"`
	}
	stringField struct {
		name     string
		offset   int
		capacity int
		value    func(Meta) string
	}
)

const (
	Size    = 4096
	Version = 2

	OffsetMagic         = 0
	OffsetHeaderVersion = 8
	OffsetHeaderSize    = 12
	OffsetFlags         = 16
	OffsetCartID        = 20
	OffsetTitle         = 28
	OffsetTitleZh       = 92
	OffsetPublisher     = 156
	OffsetVersion       = 220
	OffsetEntry         = 252
	OffsetMinFW         = 380
	OffsetCRC32         = 0x0FFC

	CapacityTitle     = 64
	CapacityTitleZh   = 64
	CapacityPublisher = 64
	CapacityVersion   = 32
	CapacityEntry     = 128
	CapacityMinFW     = 16
)

var Magic = [8]byte{'X', 'H', 'G', 'C', '_', 'P', 'A', 'C'}

var stringFields = []stringField{
	{"meta.title", OffsetTitle, CapacityTitle, func(m Meta) string { return m.Title }},
	{"meta.title_zh", OffsetTitleZh, CapacityTitleZh, func(m Meta) string { return m.TitleZh }},
	{"meta.publisher", OffsetPublisher, CapacityPublisher, func(m Meta) string { return m.Publisher }},
	{"meta.version", OffsetVersion, CapacityVersion, func(m Meta) string { return m.Version }},
	{"meta.entry", OffsetEntry, CapacityEntry, func(m Meta) string { return m.Entry }},
	{"meta.min_fw", OffsetMinFW, CapacityMinFW, func(m Meta) string { return m.MinFW }},
}
