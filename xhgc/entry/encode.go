// Package entry wraps compiled entry-script bytecode as the ENTRY section.
package entry

import (
	"xhcart/ds"
	"xhcart/xhgc/addrtable"
	"xhcart/xhgc/section"
)

// Encode does no compilation; bytecode comes from a luac collaborator.
func Encode(bytecode []byte) section.Section {
	return section.Section{
		Slot:  addrtable.SlotEntry,
		Bytes: bytecode,
		CRC32: ds.Crc32(bytecode),
	}
}
