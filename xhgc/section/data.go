// Package section holds the encoded payload of one address table slot.
package section

import (
	"xhcart/xhgc/addrtable"
)

type (
	// Section is an immutable encoded payload ready to be appended to an image.
	Section struct {
		Slot  int
		Bytes []byte
		CRC32 uint32
	}
)

func (r Section) Size() int {
	return len(r.Bytes)
}

func (r Section) Name() string {
	return addrtable.SlotName(r.Slot)
}
