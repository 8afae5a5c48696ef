// Package icon validates the raw 200x200 BGRA pixel buffer stored in the ICON slot.
package icon

import (
	"xhcart/xhgc/addrtable"
	"xhcart/xhgc/section"
	"xhcart/xherr"
)

const (
	Width         = 200
	Height        = 200
	BytesPerPixel = 4
	Size          = Width * Height * BytesPerPixel
)

// Encode checks the pixel buffer length. The ICON slot always records a
// CRC32 of zero.
func Encode(raw []byte) (section.Section, error) {
	if len(raw) != Size {
		return section.Section{}, xherr.SizeMismatch("icon", Size, len(raw))
	}
	return section.Section{
		Slot:  addrtable.SlotIcon,
		Bytes: raw,
		CRC32: 0,
	}, nil
}

// PixelAt returns the (b, g, r, a) quadruple at x, y.
func PixelAt(raw []byte, x int, y int) (b, g, r, a byte) {
	i := (y*Width + x) * BytesPerPixel
	return raw[i], raw[i+1], raw[i+2], raw[i+3]
}
