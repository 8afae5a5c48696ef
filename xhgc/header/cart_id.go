package header

import (
	"strconv"
	"strings"

	"xhcart/xherr"
)

// ParseCartID reads a 64-bit hexadecimal id, with or without a 0x prefix.
func ParseCartID(s string) (uint64, error) {
	digits := s
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		digits = digits[2:]
	}
	if digits == "" {
		return 0, xherr.Encoding("meta.cart_id", "invalid cart_id %q", s)
	}
	cartID, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		return 0, xherr.Encoding("meta.cart_id", "invalid cart_id %q", s)
	}
	return cartID, nil
}
