package ds

import (
	"golang.org/x/exp/constraints"
)

// AlignUp returns the smallest multiple of align that is not below value.
// align must be a power of two; a non-positive align leaves value untouched.
func AlignUp[T constraints.Integer](value T, align T) T {
	if align <= 0 {
		return value
	}
	return (value + align - 1) &^ (align - 1)
}

// PaddingTo returns how many zero bytes bring value up to the next align boundary.
func PaddingTo[T constraints.Integer](value T, align T) T {
	return AlignUp(value, align) - value
}
