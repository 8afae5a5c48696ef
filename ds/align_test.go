package ds

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestAlignUp(t *testing.T) {
	expectedValues := map[int]int{
		0:      0,
		1:      4096,
		4095:   4096,
		4096:   4096,
		4097:   8192,
		164096: 167936,
	}
	for value, expected := range expectedValues {
		assert.Equal(t, expected, AlignUp(value, 4096))
	}
}

func TestAlignUp_Laws(t *testing.T) {
	aligns := []uint64{1, 2, 4, 16, 512, 4096}
	values := lo.Times(
		10000,
		func(i int) int {
			return i
		},
	)
	lo.ForEach(
		aligns,
		func(align uint64, _ int) {
			for _, v := range values {
				value := uint64(v) * 7
				aligned := AlignUp(value, align)
				assert.GreaterOrEqual(t, aligned, value)
				assert.Zero(t, aligned%align)
				if value%align == 0 {
					assert.Equal(t, value, aligned)
				}
			}
		},
	)
}

func TestAlignUp_NonPositive(t *testing.T) {
	assert.Equal(t, 17, AlignUp(17, 0))
	assert.Equal(t, 17, AlignUp(17, -4096))
}

func TestPaddingTo(t *testing.T) {
	assert.Equal(t, 0, PaddingTo(4096, 4096))
	assert.Equal(t, 3840, PaddingTo(4096+160000, 4096))
}
