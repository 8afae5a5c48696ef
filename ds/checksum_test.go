package ds

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCrc32(t *testing.T) {
	assert.Equal(t, uint32(0), Crc32(nil))
	assert.Equal(t, uint32(0xCBF43926), Crc32([]byte("123456789")))
}
