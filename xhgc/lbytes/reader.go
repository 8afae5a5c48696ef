package lbytes

import (
	"bytes"
	"encoding/binary"
	"io"
	"strings"
)

func NewBytesReader(bs []byte) *Reader {
	return &Reader{
		Reader: *bytes.NewReader(bs),
	}
}

func (b *Reader) ReadU8() (uint8, error) {
	return b.ReadByte()
}

func (b *Reader) ReadU16() (uint16, error) {
	bs, err := b.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(bs), nil
}

func (b *Reader) ReadU32() (uint32, error) {
	bs, err := b.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(bs), nil
}

func (b *Reader) ReadU64() (uint64, error) {
	bs, err := b.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(bs), nil
}

func (b *Reader) ReadBytes(n int) ([]byte, error) {
	bs := make([]byte, n)
	// add return early to avoid EOF error
	// when reader's pointer reach end of file
	// while the number of next bytes to read is 0
	if n == 0 {
		return bs, nil
	}
	_, err := io.ReadFull(b, bs)
	if err != nil {
		return nil, err
	}
	return bs, nil
}

// ReadString reads a fixed-size, zero-padded string field.
func (b *Reader) ReadString(n int) (string, error) {
	bs, err := b.ReadBytes(n)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(bs), "\u0000"), nil
}

// SeekTo moves the reader to an absolute offset.
func (b *Reader) SeekTo(offset int) error {
	_, err := b.Seek(int64(offset), io.SeekStart)
	return err
}
