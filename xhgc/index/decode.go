package index

import (
	"github.com/pkg/errors"
	"xhcart/xhgc/lbytes"
	"xhcart/xherr"
)

func DecodeEntry(reader *lbytes.Reader) (*Entry, error) {
	readU32 := lbytes.CreateU32ReadFunction(reader)
	head, err := lbytes.ExecuteInstructions[Entry](
		[]lbytes.Instruction{
			{Key: "data_offset", ReadFunction: readU32},
			{Key: "data_size", ReadFunction: readU32},
			{Key: "crc32", ReadFunction: readU32},
		},
	)
	if err != nil {
		return nil, errors.Wrap(err, "index.DecodeEntry error")
	}
	nameLength, err := reader.ReadU8()
	if err != nil {
		return nil, errors.Wrap(err, "index.DecodeEntry error")
	}
	if _, err := reader.ReadBytes(3); err != nil {
		return nil, errors.Wrap(err, "index.DecodeEntry error")
	}
	name, err := reader.ReadBytes(int(nameLength))
	if err != nil {
		return nil, errors.Wrap(err, "index.DecodeEntry error")
	}
	head.Name = string(name)
	return head, nil
}

func Decode(bs []byte) ([]Entry, error) {
	reader := lbytes.NewBytesReader(bs)
	count, err := reader.ReadU32()
	if err != nil {
		return nil, errors.Wrap(err, "index.Decode error")
	}
	if _, err := reader.ReadU32(); err != nil {
		return nil, errors.Wrap(err, "index.Decode error")
	}
	if uint64(count)*EntryHeadSize > uint64(len(bs)-HeaderSize) {
		return nil, xherr.InvalidSize("index", HeaderSize+int(count)*EntryHeadSize, len(bs))
	}

	entries := make([]Entry, 0, count)
	for i := uint32(0); i < count; i++ {
		entry, err := DecodeEntry(reader)
		if err != nil {
			return nil, errors.Wrapf(err, "index.Decode error at entry %d", i)
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}

// Lookup returns the bytes of name inside a DATA section.
func Lookup(entries []Entry, data []byte, name string) ([]byte, bool) {
	for _, entry := range entries {
		if entry.Name != name {
			continue
		}
		end := uint64(entry.DataOffset) + uint64(entry.DataSize)
		if end > uint64(len(data)) {
			return nil, false
		}
		return data[entry.DataOffset:end], true
	}
	return nil, false
}
