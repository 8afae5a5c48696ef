package manifest

import (
	"github.com/pkg/errors"
	"xhcart/xhgc/lbytes"
	"xhcart/xherr"
)

type (
	recordHeader struct {
		Magic      uint32 `json:"magic"`
		Version    uint32 `json:"version"`
		TotalSize  uint32 `json:"total_size"`
		FieldCount uint32 `json:"field_count"`
	}
)

func decodeHeader(reader *lbytes.Reader) (*recordHeader, error) {
	readU32 := lbytes.CreateU32ReadFunction(reader)
	instructions := []lbytes.Instruction{
		{Key: "magic", ReadFunction: readU32},
		{Key: "version", ReadFunction: readU32},
		{Key: "total_size", ReadFunction: readU32},
		{Key: "field_count", ReadFunction: readU32},
	}
	return lbytes.ExecuteInstructions[recordHeader](instructions)
}

func decodeDirectory(reader *lbytes.Reader, n int) ([]directoryEntry, error) {
	entries := make([]directoryEntry, 0, n)
	for i := 0; i < n; i++ {
		id, err := reader.ReadU8()
		if err != nil {
			return nil, err
		}
		if _, err := reader.ReadBytes(3); err != nil {
			return nil, err
		}
		offset, err := reader.ReadU32()
		if err != nil {
			return nil, err
		}
		entries = append(entries, directoryEntry{ID: FieldID(id), Offset: offset})
	}
	return entries, nil
}

// Decode reads a MANF record back into its fields, in directory order.
func Decode(bs []byte) ([]Field, error) {
	reader := lbytes.NewBytesReader(bs)
	recordHeader, err := decodeHeader(reader)
	if err != nil {
		return nil, errors.Wrap(err, "manifest.Decode error")
	}
	if recordHeader.Magic != Magic {
		return nil, xherr.Encoding("manifest", "invalid magic 0x%08X", recordHeader.Magic)
	}
	if int(recordHeader.TotalSize) != len(bs) {
		return nil, xherr.SizeMismatch("manifest", int(recordHeader.TotalSize), len(bs))
	}
	if uint64(recordHeader.FieldCount)*DirectoryEntrySize > uint64(len(bs)-HeaderSize) {
		return nil, xherr.InvalidSize(
			"manifest directory",
			HeaderSize+int(recordHeader.FieldCount)*DirectoryEntrySize, len(bs),
		)
	}

	directory, err := decodeDirectory(reader, int(recordHeader.FieldCount))
	if err != nil {
		return nil, errors.Wrap(err, "manifest.Decode error")
	}

	fields := make([]Field, 0, len(directory))
	for _, entry := range directory {
		if err := reader.SeekTo(int(entry.Offset)); err != nil {
			return nil, errors.Wrap(err, "manifest.Decode error")
		}
		size, err := reader.ReadU16()
		if err != nil {
			return nil, errors.Wrapf(err, "manifest.Decode error reading %s", entry.ID)
		}
		value, err := reader.ReadBytes(int(size))
		if err != nil {
			return nil, errors.Wrapf(err, "manifest.Decode error reading %s", entry.ID)
		}
		fields = append(fields, Field{ID: entry.ID, Value: value})
	}

	return fields, nil
}
