package index

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"xhcart/ds"
	"xhcart/xhgc/addrtable"
	"xhcart/xhgc/lbytes"
	"xhcart/xhgc/section"
	"xhcart/xherr"
)

// Resolve sorts files byte-wise by path and assigns each entry the running
// sum of the sizes before it as its DATA offset.
func Resolve(files []File, failOnConflict bool) ([]File, []Entry, error) {
	sorted := ds.ShallowCopy(files)
	sort.SliceStable(
		sorted,
		func(i, j int) bool {
			return sorted[i].Path < sorted[j].Path
		},
	)

	duplicates := lo.Filter(
		sorted,
		func(file File, i int) bool {
			return i > 0 && sorted[i-1].Path == file.Path
		},
	)
	if len(duplicates) > 0 {
		if failOnConflict {
			err := xherr.Configuration(duplicates[0].Path, "packaged path appears more than once")
			return nil, nil, errors.Wrap(err, "index.Resolve error")
		}
		// stable sort keeps discovery order, so the first occurrence survives
		sorted = lo.UniqBy(
			sorted,
			func(file File) string {
				return file.Path
			},
		)
	}

	entries := make([]Entry, 0, len(sorted))
	offset := uint64(0)
	for i := range sorted {
		file := &sorted[i]
		if len(file.Path) > MaxNameLength {
			return nil, nil, errors.Wrap(xherr.FieldTooLong(file.Path, MaxNameLength), "index.Resolve error")
		}
		if file.Size != uint32(len(file.Bytes)) || uint64(len(file.Bytes)) > 0xFFFFFFFF {
			err := xherr.SizeMismatch(file.Path, int(file.Size), len(file.Bytes))
			return nil, nil, errors.Wrap(err, "index.Resolve error")
		}
		if file.CRC32 == 0 {
			file.CRC32 = ds.Crc32(file.Bytes)
		}
		if offset > 0xFFFFFFFF {
			err := xherr.Encoding("data", "section exceeds 4 GiB at %s", file.Path)
			return nil, nil, errors.Wrap(err, "index.Resolve error")
		}
		entries = append(
			entries,
			Entry{
				DataOffset: uint32(offset),
				DataSize:   file.Size,
				CRC32:      file.CRC32,
				Name:       file.Path,
			},
		)
		offset += uint64(file.Size)
	}

	return sorted, entries, nil
}

func EncodeEntry(entry Entry) []byte {
	bs := make([]byte, 0, EntryHeadSize+len(entry.Name))
	bs = append(bs, lbytes.EncodeU32(entry.DataOffset)...)
	bs = append(bs, lbytes.EncodeU32(entry.DataSize)...)
	bs = append(bs, lbytes.EncodeU32(entry.CRC32)...)
	bs = append(bs, byte(len(entry.Name)), 0, 0, 0)
	bs = append(bs, entry.Name...)
	return bs
}

func EncodeIndex(entries []Entry) []byte {
	bs := make([]byte, 0, HeaderSize+len(entries)*EntryHeadSize)
	bs = append(bs, lbytes.EncodeU32(uint32(len(entries)))...)
	bs = append(bs, lbytes.EncodeU32(0)...)
	for _, entry := range entries {
		bs = append(bs, EncodeEntry(entry)...)
	}
	return bs
}

// Encode produces the INDEX section and the DATA section, both in the same
// sorted order so index offsets point at the matching bytes.
func Encode(files []File, failOnConflict bool) (section.Section, section.Section, error) {
	sorted, entries, err := Resolve(files, failOnConflict)
	if err != nil {
		return section.Section{}, section.Section{}, errors.Wrap(err, "index.Encode error")
	}

	indexBytes := EncodeIndex(entries)
	dataSize := 0
	if len(entries) > 0 {
		last := entries[len(entries)-1]
		dataSize = int(last.DataOffset) + int(last.DataSize)
	}
	dataBytes := make([]byte, 0, dataSize)
	for _, file := range sorted {
		dataBytes = append(dataBytes, file.Bytes...)
	}

	indexSection := section.Section{
		Slot:  addrtable.SlotIndex,
		Bytes: indexBytes,
		CRC32: ds.Crc32(indexBytes),
	}
	dataSection := section.Section{
		Slot:  addrtable.SlotData,
		Bytes: dataBytes,
		CRC32: ds.Crc32(dataBytes),
	}
	return indexSection, dataSection, nil
}
