package manifest

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"xhcart/ds"
	"xhcart/xhgc/addrtable"
	"xhcart/xhgc/header"
	"xhcart/xhgc/lbytes"
	"xhcart/xhgc/section"
	"xhcart/xherr"
)

// Fields lists the manifest fields of meta in field id order, skipping empty ones.
func Fields(meta Meta) ([]Field, error) {
	text := func(id FieldID, value string) Field {
		return Field{ID: id, Value: []byte(value)}
	}

	var cartIDValue []byte
	if meta.CartID != "" {
		cartID, err := header.ParseCartID(meta.CartID)
		if err != nil {
			return nil, errors.Wrap(err, "manifest.Fields error")
		}
		cartIDValue = lbytes.EncodeU64(cartID)
	}

	fields := []Field{
		text(FieldTitle, meta.Title),
		text(FieldTitleZh, meta.TitleZh),
		text(FieldPublisher, meta.Publisher),
		text(FieldVersion, meta.Version),
		{ID: FieldCartID, Value: cartIDValue},
		text(FieldEntry, meta.Entry),
		text(FieldMinFW, meta.MinFW),
		text(FieldAppID, meta.ID),
		text(FieldDescriptionDefault, meta.DescriptionDefault),
		text(FieldDescriptionZh, meta.DescriptionZh),
		text(FieldCategory, meta.Category),
		text(FieldTags, strings.Join(meta.Tags, "\n")),
		text(FieldAuthorName, meta.AuthorName),
		text(FieldAuthorContact, meta.AuthorContact),
	}
	fields = lo.Filter(
		fields,
		func(field Field, _ int) bool {
			return len(field.Value) > 0
		},
	)

	field, found := lo.Find(
		fields,
		func(field Field) bool {
			return len(field.Value) > MaxFieldSize
		},
	)
	if found {
		err := xherr.FieldTooLong("manifest."+field.ID.String(), MaxFieldSize)
		return nil, errors.Wrap(err, "manifest.Fields error")
	}

	return fields, nil
}

// EncodeFields lays out the record: header, directory, then the blob of
// size-prefixed values. Directory offsets count from the start of the record.
func EncodeFields(fields []Field) []byte {
	blobOffset := HeaderSize + len(fields)*DirectoryEntrySize
	totalSize := lo.Reduce(
		fields,
		func(total int, field Field, _ int) int {
			return total + 2 + len(field.Value)
		},
		blobOffset,
	)

	bs := make([]byte, 0, totalSize)
	bs = append(bs, lbytes.EncodeU32(Magic)...)
	bs = append(bs, lbytes.EncodeU32(Version)...)
	bs = append(bs, lbytes.EncodeU32(uint32(totalSize))...)
	bs = append(bs, lbytes.EncodeU32(uint32(len(fields)))...)

	offset := blobOffset
	for _, field := range fields {
		bs = append(bs, byte(field.ID), 0, 0, 0)
		bs = append(bs, lbytes.EncodeU32(uint32(offset))...)
		offset += 2 + len(field.Value)
	}
	for _, field := range fields {
		bs = append(bs, lbytes.EncodeU16(uint16(len(field.Value)))...)
		bs = append(bs, field.Value...)
	}

	return bs
}

func Encode(meta Meta) (section.Section, error) {
	fields, err := Fields(meta)
	if err != nil {
		return section.Section{}, errors.Wrap(err, "manifest.Encode error")
	}
	bs := EncodeFields(fields)
	return section.Section{
		Slot:  addrtable.SlotManifest,
		Bytes: bs,
		CRC32: ds.Crc32(bs),
	}, nil
}
