// Package manifest encodes the MANF section: a tagged key-value record
// describing the cartridge for launchers and store front-ends.
package manifest

import (
	"fmt"
	"strings"

	"xhcart/xhgc/lbytes"
)

type (
	FieldID uint8

	// Meta carries every manifest-capable metadata value. Empty values are
	// never written.
	Meta struct {
		Title              string
		TitleZh            string
		Publisher          string
		Version            string
		CartID             string
		Entry              string
		MinFW              string
		ID                 string
		DescriptionDefault string
		DescriptionZh      string
		Category           string
		Tags               []string
		AuthorName         string
		AuthorContact      string
	}
	Field struct {
		ID    FieldID `json:"id"`
		Value []byte  `json:"value"`
	}
	directoryEntry struct {
		ID     FieldID
		Offset uint32
	}
)

const (
	Magic   = 0x464E414D // "MANF"
	Version = 1

	HeaderSize         = 16
	DirectoryEntrySize = 8
	MaxFieldSize       = 0xFFFF
)

const (
	FieldTitle FieldID = iota + 1
	FieldTitleZh
	FieldPublisher
	FieldVersion
	FieldCartID
	FieldEntry
	FieldMinFW
	FieldAppID
	FieldDescriptionDefault
	FieldDescriptionZh
	FieldCategory
	FieldTags
	FieldAuthorName
	FieldAuthorContact
)

var fieldNames = map[FieldID]string{
	FieldTitle:              "title",
	FieldTitleZh:            "title_zh",
	FieldPublisher:          "publisher",
	FieldVersion:            "version",
	FieldCartID:             "cart_id",
	FieldEntry:              "entry",
	FieldMinFW:              "min_fw",
	FieldAppID:              "id",
	FieldDescriptionDefault: "description_default",
	FieldDescriptionZh:      "description_zh",
	FieldCategory:           "category",
	FieldTags:               "tags",
	FieldAuthorName:         "author_name",
	FieldAuthorContact:      "author_contact",
}

func (r FieldID) String() string {
	name, ok := fieldNames[r]
	if !ok {
		return fmt.Sprintf("field_%d", uint8(r))
	}
	return name
}

// Text renders the value for display: cart_id as hex, tags comma-separated.
func (r Field) Text() string {
	switch r.ID {
	case FieldCartID:
		cartID, err := lbytes.NewBytesReader(r.Value).ReadU64()
		if err != nil || len(r.Value) != 8 {
			return fmt.Sprintf("%x", r.Value)
		}
		return fmt.Sprintf("0x%016x", cartID)
	case FieldTags:
		return strings.Join(strings.Split(string(r.Value), "\n"), ", ")
	default:
		return string(r.Value)
	}
}
