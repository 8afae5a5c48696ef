package header

import (
	"github.com/pkg/errors"
	"xhcart/xhgc/addrtable"
	"xhcart/xhgc/lbytes"
	"xhcart/xherr"
)

// Decode reads every scalar and string field plus the full address table.
// bs must be exactly one header long.
func Decode(bs []byte) (*Header, error) {
	if len(bs) != Size {
		return nil, xherr.InvalidSize("header", Size, len(bs))
	}

	reader := lbytes.NewBytesReader(bs)
	readU32 := lbytes.CreateU32ReadFunction(reader)
	readString := func(n int) lbytes.ReadFunction {
		return lbytes.CreateStringReadFunction(reader, n)
	}

	instructions := []lbytes.Instruction{
		{Key: "magic", ReadFunction: readString(len(Magic))},
		{Key: "header_version", ReadFunction: readU32},
		{Key: "header_size", ReadFunction: readU32},
		{Key: "flags", ReadFunction: readU32},
		{Key: "cart_id", ReadFunction: lbytes.CreateU64ReadFunction(reader)},
		{Key: "title", ReadFunction: readString(CapacityTitle)},
		{Key: "title_zh", ReadFunction: readString(CapacityTitleZh)},
		{Key: "publisher", ReadFunction: readString(CapacityPublisher)},
		{Key: "version", ReadFunction: readString(CapacityVersion)},
		{Key: "entry", ReadFunction: readString(CapacityEntry)},
		{Key: "min_fw", ReadFunction: readString(CapacityMinFW)},
		{Key: "", ReadFunction: lbytes.CreateSkipFunction(reader, OffsetCRC32)},
		{Key: "crc32", ReadFunction: readU32},
	}
	header, err := lbytes.ExecuteInstructions[Header](instructions)
	if err != nil {
		return nil, errors.Wrap(err, "header.Decode error")
	}

	header.AddressTable, err = addrtable.ReadTable(bs)
	if err != nil {
		return nil, errors.Wrap(err, "header.Decode error")
	}

	return header, nil
}

func (r Header) HasValidMagic() bool {
	return r.Magic == string(Magic[:])
}
