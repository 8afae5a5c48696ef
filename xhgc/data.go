// Package xhgc stores the code to inspect and verify XHGC cartridge images.
package xhgc

import (
	"bytes"

	"xhcart/xhgc/header"
	"xhcart/xhgc/index"
	"xhcart/xhgc/manifest"
)

type (
	// Inspection is the read-back of a header for diagnostic tooling.
	Inspection struct {
		header.Header
		FileSize       int    `json:"file_size"`
		CRCValid       bool   `json:"crc_valid"`
		AddrTableRange string `json:"addr_table_range"`
		CRC32Range     string `json:"crc32_range"`
		// Manifest and Index are decoded from an image; a bare header
		// leaves them empty.
		Manifest []manifest.Field `json:"manifest"`
		Index    []index.Entry    `json:"index"`
		// Notes lists sections that could not be decoded.
		Notes []string `json:"notes"`
	}
)

func IsXHGCFile(bs []byte) bool {
	return len(bs) >= len(header.Magic) && bytes.Equal(bs[:len(header.Magic)], header.Magic[:])
}
