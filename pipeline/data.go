// Package pipeline assembles a cartridge image stage by stage. Each stage
// turns the committed image into the next one in memory and replaces the
// output file atomically.
package pipeline

import (
	"xhcart/xhgc/addrtable"
)

type (
	Stage int
	// Options are the hash switches from pack.json.
	Options struct {
		HeaderCRC32 bool
		ImageCRC32  bool
	}
	// Report describes one committed stage; the CLI prints it as a JSON line.
	Report struct {
		Step        string          `json:"step"`
		Status      string          `json:"status"`
		FileSize    int             `json:"file_size"`
		Sections    []SectionReport `json:"sections"`
		HeaderCRC32 string          `json:"header_crc32"`
		ImageCRC32  string          `json:"image_crc32,omitempty"`
	}
	SectionReport struct {
		Name        string `json:"name"`
		Offset      uint64 `json:"offset"`
		Size        int    `json:"size"`
		CRC32       string `json:"crc32"`
		PaddingSize int    `json:"padding_size"`
	}
)

const (
	StageHeader Stage = iota
	StageIcon
	StageManifest
	StageEntry
	StageData
)

const (
	Alignment = 4096
	StatusOK  = "ok"
)

var (
	stageNames = map[Stage]string{
		StageHeader:   "header",
		StageIcon:     "icon",
		StageManifest: "manifest",
		StageEntry:    "entry",
		StageData:     "data",
	}
	stageSlots = map[Stage][]int{
		StageHeader:   {},
		StageIcon:     {addrtable.SlotIcon},
		StageManifest: {addrtable.SlotManifest},
		StageEntry:    {addrtable.SlotEntry},
		StageData:     {addrtable.SlotIndex, addrtable.SlotData},
	}
)

func (s Stage) String() string {
	name, ok := stageNames[s]
	if !ok {
		return "unknown"
	}
	return name
}

// IsInit reports whether the stage starts from a fresh header instead of the
// committed file.
func (s Stage) IsInit() bool {
	return s == StageHeader || s == StageIcon
}

// Slots lists the address table slots the stage fills, in append order.
func (s Stage) Slots() []int {
	return stageSlots[s]
}
