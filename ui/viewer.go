package ui

import (
	"encoding/hex"
	"fmt"
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"xhcart/ds"
	"xhcart/xhgc"
	"xhcart/xhgc/addrtable"
)

const PreviewSize = 16

// Viewer walks the address table of an image loaded in memory.
type Viewer struct {
	path       string
	image      []byte
	inspection xhgc.Inspection
	integrity  string
	cursor     int
}

func CreateViewer(path string, image []byte) (Viewer, error) {
	inspection, err := xhgc.Inspect(image)
	if err != nil {
		return Viewer{}, errors.Wrap(err, "CreateViewer inspect error")
	}
	integrity := "image verified"
	if err := xhgc.VerifyImage(image); err != nil {
		integrity = err.Error()
	}
	return Viewer{
		path:       path,
		image:      image,
		inspection: *inspection,
		integrity:  integrity,
	}, nil
}

func (v Viewer) Selected() addrtable.Slot {
	if v.cursor < 0 || v.cursor >= len(v.inspection.AddressTable) {
		log.Panic(ds.ErrUnreachableCode{Caller: "Viewer.Selected"})
	}
	return v.inspection.AddressTable[v.cursor]
}

// Preview returns the first bytes of the selected section, or a note when
// the slot is empty or points outside the file.
func (v Viewer) Preview() string {
	slot := v.Selected()
	if slot.IsZero() {
		return "(empty slot)"
	}
	if slot.Index == addrtable.SlotImage {
		return fmt.Sprintf("whole image, %d bytes", slot.DataSize)
	}
	if !slot.FitsIn(len(v.image)) {
		return "(outside file)"
	}
	end := slot.DataOffset + uint64(PreviewSize)
	if end > slot.End() {
		end = slot.End()
	}
	groups := lo.Map(
		ds.MakeChunks(v.image[slot.DataOffset:end], 4),
		func(group []byte, _ int) string {
			return hex.EncodeToString(group)
		},
	)
	return strings.Join(groups, " ")
}

func (v Viewer) View() string {
	output := "XHGC VIEWER\n\n"
	output += "File: " + v.path + "\n"
	output += fmt.Sprintf(
		"%s %s (%s) by %s, cart 0x%016x, entry %s\n",
		v.inspection.Title, v.inspection.Version, v.inspection.TitleZh,
		v.inspection.Publisher, v.inspection.CartID, v.inspection.Entry,
	)
	output += fmt.Sprintf("%d bytes, header CRC32 0x%08X, %s\n\n", v.inspection.FileSize, v.inspection.CRC32, v.integrity)

	for i, slot := range v.inspection.AddressTable {
		marker := " "
		if i == v.cursor {
			marker = ">"
		}
		output += fmt.Sprintf(
			"%s %-6s 0x%08X %10d 0x%08X\n",
			marker, slot.Name(), slot.DataOffset, slot.DataSize, slot.CRC32,
		)
	}
	output += "\n" + v.Selected().Name() + ": " + v.Preview() + "\n"
	output += strings.Repeat("-", 40) + "\nup/down to move, q to quit\n"
	return output
}

func (v Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	switch keyMsg.String() {
	case "ctrl+c", "q", "esc":
		return v, tea.Quit
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.inspection.AddressTable)-1 {
			v.cursor++
		}
	}
	return v, nil
}

func (v Viewer) Init() tea.Cmd {
	return nil
}
