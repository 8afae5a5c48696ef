package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/pkg/errors"
	"xhcart/config"
	"xhcart/ds"
	"xhcart/pipeline"
	"xhcart/ui"
	"xhcart/xhgc"
	"xhcart/xhgc/addrtable"
	"xhcart/xhgc/header"
)

type (
	Args struct {
		PackHeader  *PackHeaderCmd  `arg:"subcommand:pack-header" help:"write a header-only image"`
		Pack        *PackCmd        `arg:"subcommand:pack" help:"build a complete cartridge image"`
		Inspect     *InspectCmd     `arg:"subcommand:inspect" help:"print header fields and the address table"`
		Verify      *VerifyCmd      `arg:"subcommand:verify" help:"check header and image checksums"`
		Interactive *InteractiveCmd `arg:"subcommand:interactive" help:"browse an image in the terminal"`
	}
	PackHeaderCmd struct {
		PackJSON string `arg:"positional,required" help:"path to pack.json" placeholder:"pack.json"`
		Out      string `arg:"positional,required" help:"path to the header file" placeholder:"header.bin"`
	}
	PackCmd struct {
		PackJSON string `arg:"positional,required" help:"path to pack.json" placeholder:"pack.json"`
		Output   string `arg:"-o,--output" help:"image path, overrides $XHCART_OUTPUT and build.output" placeholder:"cart.bin"`
	}
	InspectCmd struct {
		Path string `arg:"positional,required" help:"header or image file" placeholder:"cart.bin"`
		JSON bool   `arg:"--json" help:"print ordered JSON"`
	}
	VerifyCmd struct {
		Path  string `arg:"positional,required" help:"header or image file" placeholder:"cart.bin"`
		Image bool   `arg:"--image" help:"also check every section and the whole-image CRC32"`
	}
	InteractiveCmd struct {
		Path string `arg:"positional,required" help:"header or image file" placeholder:"cart.bin"`
	}
)

func (Args) Description() string {
	des := strings.Join(
		[]string{
			"XHGC cartridge packer.\n",
			"Builds, inspects and verifies XHGC_PAC images from a pack.json description.",
		},
		"\n",
	)
	des += "\n"
	return des
}

func CheckExistence(path string) bool {
	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false
	}
	return err == nil
}

func StartPackingHeader(out io.Writer, packJSON string, to string) error {
	spec, err := config.Load(packJSON)
	if err != nil {
		return err
	}
	bs, err := header.Encode(spec.HeaderMeta())
	if err != nil {
		return err
	}
	if err := pipeline.WriteAtomic(to, bs); err != nil {
		return err
	}
	fmt.Fprintln(out, "Successfully generated header: "+to)
	return nil
}

// StartPacking prints one JSON line per committed stage, including the
// stages committed before a failure.
func StartPacking(out io.Writer, packJSON string, output string, collaborators pipeline.Collaborators) error {
	spec, err := config.Load(packJSON)
	if err != nil {
		return err
	}
	reports, err := pipeline.Build(spec, spec.OutputPath(output), collaborators)
	for _, report := range reports {
		fmt.Fprintln(out, ds.DumpJSON(report))
	}
	return err
}

func readImage(path string) ([]byte, error) {
	if !CheckExistence(path) {
		return nil, errors.Errorf("file does not exist: %s", path)
	}
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "cli.readImage error")
	}
	return bs, nil
}

func StartInspecting(out io.Writer, path string, asJSON bool) error {
	bs, err := readImage(path)
	if err != nil {
		return err
	}
	inspection, err := xhgc.Inspect(bs)
	if err != nil {
		return err
	}
	if asJSON {
		jsonBytes, err := inspection.ToOrderedMap().MarshalJSON()
		if err != nil {
			return errors.Wrap(err, "cli.StartInspecting error")
		}
		fmt.Fprintln(out, string(jsonBytes))
		return nil
	}
	fmt.Fprint(out, FormatInspection(*inspection))
	return nil
}

// FormatInspection renders the header fields and every address table slot.
func FormatInspection(inspection xhgc.Inspection) string {
	rule := strings.Repeat("-", 80) + "\n"
	var sb strings.Builder
	sb.WriteString("Header Inspection:\n")
	sb.WriteString(rule)
	fmt.Fprintf(&sb, "Magic: %s\n", inspection.Magic)
	fmt.Fprintf(&sb, "Header Version: %d\n", inspection.HeaderVersion)
	fmt.Fprintf(&sb, "Header Size: %d\n", inspection.HeaderSize)
	fmt.Fprintf(&sb, "Flags: %d\n", inspection.Flags)
	fmt.Fprintf(&sb, "Cart ID: 0x%016x\n", inspection.CartID)
	fmt.Fprintf(&sb, "Title: %s\n", inspection.Title)
	fmt.Fprintf(&sb, "Title (ZH): %s\n", inspection.TitleZh)
	fmt.Fprintf(&sb, "Publisher: %s\n", inspection.Publisher)
	fmt.Fprintf(&sb, "Version: %s\n", inspection.Version)
	fmt.Fprintf(&sb, "Entry: %s\n", inspection.Entry)
	fmt.Fprintf(&sb, "Min FW: %s\n", inspection.MinFW)
	fmt.Fprintf(&sb, "CRC32: 0x%08X (%s)\n", inspection.CRC32, passOrFail(inspection.CRCValid))
	fmt.Fprintf(&sb, "File Size: %d\n", inspection.FileSize)
	fmt.Fprintf(&sb, "Address Table Range: %s\n", inspection.AddrTableRange)
	fmt.Fprintf(&sb, "CRC32 Range: %s\n", inspection.CRC32Range)
	sb.WriteString("\nAddress Table Slots:\n")
	sb.WriteString(rule)
	fmt.Fprintf(&sb, "%-10s %-10s %-15s %-10s %-10s\n", "Name", "Offset", "Data Offset", "Size", "CRC32")
	sb.WriteString(rule)
	for _, slot := range inspection.AddressTable {
		slotOffset, _ := addrtable.SlotOffset(slot.Index)
		fmt.Fprintf(
			&sb, "%-10s 0x%04X     0x%08X      %-10d 0x%08X\n",
			slot.Name(), slotOffset, slot.DataOffset, slot.DataSize, slot.CRC32,
		)
	}
	if len(inspection.Manifest) > 0 {
		sb.WriteString("\nManifest Fields:\n")
		sb.WriteString(rule)
		for _, field := range inspection.Manifest {
			fmt.Fprintf(&sb, "%-20s %s\n", field.ID.String()+":", field.Text())
		}
	}
	if len(inspection.Index) > 0 {
		sb.WriteString("\nIndex Entries:\n")
		sb.WriteString(rule)
		fmt.Fprintf(&sb, "%-40s %-12s %-10s %-10s\n", "Name", "Data Offset", "Size", "CRC32")
		sb.WriteString(rule)
		for _, entry := range inspection.Index {
			fmt.Fprintf(&sb, "%-40s 0x%08X   %-10d 0x%08X\n", entry.Name, entry.DataOffset, entry.DataSize, entry.CRC32)
		}
	}
	for _, note := range inspection.Notes {
		fmt.Fprintf(&sb, "Note: %s\n", note)
	}
	return sb.String()
}

func passOrFail(ok bool) string {
	if ok {
		return "valid"
	}
	return "invalid"
}

func StartVerifying(out io.Writer, path string, image bool) error {
	bs, err := readImage(path)
	if err != nil {
		return err
	}
	if !xhgc.Verify(bs) {
		fmt.Fprintln(out, "Header CRC32 verification FAILED")
		return errors.New("header CRC32 mismatch")
	}
	fmt.Fprintln(out, "Header CRC32 verification PASSED")
	if !image {
		return nil
	}
	if err := xhgc.VerifyImage(bs); err != nil {
		fmt.Fprintln(out, "Image verification FAILED")
		return err
	}
	fmt.Fprintln(out, "Image verification PASSED")
	return nil
}

func StartInteractive(path string) error {
	bs, err := readImage(path)
	if err != nil {
		return err
	}
	return ui.Start(path, bs)
}

func Start() {
	args := Args{}
	parser := arg.MustParse(&args)

	var err error
	switch {
	case args.PackHeader != nil:
		err = StartPackingHeader(os.Stdout, args.PackHeader.PackJSON, args.PackHeader.Out)
	case args.Pack != nil:
		err = StartPacking(os.Stdout, args.Pack.PackJSON, args.Pack.Output, pipeline.DefaultCollaborators())
	case args.Inspect != nil:
		err = StartInspecting(os.Stdout, args.Inspect.Path, args.Inspect.JSON)
	case args.Verify != nil:
		err = StartVerifying(os.Stdout, args.Verify.Path, args.Verify.Image)
	case args.Interactive != nil:
		err = StartInteractive(args.Interactive.Path)
	default:
		parser.WriteHelp(os.Stdout)
		return
	}
	if err != nil {
		println(err.Error())
		os.Exit(1)
	}
}
