package pipeline

import (
	"os"

	"github.com/pkg/errors"
	"xhcart/xhgc/header"
	"xhcart/xhgc/section"
	"xhcart/xherr"
)

type (
	// Assembler commits stages to the image at Path.
	Assembler struct {
		Path    string
		Meta    header.Meta
		Options Options
	}
)

// Current returns the image a stage starts from: a fresh header for the
// init stages, the committed file otherwise.
func (r Assembler) Current(stage Stage) ([]byte, error) {
	if stage.IsInit() {
		bs, err := header.EncodeWithoutCRC(r.Meta)
		if err != nil {
			return nil, errors.Wrap(err, "pipeline.Assembler.Current error")
		}
		return bs, nil
	}

	bs, err := os.ReadFile(r.Path)
	if err != nil {
		return nil, xherr.IO(r.Path, err)
	}
	if len(bs) < header.Size {
		return nil, xherr.InvalidSize(r.Path, header.Size, len(bs))
	}
	return bs, nil
}

// RunStage applies the stage to the current image and replaces the file.
// On any error the committed image is left as it was.
func (r Assembler) RunStage(stage Stage, secs ...section.Section) (*Report, error) {
	current, err := r.Current(stage)
	if err != nil {
		return nil, err
	}
	next, report, err := Apply(current, stage, secs, r.Options)
	if err != nil {
		return nil, errors.Wrapf(err, "pipeline.Assembler.RunStage error in stage %s", stage)
	}
	if err := WriteAtomic(r.Path, next); err != nil {
		return nil, errors.Wrapf(err, "pipeline.Assembler.RunStage error in stage %s", stage)
	}
	return report, nil
}
