// Package imgproc turns an icon source file into raw BGRA pixels of a fixed size.
package imgproc

import (
	"golang.org/x/image/draw"
	"xhcart/config"
)

type (
	// Processor is the capability the pipeline depends on.
	Processor interface {
		Process(path string, preprocess config.Preprocess, width int, height int) ([]byte, error)
	}
	// Converter decodes PNG, JPEG, GIF, BMP and WebP sources and passes raw
	// BGRA dumps through unchanged.
	Converter struct{}
)

const BytesPerPixel = 4

var (
	rawExtensions = []string{".raw", ".bgra", ".argb"}
	resamplers    = map[string]draw.Interpolator{
		"lanczos":  draw.CatmullRom,
		"bicubic":  draw.CatmullRom,
		"bilinear": draw.BiLinear,
		"nearest":  draw.NearestNeighbor,
	}
)
