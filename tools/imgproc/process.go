package imgproc

import (
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
	"xhcart/config"
	"xhcart/xherr"
)

func (Converter) Process(path string, preprocess config.Preprocess, width int, height int) ([]byte, error) {
	expected := width * height * BytesPerPixel
	if lo.Contains(rawExtensions, strings.ToLower(filepath.Ext(path))) {
		bs, err := os.ReadFile(path)
		if err != nil {
			return nil, xherr.IO(path, err)
		}
		if len(bs) != expected {
			return nil, xherr.SizeMismatch(path, expected, len(bs))
		}
		return bs, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, xherr.IO(path, err)
	}
	defer file.Close()
	src, _, err := image.Decode(file)
	if err != nil {
		return nil, xherr.Encoding(path, "failed to decode image: %s", err)
	}

	fitted, err := Fit(src, preprocess, width, height)
	if err != nil {
		return nil, errors.Wrap(err, "imgproc.Converter.Process error")
	}
	return ToBGRA(fitted), nil
}

// Fit scales src into a width x height canvas. "cover" crops the centered
// region with the target aspect ratio and scales it to fill the canvas.
// "contain" shrinks src to fit (never enlarging it) and centers it on the
// background color.
func Fit(src image.Image, preprocess config.Preprocess, width int, height int) (*image.NRGBA, error) {
	interpolator, ok := resamplers[strings.ToLower(preprocess.Resample)]
	if !ok {
		interpolator = draw.CatmullRom
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	bounds := src.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW == 0 || srcH == 0 {
		return nil, xherr.Encoding("icon", "empty image")
	}

	switch preprocess.Mode {
	case config.ModeCover:
		crop := bounds
		if srcW*height > srcH*width {
			cropW := int(math.Round(float64(srcH) * float64(width) / float64(height)))
			crop.Min.X += (srcW - cropW) / 2
			crop.Max.X = crop.Min.X + cropW
		} else {
			cropH := int(math.Round(float64(srcW) * float64(height) / float64(width)))
			crop.Min.Y += (srcH - cropH) / 2
			crop.Max.Y = crop.Min.Y + cropH
		}
		interpolator.Scale(dst, dst.Bounds(), src, crop, draw.Src, nil)
	case config.ModeContain, "":
		background, err := ParseColor(preprocess.Background)
		if err != nil {
			return nil, err
		}
		draw.Draw(dst, dst.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

		fitW, fitH := srcW, srcH
		if srcW > width || srcH > height {
			scale := math.Min(float64(width)/float64(srcW), float64(height)/float64(srcH))
			fitW = max(1, int(math.Round(float64(srcW)*scale)))
			fitH = max(1, int(math.Round(float64(srcH)*scale)))
		}
		offset := image.Pt((width-fitW)/2, (height-fitH)/2)
		target := image.Rectangle{Min: offset, Max: offset.Add(image.Pt(fitW, fitH))}
		interpolator.Scale(dst, target, src, bounds, draw.Over, nil)
	default:
		return nil, xherr.Configuration("icon.preprocess.mode", "unsupported mode %q", preprocess.Mode)
	}
	return dst, nil
}

// ParseColor accepts "#RGB" and "#RRGGBB"; the result is opaque.
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.NRGBA{}, xherr.Configuration("icon.preprocess.background", "invalid color %q", s)
	}
	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, xherr.Configuration("icon.preprocess.background", "invalid color %q", s)
	}
	return color.NRGBA{
		R: uint8(value >> 16),
		G: uint8(value >> 8),
		B: uint8(value),
		A: 0xFF,
	}, nil
}

// ToBGRA lays img out row by row as B, G, R, A bytes.
func ToBGRA(img *image.NRGBA) []byte {
	bounds := img.Bounds()
	bs := make([]byte, 0, bounds.Dx()*bounds.Dy()*BytesPerPixel)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			pixel := img.NRGBAAt(x, y)
			bs = append(bs, pixel.B, pixel.G, pixel.R, pixel.A)
		}
	}
	return bs
}
