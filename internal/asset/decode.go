package asset

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

var ErrUnsupportedImage = errors.New("unsupported image format")

// TGA has no file signature, so formats are sniffed here rather than through
// image.Decode's registry, and TGA is the fallback.
var signatures = []struct {
	format string
	match  func([]byte) bool
	decode func(io.Reader) (image.Image, error)
}{
	{"png", prefix("\x89PNG\r\n\x1a\n"), png.Decode},
	{"jpeg", prefix("\xff\xd8"), jpeg.Decode},
	{"webp", func(b []byte) bool {
		return len(b) >= 12 && string(b[:4]) == "RIFF" && string(b[8:12]) == "WEBP"
	}, webp.Decode},
	{"bmp", prefix("BM"), bmp.Decode},
}

func prefix(magic string) func([]byte) bool {
	return func(b []byte) bool { return bytes.HasPrefix(b, []byte(magic)) }
}

// Decode reads a PNG, JPEG, WebP, BMP or TGA image. Images larger than
// maxDim on either side are scaled down to fit; maxDim <= 0 disables that.
func Decode(r io.Reader, maxDim int) (image.Image, string, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(12)

	format, decode := "tga", tga.Decode
	for _, sig := range signatures {
		if sig.match(head) {
			format, decode = sig.format, sig.decode
			break
		}
	}

	img, err := decode(br)
	if err != nil {
		return nil, format, fmt.Errorf("decode %s: %v: %w", format, err, ErrUnsupportedImage)
	}
	return Fit(img, maxDim), format, nil
}

// Fit scales img down, keeping its aspect ratio, so neither side exceeds
// maxDim. Smaller images are returned as is.
func Fit(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return img
	}

	if w >= h {
		h = max(1, h*maxDim/w)
		w = maxDim
	} else {
		w = max(1, w*maxDim/h)
		h = maxDim
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
