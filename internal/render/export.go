package render

import (
	"errors"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/inamate/inamate/canvas-go/internal/canvas"
	"github.com/inamate/inamate/canvas-go/internal/engine"
	"github.com/inamate/inamate/canvas-go/internal/geom"
	"github.com/inamate/inamate/canvas-go/internal/object"
)

// Format is an export file format.
type Format string

const (
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
	FormatPDF  Format = "pdf"
)

var ErrUnknownFormat = errors.New("unknown export format")

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatPNG, FormatWebP, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("format %q: %w", s, ErrUnknownFormat)
	}
}

// ContentType is the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatWebP:
		return "image/webp"
	case FormatPDF:
		return "application/pdf"
	default:
		return "image/png"
	}
}

// imagesOf resolves image commands to the elements of their shapes.
func imagesOf(sg *engine.SceneGraph) ImageSource {
	return func(id string) image.Image {
		node, ok := sg.NodesById[id]
		if !ok {
			return nil
		}
		if img, ok := node.Shape.(*object.Image); ok {
			return img.Element()
		}
		return nil
	}
}

// DrawCanvas paints the whole canvas onto s, scaled by scale.
func DrawCanvas(s Surface, c *canvas.Canvas, scale float64) error {
	sg := engine.BuildSceneGraph(c)
	s.Push()
	defer s.Pop()
	if scale != 1 {
		s.Transform(geom.Scale(scale, scale))
	}
	return Draw(s, engine.CompileDrawCommands(sg), imagesOf(sg))
}

// Rasterize renders the canvas into a new raster surface. The caller owns
// the surface and must Close it.
func Rasterize(c *canvas.Canvas, scale float64) (*RasterSurface, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("scale %g: %w", scale, geom.ErrDomain)
	}
	r := NewRasterSurface(pixelSize(c.Width(), scale), pixelSize(c.Height(), scale))
	if err := DrawCanvas(r, c, scale); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

// Export writes the canvas in the given format. Scale applies to the
// raster formats; PDF output is always one point per canvas pixel.
func Export(w io.Writer, c *canvas.Canvas, format Format, scale float64) error {
	if format == FormatPDF {
		p := NewPDFSurface(c.Width(), c.Height())
		if err := DrawCanvas(p, c, 1); err != nil {
			return fmt.Errorf("draw pdf: %w", err)
		}
		if err := p.Encode(w); err != nil {
			return fmt.Errorf("encode pdf: %w", err)
		}
		return nil
	}

	r, err := Rasterize(c, scale)
	if err != nil {
		return fmt.Errorf("rasterize: %w", err)
	}
	defer r.Close()

	switch format {
	case FormatPNG:
		err = r.EncodePNG(w)
	case FormatWebP:
		err = r.EncodeWebP(w)
	default:
		return fmt.Errorf("format %q: %w", format, ErrUnknownFormat)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}
