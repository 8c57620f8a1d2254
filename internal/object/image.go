package object

import (
	"fmt"
	"image"
)

// FilterType names an image filter. Filters are descriptors only; pixel
// processing happens outside this package.
type FilterType string

const (
	FilterGrayscale            FilterType = "Grayscale"
	FilterInvert               FilterType = "Invert"
	FilterSepia                FilterType = "Sepia"
	FilterSepia2               FilterType = "Sepia2"
	FilterBrightness           FilterType = "Brightness"
	FilterNoise                FilterType = "Noise"
	FilterPixelate             FilterType = "Pixelate"
	FilterRemoveWhite          FilterType = "RemoveWhite"
	FilterGradientTransparency FilterType = "GradientTransparency"
	FilterConvolute            FilterType = "Convolute"
)

// Filter is one step of an image's filter pipeline. Only the fields that
// belong to Type are meaningful.
type Filter struct {
	Type       FilterType
	Brightness float64   // Brightness
	Noise      float64   // Noise
	BlockSize  float64   // Pixelate
	Threshold  float64   // RemoveWhite, GradientTransparency
	Distance   float64   // RemoveWhite
	Matrix     []float64 // Convolute
	Opaque     bool      // Convolute
}

func (f Filter) record() map[string]any {
	m := map[string]any{"type": string(f.Type)}
	switch f.Type {
	case FilterBrightness:
		m["brightness"] = f.Brightness
	case FilterNoise:
		m["noise"] = f.Noise
	case FilterPixelate:
		m["blocksize"] = f.BlockSize
	case FilterRemoveWhite:
		m["threshold"] = f.Threshold
		m["distance"] = f.Distance
	case FilterGradientTransparency:
		m["threshold"] = f.Threshold
	case FilterConvolute:
		m["matrix"] = floatsToRecord(f.Matrix)
		m["opaque"] = f.Opaque
	}
	return m
}

func filterFromRecord(r Record, prefix string) (Filter, error) {
	rd := &recordReader{r: r, prefix: prefix}
	rd.require("type")
	var kind string
	rd.str("type", &kind)
	f := Filter{Type: FilterType(kind)}
	switch f.Type {
	case FilterGrayscale, FilterInvert, FilterSepia, FilterSepia2:
	case FilterBrightness:
		rd.float("brightness", &f.Brightness)
	case FilterNoise:
		rd.float("noise", &f.Noise)
	case FilterPixelate:
		rd.float("blocksize", &f.BlockSize)
	case FilterRemoveWhite:
		rd.float("threshold", &f.Threshold)
		rd.float("distance", &f.Distance)
	case FilterGradientTransparency:
		rd.float("threshold", &f.Threshold)
	case FilterConvolute:
		rd.floats("matrix", &f.Matrix)
		rd.boolean("opaque", &f.Opaque)
	default:
		if rd.err == nil {
			rd.fail("type", fmt.Errorf("unknown filter %q: %w", kind, ErrMalformed))
		}
	}
	return f, rd.err
}

// Image is a bitmap-backed box. The element may be nil until the source has
// been loaded.
type Image struct {
	Object
	element     image.Image
	src         string
	crossOrigin string
	filters     []Filter
}

// NewImage wraps a decoded bitmap. A nil element yields a 0x0 box unless
// the size is set later.
func NewImage(element image.Image, src string, opts ...Option) *Image {
	im := &Image{element: element, src: src}
	im.init(im, TypeImage)
	im.style.Fill = ""
	if element != nil {
		b := element.Bounds()
		im.t.Width, im.t.Height = float64(b.Dx()), float64(b.Dy())
	}
	im.apply(opts)
	return im
}

func (im *Image) Element() image.Image { return im.element }
func (im *Image) Src() string          { return im.src }
func (im *Image) CrossOrigin() string  { return im.crossOrigin }

// SetElement installs a decoded bitmap. The box keeps its size unless it
// is still empty.
func (im *Image) SetElement(element image.Image) {
	im.element = element
	if element != nil && im.t.Width == 0 && im.t.Height == 0 {
		b := element.Bounds()
		im.t.Width, im.t.Height = float64(b.Dx()), float64(b.Dy())
	}
	im.changed()
}

func (im *Image) SetCrossOrigin(v string) {
	im.crossOrigin = v
	im.changed()
}

// OriginalSize is the bitmap's pixel size, or zero without an element.
func (im *Image) OriginalSize() (int, int) {
	if im.element == nil {
		return 0, 0
	}
	b := im.element.Bounds()
	return b.Dx(), b.Dy()
}

func (im *Image) Filters() []Filter {
	return append([]Filter(nil), im.filters...)
}

func (im *Image) SetFilters(filters ...Filter) {
	im.filters = append([]Filter(nil), filters...)
	im.changed()
}

func (im *Image) ToObject(include ...Field) Record {
	rec := im.baseRecord(include)
	rec["src"] = im.src
	rec["crossOrigin"] = nullable(im.crossOrigin)
	filters := make([]any, len(im.filters))
	for i, f := range im.filters {
		filters[i] = f.record()
	}
	rec["filters"] = filters
	return rec
}

// imageFromObject restores everything but the bitmap; callers load src
// and call SetElement.
func imageFromObject(rd *recordReader) (Shape, error) {
	im := &Image{}
	im.init(im, TypeImage)
	im.style.Fill = ""
	rd.str("src", &im.src)
	rd.str("crossOrigin", &im.crossOrigin)
	if list, ok := rd.list("filters"); ok {
		for i, v := range list {
			m, ok := v.(map[string]any)
			if !ok {
				rd.fail("filters", fmt.Errorf("element %d: want object, got %T: %w", i, v, ErrMalformed))
				break
			}
			f, err := filterFromRecord(m, fmt.Sprintf("filters[%d].", i))
			if err != nil {
				return nil, err
			}
			im.filters = append(im.filters, f)
		}
	}
	im.decodeBase(rd)
	if rd.err != nil {
		return nil, rd.err
	}
	im.finish()
	return im, nil
}
