package render

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/gogpu/gg"
	"golang.org/x/image/colornames"
)

var ErrBadColor = errors.New("unrecognized color")

// ParseColor reads the color forms shapes carry: #rgb, #rgba, #rrggbb,
// #rrggbbaa, rgb(), rgba() and CSS color names. An empty string, "none"
// and "transparent" report ok == false so callers can skip the paint.
func ParseColor(s string) (c color.NRGBA, ok bool, err error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "", "none", "transparent":
		return color.NRGBA{}, false, nil
	}

	if hex, found := strings.CutPrefix(s, "#"); found {
		return parseHex(s, hex)
	}

	if args, found := functional(s, "rgba"); found {
		return fromChannels(s, args, 4)
	}
	if args, found := functional(s, "rgb"); found {
		return fromChannels(s, args, 3)
	}

	named, found := colornames.Map[s]
	if !found {
		return color.NRGBA{}, false, fmt.Errorf("color %q: %w", s, ErrBadColor)
	}
	return color.NRGBA{R: named.R, G: named.G, B: named.B, A: named.A}, true, nil
}

// parseHex decodes through gg.Hex, which silently maps bad input to black,
// so length and digits are checked here first.
func parseHex(s, hex string) (color.NRGBA, bool, error) {
	switch len(hex) {
	case 3, 4, 6, 8:
	default:
		return color.NRGBA{}, false, fmt.Errorf("color %q: %w", s, ErrBadColor)
	}
	for _, r := range hex {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return color.NRGBA{}, false, fmt.Errorf("color %q: %w", s, ErrBadColor)
		}
	}
	c := gg.Hex(hex)
	return color.NRGBA{
		R: clampByte(c.R * 255),
		G: clampByte(c.G * 255),
		B: clampByte(c.B * 255),
		A: clampByte(c.A * 255),
	}, true, nil
}

func functional(s, name string) ([]string, bool) {
	rest, found := strings.CutPrefix(s, name+"(")
	if !found || !strings.HasSuffix(rest, ")") {
		return nil, false
	}
	parts := strings.Split(strings.TrimSuffix(rest, ")"), ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, true
}

// fromChannels parses 0-255 (or percentage) channels and a 0-1 alpha.
func fromChannels(s string, args []string, want int) (color.NRGBA, bool, error) {
	if len(args) != want {
		return color.NRGBA{}, false, fmt.Errorf("color %q: %w", s, ErrBadColor)
	}
	var ch [4]float64
	ch[3] = 1
	for i, a := range args {
		scale := 1.0
		if pct, found := strings.CutSuffix(a, "%"); found {
			a = pct
			scale = 255.0 / 100
			if i == 3 {
				scale = 1.0 / 100
			}
		}
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return color.NRGBA{}, false, fmt.Errorf("color %q: %w", s, ErrBadColor)
		}
		ch[i] = v * scale
	}
	return color.NRGBA{
		R: clampByte(ch[0]),
		G: clampByte(ch[1]),
		B: clampByte(ch[2]),
		A: clampByte(ch[3] * 255),
	}, true, nil
}

func clampByte(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}

// withOpacity scales the alpha channel.
func withOpacity(c color.NRGBA, opacity float64) color.NRGBA {
	c.A = clampByte(float64(c.A) * opacity)
	return c
}
