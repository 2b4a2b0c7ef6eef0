package parse

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/roach88/mbstyle/internal/ast"
)

// quickColors are checked before any parsing.
var quickColors = map[string]colorful.Color{
	"red":  {R: 1, G: 0, B: 0},
	"blue": {R: 0, G: 0, B: 1},
}

// rgba is a resolved color with straight alpha in [0,1].
type rgba struct {
	c     colorful.Color
	alpha float64
}

// Color resolves a color string to a literal holding "#rrggbb", or
// "#rrggbbaa" when the color is translucent. Accepted forms, in lookup order:
// names configured on the context, red and blue, three digit hex (each digit
// doubled), then the CSS forms #rrggbb, #rrggbbaa, rgb(), rgba(), hsl(), hsla()
// and the CSS named colors. ok is false when nothing matches; the caller
// decides whether that is fatal.
func (c *Context) Color(s string) (lit ast.Literal, ok bool) {
	resolved, ok := c.resolveColor(s, true)
	if !ok {
		return ast.Literal{}, false
	}
	return ast.Str(formatColor(resolved)), true
}

func (c *Context) resolveColor(s string, useConfigured bool) (rgba, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return rgba{}, false
	}
	name := strings.ToLower(s)

	if useConfigured && c != nil {
		if alias, found := c.Colors[name]; found {
			// configured names resolve one level deep
			return c.resolveColor(alias, false)
		}
	}
	if col, found := quickColors[name]; found {
		return rgba{c: col, alpha: 1}, true
	}
	if strings.HasPrefix(s, "#") && len(s) == 4 {
		var b strings.Builder
		b.WriteByte('#')
		for _, r := range s[1:] {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		s = b.String()
	}
	return convertCSSColor(s)
}

// convertCSSColor is the generic converter for CSS color strings.
func convertCSSColor(s string) (rgba, bool) {
	lower := strings.ToLower(strings.TrimSpace(s))

	switch {
	case strings.HasPrefix(lower, "#"):
		return parseHexColor(lower)
	case strings.HasPrefix(lower, "rgba(") || strings.HasPrefix(lower, "rgb("):
		return parseRGBFunc(lower)
	case strings.HasPrefix(lower, "hsla(") || strings.HasPrefix(lower, "hsl("):
		return parseHSLFunc(lower)
	case lower == "transparent":
		return rgba{alpha: 0}, true
	}

	if hex, found := cssNamedColors[lower]; found {
		col, err := colorful.Hex(hex)
		if err != nil {
			return rgba{}, false
		}
		return rgba{c: col, alpha: 1}, true
	}
	return rgba{}, false
}

func parseHexColor(s string) (rgba, bool) {
	switch len(s) {
	case 4, 7:
		col, err := colorful.Hex(s)
		if err != nil {
			return rgba{}, false
		}
		return rgba{c: col, alpha: 1}, true
	case 9:
		col, err := colorful.Hex(s[:7])
		if err != nil {
			return rgba{}, false
		}
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return rgba{}, false
		}
		return rgba{c: col, alpha: float64(a) / 255}, true
	default:
		return rgba{}, false
	}
}

// funcArgs splits "name(a, b, c)" into its trimmed arguments.
func funcArgs(s string) ([]string, bool) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return nil, false
	}
	parts := strings.Split(s[open+1:len(s)-1], ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, true
}

// channel parses an rgb component: 0-255 or a percentage.
func channel(s string) (float64, bool) {
	if strings.HasSuffix(s, "%") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0, false
		}
		return clamp01(f / 100), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return clamp01(f / 255), true
}

// unit parses an alpha, saturation or lightness: a fraction or a percentage.
func unit(s string, percentOnly bool) (float64, bool) {
	if strings.HasSuffix(s, "%") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0, false
		}
		return clamp01(f / 100), true
	}
	if percentOnly {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return clamp01(f), true
}

func parseRGBFunc(s string) (rgba, bool) {
	args, ok := funcArgs(s)
	if !ok {
		return rgba{}, false
	}
	withAlpha := strings.HasPrefix(s, "rgba(")
	if (withAlpha && len(args) != 4) || (!withAlpha && len(args) != 3) {
		return rgba{}, false
	}

	var ch [3]float64
	for i := 0; i < 3; i++ {
		v, ok := channel(args[i])
		if !ok {
			return rgba{}, false
		}
		ch[i] = v
	}
	alpha := 1.0
	if withAlpha {
		if alpha, ok = unit(args[3], false); !ok {
			return rgba{}, false
		}
	}
	return rgba{c: colorful.Color{R: ch[0], G: ch[1], B: ch[2]}, alpha: alpha}, true
}

func parseHSLFunc(s string) (rgba, bool) {
	args, ok := funcArgs(s)
	if !ok {
		return rgba{}, false
	}
	withAlpha := strings.HasPrefix(s, "hsla(")
	if (withAlpha && len(args) != 4) || (!withAlpha && len(args) != 3) {
		return rgba{}, false
	}

	h, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "deg"), 64)
	if err != nil {
		return rgba{}, false
	}
	h = math.Mod(math.Mod(h, 360)+360, 360)
	sat, ok := unit(args[1], true)
	if !ok {
		return rgba{}, false
	}
	light, ok := unit(args[2], true)
	if !ok {
		return rgba{}, false
	}
	alpha := 1.0
	if withAlpha {
		if alpha, ok = unit(args[3], false); !ok {
			return rgba{}, false
		}
	}
	return rgba{c: colorful.Hsl(h, sat, light).Clamped(), alpha: alpha}, true
}

func clamp01(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}

func formatColor(col rgba) string {
	hex := col.c.Clamped().Hex()
	if col.alpha >= 1 {
		return hex
	}
	return hex + fmt.Sprintf("%02x", uint8(math.Round(col.alpha*255)))
}
