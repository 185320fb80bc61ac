package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ToFloat64 converts the numeric types produced by Go code, JSON and YAML
// decoding to float64.
func ToFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	default:
		return 0, false
	}
}

// IsIntegral reports whether v is a number with no fractional part.
func IsIntegral(v any) bool {
	f, ok := ToFloat64(v)
	if !ok {
		return false
	}
	return !math.IsInf(f, 0) && f == math.Trunc(f)
}

// namedColors holds the CSS color keywords accepted besides hex and rgb forms.
var namedColors = map[string]string{
	"black":   "#000000",
	"white":   "#ffffff",
	"red":     "#ff0000",
	"green":   "#008000",
	"blue":    "#0000ff",
	"yellow":  "#ffff00",
	"orange":  "#ffa500",
	"purple":  "#800080",
	"gray":    "#808080",
	"grey":    "#808080",
	"silver":  "#c0c0c0",
	"navy":    "#000080",
	"teal":    "#008080",
	"maroon":  "#800000",
	"olive":   "#808000",
	"lime":    "#00ff00",
	"aqua":    "#00ffff",
	"cyan":    "#00ffff",
	"fuchsia": "#ff00ff",
	"magenta": "#ff00ff",
}

// ParseColor parses a CSS-style color: #rgb, #rrggbb, rgb(), rgba(),
// a named color or "transparent". It returns the color and its alpha.
func ParseColor(s string) (colorful.Color, float64, error) {
	str := strings.ToLower(strings.TrimSpace(s))
	if str == "" {
		return colorful.Color{}, 0, fmt.Errorf("empty color")
	}
	if str == "transparent" {
		return colorful.Color{}, 0, nil
	}
	if hex, ok := namedColors[str]; ok {
		str = hex
	}

	if strings.HasPrefix(str, "#") {
		c, err := colorful.Hex(str)
		if err != nil {
			return colorful.Color{}, 0, fmt.Errorf("invalid hex color %q", s)
		}
		return c, 1, nil
	}

	var ch []float64
	var err error
	a := 1.0
	switch {
	case strings.HasPrefix(str, "rgba("):
		if ch, err = colorArgs(str, "rgba(", 4); err != nil {
			return colorful.Color{}, 0, fmt.Errorf("invalid rgba color %q: %w", s, err)
		}
		a = ch[3]
	case strings.HasPrefix(str, "rgb("):
		if ch, err = colorArgs(str, "rgb(", 3); err != nil {
			return colorful.Color{}, 0, fmt.Errorf("invalid rgb color %q: %w", s, err)
		}
	default:
		return colorful.Color{}, 0, fmt.Errorf("unrecognized color %q", s)
	}
	r, g, b := ch[0], ch[1], ch[2]

	for _, v := range []float64{r, g, b} {
		if v < 0 || v > 255 {
			return colorful.Color{}, 0, fmt.Errorf("color channel out of range in %q", s)
		}
	}
	if a < 0 || a > 1 {
		return colorful.Color{}, 0, fmt.Errorf("alpha out of range in %q", s)
	}
	return colorful.Color{R: r / 255, G: g / 255, B: b / 255}, a, nil
}

// colorArgs parses the n comma-separated decimal arguments of a functional
// color such as "rgb(1, 2, 3)". Nothing may follow the closing paren.
func colorArgs(str, prefix string, n int) ([]float64, error) {
	if !strings.HasSuffix(str, ")") {
		return nil, fmt.Errorf("missing closing paren")
	}
	parts := strings.Split(str[len(prefix):len(str)-1], ",")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d arguments, got %d", n, len(parts))
	}

	out := make([]float64, n)
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" || strings.Trim(part, "0123456789.+-e") != "" {
			return nil, fmt.Errorf("argument %d is not a number", i+1)
		}
		f, err := strconv.ParseFloat(part, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("argument %d is not a finite number", i+1)
		}
		out[i] = f
	}
	return out, nil
}

// IsColor reports whether v is a string ParseColor accepts.
func IsColor(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	_, _, err := ParseColor(s)
	return err == nil
}

// CloneValue returns a deep copy of a default value. Callers handing a
// default to user code use it so shared schemas stay unchanged.
func CloneValue(v any) any {
	return cloneValue(v)
}
