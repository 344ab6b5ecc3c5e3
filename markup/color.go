package markup

import (
	"fmt"
	"strconv"
	"strings"
)

// ColorDepth selects how many colors the terminal can render, downsampling
// requested colors to the nearest one it supports (spec.md §6
// "COLORTERM selects palette depth among monochrome / 8color / 16color /
// 256color / truecolor").
type ColorDepth int

const (
	Monochrome ColorDepth = iota
	Color8
	Color16
	Color256
	TrueColor
)

// DetectColorDepth reads COLORTERM (and falls back to TERM) the way the
// environment row of spec.md §6 describes, returning Color16 if neither env
// var names a recognized depth.
func DetectColorDepth(colortermEnv, termEnv string) ColorDepth {
	switch strings.ToLower(colortermEnv) {
	case "monochrome":
		return Monochrome
	case "8color":
		return Color8
	case "16color":
		return Color16
	case "256color":
		return Color256
	case "truecolor", "24bit":
		return TrueColor
	}
	if termEnv == "dumb" {
		return Monochrome
	}
	if strings.Contains(termEnv, "256color") {
		return Color256
	}
	return Color16
}

// color is a resolved RGB triple plus "unset" tracking, resolved down to
// whatever escape sequence the active ColorDepth can express.
type color struct {
	r, g, b uint8
	set     bool
}

func (c color) fgEscape(depth ColorDepth) string {
	return c.escape(depth, true)
}

func (c color) bgEscape(depth ColorDepth) string {
	return c.escape(depth, false)
}

func (c color) escape(depth ColorDepth, fg bool) string {
	if !c.set || depth == Monochrome {
		return ""
	}
	switch depth {
	case TrueColor:
		if fg {
			return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", c.r, c.g, c.b)
		}
		return fmt.Sprintf("\x1b[48;2;%d;%d;%dm", c.r, c.g, c.b)
	case Color256:
		idx := rgbTo256(c.r, c.g, c.b)
		if fg {
			return fmt.Sprintf("\x1b[38;5;%dm", idx)
		}
		return fmt.Sprintf("\x1b[48;5;%dm", idx)
	case Color16:
		idx, bright := rgbTo16(c.r, c.g, c.b)
		base := 30
		if !fg {
			base = 40
		}
		if bright {
			base += 60
		}
		return fmt.Sprintf("\x1b[%dm", base+idx)
	default: // Color8
		idx, _ := rgbTo16(c.r, c.g, c.b)
		base := 30
		if !fg {
			base = 40
		}
		return fmt.Sprintf("\x1b[%dm", base+idx)
	}
}

// rgbTo256 maps an RGB triple to the nearest xterm 256-color palette index
// using the standard 6x6x6 color cube (indices 16-231).
func rgbTo256(r, g, b uint8) int {
	toCube := func(v uint8) int {
		if v < 48 {
			return 0
		}
		if v < 115 {
			return 1
		}
		return int((v - 35) / 40)
	}
	rc, gc, bc := toCube(r), toCube(g), toCube(b)
	return 16 + 36*rc + 6*gc + bc
}

// rgbTo16 picks the nearest of the 8 ANSI base colors plus a bright flag,
// by nearest Euclidean distance against the standard ANSI palette.
func rgbTo16(r, g, b uint8) (idx int, bright bool) {
	type entry struct {
		idx            int
		bright         bool
		r, g, b        uint8
	}
	palette := []entry{
		{0, false, 0, 0, 0}, {1, false, 170, 0, 0}, {2, false, 0, 170, 0}, {3, false, 170, 85, 0},
		{4, false, 0, 0, 170}, {5, false, 170, 0, 170}, {6, false, 0, 170, 170}, {7, false, 170, 170, 170},
		{0, true, 85, 85, 85}, {1, true, 255, 85, 85}, {2, true, 85, 255, 85}, {3, true, 255, 255, 85},
		{4, true, 85, 85, 255}, {5, true, 255, 85, 255}, {6, true, 85, 255, 255}, {7, true, 255, 255, 255},
	}
	best, bestDist := palette[0], int(1<<30)
	for _, e := range palette {
		dr, dg, db := int(r)-int(e.r), int(g)-int(e.g), int(b)-int(e.b)
		dist := dr*dr + dg*dg + db*db
		if dist < bestDist {
			best, bestDist = e, dist
		}
	}
	return best.idx, best.bright
}

// parseColor resolves a color= or bgcolor= value: CSS hex (#RGB/#RRGGBB), an
// HTML color name, or an ansi-* palette name (spec.md §6 "Markup").
func parseColor(s string) (color, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return color{}, false
	}
	if strings.HasPrefix(s, "#") {
		return parseHexColor(s[1:])
	}
	if strings.HasPrefix(strings.ToLower(s), "ansi-") {
		return parseAnsiName(strings.ToLower(s[len("ansi-"):]))
	}
	if rgb, ok := htmlColorNames[strings.ToLower(s)]; ok {
		return rgb, true
	}
	return color{}, false
}

func parseHexColor(hex string) (color, bool) {
	expand := func(c byte) (byte, bool) {
		v, err := strconv.ParseUint(string(c)+string(c), 16, 8)
		if err != nil {
			return 0, false
		}
		return byte(v), true
	}
	switch len(hex) {
	case 3:
		r, ok1 := expand(hex[0])
		g, ok2 := expand(hex[1])
		b, ok3 := expand(hex[2])
		if !ok1 || !ok2 || !ok3 {
			return color{}, false
		}
		return color{r, g, b, true}, true
	case 6:
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color{}, false
		}
		return color{byte(v >> 16), byte(v >> 8), byte(v), true}, true
	default:
		return color{}, false
	}
}

func parseAnsiName(name string) (color, bool) {
	rgb, ok := ansiNames[name]
	return rgb, ok
}

var ansiNames = map[string]color{
	"black":   {0, 0, 0, true},
	"maroon":  {170, 0, 0, true},
	"green":   {0, 170, 0, true},
	"olive":   {170, 85, 0, true},
	"navy":    {0, 0, 170, true},
	"purple":  {170, 0, 170, true},
	"teal":    {0, 170, 170, true},
	"silver":  {170, 170, 170, true},
	"gray":    {85, 85, 85, true},
	"red":     {255, 85, 85, true},
	"lime":    {85, 255, 85, true},
	"yellow":  {255, 255, 85, true},
	"blue":    {85, 85, 255, true},
	"fuchsia": {255, 85, 255, true},
	"aqua":    {85, 255, 255, true},
	"white":   {255, 255, 255, true},
	"default": {},
}

var htmlColorNames = map[string]color{
	"black":                {0, 0, 0, true},
	"white":                {255, 255, 255, true},
	"red":                  {255, 0, 0, true},
	"green":                {0, 128, 0, true},
	"blue":                 {0, 0, 255, true},
	"yellow":               {255, 255, 0, true},
	"orange":               {255, 165, 0, true},
	"purple":               {128, 0, 128, true},
	"gray":                 {128, 128, 128, true},
	"grey":                 {128, 128, 128, true},
	"silver":               {192, 192, 192, true},
	"maroon":               {128, 0, 0, true},
	"olive":                {128, 128, 0, true},
	"lime":                 {0, 255, 0, true},
	"aqua":                 {0, 255, 255, true},
	"cyan":                 {0, 255, 255, true},
	"teal":                 {0, 128, 128, true},
	"navy":                 {0, 0, 128, true},
	"fuchsia":              {255, 0, 255, true},
	"magenta":              {255, 0, 255, true},
	"pink":                 {255, 192, 203, true},
	"brown":                {165, 42, 42, true},
	"gold":                 {255, 215, 0, true},
	"indigo":               {75, 0, 130, true},
	"violet":               {238, 130, 238, true},
	"coral":                {255, 127, 80, true},
	"salmon":               {250, 128, 114, true},
	"khaki":                {240, 230, 140, true},
	"crimson":              {220, 20, 60, true},
	"chocolate":            {210, 105, 30, true},
	"darkgreen":            {0, 100, 0, true},
	"darkblue":             {0, 0, 139, true},
	"darkred":              {139, 0, 0, true},
	"lightblue":            {173, 216, 230, true},
	"lightgreen":           {144, 238, 144, true},
	"lightgray":            {211, 211, 211, true},
	"lightgrey":            {211, 211, 211, true},
}
