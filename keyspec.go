package lineedit

import (
	"fmt"
	"strings"
)

// namedBases maps the grammar's named base tokens (spec.md §4.2) to
// keycodes. "newline" is an alias for KeyLF.
var namedBases = map[string]Keycode{
	"tab":       KeyTab,
	"enter":     KeyEnter,
	"backspace": KeyDEL,
	"delete":    KeyDelete,
	"del":       KeyDelete,
	"esc":       KeyEsc,
	"escape":    KeyEsc,
	"space":     KeySpace,
	"up":        KeyUp,
	"down":      KeyDown,
	"left":      KeyLeft,
	"right":     KeyRight,
	"home":      KeyHome,
	"end":       KeyEnd,
	"pageup":    KeyPageUp,
	"pagedown":  KeyPageDown,
	"insert":    KeyInsert,
	"ins":       KeyInsert,
	"newline":   KeyLF,
	"linefeed":  KeyLF,
	"<":         '<',
	">":         '>',
}

func init() {
	for i := 1; i <= 24; i++ {
		namedBases[fmt.Sprintf("f%d", i)] = KeyF(i)
	}
}

// reverseNamedBase returns the canonical name for a base keycode, if any.
func reverseNamedBase(k Keycode) (string, bool) {
	switch k {
	case KeyTab:
		return "tab", true
	case KeyEnter:
		return "enter", true
	case KeyDEL:
		return "backspace", true
	case KeyDelete:
		return "delete", true
	case KeyEsc:
		return "esc", true
	case KeySpace:
		return "space", true
	case KeyUp:
		return "up", true
	case KeyDown:
		return "down", true
	case KeyLeft:
		return "left", true
	case KeyRight:
		return "right", true
	case KeyHome:
		return "home", true
	case KeyEnd:
		return "end", true
	case KeyPageUp:
		return "pageup", true
	case KeyPageDown:
		return "pagedown", true
	case KeyInsert:
		return "insert", true
	}
	for i := 1; i <= 24; i++ {
		if k == KeyF(i) {
			return fmt.Sprintf("f%d", i), true
		}
	}
	return "", false
}

// ParseKeySpec parses a single human-readable key specification such as
// "ctrl+left", "alt+b", or "Control-w" into a Keycode, per the grammar in
// spec.md §4.2. `+` and `-` are both accepted as separators.
func ParseKeySpec(spec string) (Keycode, error) {
	orig := spec
	var mods Keycode
	var haveBase bool
	var base Keycode

	tokens := splitKeySpec(spec)
	if len(tokens) == 0 {
		return 0, fmt.Errorf("lineedit: empty key spec %q", orig)
	}

	for i, tok := range tokens {
		last := i == len(tokens)-1
		lower := strings.ToLower(tok)
		mod := lower
		if last && len(lower) == 1 {
			// A one-character final token is the base, so "ctrl+c" and
			// "alt+s" name letters rather than the c/s modifier aliases.
			mod = ""
		}
		switch mod {
		case "ctrl", "control", "c":
			mods |= ModCtrl
			continue
		case "alt", "meta", "option":
			mods |= ModAlt
			continue
		case "shift", "s":
			mods |= ModShift
			continue
		}
		if !last {
			return 0, fmt.Errorf("lineedit: unknown modifier %q in key spec %q", tok, orig)
		}
		if haveBase {
			return 0, fmt.Errorf("lineedit: multiple base tokens in key spec %q", orig)
		}
		if nb, ok := namedBases[lower]; ok {
			base = nb
			haveBase = true
			continue
		}
		runes := []rune(tok)
		if len(runes) != 1 {
			return 0, fmt.Errorf("lineedit: unknown key token %q in key spec %q", tok, orig)
		}
		base = Keycode(runes[0])
		haveBase = true
	}

	if !haveBase {
		return 0, fmt.Errorf("lineedit: key spec %q has no base token", orig)
	}

	// Ctrl + <ascii letter> collapses to the legacy compressed code, not the
	// generic Ctrl modifier bit (spec.md §4.2).
	if (mods & ModCtrl) != 0 {
		if base >= 'a' && base <= 'z' {
			base = base - 'a' + 1
			mods &^= ModCtrl
		} else if base >= 'A' && base <= 'Z' {
			base = base - 'A' + 1
			mods &^= ModCtrl
		} else if base == '_' || base == '?' {
			// ctrl+_ => 0x1f (unit separator), used for undo.
			base = 0x1f
			mods &^= ModCtrl
		}
	}

	return base | mods, nil
}

// splitKeySpec tokenizes a key spec on '+' and '-', without splitting a
// lone "-" base (e.g. "ctrl+-") or the "<"/">" bases.
func splitKeySpec(spec string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	runes := []rune(spec)
	for i, r := range runes {
		if (r == '+' || r == '-') && cur.Len() > 0 {
			// Don't split a trailing separator that is itself the base
			// (e.g. "ctrl+-" meaning Ctrl + hyphen) when it's the last rune.
			if i == len(runes)-1 {
				cur.WriteRune(r)
				continue
			}
			flush()
			continue
		}
		cur.WriteRune(r)
	}
	flush()
	return tokens
}

// ParseKeySpecList parses a `|`-separated list of key specs, as used by
// profile spec strings (spec.md §3 "Key binding profile").
func ParseKeySpecList(specs string) ([]Keycode, error) {
	var keys []Keycode
	for _, s := range strings.Split(specs, "|") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		k, err := ParseKeySpec(s)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// FormatKeySpec renders k back to its canonical "ctrl+alt+shift+base" form.
// Implicitly-Ctrl compressed codes (1..26, other than Tab, LF and Enter) and
// the 0x1f code that ctrl+_ parses to have their "ctrl+" prefix restored. A
// keycode with no modifiers and no recognizable base renders as
// "none".
func FormatKeySpec(k Keycode) string {
	mods := k.Mods()
	base := k.Base()

	var impliedCtrl bool
	if isCompressedCtrl(base) && base != KeyTab && base != KeyEnter && base != KeyLF {
		impliedCtrl = true
	}

	var parts []string
	if (mods&ModCtrl) != 0 || impliedCtrl || base == 0x1f {
		parts = append(parts, "ctrl")
	}
	if (mods & ModAlt) != 0 {
		parts = append(parts, "alt")
	}
	if (mods & ModShift) != 0 {
		parts = append(parts, "shift")
	}

	var baseStr string
	switch {
	case impliedCtrl:
		baseStr = string(rune(base - 1 + 'a'))
	case base == 0x1f:
		baseStr = "_"
	default:
		if name, ok := reverseNamedBase(base); ok {
			baseStr = name
		} else if base > 0 {
			baseStr = string(rune(base))
		}
	}

	if len(parts) == 0 && baseStr == "" {
		return "none"
	}
	parts = append(parts, baseStr)
	return strings.Join(parts, "+")
}
