package lineedit

import "unicode/utf8"

// Keycode is a 32-bit value combining a base code (a Unicode code point, a
// virtual key, or an asynchronous event) with modifier bits in the top
// nibble. The encoding is bit-exact with the key-spec grammar in keyspec.go
// so that parsing and formatting round-trip.
type Keycode uint32

// Modifier masks occupy the top four bits.
const (
	ModShift Keycode = 0x10000000
	ModAlt   Keycode = 0x20000000
	ModCtrl  Keycode = 0x40000000
	modMask  Keycode = 0xF0000000
	codeMask Keycode = 0x0FFFFFFF
)

// Mods returns the modifier bits of k.
func (k Keycode) Mods() Keycode { return k & modMask }

// Base returns k with any modifier bits stripped.
func (k Keycode) Base() Keycode { return k & codeMask }

// WithMods returns k with the given modifier bits added.
func (k Keycode) WithMods(m Keycode) Keycode { return k | (m & modMask) }

// Basic control characters, compressed per the legacy readline convention:
// bytes 1..26 are emitted as KeyCtrlA..KeyCtrlZ without the ModCtrl bit set.
// Code that renders key names must treat these as implicitly Ctrl-modified.
const (
	KeyCtrlA Keycode = 1
	KeyCtrlB Keycode = 2
	KeyCtrlC Keycode = 3
	KeyCtrlD Keycode = 4
	KeyCtrlE Keycode = 5
	KeyCtrlF Keycode = 6
	KeyBell  Keycode = 7
	KeyCtrlH Keycode = 8
	KeyTab   Keycode = 9
	KeyLF    Keycode = 10
	KeyCtrlK Keycode = 11
	KeyCtrlL Keycode = 12
	KeyEnter Keycode = 13
	KeyCtrlN Keycode = 14
	KeyCtrlO Keycode = 15
	KeyCtrlP Keycode = 16
	KeyCtrlQ Keycode = 17
	KeyCtrlR Keycode = 18
	KeyCtrlS Keycode = 19
	KeyCtrlT Keycode = 20
	KeyCtrlU Keycode = 21
	KeyCtrlV Keycode = 22
	KeyCtrlW Keycode = 23
	KeyCtrlX Keycode = 24
	KeyCtrlY Keycode = 25
	KeyCtrlZ Keycode = 26
	KeyEsc   Keycode = 27
	KeySpace Keycode = 32
	KeyDEL   Keycode = 127
)

// Virtual keys occupy a reserved namespace starting at 0x01000000, matching
// spec.md §4.1.
const (
	virtBase    Keycode = 0x01000000
	KeyUp       Keycode = virtBase + 0
	KeyDown     Keycode = virtBase + 1
	KeyLeft     Keycode = virtBase + 2
	KeyRight    Keycode = virtBase + 3
	KeyHome     Keycode = virtBase + 4
	KeyEnd      Keycode = virtBase + 5
	KeyDelete   Keycode = virtBase + 6
	KeyPageUp   Keycode = virtBase + 7
	KeyPageDown Keycode = virtBase + 8
	KeyInsert   Keycode = virtBase + 9
	KeyF1       Keycode = virtBase + 11
	KeyF2       Keycode = virtBase + 12
	KeyF3       Keycode = virtBase + 13
	KeyF4       Keycode = virtBase + 14
	KeyF5       Keycode = virtBase + 15
	KeyF6       Keycode = virtBase + 16
	KeyF7       Keycode = virtBase + 17
	KeyF8       Keycode = virtBase + 18
	KeyF9       Keycode = virtBase + 19
	KeyF10      Keycode = virtBase + 20
	KeyF11      Keycode = virtBase + 21
	KeyF12      Keycode = virtBase + 22
)

// KeyF returns the virtual key for function key n (1..24).
func KeyF(n int) Keycode { return KeyF1 + Keycode(n-1) }

// Asynchronous events occupy a reserved namespace starting at 0x02000000.
const (
	eventBase   Keycode = 0x02000000
	EventResize Keycode = eventBase + 1
	EventAutoTab Keycode = eventBase + 2
	EventStop   Keycode = eventBase + 3
)

// keyUnknown marks an unrecognized escape sequence (a CSI/SS3 sequence that
// matched no known entry). keyIncomplete mirrors utf8.RuneError and tells the
// lexer that more bytes are needed before a decision can be made.
const (
	keyUnknown    Keycode = virtBase + 0x0F00
	keyIncomplete Keycode = Keycode(utf8.RuneError)
)

// isCompressedCtrl reports whether k is one of the legacy Ctrl-A..Ctrl-Z
// compressed codes (1..26). The range includes Tab (9), LF (10) and Enter
// (13); callers that give those their named identities exclude them.
func isCompressedCtrl(k Keycode) bool {
	return k >= 1 && k <= 26
}
