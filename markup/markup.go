// Package markup implements the bracket-tag markup spec.md §6 documents as
// an external collaborator: tags with color/bgcolor/bold/italic/underline/
// reverse attributes, named (and user-defined) styles, and CSS/HTML/ANSI
// color syntax, resolved against a terminal's detected ColorDepth.
//
// Grounded on original_source/src/isocline_print.c's bbcode_print family and
// the attribute grammar documented in original_source/include/isocline.h's
// "Formatted Text" group; expressed here as a small, explicit recursive
// tokenizer rather than a ported bbcode_t struct.
package markup

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// attr is one fully-resolved set of text attributes: a style is just a named
// attr, and a tag's body is an overlay of one or more attrs/attr-deltas atop
// whatever was on the stack before it opened.
type attr struct {
	fg, bg               color
	bold, italic         bool
	underline, reverse   bool
}

// Resolver owns the named-style table (built-ins plus anything registered
// via StyleDef) and the active ColorDepth tags are rendered against.
type Resolver struct {
	depth  ColorDepth
	styles map[string]string // name -> raw tag body, resolved lazily on use
}

// NewResolver returns a Resolver seeded with isocline's built-in style
// names (b/i/u/r for bold/italic/underline/reverse, plus a few semantic
// aliases) at the given ColorDepth.
func NewResolver(depth ColorDepth) *Resolver {
	r := &Resolver{depth: depth, styles: map[string]string{}}
	for name, body := range builtinStyles {
		r.styles[name] = body
	}
	return r
}

var builtinStyles = map[string]string{
	"b":       "bold",
	"i":       "italic",
	"u":       "underline",
	"r":       "reverse",
	"em":      "italic",
	"strong":  "bold",
	"dim":     "color=gray",
	"warning": "color=yellow bold",
	"error":   "color=red bold",
	"ok":      "color=green",
}

// StyleDef defines or redefines a named style (spec.md §6
// "style_def(name, body)"). body is itself a tag body, resolved the same way
// an inline tag's attributes are, so a style can reference other styles.
func (r *Resolver) StyleDef(name, body string) {
	r.styles[name] = body
}

// SetColorDepth changes the palette depth subsequent Sprint calls render
// against.
func (r *Resolver) SetColorDepth(depth ColorDepth) { r.depth = depth }

// Sprint expands bracket-tag markup into a string with embedded ANSI escape
// sequences, ready to write directly to a terminal (spec.md §6 "Exact
// markup is reproduced bit-for-bit by the renderer"). Any tags left open at
// the end of s are auto-closed (spec.md §6 "Unclosed tags auto-close at end
// of a print call").
func (r *Resolver) Sprint(s string) string {
	var b strings.Builder
	stack := []attr{{}}
	i := 0
	for i < len(s) {
		open := strings.IndexByte(s[i:], '[')
		if open < 0 {
			b.WriteString(s[i:])
			break
		}
		b.WriteString(s[i : i+open])
		i += open
		close := strings.IndexByte(s[i:], ']')
		if close < 0 {
			b.WriteString(s[i:])
			break
		}
		tag := s[i+1 : i+close]
		i += close + 1

		cur := stack[len(stack)-1]
		if strings.HasPrefix(tag, "/") {
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
			b.WriteString(resetEscape())
			b.WriteString(stack[len(stack)-1].escape(r.depth))
			continue
		}
		next := r.applyTag(cur, tag)
		stack = append(stack, next)
		b.WriteString(next.escape(r.depth))
	}
	if len(stack) > 1 {
		b.WriteString(resetEscape())
	}
	return b.String()
}

// applyTag resolves one tag body (possibly a named style, possibly raw
// attributes, possibly both space-separated) into a new attr layered on
// top of base. Named styles may reference other named styles; seen guards
// against a style_def cycle expanding forever.
func (r *Resolver) applyTag(base attr, body string) attr {
	return r.applyTokens(base, strings.Fields(body), map[string]bool{})
}

func (r *Resolver) applyTokens(cur attr, toks []string, seen map[string]bool) attr {
	for _, tok := range toks {
		lower := strings.ToLower(tok)
		if styleBody, ok := r.styles[lower]; ok && !strings.Contains(tok, "=") && !seen[lower] {
			seen[lower] = true
			cur = r.applyTokens(cur, strings.Fields(styleBody), seen)
			continue
		}
		cur = applyToken(cur, tok)
	}
	return cur
}

func applyToken(cur attr, tok string) attr {
	name, value, hasValue := strings.Cut(tok, "=")
	name = strings.ToLower(name)
	on := !hasValue || strings.ToLower(value) != "off"

	switch name {
	case "color":
		if hasValue {
			if c, ok := parseColor(value); ok {
				cur.fg = c
			}
		}
	case "bgcolor":
		if hasValue {
			if c, ok := parseColor(value); ok {
				cur.bg = c
			}
		}
	case "bold":
		cur.bold = on
	case "italic":
		cur.italic = on
	case "underline":
		cur.underline = on
	case "reverse":
		cur.reverse = on
	case "on":
		// "on=red" shorthand for bgcolor=red.
		if c, ok := parseColor(value); ok {
			cur.bg = c
		}
	default:
		// Bare color/style name used directly, e.g. "[red]" or "[ansi-blue]".
		if c, ok := parseColor(name); ok {
			cur.fg = c
		}
	}
	return cur
}

func resetEscape() string { return "\x1b[0m" }

func (a attr) escape(depth ColorDepth) string {
	var b strings.Builder
	b.WriteString(resetEscape())
	if depth == Monochrome {
		return b.String()
	}
	if a.bold {
		b.WriteString("\x1b[1m")
	}
	if a.italic {
		b.WriteString("\x1b[3m")
	}
	if a.underline {
		b.WriteString("\x1b[4m")
	}
	if a.reverse {
		b.WriteString("\x1b[7m")
	}
	b.WriteString(a.fg.fgEscape(depth))
	b.WriteString(a.bg.bgEscape(depth))
	return b.String()
}

// Strip removes all bracket tags from s, leaving the plain text they would
// render (used by Width, and available to callers needing the unstyled
// content of a markup string).
func Strip(s string) string {
	var b strings.Builder
	i := 0
	for i < len(s) {
		open := strings.IndexByte(s[i:], '[')
		if open < 0 {
			b.WriteString(s[i:])
			break
		}
		b.WriteString(s[i : i+open])
		i += open
		close := strings.IndexByte(s[i:], ']')
		if close < 0 {
			b.WriteString(s[i:])
			break
		}
		i += close + 1
	}
	return b.String()
}

// Width returns the visual column width of s with tags stripped, using
// go-runewidth the same way the renderer measures plain text. Computing
// this correctly (rather than falling back to a fixed constant when a tag
// parse fails) is the fix for spec.md §9's "Open question" about the
// historical width-10 fallback: a well-formed Strip+StringWidth pipeline
// never needs a fallback. For malformed markup, it still strips every
// recognizable tag before measuring rather than returning a placeholder
// width.
func Width(s string) int {
	return runewidth.StringWidth(Strip(s))
}

