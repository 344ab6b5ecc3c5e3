package lineedit

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/google/btree"
)

// Candidate is a single completion entry (spec.md §3 "Completion
// candidate"). DeleteBefore/DeleteAfter describe how much of the buffer
// around the cursor the Replacement will consume when accepted.
type Candidate struct {
	Replacement  string
	Display      string
	Help         string
	Source       string
	DeleteBefore int
	DeleteAfter  int
}

func (c Candidate) display() string {
	if c.Display != "" {
		return c.Display
	}
	return c.Replacement
}

// Less orders candidates for the btree used to dedup/sort the collected
// set, by display text then replacement. It implements btree.Item.
func (c Candidate) Less(other btree.Item) bool {
	o := other.(Candidate)
	if c.display() != o.display() {
		return c.display() < o.display()
	}
	return c.Replacement < o.Replacement
}

const defaultCandidateCap = 1000

// CompletionContext is the mutable collection context passed to a
// Completer: the full input, the cursor byte offset, and a
// transformer-supplied prefix (spec.md §4.6 "Collection").
type CompletionContext struct {
	Input  string
	Cursor int
	Prefix string

	limit   int
	results *btree.BTree
	stopped bool
}

func newCompletionContext(input string, cursor int, prefix string, limit int) *CompletionContext {
	return &CompletionContext{Input: input, Cursor: cursor, Prefix: prefix, limit: limit, results: btree.New(8)}
}

// Stopped reports whether the engine already has enough candidates, letting
// an expensive callback short-circuit (spec.md "exposes stop? to let
// callbacks check already enough").
func (c *CompletionContext) Stopped() bool { return c.stopped }

// AddPrim is the primitive candidate API: the caller specifies delete_before
// and delete_after explicitly. Returns false once the collector has had
// enough (the callback should stop generating candidates).
func (c *CompletionContext) AddPrim(replacement, display, help, source string, deleteBefore, deleteAfter int) bool {
	if c.stopped {
		return false
	}
	c.results.ReplaceOrInsert(Candidate{
		Replacement: replacement, Display: display, Help: help, Source: source,
		DeleteBefore: deleteBefore, DeleteAfter: deleteAfter,
	})
	if c.results.Len() >= c.limit {
		c.stopped = true
	}
	return !c.stopped
}

// Add is AddPrim with delete_before set to len(Prefix) and delete_after 0 —
// the common case for the word/quoted-word transformers.
func (c *CompletionContext) Add(replacement string) bool {
	return c.AddPrim(replacement, "", "", "", len(c.Prefix), 0)
}

// AddWithHelp is Add plus a help string shown in the menu.
func (c *CompletionContext) AddWithHelp(replacement, help string) bool {
	return c.AddPrim(replacement, "", help, "", len(c.Prefix), 0)
}

func (c *CompletionContext) candidates() []Candidate {
	out := make([]Candidate, 0, c.results.Len())
	c.results.Ascend(func(it btree.Item) bool {
		out = append(out, it.(Candidate))
		return true
	})
	return out
}

// Completer collects candidates into ctx for the word currently at the
// cursor.
type Completer func(ctx *CompletionContext)

// isSeparatorByte is isSeparatorRune's byte-oriented twin (buffer.go), used
// by the word transformer's backward scan over raw input bytes. Separator
// characters are all single-byte ASCII, so treating each byte as its own
// rune gives the same answer as decoding: a UTF-8 continuation or lead byte
// (>= 0x80) never matches a separator and counts as a word char, same as
// buffer navigation's isWordRune.
func isSeparatorByte(b byte) bool {
	return isSeparatorRune(rune(b))
}

// WordTransformer locates the word around the cursor using isSeparatorByte,
// invokes completer with the unescaped word as Prefix, and leaves
// DeleteBefore set to the word's length (spec.md §4.6 "Word transformer").
func WordTransformer(completer Completer) Completer {
	return func(ctx *CompletionContext) {
		start := ctx.Cursor
		for start > 0 && !isSeparatorByte(ctx.Input[start-1]) {
			start--
		}
		ctx.Prefix = ctx.Input[start:ctx.Cursor]
		completer(ctx)
	}
}

// QuotedWordTransformer is WordTransformer plus quote/escape awareness: the
// prefix passed to completer is unquoted/unescaped, and candidates inside a
// quote have that quote character escaped on insertion. The opening quote
// is not part of delete_before and stays in the buffer; candidates are not
// wrapped in quotes. delete_after is 1 when the matching quote character
// sits directly after the cursor, so accepting removes it.
func QuotedWordTransformer(quoteChars, escapeChars string, completer Completer) Completer {
	return func(ctx *CompletionContext) {
		input := ctx.Input[:ctx.Cursor]
		start := len(input)
		quote := byte(0)
		for start > 0 {
			c := input[start-1]
			if start >= 2 && strings.IndexByte(escapeChars, input[start-2]) >= 0 {
				start -= 2
				continue
			}
			if strings.IndexByte(quoteChars, c) >= 0 {
				quote = c
				break
			}
			if isSeparatorByte(c) {
				break
			}
			start--
		}

		raw := ctx.Input[start:ctx.Cursor]
		var unescaped strings.Builder
		for i := 0; i < len(raw); i++ {
			if strings.IndexByte(escapeChars, raw[i]) >= 0 && i+1 < len(raw) {
				i++
			}
			unescaped.WriteByte(raw[i])
		}

		inner := newCompletionContext(ctx.Input, ctx.Cursor, unescaped.String(), ctx.limit)
		completer(inner)

		deleteBefore := ctx.Cursor - start
		deleteAfter := 0
		if quote != 0 && ctx.Cursor < len(ctx.Input) && ctx.Input[ctx.Cursor] == quote {
			deleteAfter = 1
		}

		for _, cand := range inner.candidates() {
			requoted := requote(cand.Replacement, quote, escapeChars)
			ctx.AddPrim(requoted, cand.Display, cand.Help, cand.Source, deleteBefore, deleteAfter)
		}
		ctx.stopped = ctx.stopped || inner.stopped
	}
}

func requote(s string, quote byte, escapeChars string) string {
	if quote == 0 {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == quote && len(escapeChars) > 0 {
			b.WriteByte(escapeChars[0])
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// FilenameTransformer walks roots for entries matching the quoted-word
// prefix, filtering by extension when exts is non-empty, and appends the
// OS path separator when a directory is completed (spec.md §4.6 "Filename
// transformer").
func FilenameTransformer(roots []string, exts []string) Completer {
	collect := func(ctx *CompletionContext) {
		dir, base := filepath.Split(ctx.Prefix)
		for _, root := range roots {
			searchDir := filepath.Join(root, dir)
			entries, err := os.ReadDir(searchDir)
			if err != nil {
				continue
			}
			for _, e := range entries {
				name := e.Name()
				if !strings.HasPrefix(name, base) {
					continue
				}
				if !e.IsDir() && len(exts) > 0 && !hasAnyExt(name, exts) {
					continue
				}
				repl := dir + name
				if e.IsDir() {
					repl += string(filepath.Separator)
				}
				if !ctx.Add(repl) {
					return
				}
			}
		}
	}
	return QuotedWordTransformer(`"'`, `\`, collect)
}

func hasAnyExt(name string, exts []string) bool {
	ext := filepath.Ext(name)
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// CompletionEngine drives collection, accept, menu state, auto-tab, and
// spell correction (spec.md §4.6).
type CompletionEngine struct {
	Completer       Completer
	AutoTab         bool
	PreviewEnabled  bool
	SpellCorrect    bool
	MenuSize        int

	menuOpen     bool
	candidates   []Candidate
	selected     int
	previewed    bool
	previewStart int
	previewLen   int
}

func NewCompletionEngine() *CompletionEngine {
	return &CompletionEngine{MenuSize: 100}
}

// Collect runs the completer (falling back to a spell-corrected retry if
// enabled and the first pass is empty) and returns up to limit candidates,
// sorted and deduplicated by the backing btree.
func (e *CompletionEngine) Collect(buf *Buffer, limit int) []Candidate {
	if e.Completer == nil {
		return nil
	}
	if limit <= 0 {
		limit = defaultCandidateCap
	}
	ctx := newCompletionContext(buf.String(), buf.Cursor(), "", limit)
	e.Completer(ctx)
	cands := ctx.candidates()
	if len(cands) == 0 && e.SpellCorrect {
		cands = e.collectWithSpellCorrection(buf, limit)
	}
	return cands
}

// collectWithSpellCorrection retries collection with every candidate the
// completer would otherwise expose, keeping only those within edit-distance
// 1 of the cursor's word (spec.md §4.6 "Spell correction"). Since a
// Completer only reports candidates matching its own prefix logic, the
// retry runs it on the input with the cursor's word removed, so the
// completer's transformer still finds *a* word boundary with an empty
// prefix, then filters by distance and widens each kept candidate's
// DeleteBefore to cover the removed word.
func (e *CompletionEngine) collectWithSpellCorrection(buf *Buffer, limit int) []Candidate {
	start := buf.Cursor()
	for start > 0 && !isSeparatorByte(buf.Text()[start-1]) {
		start--
	}
	word := string(buf.Text()[start:buf.Cursor()])
	if word == "" {
		return nil
	}

	text := buf.String()
	ctx := newCompletionContext(text[:start]+text[buf.Cursor():], start, "", limit*4)
	e.Completer(ctx)

	var out []Candidate
	for _, c := range ctx.candidates() {
		if levenshtein.ComputeDistance(word, c.display()) <= 1 {
			c.DeleteBefore += len(word)
			out = append(out, c)
			if len(out) >= limit {
				break
			}
		}
	}
	return out
}

// Probe collects at most two candidates, used for the inline hint and for
// auto-tab's uniqueness check (spec.md §4.6 "only up to 2 candidates are
// generated when probing for a hint").
func (e *CompletionEngine) Probe(buf *Buffer) []Candidate {
	return e.Collect(buf, 2)
}

// Accept deletes DeleteBefore bytes before and DeleteAfter bytes after the
// cursor, then inserts the replacement, as one coalesced edit (the caller
// is expected to have already captured an undo snapshot).
func (e *CompletionEngine) Accept(buf *Buffer, c Candidate) {
	start := buf.Cursor() - c.DeleteBefore
	end := buf.Cursor() + c.DeleteAfter
	buf.DeleteRange(start, end)
	buf.MoveTo(start)
	buf.Insert(c.Replacement)
	e.closeMenu()
}

// OpenMenu opens the candidate menu, beeping the caller's responsibility if
// zero, accepting immediately if exactly one (spec.md §4.6 "Menu"). It
// returns (candidate, true) when the menu auto-accepted a single match,
// else (Candidate{}, false) with the menu left open (or closed, if empty).
func (e *CompletionEngine) OpenMenu(buf *Buffer) (Candidate, bool) {
	cands := e.Collect(buf, defaultCandidateCap)
	switch len(cands) {
	case 0:
		e.closeMenu()
		return Candidate{}, false
	case 1:
		return cands[0], true
	default:
		sort.Slice(cands, func(i, j int) bool { return cands[i].display() < cands[j].display() })
		e.candidates = cands
		e.selected = 0
		e.menuOpen = true
		return Candidate{}, false
	}
}

// MenuOpen reports whether the candidate menu is currently displayed.
func (e *CompletionEngine) MenuOpen() bool { return e.menuOpen }

// MenuCandidates returns up to MenuSize candidates for display, and the
// currently selected index.
func (e *CompletionEngine) MenuCandidates() ([]Candidate, int) {
	cands := e.candidates
	if len(cands) > e.MenuSize {
		cands = cands[:e.MenuSize]
	}
	return cands, e.selected
}

// MenuNext/MenuPrev move the selection, wrapping.
func (e *CompletionEngine) MenuNext() {
	if len(e.candidates) == 0 {
		return
	}
	e.selected = (e.selected + 1) % len(e.candidates)
}

func (e *CompletionEngine) MenuPrev() {
	if len(e.candidates) == 0 {
		return
	}
	e.selected = (e.selected - 1 + len(e.candidates)) % len(e.candidates)
}

// MenuSelectDigit jumps to the n'th candidate (1-based), per the digit
// shortcuts in spec.md §4.6.
func (e *CompletionEngine) MenuSelectDigit(n int) bool {
	i := n - 1
	if i < 0 || i >= len(e.candidates) {
		return false
	}
	e.selected = i
	return true
}

// MenuAccept returns the selected candidate and closes the menu.
func (e *CompletionEngine) MenuAccept() (Candidate, bool) {
	if !e.menuOpen || len(e.candidates) == 0 {
		return Candidate{}, false
	}
	c := e.candidates[e.selected]
	e.closeMenu()
	return c, true
}

func (e *CompletionEngine) closeMenu() {
	e.menuOpen = false
	e.candidates = nil
	e.selected = 0
}

// CancelMenu closes the menu without accepting.
func (e *CompletionEngine) CancelMenu() { e.closeMenu() }
