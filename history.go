package lineedit

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

const historyCookie = "_HiStOrY_V2_"

// defaultMaxHistory is used when NewHistory is given maxEntries <= 0
// (spec.md §6 "max_entries=-1 for default 200").
const defaultMaxHistory = 200

// History is a ring of immutable entries with an optional append-only file
// backing, prefix-based up/down navigation, and modal incremental search
// (spec.md §3 "History entry", §4.7). It owns no buffer; navigation methods
// take the editor's Buffer and mutate it directly, the way the teacher's
// history.go takes a *state and drives its screen.
type History struct {
	path          string
	file          io.WriteCloser
	noDuplicates  bool
	maxEntries    int
	entries       []string // oldest first
	pending       string   // in-progress input, saved at index -1
	index         int      // -1 == pending/newest; 0 == entries[len-1]; grows backward
	search        *historySearch
}

type historySearch struct {
	dir          int // +1 forward (toward newest), -1 reverse (toward oldest)
	pattern      string
	matchedIndex int
	matched      bool
	lastMatchedPattern string
	snapshots    []undoSnapshot // one per pattern-extension step, for backspace-undo
}

// NewHistory constructs an empty history ring. maxEntries <= 0 selects the
// default of 200.
func NewHistory(maxEntries int, noDuplicates bool) *History {
	if maxEntries <= 0 {
		maxEntries = defaultMaxHistory
	}
	return &History{maxEntries: maxEntries, noDuplicates: noDuplicates, index: -1}
}

// Load reads entries from path (creating it if absent) and opens it for
// appending. The file format is one vis-encoded entry per line behind a
// literal "_HiStOrY_V2_" cookie line, for interoperability with libedit-style
// history files.
func (h *History) Load(path string) error {
	h.path = path
	if path == "" {
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return errors.Wrap(err, "lineedit: open history file")
	}
	defer func() {
		if f != nil {
			f.Close()
		}
	}()

	var n int
	for s := bufio.NewScanner(f); s.Scan(); n++ {
		text := s.Text()
		if n == 0 {
			if text != historyCookie {
				return fmt.Errorf("lineedit: malformed history cookie in %s: %q", path, text)
			}
			continue
		}
		v, err := visDecode(text)
		if err != nil {
			return errors.Wrapf(err, "lineedit: decode history entry %d", n)
		}
		h.appendEntry(v)
	}

	switch {
	case n == 0:
		fmt.Fprintf(f, "%s\n", historyCookie)
	case n-1 > (h.maxEntries*5)/4:
		f.Close()
		f, err = os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0o644)
		if err != nil {
			return errors.Wrap(err, "lineedit: compact history file")
		}
		fmt.Fprintf(f, "%s\n", historyCookie)
		for _, e := range h.entries {
			fmt.Fprintf(f, "%s\n", visEncode(e))
		}
	}

	h.file, f = f, nil
	return nil
}

// Save atomically rewrites the history file (temp file + rename), per
// spec.md §4.7.
func (h *History) Save() error {
	if h.path == "" {
		return nil
	}
	dir := filepath.Dir(h.path)
	tmp, err := os.CreateTemp(dir, ".history-*.tmp")
	if err != nil {
		return errors.Wrap(err, "lineedit: create history temp file")
	}
	tmpName := tmp.Name()
	success := false
	defer func() {
		if !success {
			os.Remove(tmpName)
		}
	}()

	w := bufio.NewWriter(tmp)
	fmt.Fprintf(w, "%s\n", historyCookie)
	for _, e := range h.entries {
		fmt.Fprintf(w, "%s\n", visEncode(e))
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "lineedit: flush history temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "lineedit: close history temp file")
	}
	if err := os.Rename(tmpName, h.path); err != nil {
		return errors.Wrap(err, "lineedit: rename history temp file")
	}
	success = true
	return nil
}

// Close closes the history file, if one is open.
func (h *History) Close() error {
	if h.file != nil {
		return h.file.Close()
	}
	return nil
}

// Add appends a new entry, eliding it if noDuplicates is set and it equals
// the most recent entry.
func (h *History) Add(s string) {
	if h.noDuplicates && len(h.entries) > 0 && h.entries[len(h.entries)-1] == s {
		h.index = -1
		return
	}
	h.appendEntry(s)
	if h.file != nil {
		fmt.Fprintf(h.file, "%s\n", visEncode(s))
	}
	h.index = -1
}

// Clear discards every entry.
func (h *History) Clear() {
	h.entries = nil
	h.index = -1
}

// RemoveLast pops the most recently added entry. ReadLine does not call it:
// in-progress input is kept in the separate pending field, not pushed as an
// entry.
func (h *History) RemoveLast() {
	if len(h.entries) == 0 {
		return
	}
	h.entries = h.entries[:len(h.entries)-1]
	h.index = -1
}

// Len reports the number of stored entries.
func (h *History) Len() int { return len(h.entries) }

func (h *History) appendEntry(s string) {
	h.entries = append(h.entries, s)
	if h.maxEntries > 0 && len(h.entries) > h.maxEntries {
		h.entries = h.entries[len(h.entries)-h.maxEntries:]
	}
}

// entryFromNewest returns entries[len-1-n], or "" if out of range; n == -1
// is the pending placeholder.
func (h *History) entryFromNewest(n int) string {
	if n == -1 {
		return h.pending
	}
	i := len(h.entries) - 1 - n
	if i < 0 || i >= len(h.entries) {
		return ""
	}
	return h.entries[i]
}

func (h *History) saveCurrent(text string) {
	if h.index == -1 {
		h.pending = text
		return
	}
	i := len(h.entries) - 1 - h.index
	if i >= 0 && i < len(h.entries) {
		h.entries[i] = text
	}
}

// Prev moves toward older entries, replacing buf's contents. If prefix is
// non-empty, only entries beginning with prefix are visited (spec.md §4.7
// "Prefix navigation").
func (h *History) Prev(buf *Buffer, prefix string) bool {
	n := h.index
	for {
		n++
		if n >= len(h.entries) {
			return false
		}
		e := h.entryFromNewest(n)
		if prefix == "" || strings.HasPrefix(e, prefix) {
			h.saveCurrent(buf.String())
			h.index = n
			buf.MoveTo(0)
			buf.DeleteRange(0, buf.Len())
			buf.Insert(e)
			return true
		}
	}
}

// Next is Prev's mirror, moving toward newer entries (and finally the
// pending placeholder).
func (h *History) Next(buf *Buffer, prefix string) bool {
	if h.index == -1 {
		return false
	}
	n := h.index
	for {
		n--
		if n < -1 {
			return false
		}
		e := h.entryFromNewest(n)
		if prefix == "" || strings.HasPrefix(e, prefix) {
			h.saveCurrent(buf.String())
			h.index = n
			buf.MoveTo(0)
			buf.DeleteRange(0, buf.Len())
			buf.Insert(e)
			return true
		}
	}
}

// InSearch reports whether incremental search is active.
func (h *History) InSearch() bool { return h.search != nil }

// BeginSearch enters incremental search in the given direction (+1 forward
// i.e. toward newer entries via Ctrl-S, -1 reverse toward older via
// Ctrl-R), or changes direction and advances to the next match if already
// active (spec.md §4.7 "Incremental search").
func (h *History) BeginSearch(dir int, buf *Buffer) {
	if h.search == nil {
		h.saveCurrent(buf.String())
		h.search = &historySearch{matchedIndex: h.index}
	}
	h.search.dir = dir
	h.updateSearch(buf, true)
}

// AppendSearchChar extends the active search pattern by one rune.
func (h *History) AppendSearchChar(r rune, buf *Buffer) {
	if h.search == nil || !isPrintableRune(r) {
		return
	}
	h.search.snapshots = append(h.search.snapshots, undoSnapshot{text: h.search.pattern})
	h.search.pattern += string(r)
	h.updateSearch(buf, false)
}

// SearchBackspace undoes the last pattern-extension step using the search's
// own snapshot stack (distinct from the editor's undo stack, spec.md §4.7).
func (h *History) SearchBackspace(buf *Buffer) {
	if h.search == nil {
		return
	}
	if n := len(h.search.snapshots); n > 0 {
		h.search.pattern = h.search.snapshots[n-1].text
		h.search.snapshots = h.search.snapshots[:n-1]
		h.updateSearch(buf, false)
	}
}

// AcceptSearch exits search mode, keeping the matched buffer contents.
func (h *History) AcceptSearch() {
	h.search = nil
}

// CancelSearch exits search mode and restores the pre-search buffer.
func (h *History) CancelSearch(buf *Buffer) {
	if h.search == nil {
		return
	}
	idx := h.search.matchedIndex
	h.search = nil
	h.index = idx
	e := h.entryFromNewest(idx)
	buf.MoveTo(0)
	buf.DeleteRange(0, buf.Len())
	buf.Insert(e)
}

// SearchPrompt renders the modal search suffix shown below the input
// (direction marker, match state, and pattern).
func (h *History) SearchPrompt() string {
	if h.search == nil {
		return ""
	}
	dir := "bck"
	if h.search.dir > 0 {
		dir = "fwd"
	}
	state := "?"
	if h.search.pattern == "" || h.search.matched {
		state = ":"
	}
	return fmt.Sprintf("(%s-i-search%s`%s')", dir, state, h.search.pattern)
}

func (h *History) updateSearch(buf *Buffer, advance bool) {
	s := h.search
	s.matched = false
	if s.pattern == "" {
		return
	}
	match := searchMatcher(s.pattern)

	step := func(n int) bool {
		e := h.entryFromNewest(n)
		from := 0
		if s.dir < 0 {
			from = len(e)
		}
		if n == h.index {
			from = buf.Cursor()
			if advance && s.dir > 0 {
				from++
			}
		}
		idx := match(e, from, s.dir)
		if idx < 0 {
			return false
		}
		h.index = n
		buf.MoveTo(0)
		buf.DeleteRange(0, buf.Len())
		buf.Insert(e)
		buf.MoveTo(idx)
		return true
	}

	if s.dir < 0 {
		// The pending (-1) input is never a reverse-search target.
		start := h.index
		if start < 0 {
			start = 0
		}
		for n := start; n < len(h.entries); n++ {
			if step(n) {
				s.matched = true
				s.lastMatchedPattern = s.pattern
				return
			}
		}
	} else {
		for n := h.index; n >= -1; n-- {
			if step(n) {
				s.matched = true
				s.lastMatchedPattern = s.pattern
				return
			}
		}
	}
}

// searchMatcher compiles pattern as a regular expression if it is valid
// regex syntax, falling back to literal substring search otherwise, per
// spec.md §4.7 "incremental search (regex/substring)". The returned
// function finds the match position in text nearest `from`, walking forward
// for dir>0 or backward for dir<0.
func searchMatcher(pattern string) func(text string, from int, dir int) int {
	re, err := regexp.Compile(pattern)
	if err != nil || strings.IndexAny(pattern, `.*+?()[]{}|^$\`) == -1 {
		return func(text string, from int, dir int) int {
			if dir > 0 {
				if from > len(text) {
					return -1
				}
				if i := strings.Index(text[from:], pattern); i >= 0 {
					return from + i
				}
				return -1
			}
			n := from
			if n > len(text) {
				n = len(text)
			}
			return strings.LastIndex(text[:n], pattern)
		}
	}
	return func(text string, from int, dir int) int {
		if dir > 0 {
			if from > len(text) {
				return -1
			}
			loc := re.FindStringIndex(text[from:])
			if loc == nil {
				return -1
			}
			return from + loc[0]
		}
		n := from
		if n > len(text) {
			n = len(text)
		}
		locs := re.FindAllStringIndex(text[:n], -1)
		if len(locs) == 0 {
			return -1
		}
		return locs[len(locs)-1][0]
	}
}
