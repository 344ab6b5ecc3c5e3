package lineedit

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"
	"unicode/utf8"

	"golang.org/x/term"

	"github.com/augustwind/lineedit/internal/trace"
	"github.com/augustwind/lineedit/markup"
)

// Editor reads single- or multi-line input from a terminal. It combines a
// byte-offset edit Buffer, undo/redo stacks, a kill ring, persistent
// History, a CompletionEngine, and a Renderer behind a generalized
// key-binding dispatch table (spec.md §4.8 "Read loop").
//
// Editor eschews terminal insert/delete-character and insert-mode
// operations in favor of a full diff-repaint on every keystroke, the same
// trade the teacher's screen.go makes: a little more data sent per
// keystroke in exchange for identical rendering across terminals.
type Editor struct {
	fd  int
	in  io.Reader
	out io.Writer

	lexer    *Lexer
	renderer *Renderer
	bindings *BindingTable

	History    *History
	Completion *CompletionEngine

	// Multiline enables the backslash-continuation discipline: a line ending
	// in an odd number of backslashes inserts a newline instead of finishing
	// the read (spec.md §4.9 "Multiline").
	Multiline bool
	// InputFinished, when set, is consulted after Multiline's own
	// backslash rule; returning false inserts a newline instead of
	// finishing.
	InputFinished func(text string) bool
	// MultilineIndent indents continuation rows under the first character
	// of the input rather than flush to the left margin (spec.md §6
	// "multiline_indent").
	MultilineIndent bool

	HintEnabled bool
	HintDelay   time.Duration

	BraceMatching  bool
	BraceInsertion bool

	// PromptCleanup re-renders the prompt plus accepted value onto a single
	// line once a read finishes, erasing whatever multi-row layout preceded
	// it (spec.md §6 "prompt_cleanup"). PromptCleanupEmptyLine adds a blank
	// line after that for visual separation from subsequent output.
	PromptCleanup          bool
	PromptCleanupEmptyLine bool

	// PromptMarker follows the prompt text on the first row (e.g. "> ").
	// ContinuationMarker precedes subsequent logical lines.
	PromptMarker       string
	ContinuationMarker string

	Highlighter func(buf *Buffer) []AttrSpan
	Beep        func()

	// Markup resolves bracket-tag text for Print/Println/Printf (spec.md §6
	// "print, println, printf"). Defaults to a Color16 resolver detected
	// from nothing in particular; callers wanting COLORTERM/TERM detection
	// should build their own with markup.NewResolver(markup.DetectColorDepth(...))
	// and assign it before the first call.
	Markup *markup.Resolver

	mu struct {
		sync.Mutex
		buf  *Buffer
		undo undoStack
		kill killRing
		hint hintState
		// searchUndoRestore lifts the undo suppression entered for the
		// duration of an incremental history search, coalescing the
		// search's buffer mutations into the single undo entry captured
		// when the search began (spec.md §4.4, §4.7).
		searchUndoRestore func()
	}
}

// NewEditor constructs an Editor reading from os.Stdin and writing to
// os.Stdout unless overridden by options.
func NewEditor(options ...Option) *Editor {
	e := &Editor{
		fd:             -1,
		in:             os.Stdin,
		out:            os.Stdout,
		History:        NewHistory(0, false),
		Completion:     NewCompletionEngine(),
		HintDelay:          400 * time.Millisecond,
		BraceMatching:      true,
		BraceInsertion:     true,
		PromptCleanup:      true,
		ContinuationMarker: "... ",
		Markup:             markup.NewResolver(markup.Color16),
	}
	e.renderer = NewRenderer(e.out)
	e.renderer.SetPrompt("", e.PromptMarker, e.ContinuationMarker, false)
	e.mu.buf = NewBuffer()

	bt, err := NewBindingTable("emacs")
	if err != nil {
		panic(err)
	}
	e.bindings = bt

	for _, opt := range options {
		opt.apply(e)
	}
	e.renderer.SetOutput(e.out)

	type fdGetter interface{ Fd() uintptr }
	if e.fd < 0 {
		if f, ok := e.in.(fdGetter); ok {
			e.fd = int(f.Fd())
		}
	}
	e.lexer = NewLexer(e.in)
	return e
}

// Close releases the Editor's History file handle, if one is open.
func (e *Editor) Close() error {
	return e.History.Close()
}

// Print writes bracket-tag markup to the Editor's output, expanding it
// through Markup first (spec.md §6 "print, println, printf"). It is meant
// for use between ReadLine calls, not while a read is in progress.
func (e *Editor) Print(s string) {
	io.WriteString(e.out, e.Markup.Sprint(s))
}

// Println is Print plus a trailing newline.
func (e *Editor) Println(s string) {
	e.Print(s)
	io.WriteString(e.out, "\r\n")
}

// Printf formats its arguments with fmt.Sprintf and then expands the result
// as markup via Print.
func (e *Editor) Printf(format string, args ...interface{}) {
	e.Print(fmt.Sprintf(format, args...))
}

// SetKeyBindingProfile switches the active profile, clearing any runtime
// overlay (spec.md §4.6 "Profile switching").
func (e *Editor) SetKeyBindingProfile(name string) error {
	return e.bindings.SetProfile(name)
}

// Bind adds or overrides a single binding on top of the active profile.
func (e *Editor) Bind(spec string, action Action) error {
	return e.bindings.Bind(spec, action)
}

// ReadLine reads one line (or, under Multiline, one logical multi-line
// entry) of input. A canceled read (Ctrl-C on an empty buffer, or Ctrl-D)
// returns io.EOF.
func (e *Editor) ReadLine(prompt string) (string, error) {
	trace.Logf("editor", "ReadLine prompt=%q profile=%s", prompt, e.bindings.ProfileName())
	if err := e.updateSize(); err != nil {
		return "", err
	}

	if e.fd >= 0 {
		winch := make(chan os.Signal, 1)
		signal.Notify(winch, syscall.SIGWINCH)
		go func() {
			for range winch {
				e.lexer.MarkResized()
			}
		}()
		defer func() {
			signal.Stop(winch)
			close(winch)
		}()

		saved, err := term.MakeRaw(e.fd)
		if err != nil {
			return "", err
		}
		defer term.Restore(e.fd, saved)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.mu.buf = NewBuffer()
	e.mu.undo.Reset()
	e.mu.kill = killRing{}
	e.mu.hint = hintState{}
	e.mu.searchUndoRestore = nil
	e.renderer.SetPrompt(prompt, e.PromptMarker, e.ContinuationMarker, e.MultilineIndent)

	e.render()

	for {
		k, err := e.lexer.ReadKey(e.idleTimeout())
		if err != nil {
			return "", err
		}

		switch k {
		case EventStop:
			return "", io.EOF
		case ReadKeyTimedOut:
			e.onIdle()
			e.render()
			continue
		}
		if e.lexer.ConsumeResized() {
			_ = e.updateSize()
		}

		text, done, err := e.dispatch(k)
		if err != nil {
			if err == io.EOF {
				e.cleanup(text)
				return text, io.EOF
			}
			return "", err
		}
		if done {
			e.cleanup(text)
			if text != "" {
				e.History.Add(text)
				if err := e.History.Save(); err != nil {
					trace.Logf("history", "save failed: %v", err)
				}
			}
			trace.Logf("editor", "ReadLine accepted %d bytes", len(text))
			return text, nil
		}
		e.render()
	}
}

func (e *Editor) cleanup(text string) {
	if !e.PromptCleanup {
		return
	}
	e.renderer.Cleanup(text, e.PromptCleanupEmptyLine)
}

func (e *Editor) updateSize() error {
	if e.fd < 0 {
		return nil
	}
	w, h, err := term.GetSize(e.fd)
	if err != nil {
		return err
	}
	e.renderer.SetSize(w, h)
	return nil
}

// idleTimeout is the duration ReadKey should wait for a first byte before
// returning ReadKeyTimedOut, driven by whichever of the hint or auto-tab
// features is active (spec.md §4.8 step 3, §4.6 "Hint"/"Auto-tab").
func (e *Editor) idleTimeout() time.Duration {
	if e.HintEnabled || e.Completion.AutoTab {
		return e.HintDelay
	}
	return 0
}

// onIdle is invoked when ReadKey times out with no key pressed: it tries
// auto-tab first (silently completing an unambiguous word), then falls back
// to probing for an inline hint.
func (e *Editor) onIdle() {
	buf := e.mu.buf
	if e.Completion.AutoTab && e.Completion.Completer != nil {
		if cands := e.Completion.Collect(buf, 2); len(cands) == 1 {
			e.mu.undo.Capture(buf.String(), buf.Cursor())
			e.Completion.Accept(buf, cands[0])
			e.mu.hint = hintState{}
			return
		}
	}
	if !e.HintEnabled {
		e.mu.hint = hintState{}
		return
	}
	text, help, ok := probeHint(e.Completion, buf)
	if ok {
		e.mu.hint = hintState{text: text, help: help, shown: true}
	} else {
		e.mu.hint = hintState{}
	}
}

// acceptHint turns the currently shown hint's ghost text into real buffer
// content, used by ActionCursorRight/ActionLineEnd when the cursor is
// already at the end of the buffer (spec.md §4.6 "Pressing Right or End
// while a hint is shown accepts the completion for the hint").
func (e *Editor) acceptHint() {
	buf := e.mu.buf
	e.mu.undo.Capture(buf.String(), buf.Cursor())
	buf.Insert(e.mu.hint.text)
}

func (e *Editor) render() {
	buf := e.mu.buf
	var attrs []AttrSpan
	if e.Highlighter != nil {
		attrs = e.Highlighter(buf)
	}
	if e.BraceMatching {
		attrs = append(attrs, braceMatchAttrs(buf)...)
	}

	hint, right := "", ""
	switch {
	case e.History.InSearch():
		right = e.History.SearchPrompt()
	case e.mu.hint.shown:
		hint = e.mu.hint.text
		right = e.mu.hint.help
	}
	e.renderer.SetRightText(right, visualWidth(right))

	var extra string
	if e.Completion.MenuOpen() {
		extra = e.renderMenu()
	}
	e.renderer.Render(buf, hint, attrs, extra)
}

func (e *Editor) renderMenu() string {
	cands, selected := e.Completion.MenuCandidates()
	var b strings.Builder
	for i, c := range cands {
		marker := "  "
		if i == selected {
			marker = "> "
		}
		b.WriteString(marker)
		if i < 9 {
			b.WriteString(strconv.Itoa(i + 1))
			b.WriteString(". ")
		}
		b.WriteString(c.display())
		if c.Help != "" {
			b.WriteString("  ")
			b.WriteString(c.Help)
		}
		if i != len(cands)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// braceMatchAttrs highlights the brace at or immediately before the cursor
// together with its match, the same pair Buffer.MatchBrace considers
// (spec.md §4.3 "Brace matching"). It returns nil when the cursor isn't
// adjacent to a brace or no match was found.
func braceMatchAttrs(buf *Buffer) []AttrSpan {
	text := buf.Text()
	cur := buf.Cursor()

	near := -1
	nearSize := 0
	if r, size := utf8.DecodeRune(text[cur:]); size > 0 && isBrace(r) {
		near, nearSize = cur, size
	} else if prev := buf.PrevGraphemeStart(); prev < cur {
		if r, size := utf8.DecodeRune(text[prev:]); size > 0 && isBrace(r) {
			near, nearSize = prev, size
		}
	}
	if near < 0 {
		return nil
	}

	match, ok := buf.MatchBrace()
	if !ok {
		return []AttrSpan{{Start: near, End: near + nearSize, Style: errorStyle}}
	}
	_, matchSize := utf8.DecodeRune(text[match:])
	return []AttrSpan{
		{Start: near, End: near + nearSize, Style: matchStyle},
		{Start: match, End: match + matchSize, Style: matchStyle},
	}
}

func isBrace(r rune) bool {
	if _, ok := bracePairs[r]; ok {
		return true
	}
	_, ok := braceClosers[r]
	return ok
}

func (e *Editor) beep() {
	if e.Beep != nil {
		e.Beep()
	}
}

// dispatch routes one decoded keycode to whichever of the three dispatch
// modes is active (completion menu, history search, or base editing),
// returning (text, true, nil) once the line is ready to be returned by
// ReadLine (spec.md §4.8 step 4's "generalized dispatch chain").
func (e *Editor) dispatch(k Keycode) (string, bool, error) {
	if e.Completion.MenuOpen() {
		return e.dispatchMenu(k)
	}
	if e.History.InSearch() {
		return e.dispatchSearch(k)
	}
	// A shown hint was computed against the buffer as it stood before this
	// keystroke, so it is stale the instant any key is processed. Right/End
	// get a chance to accept it first (ActionCursorRight, ActionLineEnd);
	// every other key just drops it (spec.md §4.8 step 3).
	defer func() { e.mu.hint = hintState{} }()

	if k == KeyEnter {
		return e.dispatchEnter()
	}

	buf := e.mu.buf
	action, bound := e.bindings.Query(k)
	if !bound {
		switch {
		case k.Mods() != 0:
			return "", false, nil
		case k.Base() >= virtBase:
			return "", false, nil
		case k < 32 && k != KeyTab:
			return "", false, nil
		default:
			action = ActionInsertChar
		}
	}

	if action == ActionDeleteForward && k == KeyCtrlD && buf.Len() == 0 {
		return "", true, io.EOF
	}

	e.mu.kill.EndAction(action)

	fn, ok := actionFuncs[action]
	if !ok {
		return "", false, nil
	}
	return fn(e, k)
}

// dispatchMenu handles navigation within an open completion menu (spec.md
// §4.6 "Menu"). Any key the menu doesn't claim cancels it and falls through
// to the base dispatch chain.
func (e *Editor) dispatchMenu(k Keycode) (string, bool, error) {
	buf := e.mu.buf
	switch k {
	case KeyEsc, KeyBell:
		e.Completion.CancelMenu()
		return "", false, nil
	case KeyEnter:
		if c, ok := e.Completion.MenuAccept(); ok {
			e.mu.undo.Capture(buf.String(), buf.Cursor())
			e.Completion.Accept(buf, c)
		}
		return "", false, nil
	case KeyUp:
		e.Completion.MenuPrev()
		return "", false, nil
	case KeyDown:
		e.Completion.MenuNext()
		return "", false, nil
	}
	if action, bound := e.bindings.Query(k); bound && action == ActionComplete {
		e.Completion.MenuNext()
		return "", false, nil
	}
	if k >= '1' && k <= '9' {
		e.Completion.MenuSelectDigit(int(k - '0'))
		return "", false, nil
	}
	e.Completion.CancelMenu()
	return e.dispatch(k)
}

// dispatchSearch handles keys while incremental history search is active
// (spec.md §4.7 "Incremental search"). Direction is read off the raw
// keycode rather than the resolved action, since Ctrl-R and Ctrl-S both
// bind to ActionHistorySearch.
func (e *Editor) dispatchSearch(k Keycode) (string, bool, error) {
	buf := e.mu.buf
	switch k {
	case KeyEsc, KeyBell:
		e.History.CancelSearch(buf)
		e.endSearchUndo()
		return "", false, nil
	case KeyEnter:
		e.History.AcceptSearch()
		e.endSearchUndo()
		return "", false, nil
	case KeyCtrlH, KeyDEL:
		e.History.SearchBackspace(buf)
		return "", false, nil
	case KeyCtrlR:
		e.History.BeginSearch(-1, buf)
		return "", false, nil
	case KeyCtrlS:
		e.History.BeginSearch(1, buf)
		return "", false, nil
	}
	if k.Mods() == 0 && k.Base() < virtBase && isPrintableRune(rune(k)) {
		e.History.AppendSearchChar(rune(k), buf)
		return "", false, nil
	}
	e.History.AcceptSearch()
	e.endSearchUndo()
	return e.dispatch(k)
}

// endSearchUndo lifts the undo suppression entered by ActionHistorySearch,
// if any search is in flight. A no-op restore (assigned once per search) so
// calling it more than once is harmless.
func (e *Editor) endSearchUndo() {
	if e.mu.searchUndoRestore != nil {
		e.mu.searchUndoRestore()
		e.mu.searchUndoRestore = nil
	}
}

// dispatchEnter implements the multiline discipline: a line ending in an odd
// number of backslashes continues onto a new line, as does a false return
// from InputFinished (spec.md §4.9 "Multiline").
func (e *Editor) dispatchEnter() (string, bool, error) {
	buf := e.mu.buf
	text := buf.String()
	if e.Multiline && trailingBackslashes(text)%2 == 1 {
		buf.DeleteRange(buf.Len()-1, buf.Len())
		buf.Insert("\n")
		return "", false, nil
	}
	if e.InputFinished != nil && !e.InputFinished(text) {
		buf.Insert("\n")
		return "", false, nil
	}
	return text, true, nil
}

func trailingBackslashes(s string) int {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] == '\\'; i-- {
		n++
	}
	return n
}

// actionFuncs implements every Action as a function over the active Editor,
// generalizing the teacher's baseCommands map from bind.go.
var actionFuncs = map[Action]func(e *Editor, k Keycode) (string, bool, error){
	ActionCursorLeft: func(e *Editor, k Keycode) (string, bool, error) {
		buf := e.mu.buf
		buf.MoveTo(buf.PrevGraphemeStart())
		return "", false, nil
	},
	ActionCursorRight: func(e *Editor, k Keycode) (string, bool, error) {
		buf := e.mu.buf
		if e.mu.hint.shown && buf.Cursor() == buf.Len() {
			e.acceptHint()
			return "", false, nil
		}
		buf.MoveTo(buf.NextGraphemeEnd())
		return "", false, nil
	},
	ActionCursorUp: func(e *Editor, k Keycode) (string, bool, error) {
		moveCursorLine(e.mu.buf, -1)
		return "", false, nil
	},
	ActionCursorDown: func(e *Editor, k Keycode) (string, bool, error) {
		moveCursorLine(e.mu.buf, 1)
		return "", false, nil
	},
	ActionWordPrev: func(e *Editor, k Keycode) (string, bool, error) {
		buf := e.mu.buf
		buf.MoveTo(buf.PrevWordStart(buf.Cursor()))
		return "", false, nil
	},
	ActionWordNext: func(e *Editor, k Keycode) (string, bool, error) {
		buf := e.mu.buf
		buf.MoveTo(buf.NextWordEnd(buf.Cursor()))
		return "", false, nil
	},
	ActionLineStart: func(e *Editor, k Keycode) (string, bool, error) {
		buf := e.mu.buf
		buf.MoveTo(buf.LineStart(buf.Cursor()))
		return "", false, nil
	},
	ActionLineEnd: func(e *Editor, k Keycode) (string, bool, error) {
		buf := e.mu.buf
		if e.mu.hint.shown && buf.Cursor() == buf.Len() {
			e.acceptHint()
			return "", false, nil
		}
		buf.MoveTo(buf.LineEnd(buf.Cursor()))
		return "", false, nil
	},
	ActionInputStart: func(e *Editor, k Keycode) (string, bool, error) {
		e.mu.buf.MoveTo(0)
		return "", false, nil
	},
	ActionInputEnd: func(e *Editor, k Keycode) (string, bool, error) {
		buf := e.mu.buf
		buf.MoveTo(buf.Len())
		return "", false, nil
	},
	ActionMatchBrace: func(e *Editor, k Keycode) (string, bool, error) {
		buf := e.mu.buf
		if pos, ok := buf.MatchBrace(); ok {
			buf.MoveTo(pos)
		} else {
			e.beep()
		}
		return "", false, nil
	},
	ActionTransposeChars: func(e *Editor, k Keycode) (string, bool, error) {
		buf := e.mu.buf
		prevStart := buf.PrevGraphemeStart()
		if prevStart == buf.Cursor() {
			return "", false, nil
		}
		e.mu.undo.Capture(buf.String(), buf.Cursor())
		text := buf.DeleteRange(prevStart, buf.Cursor())
		buf.MoveTo(buf.NextGraphemeEnd())
		buf.Insert(text)
		return "", false, nil
	},
	ActionTransposeWords: func(e *Editor, k Keycode) (string, bool, error) {
		buf := e.mu.buf
		nextWordEnd := buf.NextWordEnd(buf.Cursor())
		nextWordStart := buf.PrevWordStart(nextWordEnd)
		prevWordStart := buf.PrevWordStart(nextWordStart)
		prevWordEnd := buf.NextWordEnd(prevWordStart)
		if prevWordStart == nextWordStart {
			return "", false, nil
		}
		e.mu.undo.Capture(buf.String(), buf.Cursor())
		buf.MoveTo(nextWordStart)
		nextWord := buf.DeleteTo(nextWordEnd)
		buf.MoveTo(prevWordStart)
		prevWord := buf.DeleteTo(prevWordEnd)
		buf.Insert(nextWord)
		buf.MoveTo(buf.Cursor() + nextWordStart - prevWordEnd)
		buf.Insert(prevWord)
		return "", false, nil
	},
	ActionDeleteForward: func(e *Editor, k Keycode) (string, bool, error) {
		buf := e.mu.buf
		e.mu.undo.Capture(buf.String(), buf.Cursor())
		buf.DeleteRange(buf.Cursor(), buf.NextGraphemeEnd())
		return "", false, nil
	},
	ActionDeleteBackward: func(e *Editor, k Keycode) (string, bool, error) {
		buf := e.mu.buf
		e.mu.undo.Capture(buf.String(), buf.Cursor())
		buf.DeleteRange(buf.PrevGraphemeStart(), buf.Cursor())
		return "", false, nil
	},
	ActionDeleteWordEnd: func(e *Editor, k Keycode) (string, bool, error) {
		buf := e.mu.buf
		e.mu.undo.Capture(buf.String(), buf.Cursor())
		start := buf.Cursor()
		erased := buf.DeleteRange(start, buf.NextWordEnd(start))
		e.mu.kill.Record(ActionDeleteWordEnd, erased)
		return "", false, nil
	},
	ActionDeleteWordStartWS: func(e *Editor, k Keycode) (string, bool, error) {
		buf := e.mu.buf
		e.mu.undo.Capture(buf.String(), buf.Cursor())
		start := buf.PrevWordStartWS(buf.Cursor())
		erased := buf.DeleteRange(start, buf.Cursor())
		e.mu.kill.Record(ActionDeleteWordStartWS, erased)
		return "", false, nil
	},
	ActionDeleteWordStart: func(e *Editor, k Keycode) (string, bool, error) {
		buf := e.mu.buf
		e.mu.undo.Capture(buf.String(), buf.Cursor())
		start := buf.PrevWordStart(buf.Cursor())
		erased := buf.DeleteRange(start, buf.Cursor())
		e.mu.kill.Record(ActionDeleteWordStart, erased)
		return "", false, nil
	},
	ActionDeleteLineStart: func(e *Editor, k Keycode) (string, bool, error) {
		buf := e.mu.buf
		e.mu.undo.Capture(buf.String(), buf.Cursor())
		start := buf.LineStart(buf.Cursor())
		erased := buf.DeleteRange(start, buf.Cursor())
		e.mu.kill.Record(ActionDeleteLineStart, erased)
		return "", false, nil
	},
	ActionDeleteLineEnd: func(e *Editor, k Keycode) (string, bool, error) {
		buf := e.mu.buf
		e.mu.undo.Capture(buf.String(), buf.Cursor())
		end := buf.LineEnd(buf.Cursor())
		erased := buf.DeleteRange(buf.Cursor(), end)
		e.mu.kill.Record(ActionDeleteLineEnd, erased)
		return "", false, nil
	},
	ActionDeleteHorizontalWS: func(e *Editor, k Keycode) (string, bool, error) {
		buf := e.mu.buf
		e.mu.undo.Capture(buf.String(), buf.Cursor())
		buf.DeleteHorizontalSpace()
		return "", false, nil
	},
	ActionHistoryPrev: func(e *Editor, k Keycode) (string, bool, error) {
		if !e.History.Prev(e.mu.buf, "") {
			e.beep()
		}
		return "", false, nil
	},
	ActionHistoryNext: func(e *Editor, k Keycode) (string, bool, error) {
		if !e.History.Next(e.mu.buf, "") {
			e.beep()
		}
		return "", false, nil
	},
	ActionHistorySearch: func(e *Editor, k Keycode) (string, bool, error) {
		dir := -1
		if k == KeyCtrlS {
			dir = 1
		}
		if !e.History.InSearch() {
			buf := e.mu.buf
			e.mu.undo.Capture(buf.String(), buf.Cursor())
			e.mu.searchUndoRestore = e.mu.undo.Suppress()
		}
		e.History.BeginSearch(dir, e.mu.buf)
		return "", false, nil
	},
	ActionComplete: func(e *Editor, k Keycode) (string, bool, error) {
		buf := e.mu.buf
		c, ok := e.Completion.OpenMenu(buf)
		if ok {
			e.mu.undo.Capture(buf.String(), buf.Cursor())
			e.Completion.Accept(buf, c)
		} else if !e.Completion.MenuOpen() {
			e.beep()
		}
		return "", false, nil
	},
	ActionClearScreen: func(e *Editor, k Keycode) (string, bool, error) {
		e.renderer.EraseScreen()
		return "", false, nil
	},
	ActionUndo: func(e *Editor, k Keycode) (string, bool, error) {
		buf := e.mu.buf
		if snap, ok := e.mu.undo.Undo(buf.String(), buf.Cursor()); ok {
			buf.SetText(snap.text)
			buf.MoveTo(snap.cursor)
		} else {
			e.beep()
		}
		return "", false, nil
	},
	ActionRedo: func(e *Editor, k Keycode) (string, bool, error) {
		buf := e.mu.buf
		if snap, ok := e.mu.undo.Redo(buf.String(), buf.Cursor()); ok {
			buf.SetText(snap.text)
			buf.MoveTo(snap.cursor)
		} else {
			e.beep()
		}
		return "", false, nil
	},
	ActionHelp: func(e *Editor, k Keycode) (string, bool, error) {
		var lines []string
		for _, b := range e.bindings.ListBindings() {
			lines = append(lines, b.Spec+"\t"+string(b.Action))
		}
		e.renderer.PrintAbove(lines)
		return "", false, nil
	},
	ActionInsertNewline: func(e *Editor, k Keycode) (string, bool, error) {
		buf := e.mu.buf
		e.mu.undo.Capture(buf.String(), buf.Cursor())
		buf.Insert("\n")
		return "", false, nil
	},
	ActionInsertChar: func(e *Editor, k Keycode) (string, bool, error) {
		e.insertRune(rune(k.Base()))
		return "", false, nil
	},
	ActionCancel: func(e *Editor, k Keycode) (string, bool, error) {
		buf := e.mu.buf
		if buf.Len() == 0 {
			return "", true, io.EOF
		}
		buf.SetText("")
		e.mu.undo.Reset()
		return "", false, nil
	},
	ActionNone: func(e *Editor, k Keycode) (string, bool, error) {
		return "", false, nil
	},
	ActionYank: func(e *Editor, k Keycode) (string, bool, error) {
		buf := e.mu.buf
		text := e.mu.kill.Yank()
		if text == "" {
			return "", false, nil
		}
		e.mu.undo.Capture(buf.String(), buf.Cursor())
		buf.Insert(text)
		return "", false, nil
	},
	ActionYankPop: func(e *Editor, k Keycode) (string, bool, error) {
		if !e.mu.kill.Yanking() {
			return "", false, nil
		}
		buf := e.mu.buf
		prev := e.mu.kill.Yank()
		start := buf.Cursor() - len(prev)
		e.mu.undo.Capture(buf.String(), buf.Cursor())
		buf.DeleteRange(start, buf.Cursor())
		buf.MoveTo(start)
		e.mu.kill.Rotate()
		buf.Insert(e.mu.kill.Yank())
		return "", false, nil
	},
}

// moveCursorLine moves the cursor to the corresponding byte column in the
// logical line above (dir<0) or below (dir>0) the current one, clamped to
// that line's length. It is a no-op if there is no such line.
func moveCursorLine(buf *Buffer, dir int) {
	cur := buf.Cursor()
	lineStart := buf.LineStart(cur)
	col := cur - lineStart

	if dir < 0 {
		if lineStart == 0 {
			return
		}
		prevLineEnd := lineStart - 1
		prevLineStart := buf.LineStart(prevLineEnd)
		if col > prevLineEnd-prevLineStart {
			col = prevLineEnd - prevLineStart
		}
		buf.MoveTo(prevLineStart + col)
		return
	}

	lineEnd := buf.LineEnd(cur)
	if lineEnd >= buf.Len() {
		return
	}
	nextLineStart := lineEnd + 1
	nextLineEnd := buf.LineEnd(nextLineStart)
	if col > nextLineEnd-nextLineStart {
		col = nextLineEnd - nextLineStart
	}
	buf.MoveTo(nextLineStart + col)
}

// insertRune inserts r at the cursor, auto-closing a matching brace just
// past the cursor when BraceInsertion is enabled (spec.md §4.4 "Brace
// insertion").
func (e *Editor) insertRune(r rune) {
	buf := e.mu.buf
	e.mu.undo.Capture(buf.String(), buf.Cursor())
	if !buf.InsertRune(r) {
		e.beep()
		return
	}
	if e.BraceInsertion {
		if closer, ok := AutoCloser(r); ok {
			pos := buf.Cursor()
			buf.InsertRune(closer)
			buf.MoveTo(pos)
		}
	}
}
