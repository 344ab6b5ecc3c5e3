package lineedit

import (
	"io"
	"os"
)

// Option defines the interface for Editor options.
type Option interface {
	apply(e *Editor)
}

type ttyOption struct {
	tty *os.File
}

func (o *ttyOption) apply(e *Editor) {
	e.fd = int(o.tty.Fd())
	e.in = o.tty
	e.out = o.tty
}

// WithTTY allows configuring an Editor with a different TTY than
// stdin/stdout.
func WithTTY(tty *os.File) Option {
	return &ttyOption{
		tty: tty,
	}
}

type inputOption struct {
	r io.Reader
}

func (o *inputOption) apply(e *Editor) {
	e.in = o.r
}

// WithInput allows configuring the input reader for an Editor. This option is
// primarily useful for tests.
func WithInput(r io.Reader) Option {
	return &inputOption{
		r: r,
	}
}

type outputOption struct {
	w io.Writer
}

func (o *outputOption) apply(e *Editor) {
	e.out = o.w
}

// WithOutput allows configuring the output writer for an Editor. This option
// is primarily useful for tests.
func WithOutput(w io.Writer) Option {
	return &outputOption{
		w: w,
	}
}

type sizeOption struct {
	width, height int
}

func (o *sizeOption) apply(e *Editor) {
	e.renderer.SetSize(o.width, o.height)
}

// WithSize allows configuring the initial width and height of an Editor.
// Typically the width and height of the terminal are automatically
// determined; this option is primarily useful for tests in conjunction with
// WithInput and WithOutput.
func WithSize(width, height int) Option {
	return &sizeOption{
		width:  width,
		height: height,
	}
}

type inputFinishedOption struct {
	fn func(text string) bool
}

func (o inputFinishedOption) apply(e *Editor) {
	e.InputFinished = o.fn
}

// WithInputFinished allows configuring a callback that will be invoked when
// enter is pressed to determine if the input is considered complete or not.
// If the input is not complete, a newline is instead inserted into the input
// (spec.md §4.9 "Multiline").
func WithInputFinished(fn func(text string) bool) Option {
	return inputFinishedOption{fn}
}

type profileOption struct {
	name string
}

func (o profileOption) apply(e *Editor) {
	if err := e.bindings.SetProfile(o.name); err != nil {
		panic(err)
	}
}

// WithKeyBindingProfile selects a non-default built-in or registered key
// binding profile (spec.md §3 "Key binding profile").
func WithKeyBindingProfile(name string) Option {
	return profileOption{name: name}
}

type historyOption struct {
	h *History
}

func (o historyOption) apply(e *Editor) {
	e.History = o.h
}

// WithHistory installs a pre-populated History (e.g. one already Load'ed
// from disk) in place of the empty in-memory default.
func WithHistory(h *History) Option {
	return historyOption{h: h}
}

type completerOption struct {
	c Completer
}

func (o completerOption) apply(e *Editor) {
	e.Completion.Completer = o.c
}

// WithCompleter installs the Completer the CompletionEngine collects
// candidates from. Without one, completion, hints, and auto-tab are all
// inert.
func WithCompleter(c Completer) Option {
	return completerOption{c: c}
}

type highlighterOption struct {
	fn func(buf *Buffer) []AttrSpan
}

func (o highlighterOption) apply(e *Editor) {
	e.Highlighter = o.fn
}

// WithHighlighter installs a syntax-highlighting callback that derives
// attribute spans from the current buffer contents on every render (spec.md
// §4.5 "Syntax highlighting").
func WithHighlighter(fn func(buf *Buffer) []AttrSpan) Option {
	return highlighterOption{fn: fn}
}
