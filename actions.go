package lineedit

// Action is a named editor operation a key may be bound to. The set is
// closed per spec.md §4.2's categories (navigation, deletion, history,
// completion, clear-screen, undo/redo, help, insert-newline, None) plus the
// kill-ring supplement described in SPEC_FULL.md §5.
type Action string

// Navigation.
const (
	ActionCursorLeft     Action = "cursor-left"
	ActionCursorRight    Action = "cursor-right"
	ActionCursorUp       Action = "cursor-up"
	ActionCursorDown     Action = "cursor-down"
	ActionWordPrev       Action = "word-prev"
	ActionWordNext       Action = "word-next"
	ActionLineStart      Action = "line-start"
	ActionLineEnd        Action = "line-end"
	ActionInputStart     Action = "input-start"
	ActionInputEnd       Action = "input-end"
	ActionMatchBrace     Action = "match-brace"
	ActionTransposeChars Action = "transpose-chars"
	ActionTransposeWords Action = "transpose-words"
)

// Deletion.
const (
	ActionDeleteForward      Action = "delete-forward"
	ActionDeleteBackward     Action = "delete-backward"
	ActionDeleteWordEnd      Action = "delete-word-end"
	ActionDeleteWordStartWS  Action = "delete-word-start-ws"
	ActionDeleteWordStart    Action = "delete-word-start"
	ActionDeleteLineStart    Action = "delete-line-start"
	ActionDeleteLineEnd      Action = "delete-line-end"
	ActionDeleteHorizontalWS Action = "delete-horizontal-space"
)

// History. ActionHistorySearch enters incremental search regardless of
// whether it was triggered by Ctrl-R or Ctrl-S; the dispatcher inspects the
// triggering keycode directly to pick a direction once inside the mode
// (spec.md §4.6 "Incremental search").
const (
	ActionHistoryPrev   Action = "history-prev"
	ActionHistoryNext   Action = "history-next"
	ActionHistorySearch Action = "history-search"
)

// Completion.
const (
	ActionComplete Action = "complete"
)

// Misc.
const (
	ActionClearScreen   Action = "clear-screen"
	ActionUndo          Action = "undo"
	ActionRedo          Action = "redo"
	ActionHelp          Action = "help"
	ActionInsertNewline Action = "insert-newline"
	ActionInsertChar    Action = "insert-char"
	ActionCancel        Action = "cancel"
	ActionNone          Action = "none"
)

// Kill ring (SPEC_FULL.md §5 supplement, grounded on the teacher's
// kill_ring.go). These are ordinary rebindable actions; their default
// bindings (alt+y / alt+shift+y) are chosen to avoid the ctrl+y=redo
// collision spec.md §6 reserves.
const (
	ActionYank    Action = "yank"
	ActionYankPop Action = "yank-pop"
)

var validActions = func() map[Action]bool {
	m := map[Action]bool{}
	for _, a := range []Action{
		ActionCursorLeft, ActionCursorRight, ActionCursorUp, ActionCursorDown,
		ActionWordPrev, ActionWordNext, ActionLineStart, ActionLineEnd,
		ActionInputStart, ActionInputEnd, ActionMatchBrace,
		ActionTransposeChars, ActionTransposeWords,
		ActionDeleteForward, ActionDeleteBackward, ActionDeleteWordEnd,
		ActionDeleteWordStartWS, ActionDeleteWordStart, ActionDeleteLineStart,
		ActionDeleteLineEnd, ActionDeleteHorizontalWS,
		ActionHistoryPrev, ActionHistoryNext, ActionHistorySearch,
		ActionComplete,
		ActionClearScreen, ActionUndo, ActionRedo, ActionHelp,
		ActionInsertNewline, ActionInsertChar, ActionCancel, ActionNone,
		ActionYank, ActionYankPop,
	} {
		m[a] = true
	}
	return m
}()

// IsValidAction reports whether a is a known action name.
func IsValidAction(a Action) bool { return validActions[a] }
