package lineedit

// undoSnapshot is a captured (buffer, cursor) pair, pushed before a mutation
// (spec.md §4.4 "Undo snapshot").
type undoSnapshot struct {
	text   string
	cursor int
}

// undoStackLimit caps the number of snapshots retained per read cycle,
// oldest dropped first, to bound memory on a pathological paste-heavy
// session (spec.md §4.4 leaves the cap undocumented-but-allowed).
const undoStackLimit = 1000

// undoStack holds the editor's undo and redo LIFOs. Mutations clear the
// redo stack; disabled is set during history search so that the search's
// own buffer writes coalesce into a single undo entry rather than one per
// keystroke (spec.md §4.6 "Incremental search"). A read cycle's stacks are
// discarded when Reset is called for the next line.
type undoStack struct {
	undo     []undoSnapshot
	redo     []undoSnapshot
	disabled bool
}

// Suppress disables snapshot capture until the returned func is called,
// used to wrap a run of coalesced mutations (e.g. one incremental-search
// step) as a single undo entry.
func (u *undoStack) Suppress() (restore func()) {
	prev := u.disabled
	u.disabled = true
	return func() { u.disabled = prev }
}

// Capture pushes (text, cursor) onto the undo stack and clears the redo
// stack, unless capture is currently suppressed.
func (u *undoStack) Capture(text string, cursor int) {
	if u.disabled {
		return
	}
	u.undo = append(u.undo, undoSnapshot{text: text, cursor: cursor})
	if len(u.undo) > undoStackLimit {
		u.undo = u.undo[len(u.undo)-undoStackLimit:]
	}
	u.redo = u.redo[:0]
}

// Undo pops the undo stack, pushes the given current state onto the redo
// stack, and returns the snapshot to restore.
func (u *undoStack) Undo(curText string, curCursor int) (undoSnapshot, bool) {
	if len(u.undo) == 0 {
		return undoSnapshot{}, false
	}
	n := len(u.undo) - 1
	snap := u.undo[n]
	u.undo = u.undo[:n]
	u.redo = append(u.redo, undoSnapshot{text: curText, cursor: curCursor})
	return snap, true
}

// Redo is Undo's mirror.
func (u *undoStack) Redo(curText string, curCursor int) (undoSnapshot, bool) {
	if len(u.redo) == 0 {
		return undoSnapshot{}, false
	}
	n := len(u.redo) - 1
	snap := u.redo[n]
	u.redo = u.redo[:n]
	u.undo = append(u.undo, undoSnapshot{text: curText, cursor: curCursor})
	return snap, true
}

// Reset clears both stacks, for a new read cycle.
func (u *undoStack) Reset() {
	u.undo = nil
	u.redo = nil
	u.disabled = false
}
