package lineedit

import "strings"

const killRingMax = 10

// killRing is a fixed-size ring of killed text spans. Consecutive kill
// actions accumulate into a single entry so a following yank retrieves them
// all at once; any non-kill, non-yank action between two kills starts a new
// entry. This is a supplemental feature beyond spec.md's closed action
// enumeration (SPEC_FULL.md §5), not one of its Non-goals, kept in the
// teacher's idiom.
type killRing struct {
	entries []string
	killing bool
	yanking bool
}

// killActions are the deletion actions that feed the kill ring rather than
// discarding the removed text outright.
var killActions = map[Action]bool{
	ActionDeleteLineStart:   true,
	ActionDeleteLineEnd:     true,
	ActionDeleteWordStartWS: true,
	ActionDeleteWordStart:   true,
	ActionDeleteWordEnd:     true,
}

// killsPrepend reports whether a kills-backward action (text ends up before
// the existing entry) or kills-forward (appended after).
var killsPrepend = map[Action]bool{
	ActionDeleteLineStart:   true,
	ActionDeleteWordStartWS: true,
	ActionDeleteWordStart:   true,
}

func (r *killRing) maybeBeginKill() {
	if r.killing {
		return
	}
	r.killing = true
	if r.entries == nil {
		r.entries = make([]string, 0, killRingMax)
	}
	if len(r.entries) < cap(r.entries) {
		r.entries = append(r.entries, "")
	} else {
		copy(r.entries, r.entries[1:])
		r.entries[len(r.entries)-1] = ""
	}
}

// Record folds erased text for action into the current kill entry,
// according to whether the action kills forward or backward.
func (r *killRing) Record(action Action, erased string) {
	if erased == "" {
		return
	}
	r.maybeBeginKill()
	head := len(r.entries) - 1
	if killsPrepend[action] {
		r.entries[head] = erased + r.entries[head]
	} else {
		r.entries[head] += erased
	}
}

// Yank returns the current kill ring entry, or "" if empty.
func (r *killRing) Yank() string {
	if len(r.entries) == 0 {
		return ""
	}
	r.yanking = true
	return r.entries[len(r.entries)-1]
}

// Rotate cycles the ring so the entry just before the current one becomes
// current, for Yank-Pop.
func (r *killRing) Rotate() {
	if len(r.entries) == 0 {
		return
	}
	last := r.entries[len(r.entries)-1]
	copy(r.entries[1:], r.entries)
	r.entries[0] = last
}

// EndAction resets killing/yanking coalescing state for an action that is
// neither a kill nor a yank.
func (r *killRing) EndAction(action Action) {
	if !killActions[action] {
		r.killing = false
	}
	if action != ActionYank && action != ActionYankPop {
		r.yanking = false
	}
}

// Yanking reports whether the last action was a yank, used to decide
// whether Yank-Pop may replace it.
func (r *killRing) Yanking() bool { return r.yanking }

func (r *killRing) String() string {
	var buf strings.Builder
	buf.WriteByte('[')
	for i := range r.entries {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(r.entries[len(r.entries)-i-1])
	}
	buf.WriteByte(']')
	return buf.String()
}
