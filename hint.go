package lineedit

// hintState tracks the transient inline completion hint shown when the
// editor is idle (spec.md §4.6 "Hint"). The hint text is appended to the
// buffer only for rendering (composeGlyphs), never written into it.
type hintState struct {
	text    string
	help    string
	shown   bool
	delayMS int
}

// probeHint asks the completion engine for at most two candidates; if
// exactly one is found, its remainder past the cursor becomes the hint.
// It then repeatedly simulates accepting the hint into a scratch buffer and
// re-probing, growing the hint as long as each step still yields a unique,
// strictly longer candidate (spec.md "repeat auto-extend probes to grow the
// hint").
func probeHint(engine *CompletionEngine, buf *Buffer) (text, help string, ok bool) {
	if engine == nil || engine.Completer == nil {
		return "", "", false
	}
	cands := engine.Probe(buf)
	if len(cands) != 1 {
		return "", "", false
	}
	c := cands[0]
	if len(c.Replacement) < c.DeleteBefore {
		return "", "", false
	}
	remainder := c.Replacement[c.DeleteBefore:]
	if remainder == "" {
		return "", "", false
	}
	help = c.Help

	scratch := NewBuffer()
	for steps := 0; steps < 64; steps++ {
		scratch.SetText(buf.String())
		scratch.MoveTo(buf.Cursor())
		scratch.Insert(remainder)

		more := engine.Probe(scratch)
		if len(more) != 1 {
			break
		}
		mc := more[0]
		if len(mc.Replacement) < mc.DeleteBefore {
			break
		}
		grown := mc.Replacement[mc.DeleteBefore:]
		extended := remainder + grown
		if grown == "" {
			break
		}
		remainder = extended
	}
	return remainder, help, true
}
