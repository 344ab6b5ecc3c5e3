package lineedit

import (
	"io"
	"sync"
	"time"
	"unicode/utf8"
)

// supportedSeqs maps the CSI/SS3 escape sequences handled by the lexer to
// their keycodes. Kept from the teacher's input.go: rather than querying
// terminfo for the current $TERM, we hardcode the sequences used by the
// large majority of terminals (the same approach linenoise-family libraries
// take).
var supportedSeqs = map[string]Keycode{
	"\x1b[3~":   KeyDelete,
	"\x1bOB":    KeyDown,
	"\x1b[B":    KeyDown,
	"\x1bOb":    KeyDown | ModCtrl,
	"\x1b[1;5B": KeyDown | ModCtrl,
	"\x1b[1;3B": KeyDown | ModAlt,
	"\x1b[1;9B": KeyDown | ModAlt,
	"\x1bOF":    KeyEnd,
	"\x1b[F":    KeyEnd,
	"\x1b[4~":   KeyEnd,
	"\x1b[8~":   KeyEnd,
	"\x1bOH":    KeyHome,
	"\x1b[H":    KeyHome,
	"\x1b[1~":   KeyHome,
	"\x1b[7~":   KeyHome,
	"\x1bOD":    KeyLeft,
	"\x1b[D":    KeyLeft,
	"\x1bOd":    KeyLeft | ModCtrl,
	"\x1b[1;5D": KeyLeft | ModCtrl,
	"\x1b[1;3D": KeyLeft | ModAlt,
	"\x1b[1;9D": KeyLeft | ModAlt,
	"\x1b[6~":   KeyPageDown,
	"\x1b[5~":   KeyPageUp,
	"\x1bOC":    KeyRight,
	"\x1b[C":    KeyRight,
	"\x1bOc":    KeyRight | ModCtrl,
	"\x1b[1;5C": KeyRight | ModCtrl,
	"\x1b[1;3C": KeyRight | ModAlt,
	"\x1b[1;9C": KeyRight | ModAlt,
	"\x1bOA":    KeyUp,
	"\x1b[A":    KeyUp,
	"\x1bOa":    KeyUp | ModCtrl,
	"\x1b[1;5A": KeyUp | ModCtrl,
	"\x1b[1;3A": KeyUp | ModAlt,
	"\x1b[1;9A": KeyUp | ModAlt,
	"\x1b[2~":   KeyInsert,
	"\x1b[1;5H": KeyHome | ModCtrl,
	"\x1b[1;2H": KeyHome | ModShift,
	"\x1b[1;5F": KeyEnd | ModCtrl,
	"\x1b[1;2F": KeyEnd | ModShift,
	"\x1b[Z":    KeyTab | ModShift,
}

type seqTrie struct {
	children []seqTrie
	key      byte
	value    Keycode
}

func (t *seqTrie) findChild(b byte) *seqTrie {
	for i := range t.children {
		if t.children[i].key == b {
			return &t.children[i]
		}
	}
	return nil
}

func (t *seqTrie) add(seq []byte, value Keycode) {
	node := t
	for _, b := range seq {
		child := node.findChild(b)
		if child == nil {
			node.children = append(node.children, seqTrie{key: b})
			child = &node.children[len(node.children)-1]
		}
		node = child
	}
	node.value = value
}

// match walks buf against the trie. It returns (keyUnknown, rest) for a
// recognized-but-unsupported sequence, (keyIncomplete, origBuf) when more
// bytes are needed, or the matched keycode with mods applied.
func (t *seqTrie) match(buf, origBuf []byte, mods Keycode) (Keycode, []byte) {
	node := t
	for i, b := range buf {
		node = node.findChild(b)
		if node == nil {
			for j := i; j < len(buf); j++ {
				c := buf[j]
				if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '~' {
					return keyUnknown, buf[j+1:]
				}
			}
			return keyIncomplete, origBuf
		}
		if len(node.children) == 0 {
			return node.value | mods, buf[i+1:]
		}
	}
	return keyIncomplete, origBuf
}

var seqMatcher = func() *seqTrie {
	t := &seqTrie{}
	for seq, v := range supportedSeqs {
		t.add([]byte(seq), v)
	}
	return t
}()

// decodeKey parses a single keycode from the prefix of buf, mirroring
// parseKey in the teacher's input.go. It returns keyIncomplete when buf is a
// valid-so-far prefix of a longer sequence and more bytes are needed.
func decodeKey(buf []byte) (Keycode, []byte) {
	orig := buf
	var mods Keycode

	for len(buf) >= 2 {
		if buf[0] != byte(KeyEsc) || buf[1] == 'O' || buf[1] == '[' {
			break
		}
		mods |= ModAlt
		buf = buf[1:]
	}

	if len(buf) == 0 {
		return keyIncomplete, orig
	}

	if buf[0] != byte(KeyEsc) {
		if !utf8.FullRune(buf) {
			return keyIncomplete, orig
		}
		r, l := utf8.DecodeRune(buf)
		return Keycode(r) | mods, buf[l:]
	}

	if len(buf) == 1 {
		// A lone ESC: the caller is responsible for the initial-escape-delay
		// wait before treating this as final.
		return keyIncomplete, orig
	}

	return seqMatcher.match(buf, orig, mods)
}

// Lexer turns a raw byte stream from a terminal into a stream of Keycodes,
// per spec.md §4.1. It owns a background pump goroutine (grounded on
// unxed-vtinput's Reader) so that ESC-sequence disambiguation and the hint
// idle-timeout can both be expressed as channel selects with time.After,
// without needing raw termios VTIME/VMIN plumbing.
type Lexer struct {
	in io.Reader

	mu struct {
		sync.Mutex
		initialEscDelay  time.Duration
		followupEscDelay time.Duration
		resized          bool
	}

	bytesCh chan byte
	errCh   chan error
	started bool

	// pendingBytes holds undigested bytes read from bytesCh, preserved across
	// decode attempts the way the teacher's Prompt.inBytes is.
	pendingBytes []byte

	// keyQueue is the push-back queue of already-decoded keycodes; it has
	// strict FIFO precedence over the raw byte stream (spec.md §5).
	keyQueue []Keycode
	// byteQueue is the push-back queue of raw bytes to re-inject, consumed
	// before any further reads from the input device.
	byteQueue []byte

	stopCh chan struct{}
	once   sync.Once
}

// NewLexer creates a Lexer reading from in. The background pump starts lazily
// on the first call to ReadKey.
func NewLexer(in io.Reader) *Lexer {
	l := &Lexer{
		in:      in,
		bytesCh: make(chan byte, 4096),
		errCh:   make(chan error, 1),
		stopCh:  make(chan struct{}, 1),
	}
	l.mu.initialEscDelay = 100 * time.Millisecond
	l.mu.followupEscDelay = 10 * time.Millisecond
	return l
}

// SetEscDelay configures the initial and followup escape-sequence
// disambiguation delays (spec.md §4.1). Zero or negative values arm no timer
// for the corresponding wait, so the lexer then waits for the next byte with
// no time limit.
func (l *Lexer) SetEscDelay(initial, followup time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mu.initialEscDelay = initial
	l.mu.followupEscDelay = followup
}

func (l *Lexer) escDelays() (time.Duration, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mu.initialEscDelay, l.mu.followupEscDelay
}

func (l *Lexer) ensureStarted() {
	if l.started {
		return
	}
	l.started = true
	go func() {
		buf := make([]byte, 256)
		for {
			n, err := l.in.Read(buf)
			for i := 0; i < n; i++ {
				l.bytesCh <- buf[i]
			}
			if err != nil {
				l.errCh <- err
				return
			}
		}
	}()
}

// Stop delivers an asynchronous EventStop, as if Ctrl-C had been pressed.
// Safe to call from any goroutine; this is the single cross-thread entry
// point spec.md §5 allows (the self-pipe / event-fd equivalent).
func (l *Lexer) Stop() {
	l.once.Do(func() {})
	select {
	case l.stopCh <- struct{}{}:
	default:
	}
}

// PushKeys re-injects keycodes so they are seen before any further keystrokes
// from the user. Callers pushing a sequence of n keycodes must push them in
// reverse so FIFO order matches logical order, per spec.md §4.1.
func (l *Lexer) PushKeys(keys ...Keycode) {
	l.keyQueue = append(keys, l.keyQueue...)
}

// PushBytes re-injects raw bytes ahead of the live input stream.
func (l *Lexer) PushBytes(b []byte) {
	l.byteQueue = append(append([]byte(nil), b...), l.byteQueue...)
}

// ConsumeResized reports and clears the "terminal resized since last query"
// flag (spec.md §4.1's resize detection / §4.8 step 3).
func (l *Lexer) ConsumeResized() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	r := l.mu.resized
	l.mu.resized = false
	return r
}

// MarkResized is called by the host's SIGWINCH (or equivalent) handler.
func (l *Lexer) MarkResized() {
	l.mu.Lock()
	l.mu.resized = true
	l.mu.Unlock()
}

// nextByte returns the next raw byte, honoring the push-back byte queue
// first, then blocking (optionally with a deadline) on the live stream.
func (l *Lexer) nextByte(deadline <-chan time.Time) (byte, bool, error) {
	if len(l.byteQueue) > 0 {
		b := l.byteQueue[0]
		l.byteQueue = l.byteQueue[1:]
		return b, true, nil
	}
	l.ensureStarted()
	select {
	case b := <-l.bytesCh:
		return b, true, nil
	case err := <-l.errCh:
		return 0, false, err
	case <-l.stopCh:
		return 0, false, errStop
	case <-deadline:
		return 0, false, nil
	}
}

var errStop = &stopError{}

type stopError struct{}

func (*stopError) Error() string { return "lineedit: async stop" }

// ReadKey returns the next keycode, blocking as needed. idleTimeout, when
// positive, bounds the wait for the very first byte of a new key (used by
// the editor loop's hint-delay poll in spec.md §4.8 step 3); ReadKeyTimedOut
// is returned on expiry.
func (l *Lexer) ReadKey(idleTimeout time.Duration) (Keycode, error) {
	if len(l.keyQueue) > 0 {
		k := l.keyQueue[0]
		l.keyQueue = l.keyQueue[1:]
		return k, nil
	}

	select {
	case <-l.stopCh:
		return EventStop, nil
	default:
	}

	var timeoutCh <-chan time.Time
	if idleTimeout > 0 {
		t := time.NewTimer(idleTimeout)
		defer t.Stop()
		timeoutCh = t.C
	}

	for {
		if key, rest, ok := tryDecode(l.pendingBytes); ok {
			l.pendingBytes = rest
			return key, nil
		}

		b, got, err := l.nextByte(timeoutCh)
		if !got {
			if err == errStop {
				return EventStop, nil
			}
			if err != nil {
				return 0, err
			}
			return ReadKeyTimedOut, nil
		}
		l.pendingBytes = append(l.pendingBytes, b)

		if len(l.pendingBytes) == 1 && l.pendingBytes[0] == byte(KeyEsc) {
			if key, ok := l.resolveEscape(timeoutCh); ok {
				return key, nil
			}
			if timeoutCh != nil {
				select {
				case <-timeoutCh:
					return ReadKeyTimedOut, nil
				default:
				}
			}
		}
	}
}

// ReadKeyTimedOut is returned by ReadKey when idleTimeout elapses with no
// complete key decoded.
const ReadKeyTimedOut Keycode = eventBase + 0x0F00

// tryDecode attempts to decode a key from buf without blocking. ok is false
// when buf is empty or a strict prefix of a longer sequence.
func tryDecode(buf []byte) (key Keycode, rest []byte, ok bool) {
	if len(buf) == 0 {
		return 0, buf, false
	}
	k, r := decodeKey(buf)
	if k == keyIncomplete {
		return 0, buf, false
	}
	return k, r, true
}

// resolveEscape implements the two-stage ESC disambiguation delay from
// spec.md §4.1: wait up to initialEscDelay for a follow-on byte; once one
// arrives, wait up to followupEscDelay between subsequent bytes of the
// sequence.
func (l *Lexer) resolveEscape(outerDeadline <-chan time.Time) (Keycode, bool) {
	initial, followup := l.escDelays()
	delay := initial
	for {
		if key, rest, ok := tryDecode(l.pendingBytes); ok {
			l.pendingBytes = rest
			return key, true
		}

		var dl <-chan time.Time
		if delay > 0 {
			t := time.NewTimer(delay)
			defer t.Stop()
			dl = t.C
		}

		b, got, err := l.nextByte(dl)
		if !got {
			if err == errStop || err != nil {
				return 0, false
			}
			// Timed out waiting for the next byte of the escape sequence: the
			// pending bytes are final as-is (typically a lone ESC).
			if key, rest, ok := tryDecode(l.pendingBytes); ok {
				l.pendingBytes = rest
				return key, true
			}
			if len(l.pendingBytes) == 1 {
				l.pendingBytes = nil
				return KeyEsc, true
			}
			return 0, false
		}
		l.pendingBytes = append(l.pendingBytes, b)
		delay = followup
	}
}
