package bpseq

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

// MaxWindowSize is W, the g-tree's fixed trie depth, and also the minimum
// pushback capacity a Reader must support (spec §4.A, §6).
const MaxWindowSize = 32

// Reader wraps a byte stream with a LIFO pushback buffer of capacity at
// least MaxWindowSize. Unlike the legacy C implementation's process-wide
// PUSHBACK_BUFFER, a Reader is owned by its caller (typically a gtree
// Build or Mask call) so that independent builds never share pushback
// state (spec §5, §9).
type Reader struct {
	r        *bufio.Reader
	pushback []byte // stack; pushback[len-1] is the next byte Get() returns
}

// NewReader constructs a Reader with pushback capacity at least
// MaxWindowSize bytes.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		r:        bufio.NewReader(r),
		pushback: make([]byte, 0, MaxWindowSize),
	}
}

// Get returns the next byte, preferring any pushed-back bytes (LIFO) over the
// underlying stream. It returns io.EOF when the stream is exhausted.
func (rd *Reader) Get() (byte, error) {
	if n := len(rd.pushback); n > 0 {
		b := rd.pushback[n-1]
		rd.pushback = rd.pushback[:n-1]
		return b, nil
	}
	return rd.r.ReadByte()
}

// Unget pushes b back onto the reader; the next Get call returns it. Calling
// Unget more than MaxWindowSize times without an intervening Get is an
// invariant violation in this core (the window can never exceed W bytes)
// and panics rather than silently growing unbounded.
func (rd *Reader) Unget(b byte) {
	if len(rd.pushback) == cap(rd.pushback) {
		panic(errors.Errorf("bpseq: pushback buffer exceeded capacity %d", cap(rd.pushback)))
	}
	rd.pushback = append(rd.pushback, b)
}

// UngetAll pushes back a window buffer in the LIFO order required by spec
// §4.D's reset policy: for window bytes [b0, b1, ..., b(m-1)], push
// b(m-1), b(m-2), ..., b1 so that the next byte read is b1. b0 is the
// single byte that remains "consumed" by the reset (it contributed to the
// running offset but is not replayed).
func (rd *Reader) UngetAll(window []byte) {
	for i := len(window) - 1; i >= 1; i-- {
		rd.Unget(window[i])
	}
}
