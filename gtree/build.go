package gtree

import (
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/grailbio/gtree/bpseq"
)

// walker holds the mutable state of a single streaming pass over a FASTA
// reader: the current trie position, the rolling window of accepted bases
// (and each byte's true contig-relative offset), the descriptor of the
// contig currently being scanned, and the running byte-offset bookkeeping.
// Both Build (component D) and Mask (component E) share this state
// machine; they differ only in whether a missing child may be created and
// in what location gets registered at each visited node.
type walker struct {
	ix      *Index
	r       *bpseq.Reader
	curNode *Node

	// window and windowOffsets are parallel: windowOffsets[i] is the true,
	// 0-based contig offset of window[i]. windowOffsets[0] is therefore the
	// starting offset of the path currently being traced from the root,
	// which is what gets recorded as Loc.Pos at every depth reached while
	// this window is alive (spec §4.D: every prefix of a window shares the
	// window's start offset).
	window        []byte
	windowOffsets []int64

	// replayOffsets holds the true offsets of bytes that are about to be
	// re-read from the pushback buffer after a reset, in the order they
	// will be read. Consuming it here (rather than re-deriving offsets
	// from a rolling counter across a pushback/replay boundary) keeps the
	// offset bookkeeping exact regardless of how many resets nest.
	replayOffsets []int64
	// offset is the true offset that will be assigned to the next freshly
	// read (non-replayed) sequence byte.
	offset int64

	curDescIdx  int32
	haveDesc    bool
	createChild bool
	windowSize  int
	makeLoc     func(descIdx int32, pos int64) Loc
}

// Build streams a FASTA reference through r, inserting a (contig, offset)
// location for every root-to-depth<=W path, per spec §4.D. It may be called
// repeatedly against the same Index to incorporate additional FASTA shards
// (e.g. per-chromosome files) into one growing index; each call's internal
// window/trie-position state starts fresh at the root, but contig
// descriptors keep accumulating into the shared intern table.
func Build(ix *Index, r io.Reader) error {
	return buildWindow(ix, r, bpseq.MaxWindowSize)
}

// buildWindow is Build with an explicit window size, letting tests exercise
// the algorithm at the small W values spec's worked scenarios use without
// disturbing the production MaxWindowSize.
func buildWindow(ix *Index, r io.Reader, windowSize int) error {
	w := newWalker(ix, r, true, windowSize, func(descIdx int32, pos int64) Loc {
		return Loc{DescIdx: descIdx, Pos: pos}
	})
	return w.run()
}

func newWalker(ix *Index, r io.Reader, createChild bool, windowSize int, makeLoc func(int32, int64) Loc) *walker {
	return &walker{
		ix:          ix,
		r:           bpseq.NewReader(r),
		curNode:     ix.Root,
		createChild: createChild,
		windowSize:  windowSize,
		makeLoc:     makeLoc,
	}
}

// nextOffset returns the true contig offset for the byte currently being
// consumed, drawing from the replay queue first (for bytes that are being
// re-read after a reset) and otherwise advancing the running counter.
func (w *walker) nextOffset() int64 {
	if n := len(w.replayOffsets); n > 0 {
		off := w.replayOffsets[0]
		w.replayOffsets = w.replayOffsets[1:]
		return off
	}
	off := w.offset
	w.offset++
	return off
}

func (w *walker) run() error {
	for {
		b, err := w.r.Get()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "gtree: reading FASTA stream")
		}

		switch {
		case b == '\n' || b == '\r':
			continue

		case b == '>' && len(w.window) == 0:
			if err := w.readDesc(); err != nil {
				return err
			}

		case b == '>':
			// '>' is a structural marker, not a sequence byte: it does not
			// consume an offset slot. The window so far belongs to a
			// finished contig and is not a candidate for sliding-window
			// replay (there is no "next window" to slide into), so it is
			// simply discarded; '>' is pushed back to be read fresh, with
			// the window now empty, on the next iteration.
			w.r.Unget(b)
			w.discardWindow()

		default:
			if !w.haveDesc {
				return errors.Errorf("gtree: malformed FASTA file: sequence data before first '>' header")
			}
			sym, legal := bpseq.FromByte(b)
			if !legal {
				bpseq.WarnIfIllegal(b)
			}
			if sym == bpseq.N {
				w.nextOffset() // N occupies a contig offset slot but is never part of a window.
				w.discardWindow()
				continue
			}
			w.acceptBase(b, sym)
		}
	}
}

// readDesc consumes bytes up to (not including) the next newline or EOF into
// a fresh descriptor string, interns it, and resets contig-relative state.
// The raw bytes are trimmed the same way refio.scanFasta trims a header
// line (strings.TrimSpace after stripping '\r'), so a CRLF-terminated or
// trailing-whitespace FASTA header yields the identical descriptor the
// reference accessor looks entries up by -- otherwise a seed built from
// this index would never resolve against refio.Ref.
func (w *walker) readDesc() error {
	var sb strings.Builder
	for {
		b, err := w.r.Get()
		if err == io.EOF || b == '\n' {
			break
		}
		if err != nil {
			return errors.Wrap(err, "gtree: reading FASTA header")
		}
		sb.WriteByte(b)
	}
	desc := strings.TrimSpace(sb.String())
	if len(desc) > MaxDescLen {
		return errors.Errorf("gtree: contig descriptor %q exceeds MaxDescLen (%d)", desc, MaxDescLen)
	}
	w.curDescIdx = w.ix.intern(desc)
	w.haveDesc = true
	w.offset = 0
	w.replayOffsets = nil
	w.curNode = w.ix.Root
	w.window = w.window[:0]
	w.windowOffsets = w.windowOffsets[:0]
	return nil
}

// acceptBase descends (or attempts to descend, per w.createChild) the trie
// one step for sym, registers a location at the resulting node keyed by the
// window's starting offset, and triggers a length-W window reset if
// needed.
func (w *walker) acceptBase(raw byte, sym bpseq.Symbol) {
	byteOffset := w.nextOffset()

	var next *Node
	if w.createChild {
		next = w.curNode.GetOrCreateChild(sym)
	} else {
		next = w.curNode.Descend(sym)
		if next == nil {
			// Mask must not grow the trie: treat this as an implicit
			// slide (same mechanics as a length-W reset) and resume
			// one byte later.
			w.window = append(w.window, raw)
			w.windowOffsets = append(w.windowOffsets, byteOffset)
			w.slideWindow()
			return
		}
	}

	w.window = append(w.window, raw)
	w.windowOffsets = append(w.windowOffsets, byteOffset)
	w.curNode = next
	next.addLoc(w.makeLoc(w.curDescIdx, w.windowOffsets[0]))

	if len(w.window) == w.windowSize {
		w.slideWindow()
	}
}

// slideWindow implements spec §4.D's reset-and-replay policy for a window
// that reached length W: push back all but the first byte of the window
// (LIFO, so the next byte read is window[1]), return to the root, and queue
// up the true offsets of the bytes about to be replayed so the next
// window's starting offset is exact. This is what gives every length-W
// substring of a contig, not just non-overlapping ones, a path in the trie.
func (w *walker) slideWindow() {
	m := len(w.window)
	if m > 0 {
		w.r.UngetAll(w.window)
		if len(w.replayOffsets) > 0 {
			// Bytes still pending from an earlier replay are read after the
			// ones just pushed back, so their offsets go after them too.
			w.replayOffsets = append(append([]int64(nil), w.windowOffsets[1:]...), w.replayOffsets...)
		} else {
			w.replayOffsets = append(w.replayOffsets[:0], w.windowOffsets[1:]...)
		}
	}
	w.curNode = w.ix.Root
	w.window = w.window[:0]
	w.windowOffsets = w.windowOffsets[:0]
}

// discardWindow abandons the current window outright, with no replay: used
// when a window is interrupted before reaching length W (by an N or a new
// contig header), where there is no well-formed "next window" to slide
// into, so sliding would only reinsert already-registered shorter prefixes.
func (w *walker) discardWindow() {
	w.curNode = w.ix.Root
	w.window = w.window[:0]
	w.windowOffsets = w.windowOffsets[:0]
}
