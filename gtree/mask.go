package gtree

import (
	"io"

	"github.com/grailbio/gtree/bpseq"
)

// sentinelLoc is the location Mask records: a negative DescIdx flags it as
// not a real reference position (spec §4.E).
var sentinelLoc = Loc{DescIdx: -1, Pos: 0}

// Mask streams a second FASTA source (e.g. a contaminant or adapter
// reference) through an already-built Index, without growing the trie.
// Every node visited along an existing root-to-leaf path gets a sentinel
// location recorded, so that later alignment can recognize the path as
// "seen during masking" without attributing it to any real contig.
//
// Per the Open Question decision recorded in DESIGN.md, a node already
// TooFull from Build never receives a sentinel write: masking an
// already-saturated node would only waste a Locs slot it doesn't have, and
// a node that's TooFull carries no information for a seed to distinguish
// masked-only from genuinely-too-common.
func Mask(ix *Index, r io.Reader) error {
	return maskWindow(ix, r, bpseq.MaxWindowSize)
}

// maskWindow is Mask with an explicit window size, for tests.
func maskWindow(ix *Index, r io.Reader, windowSize int) error {
	w := newWalker(ix, r, false, windowSize, func(int32, int64) Loc {
		return sentinelLoc
	})
	return w.run()
}
