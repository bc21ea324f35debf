// Package seed implements the seed phase of alignment (spec §4.I): for each
// read position, the longest exact-prefix walk against a built g-tree index,
// near-duplicate suppression, and a bounded top-K candidate set.
package seed

import (
	"fmt"

	"github.com/grailbio/gtree/bpseq"
)

// MinSeedLen is the minimum trie-walk depth a match must reach before it is
// considered a candidate (spec §6).
const MinSeedLen = 20

// MaxNumSeeds is the size of the bounded top-K candidate set kept per read
// (spec §6).
const MaxNumSeeds = 10

// Candidate is one seed alignment: an exact match of length AlignLen at
// (Desc, Pos) in the reference, against the read starting at the position
// this candidate's walk began. SeqLen mirrors the legacy struct's full
// read-length field (spec §4.I step 4b) rather than the walked prefix
// length -- Seq/SeqLen describe the whole query buffer the walk was taken
// from, AlignLen is the match itself.
type Candidate struct {
	TemplateID string
	Desc       string
	Pos        int64
	Seq        []bpseq.Symbol
	SeqLen     int
	AlignLen   int
	Cigar      string
}

// Result is the seeder's output: a length-sorted (descending AlignLen),
// bounded candidate set. len(Candidates) <= MaxNumSeeds.
type Result struct {
	Candidates []Candidate
}

func newCandidate(templateID, desc string, pos int64, seq []bpseq.Symbol, seqLen, alignLen int) Candidate {
	return Candidate{
		TemplateID: templateID,
		Desc:       desc,
		Pos:        pos,
		Seq:        seq,
		SeqLen:     seqLen,
		AlignLen:   alignLen,
		Cigar:      fmt.Sprintf("%dM", alignLen),
	}
}
