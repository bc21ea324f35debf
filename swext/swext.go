// Package swext is a concrete Smith-Waterman implementation of
// align.Extender. The core (spec §1) treats seed extension as an external,
// black-box collaborator; this package supplements that boundary with a
// real default so cmd/aln has something to extend seeds with, in the same
// flat row-major matrix style the teacher uses for its own Levenshtein
// implementation (util/distance.go).
package swext

import (
	"fmt"
	"strings"

	"github.com/grailbio/gtree/align"
	"github.com/grailbio/gtree/bpseq"
)

// matrix is a row-major (nRow x nCol) int matrix, the same flat-array idiom
// util.matrix uses for Levenshtein.
type matrix struct {
	nRow, nCol int
	data       []int
}

func newMatrix(n, m int) matrix {
	return matrix{nRow: n, nCol: m, data: make([]int, n*m)}
}

func (mx matrix) at(i, j int) int { return mx.data[i*mx.nCol+j] }
func (mx matrix) set(i, j, v int) { mx.data[i*mx.nCol+j] = v }

const negInf = -1 << 30

// direction tags the traceback pointer stored per cell.
type direction uint8

const (
	dirNone direction = iota
	dirDiag
	dirUp
	dirLeft
)

// Extender is a Gotoh affine-gap local-alignment implementation of
// align.Extender.
type Extender struct{}

// New returns a ready-to-use Extender.
func New() *Extender { return &Extender{} }

// Extend performs local (Smith-Waterman) alignment of query against ref
// under schema's affine-gap scoring, using Gotoh's three-matrix recurrence
// (H: best score ending at (i,j); E: best score ending with reference bases
// set against a gap, emitted as D; F: best score ending with query bases set
// against a gap, emitted as I). It returns the CIGAR string
// for the single highest-scoring local alignment found.
func (e *Extender) Extend(query, ref []bpseq.Symbol, schema align.Schema) (align.Alignment, error) {
	n, m := len(query), len(ref)
	if n == 0 || m == 0 {
		return align.Alignment{}, fmt.Errorf("swext: empty query or reference (query=%d, ref=%d)", n, m)
	}

	h := newMatrix(n+1, m+1)
	e_ := newMatrix(n+1, m+1)
	f := newMatrix(n+1, m+1)
	trace := newMatrix(n+1, m+1)

	for j := 0; j <= m; j++ {
		e_.set(0, j, negInf)
	}
	for i := 0; i <= n; i++ {
		f.set(i, 0, negInf)
	}

	bestScore, bestI, bestJ := 0, 0, 0
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			e_.set(i, j, max2(h.at(i, j-1)-schema.GapOpen, e_.at(i, j-1)-schema.GapExtend))
			f.set(i, j, max2(h.at(i-1, j)-schema.GapOpen, f.at(i-1, j)-schema.GapExtend))

			diag := h.at(i-1, j-1) + pairScore(query[i-1], ref[j-1], schema)

			best := 0
			dir := dirNone
			if diag > best {
				best, dir = diag, dirDiag
			}
			if e_.at(i, j) > best {
				best, dir = e_.at(i, j), dirLeft
			}
			if f.at(i, j) > best {
				best, dir = f.at(i, j), dirUp
			}
			h.set(i, j, best)
			trace.set(i, j, int(dir))

			if best > bestScore {
				bestScore, bestI, bestJ = best, i, j
			}
		}
	}

	if bestScore == 0 {
		return align.Alignment{}, fmt.Errorf("swext: no positive-scoring local alignment found")
	}

	cigar := traceback(trace, bestI, bestJ)
	return align.Alignment{Cigar: cigar, Score: bestScore}, nil
}

func pairScore(q, r bpseq.Symbol, schema align.Schema) int {
	if !q.IsBase() || !r.IsBase() {
		return schema.AmbiguousScore
	}
	if q == r {
		return schema.Match
	}
	return schema.Mismatch
}

func max2(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// traceback walks the pointer matrix back from (i,j) to the first cell with
// no incoming pointer (H drops to 0, per local alignment's reset rule),
// emitting run-length-encoded CIGAR ops in M/I/D vocabulary.
func traceback(trace matrix, i, j int) string {
	type run struct {
		op  byte
		len int
	}
	var runs []run
	push := func(op byte) {
		if len(runs) > 0 && runs[len(runs)-1].op == op {
			runs[len(runs)-1].len++
			return
		}
		runs = append(runs, run{op: op, len: 1})
	}

	for i > 0 && j > 0 {
		switch direction(trace.at(i, j)) {
		case dirDiag:
			push('M')
			i--
			j--
		case dirUp:
			push('I')
			i--
		case dirLeft:
			push('D')
			j--
		default:
			i, j = 0, 0
		}
	}

	var sb strings.Builder
	for k := len(runs) - 1; k >= 0; k-- {
		fmt.Fprintf(&sb, "%d%c", runs[k].len, runs[k].op)
	}
	return sb.String()
}
