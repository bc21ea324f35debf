package gtree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grailbio/gtree/bpseq"
)

func walk(ix *Index, syms ...bpseq.Symbol) *Node {
	n := ix.Root
	for _, s := range syms {
		n = n.Descend(s)
		if n == nil {
			return nil
		}
	}
	return n
}

// TestBuildTinyReference is spec scenario S1: a single 10bp contig with
// W=4 should yield exactly 7 sliding length-4 windows, with the A-C-G-T
// path recording the two occurrences of "ACGT".
func TestBuildTinyReference(t *testing.T) {
	ix := NewIndex()
	require.NoError(t, buildWindow(ix, strings.NewReader(">chr1\nACGTACGTAC\n"), 4))

	require.Equal(t, []string{"chr1"}, ix.Descs)

	for _, sym := range []bpseq.Symbol{bpseq.A, bpseq.C, bpseq.G, bpseq.T} {
		assert.NotNil(t, ix.Root.Descend(sym), "expected root child for %v", sym)
	}

	acgt := walk(ix, bpseq.A, bpseq.C, bpseq.G, bpseq.T)
	require.NotNil(t, acgt)
	assert.EqualValues(t, 2, acgt.NMatches)
	assert.False(t, acgt.TooFull)
	assert.Equal(t, Loc{DescIdx: 0, Pos: 0}, acgt.Locs[0])
	assert.Equal(t, Loc{DescIdx: 0, Pos: 4}, acgt.Locs[1])

	cgta := walk(ix, bpseq.C, bpseq.G, bpseq.T, bpseq.A)
	require.NotNil(t, cgta)
	assert.EqualValues(t, 2, cgta.NMatches)
	assert.Equal(t, Loc{DescIdx: 0, Pos: 1}, cgta.Locs[0])
	assert.Equal(t, Loc{DescIdx: 0, Pos: 5}, cgta.Locs[1])

	gtac := walk(ix, bpseq.G, bpseq.T, bpseq.A, bpseq.C)
	require.NotNil(t, gtac)
	assert.EqualValues(t, 2, gtac.NMatches)
	assert.Equal(t, Loc{DescIdx: 0, Pos: 2}, gtac.Locs[0])
	assert.Equal(t, Loc{DescIdx: 0, Pos: 6}, gtac.Locs[1])

	tacg := walk(ix, bpseq.T, bpseq.A, bpseq.C, bpseq.G)
	require.NotNil(t, tacg)
	assert.EqualValues(t, 1, tacg.NMatches)
	assert.Equal(t, Loc{DescIdx: 0, Pos: 3}, tacg.Locs[0])
}

// TestBuildNReset is spec scenario S2: an N mid-window discards the window
// outright (no replay); no node ever records a location at the N's offset
// or the offset of the base immediately preceding it.
func TestBuildNReset(t *testing.T) {
	ix := NewIndex()
	require.NoError(t, buildWindow(ix, strings.NewReader(">c\nACGNTAC\n"), 3))

	acg := walk(ix, bpseq.A, bpseq.C, bpseq.G)
	require.NotNil(t, acg)
	assert.Equal(t, []Loc{{DescIdx: 0, Pos: 0}}, acg.Locs[:acg.NMatches])

	cg := walk(ix, bpseq.C, bpseq.G)
	require.NotNil(t, cg)
	assert.Equal(t, []Loc{{DescIdx: 0, Pos: 1}}, cg.Locs[:cg.NMatches])

	tac := walk(ix, bpseq.T, bpseq.A, bpseq.C)
	require.NotNil(t, tac)
	assert.Equal(t, []Loc{{DescIdx: 0, Pos: 4}}, tac.Locs[:tac.NMatches])

	var all []Loc
	var collect func(n *Node)
	collect = func(n *Node) {
		if n == nil {
			return
		}
		all = append(all, n.Locs[:n.NMatches]...)
		for _, c := range n.Next {
			collect(c)
		}
	}
	collect(ix.Root)
	for _, loc := range all {
		assert.NotEqual(t, int64(2), loc.Pos, "no location should be recorded at offset 2")
		assert.NotEqual(t, int64(3), loc.Pos, "no location should be recorded at offset 3")
	}
}

// TestBuildOverflow is spec scenario S3: a node accumulating a 5th
// location sets TooFull and keeps only the first K.
func TestBuildOverflow(t *testing.T) {
	ix := NewIndex()
	// "ACGT" occurs 5 times, at offsets 0, 5, 10, 15, 20, each followed by a
	// distinct base so that sliding-window coverage surfaces all 5 hits on
	// the A-C-G-T path without any other length-4 path overflowing (its
	// prefixes A, A-C and A-C-G overflow along with it).
	require.NoError(t, buildWindow(ix, strings.NewReader(">c\nACGTGACGTCACGTAACGTTACGTC\n"), 4))

	acgt := walk(ix, bpseq.A, bpseq.C, bpseq.G, bpseq.T)
	require.NotNil(t, acgt)
	assert.EqualValues(t, MaxLocsPerNode, acgt.NMatches)
	assert.True(t, acgt.TooFull)
	assert.Equal(t, Loc{DescIdx: 0, Pos: 0}, acgt.Locs[0])
	assert.Equal(t, Loc{DescIdx: 0, Pos: 5}, acgt.Locs[1])
	assert.Equal(t, Loc{DescIdx: 0, Pos: 10}, acgt.Locs[2])
	assert.Equal(t, Loc{DescIdx: 0, Pos: 15}, acgt.Locs[3])
}

func TestBuildMalformedFASTA(t *testing.T) {
	ix := NewIndex()
	err := Build(ix, strings.NewReader("ACGT\n"))
	assert.Error(t, err)
}

func TestBuildDescriptorTooLong(t *testing.T) {
	ix := NewIndex()
	err := Build(ix, strings.NewReader(">"+strings.Repeat("x", MaxDescLen+1)+"\nACGT\n"))
	assert.Error(t, err)
}

// TestBuildDescriptorCRLF pins down that a CRLF-terminated header yields the
// same descriptor a same-named LF-terminated one would: refio.scanFasta
// trims a header line the same way, and a seed's Loc.Desc must match the
// reference accessor's ContigEntry.Desc verbatim for lookup to succeed.
func TestBuildDescriptorCRLF(t *testing.T) {
	ix := NewIndex()
	require.NoError(t, Build(ix, strings.NewReader(">chr1\r\nACGT\r\n")))
	require.Equal(t, []string{"chr1"}, ix.Descs)
}

// TestBuildMultiContig exercises header handling and repeated Build calls
// against the same growing index, per the multi-contig note in SPEC_FULL.md.
func TestBuildMultiContig(t *testing.T) {
	ix := NewIndex()
	require.NoError(t, Build(ix, strings.NewReader(">chr1\nACGT\n>chr2\nTTTT\n")))
	require.Equal(t, []string{"chr1", "chr2"}, ix.Descs)

	require.NoError(t, Build(ix, strings.NewReader(">chr3\nGGGG\n")))
	require.Equal(t, []string{"chr1", "chr2", "chr3"}, ix.Descs)

	tttt := walk(ix, bpseq.T, bpseq.T, bpseq.T, bpseq.T)
	require.NotNil(t, tttt)
	assert.Equal(t, int32(1), tttt.Locs[0].DescIdx)

	gggg := walk(ix, bpseq.G, bpseq.G, bpseq.G, bpseq.G)
	require.NotNil(t, gggg)
	assert.Equal(t, int32(2), gggg.Locs[0].DescIdx)
}
