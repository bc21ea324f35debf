package gtree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grailbio/gtree/bpseq"
)

func TestMaskDoesNotGrowTrie(t *testing.T) {
	ix := NewIndex()
	require.NoError(t, buildWindow(ix, strings.NewReader(">c\nACGT\n"), 4))

	beforeCount := ix.Root.Count()
	require.NoError(t, maskWindow(ix, strings.NewReader(">m\nTTTT\n"), 4))
	assert.Equal(t, beforeCount, ix.Root.Count(), "Mask must not add any nodes")
}

func TestMaskSentinelLocation(t *testing.T) {
	ix := NewIndex()
	require.NoError(t, buildWindow(ix, strings.NewReader(">c\nACGT\n"), 4))
	require.NoError(t, maskWindow(ix, strings.NewReader(">m\nACGT\n"), 4))

	acgt := walk(ix, bpseq.A, bpseq.C, bpseq.G, bpseq.T)
	require.NotNil(t, acgt)
	require.EqualValues(t, 2, acgt.NMatches)
	assert.Equal(t, Loc{DescIdx: 0, Pos: 0}, acgt.Locs[0])
	assert.True(t, acgt.Locs[1].IsSentinel())
	assert.Equal(t, Loc{DescIdx: -1, Pos: 0}, acgt.Locs[1])
}

func TestMaskSkipsTooFullNode(t *testing.T) {
	ix := NewIndex()
	require.NoError(t, buildWindow(ix, strings.NewReader(">c\nACGTGACGTCACGTAACGTTACGTC\n"), 4))

	acgt := walk(ix, bpseq.A, bpseq.C, bpseq.G, bpseq.T)
	require.NotNil(t, acgt)
	require.True(t, acgt.TooFull)
	require.EqualValues(t, MaxLocsPerNode, acgt.NMatches)

	require.NoError(t, maskWindow(ix, strings.NewReader(">m\nACGT\n"), 4))

	// A TooFull node must never receive a sentinel write.
	assert.EqualValues(t, MaxLocsPerNode, acgt.NMatches)
	for _, loc := range acgt.Locs {
		assert.False(t, loc.IsSentinel())
	}
}

func TestMaskMissingChildSlidesWithoutCreating(t *testing.T) {
	ix := NewIndex()
	require.NoError(t, buildWindow(ix, strings.NewReader(">c\nACGT\n"), 4))

	// The root has no "G" child in the built index (its only children are
	// A and C), so masking a sequence starting with G must not create a
	// "G" root child.
	require.NoError(t, maskWindow(ix, strings.NewReader(">m\nGGGG\n"), 4))
	assert.Nil(t, ix.Root.Descend(bpseq.G))
}
