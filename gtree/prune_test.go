package gtree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grailbio/gtree/bpseq"
)

// TestPruneDropsTooFullLeaf is spec scenario S5: a childless TooFull node is
// removed, and its parent's link to it is nilled.
func TestPruneDropsTooFullLeaf(t *testing.T) {
	ix := NewIndex()
	require.NoError(t, buildWindow(ix, strings.NewReader(">c\nACGT\n"), 4))

	acg := walk(ix, bpseq.A, bpseq.C, bpseq.G)
	require.NotNil(t, acg)
	leaf := acg.Descend(bpseq.T)
	require.NotNil(t, leaf)
	leaf.TooFull = true

	Prune(ix)

	assert.Nil(t, acg.Descend(bpseq.T))
}

func TestPruneKeepsTooFullWithChildren(t *testing.T) {
	ix := NewIndex()
	require.NoError(t, buildWindow(ix, strings.NewReader(">c\nACGTA\n"), 5))

	acgt := walk(ix, bpseq.A, bpseq.C, bpseq.G, bpseq.T)
	require.NotNil(t, acgt)
	acgt.TooFull = true // force, regardless of how many locations it actually holds

	Prune(ix)

	// acgt still has a child (the trailing "A"), so it must survive.
	acg := walk(ix, bpseq.A, bpseq.C, bpseq.G)
	require.NotNil(t, acg)
	assert.NotNil(t, acg.Descend(bpseq.T))
}

func TestPruneIsIdempotent(t *testing.T) {
	ix := NewIndex()
	require.NoError(t, buildWindow(ix, strings.NewReader(">c\nACGT\n"), 4))
	walk(ix, bpseq.A, bpseq.C, bpseq.G).Descend(bpseq.T).TooFull = true

	Prune(ix)
	countAfterFirst := ix.Root.Count()
	Prune(ix)
	assert.Equal(t, countAfterFirst, ix.Root.Count())
}
