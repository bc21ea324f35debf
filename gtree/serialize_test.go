package gtree

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grailbio/gtree/bpseq"
)

// assertNodesEqual recursively compares two trees for structural and
// location equality, independent of any pointer identity.
func assertNodesEqual(t *testing.T, want, got *Node, path string) {
	t.Helper()
	if want == nil || got == nil {
		assert.Equal(t, want == nil, got == nil, "node presence mismatch at %q", path)
		return
	}
	assert.Equal(t, want.TooFull, got.TooFull, "TooFull mismatch at %q", path)
	assert.Equal(t, want.NMatches, got.NMatches, "NMatches mismatch at %q", path)
	assert.Equal(t, want.Locs[:want.NMatches], got.Locs[:got.NMatches], "Locs mismatch at %q", path)
	for i, sym := range []string{"A", "C", "G", "T"} {
		assertNodesEqual(t, want.Next[i], got.Next[i], path+sym)
	}
}

// TestSerializeRoundTrip is spec scenario S4: serializing and deserializing
// S1's tiny reference index must reproduce it node-for-node.
func TestSerializeRoundTrip(t *testing.T) {
	ix := NewIndex()
	require.NoError(t, buildWindow(ix, strings.NewReader(">chr1\nACGTACGTAC\n"), 4))

	var buf bytes.Buffer
	require.NoError(t, Serialize(ix, &buf))

	got, err := Deserialize(&buf)
	require.NoError(t, err)

	assert.Equal(t, ix.Descs, got.Descs)
	assertNodesEqual(t, ix.Root, got.Root, "")
}

func TestSerializeRoundTripWithOverflowAndMultipleContigs(t *testing.T) {
	ix := NewIndex()
	require.NoError(t, buildWindow(ix, strings.NewReader(">chr1\nACGTGACGTCACGTAACGTTACGTC\n>chr2\nTTTT\n"), 4))

	var buf bytes.Buffer
	require.NoError(t, Serialize(ix, &buf))

	got, err := Deserialize(&buf)
	require.NoError(t, err)

	assert.Equal(t, ix.Descs, got.Descs)
	assertNodesEqual(t, ix.Root, got.Root, "")

	acgt := walk(got, bpseq.A, bpseq.C, bpseq.G, bpseq.T)
	require.NotNil(t, acgt)
	assert.True(t, acgt.TooFull)
	assert.EqualValues(t, MaxLocsPerNode, acgt.NMatches)
}

func TestSerializeEmptyIndex(t *testing.T) {
	ix := NewIndex()

	var buf bytes.Buffer
	require.NoError(t, Serialize(ix, &buf))

	got, err := Deserialize(&buf)
	require.NoError(t, err)
	assert.Empty(t, got.Descs)
	assertNodesEqual(t, ix.Root, got.Root, "")
}

func TestDeserializeRejectsMissingRoot(t *testing.T) {
	var buf bytes.Buffer
	// descriptor count 0, then no node bytes at all (truncated stream).
	buf.Write([]byte{0, 0, 0, 0})

	_, err := Deserialize(&buf)
	assert.Error(t, err)
}

func TestDeserializeRejectsUnknownTag(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0, 0, 0, 0}) // descriptor count 0
	buf.WriteByte(0x42)           // bogus root tag

	_, err := Deserialize(&buf)
	assert.Error(t, err)
}
