package swext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grailbio/gtree/align"
	"github.com/grailbio/gtree/bpseq"
)

func TestExtendExactMatch(t *testing.T) {
	query := bpseq.SymbolsFromString("ACGTACGT")
	ref := bpseq.SymbolsFromString("ACGTACGT")

	aln, err := New().Extend(query, ref, align.DefaultSchema)
	require.NoError(t, err)
	assert.Equal(t, "8M", aln.Cigar)
	assert.Equal(t, 16, aln.Score)
}

func TestExtendWithFlankingNoise(t *testing.T) {
	query := bpseq.SymbolsFromString("ACGTACGT")
	ref := bpseq.SymbolsFromString("TTTTACGTACGTTTTT")

	aln, err := New().Extend(query, ref, align.DefaultSchema)
	require.NoError(t, err)
	assert.Equal(t, "8M", aln.Cigar)
}

func TestExtendWithInsertionInReference(t *testing.T) {
	query := bpseq.SymbolsFromString("ACGTACGT")
	ref := bpseq.SymbolsFromString("ACGTTACGT")

	aln, err := New().Extend(query, ref, align.DefaultSchema)
	require.NoError(t, err)
	assert.NotEmpty(t, aln.Cigar)
}

func TestExtendNoPositiveAlignment(t *testing.T) {
	query := bpseq.SymbolsFromString("AAAA")
	ref := bpseq.SymbolsFromString("TTTT")
	_, err := New().Extend(query, ref, align.DefaultSchema)
	assert.Error(t, err)
}
