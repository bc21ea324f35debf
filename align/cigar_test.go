package align

import (
	"testing"

	"github.com/biogo/hts/sam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCigarSingleOp(t *testing.T) {
	ops, err := parseCigar("20M")
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, sam.CigarMatch, ops[0].Type())
	assert.Equal(t, 20, ops[0].Len())
}

func TestParseCigarMultiOp(t *testing.T) {
	ops, err := parseCigar("18M1D2M")
	require.NoError(t, err)
	require.Len(t, ops, 3)
	assert.Equal(t, sam.CigarMatch, ops[0].Type())
	assert.Equal(t, 18, ops[0].Len())
	assert.Equal(t, sam.CigarDeletion, ops[1].Type())
	assert.Equal(t, 1, ops[1].Len())
	assert.Equal(t, sam.CigarMatch, ops[2].Type())
	assert.Equal(t, 2, ops[2].Len())
}

func TestParseCigarEmptyAndStar(t *testing.T) {
	ops, err := parseCigar("")
	require.NoError(t, err)
	assert.Nil(t, ops)

	ops, err = parseCigar("*")
	require.NoError(t, err)
	assert.Nil(t, ops)
}

func TestParseCigarMalformed(t *testing.T) {
	_, err := parseCigar("abc")
	assert.Error(t, err)
}
