package align

import (
	"regexp"
	"strconv"

	"github.com/biogo/hts/sam"
	"github.com/pkg/errors"
)

// cigarOpRE matches one leading CIGAR op ("20M", "3I", ...), the same
// op-code set the teacher's bam package round-trips through
// sam.CigarOpType (encoding/bam/util_test.go's makeCigar helper).
var cigarOpRE = regexp.MustCompile(`^(\d+)([MIDNSHP=X])`)

var cigarOpCodes = map[byte]sam.CigarOpType{
	'M': sam.CigarMatch,
	'I': sam.CigarInsertion,
	'D': sam.CigarDeletion,
	'N': sam.CigarSkipped,
	'S': sam.CigarSoftClipped,
	'H': sam.CigarHardClipped,
	'P': sam.CigarPadded,
	'=': sam.CigarEqual,
	'X': sam.CigarMismatch,
}

// parseCigar decodes an Extender's CIGAR string (e.g. "20M", "18M1D2M") into
// the op sequence sam.Record.Cigar expects.
func parseCigar(s string) (sam.Cigar, error) {
	if s == "" || s == "*" {
		return nil, nil
	}
	var ops sam.Cigar
	for len(s) > 0 {
		m := cigarOpRE.FindStringSubmatch(s)
		if m == nil {
			return nil, errors.Errorf("align: malformed CIGAR string %q", s)
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, errors.Wrapf(err, "align: malformed CIGAR length in %q", s)
		}
		ops = append(ops, sam.NewCigarOp(cigarOpCodes[m[2][0]], n))
		s = s[len(m[0]):]
	}
	return ops, nil
}
