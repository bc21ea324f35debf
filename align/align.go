// Package align implements the aligner façade (spec §4.J): it glues the
// seeder to an external, black-box extension stage and emits one SAM
// record per extended seed. The Smith-Waterman extension itself is out of
// scope (spec §1) -- this package only specifies the Extender interface the
// core consumes.
package align

import (
	"github.com/biogo/hts/sam"
	"github.com/pkg/errors"

	"github.com/grailbio/gtree/bpseq"
	"github.com/grailbio/gtree/gtree"
	"github.com/grailbio/gtree/encoding/fastq"
	"github.com/grailbio/gtree/refio"
	"github.com/grailbio/gtree/seed"
)

// RefPaddingLen is the number of reference bases fetched on either side of a
// seed's aligned span before extension (spec §6).
const RefPaddingLen = 50

// MaxCigarStrLen bounds the length of a CIGAR string this package will
// accept from an Extender (spec §6); a longer string indicates a runaway or
// malformed extension result.
const MaxCigarStrLen = 200

// Schema carries the fixed Smith-Waterman scoring constants from spec §4.J
// as named fields, not inlined magic numbers.
type Schema struct {
	Match          int
	Mismatch       int
	GapOpen        int
	GapExtend      int
	AmbiguousScore int
}

// DefaultSchema is the canonical scoring schema spec §4.J bakes in: match
// +2, mismatch -2, gap-open 3, gap-extend 1, ambiguous base neutral.
var DefaultSchema = Schema{
	Match:          2,
	Mismatch:       -2,
	GapOpen:        3,
	GapExtend:      1,
	AmbiguousScore: 0,
}

// Alignment is the result of extending one seed: a CIGAR string describing
// the gapped alignment and its score under Schema.
type Alignment struct {
	Cigar string
	Score int
}

// Extender is the black-box Smith-Waterman seed-extension stage (spec §1,
// §4.J): given a query, a reference substring, and a scoring schema, it
// returns a gapped alignment. Implementations live outside this package
// (swext provides one).
type Extender interface {
	Extend(query []bpseq.Symbol, ref []bpseq.Symbol, schema Schema) (Alignment, error)
}

// Aligner glues the seeder, the reference accessor, and an Extender into
// one per-read pipeline (spec §4.J): Seed -> RefCopy(+-RefPaddingLen) ->
// Extend -> one sam.Record per extended candidate.
type Aligner struct {
	ix     *gtree.Index
	ref    *refio.Ref
	ext    Extender
	schema Schema
	refs   map[string]*sam.Reference
}

// NewAligner builds an Aligner over an already-built index and opened
// reference accessor, with refs providing the @SQ header entries (desc ->
// *sam.Reference) the façade attaches to every emitted record.
func NewAligner(ix *gtree.Index, ref *refio.Ref, ext Extender, refs map[string]*sam.Reference) *Aligner {
	return &Aligner{ix: ix, ref: ref, ext: ext, schema: DefaultSchema, refs: refs}
}

// AlignRead runs the full façade pipeline for one FASTQ read: seed, extend
// every candidate, and emit one sam.Record per successfully extended seed.
// A candidate whose reference fetch or extension fails is logged (spec §7's
// "extension returned no valid start" recoverable warning) and skipped;
// AlignRead only returns an error for a structural problem in the
// extender's CIGAR: over-length (spec §6's MaxCigarStrLen) or unparsable.
func (a *Aligner) AlignRead(read fastq.Read) ([]*sam.Record, error) {
	query := bpseq.SymbolsFromString(read.Seq)
	result := seed.Seed(a.ix, query, read.ID)

	records := make([]*sam.Record, 0, len(result.Candidates))
	for _, c := range result.Candidates {
		rec, ok, err := a.extendCandidate(read, c)
		if err != nil {
			return nil, err
		}
		if ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (a *Aligner) extendCandidate(read fastq.Read, c seed.Candidate) (*sam.Record, bool, error) {
	start := c.Pos - RefPaddingLen
	if start < 0 {
		start = 0
	}
	length := c.SeqLen + 2*RefPaddingLen

	refSeq, _, err := a.ref.RefCopy(c.Desc, start, length)
	if err != nil {
		warnf("align: reference fetch failed for %s @ %s:%d: %v", c.TemplateID, c.Desc, c.Pos, err)
		return nil, false, nil
	}

	alignment, err := a.ext.Extend(c.Seq, refSeq, a.schema)
	if err != nil {
		warnf("align: extension failed for %s @ %s:%d: %v", c.TemplateID, c.Desc, c.Pos, err)
		return nil, false, nil
	}
	if len(alignment.Cigar) > MaxCigarStrLen {
		return nil, false, errors.Errorf("align: extender returned a CIGAR string of length %d, exceeds MaxCigarStrLen (%d)", len(alignment.Cigar), MaxCigarStrLen)
	}

	cigar, err := parseCigar(alignment.Cigar)
	if err != nil {
		return nil, false, errors.Wrapf(err, "align: parsing CIGAR for %s @ %s:%d", c.TemplateID, c.Desc, c.Pos)
	}

	ref := a.refs[c.Desc]
	rec := &sam.Record{
		Name:  read.ID,
		Ref:   ref,
		Pos:   int(c.Pos),
		MapQ:  255, // spec §6: MAPQ=* -- this façade never computes mapping quality.
		Cigar: cigar,
		// FLAG=0: forward-strand only, a known limitation (spec §9, §6).
		Flags: 0,
		Seq:   sam.NewSeq([]byte(read.Seq)),
		Qual:  []byte(read.Qual),
	}
	return rec, true, nil
}
