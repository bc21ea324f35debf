package align

import (
	"bufio"
	"fmt"
	"io"

	"github.com/biogo/hts/sam"
)

// Writer is a thin plain-text SAM emitter (spec §6): an @SQ header line per
// reference, then one record line per extended seed. biogo/hts's bam
// package is intentionally not used here -- SAM is the canonical output
// format and BAM emission is explicitly not required (spec §1, §6).
type Writer struct {
	w *bufio.Writer
}

// NewWriter wraps w in a Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteHeader writes one "@SQ\tSN:<desc>\tLN:<len>" line per reference, in
// the order given.
func (sw *Writer) WriteHeader(refs []*sam.Reference) error {
	for _, ref := range refs {
		if _, err := fmt.Fprintf(sw.w, "@SQ\tSN:%s\tLN:%d\n", ref.Name(), ref.Len()); err != nil {
			return err
		}
	}
	return nil
}

// WriteRecord writes one SAM record line for rec, per spec §6's field
// mapping: QNAME, FLAG, RNAME, POS (1-based), MAPQ=*, CIGAR, then RNEXT/
// PNEXT/TLEN placeholders (this façade does not do paired-end mapping), and
// SEQ/QUAL from the originating read.
func (sw *Writer) WriteRecord(rec *sam.Record, seq, qual string) error {
	rname := "*"
	pos := 0
	if rec.Ref != nil {
		rname = rec.Ref.Name()
		pos = rec.Pos + 1
	}
	cigar := "*"
	if len(rec.Cigar) > 0 {
		cigar = rec.Cigar.String()
	}
	_, err := fmt.Fprintf(sw.w, "%s\t%d\t%s\t%d\t*\t%s\t*\t0\t0\t%s\t%s\n",
		rec.Name, int(rec.Flags), rname, pos, cigar, seq, qual)
	return err
}

// Flush flushes buffered output to the underlying writer.
func (sw *Writer) Flush() error {
	return sw.w.Flush()
}
