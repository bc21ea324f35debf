package refio

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// scanFasta performs the single-scan build described in spec §4.H, grounded
// on the teacher's encoding/fasta.GenerateIndex line-accumulation loop
// (encoding/fasta/index.go), adapted to track a raw byte offset and logical
// base count per contig instead of samtool's line-width fields -- refio's
// .fa contract requires one sequence line per contig, so there is no
// line-wrapping geometry to record.
func scanFasta(path string, r io.Reader) ([]ContigEntry, error) {
	var (
		entries     []ContigEntry
		desc        string
		haveDesc    bool
		contigStart int64
		contigLen   int64
		cumByte     int64
	)

	flush := func() {
		if haveDesc {
			entries = append(entries, ContigEntry{
				Path:        path,
				Desc:        desc,
				ContigStart: uint64(contigStart),
				ContigLen:   uint64(contigLen),
			})
		}
	}

	br := bufio.NewReader(r)
	eof := false
	for !eof {
		line, err := br.ReadBytes('\n')
		if err == io.EOF {
			eof = true
		} else if err != nil {
			return nil, errors.Wrap(err, "refio: scanning FASTA")
		}
		cumByte += int64(len(line))
		trimmed := bytes.TrimRight(line, "\r\n")
		if len(trimmed) == 0 {
			continue
		}
		if trimmed[0] == '>' {
			flush()
			desc = strings.TrimSpace(string(trimmed[1:]))
			haveDesc = true
			contigStart = cumByte
			contigLen = 0
			continue
		}
		if !haveDesc {
			return nil, errors.Errorf("refio: malformed FASTA file: sequence data before first '>' header")
		}
		contigLen += int64(len(trimmed))
	}
	flush()

	if len(entries) == 0 {
		return nil, errors.Errorf("refio: empty FASTA file")
	}
	return entries, nil
}
