// Package refio implements the reference accessor (spec §4.H): a lazily
// built offset sidecar over a FASTA reference, and refcpy, a bounded random
// read into one contig mapped through the base-pair alphabet.
package refio

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/grailbio/gtree/bpseq"
)

// ContigEntry is one row of the .refix sidecar: the FASTA path it was built
// from, the interned descriptor, the byte offset of the contig's first
// sequence byte, and its length in bases.
type ContigEntry struct {
	Path        string
	Desc        string
	ContigStart uint64
	ContigLen   uint64
}

// Ref is an opened reference: the ordered contig table plus one dedicated
// *os.File handle per contig, matching spec §4.H ("opens a dedicated file
// handle per contig").
type Ref struct {
	entries []ContigEntry
	files   []*os.File
}

// Load looks for basePath+".fa" and basePath+".refix". If the sidecar is
// absent it is built with a single FASTA scan and written out; either way
// the sidecar is the source of the contig table, and a fresh file handle is
// opened per contig.
func Load(basePath string) (*Ref, error) {
	fastaPath := basePath + ".fa"
	refixPath := basePath + ".refix"

	entries, err := loadOrBuildRefix(fastaPath, refixPath)
	if err != nil {
		return nil, err
	}

	files := make([]*os.File, len(entries))
	for i, e := range entries {
		f, err := os.Open(e.Path)
		if err != nil {
			closeAll(files)
			return nil, errors.Wrapf(err, "refio: opening contig %q", e.Desc)
		}
		files[i] = f
	}
	return &Ref{entries: entries, files: files}, nil
}

func loadOrBuildRefix(fastaPath, refixPath string) ([]ContigEntry, error) {
	if f, err := os.Open(refixPath); err == nil {
		defer f.Close()
		return readRefix(f)
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "refio: opening sidecar")
	}

	fa, err := os.Open(fastaPath)
	if err != nil {
		return nil, errors.Wrap(err, "refio: opening reference FASTA")
	}
	defer fa.Close()

	entries, err := scanFasta(fastaPath, fa)
	if err != nil {
		return nil, err
	}

	out, err := os.Create(refixPath)
	if err != nil {
		return nil, errors.Wrap(err, "refio: creating sidecar")
	}
	defer out.Close()
	if err := writeRefix(out, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func closeAll(files []*os.File) {
	for _, f := range files {
		if f != nil {
			f.Close()
		}
	}
}

func (r *Ref) lookup(desc string) (*ContigEntry, *os.File, error) {
	for i := range r.entries {
		if r.entries[i].Desc == desc {
			return &r.entries[i], r.files[i], nil
		}
	}
	return nil, nil, errors.Errorf("refio: unknown descriptor %q", desc)
}

// Entries returns the ordered contig table, for callers (e.g. align, cmd/aln)
// that need to build a SAM @SQ header without reaching into Ref's internals.
func (r *Ref) Entries() []ContigEntry {
	return r.entries
}

// RefCopy implements refcpy from spec §4.H: it seeks to contigStart+offset,
// reads up to length bytes, maps each through the base-pair alphabet, and
// stops early at EOF or the contig's end. actualLen is the number of
// symbols actually copied, always <= length.
func (r *Ref) RefCopy(desc string, offset int64, length int) ([]bpseq.Symbol, int, error) {
	entry, file, err := r.lookup(desc)
	if err != nil {
		return nil, 0, err
	}
	if offset < 0 {
		return nil, 0, errors.Errorf("refio: negative offset %d", offset)
	}

	n := int64(length)
	if remaining := int64(entry.ContigLen) - offset; remaining < n {
		n = remaining
	}
	if n <= 0 {
		return nil, 0, nil
	}

	buf := make([]byte, n)
	read, err := file.ReadAt(buf, int64(entry.ContigStart)+offset)
	if err != nil && err != io.EOF {
		return nil, 0, errors.Wrapf(err, "refio: reading contig %q", desc)
	}

	symbols := make([]bpseq.Symbol, read)
	for i := 0; i < read; i++ {
		sym, legal := bpseq.FromByte(buf[i])
		if !legal {
			bpseq.WarnIfIllegal(buf[i])
		}
		symbols[i] = sym
	}
	return symbols, read, nil
}

// Close releases every per-contig file handle, returning the first error
// encountered, if any.
func (r *Ref) Close() error {
	var firstErr error
	for _, f := range r.files {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
