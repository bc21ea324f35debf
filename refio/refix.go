package refio

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// writeRefix serializes entries in the .refix binary layout of spec §6:
// int32 n_contigs, then per contig int32 path_len, path bytes, int32
// desc_len, desc bytes, uint64 contig_start, uint64 contig_len.
func writeRefix(w io.Writer, entries []ContigEntry) error {
	bw := bufio.NewWriter(w)

	if err := binary.Write(bw, binary.BigEndian, int32(len(entries))); err != nil {
		return errors.Wrap(err, "refio: writing contig count")
	}
	for _, e := range entries {
		if err := writeRefixString(bw, e.Path); err != nil {
			return errors.Wrap(err, "refio: writing contig path")
		}
		if err := writeRefixString(bw, e.Desc); err != nil {
			return errors.Wrap(err, "refio: writing contig descriptor")
		}
		if err := binary.Write(bw, binary.BigEndian, e.ContigStart); err != nil {
			return errors.Wrap(err, "refio: writing contig start")
		}
		if err := binary.Write(bw, binary.BigEndian, e.ContigLen); err != nil {
			return errors.Wrap(err, "refio: writing contig length")
		}
	}
	return bw.Flush()
}

func writeRefixString(w *bufio.Writer, s string) error {
	if err := binary.Write(w, binary.BigEndian, int32(len(s))); err != nil {
		return err
	}
	_, err := w.WriteString(s)
	return err
}

// readRefix deserializes the layout writeRefix produces.
func readRefix(r io.Reader) ([]ContigEntry, error) {
	br := bufio.NewReader(r)

	var n int32
	if err := binary.Read(br, binary.BigEndian, &n); err != nil {
		return nil, errors.Wrap(err, "refio: reading contig count")
	}
	if n < 0 {
		return nil, errors.Errorf("refio: corrupt sidecar: negative contig count %d", n)
	}

	entries := make([]ContigEntry, n)
	for i := range entries {
		path, err := readRefixString(br)
		if err != nil {
			return nil, errors.Wrap(err, "refio: reading contig path")
		}
		desc, err := readRefixString(br)
		if err != nil {
			return nil, errors.Wrap(err, "refio: reading contig descriptor")
		}
		var start, length uint64
		if err := binary.Read(br, binary.BigEndian, &start); err != nil {
			return nil, errors.Wrap(err, "refio: reading contig start")
		}
		if err := binary.Read(br, binary.BigEndian, &length); err != nil {
			return nil, errors.Wrap(err, "refio: reading contig length")
		}
		entries[i] = ContigEntry{Path: path, Desc: desc, ContigStart: start, ContigLen: length}
	}
	return entries, nil
}

func readRefixString(r *bufio.Reader) (string, error) {
	var n int32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return "", err
	}
	if n < 0 {
		return "", errors.Errorf("refio: corrupt sidecar: negative string length %d", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
