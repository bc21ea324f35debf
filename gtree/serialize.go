package gtree

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// node tag bytes, spec §4.G.
const (
	tagAbsent byte = 0x00
	tagNode   byte = 0x01
)

// Serialize writes ix in the depth-first binary format of spec §4.G:
// a descriptor table followed by the trie in A, C, G, T pre-order.
// It is guarded recursion rather than an explicit stack -- safe for the
// bounded depth (MaxWindowSize) this core ever builds, per spec §4.G's own
// allowance.
func Serialize(ix *Index, w io.Writer) error {
	bw := bufio.NewWriter(w)

	if err := binary.Write(bw, binary.BigEndian, int32(len(ix.Descs))); err != nil {
		return errors.Wrap(err, "gtree: writing descriptor count")
	}
	for _, desc := range ix.Descs {
		if len(desc) > MaxDescLen {
			return errors.Errorf("gtree: descriptor %q exceeds MaxDescLen (%d)", desc, MaxDescLen)
		}
		if err := binary.Write(bw, binary.BigEndian, uint64(len(desc))); err != nil {
			return errors.Wrap(err, "gtree: writing descriptor length")
		}
		if _, err := bw.WriteString(desc); err != nil {
			return errors.Wrap(err, "gtree: writing descriptor bytes")
		}
		if err := bw.WriteByte(0); err != nil {
			return errors.Wrap(err, "gtree: writing descriptor terminator")
		}
	}

	if err := serializeNode(bw, ix.Root); err != nil {
		return err
	}
	return bw.Flush()
}

func serializeNode(w *bufio.Writer, n *Node) error {
	if n == nil {
		return w.WriteByte(tagAbsent)
	}
	if err := w.WriteByte(tagNode); err != nil {
		return errors.Wrap(err, "gtree: writing node tag")
	}
	tooFull := byte(0)
	if n.TooFull {
		tooFull = 1
	}
	if err := w.WriteByte(tooFull); err != nil {
		return errors.Wrap(err, "gtree: writing TooFull flag")
	}
	if err := w.WriteByte(n.NMatches); err != nil {
		return errors.Wrap(err, "gtree: writing NMatches")
	}
	for _, child := range n.Next {
		if err := serializeNode(w, child); err != nil {
			return err
		}
	}
	for i := 0; i < int(n.NMatches); i++ {
		loc := n.Locs[i]
		if err := binary.Write(w, binary.BigEndian, loc.DescIdx); err != nil {
			return errors.Wrap(err, "gtree: writing location descriptor index")
		}
		if err := binary.Write(w, binary.BigEndian, loc.Pos); err != nil {
			return errors.Wrap(err, "gtree: writing location offset")
		}
	}
	return nil
}

// Deserialize reads an Index back from the format Serialize writes.
func Deserialize(r io.Reader) (*Index, error) {
	br := bufio.NewReader(r)

	var nDesc int32
	if err := binary.Read(br, binary.BigEndian, &nDesc); err != nil {
		return nil, errors.Wrap(err, "gtree: reading descriptor count")
	}
	if nDesc < 0 {
		return nil, errors.Errorf("gtree: corrupt index: negative descriptor count %d", nDesc)
	}

	ix := &Index{Descs: make([]string, 0, nDesc)}
	for i := int32(0); i < nDesc; i++ {
		var n uint64
		if err := binary.Read(br, binary.BigEndian, &n); err != nil {
			return nil, errors.Wrap(err, "gtree: reading descriptor length")
		}
		if n > uint64(MaxDescLen) {
			return nil, errors.Errorf("gtree: corrupt index: descriptor length %d exceeds MaxDescLen (%d)", n, MaxDescLen)
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(br, buf); err != nil {
			return nil, errors.Wrap(err, "gtree: reading descriptor bytes")
		}
		term, err := br.ReadByte()
		if err != nil {
			return nil, errors.Wrap(err, "gtree: reading descriptor terminator")
		}
		if term != 0 {
			return nil, errors.Errorf("gtree: corrupt index: descriptor %q missing NUL terminator", buf)
		}
		ix.Descs = append(ix.Descs, string(buf))
	}
	ix.rebuildInternTable()

	root, err := deserializeNode(br)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, errors.Errorf("gtree: corrupt index: root node is absent")
	}
	ix.Root = root
	return ix, nil
}

func deserializeNode(r *bufio.Reader) (*Node, error) {
	tag, err := r.ReadByte()
	if err != nil {
		return nil, errors.Wrap(err, "gtree: reading node tag")
	}
	switch tag {
	case tagAbsent:
		return nil, nil
	case tagNode:
		// fall through
	default:
		return nil, errors.Errorf("gtree: corrupt index: unknown node tag 0x%02x", tag)
	}

	n := NewNode()
	tooFull, err := r.ReadByte()
	if err != nil {
		return nil, errors.Wrap(err, "gtree: reading TooFull flag")
	}
	n.TooFull = tooFull != 0

	nMatches, err := r.ReadByte()
	if err != nil {
		return nil, errors.Wrap(err, "gtree: reading NMatches")
	}
	if int(nMatches) > MaxLocsPerNode {
		return nil, errors.Errorf("gtree: corrupt index: NMatches %d exceeds MaxLocsPerNode (%d)", nMatches, MaxLocsPerNode)
	}
	n.NMatches = nMatches

	for i := range n.Next {
		child, err := deserializeNode(r)
		if err != nil {
			return nil, err
		}
		n.Next[i] = child
	}

	for i := 0; i < int(n.NMatches); i++ {
		var descIdx int32
		var pos int64
		if err := binary.Read(r, binary.BigEndian, &descIdx); err != nil {
			return nil, errors.Wrap(err, "gtree: reading location descriptor index")
		}
		if err := binary.Read(r, binary.BigEndian, &pos); err != nil {
			return nil, errors.Wrap(err, "gtree: reading location offset")
		}
		n.Locs[i] = Loc{DescIdx: descIdx, Pos: pos}
	}

	return n, nil
}
