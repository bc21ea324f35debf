package gtree

// Index owns a g-tree's root node and the interned table of contig
// descriptor strings every Loc.DescIdx refers into. Descs preserves
// first-appearance order in the source FASTA, matching the ordered
// seqNames/seqs pairing the teacher's fasta package uses for the same
// purpose (name list for order, map for O(1) lookup).
type Index struct {
	Root  *Node
	Descs []string

	internTable map[string]int32
}

// NewIndex returns an empty index: a fresh root node and an empty intern
// table.
func NewIndex() *Index {
	return &Index{
		Root:        NewNode(),
		internTable: make(map[string]int32),
	}
}

// Destroy releases the trie and the intern table. Go's garbage collector
// would reclaim this memory unaided, but Destroy is kept as an explicit,
// named lifecycle operation (spec §3's "destroyed ... in one shot") so that
// callers holding a very large index can release it deterministically
// between build phases.
func (ix *Index) Destroy() {
	ix.Root.Destroy()
	ix.Root = nil
	ix.Descs = nil
	ix.internTable = nil
}

// intern returns the index of desc in Descs, adding it if this is its first
// appearance.
func (ix *Index) intern(desc string) int32 {
	if idx, ok := ix.internTable[desc]; ok {
		return idx
	}
	idx := int32(len(ix.Descs))
	ix.Descs = append(ix.Descs, desc)
	ix.internTable[desc] = idx
	return idx
}

// Desc returns the descriptor string at idx, or "" if idx is out of range or
// negative (the mask-sentinel encoding).
func (ix *Index) Desc(idx int32) string {
	if idx < 0 || int(idx) >= len(ix.Descs) {
		return ""
	}
	return ix.Descs[idx]
}

// rebuildInternTable reconstructs internTable from Descs, used after
// Deserialize populates Descs directly.
func (ix *Index) rebuildInternTable() {
	ix.internTable = make(map[string]int32, len(ix.Descs))
	for i, d := range ix.Descs {
		ix.internTable[d] = int32(i)
	}
}
