// Package gtree implements the g-tree index: a four-way prefix trie of
// bounded depth over a reference DNA sequence, its streaming construction,
// the mask and prune transforms, and a binary serialization format.
package gtree

import "github.com/grailbio/gtree/bpseq"

// MaxLocsPerNode is K, the number of locations a node stores inline before
// it is marked TooFull (spec §6).
const MaxLocsPerNode = 4

// MaxDescLen is the maximum length, in bytes, of an interned contig
// descriptor string (spec §6).
const MaxDescLen = 100

// Loc is a (contig, offset) location recorded at one depth of the trie.
// DescIdx indexes Index.Descs; a negative DescIdx encodes the sentinel
// location written by Mask (spec §4.E) once a node is visited but not
// newly grown. This stores the intern index directly rather than a
// pointer, per the simplification the spec itself recommends (§9).
type Loc struct {
	DescIdx int32
	Pos     int64
}

// IsSentinel reports whether the location is the nil-descriptor sentinel
// written by Mask.
func (l Loc) IsSentinel() bool { return l.DescIdx < 0 }

// Node is one node of the g-tree. Next holds an owning pointer to each
// possible child, indexed by bpseq.Symbol.ChildIndex() (A, C, G, T).
type Node struct {
	TooFull  bool
	NMatches uint8
	Next     [4]*Node
	Locs     [MaxLocsPerNode]Loc
}

// NewNode returns a freshly allocated, empty node.
func NewNode() *Node {
	return &Node{}
}

// Descend returns the child reached by following sym, or nil if absent. It
// never allocates.
func (n *Node) Descend(sym bpseq.Symbol) *Node {
	return n.Next[sym.ChildIndex()]
}

// GetOrCreateChild returns the existing child reached by sym, allocating one
// if absent.
func (n *Node) GetOrCreateChild(sym bpseq.Symbol) *Node {
	idx := sym.ChildIndex()
	if n.Next[idx] == nil {
		n.Next[idx] = NewNode()
	}
	return n.Next[idx]
}

// addLoc records loc at this node, applying the K/TooFull policy from
// spec §4.D step 3: append while under capacity, flip TooFull exactly once
// on the (K+1)-th arrival, and discard silently thereafter.
func (n *Node) addLoc(loc Loc) {
	if n.TooFull {
		return
	}
	if int(n.NMatches) < MaxLocsPerNode {
		n.Locs[n.NMatches] = loc
		n.NMatches++
		return
	}
	n.TooFull = true
}

// Count returns the total number of nodes in the subtree rooted at n,
// including n itself. Iterative, using an explicit stack of at most
// 3*MaxWindowSize+1 entries (spec §4.B).
func (n *Node) Count() int {
	if n == nil {
		return 0
	}
	count := 0
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count++
		for _, child := range cur.Next {
			if child != nil {
				stack = append(stack, child)
			}
		}
	}
	return count
}

// Destroy recursively frees n and all of its descendants. It is implemented
// with an explicit stack (at most 3*bpseq.MaxWindowSize+1 entries) rather
// than recursion, per spec §4.B and the legacy implementation's note that
// deep recursion here should be avoided even though Go's default stack can
// grow to accommodate it.
func (n *Node) Destroy() {
	if n == nil {
		return
	}
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for i, child := range cur.Next {
			if child != nil {
				stack = append(stack, child)
				cur.Next[i] = nil
			}
		}
	}
}
