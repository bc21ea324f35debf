package seed

import (
	"github.com/grailbio/gtree/bpseq"
	"github.com/grailbio/gtree/gtree"
)

// Seed implements spec §4.I: for each starting position in read, walk the
// index for the longest exact prefix, then fold every concrete location the
// deepest node carries into a bounded, de-duplicated, length-sorted
// candidate set. SameSeedIgnoreDist is fixed to twice the read's own
// length, per spec §6's "a read-length-scale window; fix to the read
// length or a small multiple" -- a single read-length window leaves
// same-motif repeats spaced just over one read length apart unsuppressed,
// which spec §8's S6 scenario (two repeats of an 8bp motif 4bp apart within
// a longer one) requires collapsing to a single candidate.
func Seed(ix *gtree.Index, read []bpseq.Symbol, templateID string) *Result {
	return seedWindow(ix, read, templateID, bpseq.MaxWindowSize, MinSeedLen, 2*int64(len(read)), MaxNumSeeds)
}

// seedWindow is the parameterized core Seed calls with production
// constants; window, minSeedLen, and maxNumSeeds are exposed unexported so
// tests can exercise the small-scale worked scenarios directly, the same
// way gtree.buildWindow lets tests pick a W smaller than
// bpseq.MaxWindowSize.
func seedWindow(ix *gtree.Index, read []bpseq.Symbol, templateID string, window, minSeedLen int, sameSeedIgnoreDist int64, maxNumSeeds int) *Result {
	var candidates []Candidate

	for p := 0; p < len(read); p++ {
		node := ix.Root
		matchLen := 0
		for depth := 0; depth < window; depth++ {
			pos := p + depth
			if pos >= len(read) {
				break
			}
			sym := read[pos]
			if !sym.IsBase() {
				break
			}
			child := node.Descend(sym)
			if child == nil {
				break
			}
			node = child
			matchLen++
		}

		if matchLen < minSeedLen {
			continue
		}

		nMatches := int(node.NMatches)
		if node.TooFull {
			nMatches = 0
		}
		for i := 0; i < nMatches; i++ {
			loc := node.Locs[i]
			desc := ix.Desc(loc.DescIdx)
			if isNearDuplicate(candidates, desc, loc.Pos, sameSeedIgnoreDist) {
				continue
			}
			cand := newCandidate(templateID, desc, loc.Pos, read[p:], len(read), matchLen)
			candidates = insertCandidate(candidates, cand, maxNumSeeds)
		}
	}

	return &Result{Candidates: candidates}
}

func isNearDuplicate(candidates []Candidate, desc string, pos int64, ignoreDist int64) bool {
	for _, c := range candidates {
		if c.Desc != desc {
			continue
		}
		if absInt64(c.Pos-pos) < ignoreDist {
			return true
		}
	}
	return false
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// insertCandidate implements spec §4.I.4.c's bounded top-K insertion: the
// list stays sorted descending by AlignLen; once it reaches maxNumSeeds,
// a new candidate only displaces the current tail if it scores strictly
// higher, and ties keep whichever candidate arrived first.
func insertCandidate(list []Candidate, c Candidate, maxNumSeeds int) []Candidate {
	idx := 0
	for idx < len(list) && list[idx].AlignLen >= c.AlignLen {
		idx++
	}

	if len(list) < maxNumSeeds {
		list = append(list, Candidate{})
		copy(list[idx+1:], list[idx:len(list)-1])
		list[idx] = c
		return list
	}
	if idx >= maxNumSeeds {
		return list
	}
	copy(list[idx+1:], list[idx:len(list)-1])
	list[idx] = c
	return list
}
