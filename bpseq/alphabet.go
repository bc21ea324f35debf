// Package bpseq implements the base-pair alphabet used throughout the g-tree
// index, and a small buffered reader with enough pushback capacity to support
// the index builder's sliding-window reset.
package bpseq

import "github.com/grailbio/base/log"

// Symbol is a base-pair symbol. Only A, C, G, and T index into a g-tree
// node's children; N forces a window reset wherever it is encountered.
type Symbol byte

const (
	// NoBP is the internal sentinel symbol; it never appears in a decoded
	// read or reference stream.
	NoBP Symbol = iota
	A
	C
	G
	T
	N
)

// String implements fmt.Stringer.
func (s Symbol) String() string {
	switch s {
	case A:
		return "A"
	case C:
		return "C"
	case G:
		return "G"
	case T:
		return "T"
	case N:
		return "N"
	default:
		return "?"
	}
}

// symbolTable maps every possible input byte to a Symbol. Unmapped ASCII
// (anything outside [ACGTNacgtn]) decodes to N, matching spec §4.A: "anything
// else -> N with a warning during build." This is the same array-literal
// lookup-table idiom the teacher uses for ASCII sequence cleaning
// (biosimd.cleanASCIISeqTable), sized for a full byte instead of a nibble.
var symbolTable = func() [256]Symbol {
	var t [256]Symbol
	for i := range t {
		t[i] = N
	}
	t['A'], t['a'] = A, A
	t['C'], t['c'] = C, C
	t['G'], t['g'] = G, G
	t['T'], t['t'] = T, T
	t['N'], t['n'] = N, N
	return t
}()

// childIndex maps A/C/G/T to their position in a g-tree node's 4-way Next
// array. It panics for any other symbol; callers must check IsBase first.
func (s Symbol) childIndex() int {
	switch s {
	case A:
		return 0
	case C:
		return 1
	case G:
		return 2
	case T:
		return 3
	default:
		panic("bpseq: childIndex called on non-base symbol")
	}
}

// ChildIndex is the exported form of childIndex, used by gtree to address
// Node.Next.
func (s Symbol) ChildIndex() int { return s.childIndex() }

// IsBase reports whether s is one of A, C, G, T -- the only symbols that can
// index into a g-tree node.
func (s Symbol) IsBase() bool {
	switch s {
	case A, C, G, T:
		return true
	default:
		return false
	}
}

// FromByte maps a single FASTA/FASTQ input byte to a Symbol, per the table in
// spec §4.A. legalChar is false when b falls outside [ACGTNacgtn]; the
// caller is expected to log a warning in that case (component A logs nothing
// itself -- it's a pure, allocation-free mapping function).
func FromByte(b byte) (sym Symbol, legalChar bool) {
	sym = symbolTable[b]
	switch b {
	case 'A', 'a', 'C', 'c', 'G', 'g', 'T', 't', 'N', 'n':
		legalChar = true
	}
	return sym, legalChar
}

// WarnIfIllegal logs a recoverable warning for a byte outside the legal
// FASTA/FASTQ alphabet, matching spec §7's "illegal sequence character
// treated as N" warning.
func WarnIfIllegal(b byte) {
	log.Error.Printf("bpseq: illegal sequence character %q, treating as N", b)
}

// ByteFromSymbol renders a Symbol back to its canonical uppercase ASCII byte.
// Used by refio.RefCopy callers and tests that need to print a Symbol slice.
func ByteFromSymbol(s Symbol) byte {
	switch s {
	case A:
		return 'A'
	case C:
		return 'C'
	case G:
		return 'G'
	case T:
		return 'T'
	default:
		return 'N'
	}
}

// String renders a slice of Symbol as an uppercase ASCII string.
func String(syms []Symbol) string {
	b := make([]byte, len(syms))
	for i, s := range syms {
		b[i] = ByteFromSymbol(s)
	}
	return string(b)
}

// SymbolsFromString decodes a raw FASTA/FASTQ sequence string into Symbols,
// warning on any byte outside the legal alphabet. Used by fastq.Read
// consumers (align, and the seed tests) to turn a read's sequence line into
// seeder input.
func SymbolsFromString(s string) []Symbol {
	syms := make([]Symbol, len(s))
	for i := 0; i < len(s); i++ {
		sym, legal := FromByte(s[i])
		if !legal {
			WarnIfIllegal(s[i])
		}
		syms[i] = sym
	}
	return syms
}
