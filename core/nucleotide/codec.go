// core/nucleotide/codec.go
package nucleotide

import "strings"

// Invalid marks a symbol that has no 2-bit code.
const Invalid byte = 4

// MaxK is the longest k-mer that fits a uint64 code.
const MaxK = 32

var (
	strictTable [256]byte // A C G T only
	foldTable   [256]byte // plus a c g t, and U/u read as T
)

const symbols = "ACGT"

func init() {
	for i := range strictTable {
		strictTable[i] = Invalid
		foldTable[i] = Invalid
	}
	for v, c := range []byte(symbols) {
		strictTable[c] = byte(v)
		foldTable[c] = byte(v)
		foldTable[c+'a'-'A'] = byte(v)
	}
	foldTable['U'], foldTable['u'] = 3, 3
}

// Value returns the 2-bit code of an uppercase base, or Invalid.
func Value(b byte) byte { return strictTable[b] }

// Mask returns (1<<2k)-1.
func Mask(k int) uint64 {
	if k >= MaxK {
		return ^uint64(0)
	}
	return (uint64(1) << (2 * uint(k))) - 1
}

// ToNumeric packs seq into its forward and reverse-complement codes.
// A=0 C=1 G=2 T=3, first base in the most significant pair. Empty input
// yields ErrTooShort.
func ToNumeric(seq string) (fwd, rc uint64, err error) {
	k := len(seq)
	if k == 0 {
		return 0, 0, ErrTooShort
	}
	if k > MaxK {
		return 0, 0, &ConfigError{Param: "length", Value: k, Rule: "k-mer must be <= 32; use ToNumericBig"}
	}
	shift := 2 * uint(k-1)
	mask := Mask(k)
	for i := 0; i < k; i++ {
		v := strictTable[seq[i]]
		if v == Invalid {
			return 0, 0, &InvalidBaseError{Pos: i, Symbol: seq[i]}
		}
		fwd = ((fwd << 2) | uint64(v)) & mask
		rc = (rc >> 2) | (uint64(3-v) << shift)
	}
	return fwd, rc, nil
}

// ToACGT decodes the low 2*length bits of code.
func ToACGT(code uint64, length int) string {
	if length <= 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		off := 2 * uint(length-1-i)
		sb.WriteByte(symbols[(code>>off)&3])
	}
	return sb.String()
}

// RevCompCode returns the reverse complement of a packed k-mer.
func RevCompCode(code uint64, k int) uint64 {
	var r uint64
	for i := 0; i < k; i++ {
		r = (r << 2) | (^code & 3)
		code >>= 2
	}
	return r
}

// Canonical returns min(fwd, rc) and whether the forward strand won.
func Canonical(fwd, rc uint64) (uint64, bool) {
	if fwd <= rc {
		return fwd, true
	}
	return rc, false
}
