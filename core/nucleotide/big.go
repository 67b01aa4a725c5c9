package nucleotide

import (
	"math/big"
	"strings"
)

// ToNumericBig is ToNumeric without the 32-base ceiling.
func ToNumericBig(seq string) (fwd, rc *big.Int, err error) {
	n := len(seq)
	if n == 0 {
		return nil, nil, ErrTooShort
	}
	fwd, rc = new(big.Int), new(big.Int)
	var v big.Int
	for i := 0; i < n; i++ {
		b := strictTable[seq[i]]
		if b == Invalid {
			return nil, nil, &InvalidBaseError{Pos: i, Symbol: seq[i]}
		}
		fwd.Lsh(fwd, 2)
		fwd.Or(fwd, v.SetUint64(uint64(b)))

		c := strictTable[seq[n-1-i]]
		if c == Invalid {
			return nil, nil, &InvalidBaseError{Pos: n - 1 - i, Symbol: seq[n-1-i]}
		}
		rc.Lsh(rc, 2)
		rc.Or(rc, v.SetUint64(uint64(3-c)))
	}
	return fwd, rc, nil
}

// ToACGTBig decodes the low 2*length bits of code.
func ToACGTBig(code *big.Int, length int) string {
	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		off := 2 * (length - 1 - i)
		v := code.Bit(off+1)<<1 | code.Bit(off)
		sb.WriteByte(symbols[v])
	}
	return sb.String()
}
