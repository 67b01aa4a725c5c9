// core/nucleotide/rc.go
package nucleotide

// complement maps IUPAC symbols in both cases; zero means unknown.
var complement = func() (t [256]byte) {
	const pairs = "ATCGRYKMBVDHSSWWNN"
	for i := 0; i < len(pairs); i += 2 {
		a, b := pairs[i], pairs[i+1]
		t[a], t[b] = b, a
		t[a|0x20], t[b|0x20] = b|0x20, a|0x20
	}
	return t
}()

// RevComp returns the reverse complement of seq. Unknown symbols become N.
func RevComp(seq []byte) []byte {
	n := len(seq)
	if n == 0 {
		return nil
	}
	out := make([]byte, n)
	for i, b := range seq {
		c := complement[b]
		if c == 0 {
			c = 'N'
		}
		out[n-1-i] = c
	}
	return out
}

// Strand of a k-mer occurrence relative to its canonical form.
type Strand int8

const (
	Forward Strand = 1
	Reverse Strand = -1
)

func (s Strand) String() string {
	if s == Reverse {
		return "-"
	}
	return "+"
}
