package kmer

import (
	"sync"

	"kmertools/core/nucleotide"
)

// MaxTableK bounds the dense 4^k tables (4^12 int32 entries = 64 MiB).
const MaxTableK = 12

// BinTable maps raw k-mer codes onto canonical bins. Bins are numbered by
// ascending canonical code, which is also lexicographic label order.
type BinTable struct {
	K int
	// Index[raw] is the bin of raw and of its reverse complement.
	Index []int32
	// Codes[bin] is the canonical (smaller) code of the bin.
	Codes []uint64

	canonOnce, rawOnce sync.Once
	canonical, raw     []string
}

type tableEntry struct {
	once sync.Once
	t    *BinTable
}

var tables sync.Map // int -> *tableEntry

// Bins returns the process-wide table for k, building it on first use.
func Bins(k int) (*BinTable, error) {
	if err := nucleotide.CheckRange("k", k, 1, MaxTableK); err != nil {
		return nil, err
	}
	v, _ := tables.LoadOrStore(k, &tableEntry{})
	e := v.(*tableEntry)
	e.once.Do(func() { e.t = buildBins(k) })
	return e.t, nil
}

func buildBins(k int) *BinTable {
	n := uint64(1) << (2 * uint(k))
	t := &BinTable{
		K:     k,
		Index: make([]int32, n),
		Codes: make([]uint64, 0, CanonicalCount(k)),
	}
	// Ascending scan: a code is a new bin exactly when it is <= its revcomp,
	// so Codes comes out sorted.
	for c := uint64(0); c < n; c++ {
		rc := nucleotide.RevCompCode(c, k)
		if c <= rc {
			t.Index[c] = int32(len(t.Codes))
			t.Codes = append(t.Codes, c)
		} else {
			t.Index[c] = t.Index[rc]
		}
	}
	return t
}

// CanonicalCount is the number of canonical k-mers of length k:
// (4^k + 4^(k/2))/2 for even k, 4^k/2 for odd k.
func CanonicalCount(k int) int {
	all := 1 << (2 * uint(k))
	if k%2 == 1 {
		return all / 2
	}
	return (all + 1<<uint(k)) / 2
}

// Count is the number of bins.
func (t *BinTable) Count() int { return len(t.Codes) }

// Bin returns the bin of a k-mer given either of its codes.
func (t *BinTable) Bin(code uint64) int { return int(t.Index[code]) }

// Labels returns ACGT labels: one per bin when canonical, else all 4^k
// codes in numeric order. The slice is a copy.
func (t *BinTable) Labels(canonical bool) []string {
	if canonical {
		t.canonOnce.Do(func() {
			t.canonical = make([]string, len(t.Codes))
			for i, c := range t.Codes {
				t.canonical[i] = nucleotide.ToACGT(c, t.K)
			}
		})
		return append([]string(nil), t.canonical...)
	}
	t.rawOnce.Do(func() {
		t.raw = make([]string, len(t.Index))
		for c := range t.raw {
			t.raw[c] = nucleotide.ToACGT(uint64(c), t.K)
		}
	})
	return append([]string(nil), t.raw...)
}
