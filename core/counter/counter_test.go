package counter

import (
	"context"
	"errors"
	"testing"

	"kmertools/core/batch"
	"kmertools/core/nucleotide"
)

func TestCounterCanonicalTallies(t *testing.T) {
	c, err := New(3, nucleotide.Strict)
	if err != nil {
		t.Fatal(err)
	}
	// ACG and its revcomp CGT share a bin.
	if err := c.Add([]byte("ACGT")); err != nil {
		t.Fatal(err)
	}
	acg, _, _ := nucleotide.ToNumeric("ACG")
	cgt, _, _ := nucleotide.ToNumeric("CGT")
	if c.Get(acg) != 2 || c.Get(cgt) != 2 {
		t.Fatalf("ACG=%d CGT=%d, want 2", c.Get(acg), c.Get(cgt))
	}
	if c.Len() != 1 {
		t.Fatalf("distinct = %d", c.Len())
	}
}

func TestCounterConcurrentAdds(t *testing.T) {
	c, _ := New(4, nucleotide.Strict)
	seqs := make([][]byte, 200)
	for i := range seqs {
		seqs[i] = []byte("AAAAACCCCCGGGGGTTTTT")
	}
	if err := batch.Map(context.Background(), 8, len(seqs), func(i int) error { return c.Add(seqs[i]) }); err != nil {
		t.Fatal(err)
	}
	total := uint64(0)
	sorted := c.Sorted()
	for i, ct := range sorted {
		if i > 0 && sorted[i-1].Code >= ct.Code {
			t.Fatal("Sorted must be ascending")
		}
		total += uint64(ct.Count)
	}
	if total != 200*17 {
		t.Fatalf("total %d, want %d", total, 200*17)
	}
	// AAAA x2 and TTTT x2 per read
	if c.Get(0) != 200*4 {
		t.Fatalf("AAAA = %d", c.Get(0))
	}
}

func TestCounterInvalidBase(t *testing.T) {
	c, _ := New(2, nucleotide.Strict)
	if err := c.Add([]byte("ACNGT")); !errors.Is(err, nucleotide.ErrInvalidBase) {
		t.Fatalf("want ErrInvalidBase, got %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("k-mers before the bad base must stay counted")
	}
}

func TestHistogram(t *testing.T) {
	c, _ := New(3, nucleotide.Strict)
	for i := 0; i < 5; i++ {
		_ = c.Add([]byte("AAAA"))
	}
	_ = c.Add([]byte("CCCG"))
	// AAA seen 10 times, CCC and CCG once each.
	v, err := Histogram([]byte("AAAACCCG"), 3, nucleotide.Strict, c, 4, 3, false)
	if err != nil {
		t.Fatal(err)
	}
	// AAA x2 -> bin 2 (10/4 = 2), AAC/ACC -> 0, CCC/CCG -> 0
	want := []float64{4, 0, 2}
	for i := range want {
		if v[i] != want[i] {
			t.Fatalf("hist = %v, want %v", v, want)
		}
	}
	n, _ := Histogram([]byte("AAAACCCG"), 3, nucleotide.Strict, c, 4, 3, true)
	if n[2] != 2.0/6 {
		t.Fatalf("normalized = %v", n)
	}
	if _, err := Histogram(nil, 3, nucleotide.Strict, c, 0, 3, true); !errors.Is(err, nucleotide.ErrConfig) {
		t.Fatalf("bin-size 0: %v", err)
	}
}
