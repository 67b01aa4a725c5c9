package oligo

import (
	"context"
	"errors"
	"math"
	"sort"
	"testing"

	"kmertools/core/batch"
	"kmertools/core/nucleotide"
)

var reads = [][]byte{
	[]byte("AAAATGATGAAATAGAGAGACTTTATTAA"),
	[]byte("GATTACAGATTACACCGGTTAAGGCCTTAAACCCGGGTTTACGTACGTAGCTAGCTAGGATCCA"),
	[]byte("ACGT"),
	[]byte("CCCCCCCCCCCCCCCCCCCCGGGGG"),
}

// reference counts canonical k-mers through string labels only.
func reference(seq string, k int) map[string]float64 {
	m := map[string]float64{}
	n := len(seq) - k + 1
	for i := 0; i < n; i++ {
		s := seq[i : i+k]
		rc := string(nucleotide.RevComp([]byte(s)))
		if rc < s {
			s = rc
		}
		m[s] += 1 / float64(n)
	}
	return m
}

func TestHeaderLengths(t *testing.T) {
	c, err := New(4)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(c.Header(true)); n != 136 {
		t.Fatalf("canonical header %d, want 136", n)
	}
	if n := len(c.Header(false)); n != 256 {
		t.Fatalf("raw header %d, want 256", n)
	}
	c3, _ := New(3)
	if c3.Len() != 32 || len(c3.Header(true)) != 32 {
		t.Fatalf("order 3: %d bins", c3.Len())
	}
	h := c.Header(true)
	if !sort.StringsAreSorted(h) {
		t.Fatal("canonical header must be in ascending order")
	}
}

func TestVectorMatchesReference(t *testing.T) {
	c, _ := New(4)
	header := c.Header(true)
	vecs, err := c.VectoriseBatch(context.Background(), reads)
	if err != nil {
		t.Fatal(err)
	}
	for r, vec := range vecs {
		ref := reference(string(reads[r]), 4)
		sum := 0.0
		for i, v := range vec {
			sum += v
			if math.Abs(v-ref[header[i]]) > 1e-9 {
				t.Fatalf("read %d %s: %f, want %f", r, header[i], v, ref[header[i]])
			}
		}
		if math.Abs(sum-1) > 1e-6 {
			t.Fatalf("read %d sums to %f", r, sum)
		}
	}
}

func TestUnnormalizedAndAmbiguous(t *testing.T) {
	c, _ := New(4, WithPolicy(nucleotide.Lenient))
	v, err := c.VectoriseOne([]byte("AAAANGAGA"))
	if err != nil {
		t.Fatal(err)
	}
	if v[0] != 0.5 {
		t.Fatalf("AAAA frequency = %f, want 0.5", v[0])
	}
	raw, _ := New(4, WithPolicy(nucleotide.Lenient), WithNorm(false))
	v, _ = raw.VectoriseOne([]byte("AAAANGAGA"))
	if v[0] != 1 {
		t.Fatalf("AAAA count = %f, want 1", v[0])
	}
}

func TestShortSequenceIsZero(t *testing.T) {
	c, _ := New(4)
	v, err := c.VectoriseOne([]byte("ACG"))
	if err != nil {
		t.Fatal(err)
	}
	if len(v) != 136 {
		t.Fatalf("len %d", len(v))
	}
	for _, x := range v {
		if x != 0 {
			t.Fatal("short sequence must give a zero vector")
		}
	}
}

func TestBatchIsolatesFailures(t *testing.T) {
	c, _ := New(3, WithThreads(2))
	seqs := [][]byte{[]byte("ACGTAC"), []byte("ACXGT"), []byte("TTTT")}
	vecs, err := c.VectoriseBatch(context.Background(), seqs)
	var be *batch.Error
	if !errors.As(err, &be) || len(be.Items) != 1 || be.Items[0].Index != 1 {
		t.Fatalf("want a single failure at index 1, got %v", err)
	}
	if !errors.Is(err, nucleotide.ErrInvalidBase) {
		t.Fatal("cause must be ErrInvalidBase")
	}
	if vecs[0] == nil || vecs[1] != nil || vecs[2] == nil {
		t.Fatal("only the failed entry may be nil")
	}
}

func TestConfig(t *testing.T) {
	for _, k := range []int{0, -2, 13} {
		if _, err := New(k); !errors.Is(err, nucleotide.ErrConfig) {
			t.Errorf("order %d: %v", k, err)
		}
	}
}
