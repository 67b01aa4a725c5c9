package minimiser

import (
	"errors"
	"math/rand"
	"testing"

	"kmertools/core/kmer"
	"kmertools/core/nucleotide"
)

const refSeq = "ATGCGATATCGTAGGCGTCGATGGAGAGCTAGATCGATCGATCTAAATCCCGATCGATTCCGAGCGCGATCAAAGCGCGATAGGCTAGCTAAAGCTAGCA"

func TestMinimiserScenario(t *testing.T) {
	g, err := NewSpan([]byte(refSeq), 31, 7)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"ACGATAT", "ACGCCTA", "AGAGCTA", "AAATCCC", "AATCCCG", "AATCGAT", "AAAGCGC"}
	var got []string
	for r := range g.All() {
		got = append(got, g.ToACGT(r.Code))
	}
	if len(got) < len(want) {
		t.Fatalf("got %d minimizers: %v", len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("minimizer %d = %s, want %s", i, got[i], want[i])
		}
	}
}

type naiveWin struct {
	code uint64
	pos  int
}

// naive recomputes every window from scratch.
func naive(t *testing.T, seq []byte, k, w int) []naiveWin {
	t.Helper()
	kg, _ := kmer.New(seq, k)
	pairs, err := kg.Collect()
	if err != nil {
		t.Fatal(err)
	}
	var out []naiveWin
	for s := 0; s+w <= len(pairs); s++ {
		best := naiveWin{code: pairs[s].Canonical(), pos: s}
		for i := s + 1; i < s+w; i++ {
			if c := pairs[i].Canonical(); c < best.code {
				best = naiveWin{code: c, pos: i}
			}
		}
		out = append(out, best)
	}
	return out
}

func randomSeq(rng *rand.Rand, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = "ACGT"[rng.Intn(4)]
	}
	return b
}

func TestEveryWindowMatchesNaive(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 200; trial++ {
		seq := randomSeq(rng, 1+rng.Intn(120))
		k := 1 + rng.Intn(9)
		w := 1 + rng.Intn(15)
		g, err := New(seq, k, w, WithDedup(EveryWindow))
		if err != nil {
			t.Fatal(err)
		}
		got, err := g.Collect()
		if err != nil {
			t.Fatal(err)
		}
		want := naive(t, seq, k, w)
		if n := max(0, (len(seq)-k+1)-w+1); len(got) != n {
			t.Fatalf("len=%d k=%d w=%d: %d records, want %d", len(seq), k, w, len(got), n)
		}
		for i := range want {
			if got[i].Code != want[i].code || got[i].Position != want[i].pos {
				t.Fatalf("window %d: got (%d,%d) want (%d,%d)", i, got[i].Code, got[i].Position, want[i].code, want[i].pos)
			}
			if got[i].WindowStart != i || got[i].WindowEnd != i+w-1+k {
				t.Fatalf("window %d span [%d,%d)", i, got[i].WindowStart, got[i].WindowEnd)
			}
		}
	}
}

func TestMinimumOfWindow(t *testing.T) {
	seq := []byte(refSeq)
	k, w := 5, 8
	kg, _ := kmer.New(seq, k)
	pairs, _ := kg.Collect()
	g, _ := New(seq, k, w, WithDedup(EveryWindow))
	recs, _ := g.Collect()
	for s, r := range recs {
		for i := s; i < s+w; i++ {
			if r.Code > pairs[i].Canonical() {
				t.Fatalf("window %d: minimizer %d exceeds k-mer %d", s, r.Code, i)
			}
		}
		p := pairs[r.Position]
		wantStrand := nucleotide.Forward
		if p.Forward > p.Reverse {
			wantStrand = nucleotide.Reverse
		}
		if r.Strand != wantStrand {
			t.Fatalf("window %d: strand %v, want %v", s, r.Strand, wantStrand)
		}
	}
}

func TestDedupAdjacentCollapsesRuns(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	seq := randomSeq(rng, 300)
	all, _ := New(seq, 6, 10, WithDedup(EveryWindow))
	every, _ := all.Collect()
	d, _ := New(seq, 6, 10)
	dedup, _ := d.Collect()

	var want []Record
	for _, r := range every {
		if len(want) > 0 && want[len(want)-1].Position == r.Position {
			continue
		}
		want = append(want, r)
	}
	if len(dedup) != len(want) {
		t.Fatalf("dedup %d records, want %d", len(dedup), len(want))
	}
	for i := range want {
		if dedup[i] != want[i] {
			t.Fatalf("record %d = %+v, want %+v", i, dedup[i], want[i])
		}
	}
}

func TestShortAndWholeSequence(t *testing.T) {
	g, _ := New([]byte("ACGTA"), 3, 4)
	if recs, err := g.Collect(); err != nil || len(recs) != 0 {
		t.Fatalf("3 k-mers cannot fill a window of 4: %v %v", recs, err)
	}
	g, _ = NewSpan([]byte(refSeq), 0, 10)
	recs, err := g.Collect()
	if err != nil || len(recs) != 1 {
		t.Fatalf("span 0 must give one minimizer, got %d (%v)", len(recs), err)
	}
}

func TestOversizedWindow(t *testing.T) {
	g, err := New([]byte(refSeq), 3, 1<<40)
	if err != nil {
		t.Fatal(err)
	}
	if recs, err := g.Collect(); err != nil || len(recs) != 0 {
		t.Fatalf("window larger than the sequence: %d records, err %v", len(recs), err)
	}
	if _, ok := g.Next(); ok || g.Err() != nil {
		t.Fatalf("Next on an unfilled window: ok=%v err=%v", ok, g.Err())
	}
	g, err = NewSpan([]byte(refSeq), 10_000_000_000, 7)
	if err != nil {
		t.Fatal(err)
	}
	if recs, _ := g.Collect(); len(recs) != 0 {
		t.Fatalf("span 1e10: %d records", len(recs))
	}
}

func TestSkipRestartsWindow(t *testing.T) {
	seq := []byte("ACGTACGTNNTTTTGGGG")
	g, _ := New(seq, 3, 2, WithPolicy(nucleotide.Lenient), WithDedup(EveryWindow))
	recs, err := g.Collect()
	if err != nil {
		t.Fatal(err)
	}
	// 6 k-mers before the Ns, 6 after: 5 windows each.
	if len(recs) != 10 {
		t.Fatalf("got %d records", len(recs))
	}
	for _, r := range recs {
		if r.WindowStart < 10 && r.WindowEnd > 8 {
			t.Fatalf("window %+v spans the ambiguous run", r)
		}
	}
}

func TestConfigAndErrors(t *testing.T) {
	if _, err := New([]byte("ACGT"), 0, 3); !errors.Is(err, nucleotide.ErrConfig) {
		t.Errorf("k=0: %v", err)
	}
	if _, err := New([]byte("ACGT"), 3, 0); !errors.Is(err, nucleotide.ErrConfig) {
		t.Errorf("w=0: %v", err)
	}
	if _, err := NewSpan([]byte("ACGT"), 3, 5); !errors.Is(err, nucleotide.ErrConfig) {
		t.Errorf("span<k: %v", err)
	}
	g, _ := New([]byte("ACGTXACGT"), 2, 2)
	if _, err := g.Collect(); !errors.Is(err, nucleotide.ErrInvalidBase) {
		t.Errorf("want ErrInvalidBase, got %v", err)
	}
	if d, err := ParseDedup("every-window"); err != nil || d != EveryWindow {
		t.Errorf("ParseDedup: %v %v", d, err)
	}
}
