// core/minimiser/minimiser.go
package minimiser

import (
	"fmt"
	"iter"
	"strings"

	"kmertools/core/kmer"
	"kmertools/core/nucleotide"
)

// Dedup selects how windows that share a minimizer are reported.
type Dedup uint8

const (
	// DedupAdjacent emits a minimizer once for the run of consecutive
	// windows that select the same occurrence (minimap2-style sampling).
	DedupAdjacent Dedup = iota
	// EveryWindow emits exactly one record per window.
	EveryWindow
)

func (d Dedup) String() string {
	if d == EveryWindow {
		return "every-window"
	}
	return "adjacent"
}

// ParseDedup accepts "adjacent" or "every-window".
func ParseDedup(s string) (Dedup, error) {
	switch strings.ToLower(s) {
	case "adjacent", "":
		return DedupAdjacent, nil
	case "every-window", "every", "all":
		return EveryWindow, nil
	}
	return DedupAdjacent, fmt.Errorf("unknown dedup policy %q (want adjacent|every-window)", s)
}

// Record is one sampled minimizer.
type Record struct {
	Code     uint64 // canonical code
	Position int    // start of the k-mer in the sequence
	Strand   nucleotide.Strand

	// Base span of the window that selected it: [WindowStart, WindowEnd).
	WindowStart int
	WindowEnd   int
}

type settings struct {
	policy nucleotide.Policy
	dedup  Dedup
}

// Option tunes a Generator.
type Option func(*settings)

func WithPolicy(p nucleotide.Policy) Option { return func(s *settings) { s.policy = p } }

func WithDedup(d Dedup) Option { return func(s *settings) { s.dedup = d } }

// Generator slides a window of w consecutive k-mers and reports the smallest
// canonical k-mer of each window, leftmost on ties. Each k-mer costs O(1)
// amortized through a monotone deque.
type Generator struct {
	seq []byte
	k   int
	w   int
	opt settings

	kg      *kmer.Generator
	dq      deque
	idx     int
	prevPos int
	lastPos int
	err     error
}

// New returns a generator of k-long minimizers over windows of w k-mers.
func New(seq []byte, k, w int, opts ...Option) (*Generator, error) {
	if err := nucleotide.CheckRange("k", k, 1, nucleotide.MaxK); err != nil {
		return nil, err
	}
	if w < 1 {
		return nil, &nucleotide.ConfigError{Param: "w", Value: w, Rule: "window must hold at least one k-mer"}
	}
	var s settings
	for _, o := range opts {
		o(&s)
	}
	g := &Generator{seq: seq, k: k, w: w, opt: s, dq: newDeque(dequeCap(len(seq), k, w))}
	g.Reset()
	return g, nil
}

// dequeCap bounds the deque by the k-mers seq actually has; a window
// larger than that never fills.
func dequeCap(n, k, w int) int { return min(w, max(1, n-k+1)) }

// NewSpan takes the window as a span of bases, so w = span-k+1. A span of 0
// makes the whole sequence a single window.
func NewSpan(seq []byte, span, k int, opts ...Option) (*Generator, error) {
	if span == 0 {
		return New(seq, k, max(1, len(seq)-k+1), opts...)
	}
	if span < k {
		return nil, &nucleotide.ConfigError{Param: "span", Value: span, Rule: fmt.Sprintf("must be >= k (%d)", k)}
	}
	return New(seq, k, span-k+1, opts...)
}

// K is the minimizer length; W the number of k-mers per window.
func (g *Generator) K() int { return g.k }
func (g *Generator) W() int { return g.w }

// Reset rewinds to the start of the sequence.
func (g *Generator) Reset() {
	g.kg, _ = kmer.New(g.seq, g.k, kmer.WithPolicy(g.opt.policy))
	g.restartRun()
	g.prevPos = -2
	g.err = nil
}

func (g *Generator) restartRun() {
	g.dq.reset()
	g.idx = 0
	g.lastPos = -1
}

// Next returns the next minimizer record.
func (g *Generator) Next() (Record, bool) {
	for {
		p, ok := g.kg.Next()
		if !ok {
			g.err = g.kg.Err()
			return Record{}, false
		}
		pos := g.kg.Position()
		if pos != g.prevPos+1 {
			// a skipped base broke the run of k-mers
			g.restartRun()
		}
		g.prevPos = pos

		code, fwd := nucleotide.Canonical(p.Forward, p.Reverse)
		strand := nucleotide.Forward
		if !fwd {
			strand = nucleotide.Reverse
		}
		for g.dq.n > 0 && g.dq.back().code > code {
			g.dq.popBack()
		}
		g.dq.pushBack(entry{code: code, pos: pos, idx: g.idx, strand: strand})
		for g.dq.front().idx <= g.idx-g.w {
			g.dq.popFront()
		}
		g.idx++
		if g.idx < g.w {
			continue
		}

		m := g.dq.front()
		if g.opt.dedup == DedupAdjacent && m.pos == g.lastPos {
			continue
		}
		g.lastPos = m.pos
		return Record{
			Code:        m.code,
			Position:    m.pos,
			Strand:      m.strand,
			WindowStart: pos - (g.w - 1),
			WindowEnd:   pos + g.k,
		}, true
	}
}

// Err returns the error that stopped the stream, if any.
func (g *Generator) Err() error { return g.err }

// All iterates a fresh stream; g itself is not advanced.
func (g *Generator) All() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		c := g.fresh()
		for {
			r, ok := c.Next()
			if !ok || !yield(r) {
				return
			}
		}
	}
}

// Collect materializes the whole stream from the beginning.
func (g *Generator) Collect() ([]Record, error) {
	c := g.fresh()
	var out []Record
	for {
		r, ok := c.Next()
		if !ok {
			return out, c.Err()
		}
		out = append(out, r)
	}
}

func (g *Generator) fresh() *Generator {
	c := &Generator{seq: g.seq, k: g.k, w: g.w, opt: g.opt, dq: newDeque(dequeCap(len(g.seq), g.k, g.w))}
	c.Reset()
	return c
}

// ToACGT decodes a minimizer code.
func (g *Generator) ToACGT(code uint64) string { return nucleotide.ToACGT(code, g.k) }
