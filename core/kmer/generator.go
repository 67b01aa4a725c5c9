// core/kmer/generator.go
package kmer

import (
	"iter"

	"kmertools/core/nucleotide"
)

// Pair is one k-mer occurrence packed on both strands.
type Pair struct {
	Forward uint64
	Reverse uint64
}

// Canonical returns min(Forward, Reverse).
func (p Pair) Canonical() uint64 {
	c, _ := nucleotide.Canonical(p.Forward, p.Reverse)
	return c
}

// Strand reports Forward when Forward <= Reverse.
func (p Pair) Strand() nucleotide.Strand {
	if p.Forward <= p.Reverse {
		return nucleotide.Forward
	}
	return nucleotide.Reverse
}

type settings struct {
	policy nucleotide.Policy
}

// Option tunes a Generator.
type Option func(*settings)

// WithPolicy sets the case / ambiguous-base policy (default nucleotide.Strict).
func WithPolicy(p nucleotide.Policy) Option { return func(s *settings) { s.policy = p } }

// Generator streams the (forward, reverse-complement) codes of every k-mer
// of a sequence, left to right, with O(1) work per base.
type Generator struct {
	seq    []byte
	k      int
	policy nucleotide.Policy
	mask   uint64
	shift  uint

	fwd, rc uint64
	filled  int
	pos     int
	start   int
	err     error
}

// New returns a generator over seq. k must be in [1,32].
func New(seq []byte, k int, opts ...Option) (*Generator, error) {
	if err := nucleotide.CheckRange("k", k, 1, nucleotide.MaxK); err != nil {
		return nil, err
	}
	var s settings
	for _, o := range opts {
		o(&s)
	}
	return &Generator{
		seq:    seq,
		k:      k,
		policy: s.policy,
		mask:   nucleotide.Mask(k),
		shift:  2 * uint(k-1),
		start:  -1,
	}, nil
}

// K returns the k-mer length.
func (g *Generator) K() int { return g.k }

// Next returns the next k-mer. It returns false at the end of the sequence
// or after an error; check Err.
func (g *Generator) Next() (Pair, bool) {
	if g.err != nil || len(g.seq) < g.k {
		return Pair{}, false
	}
	for g.pos < len(g.seq) {
		i := g.pos
		b := g.seq[i]
		g.pos++
		v := g.policy.Lookup(b)
		if v == nucleotide.Invalid {
			if g.policy.Ambiguous == nucleotide.Skip {
				g.filled = 0
				continue
			}
			g.err = &nucleotide.InvalidBaseError{Pos: i, Symbol: b}
			return Pair{}, false
		}
		g.fwd = ((g.fwd << 2) | uint64(v)) & g.mask
		g.rc = (g.rc >> 2) | (uint64(3-v) << g.shift)
		if g.filled < g.k {
			g.filled++
		}
		if g.filled == g.k {
			g.start = i - g.k + 1
			return Pair{Forward: g.fwd, Reverse: g.rc}, true
		}
	}
	return Pair{}, false
}

// Position is the start offset of the k-mer last returned by Next.
func (g *Generator) Position() int { return g.start }

// Err returns the error that stopped the stream, if any.
func (g *Generator) Err() error { return g.err }

// Reset rewinds the generator to the start of the sequence.
func (g *Generator) Reset() {
	g.fwd, g.rc = 0, 0
	g.filled, g.pos, g.start = 0, 0, -1
	g.err = nil
}

// All iterates a fresh copy of the stream; g itself is not advanced.
// Errors are not reported; use Collect or Next/Err when they matter.
func (g *Generator) All() iter.Seq[Pair] {
	return func(yield func(Pair) bool) {
		c := *g
		c.Reset()
		for {
			p, ok := c.Next()
			if !ok || !yield(p) {
				return
			}
		}
	}
}

// Collect materializes the whole stream from the beginning.
func (g *Generator) Collect() ([]Pair, error) {
	c := *g
	c.Reset()
	n := len(g.seq) - g.k + 1
	if n < 0 {
		n = 0
	}
	out := make([]Pair, 0, n)
	for {
		p, ok := c.Next()
		if !ok {
			break
		}
		out = append(out, p)
	}
	return out, c.Err()
}

// ToACGT decodes a code of this generator's k.
func (g *Generator) ToACGT(code uint64) string { return nucleotide.ToACGT(code, g.k) }
