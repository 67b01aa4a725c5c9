// core/oligo/oligo.go
package oligo

import (
	"context"

	"kmertools/core/batch"
	"kmertools/core/kmer"
	"kmertools/core/nucleotide"
)

type settings struct {
	norm    bool
	policy  nucleotide.Policy
	threads int
}

// Option tunes a Computer.
type Option func(*settings)

// WithNorm toggles normalization by the k-mer total (default on).
func WithNorm(norm bool) Option { return func(s *settings) { s.norm = norm } }

// WithPolicy sets the case / ambiguous-base policy.
func WithPolicy(p nucleotide.Policy) Option { return func(s *settings) { s.policy = p } }

// WithThreads bounds VectoriseBatch parallelism (0 = all CPUs).
func WithThreads(n int) Option { return func(s *settings) { s.threads = n } }

// Computer builds oligonucleotide frequency vectors over canonical k-mers.
// It is safe for concurrent use.
type Computer struct {
	order int
	bins  *kmer.BinTable
	opt   settings
}

// New returns a Computer for k-mers of length order (1..12).
func New(order int, opts ...Option) (*Computer, error) {
	bins, err := kmer.Bins(order)
	if err != nil {
		return nil, err
	}
	s := settings{norm: true}
	for _, o := range opts {
		o(&s)
	}
	return &Computer{order: order, bins: bins, opt: s}, nil
}

func (c *Computer) Order() int { return c.order }

// Len is the vector length, the canonical k-mer count of order.
func (c *Computer) Len() int { return c.bins.Count() }

// Normalized reports whether vectors hold frequencies rather than counts.
func (c *Computer) Normalized() bool { return c.opt.norm }

// Header returns the column labels. Canonical labels line up with the
// vector entries; raw labels list all 4^order k-mers in code order.
func (c *Computer) Header(canonical bool) []string { return c.bins.Labels(canonical) }

// VectoriseOne returns the composition vector of seq. A sequence shorter
// than order yields an all-zero vector.
func (c *Computer) VectoriseOne(seq []byte) ([]float64, error) {
	vec := make([]float64, c.bins.Count())
	if len(seq) < c.order {
		return vec, nil
	}
	g, err := kmer.New(seq, c.order, kmer.WithPolicy(c.opt.policy))
	if err != nil {
		return nil, err
	}
	total := 0.0
	for {
		p, ok := g.Next()
		if !ok {
			break
		}
		vec[c.bins.Index[p.Canonical()]]++
		total++
	}
	if err := g.Err(); err != nil {
		return nil, err
	}
	if c.opt.norm {
		d := max(1, total)
		for i := range vec {
			vec[i] /= d
		}
	}
	return vec, nil
}

// VectoriseBatch vectorises every sequence in parallel. The result has one
// entry per input, in input order; a failed sequence leaves a nil entry and
// is reported in the returned *batch.Error.
func (c *Computer) VectoriseBatch(ctx context.Context, seqs [][]byte) ([][]float64, error) {
	out := make([][]float64, len(seqs))
	err := batch.Map(ctx, c.opt.threads, len(seqs), func(i int) error {
		v, err := c.VectoriseOne(seqs[i])
		out[i] = v
		return err
	})
	return out, err
}
