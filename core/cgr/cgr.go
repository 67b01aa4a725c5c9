// core/cgr/cgr.go
package cgr

import (
	"context"

	"kmertools/core/batch"
	"kmertools/core/kmer"
	"kmertools/core/nucleotide"
)

// Point is a position in the CGR square [0,size]x[0,size].
type Point struct {
	X, Y float64
}

// corners in 2-bit code order A C G T on the unit square.
var corners = [4]Point{
	{0, 0}, // A
	{0, 1}, // C
	{1, 1}, // G
	{1, 0}, // T
}

type settings struct {
	policy  nucleotide.Policy
	threads int
	size    float64
}

// Option tunes a Computer.
type Option func(*settings)

func WithPolicy(p nucleotide.Policy) Option { return func(s *settings) { s.policy = p } }

func WithThreads(n int) Option { return func(s *settings) { s.threads = n } }

// WithSize scales Trace and Points to a square of the given side (default 1).
func WithSize(size float64) Option { return func(s *settings) { s.size = size } }

// Computer builds frequency-CGR vectors of a fixed order. It is safe for
// concurrent use.
type Computer struct {
	order int
	mask  uint64
	opt   settings
}

// New returns a Computer whose grid is 2^order x 2^order (order 1..12).
func New(order int, opts ...Option) (*Computer, error) {
	if err := nucleotide.CheckRange("order", order, 1, kmer.MaxTableK); err != nil {
		return nil, err
	}
	s := settings{size: 1}
	for _, o := range opts {
		o(&s)
	}
	return &Computer{order: order, mask: nucleotide.Mask(order), opt: s}, nil
}

func (c *Computer) Order() int { return c.order }

// Len is 4^order.
func (c *Computer) Len() int { return 1 << (2 * uint(c.order)) }

// VectoriseOne counts CGR cell visits. Once order bases have been read,
// every further base lands in the cell named by the trailing order bases;
// the index of that cell is their 2-bit packing. Counts are raw.
func (c *Computer) VectoriseOne(seq []byte) ([]uint64, error) {
	vec := make([]uint64, c.Len())
	var code uint64
	filled := 0
	for i, b := range seq {
		v := c.opt.policy.Lookup(b)
		if v == nucleotide.Invalid {
			if c.opt.policy.Ambiguous == nucleotide.Skip {
				filled = 0
				continue
			}
			return nil, &nucleotide.InvalidBaseError{Pos: i, Symbol: b}
		}
		code = ((code << 2) | uint64(v)) & c.mask
		if filled < c.order {
			filled++
		}
		if filled == c.order {
			vec[code]++
		}
	}
	return vec, nil
}

// VectoriseBatch runs VectoriseOne over seqs in parallel, preserving order.
// Failed sequences get nil vectors and are listed in the *batch.Error.
func (c *Computer) VectoriseBatch(ctx context.Context, seqs [][]byte) ([][]uint64, error) {
	out := make([][]uint64, len(seqs))
	err := batch.Map(ctx, c.opt.threads, len(seqs), func(i int) error {
		v, err := c.VectoriseOne(seqs[i])
		out[i] = v
		return err
	})
	return out, err
}

// Trace returns the chaos-game path of seq: starting at the centre, each
// base moves halfway towards its corner. One point per accepted base.
func (c *Computer) Trace(seq []byte) ([]Point, error) {
	out := make([]Point, 0, len(seq))
	p := Point{0.5, 0.5}
	for i, b := range seq {
		v := c.opt.policy.Lookup(b)
		if v == nucleotide.Invalid {
			if c.opt.policy.Ambiguous == nucleotide.Skip {
				continue
			}
			return nil, &nucleotide.InvalidBaseError{Pos: i, Symbol: b}
		}
		p = midpoint(p, corners[v])
		out = append(out, Point{p.X * c.opt.size, p.Y * c.opt.size})
	}
	return out, nil
}

func midpoint(p, q Point) Point { return Point{(p.X + q.X) / 2, (p.Y + q.Y) / 2} }

// CellIndex quantizes a unit-square point into the 2^order grid and returns
// the packed code of the k-mer whose CGR cell contains it. The most recent
// base decides the coarsest subdivision.
func CellIndex(p Point, order int) uint64 {
	side := float64(uint64(1) << uint(order))
	gx, gy := uint64(p.X*side), uint64(p.Y*side)
	var code uint64
	for j := 0; j < order; j++ {
		bit := uint(order - 1 - j)
		x, y := (gx>>bit)&1, (gy>>bit)&1
		code |= cornerCode(x, y) << (2 * uint(j))
	}
	return code
}

func cornerCode(x, y uint64) uint64 {
	switch {
	case x == 0 && y == 0:
		return 0 // A
	case x == 0:
		return 1 // C
	case y == 1:
		return 2 // G
	default:
		return 3 // T
	}
}
