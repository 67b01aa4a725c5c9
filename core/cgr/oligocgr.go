package cgr

import (
	"kmertools/core/oligo"
)

// OligoPoint places one canonical k-mer frequency at its CGR coordinate.
type OligoPoint struct {
	Point
	Freq float64
}

// OligoComputer combines oligonucleotide frequencies with CGR placement:
// every canonical k-mer is drawn at the point its label reaches in the
// chaos game.
type OligoComputer struct {
	comp   *oligo.Computer
	points []Point
}

// NewOligo builds an oligo-CGR computer. Options from both packages apply:
// size via WithSize, counting via oligo options.
func NewOligo(order int, size float64, opts ...oligo.Option) (*OligoComputer, error) {
	comp, err := oligo.New(order, opts...)
	if err != nil {
		return nil, err
	}
	tracer, err := New(order, WithSize(size))
	if err != nil {
		return nil, err
	}
	labels := comp.Header(true)
	points := make([]Point, len(labels))
	for i, l := range labels {
		tr, err := tracer.Trace([]byte(l))
		if err != nil {
			return nil, err
		}
		points[i] = tr[len(tr)-1]
	}
	return &OligoComputer{comp: comp, points: points}, nil
}

// Points returns the CGR coordinate of each canonical bin.
func (o *OligoComputer) Points() []Point { return append([]Point(nil), o.points...) }

// VectoriseOne returns one (point, frequency) pair per canonical bin.
func (o *OligoComputer) VectoriseOne(seq []byte) ([]OligoPoint, error) {
	freqs, err := o.comp.VectoriseOne(seq)
	if err != nil {
		return nil, err
	}
	out := make([]OligoPoint, len(freqs))
	for i, f := range freqs {
		out[i] = OligoPoint{Point: o.points[i], Freq: f}
	}
	return out, nil
}
