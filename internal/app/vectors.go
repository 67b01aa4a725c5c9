// internal/app/vectors.go
package app

import (
	"context"
	"strconv"

	"kmertools/core/cgr"
	"kmertools/core/kmer"
	"kmertools/core/oligo"
	"kmertools/internal/appcore"
	"kmertools/internal/cli"
	"kmertools/internal/pipeline"
	"kmertools/internal/writers"
	"kmertools/pkg/api"
)

func toCounts(v []float64) []uint64 {
	out := make([]uint64, len(v))
	for i, f := range v {
		out[i] = uint64(f)
	}
	return out
}

// vectorRow fills a row from a vectoriser result, or records the failure.
func vectorRow(s *appcore.Session, it pipeline.Item, values []float64, counts []uint64, err error) (api.VectorV1, error) {
	row := api.VectorV1{Index: it.Index, ID: it.ID}
	if err != nil {
		row.Error = err.Error()
		return row, s.Soft(it, err)
	}
	row.Values, row.Counts = values, counts
	return row, nil
}

func labelsIf(on bool, labels []string) []string {
	if !on {
		return nil
	}
	return labels
}

func runOligo(ctx context.Context, s *appcore.Session, o cli.Options) int {
	comp, err := oligo.New(o.K, oligo.WithNorm(!o.Counts), oligo.WithPolicy(o.Policy()))
	if err != nil {
		return s.Close(err)
	}
	s.Log.Debug("oligo", "k", o.K, "bins", comp.Len(), "normalized", comp.Normalized())
	work := func(it pipeline.Item) (api.VectorV1, error) {
		v, err := comp.VectoriseOne(it.Seq)
		if o.Counts && err == nil {
			return vectorRow(s, it, nil, toCounts(v), nil)
		}
		return vectorRow(s, it, v, nil, err)
	}
	wf := appcore.NewVectorWriterFactory(o.Format, o.Delim, labelsIf(o.Header, comp.Header(true)))
	return appcore.Run[api.VectorV1](ctx, s, o.Inputs, work, wf)
}

func runCGR(ctx context.Context, s *appcore.Session, o cli.Options) int {
	if o.OligoCGR {
		return runOligoCGR(ctx, s, o)
	}
	comp, err := cgr.New(o.K, cgr.WithPolicy(o.Policy()))
	if err != nil {
		return s.Close(err)
	}
	var labels []string
	if o.Header {
		// cells are indexed by the packed trailing k-mer
		t, err := kmer.Bins(o.K)
		if err != nil {
			return s.Close(err)
		}
		labels = t.Labels(false)
	}
	work := func(it pipeline.Item) (api.VectorV1, error) {
		v, err := comp.VectoriseOne(it.Seq)
		return vectorRow(s, it, nil, v, err)
	}
	return appcore.Run[api.VectorV1](ctx, s, o.Inputs, work, appcore.NewVectorWriterFactory(o.Format, o.Delim, labels))
}

// pointLabel renders a CGR point as "x:y".
func pointLabel(p cgr.Point) string {
	b := strconv.AppendFloat(nil, p.X, 'f', 6, 64)
	b = append(b, ':')
	return string(strconv.AppendFloat(b, p.Y, 'f', 6, 64))
}

func pointLabels(pts []cgr.Point) []string {
	out := make([]string, len(pts))
	for i, p := range pts {
		out[i] = pointLabel(p)
	}
	return out
}

func runOligoCGR(ctx context.Context, s *appcore.Session, o cli.Options) int {
	comp, err := cgr.NewOligo(o.K, o.Size, oligo.WithPolicy(o.Policy()))
	if err != nil {
		return s.Close(err)
	}
	work := func(it pipeline.Item) (api.VectorV1, error) {
		pts, err := comp.VectoriseOne(it.Seq)
		var v []float64
		if err == nil {
			v = make([]float64, len(pts))
			for i, p := range pts {
				v[i] = p.Freq
			}
		}
		return vectorRow(s, it, v, nil, err)
	}
	wf := appcore.NewVectorWriterFactory(o.Format, o.Delim, labelsIf(o.Header, pointLabels(comp.Points())))
	return appcore.Run[api.VectorV1](ctx, s, o.Inputs, work, wf)
}

// runHeader prints the column labels oligo (canonical) or cgr (--raw)
// vectors use for a given k.
func runHeader(s *appcore.Session, o cli.Options) int {
	t, err := kmer.Bins(o.K)
	if err != nil {
		return s.Close(err)
	}
	labels := t.Labels(!o.Raw)
	if o.Format == writers.FormatText {
		return s.Close(writers.WriteHeader(s.Out, writers.Options{Format: o.Format, Delim: o.Delim}, labels))
	}
	enc, ok := writers.NewEncoder(o.Format, s.Out)
	if !ok {
		return s.Close(writers.ErrUnsupported(o.Format))
	}
	return s.Close(enc.Encode(labels))
}
