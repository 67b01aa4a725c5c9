// internal/app/min.go
package app

import (
	"context"
	"sort"

	"kmertools/core/minimiser"
	"kmertools/internal/appcore"
	"kmertools/internal/cli"
	"kmertools/internal/pipeline"
	"kmertools/internal/writers"
	"kmertools/pkg/api"
)

func minimiserOptions(o cli.Options) []minimiser.Option {
	return []minimiser.Option{minimiser.WithPolicy(o.Policy()), minimiser.WithDedup(o.DedupMode)}
}

// minimisers runs the generator over one record. A zero window makes the
// whole record one window.
func minimisers(it pipeline.Item, o cli.Options) ([]api.MinimiserV1, error) {
	g, err := minimiser.NewSpan(it.Seq, o.Window, o.K, minimiserOptions(o)...)
	if err != nil {
		return nil, err
	}
	var out []api.MinimiserV1
	for {
		r, ok := g.Next()
		if !ok {
			break
		}
		out = append(out, api.MinimiserV1{
			Kmer:   g.ToACGT(r.Code),
			Code:   r.Code,
			Pos:    r.Position,
			Strand: r.Strand.String(),
			Start:  r.WindowStart,
			End:    r.WindowEnd,
		})
	}
	return out, g.Err()
}

func runMin(ctx context.Context, s *appcore.Session, o cli.Options) int {
	s.Log.Debug("minimisers", "m", o.K, "w", o.Window, "preset", o.Preset, "dedup", o.DedupMode)
	work := func(it pipeline.Item) (api.MinimiserRowV1, error) {
		row := api.MinimiserRowV1{Index: it.Index, ID: it.ID}
		ms, err := minimisers(it, o)
		if err != nil {
			row.Error = err.Error()
			return row, s.Soft(it, err)
		}
		row.Minimisers = ms
		return row, nil
	}
	if o.Preset == cli.PresetS2M {
		return appcore.Run[api.MinimiserRowV1](ctx, s, o.Inputs, work, appcore.NewMinimiserWriterFactory(o.Format))
	}
	return runBins(ctx, s, o, work)
}

// runBins groups sequence windows by minimizer (m2s). Bins are written in
// k-mer order; hits keep input order.
func runBins(ctx context.Context, s *appcore.Session, o cli.Options, work appcore.WorkFunc[api.MinimiserRowV1]) int {
	bins := make(map[string][]api.HitV1)
	err := pipeline.Run(ctx, s.Pipeline(), o.Inputs, work, func(_ pipeline.Item, row api.MinimiserRowV1) error {
		for _, m := range row.Minimisers {
			bins[m.Kmer] = append(bins[m.Kmer], api.HitV1{ID: row.ID, Start: m.Start, End: m.End})
		}
		s.Progress.Add()
		return nil
	})
	if err != nil {
		return s.Close(err)
	}

	keys := make([]string, 0, len(bins))
	for k := range bins {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	s.Log.Debug("binned", "minimisers", len(keys))

	in, done := writers.StartBinWriter(s.Out, writers.Options{Format: o.Format}, 64)
	for _, k := range keys {
		in <- api.BinV1{Kmer: k, Hits: bins[k]}
	}
	close(in)
	return s.Close(<-done)
}
