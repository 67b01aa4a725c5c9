// internal/app/count.go
package app

import (
	"context"
	"os"
	"strconv"

	"kmertools/core/counter"
	"kmertools/core/nucleotide"
	"kmertools/internal/appcore"
	"kmertools/internal/cli"
	"kmertools/internal/pipeline"
	"kmertools/internal/writers"
	"kmertools/pkg/api"
)

// countInto tallies every record of files into c. tick reports the records
// as progress.
func countInto(ctx context.Context, s *appcore.Session, files []string, c *counter.Counter, tick bool) error {
	return pipeline.Run(ctx, s.Pipeline(), files,
		func(it pipeline.Item) (struct{}, error) {
			return struct{}{}, s.Soft(it, c.Add(it.Seq))
		},
		func(pipeline.Item, struct{}) error {
			if tick {
				s.Progress.Add()
			}
			return nil
		})
}

func runCount(ctx context.Context, s *appcore.Session, o cli.Options) int {
	c, err := counter.New(o.K, o.Policy())
	if err != nil {
		return s.Close(err)
	}
	if err := countInto(ctx, s, o.Inputs, c, true); err != nil {
		return s.Close(err)
	}
	sorted := c.Sorted()
	s.Log.Debug("counted", "k", o.K, "distinct", len(sorted))

	in, done := writers.StartCountWriter(s.Out, writers.Options{Format: o.Format}, 256)
	for _, ct := range sorted {
		row := api.CountV1{Code: ct.Code, Count: ct.Count}
		if o.ACGT {
			row.Kmer = nucleotide.ToACGT(ct.Code, o.K)
		}
		in <- row
	}
	close(in)
	return s.Close(<-done)
}

func runCov(ctx context.Context, s *appcore.Session, o cli.Options) int {
	inputs := o.Inputs
	countFrom := o.CountInputs
	if len(countFrom) == 0 {
		// both passes read the inputs; standard input can only be read once
		spooled, cleanup, err := spoolStdin(inputs)
		if err != nil {
			return s.Close(err)
		}
		defer cleanup()
		inputs, countFrom = spooled, spooled
	}

	c, err := counter.New(o.K, o.Policy())
	if err != nil {
		return s.Close(err)
	}
	if err := countInto(ctx, s, countFrom, c, false); err != nil {
		return s.Close(err)
	}
	s.Log.Debug("counted", "k", o.K, "distinct", c.Len())

	policy := o.Policy()
	work := func(it pipeline.Item) (api.VectorV1, error) {
		v, err := counter.Histogram(it.Seq, o.K, policy, c, o.BinSize, o.BinCount, !o.Counts)
		if o.Counts && err == nil {
			return vectorRow(s, it, nil, toCounts(v), nil)
		}
		return vectorRow(s, it, v, nil, err)
	}
	return appcore.Run[api.VectorV1](ctx, s, inputs, work, appcore.NewVectorWriterFactory(o.Format, o.Delim, labelsIf(o.Header, binLabels(o.BinSize, o.BinCount))))
}

// spoolStdin copies standard input to a temporary file when it is among
// paths and returns paths with "-" replaced.
func spoolStdin(paths []string) ([]string, func(), error) {
	idx := -1
	for i, p := range paths {
		if p == "-" {
			idx = i
		}
	}
	if idx < 0 {
		return paths, func() {}, nil
	}
	f, err := os.CreateTemp("", "kmertools-stdin-*")
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = os.Remove(f.Name()) }
	if _, err := f.ReadFrom(os.Stdin); err != nil {
		_ = f.Close()
		cleanup()
		return nil, nil, err
	}
	if err := f.Close(); err != nil {
		cleanup()
		return nil, nil, err
	}
	out := append([]string(nil), paths...)
	out[idx] = f.Name()
	return out, cleanup, nil
}

// binLabels names coverage bins by their count range; the last bin is open.
func binLabels(size, count int) []string {
	out := make([]string, count)
	for i := range out {
		lo := i * size
		if i == count-1 {
			out[i] = strconv.Itoa(lo) + "+"
		} else {
			out[i] = strconv.Itoa(lo) + "-" + strconv.Itoa(lo+size-1)
		}
	}
	return out
}
