package cmdutil

import (
	"context"

	"kmertools/internal/pipeline"
)

// RunStream runs the shared pipeline, ticks progress, and streams results
// via send in input order. It returns the number of records sent and the
// first error encountered.
func RunStream[T any](
	ctx context.Context,
	cfg pipeline.Config,
	files []string,
	prog *Progress,
	work func(pipeline.Item) (T, error),
	send func(T) error,
) (int, error) {
	total := 0
	err := pipeline.Run(ctx, cfg, files, work, func(_ pipeline.Item, out T) error {
		if err := send(out); err != nil {
			return err
		}
		prog.Add()
		total++
		return nil
	})
	return total, err
}
