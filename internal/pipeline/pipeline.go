// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"sync"

	"kmertools/internal/seqio"
)

// Config controls the pipeline.
type Config struct {
	Threads int // number of worker goroutines (>=1)
}

// Item is a record tagged with its position across all input files.
type Item struct {
	Index int
	seqio.Record
}

// InFlightPerWorker bounds the records read ahead of the oldest unemitted
// one, per worker. One slow record holds at most Threads*InFlightPerWorker
// finished results in the reorder buffer.
const InFlightPerWorker = 4

type result[T any] struct {
	it  Item
	out T
	err error
}

// Run reads records from files in order, applies work on cfg.Threads
// workers, and calls emit once per record in input order. A work or emit
// error stops the run and is returned; so is a cancelled ctx.
func Run[T any](
	ctx context.Context,
	cfg Config,
	files []string,
	work func(Item) (T, error),
	emit func(Item, T) error,
) error {
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan Item, cfg.Threads*2)
	results := make(chan result[T], cfg.Threads*2)
	slots := make(chan struct{}, cfg.Threads*InFlightPerWorker)

	// Workers
	var wg sync.WaitGroup
	wg.Add(cfg.Threads)
	for w := 0; w < cfg.Threads; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case it, ok := <-jobs:
					if !ok {
						return
					}
					out, err := work(it)
					select {
					case results <- result[T]{it: it, out: out, err: err}:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	// Collector: re-orders by index
	var (
		cerr error
		cwg  sync.WaitGroup
	)
	cwg.Add(1)
	go func() {
		defer cwg.Done()
		pending := make(map[int]result[T])
		next := 0
		for r := range results {
			if cerr != nil {
				continue
			}
			pending[r.it.Index] = r
			for {
				p, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				next++
				<-slots
				err := p.err
				if err == nil {
					err = emit(p.it, p.out)
				}
				if err != nil {
					cerr = err
					cancel()
					break
				}
			}
		}
	}()

	// Feed work
	var ferr error
	idx := 0
	for _, fn := range files {
		ferr = seqio.ScanPath(ctx, fn, func(rec seqio.Record) error {
			select {
			case slots <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
			it := Item{Index: idx, Record: rec}
			idx++
			select {
			case jobs <- it:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if ferr != nil {
			break
		}
	}

	close(jobs)
	wg.Wait()
	close(results)
	cwg.Wait()

	switch {
	case cerr != nil:
		return cerr
	case ferr != nil && ctx.Err() == nil:
		return ferr
	}
	// a collector error cancels ctx too, so only the parent is left
	return context.Cause(ctx)
}
