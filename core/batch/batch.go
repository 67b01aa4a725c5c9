// Package batch fans independent per-item work out over a bounded set of
// goroutines. Callers write results by index, so output order always equals
// input order whatever the completion order.
package batch

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ItemError is the failure of a single item.
type ItemError struct {
	Index int
	Err   error
}

func (e ItemError) Error() string { return fmt.Sprintf("item %d: %v", e.Index, e.Err) }

func (e ItemError) Unwrap() error { return e.Err }

// Error collects per-item failures of one Map call, sorted by index.
type Error struct {
	Items []ItemError
}

func (e *Error) Error() string {
	if len(e.Items) == 1 {
		return e.Items[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d items failed", len(e.Items))
	for i, it := range e.Items {
		if i == 3 {
			fmt.Fprintf(&sb, "; ...")
			break
		}
		fmt.Fprintf(&sb, "; %v", it)
	}
	return sb.String()
}

// Unwrap exposes every item error to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	out := make([]error, len(e.Items))
	for i := range e.Items {
		out[i] = e.Items[i]
	}
	return out
}

// Failed reports whether item i failed.
func (e *Error) Failed(i int) bool {
	j := sort.Search(len(e.Items), func(j int) bool { return e.Items[j].Index >= i })
	return j < len(e.Items) && e.Items[j].Index == i
}

// Threads normalizes a thread count: <=0 means all CPUs.
func Threads(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// Map calls fn(i) for every i in [0,n) on at most threads goroutines.
// An item error does not stop the others; all of them are returned as an
// *Error. Context cancellation stops scheduling and returns ctx.Err().
func Map(ctx context.Context, threads, n int, fn func(i int) error) error {
	if n == 0 {
		return nil
	}
	var (
		mu     sync.Mutex
		failed []ItemError
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(Threads(threads))
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := fn(i); err != nil {
				mu.Lock()
				failed = append(failed, ItemError{Index: i, Err: err})
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(failed) == 0 {
		return nil
	}
	sort.Slice(failed, func(a, b int) bool { return failed[a].Index < failed[b].Index })
	return &Error{Items: failed}
}
