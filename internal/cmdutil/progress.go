// internal/cmdutil/progress.go
package cmdutil

import (
	"fmt"
	"io"
	"sync"

	"github.com/dustin/go-humanize"
)

const progressEvery = 10000

// Progress prints a single updating "processed N sequences" line. It is a
// no-op unless enabled (stderr is a terminal and not --quiet).
type Progress struct {
	mu      sync.Mutex
	w       io.Writer
	enabled bool
	n       int64
}

func NewProgress(w io.Writer, quiet bool) *Progress {
	return &Progress{w: w, enabled: !quiet && IsTerminal(w)}
}

// Add counts one processed sequence.
func (p *Progress) Add() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.n++
	if p.enabled && p.n%progressEvery == 0 {
		p.print()
	}
}

func (p *Progress) print() {
	_, _ = fmt.Fprintf(p.w, "\rprocessed %s sequences", humanize.Comma(p.n))
}

// Count is the number of sequences seen so far.
func (p *Progress) Count() int64 {
	if p == nil {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.n
}

// Done prints the final count and ends the line.
func (p *Progress) Done() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		return
	}
	p.print()
	_, _ = fmt.Fprintln(p.w)
}
