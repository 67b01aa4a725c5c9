// internal/appcore/core.go
package appcore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"kmertools/core/batch"
	"kmertools/internal/clibase"
	"kmertools/internal/cmdutil"
	"kmertools/internal/pipeline"
	"kmertools/internal/writers"
)

// Exit codes.
const (
	ExitOK        = 0
	ExitUsage     = 2
	ExitIO        = 3
	ExitCancelled = 130
)

// Session carries the logger, progress and output of one command run.
type Session struct {
	Log      *slog.Logger
	Progress *cmdutil.Progress
	Out      *writers.Output

	stderr  io.Writer
	opts    clibase.Common
	command string
	start   time.Time
}

// Open sets up logging and the output destination. On failure it has
// already reported the problem and returns the exit code to use.
func Open(command string, stdout, stderr io.Writer, o clibase.Common) (*Session, int) {
	log, err := cmdutil.NewLogger(stderr, o.LogLevel, o.LogFormat, o.Quiet)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return nil, ExitUsage
	}
	log = log.With("command", command)

	var out *writers.Output
	if o.Output == "-" || o.Output == "" {
		out, err = writers.Wrap(stdout, o.Compress, "-")
	} else {
		out, err = writers.Create(o.Output, o.Compress)
	}
	if err != nil {
		log.Error("cannot open output", "path", o.Output, "err", err)
		return nil, ExitIO
	}
	return &Session{
		Log:      log,
		Progress: cmdutil.NewProgress(stderr, o.Quiet),
		Out:      out,
		stderr:   stderr,
		opts:     o,
		command:  command,
		start:    time.Now(),
	}, ExitOK
}

// Pipeline is the worker configuration for this run.
func (s *Session) Pipeline() pipeline.Config {
	return pipeline.Config{Threads: batch.Threads(s.opts.Threads)}
}

// Soft decides what a per-sequence failure does: with --strict it aborts
// the run, otherwise it is logged and the caller writes an empty row.
func (s *Session) Soft(it pipeline.Item, err error) error {
	if err == nil {
		return nil
	}
	if s.opts.Strict {
		return fmt.Errorf("sequence %q (#%d): %w", it.ID, it.Index, err)
	}
	cmdutil.Warnf(s.Log, "sequence %q (#%d) skipped: %v", it.ID, it.Index, err)
	return nil
}

// Close finishes the output and maps runErr to an exit code. Broken pipes
// count as success.
func (s *Session) Close(runErr error) int {
	s.Progress.Done()
	cerr := s.Out.Close()
	switch {
	case runErr == nil:
	case writers.IsBrokenPipe(runErr):
		return ExitOK
	case errors.Is(runErr, context.Canceled):
		s.Log.Warn("cancelled", "sequences", s.Progress.Count())
		return ExitCancelled
	default:
		s.Log.Error("run failed", "err", runErr)
		return ExitIO
	}
	if cerr != nil && !writers.IsBrokenPipe(cerr) {
		s.Log.Error("closing output", "err", cerr)
		return ExitIO
	}
	s.Log.Info("done",
		"sequences", humanize.Comma(s.Progress.Count()),
		"output", s.opts.Output,
		"bytes", humanize.Bytes(uint64(s.Out.Written())),
		"blake3", s.Out.Digest(),
		"elapsed", time.Since(s.start).Round(time.Millisecond),
	)
	return ExitOK
}

// WriterFactory starts the row writer of a streaming command.
type WriterFactory[T any] interface {
	WriteHeader(out io.Writer) error
	Start(out io.Writer, bufSize int) (chan<- T, <-chan error)
}

// WorkFunc turns one record into one output row.
type WorkFunc[T any] func(pipeline.Item) (T, error)

// Run streams every record of files through work and writes one row per
// record, in input order.
func Run[T any](parent context.Context, s *Session, files []string, work WorkFunc[T], wf WriterFactory[T]) int {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	if err := wf.WriteHeader(s.Out); err != nil {
		return s.Close(err)
	}

	cfg := s.Pipeline()
	inCh, writeErr := wf.Start(s.Out, cfg.Threads*4)
	_, perr := cmdutil.RunStream(ctx, cfg, files, s.Progress, work,
		func(x T) error {
			select {
			case inCh <- x:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	)
	close(inCh)

	werr := <-writeErr
	if werr != nil {
		return s.Close(werr)
	}
	return s.Close(perr)
}
