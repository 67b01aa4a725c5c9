// internal/writers/stream.go
package writers

import (
	"bufio"
	"io"

	"kmertools/internal/encutil"
	"kmertools/pkg/api"
)

// Options selects the serialization of a row stream.
type Options struct {
	Format string // text | jsonl | cbor
	Delim  byte   // text only
}

type textEncoder[T any] struct {
	bw     *bufio.Writer
	buf    []byte
	render func([]byte, T) []byte
}

func (e *textEncoder[T]) encode(v T) error {
	e.buf = e.render(e.buf[:0], v)
	_, err := e.bw.Write(e.buf)
	return err
}

// startRows spins up a writer goroutine for rows of type T. Text uses
// render; every other format goes through the encoder registry.
func startRows[T any](out io.Writer, format string, bufSize int, render func([]byte, T) []byte) (chan<- T, <-chan error) {
	if format == FormatText {
		return encutil.Start(out, bufSize,
			func(bw *bufio.Writer) *textEncoder[T] { return &textEncoder[T]{bw: bw, render: render} },
			func(e *textEncoder[T], v T) error { return e.encode(v) },
			IsBrokenPipe,
		)
	}
	newEnc, ok := encoders[format]
	if !ok {
		in := make(chan T, max(bufSize, 1))
		errCh := make(chan error, 1)
		go func() {
			for range in {
			}
			errCh <- ErrUnsupported(format)
		}()
		return in, errCh
	}
	return encutil.Start(out, bufSize,
		func(bw *bufio.Writer) Encoder { return newEnc(bw) },
		func(enc Encoder, v T) error { return enc.Encode(v) },
		IsBrokenPipe,
	)
}

// StartVectorWriter streams oligo, cgr and coverage rows.
func StartVectorWriter(out io.Writer, opt Options, bufSize int) (chan<- api.VectorV1, <-chan error) {
	delim := opt.Delim
	if delim == 0 {
		delim = ' '
	}
	return startRows(out, opt.Format, bufSize, func(dst []byte, v api.VectorV1) []byte {
		return AppendVector(dst, v, delim)
	})
}

// StartMinimiserWriter streams per-sequence minimizer rows (s2m).
func StartMinimiserWriter(out io.Writer, opt Options, bufSize int) (chan<- api.MinimiserRowV1, <-chan error) {
	return startRows(out, opt.Format, bufSize, AppendMinimiserRow)
}

// StartBinWriter streams minimizer bins (m2s).
func StartBinWriter(out io.Writer, opt Options, bufSize int) (chan<- api.BinV1, <-chan error) {
	return startRows(out, opt.Format, bufSize, AppendBin)
}

// StartCountWriter streams k-mer tallies.
func StartCountWriter(out io.Writer, opt Options, bufSize int) (chan<- api.CountV1, <-chan error) {
	return startRows(out, opt.Format, bufSize, AppendCount)
}

// WriteHeader writes a label row for text output; other formats carry
// field names of their own and ignore it.
func WriteHeader(w io.Writer, opt Options, labels []string) error {
	if opt.Format != FormatText {
		return nil
	}
	delim := opt.Delim
	if delim == 0 {
		delim = ' '
	}
	_, err := w.Write(AppendLabels(nil, labels, delim))
	return err
}
