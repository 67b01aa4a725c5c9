// internal/encutil/encutil.go
package encutil

import (
	"bufio"
	"io"
	"sync"
)

// Reuse a 64 KiB buffered writer across row writers to avoid per-writer mallocs.
var bwPool = sync.Pool{
	New: func() any {
		return bufio.NewWriterSize(io.Discard, 64<<10)
	},
}

// Start spins up an encoder goroutine for values of type T.
//   - newEnc: builds the per-stream encoder (json, cbor or a text renderer)
//     on top of the pooled buffered writer
//   - encode: writes one value
//   - isBroken: recognizer for broken/closed pipe errors to suppress them
//
// After an encode error the goroutine keeps draining the channel so
// producers never block; the first error is reported on the error channel.
func Start[T, E any](
	out io.Writer,
	bufSize int,
	newEnc func(*bufio.Writer) E,
	encode func(E, T) error,
	isBroken func(error) bool,
) (chan<- T, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan T, bufSize)
	done := make(chan error, 1)

	go func() {
		bw := bwPool.Get().(*bufio.Writer)
		bw.Reset(out)
		defer func() {
			bw.Reset(io.Discard)
			bwPool.Put(bw)
		}()

		enc := newEnc(bw)
		var err error
		for v := range in {
			if err != nil {
				continue
			}
			err = encode(enc, v)
		}
		if err == nil {
			err = bw.Flush()
		}
		if isBroken != nil && isBroken(err) {
			err = nil
		}
		done <- err
	}()

	return in, done
}
