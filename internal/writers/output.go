// internal/writers/output.go
package writers

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/zeebo/blake3"
)

// Compression modes accepted by --compress.
const (
	CompressAuto = "auto"
	CompressNone = "none"
	CompressGzip = "gzip"
	CompressZstd = "zstd"
	CompressLZ4  = "lz4"
)

// ResolveCompression turns "auto" into a concrete codec from the output
// path suffix. Stdout ("-") defaults to none.
func ResolveCompression(mode, path string) (string, error) {
	switch mode {
	case CompressNone, CompressGzip, CompressZstd, CompressLZ4:
		return mode, nil
	case CompressAuto, "":
	default:
		return "", fmt.Errorf("invalid --compress %q", mode)
	}
	switch {
	case strings.HasSuffix(path, ".gz"):
		return CompressGzip, nil
	case strings.HasSuffix(path, ".zst"), strings.HasSuffix(path, ".zstd"):
		return CompressZstd, nil
	case strings.HasSuffix(path, ".lz4"):
		return CompressLZ4, nil
	}
	return CompressNone, nil
}

// Output is a destination file (or stdout) with optional compression and a
// running BLAKE3 digest of the uncompressed bytes.
type Output struct {
	w       io.Writer
	codec   io.WriteCloser // nil when uncompressed
	file    *os.File       // nil for stdout or a caller-owned writer
	hasher  *blake3.Hasher
	written int64
}

// Create opens path for writing ("-" writes to stdout).
func Create(path, compress string) (*Output, error) {
	if path == "-" || path == "" {
		return Wrap(os.Stdout, compress, "-")
	}
	fh, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	o, err := Wrap(fh, compress, path)
	if err != nil {
		_ = fh.Close()
		return nil, err
	}
	o.file = fh
	return o, nil
}

// Wrap builds an Output over a caller-owned writer; Close does not close w.
// path only feeds auto compression detection.
func Wrap(w io.Writer, compress, path string) (*Output, error) {
	mode, err := ResolveCompression(compress, path)
	if err != nil {
		return nil, err
	}
	o := &Output{hasher: blake3.New()}
	switch mode {
	case CompressGzip:
		o.codec = gzip.NewWriter(w)
	case CompressZstd:
		zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}
		o.codec = zw
	case CompressLZ4:
		o.codec = lz4.NewWriter(w)
	}
	sink := w
	if o.codec != nil {
		sink = o.codec
	}
	o.w = io.MultiWriter(sink, o.hasher)
	return o, nil
}

func (o *Output) Write(p []byte) (int, error) {
	n, err := o.w.Write(p)
	o.written += int64(n)
	return n, err
}

// Close flushes the codec and closes the file if Create opened it.
func (o *Output) Close() error {
	var err error
	if o.codec != nil {
		err = o.codec.Close()
	}
	if o.file != nil {
		if cerr := o.file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Digest is the hex BLAKE3-256 of everything written so far.
func (o *Output) Digest() string { return hex.EncodeToString(o.hasher.Sum(nil)) }

// Written is the number of uncompressed bytes accepted.
func (o *Output) Written() int64 { return o.written }
