// internal/seqio/reader.go
package seqio

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
)

// Record is one parsed FASTA or FASTQ entry. N is its 0-based ordinal in
// the input.
type Record struct {
	N   int
	ID  string
	Seq []byte
}

// Format of a sequence stream.
type Format int

const (
	FormatUnknown Format = iota
	FormatFASTA
	FormatFASTQ
)

func (f Format) String() string {
	switch f {
	case FormatFASTA:
		return "fasta"
	case FormatFASTQ:
		return "fastq"
	}
	return "unknown"
}

// ErrFormat reports input that is neither FASTA nor FASTQ.
var ErrFormat = errors.New("seqio: malformed input")

const maxLine = 64 * 1024 * 1024 // allow very long single-line sequences (64 MiB)

// Reader parses FASTA or FASTQ, detected from the first non-blank byte.
type Reader struct {
	sc      *bufio.Scanner
	format  Format
	n       int
	line    int
	pending []byte // header line read ahead of the current FASTA record
	started bool
}

func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)
	return &Reader{sc: sc}
}

// Format is known after the first call to Next.
func (r *Reader) Format() Format { return r.format }

func (r *Reader) scan() ([]byte, bool) {
	for r.sc.Scan() {
		r.line++
		line := bytes.TrimRight(r.sc.Bytes(), "\r")
		if len(line) == 0 {
			continue
		}
		return line, true
	}
	return nil, false
}

// Next returns the next record, or io.EOF after the last one.
func (r *Reader) Next() (Record, error) {
	if !r.started {
		r.started = true
		line, ok := r.scan()
		if !ok {
			return Record{}, r.eof()
		}
		switch line[0] {
		case '>':
			r.format = FormatFASTA
		case '@':
			r.format = FormatFASTQ
		default:
			return Record{}, fmt.Errorf("%w: line %d: expected '>' or '@'", ErrFormat, r.line)
		}
		r.pending = append([]byte(nil), line...)
	}
	if r.pending == nil {
		return Record{}, r.eof()
	}
	if r.format == FormatFASTQ {
		return r.nextFASTQ()
	}
	return r.nextFASTA()
}

func (r *Reader) eof() error {
	if err := r.sc.Err(); err != nil {
		return fmt.Errorf("seqio: scan: %w", err)
	}
	return io.EOF
}

func (r *Reader) emit(header, seq []byte) Record {
	rec := Record{N: r.n, ID: parseHeaderID(header), Seq: seq}
	r.n++
	return rec
}

func (r *Reader) nextFASTA() (Record, error) {
	header := r.pending
	r.pending = nil
	var seq []byte
	for {
		line, ok := r.scan()
		if !ok {
			if err := r.sc.Err(); err != nil {
				return Record{}, fmt.Errorf("seqio: scan: %w", err)
			}
			break
		}
		if line[0] == '>' {
			r.pending = append([]byte(nil), line...)
			break
		}
		seq = append(seq, bytes.TrimSpace(line)...)
	}
	return r.emit(header[1:], seq), nil
}

func (r *Reader) nextFASTQ() (Record, error) {
	header := r.pending
	r.pending = nil
	if header[0] != '@' {
		return Record{}, fmt.Errorf("%w: line %d: expected '@'", ErrFormat, r.line)
	}
	var seq []byte
	for {
		line, ok := r.scan()
		if !ok {
			return Record{}, fmt.Errorf("%w: truncated record %q", ErrFormat, parseHeaderID(header[1:]))
		}
		if line[0] == '+' {
			break
		}
		seq = append(seq, bytes.TrimSpace(line)...)
	}
	// quality may wrap; it always matches the sequence length
	qual := 0
	for qual < len(seq) {
		line, ok := r.scan()
		if !ok {
			return Record{}, fmt.Errorf("%w: truncated quality for %q", ErrFormat, parseHeaderID(header[1:]))
		}
		qual += len(bytes.TrimSpace(line))
	}
	if qual != len(seq) {
		return Record{}, fmt.Errorf("%w: line %d: quality length %d != sequence length %d", ErrFormat, r.line, qual, len(seq))
	}
	if line, ok := r.scan(); ok {
		r.pending = append([]byte(nil), line...)
	} else if err := r.sc.Err(); err != nil {
		return Record{}, fmt.Errorf("seqio: scan: %w", err)
	}
	return r.emit(header[1:], seq), nil
}

// parseHeaderID returns the first whitespace-delimited token of a header.
func parseHeaderID(h []byte) string {
	f := bytes.Fields(h)
	if len(f) == 0 {
		return ""
	}
	return string(f[0])
}

// ScanPath opens path and calls emit for each record. It returns promptly
// when ctx is done, even mid-file; a non-nil error from emit stops the scan.
func ScanPath(ctx context.Context, path string, emit func(Record) error) error {
	rc, err := Open(path)
	if err != nil {
		return err
	}
	defer rc.Close()
	return Scan(ctx, rc, emit)
}

// Scan is ScanPath over an already-open reader.
func Scan(ctx context.Context, r io.Reader, emit func(Record) error) error {
	rd := NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := rd.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := emit(rec); err != nil {
			return err
		}
	}
}

// ReadAll loads every record of path into memory.
func ReadAll(ctx context.Context, path string) ([]Record, error) {
	var out []Record
	err := ScanPath(ctx, path, func(r Record) error {
		out = append(out, r)
		return nil
	})
	return out, err
}
