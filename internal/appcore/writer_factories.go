package appcore

import (
	"io"

	"kmertools/internal/writers"
	"kmertools/pkg/api"
)

// ---------------- Vector writer ----------------

type VectorWriterFactory struct {
	Opt    writers.Options
	Labels []string // header row; nil for none
}

func NewVectorWriterFactory(format string, delim byte, labels []string) VectorWriterFactory {
	return VectorWriterFactory{Opt: writers.Options{Format: format, Delim: delim}, Labels: labels}
}

func (w VectorWriterFactory) WriteHeader(out io.Writer) error {
	if w.Labels == nil {
		return nil
	}
	return writers.WriteHeader(out, w.Opt, w.Labels)
}

func (w VectorWriterFactory) Start(out io.Writer, bufSize int) (chan<- api.VectorV1, <-chan error) {
	return writers.StartVectorWriter(out, w.Opt, bufSize)
}

// ---------------- Minimiser writer ----------------

type MinimiserWriterFactory struct {
	Opt writers.Options
}

func NewMinimiserWriterFactory(format string) MinimiserWriterFactory {
	return MinimiserWriterFactory{Opt: writers.Options{Format: format}}
}

func (w MinimiserWriterFactory) WriteHeader(io.Writer) error { return nil }

func (w MinimiserWriterFactory) Start(out io.Writer, bufSize int) (chan<- api.MinimiserRowV1, <-chan error) {
	return writers.StartMinimiserWriter(out, w.Opt, bufSize)
}
