// internal/clibase/common.go
package clibase

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"kmertools/core/nucleotide"
	"kmertools/internal/cliutil"
	"kmertools/internal/writers"
)

// Common holds CLI fields shared by every kmertools command.
type Common struct {
	// Input
	Inputs    []string
	Ambiguous string
	FoldCase  bool
	Strict    bool

	// Performance
	Threads int

	// Output
	Output   string
	Format   string // text|jsonl|cbor
	Compress string // auto|none|gzip|zstd|lz4

	// Misc
	Config    string
	Quiet     bool
	LogLevel  string
	LogFormat string
	Version   bool
}

// Register wires shared flags onto fs. needsInput is false for commands
// that read no sequences (header).
func Register(fs *pflag.FlagSet, c *Common, needsInput bool) {
	if needsInput {
		fs.StringArrayVarP(&c.Inputs, "input", "i", nil, "FASTA/FASTQ file(s) (repeatable) or '-' for STDIN; plain, gzip, zstd or lz4")
		fs.StringVar(&c.Ambiguous, "ambiguous", "skip", "non-ACGT bases: reject | skip (restart the k-mer window)")
		fs.BoolVar(&c.FoldCase, "fold-case", true, "accept lowercase bases (use --fold-case=false to reject)")
		fs.BoolVar(&c.Strict, "strict", false, "abort on the first sequence that cannot be vectorised")
		fs.IntVarP(&c.Threads, "threads", "t", 0, "worker threads (0=all CPUs)")
	}

	fs.StringVarP(&c.Output, "output", "o", "-", "output path or '-' for STDOUT")
	fs.StringVarP(&c.Format, "format", "f", writers.FormatText, "output format: text | jsonl | cbor")
	fs.StringVar(&c.Compress, "compress", writers.CompressAuto, "output compression: auto | none | gzip | zstd | lz4")

	fs.StringVar(&c.Config, "config", "", "config file with flag defaults (YAML or JSONC; env KMERTOOLS_CONFIG)")
	fs.BoolVarP(&c.Quiet, "quiet", "q", false, "suppress warnings and progress")
	fs.StringVar(&c.LogLevel, "log-level", "info", "log level: debug | info | warn | error")
	fs.StringVar(&c.LogFormat, "log-format", "auto", "log format: auto | text | json")
	fs.BoolVarP(&c.Version, "version", "v", false, "print version and exit")
}

// AfterParse expands positionals into inputs, then runs shared validation.
func AfterParse(c *Common, needsInput bool, posArgs []string) error {
	if len(posArgs) > 0 {
		if !needsInput {
			return fmt.Errorf("unexpected argument %q", posArgs[0])
		}
		exp, err := cliutil.ExpandPositionals(posArgs)
		if err != nil {
			return err
		}
		c.Inputs = append(c.Inputs, exp...)
	}
	return Validate(c, needsInput)
}

// Validate applies shared CLI invariants used by all commands.
func Validate(c *Common, needsInput bool) error {
	if needsInput {
		if len(c.Inputs) == 0 {
			return errors.New("at least one --input file is required")
		}
		if cliutil.CountStdin(c.Inputs) > 1 {
			return errors.New("'-' (STDIN) may be given only once")
		}
		if _, err := nucleotide.ParseAmbiguousMode(c.Ambiguous); err != nil {
			return fmt.Errorf("invalid --ambiguous %q", c.Ambiguous)
		}
	}
	if c.Threads < 0 {
		return errors.New("--threads must be ≥ 0")
	}
	if !writers.Known(c.Format) {
		return fmt.Errorf("invalid --format %q", c.Format)
	}
	if _, err := writers.ResolveCompression(c.Compress, c.Output); err != nil {
		return err
	}
	return nil
}

// Policy is the base policy selected by --fold-case and --ambiguous.
func (c *Common) Policy() nucleotide.Policy {
	mode, _ := nucleotide.ParseAmbiguousMode(c.Ambiguous)
	return nucleotide.Policy{FoldCase: c.FoldCase, Ambiguous: mode}
}
