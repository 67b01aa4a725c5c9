// internal/cli/options.go
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"kmertools/core/kmer"
	"kmertools/core/minimiser"
	"kmertools/core/nucleotide"
	"kmertools/internal/clibase"
	"kmertools/internal/cliutil"
	"kmertools/internal/config"
	"kmertools/internal/writers"
)

// Minimizer output presets.
const (
	PresetS2M = "s2m"
	PresetM2S = "m2s"
)

// Options holds the parsed flags of one command.
type Options struct {
	Command string
	clibase.Common

	// Vectors (oligo, cgr, cov, header)
	K      int
	Preset string
	Delim  byte
	Header bool
	Counts bool // raw counts instead of frequencies
	Raw    bool // header: all 4^k labels

	// cgr
	OligoCGR bool
	Size     float64

	// min
	Window    int // bases; 0 = whole sequence
	Dedup     string
	DedupMode minimiser.Dedup

	// count
	ACGT bool

	// cov
	BinSize     int
	BinCount    int
	CountInputs []string
}

// ParseArgs registers and parses the flags of command, applies config file
// defaults, and validates. It returns pflag.ErrHelp for -h/--help.
func ParseArgs(fs *pflag.FlagSet, command string, argv []string) (Options, error) {
	opt := Options{Command: command}
	cmd, ok := Lookup(command)
	if !ok {
		return opt, fmt.Errorf("unknown command %q", command)
	}

	register(fs, cmd, &opt)
	clibase.Register(fs, &opt.Common, cmd.NeedsInput)
	clibase.UsageCommon(fs, cmd.Name, cmd.Summary, func(out io.Writer) {
		if cmd.NeedsInput {
			fmt.Fprintf(out, "Usage: kmertools %s [flags] -i IN [-o OUT]\n", cmd.Name)
		} else {
			fmt.Fprintf(out, "Usage: kmertools %s [flags]\n", cmd.Name)
		}
	})

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if opt.Version {
		return opt, nil
	}

	if path := config.Path(opt.Config); path != "" {
		f, err := config.Load(path)
		if err != nil {
			return opt, err
		}
		if err := f.Apply(fs, command); err != nil {
			return opt, err
		}
	}

	if err := clibase.AfterParse(&opt.Common, cmd.NeedsInput, fs.Args()); err != nil {
		return opt, err
	}
	return opt, validate(&opt)
}

func register(fs *pflag.FlagSet, cmd Command, o *Options) {
	switch cmd.Name {
	case CmdOligo:
		fs.IntVarP(&o.K, "k-size", "k", 4, "k-mer size (1-12)")
		fs.BoolVarP(&o.Counts, "counts", "c", false, "output raw counts instead of frequencies")
		registerVector(fs, o)
	case CmdCGR:
		fs.IntVarP(&o.K, "k-size", "k", 4, "CGR order: the grid is 2^k x 2^k (1-12)")
		fs.BoolVar(&o.OligoCGR, "oligo", false, "oligo-CGR: canonical k-mer frequencies, header holds their CGR points")
		fs.Float64Var(&o.Size, "size", 1, "side of the CGR square for --oligo points")
		registerVector(fs, o)
	case CmdMin:
		fs.IntVarP(&o.K, "m-size", "m", 10, "minimizer size (1-32)")
		fs.IntVarP(&o.Window, "w-size", "w", 0, "window size in bases (0 = one window over each sequence)")
		fs.StringVarP(&o.Preset, "preset", "p", PresetS2M, "s2m: minimizers per sequence | m2s: sequences per minimizer")
		fs.StringVar(&o.Dedup, "dedup", minimiser.DedupAdjacent.String(), "adjacent: collapse windows sharing a minimizer | every-window: one per window")
	case CmdCount:
		fs.IntVarP(&o.K, "k-size", "k", 15, "k-mer size (1-32)")
		fs.BoolVarP(&o.ACGT, "acgt", "a", false, "write k-mers as ACGT instead of numeric codes")
	case CmdCov:
		fs.IntVarP(&o.K, "k-size", "k", 15, "k-mer size (1-32)")
		fs.StringArrayVarP(&o.CountInputs, "alt-input", "a", nil, "count k-mers from these files instead of --input (repeatable)")
		fs.IntVarP(&o.BinSize, "bin-size", "s", 16, "coverage per histogram bin")
		fs.IntVarP(&o.BinCount, "bin-count", "c", 16, "number of histogram bins")
		fs.BoolVar(&o.Counts, "counts", false, "output raw counts instead of frequencies")
		registerVector(fs, o)
	case CmdHeader:
		fs.IntVarP(&o.K, "k-size", "k", 4, "k-mer size (1-12)")
		fs.BoolVar(&o.Raw, "raw", false, "all 4^k labels (cgr cells) instead of canonical bins")
		fs.StringVarP(&o.Preset, "preset", "p", "spc", "column delimiter: spc | csv | tsv")
	}
}

func registerVector(fs *pflag.FlagSet, o *Options) {
	fs.StringVarP(&o.Preset, "preset", "p", "spc", "column delimiter: spc | csv | tsv")
	fs.BoolVarP(&o.Header, "header", "H", false, "write a header row with the column labels")
}

func checkK(name string, k, hi int) error {
	if k < 1 || k > hi {
		return fmt.Errorf("--%s must be between 1 and %d", name, hi)
	}
	return nil
}

func validate(o *Options) error {
	switch o.Command {
	case CmdOligo, CmdCGR, CmdHeader:
		if err := checkK("k-size", o.K, kmer.MaxTableK); err != nil {
			return err
		}
		if o.Command == CmdCGR && o.Size <= 0 {
			return errors.New("--size must be > 0")
		}
	case CmdCount, CmdCov:
		if err := checkK("k-size", o.K, nucleotide.MaxK); err != nil {
			return err
		}
		if o.Command == CmdCov {
			if o.BinSize < 1 {
				return errors.New("--bin-size must be ≥ 1")
			}
			if o.BinCount < 1 {
				return errors.New("--bin-count must be ≥ 1")
			}
			exp, err := cliutil.ExpandPositionals(o.CountInputs)
			if err != nil {
				return err
			}
			o.CountInputs = exp
			if cliutil.CountStdin(exp)+cliutil.CountStdin(o.Inputs) > 1 {
				return errors.New("'-' (STDIN) may be given only once")
			}
		}
	case CmdMin:
		if err := checkK("m-size", o.K, nucleotide.MaxK); err != nil {
			return err
		}
		if o.Window < 0 {
			return errors.New("--w-size must be ≥ 0")
		}
		if o.Window > 0 && o.Window < o.K {
			return fmt.Errorf("--w-size (%d) must be 0 or ≥ --m-size (%d)", o.Window, o.K)
		}
		mode, err := minimiser.ParseDedup(o.Dedup)
		if err != nil {
			return fmt.Errorf("invalid --dedup %q", o.Dedup)
		}
		o.DedupMode = mode
		switch o.Preset {
		case PresetS2M, PresetM2S:
		default:
			return fmt.Errorf("invalid --preset %q", o.Preset)
		}
		return nil
	}
	d, ok := writers.Presets[o.Preset]
	if !ok {
		return fmt.Errorf("invalid --preset %q", o.Preset)
	}
	o.Delim = d
	return nil
}
