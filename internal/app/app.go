// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"kmertools/internal/appcore"
	"kmertools/internal/cli"
	"kmertools/internal/clibase"
	"kmertools/internal/version"
	"kmertools/internal/writers"
)

func flush(w *bufio.Writer, stderr io.Writer, code int) int {
	if err := w.Flush(); writers.IsBrokenPipe(err) {
		return code
	} else if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return appcore.ExitIO
	}
	return code
}

func usage(out io.Writer) {
	fmt.Fprintf(out, "kmertools – k-mer based DNA vectorisation\n\nVersion: %s\n\n", version.Version)
	fmt.Fprintln(out, "Usage: kmertools <command> [flags] -i IN [-o OUT]")
	fmt.Fprintln(out, "\nCommands:")
	for _, c := range cli.Commands {
		fmt.Fprintf(out, "  %-8s %s\n", c.Name, c.Summary)
	}
	fmt.Fprintln(out)
	clibase.PrintExamples(out, "kmertools", func(w io.Writer) {
		fmt.Fprintln(w, "  kmertools oligo -k 4 -H -p csv -i reads.fq.gz -o oligo.csv")
		fmt.Fprintln(w, "  kmertools cgr -k 6 -i contigs.fa -o cgr.txt.zst")
		fmt.Fprintln(w, "  kmertools min -m 7 -w 31 -p m2s -i reads.fq -o bins.tsv")
		fmt.Fprintln(w, "  cat reads.fq | kmertools count -k 15 --acgt -i - > counts.tsv")
	})
}

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)

	if len(argv) == 0 {
		usage(outw)
		return flush(outw, stderr, appcore.ExitOK)
	}
	switch argv[0] {
	case "-h", "--help", "help":
		usage(outw)
		return flush(outw, stderr, appcore.ExitOK)
	case "-v", "--version", "version":
		_, _ = fmt.Fprintf(outw, "kmertools version %s\n", version.Version)
		return flush(outw, stderr, appcore.ExitOK)
	}

	cmd, ok := cli.Lookup(argv[0])
	if !ok {
		_, _ = fmt.Fprintf(stderr, "unknown command %q\n\n", argv[0])
		usage(stderr)
		return appcore.ExitUsage
	}

	fs := cli.NewFlagSet(cmd.Name)
	fs.SetOutput(io.Discard)
	opts, err := cli.ParseArgs(fs, cmd.Name, argv[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fs.SetOutput(outw)
			fs.Usage()
			return flush(outw, stderr, appcore.ExitOK)
		}
		_, _ = fmt.Fprintf(stderr, "%s: %v\nRun 'kmertools %s --help' for usage.\n", cmd.Name, err, cmd.Name)
		return appcore.ExitUsage
	}
	if opts.Version {
		_, _ = fmt.Fprintf(outw, "kmertools version %s\n", version.Version)
		return flush(outw, stderr, appcore.ExitOK)
	}

	s, code := appcore.Open(cmd.Name, stdout, stderr, opts.Common)
	if s == nil {
		return code
	}
	switch cmd.Name {
	case cli.CmdOligo:
		return runOligo(parent, s, opts)
	case cli.CmdCGR:
		return runCGR(parent, s, opts)
	case cli.CmdMin:
		return runMin(parent, s, opts)
	case cli.CmdCount:
		return runCount(parent, s, opts)
	case cli.CmdCov:
		return runCov(parent, s, opts)
	case cli.CmdHeader:
		return runHeader(s, opts)
	}
	return s.Close(fmt.Errorf("command %q not wired", cmd.Name))
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
