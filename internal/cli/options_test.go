// internal/cli/options_test.go
package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"kmertools/core/minimiser"
	"kmertools/core/nucleotide"
	"kmertools/internal/config"
)

func mustParse(t *testing.T, command string, args ...string) Options {
	t.Helper()
	t.Setenv(config.EnvVar, "")
	opts, err := ParseArgs(NewFlagSet(command), command, args)
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	return opts
}

func parseErr(t *testing.T, command string, args ...string) error {
	t.Helper()
	t.Setenv(config.EnvVar, "")
	_, err := ParseArgs(NewFlagSet(command), command, args)
	return err
}

func TestOligoDefaults(t *testing.T) {
	o := mustParse(t, CmdOligo, "-i", "reads.fq")
	if o.K != 4 || o.Delim != ' ' || o.Counts || o.Header || o.Output != "-" || o.Format != "text" {
		t.Fatalf("defaults: %+v", o)
	}
	if p := o.Policy(); p != nucleotide.Lenient {
		t.Fatalf("CLI policy = %+v, want lenient", p)
	}
}

func TestPositionalsAndShortFlags(t *testing.T) {
	o := mustParse(t, CmdOligo, "a.fa", "-k", "5", "-p", "csv", "-H", "-c", "--input", "b.fq", "-t", "3")
	if o.K != 5 || o.Delim != ',' || !o.Header || !o.Counts || o.Threads != 3 {
		t.Fatalf("bad parse %+v", o)
	}
	if strings.Join(o.Inputs, ",") != "b.fq,a.fa" {
		t.Fatalf("inputs = %v", o.Inputs)
	}
}

func TestStrictPolicy(t *testing.T) {
	o := mustParse(t, CmdCGR, "-i", "x.fa", "--ambiguous", "reject", "--fold-case=false")
	if o.Policy() != nucleotide.Strict {
		t.Fatalf("policy = %+v", o.Policy())
	}
}

func TestMinOptions(t *testing.T) {
	o := mustParse(t, CmdMin, "-i", "x.fq", "-m", "7", "-w", "31", "-p", "m2s", "--dedup", "every-window")
	if o.K != 7 || o.Window != 31 || o.Preset != PresetM2S || o.DedupMode != minimiser.EveryWindow {
		t.Fatalf("min: %+v", o)
	}
	if o = mustParse(t, CmdMin, "-i", "x.fq"); o.DedupMode != minimiser.DedupAdjacent {
		t.Fatalf("default dedup = %v", o.DedupMode)
	}
}

func TestHeaderNeedsNoInput(t *testing.T) {
	o := mustParse(t, CmdHeader, "-k", "3", "--raw")
	if o.K != 3 || !o.Raw {
		t.Fatalf("header: %+v", o)
	}
	if err := parseErr(t, CmdHeader, "stray.fa"); err == nil {
		t.Fatal("header must reject positionals")
	}
}

func TestValidationErrors(t *testing.T) {
	cases := []struct {
		cmd  string
		args []string
		want string
	}{
		{CmdOligo, nil, "--input"},
		{CmdOligo, []string{"-i", "x", "-k", "13"}, "--k-size"},
		{CmdOligo, []string{"-i", "x", "-p", "pipe"}, "--preset"},
		{CmdOligo, []string{"-i", "x", "-t", "-1"}, "--threads"},
		{CmdOligo, []string{"-i", "x", "--format", "xml"}, "--format"},
		{CmdOligo, []string{"-i", "x", "--compress", "rar"}, "--compress"},
		{CmdOligo, []string{"-i", "x", "--ambiguous", "maybe"}, "--ambiguous"},
		{CmdOligo, []string{"-i", "-", "-"}, "STDIN"},
		{CmdMin, []string{"-i", "x", "-m", "10", "-w", "5"}, "--w-size"},
		{CmdMin, []string{"-i", "x", "-p", "csv"}, "--preset"},
		{CmdMin, []string{"-i", "x", "--dedup", "sometimes"}, "--dedup"},
		{CmdCov, []string{"-i", "x", "--bin-size", "0"}, "--bin-size"},
		{CmdCount, []string{"-i", "x", "-k", "33"}, "--k-size"},
		{CmdCGR, []string{"-i", "x", "--size", "0"}, "--size"},
	}
	for _, c := range cases {
		err := parseErr(t, c.cmd, c.args...)
		if err == nil || !strings.Contains(err.Error(), c.want) {
			t.Errorf("%s %v: want error mentioning %s, got %v", c.cmd, c.args, c.want, err)
		}
	}
}

func TestHelpAndVersion(t *testing.T) {
	if err := parseErr(t, CmdOligo, "--help"); !errors.Is(err, pflag.ErrHelp) {
		t.Fatalf("want ErrHelp, got %v", err)
	}
	o := mustParse(t, CmdOligo, "-v")
	if !o.Version {
		t.Fatal("version flag")
	}
	if err := parseErr(t, "frobnicate"); err == nil {
		t.Fatal("unknown command must fail")
	}
}

func TestConfigDefaults(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "kt.yaml")
	cfg := "defaults:\n  threads: 6\ncommands:\n  oligo:\n    k-size: 6\n    preset: tsv\n"
	if err := os.WriteFile(fn, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	o, err := ParseArgs(NewFlagSet(CmdOligo), CmdOligo, []string{"-i", "x.fa", "--config", fn, "-p", "csv"})
	if err != nil {
		t.Fatal(err)
	}
	if o.K != 6 || o.Threads != 6 || o.Delim != ',' {
		t.Fatalf("config merge: k=%d threads=%d delim=%q", o.K, o.Threads, o.Delim)
	}

	t.Setenv(config.EnvVar, fn)
	o, err = ParseArgs(NewFlagSet(CmdOligo), CmdOligo, []string{"-i", "x.fa"})
	if err != nil || o.K != 6 {
		t.Fatalf("env config: k=%d err=%v", o.K, err)
	}
}
