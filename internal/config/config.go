// Package config loads optional default flag values for kmertools.
//
// The file is named by --config or the KMERTOOLS_CONFIG environment
// variable; there is no automatic discovery. YAML (.yaml, .yml) and JSON
// with comments (.json, .jsonc) are accepted:
//
//	defaults:
//	  threads: 8
//	  ambiguous: skip
//	commands:
//	  oligo:
//	    k: 5
//	    preset: tsv
//
// Keys are long flag names. Explicit command-line flags always win over
// the file, and a command section wins over defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/pflag"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EnvVar names the config file when --config is not given.
const EnvVar = "KMERTOOLS_CONFIG"

// File is a parsed config file.
type File struct {
	Defaults map[string]any            `yaml:"defaults" json:"defaults"`
	Commands map[string]map[string]any `yaml:"commands" json:"commands"`
}

// Path returns flagValue, or the environment fallback when it is empty.
func Path(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(EnvVar)
}

// Load reads a config file. The format follows the extension; unknown
// extensions are parsed as YAML (a superset of plain JSON).
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes data according to ext (".yaml", ".json", ...).
func Parse(data []byte, ext string) (*File, error) {
	var f File
	switch strings.ToLower(ext) {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &f); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	return &f, nil
}

// Apply sets every flag of fs that was not given on the command line from
// the file: the command's section first, then defaults. Keys that are not
// flags of fs are errors in the command section and ignored in defaults
// (defaults are shared by commands with different flag sets).
func (f *File) Apply(fs *pflag.FlagSet, command string) error {
	if f == nil {
		return nil
	}
	section := f.Commands[command]
	for _, name := range sortedKeys(section) {
		if fs.Lookup(name) == nil {
			return fmt.Errorf("config: %s: unknown option %q", command, name)
		}
	}
	done := make(map[string]bool)
	apply := func(vals map[string]any) error {
		for _, name := range sortedKeys(vals) {
			fl := fs.Lookup(name)
			if fl == nil || fl.Changed || done[name] {
				continue
			}
			done[name] = true
			if err := fs.Set(name, scalar(vals[name])); err != nil {
				return fmt.Errorf("config: %s: %w", name, err)
			}
			// Set marks the flag as changed; keep explicit-only semantics.
			fl.Changed = false
		}
		return nil
	}
	if err := apply(section); err != nil {
		return err
	}
	return apply(f.Defaults)
}

func scalar(v any) string {
	switch x := v.(type) {
	case float64:
		// JSON numbers
		if x == float64(int64(x)) {
			return fmt.Sprint(int64(x))
		}
	case string:
		return x
	}
	return fmt.Sprint(v)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
