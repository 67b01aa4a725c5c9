// internal/clibase/usage.go
package clibase

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"kmertools/internal/version"
)

// UsageCommon installs a shared Usage() handler on fs. extra prints
// command-specific sections before the flag table.
func UsageCommon(fs *pflag.FlagSet, name, summary string, extra func(out io.Writer)) {
	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "kmertools %s – %s\n\n", name, summary)
		fmt.Fprintf(out, "Version: %s\n\n", version.Version)
		if extra != nil {
			extra(out)
		}
		fmt.Fprintln(out, "\nFlags:")
		fmt.Fprint(out, fs.FlagUsages())
		fmt.Fprintln(out, "  -h, --help                 show this help and exit")
	}
}
