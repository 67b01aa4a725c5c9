// internal/clibase/examples.go
package clibase

import (
	"fmt"
	"io"
)

// PrintExamples writes an "Examples:" block produced by body and a pointer
// to per-command help.
func PrintExamples(out io.Writer, name string, body func(io.Writer)) {
	if out == nil || body == nil {
		return
	}
	_, _ = fmt.Fprintln(out, "Examples:")
	body(out)
	_, _ = fmt.Fprintf(out, "\nRun '%s <command> --help' for the flags of a command.\n", name)
}
