// internal/cli/commands.go
package cli

// Command names.
const (
	CmdOligo  = "oligo"
	CmdCGR    = "cgr"
	CmdMin    = "min"
	CmdCount  = "count"
	CmdCov    = "cov"
	CmdHeader = "header"
)

// Command describes one subcommand.
type Command struct {
	Name       string
	Summary    string
	NeedsInput bool
}

// Commands in help order.
var Commands = []Command{
	{CmdOligo, "oligonucleotide frequency vectors (canonical k-mers)", true},
	{CmdCGR, "chaos game representation count grids", true},
	{CmdMin, "minimizers per sequence (s2m) or sequences per minimizer (m2s)", true},
	{CmdCount, "count canonical k-mers", true},
	{CmdCov, "k-mer coverage histograms", true},
	{CmdHeader, "print the column labels of oligo/cgr vectors", false},
}

// Lookup finds a command by name.
func Lookup(name string) (Command, bool) {
	for _, c := range Commands {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}
