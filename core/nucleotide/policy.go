package nucleotide

import (
	"fmt"
	"strings"
)

// AmbiguousMode selects what happens when a scanner meets a symbol outside
// {A,C,G,T}.
type AmbiguousMode uint8

const (
	// Reject stops the scan with an *InvalidBaseError.
	Reject AmbiguousMode = iota
	// Skip drops the symbol and restarts the rolling window after it.
	Skip
)

func (m AmbiguousMode) String() string {
	switch m {
	case Reject:
		return "reject"
	case Skip:
		return "skip"
	default:
		return fmt.Sprintf("AmbiguousMode(%d)", uint8(m))
	}
}

// ParseAmbiguousMode accepts "reject" or "skip" (case-insensitive).
func ParseAmbiguousMode(s string) (AmbiguousMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "reject", "":
		return Reject, nil
	case "skip":
		return Skip, nil
	}
	return Reject, fmt.Errorf("unknown ambiguous-base mode %q (want reject|skip)", s)
}

// Policy configures how scanners treat case and non-ACGT symbols.
// The zero value is strict: uppercase ACGT only, anything else rejected.
type Policy struct {
	FoldCase  bool
	Ambiguous AmbiguousMode
}

// Strict is the default library policy.
var Strict = Policy{}

// Lenient accepts lowercase and skips over ambiguous symbols, which is how
// read-level scanners usually treat N runs.
var Lenient = Policy{FoldCase: true, Ambiguous: Skip}

// Lookup returns the 2-bit value of b under p, or Invalid.
func (p Policy) Lookup(b byte) byte {
	if p.FoldCase {
		return foldTable[b]
	}
	return strictTable[b]
}
