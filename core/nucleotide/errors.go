// core/nucleotide/errors.go
package nucleotide

import (
	"errors"
	"fmt"
	"strconv"
)

// Sentinels for errors.Is checks. The typed errors below wrap them.
var (
	ErrInvalidBase = errors.New("invalid base")
	ErrConfig      = errors.New("invalid configuration")
	ErrTooShort    = errors.New("sequence too short")
)

// InvalidBaseError reports a symbol outside the accepted alphabet.
type InvalidBaseError struct {
	Pos    int
	Symbol byte
}

func (e *InvalidBaseError) Error() string {
	return fmt.Sprintf("invalid base %s at position %d", strconv.QuoteRune(rune(e.Symbol)), e.Pos)
}

func (e *InvalidBaseError) Is(target error) bool { return target == ErrInvalidBase }

// ConfigError is returned by constructors when k, order or w is unusable.
type ConfigError struct {
	Param string
	Value int
	Rule  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s=%d: %s", e.Param, e.Value, e.Rule)
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// CheckRange returns a *ConfigError unless lo <= v <= hi.
func CheckRange(param string, v, lo, hi int) error {
	if v < lo || v > hi {
		return &ConfigError{Param: param, Value: v, Rule: fmt.Sprintf("must be in [%d,%d]", lo, hi)}
	}
	return nil
}
