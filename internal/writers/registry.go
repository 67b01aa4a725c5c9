// internal/writers/registry.go
package writers

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/fxamacker/cbor/v2"
)

// Output formats.
const (
	FormatText  = "text"
	FormatJSONL = "jsonl"
	FormatCBOR  = "cbor"
)

// Encoder writes one value to a stream.
type Encoder interface {
	Encode(v any) error
}

// Encoder registry (format → constructor). Text is not registered: each
// row type carries its own text renderer.
var encoders = map[string]func(io.Writer) Encoder{}

// cborMode uses Core Deterministic Encoding so identical rows give
// identical bytes (and identical run digests).
var cborMode cbor.EncMode

func init() {
	var err error
	cborMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("writers: CBOR encoder initialization failed: " + err.Error())
	}
	Register(FormatJSONL, func(w io.Writer) Encoder { return json.NewEncoder(w) })
	Register(FormatCBOR, func(w io.Writer) Encoder { return cborMode.NewEncoder(w) })
}

// Register adds or replaces a format (idempotent last-wins).
func Register(format string, fn func(io.Writer) Encoder) { encoders[format] = fn }

// NewEncoder returns a stream encoder for a registered (non-text) format.
func NewEncoder(format string, w io.Writer) (Encoder, bool) {
	fn, ok := encoders[format]
	if !ok {
		return nil, false
	}
	return fn(w), true
}

// ErrUnsupported reports an unknown output format.
func ErrUnsupported(format string) error { return fmt.Errorf("unsupported output %q", format) }

// Formats lists every accepted --format value, sorted.
func Formats() []string {
	out := []string{FormatText}
	for f := range encoders {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// Known reports whether format can be written.
func Known(format string) bool {
	if format == FormatText {
		return true
	}
	_, ok := encoders[format]
	return ok
}

// Presets maps a --preset name to its column delimiter.
var Presets = map[string]byte{
	"spc": ' ',
	"csv": ',',
	"tsv": '\t',
}
