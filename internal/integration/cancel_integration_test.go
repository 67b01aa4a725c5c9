package integration

import (
	"context"
	"io"
	"strings"
	"testing"

	"kmertools/internal/app"
	"kmertools/internal/config"
)

func TestCancelledRunExits130(t *testing.T) {
	t.Setenv(config.EnvVar, "")
	fa := write(t, "big.fa", strings.Repeat(">r\n"+refSeq+"\n", 2000))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, cmd := range []string{"oligo", "count", "min"} {
		if code := app.RunContext(ctx, []string{cmd, "-i", fa}, io.Discard, io.Discard); code != 130 {
			t.Fatalf("%s: expected exit 130 on cancel, got %d", cmd, code)
		}
	}
}
