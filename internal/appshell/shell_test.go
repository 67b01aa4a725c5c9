package appshell

import (
	"context"
	"io"
	"syscall"
	"testing"
	"time"
)

func TestMainPassesArgsAndCode(t *testing.T) {
	code := runMain(func(_ context.Context, argv []string, _, _ io.Writer) int {
		if len(argv) != 2 || argv[0] != "oligo" {
			t.Errorf("argv = %v", argv)
		}
		return 3
	}, []string{"oligo", "-h"}, io.Discard, io.Discard)
	if code != 3 {
		t.Fatalf("code = %d", code)
	}
}

func TestMainSignalCancels(t *testing.T) {
	code := runMain(func(ctx context.Context, _ []string, _, _ io.Writer) int {
		_ = syscall.Kill(syscall.Getpid(), syscall.SIGTERM)
		select {
		case <-ctx.Done():
			return 0
		case <-time.After(5 * time.Second):
			t.Error("context not cancelled by SIGTERM")
			return 1
		}
	}, nil, io.Discard, io.Discard)
	if code != 130 {
		t.Fatalf("cancelled run must exit 130, got %d", code)
	}
}
