package batch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestMapPreservesOrder(t *testing.T) {
	const n = 500
	out := make([]int, n)
	err := Map(context.Background(), 8, n, func(i int) error {
		if i%7 == 0 {
			time.Sleep(time.Microsecond)
		}
		out[i] = i * i
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range out {
		if v != i*i {
			t.Fatalf("out[%d] = %d", i, v)
		}
	}
}

func TestMapCollectsItemErrors(t *testing.T) {
	bad := errors.New("bad item")
	var ran atomic.Int32
	err := Map(context.Background(), 3, 10, func(i int) error {
		ran.Add(1)
		if i == 2 || i == 7 {
			return bad
		}
		return nil
	})
	if ran.Load() != 10 {
		t.Fatalf("an item error must not stop the batch: ran %d", ran.Load())
	}
	var be *Error
	if !errors.As(err, &be) {
		t.Fatalf("want *Error, got %v", err)
	}
	if len(be.Items) != 2 || be.Items[0].Index != 2 || be.Items[1].Index != 7 {
		t.Fatalf("items = %+v", be.Items)
	}
	if !be.Failed(7) || be.Failed(3) {
		t.Fatal("Failed() wrong")
	}
	if !errors.Is(err, bad) {
		t.Fatal("errors.Is must see item causes")
	}
}

func TestMapCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Map(ctx, 2, 100, func(int) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestMapEmpty(t *testing.T) {
	if err := Map(context.Background(), 0, 0, nil); err != nil {
		t.Fatal(err)
	}
	if Threads(0) < 1 || Threads(3) != 3 {
		t.Fatal("Threads normalization")
	}
}
