package workers

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
	"testing"
)

func TestCount(t *testing.T) {
	if got := Count(3); got != 3 {
		t.Errorf("Count(3) = %d", got)
	}
	if got := Count(0); got != runtime.GOMAXPROCS(0) {
		t.Errorf("Count(0) = %d, want GOMAXPROCS", got)
	}
	if got := Count(-2); got != runtime.GOMAXPROCS(0) {
		t.Errorf("Count(-2) = %d, want GOMAXPROCS", got)
	}
}

func TestBandsCoverEveryIndexOnce(t *testing.T) {
	tests := []struct {
		n, workers int
	}{
		{1, 1},
		{10, 1},
		{10, 3},
		{10, 10},
		{10, 64},
		{513, 0},
		{1000, 7},
	}

	for _, tt := range tests {
		hits := make([]int32, tt.n)
		err := Bands(context.Background(), tt.n, tt.workers, func(lo, hi int) {
			if lo >= hi {
				t.Errorf("n=%d workers=%d: empty band [%d,%d)", tt.n, tt.workers, lo, hi)
			}
			for i := lo; i < hi; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		if err != nil {
			t.Fatalf("Bands: %v", err)
		}
		for i, h := range hits {
			if h != 1 {
				t.Fatalf("n=%d workers=%d: index %d visited %d times", tt.n, tt.workers, i, h)
			}
		}
	}
}

func TestBandsEmpty(t *testing.T) {
	called := false
	if err := Bands(context.Background(), 0, 4, func(lo, hi int) { called = true }); err != nil {
		t.Fatalf("Bands: %v", err)
	}
	if called {
		t.Error("fn called for empty range")
	}
}

func TestBandsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, w := range []int{1, 4} {
		var calls int32
		err := Bands(ctx, 100, w, func(lo, hi int) { atomic.AddInt32(&calls, 1) })
		if !errors.Is(err, context.Canceled) {
			t.Errorf("workers=%d: expected context.Canceled, got %v", w, err)
		}
		if calls != 0 {
			t.Errorf("workers=%d: %d bands ran after cancellation", w, calls)
		}
	}
}
