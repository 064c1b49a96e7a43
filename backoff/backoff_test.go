package backoff_test

import (
	"testing"
	"time"

	"github.com/cascadehq/cascade/backoff"
)

func TestNone(t *testing.T) {
	s := backoff.NewNone()
	for _, attempt := range []int{1, 2, 10} {
		if d := s.Delay(attempt); d != 0 {
			t.Errorf("Delay(%d) = %s, want 0", attempt, d)
		}
	}
}

func TestConstant(t *testing.T) {
	s := backoff.NewConstant(2 * time.Second)
	for _, attempt := range []int{1, 5} {
		if d := s.Delay(attempt); d != 2*time.Second {
			t.Errorf("Delay(%d) = %s, want 2s", attempt, d)
		}
	}
}

func TestExponential(t *testing.T) {
	s := backoff.NewExponential(100*time.Millisecond, 1*time.Second)

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{4, 800 * time.Millisecond},
		{5, 1 * time.Second}, // capped
		{10, 1 * time.Second},
	}
	for _, tt := range tests {
		if d := s.Delay(tt.attempt); d != tt.want {
			t.Errorf("Delay(%d) = %s, want %s", tt.attempt, d, tt.want)
		}
	}
}

func TestExponentialWithJitterStaysInRange(t *testing.T) {
	s := backoff.NewExponentialWithJitter(100*time.Millisecond, 1*time.Second)

	for range 50 {
		d := s.Delay(3) // base 400ms
		if d < 0 || d > 400*time.Millisecond {
			t.Fatalf("Delay(3) = %s, want within [0, 400ms]", d)
		}
	}
}

func TestDefaultStrategyIsNoDelay(t *testing.T) {
	if d := backoff.DefaultStrategy().Delay(1); d != 0 {
		t.Errorf("default Delay(1) = %s, want 0", d)
	}
}
