package action

import (
	"testing"
	"time"
)

func TestDeriveDuration(t *testing.T) {
	start := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)

	if got := DeriveDuration(&start, &end, 0); got != 90 {
		t.Fatalf("expected 90, got %d", got)
	}
	if got := DeriveDuration(&start, &end, 45); got != 45 {
		t.Fatalf("explicit value should win, got %d", got)
	}
	if got := DeriveDuration(nil, &end, 0); got != 0 {
		t.Fatalf("expected 0 without start, got %d", got)
	}
	if got := DeriveDuration(&end, &start, 0); got != 0 {
		t.Fatalf("expected 0 for inverted range, got %d", got)
	}
}
