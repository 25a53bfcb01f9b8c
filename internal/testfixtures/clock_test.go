package testfixtures

import (
	"testing"
	"time"
)

func TestClockDefaultsToReferenceTime(t *testing.T) {
	t.Parallel()

	clock := NewClock(time.Time{})
	if got := clock.Now(); !got.Equal(ReferenceTime()) {
		t.Fatalf("expected ReferenceTime, got %v", got)
	}
	if got := clock.Now(); !got.Equal(ReferenceTime()) {
		t.Fatalf("expected a clock without step to stand still, got %v", got)
	}
}

func TestClockTicking(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, time.September, 2, 13, 30, 0, 0, time.UTC)
	clock := NewClock(start).Ticking(time.Minute)
	nowFn := clock.NowFunc()

	first := nowFn()
	second := nowFn()
	if !first.Equal(start) || !second.Equal(start.Add(time.Minute)) {
		t.Fatalf("expected %v then %v, got %v then %v", start, start.Add(time.Minute), first, second)
	}
	if got := clock.Peek(); !got.Equal(start.Add(2 * time.Minute)) {
		t.Fatalf("expected peek %v, got %v", start.Add(2*time.Minute), got)
	}

	if got := clock.Advance(time.Hour); !got.Equal(start.Add(62 * time.Minute)) {
		t.Fatalf("expected advance to %v, got %v", start.Add(62*time.Minute), got)
	}
}

func TestNilClockFallsBackToWallClock(t *testing.T) {
	t.Parallel()

	var clock *Clock
	before := time.Now()
	if got := clock.NowFunc()(); got.Before(before) {
		t.Fatalf("expected wall clock time after %v, got %v", before, got)
	}
}

func TestIDGenerator(t *testing.T) {
	t.Parallel()

	gen := NewIDGenerator("snap")
	if first, second := gen.Next(), gen.Next(); first != "snap-0001" || second != "snap-0002" {
		t.Fatalf("unexpected identifiers: %q, %q", first, second)
	}
	if got := NewIDGenerator("").Next(); got != "id-0001" {
		t.Fatalf("expected id-0001, got %q", got)
	}

	var nilGen *IDGenerator
	if got := nilGen.NextFunc()(); got != "" {
		t.Fatalf("expected empty id from nil generator, got %q", got)
	}
}
