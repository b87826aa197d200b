package testfixtures

import (
	"testing"
	"time"
)

func TestClockSteering(t *testing.T) {
	start := time.Date(2024, time.June, 10, 8, 0, 0, 0, time.UTC)
	clock := NewClock(start)
	now := clock.NowFunc()

	if got := now(); !got.Equal(start) {
		t.Fatalf("fresh clock reads %v, want %v", got, start)
	}

	clock.Advance(45 * time.Minute)
	if got := now(); !got.Equal(start.Add(45 * time.Minute)) {
		t.Fatalf("after advance clock reads %v", got)
	}

	target := start.AddDate(0, 1, 0)
	clock.Set(target)
	if got := clock.Now(); !got.Equal(target) {
		t.Fatalf("after set clock reads %v, want %v", got, target)
	}
}

func TestClockZeroStartUsesReferenceTime(t *testing.T) {
	if got := NewClock(time.Time{}).Now(); !got.Equal(ReferenceTime()) {
		t.Fatalf("zero start reads %v, want %v", got, ReferenceTime())
	}
}

func TestIDGeneratorSequence(t *testing.T) {
	gen := NewIDGenerator("record")
	next := gen.NextFunc()

	for i, want := range []string{"record-1", "record-2", "record-3"} {
		if got := next(); got != want {
			t.Fatalf("id %d is %q, want %q", i+1, got, want)
		}
	}

	if got := NewIDGenerator("").Next(); got != "id-1" {
		t.Fatalf("blank prefix produced %q", got)
	}
}
