package ch

import (
	"testing"
	"time"
)

func TestTicksDisabledByDefault(t *testing.T) {
	tk := newTicks()
	tk.reschedule()
	if _, ok := tk.timeLeft(); ok {
		t.Fatalf("expected disabled ticks to report no time left")
	}
}

func TestTicksReachedAfterPeriod(t *testing.T) {
	tk := newTicks()
	tk.setPeriod(20 * time.Millisecond)
	tk.reschedule()

	if tk.reached() {
		t.Fatalf("should not be reached immediately after reschedule")
	}
	time.Sleep(30 * time.Millisecond)
	if !tk.reached() {
		t.Fatalf("expected tick to be reached after sleeping past the period")
	}
}

func TestTicksPeriodBiasClamped(t *testing.T) {
	tk := newTicks()
	tk.setPeriodBias(5)
	if tk.maxBias != 1 {
		t.Fatalf("bias should clamp to 1, got %v", tk.maxBias)
	}
	tk.setPeriodBias(-5)
	if tk.maxBias != 0 {
		t.Fatalf("bias should clamp to 0, got %v", tk.maxBias)
	}
}

func TestTicksDisabledForHugePeriod(t *testing.T) {
	tk := newTicks()
	tk.setPeriod(400 * 24 * time.Hour)
	tk.reschedule()
	if _, ok := tk.timeLeft(); ok {
		t.Fatalf("expected huge period to disable ticks")
	}
}
