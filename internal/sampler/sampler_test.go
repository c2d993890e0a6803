package sampler

import "testing"

func TestPickDeterministic(t *testing.T) {
	a := Pick(3600, 5, 42, DefaultStride, DefaultSampleDuration)
	b := Pick(3600, 5, 42, DefaultStride, DefaultSampleDuration)
	if len(a) != len(b) {
		t.Fatalf("length mismatch")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed produced different results at %d: %v vs %v", i, a, b)
		}
	}
}

func TestPickReturnsAllWhenFewerCandidates(t *testing.T) {
	got := Pick(400, 16, 1, DefaultStride, DefaultSampleDuration)
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates (t=0, t=300), got %d: %v", len(got), got)
	}
}

func TestPickSortedAscending(t *testing.T) {
	got := Pick(3600, 5, 7, DefaultStride, DefaultSampleDuration)
	for i := 1; i < len(got); i++ {
		if got[i] < got[i-1] {
			t.Fatalf("not sorted: %v", got)
		}
	}
}

func TestPickWithinBounds(t *testing.T) {
	duration := 1000.0
	got := Pick(duration, 100, 1, DefaultStride, DefaultSampleDuration)
	for _, t0 := range got {
		if t0+DefaultSampleDuration > duration {
			t.Fatalf("sample at %v exceeds duration %v", t0, duration)
		}
	}
}

func TestPickUsesConfiguredStrideAndDuration(t *testing.T) {
	got := Pick(1000, 100, 1, 100, 30)
	want := []float64{0, 100, 200, 300, 400, 500, 600, 700, 800, 900}
	if len(got) != len(want) {
		t.Fatalf("expected %d candidates, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("candidate %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPickFallsBackToDefaultsWhenUnset(t *testing.T) {
	a := Pick(3600, 5, 42, 0, 0)
	b := Pick(3600, 5, 42, DefaultStride, DefaultSampleDuration)
	if len(a) != len(b) {
		t.Fatalf("length mismatch")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("zero stride/duration should fall back to defaults: %v vs %v", a, b)
		}
	}
}
