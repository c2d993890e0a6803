package offset

import (
	"math"
	"testing"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestEstimateUniformModeOnLowVariance(t *testing.T) {
	points := []Point{{0, 30, 0.9}, {100, 30.1, 0.9}, {200, 29.9, 0.9}}
	fn := Estimate(points)
	if fn.Mode != ModeUniform {
		t.Fatalf("expected uniform mode, got %v", fn.Mode)
	}
	if !approxEqual(fn.At(500), fn.Mean, 1e-9) {
		t.Fatalf("uniform mode should be constant")
	}
}

func TestEstimateRejectsOneBadMeasurement(t *testing.T) {
	points := []Point{
		{0, 30.0, 0.95},
		{100, 30.0, 0.92},
		{200, 30.0, 0.90},
		{300, 6.8, 0.61},
	}
	fn := Estimate(points)
	if fn.Rejected != 1 {
		t.Fatalf("expected 1 rejected point, got %d", fn.Rejected)
	}
	if !approxEqual(fn.Mean, 30.0, 0.3) {
		t.Fatalf("expected mean ~30.0, got %v", fn.Mean)
	}
}

func TestEstimateInterpolatedMode(t *testing.T) {
	points := []Point{
		{300, 60, 1},
		{1800, -60, 1},
		{3300, 30, 1},
	}
	fn := Estimate(points)
	if fn.Mode != ModeInterpolated {
		t.Fatalf("expected interpolated mode, got %v", fn.Mode)
	}
	if !approxEqual(fn.At(600), 36, 1e-6) {
		t.Fatalf("At(600) = %v, want 36", fn.At(600))
	}
	if !approxEqual(fn.At(1800), -60, 1e-6) {
		t.Fatalf("At(1800) = %v, want -60", fn.At(1800))
	}
	if !approxEqual(fn.At(2550), -15, 1e-6) {
		t.Fatalf("At(2550) = %v, want -15", fn.At(2550))
	}
}

func TestEstimateFlatExtrapolation(t *testing.T) {
	points := []Point{{300, 10, 1}, {900, 50, 1}, {1500, -10, 1}}
	fn := Estimate(points)
	if fn.At(0) != fn.Points[0].Delta {
		t.Fatalf("expected flat extrapolation before first point")
	}
	if fn.At(9999) != fn.Points[len(fn.Points)-1].Delta {
		t.Fatalf("expected flat extrapolation after last point")
	}
}

func TestEstimateBypassesOutlierFilterBelowFour(t *testing.T) {
	points := []Point{{0, 0, 1}, {100, 1000, 1}, {200, -1000, 1}}
	fn := Estimate(points)
	if fn.Rejected != 0 {
		t.Fatalf("expected no rejection with <4 points, got %d rejected", fn.Rejected)
	}
	if len(fn.Points) != 3 {
		t.Fatalf("expected all 3 points kept, got %d", len(fn.Points))
	}
}

func TestEstimatePermutationInvariant(t *testing.T) {
	a := []Point{{300, 60, 1}, {1800, -60, 1}, {3300, 30, 1}}
	b := []Point{{3300, 30, 1}, {300, 60, 1}, {1800, -60, 1}}
	fnA := Estimate(a)
	fnB := Estimate(b)
	if fnA.Mode != fnB.Mode || !approxEqual(fnA.Mean, fnB.Mean, 1e-9) {
		t.Fatalf("estimator not permutation invariant: %+v vs %+v", fnA, fnB)
	}
	for _, probe := range []float64{0, 600, 1800, 2550, 5000} {
		if !approxEqual(fnA.At(probe), fnB.At(probe), 1e-9) {
			t.Fatalf("At(%v) differs across permutations: %v vs %v", probe, fnA.At(probe), fnB.At(probe))
		}
	}
}

func TestEstimateIdentityOffset(t *testing.T) {
	points := []Point{{0, 0, 1}, {100, 0, 1}, {200, 0, 1}}
	fn := Estimate(points)
	if fn.Mode != ModeUniform || fn.Mean != 0 {
		t.Fatalf("expected uniform zero offset, got %+v", fn)
	}
}
