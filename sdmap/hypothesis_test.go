package sdmap

import "testing"

func TestUnzeroPreservesSignAndLiftsMagnitude(t *testing.T) {
	cases := []struct {
		in, want float32
	}{
		{0, unzeroEps},
		{1e-7, unzeroEps},
		{-1e-7, -unzeroEps},
		{0.5, 0.5},
		{-0.5, -0.5},
	}
	for _, c := range cases {
		got := unzero(c.in)
		if got != c.want {
			t.Errorf("unzero(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestUnzeroIsIdempotent(t *testing.T) {
	for _, v := range []float32{0, 1e-8, -1e-8, 3.5, -3.5} {
		once := unzero(v)
		twice := unzero(once)
		if once != twice {
			t.Errorf("unzero not idempotent for %v: %v != %v", v, once, twice)
		}
	}
}

func TestIsValidDepthInvariant(t *testing.T) {
	minDepth := 0.1

	valid := PixelHypothesis{Valid: true, IDepth: 1, IDepthVar: 0.01}
	if !valid.IsValidDepth(minDepth) {
		t.Error("expected valid hypothesis within bounds to satisfy invariant")
	}

	tooDeep := PixelHypothesis{Valid: true, IDepth: float32(1/minDepth) + 1, IDepthVar: 0.01}
	if tooDeep.IsValidDepth(minDepth) {
		t.Error("expected idepth exceeding 1/MinDepth to violate invariant")
	}

	negative := PixelHypothesis{Valid: true, IDepth: -1, IDepthVar: 0.01}
	if negative.IsValidDepth(minDepth) {
		t.Error("expected non-positive idepth to violate invariant")
	}

	zeroVar := PixelHypothesis{Valid: true, IDepth: 1, IDepthVar: 0}
	if zeroVar.IsValidDepth(minDepth) {
		t.Error("expected zero variance to violate invariant")
	}

	invalid := PixelHypothesis{Valid: false}
	if !invalid.IsValidDepth(minDepth) {
		t.Error("an invalid cell trivially satisfies the depth invariant")
	}
}
