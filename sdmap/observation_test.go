package sdmap

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
)

// TestObserveDepthTexturelessRegionStaysInvalid covers the texture-less
// region property: a keyframe with zero gradient everywhere never grows a
// valid hypothesis, no matter what reference it is observed against,
// because the MinAbsGradCreate gate in observeDepthRow rejects every pixel
// before a stereo search is ever attempted.
func TestObserveDepthTexturelessRegionStaysInvalid(t *testing.T) {
	const w, h = 40, 40
	settings := DefaultSettings()
	k := identityIntrinsics(w, h)
	kInv := newR3x3(KInvMatrix(k))

	kf := newFakeFrame(1, w, h)
	kf.fillUniform(128)

	refFrame := newFakeFrame(2, w, h)
	refFrame.fillUniform(128)
	transform := RigidTransform{R: Identity().R, T: r3.Vector{X: 0, Y: 0, Z: 0.2}, Scale: 1}
	ref := PrepareForStereo(refFrame, transform, k, 1, 1)

	grid := NewGrid(w, h)
	ObserveDepth(kf, grid, ref, k, kInv, settings, false, SequentialReducer{})

	for y := 3; y < h-3; y++ {
		for x := 3; x < w-3; x++ {
			if grid.At(x, y).Valid {
				t.Fatalf("texture-less pixel (%d,%d) unexpectedly became valid", x, y)
			}
		}
	}
}

// TestDoLineStereoRejectsAmbiguousPeriodicTexture covers the ambiguity
// rejection property: a near-Nyquist periodic intensity pattern along the
// epipolar line (period close to 2*ReferenceSampleDistance) produces
// several equally-good matches spaced one period apart, so the SSD sliding
// window can't isolate a unique minimum for most candidate pixels.
func TestDoLineStereoRejectsAmbiguousPeriodicTexture(t *testing.T) {
	const w, h = 200, 80
	settings := DefaultSettings()

	const amplitude = 500.0
	const slope = 15.0
	const period = 2.03 // just off the exact Nyquist period of 2*ReferenceSampleDistance
	intensity := func(x float64) float32 {
		return float32(amplitude*math.Sin(2*math.Pi*x/period) + slope*x)
	}

	kf, ref, k, kInv := buildFrontoParallelSceneWithIntensity(t, w, h, 0.5, 0.2, intensity)

	rejected, total := 0, 0
	for dx := 15; dx <= 70; dx += 2 {
		x := int(k.Ppx) + dx
		y := int(k.Ppy)
		total++

		result := doLineStereo(kf, x, y, 0.3, 0.5, 0.8, ref, k, kInv, settings)
		if !result.OK() {
			rejected++
		}
	}

	rate := float64(rejected) / float64(total)
	if rate <= 0.8 {
		t.Fatalf("expected > 0.8 rejection rate for the near-Nyquist texture, got %v (%d/%d)", rate, rejected, total)
	}
}
