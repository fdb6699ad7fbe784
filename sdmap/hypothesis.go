package sdmap

import "math"

// unzeroEps is the minimum absolute value an inverse depth is allowed to
// take; it keeps 1/idepth well defined everywhere a hypothesis is valid.
const unzeroEps = 1e-5

// unzero lifts |x| to at least unzeroEps while preserving sign, per the
// UNZERO clamp used throughout observation, propagation and regularization.
func unzero(x float32) float32 {
	if x < 0 {
		if x > -unzeroEps {
			return -unzeroEps
		}
		return x
	}
	if x < unzeroEps {
		return unzeroEps
	}
	return x
}

// PixelHypothesis is the per-pixel probabilistic inverse-depth state held by
// the grid. IDepthSmoothed / IDepthVarSmoothed, not the posterior IDepth /
// IDepthVar, are what propagation, stereo priors, and exported maps consume;
// they are only meaningful after at least one regularizer pass.
type PixelHypothesis struct {
	Valid bool

	IDepth    float32
	IDepthVar float32

	IDepthSmoothed    float32
	IDepthVarSmoothed float32

	ValidityCounter int32
	Blacklisted     int32

	NextStereoFrameMinID uint32
}

// newHypothesis installs a fresh, valid hypothesis the way every creation
// site in the pipeline does: idepth and idepth_smoothed start equal, as do
// their variances.
func newHypothesis(idepth, idepthVar float32, validity int32) PixelHypothesis {
	id := unzero(idepth)
	return PixelHypothesis{
		Valid:                true,
		IDepth:               id,
		IDepthVar:            idepthVar,
		IDepthSmoothed:       id,
		IDepthVarSmoothed:    idepthVar,
		ValidityCounter:      validity,
		NextStereoFrameMinID: 0,
	}
}

// IsValidDepth reports whether the depth-side invariants hold: idepth within
// (0, 1/minDepth] and variance strictly positive.
func (h PixelHypothesis) IsValidDepth(minDepth float64) bool {
	if !h.Valid {
		return true
	}
	if h.IDepth <= 0 || h.IDepthVar <= 0 {
		return false
	}
	if float64(h.IDepth) > 1/minDepth+1e-6 {
		return false
	}
	return true
}

// isFinite guards the handful of places a NaN/Inf could otherwise slip a
// hypothesis past the invariants (e.g. a degenerate stereo Jacobian).
func isFinite(x float32) bool {
	return !math.IsNaN(float64(x)) && !math.IsInf(float64(x), 0)
}
