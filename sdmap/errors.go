package sdmap

// StereoErrorKind enumerates the local failure classifications a single
// doLineStereo call can report. These are not exceptions: each drives a
// specific hypothesis-state transition in the caller (blacklist decrement,
// variance inflation, skip, retain) and never propagates beyond the update
// of one cell.
type StereoErrorKind int

const (
	// StereoOOB means the projected search segment left the image.
	StereoOOB StereoErrorKind = iota
	// StereoBad means the winning match was ambiguous, NaN, or negative
	// depth with negative depths disallowed.
	StereoBad
	// StereoLargeResidual means the best SSD match was still too large.
	StereoLargeResidual
	// StereoArithmetic means the epipolar segment length was non-positive
	// or infinite.
	StereoArithmetic
	// StereoEplRejected means makeAndCheckEPL rejected the epipolar
	// direction up front (too short, too little gradient, or badly
	// angled relative to the keyframe gradient).
	StereoEplRejected
)

func (k StereoErrorKind) String() string {
	switch k {
	case StereoOOB:
		return "out of bounds"
	case StereoBad:
		return "ambiguous or invalid match"
	case StereoLargeResidual:
		return "residual too large"
	case StereoArithmetic:
		return "arithmetic failure"
	case StereoEplRejected:
		return "epipolar line rejected"
	default:
		return "unknown stereo error"
	}
}

// StereoResult is the outcome of one doLineStereo call: either a successful
// match with its recovered inverse depth, variance and epipolar-segment
// length, or a failure classification.
type StereoResult struct {
	ok  bool
	err StereoErrorKind

	MatchError float64
	IDepth     float64
	Var        float64
	EPLLength  float64
}

// OK reports whether the stereo search produced a usable match.
func (r StereoResult) OK() bool { return r.ok }

// Err returns the failure classification; only meaningful when !r.OK().
func (r StereoResult) Err() StereoErrorKind { return r.err }

func stereoSuccess(matchErr, idepth, variance, eplLength float64) StereoResult {
	return StereoResult{ok: true, MatchError: matchErr, IDepth: idepth, Var: variance, EPLLength: eplLength}
}

func stereoFailure(kind StereoErrorKind) StereoResult {
	return StereoResult{ok: false, err: kind}
}
