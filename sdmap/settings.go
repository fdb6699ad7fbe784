package sdmap

// Settings collects the tuning constants that drive stereo search,
// observation fusion, propagation, and regularization. A single immutable
// value is passed to NewDepthMapper at construction; there is no
// process-global tuning state.
type Settings struct {
	// MinDepth is the closest distance (in meters) a hypothesis may claim;
	// it bounds IDepth from above at 1/MinDepth.
	MinDepth float64

	// Gradient gates.
	MinAbsGradCreate   float64 // minimum keyframe |grad| to attempt creating a hypothesis
	MinAbsGradDecrease float64 // below this, an existing hypothesis is dropped

	// Epipolar line acceptance (makeAndCheckEPL).
	MinEPLLengthSquared float64
	MinEPLGradSquared   float64
	MinEPLAngleSquared  float64

	// Sampling along the epipolar line.
	ReferenceSampleDistance float64
	MaxEPLLengthCrop        float64
	MinEPLLengthCrop        float64
	SamplePointToBorder     float64

	// Match scoring.
	MaxErrorStereo         float64
	MinDistanceErrorStereo float64
	UseSubpixelStereo       bool
	AllowNegativeIDepths    bool

	// Variance model.
	CameraPixelNoise2 float64
	DivisionEPS       float64

	// Kalman fusion / validity bookkeeping.
	SuccVarIncFac          float64
	FailVarIncFac          float64
	MaxVar                 float64
	DiffFacObserve         float64
	StereoEPLVarFac        float64
	ValidityCounterInitialObserve int32
	ValidityCounterInc             int32
	ValidityCounterDec             int32
	ValidityCounterMax             int32
	ValidityCounterMaxVariable     int32

	// Blacklist.
	MinBlacklist int32

	// Propagation.
	DiffFacPropMerge float64
	MaxDiffConstant  float64
	MaxDiffGradMult  float64

	// Regularization.
	RegDistVar              float64
	DiffFacSmoothing        float64
	ValSumMinForCreate      int32
	ValSumMinForUnblacklist int32
	ValSumMinForKeep        int32
	VarRandomInitInitial    float64
	VarGTInitInitial        float64

	// SE3TrackingMinLevel is the pyramid level at which the "was good during
	// tracking" mask is sub-sampled.
	SE3TrackingMinLevel uint
}

// DefaultSettings returns the constants used by a standard LSD-style
// semi-dense depth pipeline. Values are in the units the rest of the
// package assumes: meters for depth, pixels for image-plane quantities.
func DefaultSettings() Settings {
	return Settings{
		MinDepth: 0.05,

		MinAbsGradCreate:   5,
		MinAbsGradDecrease: 5,

		MinEPLLengthSquared: 1 * 1,
		MinEPLGradSquared:   2 * 2,
		MinEPLAngleSquared:  0.3 * 0.3,

		ReferenceSampleDistance: 1.0,
		MaxEPLLengthCrop:        30,
		MinEPLLengthCrop:        3,
		SamplePointToBorder:     7,

		MaxErrorStereo:         1300,
		MinDistanceErrorStereo: 1.5,
		UseSubpixelStereo:      true,
		AllowNegativeIDepths:   true,

		CameraPixelNoise2: 4 * 4,
		DivisionEPS:       1e-10,

		SuccVarIncFac:                  1.01,
		FailVarIncFac:                  1.1,
		MaxVar:                         0.5 * 0.5,
		DiffFacObserve:                 1.0,
		StereoEPLVarFac:                2.0,
		ValidityCounterInitialObserve:  5,
		ValidityCounterInc:             5,
		ValidityCounterDec:             5,
		ValidityCounterMax:             5,
		ValidityCounterMaxVariable:     250,

		MinBlacklist: -1,

		DiffFacPropMerge: 1.0,
		MaxDiffConstant:  0.01 * 0.01,
		MaxDiffGradMult:  0.01 * 0.01,

		RegDistVar:              0.075 * 0.075,
		DiffFacSmoothing:        1.0,
		ValSumMinForCreate:      30,
		ValSumMinForUnblacklist: 100,
		ValSumMinForKeep:        24,
		VarRandomInitInitial:    0.5 * 0.5,
		VarGTInitInitial:        0.5 * 0.5,

		SE3TrackingMinLevel: 3,
	}
}
