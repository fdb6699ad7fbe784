package sdmap

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// Frame is the read-only collaborator this package consumes per frame. Pose
// tracking, keyframe selection, and image/pyramid precomputation all live
// outside this package; Frame is the seam.
type Frame interface {
	// ID is the frame's monotonically increasing identifier.
	ID() uint32

	// Width and Height are the pyramid-level-0 dimensions; every level
	// shares them scaled by 2^level, matching the grid's own geometry.
	Width() int
	Height() int

	// Image returns the level's grayscale, linearized intensities, row
	// major, width*height long.
	Image(level int) []float32

	// Gradients returns the level's x and y intensity gradients, row
	// major, parallel to Image(level).
	Gradients(level int) (gx, gy []float32)

	// MaxGradients returns, per pixel, the magnitude max over a small
	// neighborhood at the given level; it gates both hypothesis creation
	// and decay.
	MaxGradients(level int) []float32

	// TrackingParent returns the frame this one was tracked against, or
	// nil if it has none.
	TrackingParent() Frame

	// RefPixelWasGoodNoCreate returns a mask, sub-sampled at
	// Settings.SE3TrackingMinLevel, of pixels whose tracking residual was
	// good enough to trust for depth maintenance without an outlier
	// guard. A nil return means no such mask is available.
	RefPixelWasGoodNoCreate() []bool

	// InitialTrackedResidual is the RMS photometric residual this frame
	// was tracked with against its parent; it inflates stereo's
	// geometric variance term.
	InitialTrackedResidual() float64
}

// KeyFrame is a Frame that can additionally receive the exported smoothed
// depth map and serve reactivation data back out.
type KeyFrame interface {
	Frame

	// SetDepth installs the smoothed map this package has just produced as
	// the keyframe's authoritative depth.
	SetDepth(grid *Grid)

	// IDepthReact, IDepthVarReact and ValidityReact return persisted
	// per-keyframe reactivation triplets (see ReActivationData), used by
	// SetFromExistingKF to restore a previously-active keyframe's map.
	IDepthReact() []float32
	IDepthVarReact() []float32
	ValidityReact() []int32

	// TakeReActivationData captures grid into the keyframe's own
	// reactivation triplet, so a later SetFromExistingKF can restore it.
	TakeReActivationData(grid *Grid)
}

// r3x3 is a plain 3x3 matrix, used instead of *mat.Dense in the innermost
// per-pixel stereo math to avoid gonum's bounds-checked accessors in a hot
// loop. PrepareForStereo builds them from the gonum-backed intrinsics and
// a RigidTransform; NewDepthMapper builds the inverse intrinsics one.
type r3x3 struct {
	m [3][3]float64
}

func (m *r3x3) mulVec(v r3.Vector) r3.Vector {
	return r3.Vector{
		X: m.m[0][0]*v.X + m.m[0][1]*v.Y + m.m[0][2]*v.Z,
		Y: m.m[1][0]*v.X + m.m[1][1]*v.Y + m.m[1][2]*v.Z,
		Z: m.m[2][0]*v.X + m.m[2][1]*v.Y + m.m[2][2]*v.Z,
	}
}

func newR3x3(d mat.Matrix) *r3x3 {
	out := &r3x3{}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out.m[i][j] = d.At(i, j)
		}
	}
	return out
}

// StereoFrame holds the fields PrepareForStereo precomputes once per
// (keyframe, reference frame) pair, reused across every pixel stereo call
// against that reference.
type StereoFrame struct {
	Frame Frame

	// KR is K * R_ref<-key and Kt is K * t_ref<-key: together they map a
	// point expressed in the keyframe into reference-image pixel
	// coordinates once divided through by its Z.
	KR *r3x3
	Kt r3.Vector

	// R is R_key<-ref and T is t_key<-ref: the inverse rotation/translation,
	// used once a match is found in the reference image to recover the
	// inverse depth back in the keyframe.
	R *r3x3
	T r3.Vector

	// ThisToOtherT is t_ref<-key, used only to build the epipolar line
	// direction in the keyframe.
	ThisToOtherT r3.Vector

	// InitialTrackedResidual mirrors Frame.InitialTrackedResidual, cached
	// so stereo doesn't need the Frame interface in its hot path.
	InitialTrackedResidual float64

	// FramesTrackedOnThis and FramesMappedOnThis are the orchestrator's
	// running counts of frames tracked against, and mapped against, this
	// reference since the active keyframe was created. They only feed the
	// next-stereo-frame skip heuristic in observeDepthUpdate.
	FramesTrackedOnThis int
	FramesMappedOnThis  int
}

// PrepareForStereo precomputes the fields above for stereo searches of
// keyframe pixels against ref, given the rigid transform mapping points
// from the keyframe frame into ref's frame (refFromKey) and the shared
// intrinsics k.
func PrepareForStereo(ref Frame, refFromKey RigidTransform, k *Intrinsics, framesTracked, framesMapped int) *StereoFrame {
	kMat := KMatrix(k)

	var kr mat.Dense
	kr.Mul(kMat, refFromKey.R)
	kt := mulVec3(kMat, refFromKey.T)

	keyFromRef := refFromKey.Inverse()

	return &StereoFrame{
		Frame:                  ref,
		KR:                     newR3x3(&kr),
		Kt:                     kt,
		R:                      newR3x3(keyFromRef.R),
		T:                      keyFromRef.T,
		ThisToOtherT:           refFromKey.T,
		InitialTrackedResidual: ref.InitialTrackedResidual(),
		FramesTrackedOnThis:    framesTracked,
		FramesMappedOnThis:     framesMapped,
	}
}
