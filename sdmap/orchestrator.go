package sdmap

import (
	"math/rand"

	"github.com/pkg/errors"

	"go.viam.com/rdk/logging"
)

// ErrNoActiveKeyFrame is returned by any operation that requires an active,
// locked keyframe when none is held.
var ErrNoActiveKeyFrame = errors.New("sdmap: no active keyframe")

// DepthMapper drives the per-frame depth-mapping pipeline described by
// this package: it owns the hypothesis grid for exactly one active
// keyframe at a time and walks it through observation, propagation, and
// regularization as new reference frames and keyframe changes arrive.
type DepthMapper struct {
	settings Settings
	k        *Intrinsics
	kInv     *r3x3
	reducer  Reducer
	logger   logging.Logger

	grid *Grid

	activeKeyFrame KeyFrame
	active         bool

	timings *PhaseTimings
}

// NewDepthMapper allocates a mapper for a width x height keyframe grid
// under the given intrinsics and settings. A nil reducer defaults to
// DefaultReducer(); a nil logger defaults to logging.Global(), matching
// how other long-lived components in this module pick up a logger.
func NewDepthMapper(width, height int, k *Intrinsics, settings Settings, reducer Reducer, logger logging.Logger) *DepthMapper {
	if reducer == nil {
		reducer = DefaultReducer()
	}
	if logger == nil {
		logger = logging.Global()
	}
	return &DepthMapper{
		settings: settings,
		k:        k,
		kInv:     newR3x3(KInvMatrix(k)),
		reducer:  reducer,
		logger:   logger,
		grid:     NewGrid(width, height),
		timings:  NewPhaseTimings(),
	}
}

// Timings exposes the mapper's phase timing tracker for callers that want
// to export or log rolled-up Hz/ms stats alongside the depth map itself.
func (d *DepthMapper) Timings() *PhaseTimings { return d.timings }

// IsValid reports whether the mapper currently holds a locked active
// keyframe.
func (d *DepthMapper) IsValid() bool { return d.active }

// Grid exposes the mapper's hypothesis grid, primarily for tests and for
// callers that need to read the current smoothed map directly rather than
// through KeyFrame.SetDepth.
func (d *DepthMapper) Grid() *Grid { return d.grid }

// InitializeRandomly seeds a fresh grid from frame's gradient mask: every
// pixel with strong enough texture gets a random inverse-depth hypothesis
// around 1, everything else stays invalid. This is the cold-start path
// when no depth prior of any kind exists yet.
func (d *DepthMapper) InitializeRandomly(frame KeyFrame) {
	maxGrad := frame.MaxGradients(0)
	width, height := d.grid.Width, d.grid.Height

	for y := 3; y < height-3; y++ {
		for x := 3; x < width-3; x++ {
			idx := y*width + x
			if maxGrad[idx] < float32(d.settings.MinAbsGradCreate) {
				continue
			}
			idepth := float32(0.5 + rand.Float64())
			d.grid.SetIndex(idx, newHypothesis(idepth, float32(d.settings.VarRandomInitInitial), d.settings.ValidityCounterInitialObserve))
		}
	}

	d.activeKeyFrame = frame
	d.active = true
	d.exportDepth()
	mean, n := d.grid.MeanIDepthSmoothed()
	d.logger.Debugw("initialized depth map randomly", "frame", frame.ID(), "valid_cells", n, "mean_idepth", mean)
}

// InitializeFromGTDepth seeds a fresh grid from a ground-truth inverse
// depth map (same W*H layout as Frame.Image), for evaluation and testing
// against known-good depth.
func (d *DepthMapper) InitializeFromGTDepth(frame KeyFrame, gtIDepth []float32) {
	width, height := d.grid.Width, d.grid.Height
	maxGrad := frame.MaxGradients(0)

	for y := 3; y < height-3; y++ {
		for x := 3; x < width-3; x++ {
			idx := y*width + x
			if maxGrad[idx] < float32(d.settings.MinAbsGradCreate) {
				continue
			}
			id := gtIDepth[idx]
			if !isFinite(id) || id <= 0 {
				continue
			}
			d.grid.SetIndex(idx, newHypothesis(id, float32(d.settings.VarGTInitInitial), d.settings.ValidityCounterInitialObserve))
		}
	}

	d.activeKeyFrame = frame
	d.active = true
	d.exportDepth()
}

// SetFromExistingKF restores a previously-active keyframe's persisted
// reactivation triplets (idepth, idepthVar, validity) into the grid, then
// runs one non-occlusion regularization pass to refresh the smoothed
// fields before resuming normal operation.
func (d *DepthMapper) SetFromExistingKF(kf KeyFrame) {
	idepth := kf.IDepthReact()
	idepthVar := kf.IDepthVarReact()
	validity := kf.ValidityReact()

	for i := range d.grid.current {
		v := idepthVar[i]
		switch {
		case v == -2:
			d.grid.current[i] = PixelHypothesis{Valid: false, Blacklisted: d.settings.MinBlacklist - 1}
		case v > 0:
			id := idepth[i]
			d.grid.current[i] = newHypothesis(id, v, validity[i])
		default:
			d.grid.current[i] = PixelHypothesis{}
		}
	}

	d.activeKeyFrame = kf
	d.active = true

	Regularize(kf, d.grid, d.settings, false, d.reducer)
	d.exportDepth()
}

// UpdateKeyframe runs one observation pass of the active keyframe against
// every frame in refs (in order, each refining the grid produced by the
// last), then fills holes and regularizes without occlusion removal.
// noCreate suppresses new-hypothesis creation, used once a keyframe is
// about to be replaced.
func (d *DepthMapper) UpdateKeyframe(refs []*StereoFrame, noCreate bool) error {
	if !d.active {
		return ErrNoActiveKeyFrame
	}

	d.timings.Track("observe", func() {
		for _, ref := range refs {
			ObserveDepth(d.activeKeyFrame, d.grid, ref, d.k, d.kInv, d.settings, noCreate, d.reducer)
		}
	})

	d.timings.Track("regularize", func() {
		RegularizeFillHoles(d.activeKeyFrame, d.grid, d.settings, d.reducer)
		Regularize(d.activeKeyFrame, d.grid, d.settings, false, d.reducer)
	})
	d.exportDepth()
	mean, n := d.grid.MeanIDepthSmoothed()
	d.logger.Debugw("updated keyframe", "keyframe", d.activeKeyFrame.ID(), "refs", len(refs), "valid_cells", n, "mean_idepth", mean)
	return nil
}

// CreateKeyFrame propagates the current grid forward onto newKF under
// newFromOld (mapping old keyframe points into newKF's frame), resolves
// occlusions, fills holes, regularizes, and rescales the mean smoothed
// inverse depth to 1 to anchor monocular scale. It returns the rescale
// factor so the caller can fold it into the new keyframe's pose scale.
func (d *DepthMapper) CreateKeyFrame(newKF KeyFrame, newFromOld RigidTransform) (float64, error) {
	if !d.active {
		return 1, ErrNoActiveKeyFrame
	}
	oldKF := d.activeKeyFrame

	d.timings.Track("propagate", func() {
		PropagateDepth(oldKF, newKF, d.grid, newFromOld, d.k, d.kInv, d.settings)
	})
	d.timings.Track("regularize", func() {
		Regularize(newKF, d.grid, d.settings, true, d.reducer)
		RegularizeFillHoles(newKF, d.grid, d.settings, d.reducer)
		Regularize(newKF, d.grid, d.settings, false, d.reducer)
	})
	scale := d.grid.RescaleMeanTo1()

	d.logger.Infow("created keyframe", "old_keyframe", oldKF.ID(), "new_keyframe", newKF.ID(), "rescale_factor", scale)
	d.activeKeyFrame = newKF
	d.exportDepth()
	return scale, nil
}

// FinalizeKeyFrame runs a last fill-holes and regularization pass over the
// active keyframe, exports the result, and captures the grid into the
// keyframe's own reactivation triplet for a possible future
// SetFromExistingKF.
func (d *DepthMapper) FinalizeKeyFrame() error {
	if !d.active {
		return ErrNoActiveKeyFrame
	}

	d.timings.Track("finalize", func() {
		RegularizeFillHoles(d.activeKeyFrame, d.grid, d.settings, d.reducer)
		Regularize(d.activeKeyFrame, d.grid, d.settings, false, d.reducer)
	})
	d.exportDepth()
	d.activeKeyFrame.TakeReActivationData(d.grid)
	d.logger.Debugw("finalized keyframe", "keyframe", d.activeKeyFrame.ID())
	return nil
}

// Invalidate releases the active keyframe lock. The grid contents are left
// untouched; a subsequent SetFromExistingKF or InitializeRandomly starts a
// new lifecycle over them.
func (d *DepthMapper) Invalidate() {
	if d.activeKeyFrame != nil {
		d.logger.Debugw("invalidated keyframe", "keyframe", d.activeKeyFrame.ID())
	}
	d.activeKeyFrame = nil
	d.active = false
}

func (d *DepthMapper) exportDepth() {
	if d.activeKeyFrame != nil {
		d.activeKeyFrame.SetDepth(d.grid)
	}
}
