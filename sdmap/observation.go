package sdmap

import "math"

// observeDepthRow runs create/update stereo observation for every pixel in
// [yStart, yEnd) of the keyframe against ref, writing results into
// grid.current. It is the unit of work ParallelReducer fans out across
// rows; grid.current cells are disjoint across rows so no locking is
// needed.
func observeDepthRow(
	kf Frame, grid *Grid, ref *StereoFrame, k *Intrinsics, kInv *r3x3,
	settings Settings, noCreate bool, yStart, yEnd int,
) {
	width := grid.Width
	maxGrad := kf.MaxGradients(0)
	goodMask := kf.RefPixelWasGoodNoCreate()

	for y := yStart; y < yEnd; y++ {
		for x := 0; x < width; x++ {
			if x <= 2 || y <= 2 || x >= width-3 || y >= grid.Height-3 {
				continue
			}
			idx := y*width + x

			if goodMask != nil && !goodMask[subsampledIndex(x, y, width, settings.SE3TrackingMinLevel)] {
				continue
			}
			if maxGrad[idx] < float32(settings.MinAbsGradCreate) {
				continue
			}

			hyp := grid.AtIndex(idx)

			if !hyp.Valid {
				if noCreate {
					continue
				}
				if hyp.Blacklisted < settings.MinBlacklist {
					continue
				}
				observeDepthCreate(kf, grid, idx, x, y, hyp, ref, k, kInv, settings)
				continue
			}

			observeDepthUpdate(kf, grid, idx, x, y, hyp, ref, k, kInv, settings)
		}
	}
}

// subsampledIndex maps a level-0 pixel to the index of the mask sampled at
// level minLevel, matching how RefPixelWasGoodNoCreate is produced.
func subsampledIndex(x, y, width int, minLevel uint) int {
	shift := int(minLevel)
	w := width >> shift
	if w == 0 {
		w = 1
	}
	return (y>>shift)*w + (x >> shift)
}

// observeDepthCreate attempts to seed a brand-new hypothesis at (x, y),
// searching the full [0, 1/MinDepth] inverse-depth range against ref with
// a unit prior. hyp carries only the cell's persisted blacklist counter;
// it is not yet a live hypothesis.
func observeDepthCreate(
	kf Frame, grid *Grid, idx, x, y int, hyp PixelHypothesis, ref *StereoFrame, k *Intrinsics, kInv *r3x3, settings Settings,
) {
	result := doLineStereo(kf, x, y, 0, 1.0, 1/settings.MinDepth, ref, k, kInv, settings)
	if !result.OK() {
		switch result.Err() {
		case StereoBad, StereoLargeResidual:
			hyp.Blacklisted--
		}
		grid.SetIndex(idx, hyp)
		return
	}

	if result.Var > settings.MaxVar {
		return
	}

	grid.SetIndex(idx, newHypothesis(float32(result.IDepth), float32(result.Var), settings.ValidityCounterInitialObserve))
}

// observeDepthUpdate refines an existing hypothesis by searching a band
// around its smoothed inverse depth, then fuses a successful match through
// the 1-D Kalman update or retains/decays/blacklists it according to the
// failure kind.
func observeDepthUpdate(
	kf Frame, grid *Grid, idx, x, y int, hyp PixelHypothesis,
	ref *StereoFrame, k *Intrinsics, kInv *r3x3, settings Settings,
) {
	if ref.Frame.ID() < hyp.NextStereoFrameMinID {
		return
	}

	sv := math.Sqrt(float64(hyp.IDepthVarSmoothed)) * settings.StereoEPLVarFac
	minIDepth := float64(hyp.IDepthSmoothed) - sv
	maxIDepth := float64(hyp.IDepthSmoothed) + sv
	if minIDepth < 0 {
		minIDepth = 0
	}
	if maxIDepth > 1/settings.MinDepth {
		maxIDepth = 1 / settings.MinDepth
	}

	result := doLineStereo(kf, x, y, minIDepth, float64(hyp.IDepthSmoothed), maxIDepth, ref, k, kInv, settings)

	if !result.OK() {
		switch result.Err() {
		case StereoOOB:
			// retain unchanged.
		case StereoBad:
			hyp.ValidityCounter -= settings.ValidityCounterDec
			hyp.IDepthVar = float32(math.Min(float64(hyp.IDepthVar)*settings.FailVarIncFac, settings.MaxVar))
			hyp.Blacklisted--
			if hyp.IDepthVar >= float32(settings.MaxVar) {
				hyp.Valid = false
			}
		case StereoLargeResidual, StereoArithmetic, StereoEplRejected:
			// retain silently.
		}
		grid.SetIndex(idx, hyp)
		return
	}

	diff := float64(hyp.IDepthSmoothed) - result.IDepth
	if settings.DiffFacObserve*diff*diff > result.Var+float64(hyp.IDepthVarSmoothed) {
		hyp.IDepthVar = float32(math.Min(float64(hyp.IDepthVar)*settings.FailVarIncFac, settings.MaxVar))
		if hyp.IDepthVar >= float32(settings.MaxVar) {
			hyp.Valid = false
		}
		grid.SetIndex(idx, hyp)
		return
	}

	varPrime := float64(hyp.IDepthVar) * settings.SuccVarIncFac
	w := result.Var / (result.Var + varPrime)
	newIDepth := (1-w)*result.IDepth + w*float64(hyp.IDepth)
	newVar := math.Min(float64(hyp.IDepthVar), w*varPrime)

	hyp.IDepth = unzero(float32(newIDepth))
	hyp.IDepthVar = float32(newVar)

	maxCounter := float32(settings.ValidityCounterMax) + float32(kf.MaxGradients(0)[idx])*float32(settings.ValidityCounterMaxVariable)/255
	hyp.ValidityCounter += settings.ValidityCounterInc
	if float32(hyp.ValidityCounter) > maxCounter {
		hyp.ValidityCounter = int32(maxCounter)
	}

	if result.EPLLength < settings.MinEPLLengthCrop {
		trackedRatio := math.Max(3, float64(ref.FramesTrackedOnThis)/float64(ref.FramesMappedOnThis+5))
		mult := 3.0
		if result.EPLLength >= settings.MinEPLLengthCrop/2 {
			mult = 1.0
		}
		inc := uint32(trackedRatio * mult)
		if int(result.EPLLength*10000)%2 != 0 {
			inc++
		}
		hyp.NextStereoFrameMinID = ref.Frame.ID() + inc
	}

	grid.SetIndex(idx, hyp)
}

// ObserveDepth is the exported, reducer-driven entry point: it runs
// observeDepthRow over every interior row of grid against ref using the
// configured Reducer, producing the per-pixel stereo pass of one
// DepthMapper update.
func ObserveDepth(kf Frame, grid *Grid, ref *StereoFrame, k *Intrinsics, kInv *r3x3, settings Settings, noCreate bool, reducer Reducer) {
	reducer.Reduce(3, grid.Height-3, func(yStart, yEnd int) {
		observeDepthRow(kf, grid, ref, k, kInv, settings, noCreate, yStart, yEnd)
	})
}
