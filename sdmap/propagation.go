package sdmap

import (
	"math"

	"github.com/golang/geo/r3"
)

// PropagateDepth warps every valid hypothesis in grid.current from oldKF
// into grid.other under newFromOld (the rigid transform mapping old
// keyframe points into the new keyframe's frame), merging or resolving
// occlusions at shared destination cells, then swaps grid's buffers so
// Current holds the propagated map.
//
// Destination writes are not disjoint across source cells, so this always
// runs single-threaded: the caller passes SequentialReducer conventions
// implicitly by never being invoked through a Reducer.
func PropagateDepth(oldKF, newKF Frame, grid *Grid, newFromOld RigidTransform, k *Intrinsics, kInv *r3x3, settings Settings) {
	grid.ClearOther()

	width, height := grid.Width, grid.Height
	oldImage := oldKF.Image(0)
	newImage := newKF.Image(0)
	newMaxGrad := newKF.MaxGradients(0)
	goodMask := oldKF.RefPixelWasGoodNoCreate()

	kMat := KMatrix(k)

	for y := 3; y < height-3; y++ {
		for x := 3; x < width-3; x++ {
			idx := y*width + x
			hyp := grid.AtIndex(idx)
			if !hyp.Valid {
				continue
			}

			kInvP := kInv.mulVec(r3.Vector{X: float64(x), Y: float64(y), Z: 1})
			pointInOld := scaleVec(kInvP, 1/float64(hyp.IDepthSmoothed))
			p := newFromOld.Apply(pointInOld)
			if p.Z <= 0 {
				continue
			}

			u, v := projectWithK(kMat, p)
			if u < 2.1 || u > float64(width)-3.1 || v < 2.1 || v > float64(height)-3.1 {
				continue
			}

			if goodMask != nil {
				if !goodMask[subsampledIndex(x, y, width, settings.SE3TrackingMinLevel)] {
					continue
				}
				if newMaxGrad[int(math.Round(v))*width+int(math.Round(u))] < float32(settings.MinAbsGradDecrease) {
					continue
				}
			} else {
				du := bilinearSample(newImage, width, u, v) - float64(oldImage[idx])
				gx, gy := oldKF.Gradients(0)
				gMag := float64(gx[idx]*gx[idx] + gy[idx]*gy[idx])
				if du*du/(settings.MaxDiffConstant+settings.MaxDiffGradMult*gMag) > 1 {
					continue
				}
			}

			newIDepth := 1 / p.Z
			ratio := newIDepth / float64(hyp.IDepthSmoothed)
			newVar := ratio * ratio * ratio * ratio * float64(hyp.IDepthVar)

			dstX, dstY := int(math.Round(u)), int(math.Round(v))
			dstIdx := dstY*width + dstX
			dest := grid.OtherAtIndex(dstIdx)

			if !dest.Valid {
				grid.other[dstIdx] = newHypothesis(float32(newIDepth), float32(newVar), hyp.ValidityCounter)
				continue
			}

			diff := newIDepth - float64(dest.IDepth)
			if settings.DiffFacPropMerge*diff*diff > newVar+float64(dest.IDepthVar) {
				if newIDepth < float64(dest.IDepth) {
					continue
				}
				grid.other[dstIdx] = newHypothesis(float32(newIDepth), float32(newVar), hyp.ValidityCounter)
				continue
			}

			w := newVar / (float64(dest.IDepthVar) + newVar)
			fusedIDepth := unzero(float32(w*float64(dest.IDepth) + (1-w)*newIDepth))
			fusedVar := float32(1 / (1/float64(dest.IDepthVar) + 1/newVar))
			fusedValidity := dest.ValidityCounter + hyp.ValidityCounter
			maxValidity := settings.ValidityCounterMax + settings.ValidityCounterMaxVariable
			if fusedValidity > maxValidity {
				fusedValidity = maxValidity
			}

			grid.other[dstIdx] = PixelHypothesis{
				Valid:             true,
				IDepth:            fusedIDepth,
				IDepthVar:         fusedVar,
				IDepthSmoothed:    fusedIDepth,
				IDepthVarSmoothed: fusedVar,
				ValidityCounter:   fusedValidity,
			}
		}
	}

	grid.Swap()
}
