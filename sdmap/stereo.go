package sdmap

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
)

// doLineStereo recovers a sub-pixel inverse-depth estimate for keyframe
// pixel (x, y) against ref, searching the epipolar segment implied by the
// prior inverse-depth interval [minIDepth, maxIDepth] and prior idKey.
func doLineStereo(
	kf Frame, x, y int,
	minIDepth, idKey, maxIDepth float64,
	ref *StereoFrame, k *Intrinsics, kInv *r3x3,
	settings Settings,
) StereoResult {
	width, height := kf.Width(), kf.Height()
	keyImage := kf.Image(0)
	keyGX, keyGY := kf.Gradients(0)

	ehat, ok := makeAndCheckEPL(keyImage, keyGX, keyGY, width, x, y, ref.ThisToOtherT, k, settings)
	if !ok {
		return stereoFailure(StereoEplRejected)
	}

	keyPt := r2.Point{X: float64(x), Y: float64(y)}

	kInvP := kInv.mulVec(r3.Vector{X: keyPt.X, Y: keyPt.Y, Z: 1})
	pKey := r3.Vector{X: kInvP.X / idKey, Y: kInvP.Y / idKey, Z: kInvP.Z / idKey}
	pRef := addVec(ref.KR.mulVec(pKey), ref.Kt)
	idepthRef := 1 / pRef.Z
	invDepthRatio := idKey / idepthRef

	keySampleDistance := settings.ReferenceSampleDistance * invDepthRatio

	searchFrom := r2.Point{
		X: keyPt.X - 2*ehat.X*keySampleDistance,
		Y: keyPt.Y - 2*ehat.Y*keySampleDistance,
	}
	searchTo := r2.Point{
		X: keyPt.X + 2*ehat.X*keySampleDistance,
		Y: keyPt.Y + 2*ehat.Y*keySampleDistance,
	}
	if !inImageRange(searchFrom.X, searchFrom.Y, width, height, 2) ||
		!inImageRange(searchTo.X, searchTo.Y, width, height, 2) {
		return stereoFailure(StereoOOB)
	}

	if !(invDepthRatio > 0.7 && invDepthRatio < 1.4) {
		return stereoFailure(StereoOOB)
	}

	kRKinvP := ref.KR.mulVec(kInvP)

	pCloseV := addVec(kRKinvP, scaleVec(ref.Kt, maxIDepth))
	if pCloseV.Z < 0.001 {
		pInf := kRKinvP
		maxIDepth = (0.001 - pInf.Z) / ref.Kt.Z
		pCloseV = addVec(pInf, scaleVec(ref.Kt, maxIDepth))
	}
	pClose := r2.Point{X: pCloseV.X / pCloseV.Z, Y: pCloseV.Y / pCloseV.Z}

	pFarV := addVec(kRKinvP, scaleVec(ref.Kt, minIDepth))
	if pFarV.Z < 0.001 || maxIDepth < minIDepth {
		return stereoFailure(StereoOOB)
	}
	pFar := r2.Point{X: pFarV.X / pFarV.Z, Y: pFarV.Y / pFarV.Z}

	diff := r2.Point{X: pClose.X - pFar.X, Y: pClose.Y - pFar.Y}
	diffLen := math.Hypot(diff.X, diff.Y)
	eplLength := diffLen
	if !(eplLength > 0) || math.IsInf(eplLength, 0) {
		return stereoFailure(StereoArithmetic)
	}

	unit := r2.Point{X: diff.X / diffLen, Y: diff.Y / diffLen}
	refSearchStep := r2.Point{X: unit.X * settings.ReferenceSampleDistance, Y: unit.Y * settings.ReferenceSampleDistance}

	if eplLength > settings.MaxEPLLengthCrop {
		pClose = r2.Point{X: pFar.X + unit.X*settings.MaxEPLLengthCrop, Y: pFar.Y + unit.Y*settings.MaxEPLLengthCrop}
	}

	pFar = r2.Point{X: pFar.X - refSearchStep.X, Y: pFar.Y - refSearchStep.Y}
	pClose = r2.Point{X: pClose.X + refSearchStep.X, Y: pClose.Y + refSearchStep.Y}

	if eplLength < settings.MinEPLLengthCrop {
		pad := (settings.MinEPLLengthCrop - eplLength) / 2
		pFar = r2.Point{X: pFar.X - refSearchStep.X*pad, Y: pFar.Y - refSearchStep.Y*pad}
		pClose = r2.Point{X: pClose.X + refSearchStep.X*pad, Y: pClose.Y + refSearchStep.Y*pad}
	}

	if !inImageRange(pFar.X, pFar.Y, width, height, settings.SamplePointToBorder+1) ||
		!inImageRange(pClose.X, pClose.Y, width, height, 1) {
		return stereoFailure(StereoOOB)
	}

	refImage := ref.Frame.Image(0)

	keyStep := r2.Point{X: ehat.X * keySampleDistance, Y: ehat.Y * keySampleDistance}
	keyIntensities := [5]float64{
		bilinearSample(keyImage, width, keyPt.X-2*keyStep.X, keyPt.Y-2*keyStep.Y),
		bilinearSample(keyImage, width, keyPt.X-1*keyStep.X, keyPt.Y-1*keyStep.Y),
		bilinearSample(keyImage, width, keyPt.X, keyPt.Y),
		bilinearSample(keyImage, width, keyPt.X+1*keyStep.X, keyPt.Y+1*keyStep.Y),
		bilinearSample(keyImage, width, keyPt.X+2*keyStep.X, keyPt.Y+2*keyStep.Y),
	}

	var refIntensities [5]float64
	refIntensities[0] = bilinearSample(refImage, width, pFar.X-2*refSearchStep.X, pFar.Y-2*refSearchStep.Y)
	refIntensities[1] = bilinearSample(refImage, width, pFar.X-1*refSearchStep.X, pFar.Y-1*refSearchStep.Y)
	refIntensities[2] = bilinearSample(refImage, width, pFar.X, pFar.Y)
	refIntensities[3] = bilinearSample(refImage, width, pFar.X+1*refSearchStep.X, pFar.Y+1*refSearchStep.Y)

	searchPoint := pFar

	var eA, eB [5]float64
	minErr, secondErr := math.MaxFloat64, math.MaxFloat64
	prevErr, nextErr := math.NaN(), math.NaN()
	prevDiff, nextDiff := math.NaN(), math.NaN()
	prevErrSample := -1.0

	currArgmin, secondArgmin := -1, -1
	var argminPoint r2.Point

	for i := 0; ; i++ {
		if (refSearchStep.X < 0) != (searchPoint.X > pClose.X) ||
			(refSearchStep.Y < 0) != (searchPoint.Y > pClose.Y) {
			break
		}

		refIntensities[4] = bilinearSample(refImage, width, searchPoint.X+2*refSearchStep.X, searchPoint.Y+2*refSearchStep.Y)

		var e [5]float64
		for j := 0; j < 5; j++ {
			e[j] = refIntensities[j] - keyIntensities[j]
		}
		if i%2 == 0 {
			eA = e
		} else {
			eB = e
		}

		errSum := 0.0
		for j := 0; j < 5; j++ {
			errSum += e[j] * e[j]
		}

		if errSum < minErr {
			secondErr = minErr
			secondArgmin = currArgmin

			minErr = errSum
			currArgmin = i

			prevErr = prevErrSample
			prevDiff = dot5(eA, eB)
			nextErr = -1
			nextDiff = -1

			argminPoint = searchPoint
		} else {
			if i-1 == currArgmin {
				nextErr = errSum
				nextDiff = dot5(eA, eB)
			}
			if errSum < secondErr {
				secondErr = errSum
				secondArgmin = i
			}
		}

		prevErrSample = errSum
		refIntensities[0], refIntensities[1], refIntensities[2], refIntensities[3] =
			refIntensities[1], refIntensities[2], refIntensities[3], refIntensities[4]

		searchPoint = r2.Point{X: searchPoint.X + refSearchStep.X, Y: searchPoint.Y + refSearchStep.Y}
	}

	if minErr > 4*settings.MaxErrorStereo {
		return stereoFailure(StereoLargeResidual)
	}

	if absInt(currArgmin-secondArgmin) > 1 && settings.MinDistanceErrorStereo*minErr > secondErr {
		return stereoFailure(StereoBad)
	}

	interpolated := false
	if settings.UseSubpixelStereo {
		gradPrevPrev := -(prevErr - prevDiff)
		gradPrevCurr := +(minErr - prevDiff)
		gradNextCurr := -(minErr - nextDiff)
		gradNextNext := +(nextErr - nextDiff)

		switch {
		case (gradNextCurr < 0) != (gradPrevCurr < 0):
			// zero crossing inconsistent between sides: no refinement.
		case (gradPrevPrev < 0) != (gradPrevCurr < 0):
			if (gradNextNext < 0) != (gradNextCurr < 0) {
				// both sides cross: ambiguous, keep integer argmin.
			} else {
				d := gradPrevCurr / (gradPrevCurr - gradPrevPrev)
				argminPoint = r2.Point{X: argminPoint.X - d*refSearchStep.X, Y: argminPoint.Y - d*refSearchStep.Y}
				minErr = minErr - 2*d*gradPrevCurr - (gradPrevPrev-gradPrevCurr)*d*d
				interpolated = true
			}
		case (gradNextNext < 0) != (gradNextCurr < 0):
			d := gradNextCurr / (gradNextCurr - gradNextNext)
			argminPoint = r2.Point{X: argminPoint.X + d*refSearchStep.X, Y: argminPoint.Y + d*refSearchStep.Y}
			minErr = minErr + 2*d*gradNextCurr + (gradNextNext-gradNextCurr)*d*d
			interpolated = true
		}
	}

	gradAlongLine := calcGradAlongLine(keyIntensities, keySampleDistance)

	if minErr > settings.MaxErrorStereo+math.Sqrt(gradAlongLine)*20 {
		return stereoFailure(StereoLargeResidual)
	}

	rKinvP := ref.R.mulVec(kInvP)
	invCp := kInv.mulVec(r3.Vector{X: argminPoint.X, Y: argminPoint.Y, Z: 1})
	t := ref.T

	betaX := rKinvP.X*t.Z - rKinvP.Z*t.X
	betaY := rKinvP.Y*t.Z - rKinvP.Z*t.Y
	nomX := invCp.X*t.Z - invCp.Z*t.X
	nomY := invCp.Y*t.Z - invCp.Z*t.Y

	alphaX := refSearchStep.X * (1 / k.Fx) * betaX / (nomX * nomX)
	alphaY := refSearchStep.Y * (1 / k.Fy) * betaY / (nomY * nomY)

	idNewX := (rKinvP.X*invCp.Z - rKinvP.Z*invCp.X) / nomX
	idNewY := (rKinvP.Y*invCp.Z - rKinvP.Z*invCp.Y) / nomY

	var idNew, alpha float64
	if refSearchStep.X*refSearchStep.X > refSearchStep.Y*refSearchStep.Y {
		idNew, alpha = idNewX, alphaX
	} else {
		idNew, alpha = idNewY, alphaY
	}

	if idNew < 0 && !settings.AllowNegativeIDepths {
		return stereoFailure(StereoBad)
	}
	if math.IsNaN(idNew) || math.IsInf(idNew, 0) {
		return stereoFailure(StereoBad)
	}

	gradX, gradY := bilinearSampleGrad(keyGX, keyGY, width, keyPt.X, keyPt.Y)
	geoDispError := calcGeometricDisparityError(gradX, gradY, ehat, ref.InitialTrackedResidual, settings)

	coeff := 0.5
	if interpolated {
		coeff = 0.05
	}
	photoDispError := 4 * settings.CameraPixelNoise2 / (gradAlongLine + settings.DivisionEPS)

	resultVar := alpha * alpha * (coeff*keySampleDistance*keySampleDistance + geoDispError + photoDispError)

	return stereoSuccess(minErr, idNew, resultVar, eplLength)
}

func addVec(a, b r3.Vector) r3.Vector {
	return r3.Vector{X: a.X + b.X, Y: a.Y + b.Y, Z: a.Z + b.Z}
}

func scaleVec(a r3.Vector, s float64) r3.Vector {
	return r3.Vector{X: a.X * s, Y: a.Y * s, Z: a.Z * s}
}

func dot5(a, b [5]float64) float64 {
	s := 0.0
	for i := 0; i < 5; i++ {
		s += a[i] * b[i]
	}
	return s
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// calcGradAlongLine sums squared first differences of the key-side
// descriptor, normalized by the sampling interval, matching the
// discretization term in the variance model.
func calcGradAlongLine(intensities [5]float64, interval float64) float64 {
	sum := 0.0
	for i := 0; i < 4; i++ {
		d := intensities[i+1] - intensities[i]
		sum += d * d
	}
	return sum / (interval * interval)
}

// calcGeometricDisparityError computes sigma^2_geo: the error contributed
// by uncertainty in the epipolar geometry itself (pose/calibration noise),
// scaled by how well the keyframe gradient lines up with the epipolar
// direction.
func calcGeometricDisparityError(gradX, gradY float64, ehat r2.Point, initialTrackedResidual float64, settings Settings) float64 {
	trackingErrorFac := 0.25 * (1 + initialTrackedResidual)
	p := ehat.X*gradX + ehat.Y*gradY + settings.DivisionEPS
	n := gradX*gradX + gradY*gradY
	return trackingErrorFac * trackingErrorFac * n / (p * p)
}

// makeAndCheckEPL computes the unit epipolar direction at keyframe pixel
// (x, y) and reports whether it passes the length, gradient, and angle
// gates that make the subsequent search well-conditioned.
func makeAndCheckEPL(
	keyImage []float32, keyGX, keyGY []float32, width int, x, y int,
	thisToOtherT r3.Vector, k *Intrinsics, settings Settings,
) (r2.Point, bool) {
	kMat := KMatrix(k)
	px, py := projectWithK(kMat, thisToOtherT)

	line := r2.Point{
		X: thisToOtherT.Z * (float64(x) - px),
		Y: thisToOtherT.Z * (float64(y) - py),
	}
	lenSq := line.X*line.X + line.Y*line.Y
	if lenSq < settings.MinEPLLengthSquared {
		return r2.Point{}, false
	}

	idx := y*width + x
	gx := float64(keyImage[idx+1] - keyImage[idx-1])
	gy := float64(keyImage[idx+width] - keyImage[idx-width])

	gradProjected := gx*line.X + gy*line.Y
	eplGradSq := gradProjected * gradProjected / lenSq
	if eplGradSq < settings.MinEPLGradSquared {
		return r2.Point{}, false
	}

	gradLenSq := gx*gx + gy*gy
	if gradLenSq == 0 {
		return r2.Point{}, false
	}
	cosSq := (gradProjected * gradProjected) / (lenSq * gradLenSq)
	if cosSq < settings.MinEPLAngleSquared {
		return r2.Point{}, false
	}

	lenAbs := math.Sqrt(lenSq)
	return r2.Point{X: line.X / lenAbs, Y: line.Y / lenAbs}, true
}
