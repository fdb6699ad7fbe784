package sdmap

// RegularizeFillHoles scans every invalid cell whose keyframe gradient is
// strong enough to matter and, where its 5x5 validity-window sum clears
// the creation threshold, seeds it from a variance-weighted average of its
// valid neighbors. It rebuilds the validity integral from Current, copies
// Current into Other, then reads cells from Other and writes filled cells
// into Current, so a cell filled in this pass never feeds another fill in
// the same pass and the result does not depend on row scheduling.
func RegularizeFillHoles(kf Frame, grid *Grid, settings Settings, reducer Reducer) {
	grid.BuildValidityIntegral(reducer)
	grid.SnapshotToOther()
	maxGrad := kf.MaxGradients(0)
	width := grid.Width

	reducer.Reduce(3, grid.Height-3, func(yStart, yEnd int) {
		for y := yStart; y < yEnd; y++ {
			for x := 3; x < width-3; x++ {
				idx := y*width + x
				hyp := grid.OtherAtIndex(idx)
				if hyp.Valid {
					continue
				}
				if maxGrad[idx] < float32(settings.MinAbsGradDecrease) {
					continue
				}

				threshold := settings.ValSumMinForCreate
				if hyp.Blacklisted < settings.MinBlacklist {
					threshold = settings.ValSumMinForUnblacklist
				}
				if grid.WindowSum5x5(x, y) < threshold {
					continue
				}

				sumIDepthOverVar, sumInvVar := fillHolesAccumulate(grid, x, y, width)
				if sumInvVar <= 0 {
					continue
				}

				idepth := unzero(float32(sumIDepthOverVar / sumInvVar))
				grid.SetIndex(idx, PixelHypothesis{
					Valid:             true,
					IDepth:            idepth,
					IDepthVar:         float32(settings.VarRandomInitInitial),
					IDepthSmoothed:    idepth,
					IDepthVarSmoothed: float32(settings.VarRandomInitInitial),
					ValidityCounter:   0,
					Blacklisted:       hyp.Blacklisted,
				})
			}
		}
	})
}

func fillHolesAccumulate(grid *Grid, x, y, width int) (sumIDepthOverVar, sumInvVar float64) {
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			n := grid.OtherAtIndex((y+dy)*width + (x + dx))
			if !n.Valid {
				continue
			}
			invVar := 1 / float64(n.IDepthVar)
			sumIDepthOverVar += float64(n.IDepth) * invVar
			sumInvVar += invVar
		}
	}
	return sumIDepthOverVar, sumInvVar
}

// Regularize smooths grid: every valid cell's idepth_smoothed/
// idepth_var_smoothed is recomputed as a variance-weighted average over its
// 5x5 neighborhood in Other, with cells whose depth disagrees too strongly
// treated as occluders. When removeOcclusions is true, a cell dominated by
// occluding neighbors is invalidated outright rather than smoothed. Reads
// grid.Other (a snapshot of Current it takes on entry via SnapshotToOther) and
// writes grid.Current, so it is safe to run row-parallel.
func Regularize(kf Frame, grid *Grid, settings Settings, removeOcclusions bool, reducer Reducer) {
	grid.SnapshotToOther()
	width := grid.Width

	reducer.Reduce(3, grid.Height-3, func(yStart, yEnd int) {
		for y := yStart; y < yEnd; y++ {
			for x := 3; x < width-3; x++ {
				idx := y*width + x
				center := grid.OtherAtIndex(idx)
				if !center.Valid {
					continue
				}
				regularizeCell(grid, idx, x, y, width, center, settings, removeOcclusions)
			}
		}
	})
}

func regularizeCell(grid *Grid, idx, x, y, width int, center PixelHypothesis, settings Settings, removeOcclusions bool) {
	var sumIDepthOverVar, sumInvVar float64
	var valSum int32
	var numOccluding, numNotOccluding int

	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			n := grid.OtherAtIndex((y+dy)*width + (x + dx))
			if !n.Valid {
				continue
			}

			diff := float64(n.IDepth) - float64(center.IDepth)
			if settings.DiffFacSmoothing*diff*diff > float64(n.IDepthVar)+float64(center.IDepthVar) {
				if removeOcclusions {
					numOccluding++
				}
				continue
			}
			if removeOcclusions {
				numNotOccluding++
			}

			distSq := float64(dx*dx + dy*dy)
			invVar := 1 / (float64(n.IDepthVar) + settings.RegDistVar*distSq)
			sumIDepthOverVar += float64(n.IDepth) * invVar
			sumInvVar += invVar
			valSum += n.ValidityCounter
		}
	}

	validityTH := settings.ValSumMinForKeep
	if valSum < validityTH {
		center.Valid = false
		center.Blacklisted--
		grid.SetIndex(idx, center)
		return
	}

	if removeOcclusions && numOccluding > numNotOccluding {
		center.Valid = false
		grid.SetIndex(idx, center)
		return
	}

	center.IDepthSmoothed = unzero(float32(sumIDepthOverVar / sumInvVar))
	center.IDepthVarSmoothed = float32(1 / sumInvVar)
	grid.SetIndex(idx, center)
}
