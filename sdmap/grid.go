package sdmap

// Grid holds the two double-buffered hypothesis arrays and the validity
// integral buffer described by the data model: regularization reads Other
// (a snapshot of Current) and writes Current; propagation writes Other then
// swaps.
type Grid struct {
	Width, Height int

	current []PixelHypothesis
	other   []PixelHypothesis

	// validityIntegral is a row-major 2D prefix sum of ValidityCounter over
	// valid cells, rebuilt before each fill-holes pass.
	validityIntegral []int32
}

// NewGrid allocates an empty width x height grid.
func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:            width,
		Height:           height,
		current:          make([]PixelHypothesis, width*height),
		other:            make([]PixelHypothesis, width*height),
		validityIntegral: make([]int32, width*height),
	}
}

func (g *Grid) index(x, y int) int {
	return y*g.Width + x
}

// Contains reports whether (x, y) is within the grid bounds.
func (g *Grid) Contains(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// At returns the current hypothesis at (x, y).
func (g *Grid) At(x, y int) PixelHypothesis {
	return g.current[g.index(x, y)]
}

// Set writes the current hypothesis at (x, y).
func (g *Grid) Set(x, y int, h PixelHypothesis) {
	g.current[g.index(x, y)] = h
}

// AtIndex / SetIndex give the hot loops in observation and stereo direct
// flat-array access without recomputing y*Width+x every call.
func (g *Grid) AtIndex(idx int) PixelHypothesis    { return g.current[idx] }
func (g *Grid) SetIndex(idx int, h PixelHypothesis) { g.current[idx] = h }

// OtherAt / OtherAtIndex read the snapshot buffer; regularization and
// fill-holes read exclusively from here so their result never depends on
// how the parallel phase was scheduled.
func (g *Grid) OtherAt(x, y int) PixelHypothesis     { return g.other[g.index(x, y)] }
func (g *Grid) OtherAtIndex(idx int) PixelHypothesis { return g.other[idx] }

// SnapshotToOther copies Current into Other, taken once before a parallel
// regularization phase.
func (g *Grid) SnapshotToOther() {
	copy(g.other, g.current)
}

// ClearOther invalidates every cell of Other; propagation starts from a
// wiped destination buffer before writing into it.
func (g *Grid) ClearOther() {
	for i := range g.other {
		g.other[i] = PixelHypothesis{}
	}
}

// Swap exchanges Current and Other, completing a propagation pass.
func (g *Grid) Swap() {
	g.current, g.other = g.other, g.current
}

// MeanIDepthSmoothed returns the mean IDepthSmoothed over valid cells and
// the count of valid cells it was computed from.
func (g *Grid) MeanIDepthSmoothed() (mean float64, n int) {
	var sum float64
	for _, h := range g.current {
		if !h.Valid {
			continue
		}
		sum += float64(h.IDepthSmoothed)
		n++
	}
	if n == 0 {
		return 0, 0
	}
	return sum / float64(n), n
}

// RescaleMeanTo1 multiplies every valid cell's idepth fields by a factor s
// chosen so that the mean IDepthSmoothed becomes 1, and variances by s^2.
// It returns s, which the caller folds into the keyframe's pose scale to
// keep monocular scale consistent across the keyframe change.
func (g *Grid) RescaleMeanTo1() float64 {
	mean, n := g.MeanIDepthSmoothed()
	if n == 0 || mean == 0 {
		return 1
	}
	s := 1 / mean
	s2 := float32(s * s)
	sf := float32(s)
	for i, h := range g.current {
		if !h.Valid {
			continue
		}
		h.IDepth = unzero(h.IDepth * sf)
		h.IDepthSmoothed = unzero(h.IDepthSmoothed * sf)
		h.IDepthVar *= s2
		h.IDepthVarSmoothed *= s2
		g.current[i] = h
	}
	return s
}

// Validity integral buffer.

// BuildValidityIntegral rebuilds the 2D prefix sum of ValidityCounter over
// valid cells of Current. The row pass is embarrassingly parallel; the
// column pass is inherently sequential.
func (g *Grid) BuildValidityIntegral(reducer Reducer) {
	reducer.Reduce(0, g.Height, func(yMin, yMax int) {
		for y := yMin; y < yMax; y++ {
			row := y * g.Width
			sum := int32(0)
			for x := 0; x < g.Width; x++ {
				h := g.current[row+x]
				if h.Valid {
					sum += h.ValidityCounter
				}
				g.validityIntegral[row+x] = sum
			}
		}
	})

	for idx := g.Width; idx < g.Width*g.Height; idx++ {
		g.validityIntegral[idx] += g.validityIntegral[idx-g.Width]
	}
}

// WindowSum5x5 returns the sum of ValidityCounter over the 5x5 window
// centered at (x, y), read from the integral buffer built by
// BuildValidityIntegral. Callers must keep x, y at least 3 away from every
// border.
func (g *Grid) WindowSum5x5(x, y int) int32 {
	idx := g.index(x, y)
	w := g.Width
	return g.validityIntegral[idx+2+2*w] - g.validityIntegral[idx-3+2*w] -
		g.validityIntegral[idx+2-3*w] + g.validityIntegral[idx-3-3*w]
}
