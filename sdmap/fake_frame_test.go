package sdmap

// fakeFrame is a minimal in-memory Frame/KeyFrame implementation used
// across this package's tests: it stores level-0 image, gradient and
// max-gradient buffers directly rather than computing a pyramid.
type fakeFrame struct {
	id     uint32
	width  int
	height int

	image  []float32
	gx, gy []float32
	maxG   []float32

	trackingParent  Frame
	goodMask        []bool
	trackedResidual float64

	depth       *Grid
	idepthReact []float32
	varReact    []float32
	validReact  []int32
}

func newFakeFrame(id uint32, width, height int) *fakeFrame {
	n := width * height
	f := &fakeFrame{
		id:     id,
		width:  width,
		height: height,
		image:  make([]float32, n),
		gx:     make([]float32, n),
		gy:     make([]float32, n),
		maxG:   make([]float32, n),
	}
	return f
}

// fillUniform sets every pixel to v with zero gradient everywhere (a
// texture-less frame).
func (f *fakeFrame) fillUniform(v float32) {
	for i := range f.image {
		f.image[i] = v
		f.gx[i] = 0
		f.gy[i] = 0
		f.maxG[i] = 0
	}
}

// fillRamp sets a horizontal intensity ramp with a constant gradient,
// giving every interior pixel strong, well-conditioned texture along x.
func (f *fakeFrame) fillRamp(slope float32) {
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			idx := y*f.width + x
			f.image[idx] = slope * float32(x)
		}
	}
	f.recomputeGradients()
}

func (f *fakeFrame) recomputeGradients() {
	for y := 1; y < f.height-1; y++ {
		for x := 1; x < f.width-1; x++ {
			idx := y*f.width + x
			gx := f.image[idx+1] - f.image[idx-1]
			gy := f.image[idx+f.width] - f.image[idx-f.width]
			f.gx[idx] = gx
			f.gy[idx] = gy
			mag := gx*gx + gy*gy
			if mag < 0 {
				mag = 0
			}
			f.maxG[idx] = sqrtf32(mag)
		}
	}
}

func sqrtf32(v float32) float32 {
	// Small integer Newton iteration is overkill; tests only need a
	// monotonic magnitude, so a couple of iterations from a decent seed
	// suffice.
	if v <= 0 {
		return 0
	}
	x := v
	for i := 0; i < 8; i++ {
		x = 0.5 * (x + v/x)
	}
	return x
}

func (f *fakeFrame) ID() uint32     { return f.id }
func (f *fakeFrame) Width() int     { return f.width }
func (f *fakeFrame) Height() int    { return f.height }
func (f *fakeFrame) Image(int) []float32 { return f.image }
func (f *fakeFrame) Gradients(int) ([]float32, []float32) { return f.gx, f.gy }
func (f *fakeFrame) MaxGradients(int) []float32 { return f.maxG }
func (f *fakeFrame) TrackingParent() Frame { return f.trackingParent }
func (f *fakeFrame) RefPixelWasGoodNoCreate() []bool { return f.goodMask }
func (f *fakeFrame) InitialTrackedResidual() float64 { return f.trackedResidual }

func (f *fakeFrame) SetDepth(g *Grid) { f.depth = g }
func (f *fakeFrame) IDepthReact() []float32    { return f.idepthReact }
func (f *fakeFrame) IDepthVarReact() []float32 { return f.varReact }
func (f *fakeFrame) ValidityReact() []int32    { return f.validReact }
func (f *fakeFrame) TakeReActivationData(g *Grid) {
	n := f.width * f.height
	f.idepthReact = make([]float32, n)
	f.varReact = make([]float32, n)
	f.validReact = make([]int32, n)
	for i := 0; i < n; i++ {
		h := g.AtIndex(i)
		if !h.Valid {
			f.varReact[i] = -2
			continue
		}
		f.idepthReact[i] = h.IDepthSmoothed
		f.varReact[i] = h.IDepthVarSmoothed
		f.validReact[i] = h.ValidityCounter
	}
}

var _ Frame = (*fakeFrame)(nil)
var _ KeyFrame = (*fakeFrame)(nil)
