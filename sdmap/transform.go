package sdmap

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// RigidTransform is a similarity transform (rotation, translation, uniform
// scale) composed the way the rest of the calibration code in this module
// represents rigid motions: a 3x3 rotation as a *mat.Dense and a translation
// as an r3.Vector, following rimage/transform's CamPose and two-view
// geometry helpers. Scale is 1 for a pure SE(3) transform; a Sim(3)
// transform (as produced by keyframe-change rescaling) carries Scale != 1.
type RigidTransform struct {
	R     *mat.Dense // 3x3 rotation
	T     r3.Vector
	Scale float64
}

// Identity returns the transform that leaves points unchanged.
func Identity() RigidTransform {
	r := mat.NewDense(3, 3, nil)
	r.Set(0, 0, 1)
	r.Set(1, 1, 1)
	r.Set(2, 2, 1)
	return RigidTransform{R: r, T: r3.Vector{}, Scale: 1}
}

// Apply returns Scale*R*p + T.
func (g RigidTransform) Apply(p r3.Vector) r3.Vector {
	rp := mulVec3(g.R, p)
	s := g.Scale
	if s == 0 {
		s = 1
	}
	return r3.Vector{X: s*rp.X + g.T.X, Y: s*rp.Y + g.T.Y, Z: s*rp.Z + g.T.Z}
}

// RotateOnly returns R*p, ignoring translation and scale; used where only
// the ray direction (not its anchor point) needs to move between frames.
func (g RigidTransform) RotateOnly(p r3.Vector) r3.Vector {
	return mulVec3(g.R, p)
}

// Inverse returns the transform undoing g: for x' = s*R*x + t,
// x = (1/s)*R^T*(x' - t).
func (g RigidTransform) Inverse() RigidTransform {
	var rt mat.Dense
	rt.CloneFrom(g.R.T())
	s := g.Scale
	if s == 0 {
		s = 1
	}
	invScale := 1 / s
	negRtT := mulVec3(&rt, g.T)
	return RigidTransform{
		R:     &rt,
		T:     r3.Vector{X: -invScale * negRtT.X, Y: -invScale * negRtT.Y, Z: -invScale * negRtT.Z},
		Scale: invScale,
	}
}

// Compose returns the transform equivalent to applying b, then a: (a . b)(p) == a(b(p)).
func (a RigidTransform) Compose(b RigidTransform) RigidTransform {
	var r mat.Dense
	r.Mul(a.R, b.R)
	bScale := b.Scale
	if bScale == 0 {
		bScale = 1
	}
	aScale := a.Scale
	if aScale == 0 {
		aScale = 1
	}
	rbT := mulVec3(a.R, b.T)
	return RigidTransform{
		R:     &r,
		T:     r3.Vector{X: aScale*rbT.X + a.T.X, Y: aScale*rbT.Y + a.T.Y, Z: aScale*rbT.Z + a.T.Z},
		Scale: aScale * bScale,
	}
}

// WithScale returns a copy of g with its scale replaced, used by the
// keyframe-change rescale step to anchor the new keyframe's scale.
func (g RigidTransform) WithScale(scale float64) RigidTransform {
	return RigidTransform{R: g.R, T: g.T, Scale: scale}
}
