package sdmap

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/rdk/rimage/transform"
)

// Intrinsics is the calibration this package reasons about; it reuses the
// camera's pinhole intrinsics rather than redefining them.
type Intrinsics = transform.PinholeCameraIntrinsics

// KMatrix builds the 3x3 calibration matrix for k.
func KMatrix(k *Intrinsics) *mat.Dense {
	return k.GetCameraMatrix()
}

// KInvMatrix builds the inverse of KMatrix(k). K is upper triangular with a
// trivial structure, so the inverse is computed directly rather than via a
// general solve.
func KInvMatrix(k *Intrinsics) *mat.Dense {
	kInv := mat.NewDense(3, 3, nil)
	kInv.Set(0, 0, 1/k.Fx)
	kInv.Set(1, 1, 1/k.Fy)
	kInv.Set(0, 2, -k.Ppx/k.Fx)
	kInv.Set(1, 2, -k.Ppy/k.Fy)
	kInv.Set(2, 2, 1)
	return kInv
}

// mulVec3 returns m*v for a 3x3 matrix m.
func mulVec3(m *mat.Dense, v r3.Vector) r3.Vector {
	return r3.Vector{
		X: m.At(0, 0)*v.X + m.At(0, 1)*v.Y + m.At(0, 2)*v.Z,
		Y: m.At(1, 0)*v.X + m.At(1, 1)*v.Y + m.At(1, 2)*v.Z,
		Z: m.At(2, 0)*v.X + m.At(2, 1)*v.Y + m.At(2, 2)*v.Z,
	}
}

// project is the pinhole projection pi(v) = (v.X/v.Z, v.Y/v.Z).
func project(v r3.Vector) (float64, float64) {
	return v.X / v.Z, v.Y / v.Z
}

// unprojectPixel returns KInv * (x, y, 1).
func unprojectPixel(kInv *mat.Dense, x, y float64) r3.Vector {
	return mulVec3(kInv, r3.Vector{X: x, Y: y, Z: 1})
}

// projectWithK projects a 3D point with the camera matrix, returning pixel
// coordinates (K*v, then pi()).
func projectWithK(k *mat.Dense, v r3.Vector) (float64, float64) {
	return project(mulVec3(k, v))
}
