// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.17
//

package gosfm

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

//-------------------------------------------------------------------
// Rigid3d
//-------------------------------------------------------------------

// Rigid3d is a rotation followed by a translation, x' = R x + t.
// Rotation is kept as a unit quaternion.
type Rigid3d struct {
	Rotation    quat.Number
	Translation r3.Vector
}

// NewRigid3d normalizes q. A (near) zero quaternion has no direction and
// gives a NaN rotation.
func NewRigid3d(q quat.Number, t r3.Vector) Rigid3d {
	return Rigid3d{
		Rotation:    normalizeQuat(q),
		Translation: t,
	}
}

func IdentityRigid3d() Rigid3d {
	return Rigid3d{Rotation: quat.Number{Real: 1}}
}

// NewRotationAxisAngle returns the unit quaternion rotating by angle [rad]
// around axis.
func NewRotationAxisAngle(axis r3.Vector, angle float64) quat.Number {
	a := axis.Normalize()
	s := math.Sin(angle / 2)
	return quat.Number{
		Real: math.Cos(angle / 2),
		Imag: a.X * s,
		Jmag: a.Y * s,
		Kmag: a.Z * s,
	}
}

// NewRigid3dFromMatrix converts a 3x3 rotation matrix (Shepperd's method).
// It panics with mat.ErrShape when R is not 3x3.
func NewRigid3dFromMatrix(R mat.Matrix, t r3.Vector) Rigid3d {
	mustBe3x3(R)
	var q quat.Number
	tr := R.At(0, 0) + R.At(1, 1) + R.At(2, 2)
	switch {
	case tr > 0:
		s := 2 * math.Sqrt(tr+1)
		q = quat.Number{
			Real: s / 4,
			Imag: (R.At(2, 1) - R.At(1, 2)) / s,
			Jmag: (R.At(0, 2) - R.At(2, 0)) / s,
			Kmag: (R.At(1, 0) - R.At(0, 1)) / s,
		}
	case R.At(0, 0) > R.At(1, 1) && R.At(0, 0) > R.At(2, 2):
		s := 2 * math.Sqrt(1+R.At(0, 0)-R.At(1, 1)-R.At(2, 2))
		q = quat.Number{
			Real: (R.At(2, 1) - R.At(1, 2)) / s,
			Imag: s / 4,
			Jmag: (R.At(0, 1) + R.At(1, 0)) / s,
			Kmag: (R.At(0, 2) + R.At(2, 0)) / s,
		}
	case R.At(1, 1) > R.At(2, 2):
		s := 2 * math.Sqrt(1+R.At(1, 1)-R.At(0, 0)-R.At(2, 2))
		q = quat.Number{
			Real: (R.At(0, 2) - R.At(2, 0)) / s,
			Imag: (R.At(0, 1) + R.At(1, 0)) / s,
			Jmag: s / 4,
			Kmag: (R.At(1, 2) + R.At(2, 1)) / s,
		}
	default:
		s := 2 * math.Sqrt(1+R.At(2, 2)-R.At(0, 0)-R.At(1, 1))
		q = quat.Number{
			Real: (R.At(1, 0) - R.At(0, 1)) / s,
			Imag: (R.At(0, 2) + R.At(2, 0)) / s,
			Jmag: (R.At(1, 2) + R.At(2, 1)) / s,
			Kmag: s / 4,
		}
	}
	return NewRigid3d(q, t)
}

// Rotate returns R x.
func (p Rigid3d) Rotate(x r3.Vector) r3.Vector {
	return rotateQuat(p.Rotation, x)
}

// Derotate returns R^-1 x.
func (p Rigid3d) Derotate(x r3.Vector) r3.Vector {
	return rotateQuat(quat.Conj(p.Rotation), x)
}

// Apply returns R x + t.
func (p Rigid3d) Apply(x r3.Vector) r3.Vector {
	return p.Rotate(x).Add(p.Translation)
}

func (p Rigid3d) Inverse() Rigid3d {
	qi := quat.Conj(p.Rotation)
	return Rigid3d{
		Rotation:    qi,
		Translation: rotateQuat(qi, p.Translation).Mul(-1),
	}
}

// Mul composes two transforms so that p.Mul(o).Apply(x) == p.Apply(o.Apply(x)).
func (p Rigid3d) Mul(o Rigid3d) Rigid3d {
	return Rigid3d{
		Rotation:    normalizeQuat(quat.Mul(p.Rotation, o.Rotation)),
		Translation: p.Rotate(o.Translation).Add(p.Translation),
	}
}

// Center is the origin of the transform's source frame seen from its target
// frame, -R^-1 t. For a cam_from_world pose this is the projection centre.
func (p Rigid3d) Center() r3.Vector {
	return p.Derotate(p.Translation).Mul(-1)
}

func (p Rigid3d) RotationMatrix() *mat.Dense {
	w, x, y, z := p.Rotation.Real, p.Rotation.Imag, p.Rotation.Jmag, p.Rotation.Kmag
	return mat.NewDense(3, 3, []float64{
		1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y),
		2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x),
		2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y),
	})
}

// Convert to string (quaternion vector part first)
func (p Rigid3d) String() string {
	q, t := p.Rotation, p.Translation
	return fmt.Sprintf("q: %g %g %g %g, t: %g %g %g", q.Imag, q.Jmag, q.Kmag, q.Real, t.X, t.Y, t.Z)
}

func normalizeQuat(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n < QuatEps {
		return quat.NaN()
	}
	return quat.Scale(1/n, q)
}

func rotateQuat(q quat.Number, x r3.Vector) r3.Vector {
	p := quat.Mul(quat.Mul(q, quat.Number{Imag: x.X, Jmag: x.Y, Kmag: x.Z}), quat.Conj(q))
	return r3.Vector{X: p.Imag, Y: p.Jmag, Z: p.Kmag}
}
