// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.17
//

package gosfm

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

func assertVecNear(t *testing.T, want, got r3.Vector, tol float64) {
	t.Helper()
	assert.InDeltaSlice(t, vecToSlice(want), vecToSlice(got), tol, "want %v, got %v", want, got)
}

func TestRigid3dRotation(t *testing.T) {
	t.Parallel()

	t.Run("quarter turn about z", func(t *testing.T) {
		t.Parallel()
		p := NewRigid3d(NewRotationAxisAngle(r3.Vector{Z: 1}, math.Pi/2), r3.Vector{})
		assertVecNear(t, r3.Vector{Y: 1}, p.Rotate(r3.Vector{X: 1}), 1e-12)
		assertVecNear(t, r3.Vector{X: 1}, p.Derotate(r3.Vector{Y: 1}), 1e-12)
	})

	t.Run("derotate undoes rotate", func(t *testing.T) {
		t.Parallel()
		rnd := rand.New(rand.NewSource(1))
		for i := 0; i < 200; i++ {
			q := quat.Number{Real: rnd.NormFloat64(), Imag: rnd.NormFloat64(), Jmag: rnd.NormFloat64(), Kmag: rnd.NormFloat64()}
			p := NewRigid3d(q, testTranslation)
			x := r3.Vector{X: 100 * (rnd.Float64() - 0.5), Y: 100 * (rnd.Float64() - 0.5), Z: 100 * (rnd.Float64() - 0.5)}
			assertVecNear(t, x, p.Derotate(p.Rotate(x)), 1e-12*(1+x.Norm()))
			assertVecNear(t, x, p.Rotate(p.Derotate(x)), 1e-12*(1+x.Norm()))
			assert.InDelta(t, x.Norm(), p.Rotate(x).Norm(), 1e-12*(1+x.Norm()))
			assertVecNear(t, x, p.Inverse().Apply(p.Apply(x)), 1e-12*(1+x.Norm()))
		}
	})

	t.Run("normalizes", func(t *testing.T) {
		t.Parallel()
		p := NewRigid3d(quat.Number{Real: 2, Imag: 2}, r3.Vector{})
		assert.InDelta(t, 1, quat.Abs(p.Rotation), 1e-15)
	})

	t.Run("zero quaternion", func(t *testing.T) {
		t.Parallel()
		p := NewRigid3d(quat.Number{}, r3.Vector{X: 1})
		assert.True(t, quat.IsNaN(p.Rotation))
		assert.True(t, math.IsNaN(p.Rotate(r3.Vector{X: 1}).X))
	})
}

func TestRigid3dCompose(t *testing.T) {
	t.Parallel()

	a := NewRigid3d(NewRotationAxisAngle(testAxis, testAngle), testTranslation)
	b := NewRigid3d(NewRotationAxisAngle(r3.Vector{X: 1, Y: -1}, -1.1), r3.Vector{X: 5, Y: 0, Z: -2})
	x := r3.Vector{X: 0.3, Y: -7, Z: 2}

	assertVecNear(t, a.Apply(b.Apply(x)), a.Mul(b).Apply(x), 1e-12)
	assertVecNear(t, x, a.Inverse().Apply(a.Apply(x)), 1e-12)

	id := a.Mul(a.Inverse())
	assert.InDelta(t, 1, math.Abs(id.Rotation.Real), 1e-12)
	assertVecNear(t, r3.Vector{}, id.Translation, 1e-12)

	e := IdentityRigid3d()
	assertVecNear(t, x, e.Apply(x), 1e-15)
	assert.Equal(t, "q: 0 0 0 1, t: 0 0 0", e.String())
}

func TestRigid3dCenter(t *testing.T) {
	t.Parallel()

	p := NewRigid3d(NewRotationAxisAngle(testAxis, testAngle), testTranslation)
	c := p.Center()
	// The centre maps to the origin of the target frame
	assertVecNear(t, r3.Vector{}, p.Apply(c), 1e-12)
	assertVecNear(t, c, p.Inverse().Translation, 1e-12)
}

func TestRigid3dMatrix(t *testing.T) {
	t.Parallel()

	axes := []r3.Vector{
		testAxis,
		{X: 1},
		{Y: 1},
		{Z: 1},
		{X: 1, Y: 1, Z: 1},
	}
	// Angles close to pi exercise every branch of the conversion
	for _, axis := range axes {
		for _, angle := range []float64{0.1, 1, 2.5, 3.1} {
			p := NewRigid3d(NewRotationAxisAngle(axis, angle), testTranslation)
			R := p.RotationMatrix()

			var RRt mat.Dense
			RRt.Mul(R, R.T())
			assert.True(t, mat.EqualApprox(&RRt, eye3(), 1e-12))
			assert.InDelta(t, 1, mat.Det(R), 1e-12)

			x := r3.Vector{X: 1, Y: 2, Z: 3}
			var Rx mat.VecDense
			Rx.MulVec(R, mat.NewVecDense(3, vecToSlice(x)))
			assertVecNear(t, p.Rotate(x), sliceToVec(Rx.RawVector().Data), 1e-12)

			q := NewRigid3dFromMatrix(R, testTranslation)
			assert.True(t, mat.EqualApprox(R, q.RotationMatrix(), 1e-12), "axis %v, angle %g", axis, angle)
			assert.Equal(t, testTranslation, q.Translation)
		}
	}

	assert.PanicsWithValue(t, mat.ErrShape, func() {
		NewRigid3dFromMatrix(mat.NewDense(2, 2, nil), r3.Vector{})
	})
}

func eye3() *mat.Dense {
	return mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
}
