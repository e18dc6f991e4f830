// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.17
//

package gosfm

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// Relative pose of image 1 w.r.t. image 0 used by the synthetic pairs
var (
	testAxis        = r3.Vector{X: 0.1, Y: 1, Z: 0.2}
	testAngle       = 0.3
	testTranslation = r3.Vector{X: 1, Y: 0.2, Z: 0.1}
)

// syntheticFundamental returns i1_F_i0 = K1^-T [t]x R K0^-1 for two pinhole
// cameras with focal lengths f0, f1 and principal points pp0, pp1.
func syntheticFundamental(f0, f1 float64, pp0, pp1 r2.Point) *mat.Dense {
	R := NewRigid3d(NewRotationAxisAngle(testAxis, testAngle), r3.Vector{}).RotationMatrix()
	t := testTranslation
	tx := mat.NewDense(3, 3, []float64{
		0, -t.Z, t.Y,
		t.Z, 0, -t.X,
		-t.Y, t.X, 0,
	})
	var E mat.Dense
	E.Mul(tx, R)

	var EK0, F mat.Dense
	EK0.Mul(&E, invIntrinsics(f0, pp0))
	F.Mul(invIntrinsics(f1, pp1).T(), &EK0)
	return &F
}

func invIntrinsics(f float64, pp r2.Point) *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		1 / f, 0, -pp.X / f,
		0, 1 / f, -pp.Y / f,
		0, 0, 1,
	})
}

func residualNorm(r []float64) float64 {
	return mat.Norm(mat.NewVecDense(len(r), r), 2)
}
