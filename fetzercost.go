// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.17
//

// Focal length calibration residuals of an image pair (DMAP, Fetzer et al.).

package gosfm

import (
	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/dual"
)

//-------------------------------------------------------------------
// FetzerFocalLengthCost
//-------------------------------------------------------------------

// FetzerFocalLengthCost is the calibration error of an image pair taken with
// two different cameras. Parameters are the focal length fi of image 0 and
// fj of image 1, both blocks of size 1; the residual has 2 components and is
// zero at the focal lengths consistent with F.
//
// The residual divides by fi^2, fj^2 and by the d-polynomials in them, so
// focal lengths at or near zero give Inf or NaN. So do fj^2 = -d01(1)/d01(0)
// and fi^2 = -d12(2)/d12(0), where those denominators vanish. Keep the focal
// lengths bounded away from these values in the solver.
type FetzerFocalLengthCost struct {
	ds FetzerDs
}

// NewFetzerFocalLengthCost takes the fundamental matrix i1_F_i0 and the
// principal points of image 0 and image 1.
func NewFetzerFocalLengthCost(F mat.Matrix, pp0, pp1 r2.Point) *FetzerFocalLengthCost {
	return &FetzerFocalLengthCost{ds: FetzerDsFromFundamental(F, pp0, pp1, nil)}
}

// CreateFetzerFocalLengthCost wraps the residual for a solver: 2 residuals,
// blocks (fi, fj) of size 1 each.
func CreateFetzerFocalLengthCost(F mat.Matrix, pp0, pp1 r2.Point) CostFunction {
	return mustAutoDiff(NewFetzerFocalLengthCost(F, pp0, pp1), FetzerNumResiduals, FetzerFocalSize, FetzerFocalSize)
}

func (c *FetzerFocalLengthCost) Ds() FetzerDs {
	return c.ds
}

func (c *FetzerFocalLengthCost) Evaluate(params [][]float64, residuals []float64) bool {
	fetzerResidual(Real{}, c.ds, params[0][0], params[1][0], residuals)
	return true
}

func (c *FetzerFocalLengthCost) EvaluateDual(params [][]dual.Number, residuals []dual.Number) bool {
	fetzerResidual(Dual{}, c.ds, params[0][0], params[1][0], residuals)
	return true
}

//-------------------------------------------------------------------
// FetzerFocalLengthSameCameraCost
//-------------------------------------------------------------------

// FetzerFocalLengthSameCameraCost is the calibration error for an image pair
// sharing one camera. Its single parameter is used as both fi and fj in the
// two-camera formula. Same degeneracies as FetzerFocalLengthCost.
type FetzerFocalLengthSameCameraCost struct {
	ds FetzerDs
}

func NewFetzerFocalLengthSameCameraCost(F mat.Matrix, pp r2.Point) *FetzerFocalLengthSameCameraCost {
	return &FetzerFocalLengthSameCameraCost{ds: FetzerDsFromFundamental(F, pp, pp, nil)}
}

// CreateFetzerFocalLengthSameCameraCost wraps the residual for a solver:
// 2 residuals, one block (f) of size 1.
func CreateFetzerFocalLengthSameCameraCost(F mat.Matrix, pp r2.Point) CostFunction {
	return mustAutoDiff(NewFetzerFocalLengthSameCameraCost(F, pp), FetzerNumResiduals, FetzerFocalSize)
}

func (c *FetzerFocalLengthSameCameraCost) Ds() FetzerDs {
	return c.ds
}

func (c *FetzerFocalLengthSameCameraCost) Evaluate(params [][]float64, residuals []float64) bool {
	f := params[0][0]
	fetzerResidual(Real{}, c.ds, f, f, residuals)
	return true
}

func (c *FetzerFocalLengthSameCameraCost) EvaluateDual(params [][]dual.Number, residuals []dual.Number) bool {
	f := params[0][0]
	fetzerResidual(Dual{}, c.ds, f, f, residuals)
	return true
}

//-------------------------------------------------------------------
// Residual body
//-------------------------------------------------------------------

//	K0_01 = -(fj^2 d01(2) + d01(3)) / (fj^2 d01(0) + d01(1))
//	K1_12 = -(fi^2 d12(1) + d12(3)) / (fi^2 d12(0) + d12(2))
//	r = [(fi^2 - K0_01) / fi^2, (fj^2 - K1_12) / fj^2]
func fetzerResidual[T any](a Algebra[T], ds FetzerDs, fi, fj T, residuals []T) {
	fi2 := a.Mul(fi, fi)
	fj2 := a.Mul(fj, fj)

	k0 := fetzerK(a, fj2, ds.D01, 2, 3, 0, 1)
	k1 := fetzerK(a, fi2, ds.D12, 1, 3, 0, 2)

	residuals[0] = a.Div(a.Sub(fi2, k0), fi2)
	residuals[1] = a.Div(a.Sub(fj2, k1), fj2)
}

// -(f2 d[n0] + d[n1]) / (f2 d[m0] + d[m1])
func fetzerK[T any](a Algebra[T], f2 T, d [4]float64, n0, n1, m0, m1 int) T {
	num := a.Add(a.Mul(f2, a.Const(d[n0])), a.Const(d[n1]))
	den := a.Add(a.Mul(f2, a.Const(d[m0])), a.Const(d[m1]))
	return a.Neg(a.Div(num, den))
}
