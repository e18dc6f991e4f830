// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.17
//

package gosfm

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/dual"
)

// BATAPairwiseDirectionError is the translation averaging residual
//
//	r = t_ij - scale * (c_j - c_i)
//
// over camera positions c_i, c_j (blocks of size 3) and the pair scale
// (block of size 1). The observation is usually, but need not be, a unit
// direction. All pairs carry the same weight.
//
// TODO: weight the residual by the covariance of the observed translation.
type BATAPairwiseDirectionError struct {
	translationObs r3.Vector
}

func NewBATAPairwiseDirectionError(translationObs r3.Vector) *BATAPairwiseDirectionError {
	return &BATAPairwiseDirectionError{translationObs: translationObs}
}

// CreateBATAPairwiseDirectionError wraps the residual for a solver:
// 3 residuals, blocks (position1, position2, scale) of sizes 3, 3, 1.
func CreateBATAPairwiseDirectionError(translationObs r3.Vector) CostFunction {
	return mustAutoDiff(NewBATAPairwiseDirectionError(translationObs),
		BATANumResiduals, BATAPositionSize, BATAPositionSize, BATAScaleSize)
}

func (e *BATAPairwiseDirectionError) TranslationObs() r3.Vector {
	return e.translationObs
}

func (e *BATAPairwiseDirectionError) Evaluate(params [][]float64, residuals []float64) bool {
	bataResidual(Real{}, e.translationObs, params[0], params[1], params[2][0], residuals)
	return true
}

func (e *BATAPairwiseDirectionError) EvaluateDual(params [][]dual.Number, residuals []dual.Number) bool {
	bataResidual(Dual{}, e.translationObs, params[0], params[1], params[2][0], residuals)
	return true
}

func bataResidual[T any](a Algebra[T], obs r3.Vector, position1, position2 []T, scale T, residuals []T) {
	o := vecToSlice(obs)
	for k := 0; k < 3; k++ {
		translation := a.Sub(position2[k], position1[k])
		residuals[k] = a.Sub(a.Const(o[k]), a.Mul(scale, translation))
	}
}
