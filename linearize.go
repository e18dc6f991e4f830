// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.17
//

package gosfm

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Linearize evaluates a residual block around params
// - r: residual vector (NumResiduals)
// - J: Jacobian dr/dx, with the parameter blocks laid side by side in order
// Nothing is solved; the result is what a Gauss-Newton step is built from.
func Linearize(cf CostFunction, params [][]float64) (r *mat.VecDense, J *mat.Dense, err error) {

	sizes := cf.ParameterBlockSizes()
	if len(params) != len(sizes) {
		return nil, nil, fmt.Errorf("invalid parameter blocks. got %d, want %d", len(params), len(sizes))
	}
	n := 0
	for i, s := range sizes {
		if len(params[i]) != s {
			return nil, nil, fmt.Errorf("invalid block size. block %d (%d x 1), want (%d x 1)", i, len(params[i]), s)
		}
		n += s
	}

	m := cf.NumResiduals()
	res := make([]float64, m)
	jacs := make([][]float64, len(sizes))
	for i, s := range sizes {
		jacs[i] = make([]float64, m*s)
	}
	if !cf.Evaluate(params, res, jacs) {
		return nil, nil, fmt.Errorf("residual evaluation failed")
	}

	// Stack the row-major block jacobians column-wise
	J = mat.NewDense(m, n, nil)
	col := 0
	for i, s := range sizes {
		blk := J.Slice(0, m, col, col+s).(*mat.Dense)
		blk.Copy(mat.NewDense(m, s, jacs[i]))
		col += s
	}
	r = mat.NewVecDense(m, res)

	PrintMat(2, "linearize: J", J)
	return
}

// Cost is the objective contribution of a residual vector, 1/2 |r|^2
func Cost(r []float64) float64 {
	return 0.5 * floats.Dot(r, r)
}
