// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.17
//

// Cost function wrappers handed to a nonlinear least-squares solver.

package gosfm

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/dual"
)

var (
	ErrResidualSize = errors.New("invalid residual size")
	ErrBlockSize    = errors.New("invalid parameter block size")
)

// CostFunction is a residual block as seen by a solver.
//
// params[i] holds parameter block i. If jacobians is non-nil, every non-nil
// jacobians[i] receives the NumResiduals x ParameterBlockSizes()[i] row-major
// derivative of the residuals with respect to block i.
// Evaluate returns false when the residual could not be computed.
type CostFunction interface {
	Evaluate(params [][]float64, residuals []float64, jacobians [][]float64) bool
	NumResiduals() int
	ParameterBlockSizes() []int
}

// RealFunctor evaluates residuals from plain values.
type RealFunctor interface {
	Evaluate(params [][]float64, residuals []float64) bool
}

// Functor evaluates the same residual with plain values and with dual numbers.
type Functor interface {
	RealFunctor
	EvaluateDual(params [][]dual.Number, residuals []dual.Number) bool
}

//-------------------------------------------------------------------
// Size bookkeeping
//-------------------------------------------------------------------

type costSize struct {
	numResiduals int
	blockSizes   []int
}

func newCostSize(numResiduals int, blockSizes []int) (costSize, error) {
	if numResiduals <= 0 {
		return costSize{}, errors.Wrapf(ErrResidualSize, "num residuals %d", numResiduals)
	}
	if len(blockSizes) == 0 {
		return costSize{}, errors.Wrap(ErrBlockSize, "no parameter blocks")
	}
	for i, n := range blockSizes {
		if n <= 0 {
			return costSize{}, errors.Wrapf(ErrBlockSize, "block %d has size %d", i, n)
		}
	}
	return costSize{numResiduals: numResiduals, blockSizes: slices.Clone(blockSizes)}, nil
}

func (s costSize) NumResiduals() int {
	return s.numResiduals
}

func (s costSize) ParameterBlockSizes() []int {
	return slices.Clone(s.blockSizes)
}

// Wrong sizes at evaluation time are a wiring bug in the caller.
func (s costSize) mustMatch(params [][]float64, residuals []float64, jacobians [][]float64) {
	if len(params) != len(s.blockSizes) {
		panic(errors.Wrapf(ErrBlockSize, "got %d parameter blocks, want %d", len(params), len(s.blockSizes)))
	}
	for i, p := range params {
		if len(p) != s.blockSizes[i] {
			panic(errors.Wrapf(ErrBlockSize, "block %d has %d values, want %d", i, len(p), s.blockSizes[i]))
		}
	}
	if len(residuals) != s.numResiduals {
		panic(errors.Wrapf(ErrResidualSize, "got %d residuals, want %d", len(residuals), s.numResiduals))
	}
	if jacobians == nil {
		return
	}
	if len(jacobians) != len(s.blockSizes) {
		panic(errors.Wrapf(ErrBlockSize, "got %d jacobian blocks, want %d", len(jacobians), len(s.blockSizes)))
	}
	for i, jac := range jacobians {
		if jac != nil && len(jac) != s.numResiduals*s.blockSizes[i] {
			panic(errors.Wrapf(ErrBlockSize, "jacobian %d has %d values, want %d", i, len(jac), s.numResiduals*s.blockSizes[i]))
		}
	}
}

//-------------------------------------------------------------------
// AutoDiffCostFunction
//-------------------------------------------------------------------

// AutoDiffCostFunction differentiates a Functor with dual numbers, one pass
// per parameter coordinate.
type AutoDiffCostFunction struct {
	costSize
	functor Functor
}

// NewAutoDiffCostFunction declares the signature (numResiduals, blockSizes...)
// the functor is evaluated with.
func NewAutoDiffCostFunction(f Functor, numResiduals int, blockSizes ...int) (*AutoDiffCostFunction, error) {
	size, err := newCostSize(numResiduals, blockSizes)
	if err != nil {
		return nil, errors.Wrap(err, "autodiff cost function")
	}
	return &AutoDiffCostFunction{costSize: size, functor: f}, nil
}

func (c *AutoDiffCostFunction) Evaluate(params [][]float64, residuals []float64, jacobians [][]float64) bool {
	c.mustMatch(params, residuals, jacobians)
	if !c.functor.Evaluate(params, residuals) {
		return false
	}
	if jacobians == nil {
		return true
	}

	dp := make([][]dual.Number, len(params))
	for i, p := range params {
		dp[i] = make([]dual.Number, len(p))
		for k, v := range p {
			dp[i][k] = dual.Number{Real: v}
		}
	}
	out := make([]dual.Number, c.numResiduals)
	for i, jac := range jacobians {
		if jac == nil {
			continue
		}
		n := c.blockSizes[i]
		for k := 0; k < n; k++ {
			dp[i][k].Emag = 1
			ok := c.functor.EvaluateDual(dp, out)
			dp[i][k].Emag = 0
			if !ok {
				return false
			}
			for r := range out {
				jac[r*n+k] = out[r].Emag
			}
		}
	}
	return true
}

//-------------------------------------------------------------------
// NumericDiffCostFunction
//-------------------------------------------------------------------

// NumericDiffCostFunction approximates the Jacobian by central differences.
type NumericDiffCostFunction struct {
	costSize
	functor RealFunctor
	Step    float64 // Finite difference step (NumDiffStep if zero)
}

func NewNumericDiffCostFunction(f RealFunctor, numResiduals int, blockSizes ...int) (*NumericDiffCostFunction, error) {
	size, err := newCostSize(numResiduals, blockSizes)
	if err != nil {
		return nil, errors.Wrap(err, "numeric diff cost function")
	}
	return &NumericDiffCostFunction{costSize: size, functor: f, Step: NumDiffStep}, nil
}

func (c *NumericDiffCostFunction) Evaluate(params [][]float64, residuals []float64, jacobians [][]float64) bool {
	c.mustMatch(params, residuals, jacobians)
	if !c.functor.Evaluate(params, residuals) {
		return false
	}
	if jacobians == nil {
		return true
	}

	step := c.Step
	if step == 0 {
		step = NumDiffStep
	}
	ok := true
	p := slices.Clone(params)
	for i, jac := range jacobians {
		if jac == nil {
			continue
		}
		f := func(y, x []float64) {
			p[i] = x
			if !c.functor.Evaluate(p, y) {
				ok = false
			}
		}
		dst := mat.NewDense(c.numResiduals, c.blockSizes[i], jac)
		fd.Jacobian(dst, f, params[i], &fd.JacobianSettings{Formula: fd.Central, Step: step})
		p[i] = params[i]
	}
	return ok
}

// For the fixed signatures of this package; a failure is a programming error.
func mustAutoDiff(f Functor, numResiduals int, blockSizes ...int) *AutoDiffCostFunction {
	c, err := NewAutoDiffCostFunction(f, numResiduals, blockSizes...)
	if err != nil {
		panic(err)
	}
	return c
}
