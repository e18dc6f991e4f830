// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.17
//

// Numeric types the residuals are evaluated with.

package gosfm

import "gonum.org/v1/gonum/num/dual"

// Algebra supplies the arithmetic of a scalar type T. Residual bodies are
// written once against Algebra and instantiated for float64 (values) and
// dual.Number (first derivatives).
type Algebra[T any] interface {
	Const(v float64) T
	Add(x, y T) T
	Sub(x, y T) T
	Mul(x, y T) T
	Div(x, y T) T
	Neg(x T) T
}

// Real is the plain float64 algebra.
type Real struct{}

func (Real) Const(v float64) float64 { return v }
func (Real) Add(x, y float64) float64 { return x + y }
func (Real) Sub(x, y float64) float64 { return x - y }
func (Real) Mul(x, y float64) float64 { return x * y }
func (Real) Div(x, y float64) float64 { return x / y }
func (Real) Neg(x float64) float64 { return -x }

// Dual is forward-mode differentiation. Emag carries the derivative with
// respect to the one seeded input.
type Dual struct{}

func (Dual) Const(v float64) dual.Number { return dual.Number{Real: v} }
func (Dual) Add(x, y dual.Number) dual.Number { return dual.Add(x, y) }
func (Dual) Sub(x, y dual.Number) dual.Number { return dual.Sub(x, y) }
func (Dual) Mul(x, y dual.Number) dual.Number { return dual.Mul(x, y) }
func (Dual) Neg(x dual.Number) dual.Number { return dual.Scale(-1, x) }
func (Dual) Div(x, y dual.Number) dual.Number { return dual.Mul(x, dual.Inv(y)) }
