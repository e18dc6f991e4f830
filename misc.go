// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.17
//

package gosfm

import (
	"github.com/golang/geo/r3"
	"github.com/golang/glog"
	"gonum.org/v1/gonum/mat"
)

// ------------------------------------
// Mini functions
// ------------------------------------

func SQ(x float64) float64 {
	return x * x
}

func vecToSlice(v r3.Vector) []float64 {
	return []float64{v.X, v.Y, v.Z}
}

func sliceToVec(s []float64) r3.Vector {
	return r3.Vector{X: s[0], Y: s[1], Z: s[2]}
}

// Column j of a 3x3 matrix
func colVec(m mat.Matrix, j int) r3.Vector {
	return r3.Vector{X: m.At(0, j), Y: m.At(1, j), Z: m.At(2, j)}
}

// ------------------------------------
// Debug print function
// ------------------------------------
// Output goes through glog, so nothing is printed unless the host
// program runs with -v >= level.

func PrintMat(v int, label string, X mat.Matrix) {
	if !glog.VDepth(1, glog.Level(v)) {
		return
	}
	r, c := X.Dims()
	fa := mat.Formatted(X, mat.Prefix(""), mat.Squeeze())
	glog.InfoDepthf(1, "%s (%d x %d)\n%v", label, r, c, fa)
}

// Debug display
func PrintD(v int, format string, a ...any) {
	if glog.VDepth(1, glog.Level(v)) {
		glog.InfoDepthf(1, format, a...)
	}
}
