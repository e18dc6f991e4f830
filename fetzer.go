// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.17
//

// Implements the coefficient decomposition of Fetzer's focal length
// self-calibration from a two-view geometry matrix.

package gosfm

import (
	"math"

	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// FetzerOpt controls the decomposition
type FetzerOpt struct {
	SvRatioTol float64 // Flag the matrix as degenerate when s1 <= SvRatioTol * s0
}

func DefaultFetzerOpt() *FetzerOpt {
	return &FetzerOpt{SvRatioTol: SvRatioTol}
}

// FetzerDs holds the coefficient vectors d_01, d_02 and d_12 of one image
// pair. Each relates the squared focal lengths of the two images through
//
//	fi^2 = -(fj^2 d(2) + d(3)) / (fj^2 d(0) + d(1))
//
// (d_01), and the mirrored form for d_12. They are computed once per pair
// and never change.
type FetzerDs struct {
	D01            [4]float64
	D02            [4]float64
	D12            [4]float64
	SingularValues [3]float64 // Descending
	Degenerate     bool       // Second singular value (close to) zero, coefficients unreliable
}

// IsFinite reports whether every coefficient is a finite number.
func (d FetzerDs) IsFinite() bool {
	for _, v := range [][4]float64{d.D01, d.D02, d.D12} {
		for _, x := range v {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return false
			}
		}
	}
	return true
}

// GeometryMatrix returns G = K1^T F K0 where K holds only the principal
// point. F maps image 0 to image 1 (x1^T F x0 = 0).
func GeometryMatrix(F mat.Matrix, pp0, pp1 r2.Point) *mat.Dense {
	mustBe3x3(F)
	var FK0, G mat.Dense
	FK0.Mul(F, principalPointMatrix(pp0))
	G.Mul(principalPointMatrix(pp1).T(), &FK0)
	return &G
}

// FetzerDsFromFundamental decomposes the geometry matrix of F and the two
// principal points.
func FetzerDsFromFundamental(F mat.Matrix, pp0, pp1 r2.Point, opt *FetzerOpt) FetzerDs {
	return DecomposeFetzer(GeometryMatrix(F, pp0, pp1), opt)
}

// DecomposeFetzer computes the coefficient vectors from the full SVD of G.
// Only the first two singular values and vectors are used, the third is
// zero for a rank 2 matrix.
//
// A degenerate G (pure rotation, planar scenes, all zeros) is not an error.
// The result has Degenerate set and its coefficients may be zero or NaN,
// which turns every residual built from it into NaN. The caller decides
// what to do with such a pair. A G with NaN or Inf entries is not factorized
// at all and gives all-NaN coefficients.
//
// DecomposeFetzer panics with mat.ErrShape if G is not 3x3.
func DecomposeFetzer(G mat.Matrix, opt *FetzerOpt) FetzerDs {
	mustBe3x3(G)
	if opt == nil {
		opt = DefaultFetzerOpt()
	}
	PrintMat(2, "fetzer: G", G)

	// mat.SVD does not return on NaN input
	if g := mat.DenseCopyOf(G).RawMatrix().Data; floats.HasNaN(g) ||
		math.IsInf(floats.Max(g), 1) || math.IsInf(floats.Min(g), -1) {
		PrintD(1, "fetzer: non-finite geometry matrix")
		return nanFetzerDs()
	}

	var svd mat.SVD
	if !svd.Factorize(G, mat.SVDFull) {
		PrintD(1, "fetzer: SVD factorization failed")
		return nanFetzerDs()
	}
	s := svd.Values(nil)
	var U, V mat.Dense
	svd.UTo(&U)
	svd.VTo(&V)

	v0, v1 := colVec(&V, 0), colVec(&V, 1)
	u0, u1 := colVec(&U, 0), colVec(&U, 1)

	ai := [3]float64{
		SQ(s[0]) * (SQ(v0.X) + SQ(v0.Y)),
		s[0] * s[1] * (v0.X*v1.X + v0.Y*v1.Y),
		SQ(s[1]) * (SQ(v1.X) + SQ(v1.Y)),
	}
	aj := [3]float64{
		SQ(u1.X) + SQ(u1.Y),
		-(u0.X*u1.X + u0.Y*u1.Y),
		SQ(u0.X) + SQ(u0.Y),
	}
	bi := [3]float64{
		SQ(s[0]) * SQ(v0.Z),
		s[0] * s[1] * v0.Z * v1.Z,
		SQ(s[1]) * SQ(v1.Z),
	}
	bj := [3]float64{
		SQ(u1.Z),
		-(u0.Z * u1.Z),
		SQ(u0.Z),
	}

	ds := FetzerDs{
		D01:            fetzerD(ai, bi, aj, bj, 1, 0),
		D02:            fetzerD(ai, bi, aj, bj, 0, 2),
		D12:            fetzerD(ai, bi, aj, bj, 2, 1),
		SingularValues: [3]float64{s[0], s[1], s[2]},
	}
	ds.Degenerate = !(s[0] > 0) || !(s[1] > opt.SvRatioTol*s[0])
	if ds.Degenerate {
		PrintD(1, "fetzer: degenerate geometry matrix, singular values %g %g %g", s[0], s[1], s[2])
	}
	return ds
}

// Antisymmetric combination of coordinates u, v
func fetzerD(ai, bi, aj, bj [3]float64, u, v int) [4]float64 {
	return [4]float64{
		ai[u]*aj[v] - ai[v]*aj[u],
		ai[u]*bj[v] - ai[v]*bj[u],
		bi[u]*aj[v] - bi[v]*aj[u],
		bi[u]*bj[v] - bi[v]*bj[u],
	}
}

func nanFetzerDs() FetzerDs {
	n := math.NaN()
	nan4 := [4]float64{n, n, n, n}
	return FetzerDs{
		D01:            nan4,
		D02:            nan4,
		D12:            nan4,
		SingularValues: [3]float64{n, n, n},
		Degenerate:     true,
	}
}

// Intrinsic matrix with unit focal length and the given principal point
func principalPointMatrix(pp r2.Point) *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		1, 0, pp.X,
		0, 1, pp.Y,
		0, 0, 1,
	})
}

func mustBe3x3(m mat.Matrix) {
	if r, c := m.Dims(); r != 3 || c != 3 {
		panic(mat.ErrShape)
	}
}
