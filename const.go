// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.17
//

package gosfm

const (
	SvRatioTol  = 1e-10 // Minimum s1/s0 before a geometry matrix is flagged as degenerate
	NumDiffStep = 1e-6  // Default step of the central difference Jacobian
	QuatEps     = 1e-12 // Quaternions shorter than this cannot be normalized
)

// Parameter block layout of each residual (output size first)
const (
	BATANumResiduals   = 3
	BATAPositionSize   = 3
	BATAScaleSize      = 1
	FetzerNumResiduals = 2
	FetzerFocalSize    = 1
)
