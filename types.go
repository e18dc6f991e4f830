// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.17
//

package gosfm

import "math"

type ImageT uint32
type FeatureT uint32
type TrackT uint64
type CameraT uint32

const (
	InvalidImageID   = ImageT(math.MaxUint32)
	InvalidFeatureID = FeatureT(math.MaxUint32)
	InvalidTrackID   = TrackT(math.MaxUint64)
	InvalidCameraID  = CameraT(math.MaxUint32)
)
