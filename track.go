// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.17
//

package gosfm

import (
	"fmt"

	"github.com/golang/geo/r3"
	"golang.org/x/exp/slices"
)

// Observation records that feature FeatureID of image ImageID belongs to a track.
type Observation struct {
	ImageID   ImageT
	FeatureID FeatureT
}

// Track is a 3D point hypothesis and the image features it was seen in.
// XYZ is meaningless while IsInitialized is false.
type Track struct {
	ID            TrackT
	XYZ           r3.Vector
	Color         [3]uint8 // Not used in any computation
	IsInitialized bool
	Observations  []Observation // (image_id, feature_id)
}

func NewTrack(id TrackT) *Track {
	return &Track{
		ID:           id,
		Observations: []Observation{},
	}
}

func (t *Track) AddObservation(imageID ImageT, featureID FeatureT) {
	t.Observations = append(t.Observations, Observation{ImageID: imageID, FeatureID: featureID})
}

// RemoveObservation drops the first entry equal to obs and keeps the order
// of the others.
func (t *Track) RemoveObservation(obs Observation) bool {
	i := slices.Index(t.Observations, obs)
	if i < 0 {
		return false
	}
	t.Observations = slices.Delete(t.Observations, i, i+1)
	return true
}

// RemoveImage drops every observation made in imageID and returns how many
// were removed.
func (t *Track) RemoveImage(imageID ImageT) int {
	n := len(t.Observations)
	t.Observations = slices.DeleteFunc(t.Observations, func(o Observation) bool {
		return o.ImageID == imageID
	})
	return n - len(t.Observations)
}

func (t *Track) HasImage(imageID ImageT) bool {
	return slices.IndexFunc(t.Observations, func(o Observation) bool {
		return o.ImageID == imageID
	}) >= 0
}

func (t *Track) Len() int {
	return len(t.Observations)
}

// SetXYZ stores an estimated position and marks the track initialized.
func (t *Track) SetXYZ(xyz r3.Vector) {
	t.XYZ = xyz
	t.IsInitialized = true
}

// Position returns XYZ together with whether it has been estimated.
func (t *Track) Position() (r3.Vector, bool) {
	return t.XYZ, t.IsInitialized
}

func (t *Track) String() string {
	if !t.IsInitialized {
		return fmt.Sprintf("track %d: uninitialized, %d obs", t.ID, len(t.Observations))
	}
	return fmt.Sprintf("track %d: %.4f %.4f %.4f, %d obs", t.ID, t.XYZ.X, t.XYZ.Y, t.XYZ.Z, len(t.Observations))
}
