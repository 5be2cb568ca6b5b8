// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

// Hemisphere is the single-letter N/S/E/W marker the receiver reports next to
// a coordinate. The zero value means nothing has been decoded yet.
type Hemisphere byte

const (
	North Hemisphere = 'N'
	South Hemisphere = 'S'
	East  Hemisphere = 'E'
	West  Hemisphere = 'W'
)

func (h Hemisphere) String() string {
	if h == 0 {
		return ""
	}
	return string(rune(h))
}

// FixState is the latest decoded receiver state. Only the Reader mutates it;
// everything else works on a copy.
type FixState struct {
	Year        int // two-digit UTC year as sent by the receiver
	Month       int // 1-12
	Day         int // 1-31
	Hour        int
	Minute      int
	Second      int
	Millisecond int

	Latitude   float64 // decimal degrees
	LatHemi    Hemisphere
	Longitude  float64 // decimal degrees
	LonHemi    Hemisphere
	AltitudeM  float64
	SpeedKnots float64
	CourseDeg  float64

	HasFix     bool
	FixQuality int
}
