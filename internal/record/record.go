// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package record turns a FixState snapshot into the text written to storage
// and shown in the diagnostic reports.
package record

import (
	"fmt"

	"github.com/relabs-tech/gps_drifter/internal/gps"
)

// Format builds one log line:
//
//	month/day/20yy,hour:mm:ss.mmm,elapsedSeconds,lat,H,lon,H,altitude,speed,angle
//
// The year is the receiver's two-digit year appended to "20". Coordinates
// carry 4 decimals, altitude/speed/angle carry 2. The result depends only
// on its arguments.
func Format(s gps.FixState, elapsedSeconds uint32) string {
	return fmt.Sprintf("%d/%d/20%d,%d:%02d:%02d.%03d,%d,%.4f,%s,%.4f,%s,%.2f,%.2f,%.2f",
		s.Month, s.Day, s.Year,
		s.Hour, s.Minute, s.Second, s.Millisecond,
		elapsedSeconds,
		s.Latitude, s.LatHemi,
		s.Longitude, s.LonHemi,
		s.AltitudeM, s.SpeedKnots, s.CourseDeg,
	)
}

// TimeReport is the per-tick diagnostic summary of receiver time, date and
// fix status.
func TimeReport(s gps.FixState) string {
	fix := 0
	if s.HasFix {
		fix = 1
	}
	return fmt.Sprintf("Time: %02d:%02d:%02d.%03d Date: %d/%d/20%d Fix: %d quality: %d",
		s.Hour, s.Minute, s.Second, s.Millisecond,
		s.Month, s.Day, s.Year,
		fix, s.FixQuality,
	)
}

// LocationReport is printed only while the receiver has a fix.
func LocationReport(s gps.FixState) string {
	return fmt.Sprintf("Location: %.4f%s, %.4f%s", s.Latitude, s.LatHemi, s.Longitude, s.LonHemi)
}
