// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"bytes"
	"io"
	"strconv"

	nmea "github.com/adrianmo/go-nmea"
)

// maxLineLength matches the receiver's longest sentence plus some slack.
const maxLineLength = 120

// Reader accumulates raw bytes from a receiver, decodes each complete
// sentence and keeps the resulting FixState.
type Reader struct {
	src   io.Reader
	chunk []byte
	line  []byte
	state FixState
}

// NewReader wraps src. Each Poll performs exactly one Read on it.
func NewReader(src io.Reader) *Reader {
	return &Reader{
		src:   src,
		chunk: make([]byte, 256),
		line:  make([]byte, 0, maxLineLength),
	}
}

// Poll pulls one unit of input from the source and applies every sentence
// completed by it. It returns the number of sentences that updated the
// state. Read errors, io.EOF included, are returned after the bytes that
// came with them have been consumed.
func (r *Reader) Poll() (int, error) {
	n, err := r.src.Read(r.chunk)
	applied := r.Feed(r.chunk[:n])
	return applied, err
}

// Feed consumes raw bytes as if they had been read from the source.
func (r *Reader) Feed(p []byte) int {
	applied := 0
	for _, c := range p {
		switch c {
		case '\n':
			if r.Apply(string(bytes.TrimSpace(r.line))) {
				applied++
			}
			r.line = r.line[:0]
		case '$':
			// start of sentence: drop any unterminated garbage
			r.line = append(r.line[:0], c)
		default:
			if len(r.line) >= maxLineLength {
				r.line = r.line[:0]
				continue
			}
			r.line = append(r.line, c)
		}
	}
	return applied
}

// Apply decodes one sentence and folds it into the state. Malformed or
// checksum-invalid sentences, and sentence types that carry no fix data,
// leave the state untouched.
func (r *Reader) Apply(line string) bool {
	if line == "" || line[0] != '$' {
		return false
	}
	sentence, err := nmea.Parse(line)
	if err != nil {
		return false
	}

	next := r.state
	switch sentence.DataType() {
	case nmea.TypeRMC:
		m := sentence.(nmea.RMC)
		applyTime(&next, m.Time)
		if m.Date.Valid {
			next.Day = m.Date.DD
			next.Month = m.Date.MM
			next.Year = m.Date.YY
		}
		// RMC: time, status, lat, N/S, lon, E/W, speed, course, date, ...
		if present(m.Fields, 2, 3, 4, 5) {
			applyPosition(&next, m.Latitude, m.Longitude)
		}
		if present(m.Fields, 6) {
			next.SpeedKnots = m.Speed
		}
		if present(m.Fields, 7) {
			next.CourseDeg = m.Course
		}
		next.HasFix = m.Validity == nmea.ValidRMC

	case nmea.TypeGGA:
		m := sentence.(nmea.GGA)
		applyTime(&next, m.Time)
		// GGA: time, lat, N/S, lon, E/W, quality, sats, hdop, altitude, ...
		if present(m.Fields, 1, 2, 3, 4) {
			applyPosition(&next, m.Latitude, m.Longitude)
		}
		if present(m.Fields, 8) {
			next.AltitudeM = m.Altitude
		}
		q, err := strconv.Atoi(m.FixQuality)
		if err != nil {
			return false
		}
		next.FixQuality = q
		next.HasFix = q > 0

	default:
		// GSA, GSV and friends carry nothing we log
		return false
	}

	r.state = next
	return true
}

// State returns a copy of the latest FixState.
func (r *Reader) State() FixState {
	return r.state
}

// present reports whether every listed field is non-empty. A receiver
// without a fix sends empty fields, which must not overwrite the last
// known values.
func present(fields []string, idx ...int) bool {
	for _, i := range idx {
		if i >= len(fields) || fields[i] == "" {
			return false
		}
	}
	return true
}

func applyTime(s *FixState, t nmea.Time) {
	if !t.Valid {
		return
	}
	s.Hour = t.Hour
	s.Minute = t.Minute
	s.Second = t.Second
	s.Millisecond = t.Millisecond
}

func applyPosition(s *FixState, lat, lon float64) {
	s.Latitude = lat
	s.LatHemi = North
	if lat < 0 {
		s.LatHemi = South
	}
	s.Longitude = lon
	s.LonHemi = East
	if lon < 0 {
		s.LonHemi = West
	}
}
