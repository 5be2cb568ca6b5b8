// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package datalog

import (
	"errors"
	"fmt"
	"log"

	"github.com/relabs-tech/gps_drifter/internal/gps"
)

// ErrSequenceExhausted means every sequence number for the day is taken.
var ErrSequenceExhausted = errors.New("no free file sequence number")

// Rotator picks the output file once per process and appends records to it.
//
// The name is derived from the receiver date on the first append and kept
// for the rest of the run, even if the date changes afterwards.
type Rotator struct {
	storage     Storage
	ext         string
	maxSequence int

	filename    string
	initialized bool
}

// NewRotator creates a Rotator writing "YYMMDDNN.<ext>" files, probing
// sequence numbers 0 through maxSequence.
func NewRotator(storage Storage, ext string, maxSequence int) *Rotator {
	return &Rotator{storage: storage, ext: ext, maxSequence: maxSequence}
}

// Filename returns the cached name, resolving it from s on first use.
func (r *Rotator) Filename(s gps.FixState) (string, error) {
	if r.initialized {
		return r.filename, nil
	}

	for seq := 0; seq <= r.maxSequence; seq++ {
		name := fileName(s, seq, r.ext)
		exists, err := r.storage.Exists(name)
		if err != nil {
			return "", fmt.Errorf("datalog: probe %s: %w", name, err)
		}
		if !exists {
			r.filename = name
			r.initialized = true
			log.Printf("datalog: logging to %s", name)
			return name, nil
		}
	}
	return "", fmt.Errorf("datalog: %02d%02d%02d: %w", s.Year, s.Month, s.Day, ErrSequenceExhausted)
}

// Append writes line plus a newline to the current file. The file is opened
// and closed within the call.
func (r *Rotator) Append(s gps.FixState, line string) (err error) {
	name, err := r.Filename(s)
	if err != nil {
		return err
	}

	f, err := r.storage.OpenAppend(name)
	if err != nil {
		return fmt.Errorf("datalog: open %s: %w", name, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("datalog: close %s: %w", name, cerr)
		}
	}()

	if _, err := f.Write([]byte(line + "\n")); err != nil {
		return fmt.Errorf("datalog: write %s: %w", name, err)
	}
	return nil
}

func fileName(s gps.FixState, seq int, ext string) string {
	return fmt.Sprintf("%02d%02d%02d%02d.%s", s.Year, s.Month, s.Day, seq, ext)
}
