// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package report emits the per-tick diagnostic reports.
package report

import (
	"log"

	"github.com/relabs-tech/gps_drifter/internal/gps"
	"github.com/relabs-tech/gps_drifter/internal/record"
)

// Reporter receives the time report on every tick and the location report
// on ticks with a fix.
type Reporter interface {
	ReportTime(s gps.FixState)
	ReportLocation(s gps.FixState)
}

// Log writes reports to the standard logger.
type Log struct{}

func (Log) ReportTime(s gps.FixState) {
	log.Println(record.TimeReport(s))
}

func (Log) ReportLocation(s gps.FixState) {
	log.Println(record.LocationReport(s))
}

// Multi fans reports out to several reporters in order.
type Multi []Reporter

func (m Multi) ReportTime(s gps.FixState) {
	for _, r := range m {
		r.ReportTime(s)
	}
}

func (m Multi) ReportLocation(s gps.FixState) {
	for _, r := range m {
		r.ReportLocation(s)
	}
}
