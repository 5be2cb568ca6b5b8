// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/relabs-tech/gps_drifter/internal/clock"
	"github.com/relabs-tech/gps_drifter/internal/gps"
	"github.com/relabs-tech/gps_drifter/internal/record"
	"github.com/relabs-tech/gps_drifter/internal/report"
)

// Appender persists one formatted record. *datalog.Rotator implements it.
type Appender interface {
	Append(s gps.FixState, line string) error
}

// Indicator is the liveness LED.
type Indicator interface {
	Toggle() error
}

// Publisher pushes the latest record. *publish.Publisher implements it.
type Publisher interface {
	Publish(record string) bool
}

// SchedulerConfig wires the scheduler's collaborators. Indicator and
// Publisher are optional; a nil Publisher disables publishing.
type SchedulerConfig struct {
	Reader    *gps.Reader
	Clock     clock.Clock
	Log       Appender
	Reporter  report.Reporter
	Indicator Indicator
	Publisher Publisher

	SampleInterval  time.Duration
	PublishInterval time.Duration
}

// Scheduler is the single-threaded acquisition loop. It owns the fix state
// (through its Reader), both interval timers and the last record.
type Scheduler struct {
	cfg SchedulerConfig

	sample     *clock.Interval
	publish    *clock.Interval
	lastRecord string
}

func NewScheduler(cfg SchedulerConfig) *Scheduler {
	now := cfg.Clock.Millis()
	return &Scheduler{
		cfg:     cfg,
		sample:  clock.NewInterval(cfg.SampleInterval, now),
		publish: clock.NewInterval(cfg.PublishInterval, now),
	}
}

// Run steps the loop until ctx is cancelled or the sentence source ends.
// A replay source reaching io.EOF is a normal stop.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			log.Println("logger: stopping")
			return nil
		default:
		}

		if err := s.Step(); err != nil {
			if errors.Is(err, io.EOF) {
				log.Println("logger: sentence source exhausted")
				return nil
			}
			return err
		}
	}
}

// Step runs one loop iteration: poll the receiver, then the sampling tick,
// then the publish tick. A source read error is returned after the timers
// have been serviced.
func (s *Scheduler) Step() error {
	_, readErr := s.cfg.Reader.Poll()

	now := s.cfg.Clock.Millis()
	if s.sample.Due(now) {
		s.tick(now)
	}

	if s.cfg.Publisher != nil && s.publish.Due(now) && s.lastRecord != "" {
		s.cfg.Publisher.Publish(s.lastRecord)
	}

	if readErr != nil && !errors.Is(readErr, io.EOF) {
		return fmt.Errorf("gps read: %w", readErr)
	}
	return readErr
}

func (s *Scheduler) tick(now uint32) {
	fix := s.cfg.Reader.State()

	s.cfg.Reporter.ReportTime(fix)
	if fix.HasFix {
		if s.cfg.Indicator != nil {
			if err := s.cfg.Indicator.Toggle(); err != nil {
				log.Printf("indicator: %v", err)
			}
		}
		s.cfg.Reporter.ReportLocation(fix)
	}

	// written with or without a fix, carrying the last known values
	s.lastRecord = record.Format(fix, now/1000)
	if err := s.cfg.Log.Append(fix, s.lastRecord); err != nil {
		log.Printf("logger: record dropped: %v", err)
	}
}

// LastRecord returns the most recently formatted record.
func (s *Scheduler) LastRecord() string {
	return s.lastRecord
}
