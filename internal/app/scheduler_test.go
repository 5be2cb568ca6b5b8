// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/gps_drifter/internal/datalog"
	"github.com/relabs-tech/gps_drifter/internal/gps"
)

func nmeaLine(payload string) string {
	ck := byte(0)
	for i := 0; i < len(payload); i++ {
		ck ^= payload[i]
	}
	return fmt.Sprintf("$%s*%02X\r\n", payload, ck)
}

// 37.1234 N, 122.5678 W, 10 m, 0.5 kn, 180 deg on 2023-06-15
var fixSentences = nmeaLine("GPRMC,140509.500,A,3707.404,N,12234.068,W,0.5,180.0,150623,003.1,W") +
	nmeaLine("GPGGA,140509.500,3707.404,N,12234.068,W,1,08,0.9,10.0,M,0.0,M,,")

type fakeClock struct {
	now uint32
}

func (c *fakeClock) Millis() uint32 { return c.now }

// scriptSource hands out one chunk per Read, then reports no data.
type scriptSource struct {
	chunks []string
	err    error
}

func (s *scriptSource) Read(p []byte) (int, error) {
	if len(s.chunks) == 0 {
		return 0, s.err
	}
	n := copy(p, s.chunks[0])
	s.chunks[0] = s.chunks[0][n:]
	if s.chunks[0] == "" {
		s.chunks = s.chunks[1:]
	}
	return n, nil
}

type fakeAppender struct {
	lines []string
	fail  int
}

func (f *fakeAppender) Append(_ gps.FixState, line string) error {
	if f.fail > 0 {
		f.fail--
		return datalog.ErrStorageUnavailable
	}
	f.lines = append(f.lines, line)
	return nil
}

type fakeReporter struct {
	times, locations int
}

func (f *fakeReporter) ReportTime(gps.FixState)     { f.times++ }
func (f *fakeReporter) ReportLocation(gps.FixState) { f.locations++ }

type fakeIndicator struct {
	toggles int
}

func (f *fakeIndicator) Toggle() error {
	f.toggles++
	return nil
}

type fakePublisher struct {
	records []string
}

func (f *fakePublisher) Publish(record string) bool {
	f.records = append(f.records, record)
	return true
}

type harness struct {
	clock     *fakeClock
	appender  *fakeAppender
	reporter  *fakeReporter
	indicator *fakeIndicator
	publisher *fakePublisher
	sched     *Scheduler
}

func newHarness(src io.Reader, start uint32, withPublisher bool) *harness {
	h := &harness{
		clock:     &fakeClock{now: start},
		appender:  &fakeAppender{},
		reporter:  &fakeReporter{},
		indicator: &fakeIndicator{},
	}
	cfg := SchedulerConfig{
		Reader:          gps.NewReader(src),
		Clock:           h.clock,
		Log:             h.appender,
		Reporter:        h.reporter,
		Indicator:       h.indicator,
		SampleInterval:  time.Second,
		PublishInterval: 5 * time.Second,
	}
	if withPublisher {
		h.publisher = &fakePublisher{}
		cfg.Publisher = h.publisher
	}
	h.sched = NewScheduler(cfg)
	return h
}

// run advances the clock by step before each of n loop iterations.
func (h *harness) run(t *testing.T, n int, step uint32) {
	t.Helper()
	for i := 0; i < n; i++ {
		h.clock.now += step
		require.NoError(t, h.sched.Step())
	}
}

func TestScheduler_TicksOncePerSecondWithoutFix(t *testing.T) {
	h := newHarness(&scriptSource{}, 0, false)
	h.run(t, 100, 100)

	assert.Len(t, h.appender.lines, 10)
	assert.Equal(t, 10, h.reporter.times)
	assert.Equal(t, 0, h.reporter.locations)
	assert.Equal(t, 0, h.indicator.toggles)
	assert.Equal(t, "0/0/200,0:00:00.000,1,0.0000,,0.0000,,0.00,0.00,0.00", h.appender.lines[0])
	assert.Equal(t, "0/0/200,0:00:00.000,10,0.0000,,0.0000,,0.00,0.00,0.00", h.appender.lines[9])
}

func TestScheduler_FixTogglesLEDAndReportsLocation(t *testing.T) {
	h := newHarness(&scriptSource{chunks: []string{fixSentences}}, 41000, false)
	h.run(t, 30, 100)

	require.Len(t, h.appender.lines, 3)
	assert.Equal(t, "6/15/2023,14:05:09.500,42,37.1234,N,-122.5678,W,10.00,0.50,180.00", h.appender.lines[0])
	assert.Equal(t, 3, h.reporter.times)
	assert.Equal(t, 3, h.reporter.locations)
	assert.Equal(t, 3, h.indicator.toggles)
}

func TestScheduler_LostFixLogsLastKnownPosition(t *testing.T) {
	lost := nmeaLine("GPRMC,140510.000,V,,,,,,,150623,,,N") +
		nmeaLine("GPGGA,140510.000,,,,,0,00,99.99,,,,,,")
	h := newHarness(&scriptSource{chunks: []string{fixSentences, lost}}, 41000, false)
	h.run(t, 10, 100)

	require.Len(t, h.appender.lines, 1)
	assert.Equal(t, "6/15/2023,14:05:10.000,42,37.1234,N,-122.5678,W,10.00,0.50,180.00", h.appender.lines[0])
	assert.Equal(t, 0, h.reporter.locations)
	assert.Equal(t, 0, h.indicator.toggles)
}

func TestScheduler_WraparoundNeitherSkipsNorDoubles(t *testing.T) {
	start := uint32(math.MaxUint32 - 450)
	h := newHarness(&scriptSource{}, start, false)
	h.run(t, 50, 100)

	assert.Len(t, h.appender.lines, 5)
}

func TestScheduler_PublishesLastRecordOnItsOwnCadence(t *testing.T) {
	h := newHarness(&scriptSource{chunks: []string{fixSentences}}, 0, true)
	h.run(t, 100, 100)

	require.Len(t, h.publisher.records, 2)
	assert.Len(t, h.appender.lines, 10)
	assert.Equal(t, h.appender.lines[4], h.publisher.records[0])
	assert.Equal(t, h.appender.lines[9], h.publisher.records[1])
	assert.Equal(t, h.publisher.records[1], h.sched.LastRecord())
}

func TestScheduler_StorageFailureSkipsOnlyThatTick(t *testing.T) {
	h := newHarness(&scriptSource{}, 0, false)
	h.appender.fail = 1
	h.run(t, 30, 100)

	assert.Len(t, h.appender.lines, 2)
	assert.Equal(t, 3, h.reporter.times)
}

func TestScheduler_BadSentencesAreDropped(t *testing.T) {
	good := fixSentences
	bad := "$GPRMC,140510.000,A,0000.000,N,00000.000,E,9.9,9.9,010199,,*00\r\n"
	h := newHarness(&scriptSource{chunks: []string{good, bad}}, 41000, false)
	h.run(t, 10, 100)

	require.Len(t, h.appender.lines, 1)
	assert.Contains(t, h.appender.lines[0], "37.1234,N,-122.5678,W")
}

func TestScheduler_ReadErrorIsReturned(t *testing.T) {
	boom := errors.New("device gone")
	h := newHarness(&scriptSource{err: boom}, 0, false)
	err := h.sched.Step()
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestScheduler_RunStopsAtEndOfReplay(t *testing.T) {
	src := gps.NewReplay(strings.NewReader(fixSentences), 0)
	h := newHarness(src, 0, false)
	require.NoError(t, h.sched.Run(context.Background()))
	assert.True(t, h.sched.cfg.Reader.State().HasFix)
}

func TestScheduler_RunStopsOnCancel(t *testing.T) {
	h := newHarness(&scriptSource{}, 0, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, h.sched.Run(ctx))
}

func TestScheduler_WritesThroughRotator(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/sd", 0755))
	require.NoError(t, afero.WriteFile(fs, "/sd/23061500.csv", nil, 0644))
	storage, err := datalog.NewDirStorage(fs, "/sd")
	require.NoError(t, err)

	clk := &fakeClock{now: 41000}
	sched := NewScheduler(SchedulerConfig{
		Reader:          gps.NewReader(&scriptSource{chunks: []string{fixSentences}}),
		Clock:           clk,
		Log:             datalog.NewRotator(storage, "csv", 99),
		Reporter:        &fakeReporter{},
		SampleInterval:  time.Second,
		PublishInterval: 5 * time.Minute,
	})
	for i := 0; i < 20; i++ {
		clk.now += 100
		require.NoError(t, sched.Step())
	}

	got, err := afero.ReadFile(fs, "/sd/23061501.csv")
	require.NoError(t, err)
	assert.Equal(t,
		"6/15/2023,14:05:09.500,42,37.1234,N,-122.5678,W,10.00,0.50,180.00\n"+
			"6/15/2023,14:05:09.500,43,37.1234,N,-122.5678,W,10.00,0.50,180.00\n",
		string(got))
}
