// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

// replayReader plays back a recorded NMEA stream one line per Read, waiting
// gap before each line so timers see roughly receiver pacing.
type replayReader struct {
	br      *bufio.Reader
	closer  io.Closer
	gap     time.Duration
	pending []byte
}

// OpenReplay opens a recorded NMEA log as a sentence source. The source
// returns io.EOF once the file is exhausted.
func OpenReplay(path string, gap time.Duration) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gps: open replay: %w", err)
	}
	log.Printf("gps: replaying %s (gap %s)", path, gap)
	return NewReplay(f, gap), nil
}

// NewReplay plays back r. If r is an io.Closer it is closed by Close.
func NewReplay(r io.Reader, gap time.Duration) io.ReadCloser {
	rr := &replayReader{br: bufio.NewReader(r), gap: gap}
	if c, ok := r.(io.Closer); ok {
		rr.closer = c
	}
	return rr
}

func (r *replayReader) Read(p []byte) (int, error) {
	if len(r.pending) == 0 {
		line, err := r.br.ReadBytes('\n')
		if len(line) == 0 {
			return 0, err
		}
		if r.gap > 0 {
			time.Sleep(r.gap)
		}
		r.pending = line
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

func (r *replayReader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
