// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"errors"
	"fmt"
	"io"
	"log"

	serial "github.com/jacobsa/go-serial/serial"
)

// pollTimeoutMs bounds how long a single read may block when the receiver is
// silent, so the sampling timer keeps running without a fix.
const pollTimeoutMs = 100

// OpenSerial opens the receiver's serial port for non-blocking polling.
func OpenSerial(port string, baud int) (io.ReadCloser, error) {
	serialOpts := serial.OpenOptions{
		PortName:              port,
		BaudRate:              uint(baud),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       0,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: pollTimeoutMs,
	}

	rwc, err := serial.Open(serialOpts)
	if err != nil {
		return nil, fmt.Errorf("gps: open serial %s: %w", port, err)
	}
	log.Printf("gps: serial port opened on %s at %d baud", port, baud)
	return idleReader{rwc}, nil
}

// idleReader turns the zero-length reads of an expired read timeout, which
// the os package reports as io.EOF, into an empty successful read.
type idleReader struct {
	io.ReadWriteCloser
}

func (r idleReader) Read(p []byte) (int, error) {
	n, err := r.ReadWriteCloser.Read(p)
	if errors.Is(err, io.EOF) {
		return n, nil
	}
	return n, err
}
