// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package indicator drives the liveness LED.
package indicator

import (
	"fmt"
	"log"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// LED is an output pin that flips on every Toggle. It starts high.
type LED struct {
	pin   gpio.PinOut
	level gpio.Level
}

// Open initializes the host drivers and claims the named GPIO pin.
func Open(pinName string) (*LED, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("indicator: periph host init: %w", err)
	}

	pin := gpioreg.ByName(pinName)
	if pin == nil {
		return nil, fmt.Errorf("indicator: pin %q not found", pinName)
	}

	led, err := New(pin)
	if err != nil {
		return nil, err
	}
	log.Printf("indicator: liveness LED on %s", pinName)
	return led, nil
}

// New wraps an already resolved pin.
func New(pin gpio.PinOut) (*LED, error) {
	if err := pin.Out(gpio.High); err != nil {
		return nil, fmt.Errorf("indicator: set %s: %w", pin, err)
	}
	return &LED{pin: pin, level: gpio.High}, nil
}

func (l *LED) Toggle() error {
	next := !l.level
	if err := l.pin.Out(next); err != nil {
		return fmt.Errorf("indicator: set %s: %w", l.pin, err)
	}
	l.level = next
	return nil
}

// Level reports the last level written to the pin.
func (l *LED) Level() gpio.Level {
	return l.level
}
