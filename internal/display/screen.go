// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package display shows the diagnostic reports on an SSD1306 OLED.
package display

import (
	"fmt"
	"image"
	"log"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/gps_drifter/internal/gps"
)

// Drawer is the part of *ssd1306.Dev the screen uses.
type Drawer interface {
	Bounds() image.Rectangle
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
}

// Screen implements report.Reporter on a 128x64 panel.
type Screen struct {
	dev Drawer
	bus i2c.BusCloser

	state    gps.FixState
	located  bool
	lastDraw []string
}

// Open initializes periph, opens the I2C bus and the panel at its default
// address 0x3C, and shows a splash screen until the first report.
func Open(busName string) (*Screen, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("display: periph host init: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("display: open I2C bus: %w", err)
	}

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("display: init: %w", err)
	}
	log.Printf("display: initialized on I2C bus %q", busName)

	s := New(dev)
	s.bus = bus
	if err := s.draw([]string{"GPS drifter", "Looking for", "sats"}); err != nil {
		log.Printf("display: error showing splash: %v", err)
	}
	return s, nil
}

// New wraps an already initialized panel.
func New(dev Drawer) *Screen {
	return &Screen{dev: dev}
}

func (s *Screen) ReportTime(st gps.FixState) {
	s.state = st
	if !st.HasFix {
		s.located = false
	}
	s.refresh()
}

func (s *Screen) ReportLocation(st gps.FixState) {
	s.state = st
	s.located = true
	s.refresh()
}

func (s *Screen) refresh() {
	if err := s.draw(Lines(s.state, s.located)); err != nil {
		log.Printf("display: update error: %v", err)
	}
}

// Lines is the text shown for st; location lines only appear once a
// location report has been received for the current fix.
func Lines(st gps.FixState, located bool) []string {
	lines := []string{
		fmt.Sprintf("%02d:%02d:%02d %d/%d/%02d", st.Hour, st.Minute, st.Second, st.Month, st.Day, st.Year),
	}
	if !st.HasFix {
		return append(lines, "No fix", "Waiting...")
	}
	lines = append(lines, fmt.Sprintf("Fix Q:%d", st.FixQuality))
	if located {
		lines = append(lines,
			fmt.Sprintf("%.4f%s", st.Latitude, st.LatHemi),
			fmt.Sprintf("%.4f%s", st.Longitude, st.LonHemi),
		)
	}
	return lines
}

func (s *Screen) draw(lines []string) error {
	if equalLines(lines, s.lastDraw) {
		return nil
	}

	img := Render(lines)
	if err := s.dev.Draw(s.dev.Bounds(), img, image.Point{}); err != nil {
		return err
	}
	s.lastDraw = lines
	return nil
}

// Render draws up to four text lines onto a blank 128x64 frame.
func Render(lines []string) *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
	for i, line := range lines {
		if i == 4 {
			break
		}
		drawer.Dot = fixed.P(0, 13*(i+1))
		drawer.DrawString(line)
	}
	return img
}

func (s *Screen) Close() error {
	if s.bus == nil {
		return nil
	}
	return s.bus.Close()
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
