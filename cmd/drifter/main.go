// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/relabs-tech/gps_drifter/internal/app"
	"github.com/relabs-tech/gps_drifter/internal/config"
)

func main() {
	configPath := flag.String("config", "./drifter.yaml", "path to configuration file")
	flag.Parse()

	log.Println("starting gps-drifter logger (NMEA → SD card)")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunLogger(ctx, cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
