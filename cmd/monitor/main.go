// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/gps_drifter/internal/app"
	"github.com/relabs-tech/gps_drifter/internal/config"
)

func main() {
	configPath := flag.String("config", "./drifter.yaml", "path to configuration file")
	flag.Parse()

	log.Println("starting gps-drifter monitor (MQTT subscriber)")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunMonitor(cfg.Publish); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
