// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/gps_drifter/internal/config"
)

// RunMonitor subscribes to the logger's publish topic on the configured MQTT
// broker and prints every record it receives until interrupted.
func RunMonitor(cfg config.PublishConfig) error {
	if cfg.Broker == "" {
		return fmt.Errorf("monitor: publish.broker is required")
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID + "-monitor")

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("monitor: connected to MQTT broker at %s", cfg.Broker)

	token := client.Subscribe(cfg.Event, 1, func(_ mqtt.Client, msg mqtt.Message) {
		printRecord(os.Stdout, time.Now(), msg.Topic(), msg.Payload())
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("monitor: subscribed to %s", cfg.Event)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("monitor: shutting down")
	client.Disconnect(250)
	return nil
}

// printRecord writes one received record with its arrival time. Records
// that do not have the logger's ten fields are flagged.
func printRecord(w io.Writer, at time.Time, topic string, payload []byte) {
	rec := strings.TrimSpace(string(payload))
	tag := "REC "
	if len(strings.Split(rec, ",")) != 10 {
		tag = "BAD "
	}
	fmt.Fprintf(w, "[%s] %s %s %s\n", tag, at.UTC().Format(time.RFC3339), topic, rec)
}
