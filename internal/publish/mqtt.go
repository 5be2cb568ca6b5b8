// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package publish

import (
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTSession publishes events as MQTT messages on topic Event.Name.
//
// Acknowledged events use QoS 1. Messages are never retained, so a
// subscriber only sees records published while it is connected.
type MQTTSession struct {
	client         mqtt.Client
	broker         string
	connectTimeout time.Duration
}

func NewMQTTSession(broker, clientID string, connectTimeout time.Duration) *MQTTSession {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetConnectTimeout(connectTimeout)

	return &MQTTSession{
		client:         mqtt.NewClient(opts),
		broker:         broker,
		connectTimeout: connectTimeout,
	}
}

func (s *MQTTSession) IsConnected() bool {
	return s.client.IsConnected()
}

func (s *MQTTSession) Connect() error {
	token := s.client.Connect()
	if !token.WaitTimeout(s.connectTimeout) {
		return fmt.Errorf("mqtt connect to %s: timed out after %s", s.broker, s.connectTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect to %s: %w", s.broker, err)
	}
	log.Printf("publish: connected to MQTT broker at %s", s.broker)
	return nil
}

func (s *MQTTSession) Publish(ev Event) error {
	var qos byte
	if ev.Ack {
		qos = 1
	}

	token := s.client.Publish(ev.Name, qos, false, ev.Data)
	if !token.WaitTimeout(ev.TTL) {
		return fmt.Errorf("mqtt publish %s: no acknowledgment within %s", ev.Name, ev.TTL)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt publish %s: %w", ev.Name, err)
	}
	return nil
}

func (s *MQTTSession) Close() error {
	if s.client.IsConnected() {
		s.client.Disconnect(250)
	}
	return nil
}
