// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package publish pushes the latest record to a remote endpoint.
package publish

import (
	"log"
	"time"
)

// Event is one publish request.
type Event struct {
	Name    string
	Data    string
	TTL     time.Duration // also bounds the wait for an acknowledgment
	Private bool
	Ack     bool
}

// Session is a network connection able to deliver Events.
type Session interface {
	IsConnected() bool
	Connect() error
	Publish(ev Event) error
}

// Options describe how records are wrapped into Events.
type Options struct {
	Event   string
	TTL     time.Duration
	Private bool
	Ack     bool
}

// Publisher delivers records best-effort: a missing session gets one
// connection attempt, and any failure only costs the current cycle.
type Publisher struct {
	session Session
	opts    Options
}

func NewPublisher(session Session, opts Options) *Publisher {
	return &Publisher{session: session, opts: opts}
}

// Publish sends record and reports whether it was delivered (and, for
// acknowledged events, acknowledged).
func (p *Publisher) Publish(record string) bool {
	if !p.session.IsConnected() {
		log.Println("publish: not connected, trying to connect")
		if err := p.session.Connect(); err != nil {
			log.Printf("publish: connect error: %v", err)
		}
	}
	if !p.session.IsConnected() {
		log.Println("publish: not connected; proceeding without publishing")
		return false
	}

	log.Printf("publish: publishing %s", p.opts.Event)
	err := p.session.Publish(Event{
		Name:    p.opts.Event,
		Data:    record,
		TTL:     p.opts.TTL,
		Private: p.opts.Private,
		Ack:     p.opts.Ack,
	})
	if err != nil {
		log.Printf("publish: publish error: %v", err)
		return false
	}
	log.Println("publish: publish succeeded")
	return true
}
