// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package publish

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

// wireEvent is the JSON envelope sent to a WebSocket endpoint.
type wireEvent struct {
	Event   string `json:"event"`
	Data    string `json:"data"`
	TTL     int    `json:"ttl"` // seconds
	Private bool   `json:"private"`
	Ack     bool   `json:"ack"`
}

// wireAck is the reply expected for acknowledged events.
type wireAck struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// WebSocketSession publishes events over a single WebSocket connection.
type WebSocketSession struct {
	url            string
	dialer         *websocket.Dialer
	connectTimeout time.Duration
	conn           *websocket.Conn
}

func NewWebSocketSession(url string, connectTimeout time.Duration) *WebSocketSession {
	return &WebSocketSession{
		url:            url,
		dialer:         &websocket.Dialer{HandshakeTimeout: connectTimeout},
		connectTimeout: connectTimeout,
	}
}

func (s *WebSocketSession) IsConnected() bool {
	return s.conn != nil
}

func (s *WebSocketSession) Connect() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.connectTimeout)
	defer cancel()

	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("websocket dial %s: %w", s.url, err)
	}
	s.conn = conn
	log.Printf("publish: connected to %s", s.url)
	return nil
}

// Publish writes ev and, for acknowledged events, waits up to ev.TTL for
// the reply. Any I/O error drops the connection so the next cycle redials.
func (s *WebSocketSession) Publish(ev Event) error {
	if s.conn == nil {
		return errors.New("websocket: not connected")
	}

	deadline := time.Now().Add(ev.TTL)
	msg := wireEvent{
		Event:   ev.Name,
		Data:    ev.Data,
		TTL:     int(ev.TTL / time.Second),
		Private: ev.Private,
		Ack:     ev.Ack,
	}
	if err := s.conn.SetWriteDeadline(deadline); err != nil {
		return s.drop(err)
	}
	if err := s.conn.WriteJSON(msg); err != nil {
		return s.drop(err)
	}
	if !ev.Ack {
		return nil
	}

	if err := s.conn.SetReadDeadline(deadline); err != nil {
		return s.drop(err)
	}
	var reply wireAck
	if err := s.conn.ReadJSON(&reply); err != nil {
		return s.drop(err)
	}
	if !reply.OK {
		return fmt.Errorf("websocket: %s rejected: %s", ev.Name, reply.Error)
	}
	return nil
}

func (s *WebSocketSession) drop(err error) error {
	s.conn.Close()
	s.conn = nil
	return fmt.Errorf("websocket %s: %w", s.url, err)
}

func (s *WebSocketSession) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}
