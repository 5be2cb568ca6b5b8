// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/spf13/afero"

	"github.com/relabs-tech/gps_drifter/internal/clock"
	"github.com/relabs-tech/gps_drifter/internal/config"
	"github.com/relabs-tech/gps_drifter/internal/datalog"
	"github.com/relabs-tech/gps_drifter/internal/display"
	"github.com/relabs-tech/gps_drifter/internal/gps"
	"github.com/relabs-tech/gps_drifter/internal/indicator"
	"github.com/relabs-tech/gps_drifter/internal/publish"
	"github.com/relabs-tech/gps_drifter/internal/report"
)

// session is a publish.Session the logger can shut down.
type session interface {
	publish.Session
	io.Closer
}

// RunLogger brings up storage, the receiver and the optional LED, display
// and publisher, then runs the acquisition loop until ctx is cancelled.
// Any bring-up failure is returned before the loop starts.
func RunLogger(ctx context.Context, cfg config.Config) error {
	return runLogger(ctx, cfg, afero.NewOsFs())
}

func runLogger(ctx context.Context, cfg config.Config, fs afero.Fs) error {
	// ---- 1) Storage ----
	storage, err := datalog.NewDirStorage(fs, cfg.Storage.Dir)
	if err != nil {
		return err
	}
	rotator := datalog.NewRotator(storage, cfg.Storage.Extension, cfg.Storage.MaxSequence)
	log.Printf("logger: storage ready at %s", cfg.Storage.Dir)

	// ---- 2) Receiver ----
	src, err := openSource(cfg.GPS)
	if err != nil {
		return err
	}
	defer src.Close()

	// ---- 3) LED and display ----
	var ind Indicator
	if cfg.Indicator.Pin != "" {
		led, err := indicator.Open(cfg.Indicator.Pin)
		if err != nil {
			return err
		}
		ind = led
	}

	reporter := report.Multi{report.Log{}}
	if cfg.Display.Enable {
		screen, err := display.Open(cfg.Display.Bus)
		if err != nil {
			return err
		}
		defer screen.Close()
		reporter = append(reporter, screen)
	}

	// ---- 4) Publisher ----
	var pub Publisher
	if cfg.Publish.Enable {
		sess, err := newSession(cfg.Publish)
		if err != nil {
			return err
		}
		defer sess.Close()

		if err := sess.Connect(); err != nil {
			log.Printf("publish: initial connect failed, will retry at publish time: %v", err)
		}
		pub = publish.NewPublisher(sess, publish.Options{
			Event:   cfg.Publish.Event,
			TTL:     cfg.Publish.TTL,
			Private: *cfg.Publish.Private,
			Ack:     *cfg.Publish.Ack,
		})
		log.Printf("logger: publishing %q every %s via %s", cfg.Publish.Event, cfg.Publish.Interval, cfg.Publish.Backend)
	}

	sched := NewScheduler(SchedulerConfig{
		Reader:          gps.NewReader(src),
		Clock:           clock.NewSystem(),
		Log:             rotator,
		Reporter:        reporter,
		Indicator:       ind,
		Publisher:       pub,
		SampleInterval:  cfg.Sampling.Interval,
		PublishInterval: cfg.Publish.Interval,
	})

	log.Printf("logger: sampling every %s", cfg.Sampling.Interval)
	return sched.Run(ctx)
}

func openSource(c config.GPSConfig) (io.ReadCloser, error) {
	if c.Replay != "" {
		return gps.OpenReplay(c.Replay, c.ReplayGap)
	}
	return gps.OpenSerial(c.Port, c.Baud)
}

func newSession(c config.PublishConfig) (session, error) {
	switch c.Backend {
	case config.BackendMQTT:
		return publish.NewMQTTSession(c.Broker, c.ClientID, c.ConnectTimeout), nil
	case config.BackendWebSocket:
		return publish.NewWebSocketSession(c.URL, c.ConnectTimeout), nil
	default:
		return nil, fmt.Errorf("unknown publish backend %q", c.Backend)
	}
}
