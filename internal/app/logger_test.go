// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/gps_drifter/internal/config"
	"github.com/relabs-tech/gps_drifter/internal/datalog"
)

func replayConfig(t *testing.T, track string) config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "track.nmea")
	require.NoError(t, os.WriteFile(path, []byte(track), 0o644))

	cfg, err := config.Parse([]byte("storage:\n  dir: /sd\n"))
	require.NoError(t, err)
	cfg.GPS.Replay = path
	cfg.GPS.ReplayGap = 60 * time.Millisecond
	cfg.Sampling.Interval = 100 * time.Millisecond
	return cfg
}

func TestRunLogger_ReplayWritesRecords(t *testing.T) {
	cfg := replayConfig(t, fixSentences+fixSentences)
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/sd", 0755))

	require.NoError(t, runLogger(context.Background(), cfg, fs))

	got, err := afero.ReadFile(fs, "/sd/23061500.csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(got), "\n"), "\n")
	require.NotEmpty(t, lines)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "6/15/2023,14:05:09.500,"), line)
	}
	last := lines[len(lines)-1]
	assert.True(t, strings.HasSuffix(last, ",37.1234,N,-122.5678,W,10.00,0.50,180.00"), last)
}

func TestRunLogger_StorageMissingIsStartupFailure(t *testing.T) {
	cfg := replayConfig(t, fixSentences)
	err := runLogger(context.Background(), cfg, afero.NewMemMapFs())
	require.Error(t, err)
	assert.True(t, errors.Is(err, datalog.ErrStorageUnavailable))
}

func TestRunLogger_ReplayMissing(t *testing.T) {
	cfg := replayConfig(t, "")
	cfg.GPS.Replay = filepath.Join(t.TempDir(), "missing.nmea")
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/sd", 0755))

	assert.Error(t, runLogger(context.Background(), cfg, fs))
}

func TestNewSession(t *testing.T) {
	s, err := newSession(config.PublishConfig{Backend: config.BackendWebSocket, URL: "ws://localhost:1/x", ConnectTimeout: time.Second})
	require.NoError(t, err)
	assert.False(t, s.IsConnected())

	s, err = newSession(config.PublishConfig{Backend: config.BackendMQTT, Broker: "tcp://localhost:1883", ClientID: "t", ConnectTimeout: time.Second})
	require.NoError(t, err)
	assert.False(t, s.IsConnected())

	_, err = newSession(config.PublishConfig{Backend: "smoke"})
	assert.Error(t, err)
}
