// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package datalog

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
)

// ErrStorageUnavailable is returned when the storage root cannot be used.
var ErrStorageUnavailable = errors.New("storage unavailable")

// Storage is the capability set the rotation logic needs from the
// removable medium.
type Storage interface {
	Exists(name string) (bool, error)
	OpenAppend(name string) (io.WriteCloser, error)
}

// DirStorage keeps log files in one directory, usually the mount point of
// the SD card.
type DirStorage struct {
	fs afero.Fs
}

// NewDirStorage checks that dir exists on fs and returns a Storage rooted
// there. A missing or non-directory root is a startup failure.
func NewDirStorage(fs afero.Fs, dir string) (*DirStorage, error) {
	ok, err := afero.DirExists(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStorageUnavailable, dir, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrStorageUnavailable, dir)
	}
	return &DirStorage{fs: afero.NewBasePathFs(fs, dir)}, nil
}

func (d *DirStorage) Exists(name string) (bool, error) {
	return afero.Exists(d.fs, name)
}

func (d *DirStorage) OpenAppend(name string) (io.WriteCloser, error) {
	f, err := d.fs.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return f, nil
}
