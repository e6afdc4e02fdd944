// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file guards a save path against concurrent runs.
package model

import (
	"errors"
	"fmt"
	"os"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another run holds the lock on the save path.
var ErrLocked = errors.New("another run is using this save path")

// lockRun takes an exclusive, non-blocking lock on path. The returned
// function releases it and removes the lock file.
func lockRun(path string) (func() error, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}
	return func() error {
		if err := fl.Unlock(); err != nil {
			return err
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}, nil
}
