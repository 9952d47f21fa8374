// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pngfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// lockPollInterval is how often a contended lock is retried.
const lockPollInterval = 10 * time.Millisecond

// Lock is an exclusive advisory lock on one file.
type Lock struct {
	file *os.File
}

// Acquire takes an exclusive flock on path, waiting until it is free
// or ctx is done. Because writes replace the file by rename, a lock
// taken on an inode that has since been replaced is dropped and taken
// again on the current file.
func Acquire(ctx context.Context, path string) (*Lock, error) {
	for {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		if err := flockContext(ctx, file); err != nil {
			file.Close()
			return nil, fmt.Errorf("locking %s: %w", path, err)
		}

		current, err := isCurrent(file, path)
		if err != nil {
			file.Close()
			return nil, err
		}
		if current {
			return &Lock{file: file}, nil
		}
		// Closing the descriptor releases the flock.
		file.Close()
	}
}

// Release drops the lock.
func (l *Lock) Release() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func flockContext(ctx context.Context, file *os.File) error {
	ticker := time.NewTicker(lockPollInterval)
	defer ticker.Stop()
	for {
		err := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return nil
		}
		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EINTR) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// isCurrent reports whether file is still the inode at path.
func isCurrent(file *os.File, path string) (bool, error) {
	held, err := file.Stat()
	if err != nil {
		return false, err
	}
	onDisk, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return os.SameFile(held, onDisk), nil
}
