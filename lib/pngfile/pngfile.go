// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pngfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bureau-foundation/pngstash/lib/png"
)

// defaultMode is used for new output files.
const defaultMode fs.FileMode = 0o644

// Read loads and parses the PNG at path.
func Read(path string) (*png.PNG, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	container, err := png.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return container, nil
}

// Edit locks source, parses it, passes it to modify and, if modify
// returns nil, writes the result to destination. An empty destination
// means source itself. When modify fails nothing is written and its
// error is returned unchanged.
func Edit(ctx context.Context, source, destination string, modify func(*png.PNG) error) error {
	lock, err := Acquire(ctx, source)
	if err != nil {
		return err
	}
	defer lock.Release()

	container, err := Read(source)
	if err != nil {
		return err
	}
	if err := modify(container); err != nil {
		return err
	}

	if destination == "" {
		destination = source
	}
	return WriteAtomic(destination, container.Bytes())
}

// WriteAtomic replaces path with data. An existing file keeps its
// permission bits; a new one gets 0644.
func WriteAtomic(path string, data []byte) error {
	mode := defaultMode
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return writeAtomic(path, data, mode)
}

// WriteAtomicMode is WriteAtomic with explicit permissions, for key
// files that must not be group or world readable.
func WriteAtomicMode(path string, data []byte, mode fs.FileMode) error {
	return writeAtomic(path, data, mode)
}

func writeAtomic(path string, data []byte, mode fs.FileMode) error {
	directory := filepath.Dir(path)
	file, err := os.CreateTemp(directory, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	temporaryPath := file.Name()

	// Write, chmod, sync, close, in that order. Any failure removes the
	// temporary file.
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing temporary file: %w", err)
	}
	if err := file.Chmod(mode); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("setting permissions on temporary file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncing temporary file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary file: %w", err)
	}

	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming into place: %w", err)
	}

	parent, err := os.Open(directory)
	if err == nil {
		parent.Sync()
		parent.Close()
	}
	return nil
}
