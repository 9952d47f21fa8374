// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// maxKeyFileSize bounds key files. An age identity line is 74 bytes; a
// file with many identities and comments is still far below this.
const maxKeyFileSize = 64 << 10

// ReadKeyFile reads a key file into a Buffer. A path of "-" reads
// standard input. Lines starting with '#' and blank lines are dropped,
// and each remaining line is trimmed, so both age identity files and
// pngstash symmetric key files load the same way. The remaining lines
// are joined with '\n'.
func ReadKeyFile(path string) (*Buffer, error) {
	var source io.Reader = os.Stdin
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		source = file
	}

	raw, err := io.ReadAll(io.LimitReader(source, maxKeyFileSize+1))
	if err != nil {
		Zero(raw)
		return nil, fmt.Errorf("reading key file %s: %w", path, err)
	}
	defer Zero(raw)
	if len(raw) > maxKeyFileSize {
		return nil, fmt.Errorf("key file %s is larger than %d bytes", path, maxKeyFileSize)
	}

	keys := make([]byte, 0, len(raw))
	for line := range bytes.Lines(raw) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if len(keys) > 0 {
			keys = append(keys, '\n')
		}
		keys = append(keys, line...)
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("key file %s contains no keys", path)
	}
	return NewFromBytes(keys)
}
