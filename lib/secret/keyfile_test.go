// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadKeyFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "bare key",
			content: "AGE-SECRET-KEY-1AAAA",
			want:    "AGE-SECRET-KEY-1AAAA",
		},
		{
			name:    "age-keygen layout",
			content: "# created: 2026-01-01T00:00:00Z\n# public key: age1xyz\nAGE-SECRET-KEY-1AAAA\n",
			want:    "AGE-SECRET-KEY-1AAAA",
		},
		{
			name:    "several identities",
			content: "AGE-SECRET-KEY-1AAAA\n\n  AGE-SECRET-KEY-1BBBB  \n",
			want:    "AGE-SECRET-KEY-1AAAA\nAGE-SECRET-KEY-1BBBB",
		},
		{
			name:    "symmetric hex",
			content: "# pngstash symmetric key\n" + strings.Repeat("ab", 32) + "\n",
			want:    strings.Repeat("ab", 32),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "key")
			if err := os.WriteFile(path, []byte(test.content), 0600); err != nil {
				t.Fatalf("writing key file: %v", err)
			}
			buffer, err := ReadKeyFile(path)
			if err != nil {
				t.Fatalf("ReadKeyFile: %v", err)
			}
			defer buffer.Close()
			if buffer.String() != test.want {
				t.Errorf("ReadKeyFile = %q, want %q", buffer.String(), test.want)
			}
		})
	}
}

func TestReadKeyFileErrors(t *testing.T) {
	directory := t.TempDir()

	commentsOnly := filepath.Join(directory, "comments")
	if err := os.WriteFile(commentsOnly, []byte("# nothing here\n\n"), 0600); err != nil {
		t.Fatal(err)
	}
	oversized := filepath.Join(directory, "oversized")
	if err := os.WriteFile(oversized, make([]byte, maxKeyFileSize+1), 0600); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{filepath.Join(directory, "missing"), commentsOnly, oversized} {
		if _, err := ReadKeyFile(path); err == nil {
			t.Errorf("ReadKeyFile(%s) succeeded", filepath.Base(path))
		}
	}
}
