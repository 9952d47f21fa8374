// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/pngstash/lib/envelope"
	"github.com/bureau-foundation/pngstash/lib/png"
	"github.com/bureau-foundation/pngstash/lib/sealed"
)

// EnvironmentVariable names the config file when --config is absent.
const EnvironmentVariable = "PNGSTASH_CONFIG"

// Color modes for terminal output.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config is the whole configuration file.
type Config struct {
	Encode EncodeConfig `yaml:"encode" json:"encode"`
	Decode DecodeConfig `yaml:"decode" json:"decode"`
	Print  PrintConfig  `yaml:"print" json:"print"`
}

// EncodeConfig sets defaults for `pngstash encode`.
type EncodeConfig struct {
	// ChunkType is used when the command line names no type. It also
	// serves decode, remove and browse.
	ChunkType string `yaml:"chunk_type" json:"chunk_type"`

	// Compression is none, lz4 or zstd.
	Compression string `yaml:"compression" json:"compression"`

	// Recipients are age1... public keys. When set, messages are
	// sealed to them.
	Recipients []string `yaml:"recipients" json:"recipients"`

	// KeyFile is a shared-key file written by `pngstash keygen
	// --symmetric`. Mutually exclusive with Recipients.
	KeyFile string `yaml:"key_file" json:"key_file"`
}

// DecodeConfig names the key material decode and remove may use to
// open sealed messages.
type DecodeConfig struct {
	IdentityFile string `yaml:"identity_file" json:"identity_file"`
	KeyFile      string `yaml:"key_file" json:"key_file"`
}

// PrintConfig configures `pngstash print`.
type PrintConfig struct {
	// Viewer is the command --open runs with the image path appended.
	// It is split on whitespace; no shell is involved.
	Viewer string `yaml:"viewer" json:"viewer"`

	// Color is auto, always or never.
	Color string `yaml:"color" json:"color"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Encode: EncodeConfig{
			ChunkType:   "stSh",
			Compression: string(envelope.CompressionNone),
		},
		Print: PrintConfig{
			Viewer: "feh",
			Color:  ColorAuto,
		},
	}
}

// Load reads the file named by PNGSTASH_CONFIG. It fails when the
// variable is unset; callers that can run without a file check the
// variable themselves.
func Load() (*Config, error) {
	path := os.Getenv(EnvironmentVariable)
	if path == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of a pngstash config file, or use --config", EnvironmentVariable)
	}
	return LoadFile(path)
}

// LoadFile reads path over the defaults, expands variables and
// validates the result.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.decode(path, data); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.expandVariables()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) decode(path string, data []byte) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return json.Unmarshal(jsonc.ToJSON(data), c)
	default:
		return yaml.Unmarshal(data, c)
	}
}

func (c *Config) expandVariables() {
	c.Encode.KeyFile = expandVars(c.Encode.KeyFile)
	c.Decode.IdentityFile = expandVars(c.Decode.IdentityFile)
	c.Decode.KeyFile = expandVars(c.Decode.KeyFile)
	c.Print.Viewer = expandVars(c.Print.Viewer)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars replaces ${VAR} and ${VAR:-default}. An unset or empty
// variable without a default expands to the empty string.
func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

// Validate reports every problem in the configuration at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Encode.ChunkType != "" {
		chunkType, err := png.ParseChunkType(c.Encode.ChunkType)
		if err != nil {
			errs = append(errs, fmt.Errorf("encode.chunk_type: %w", err))
		} else if !chunkType.IsValid() {
			errs = append(errs, fmt.Errorf("encode.chunk_type %q: third letter must be uppercase", c.Encode.ChunkType))
		}
	}

	if _, err := envelope.ParseCompression(c.Encode.Compression); err != nil {
		errs = append(errs, fmt.Errorf("encode.compression: %w", err))
	}

	for index, recipient := range c.Encode.Recipients {
		if err := sealed.ParsePublicKey(recipient); err != nil {
			errs = append(errs, fmt.Errorf("encode.recipients[%d]: %w", index, err))
		}
	}
	if len(c.Encode.Recipients) > 0 && c.Encode.KeyFile != "" {
		errs = append(errs, fmt.Errorf("encode.recipients and encode.key_file are mutually exclusive"))
	}

	colorModes := []string{ColorAuto, ColorAlways, ColorNever}
	if !slices.Contains(colorModes, c.Print.Color) {
		errs = append(errs, fmt.Errorf("print.color must be one of: %v", colorModes))
	}

	return errors.Join(errs...)
}

// ViewerCommand splits Print.Viewer into a program and its arguments
// and appends path. It returns nil when no viewer is configured.
func (c *Config) ViewerCommand(path string) []string {
	fields := strings.Fields(c.Print.Viewer)
	if len(fields) == 0 {
		return nil
	}
	return append(fields, path)
}
