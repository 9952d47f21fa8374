// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads pngstash configuration.
//
// Configuration comes from a single file named by the --config flag
// ([LoadFile]) or the PNGSTASH_CONFIG environment variable ([Load]).
// There is no search path and no ~/.config discovery. When neither is
// set the command line runs on [Default].
//
// Files ending in .json or .jsonc are JSON with comments and trailing
// commas (stripped by tidwall/jsonc); anything else is YAML. Values
// omitted from the file keep their defaults.
//
// After loading, ${VAR} and ${VAR:-default} references in path fields
// (key files, identity files, the viewer command) are expanded from the
// environment. Nothing else reads the environment.
package config
