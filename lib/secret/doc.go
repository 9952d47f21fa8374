// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret keeps key material out of the Go heap.
//
// A [Buffer] is an anonymous mmap region, mlocked against swap and
// marked MADV_DONTDUMP, that is zeroed and unmapped on Close. pngstash
// stores age identities and symmetric envelope keys in Buffers from
// the moment they are read ([ReadKeyFile]) or generated until the
// envelope that needs them has been opened or sealed.
//
// Access goes through [Buffer.Bytes], which points into the mapping,
// or [Buffer.String], a heap copy for APIs that insist on strings
// (age.ParseIdentities). Any access after Close panics.
package secret
