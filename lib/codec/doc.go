// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR configuration for the "cbor" storage
// format.
//
// The task list is stored as JSON by default, since that is the shape
// the browser version of the tracker left in local storage and users
// can read and hand-edit it. The cbor format is available for
// installations that prefer a compact binary record. Both formats use
// the same struct tags: types carry json tags, and fxamacker/cbor
// falls back to them when no cbor tag is present.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2), so the
// same task list always produces identical bytes. The store relies on
// this when it compares content digests to recognize its own writes.
package codec
