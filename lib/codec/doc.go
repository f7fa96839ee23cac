// Copyright 2026 The Oraclelink Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR codec for payload envelopes.
//
// Encoding is Core Deterministic (RFC 8949 §4.2) with one deviation:
// indefinite-length items are accepted, because the request parameter
// stream rides inside envelopes as a pre-encoded indefinite-length
// map (see lib/cborwire). The envelope fields themselves are always
// encoded definitely and with sorted keys, so the same envelope
// always produces identical bytes.
//
// The identifier types in lib/ref implement encoding.TextMarshaler
// and serialize as CBOR text strings through this codec.
package codec
