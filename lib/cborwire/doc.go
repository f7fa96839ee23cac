// Copyright 2026 The Oraclelink Authors
// SPDX-License-Identifier: Apache-2.0

// Package cborwire is a streaming writer for the CBOR subset used in
// request parameter encoding: unsigned and negative integers, byte
// strings, text strings, the two bignum tags, and indefinite-length
// arrays and maps.
//
// The package exists alongside lib/codec (the general fxamacker-based
// codec) because the parameter wire format has two properties the
// deterministic codec cannot produce: map pairs appear in insertion
// order (consumers decode positionally), and containers are
// indefinite-length so parameters can be streamed without a counting
// pre-pass. Everything else follows RFC 8949: minimal-width integer
// headers, the -1-n negative convention, and tags 2/3 for integers
// outside the 64-bit range.
//
// All functions append to a caller-supplied [wirebuf.Buffer] and never
// fail; nesting balance of indefinite containers is the caller's
// responsibility.
package cborwire
