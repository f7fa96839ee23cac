// Copyright 2026 The Oraclelink Authors
// SPDX-License-Identifier: Apache-2.0

// Package wirebuf provides the growable byte buffer underlying the
// request wire encoding.
//
// [Buffer] is an append-only byte sequence with an explicit growth
// policy: when an append exceeds the current capacity, the buffer is
// reallocated to at least double the old capacity, rounded up to a
// 32-byte word boundary. The growth policy is part of the buffer's
// contract, not an implementation detail — encoded requests are built
// incrementally and the word alignment keeps reallocation behavior
// predictable across the parameter-encoding hot path.
//
// The package deliberately does not wrap bytes.Buffer: the fixed-width
// big-endian append primitive ([Buffer.AppendUint]) and the documented
// growth policy are the whole point of the type.
package wirebuf
