// Copyright 2026 The Oraclelink Authors
// SPDX-License-Identifier: Apache-2.0

// Package ref defines the validated identifier types of the oracle
// protocol: participant addresses, callback selectors, spec
// identifiers, and request correlation identifiers.
//
// All types are fixed-size comparable values, so they can key maps
// (the pending-requests table is keyed by [CorrelationID]). Each has
// Parse/MustParse constructors over the canonical lowercase-hex text
// form and implements encoding.TextMarshaler/TextUnmarshaler, which
// lib/codec turns into CBOR text strings on the wire.
//
// Correlation identifiers and callback selectors are both derived
// with BLAKE3 keyed hashing under distinct domain keys, so a value
// from one domain can never collide with the other.
package ref
