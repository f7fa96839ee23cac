// Copyright 2026 The Oraclelink Authors
// SPDX-License-Identifier: Apache-2.0

// Package request assembles oracle requests: the spec id, callback
// coordinates, and a CBOR-encoded parameter stream built through
// typed Add operations.
//
// Parameters are encoded as they are added — the parameter buffer is
// an open indefinite-length map whose pairs appear in insertion
// order, because consumers decode positionally. The map is closed
// (break-terminated) only when the lifecycle manager finalizes the
// payload at send time, so a Request keeps accepting parameters
// until it is dispatched.
//
// Duplicate keys are legal and transmitted as-is; deduplication
// policy belongs to the consumer.
package request
