// Copyright 2026 The Oraclelink Authors
// SPDX-License-Identifier: Apache-2.0

// Package schema defines the payload envelopes exchanged between
// request issuers, the token transport, and oracles.
//
// [OracleRequest] is the tuple delivered alongside payment when a
// request is dispatched. Its Sender and Amount fields are zero
// overrides on the wire: the token transport substitutes the true
// sender and transfer amount from its own knowledge before the
// oracle acts on the envelope, so the payload cannot claim a payment
// it did not make.
//
// [CancelOracleRequest] is sent directly to the oracle to reclaim
// the payment for an expired, unfulfilled request.
//
// Envelopes are encoded with lib/codec; the parameter stream rides
// inside OracleRequest as a raw pre-encoded CBOR map.
package schema
