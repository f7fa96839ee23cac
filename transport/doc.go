// Copyright 2026 The Oraclelink Authors
// SPDX-License-Identifier: Apache-2.0

// Package transport defines the external collaborator contracts the
// request lifecycle depends on: the token transport that moves
// payment and payload to an oracle in one step, the receipt hook the
// destination exposes, and the oracle's direct cancellation endpoint.
//
// [Ledger] is the in-memory implementation used by tests and local
// examples. It performs the same delegation a production settlement
// network would: the receipt hook is invoked with the sender and
// amount the ledger itself observed, never values taken from the
// payload, so a payload cannot claim a payment it did not make.
package transport
