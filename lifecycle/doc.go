// Copyright 2026 The Oraclelink Authors
// SPDX-License-Identifier: Apache-2.0

// Package lifecycle manages outstanding oracle requests for one
// issuer: minting correlation identifiers, dispatching payment and
// payload through the token transport, authorizing fulfillment, and
// processing cancellation.
//
// [Manager] owns the two pieces of issuer state — the monotonically
// increasing nonce counter and the pending-requests table mapping
// each correlation id to the single oracle entitled to answer it.
// Every state transition (Send, RegisterExternal, Fulfill, Cancel)
// is atomic: a failed operation leaves both table and counter
// exactly as they were.
//
// [Receiver] sits on top of a Manager and routes authorized
// fulfillments to callback handlers registered per selector, in the
// check-then-act order: the authorization precondition runs and the
// pending entry is cleared before the handler executes.
//
// Protocol failures are reported as [*ProtocolError] values carrying
// an [ErrorCode]; use [IsProtocolError] to test for a specific code.
package lifecycle
