// Copyright 2026 The Oraclelink Authors
// SPDX-License-Identifier: Apache-2.0

// Package oracle implements the oracle-side counterpart of the
// request lifecycle: the [Node].
//
// A Node receives authenticated request envelopes (normally through
// the token transport's receipt hook wrapped by
// transport.NewEnvelopeReceiver), records a payment commitment with
// an expiration, and later either fulfills the request through the
// issuer's callback surface or honors a cancellation and refunds the
// payment.
//
// The job-execution pipeline that produces result values is out of
// scope; callers hand Fulfill an already-computed result. What the
// Node does own is the trust split of cancellation: the issuer's
// lifecycle manager removes its local entry without any ownership
// check, and the Node is the party that enforces who may cancel
// (only the original requester, only after the commitment expired,
// and only with matching terms).
package oracle
