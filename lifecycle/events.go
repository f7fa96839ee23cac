// Copyright 2026 The Oraclelink Authors
// SPDX-License-Identifier: Apache-2.0

package lifecycle

import "github.com/oraclelink/oraclelink/lib/ref"

// EventKind names a request lifecycle transition.
type EventKind string

const (
	// EventRequested: a request was dispatched and is now pending.
	EventRequested EventKind = "requested"

	// EventFulfilled: the recorded oracle answered a pending request.
	EventFulfilled EventKind = "fulfilled"

	// EventCancelled: the issuer reclaimed a pending request.
	EventCancelled EventKind = "cancelled"
)

// Event is the notification emitted for each completed transition.
// Events are emitted only after the transition has fully succeeded —
// an aborted operation emits nothing.
type Event struct {
	Kind          EventKind
	CorrelationID ref.CorrelationID
	// Oracle is the participant recorded (or formerly recorded) as
	// entitled to fulfill the request.
	Oracle ref.Address
}

// Observer receives lifecycle events. Called synchronously inside
// the transition, so implementations must be fast and must not call
// back into the Manager.
type Observer func(Event)
