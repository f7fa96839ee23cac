// Copyright 2026 The Oraclelink Authors
// SPDX-License-Identifier: Apache-2.0

package lifecycle

import (
	"context"
	"fmt"

	"github.com/oraclelink/oraclelink/lib/ref"
)

// Handler consumes a fulfillment result for one request. It runs
// only after the fulfillment has been authorized and the pending
// entry cleared.
type Handler func(ctx context.Context, id ref.CorrelationID, result []byte) error

// Receiver routes authorized fulfillments to per-selector callback
// handlers. It is the callback surface an oracle invokes on the
// issuer's behalf: authorization first, handler second, and a
// handler failure rolls the pending entry back so the whole
// operation aborts cleanly.
type Receiver struct {
	manager  *Manager
	handlers map[ref.Selector]Handler
}

// NewReceiver creates a Receiver over the given manager. Register
// handlers with Handle before requests naming their selectors are
// sent.
func NewReceiver(manager *Manager) *Receiver {
	return &Receiver{
		manager:  manager,
		handlers: make(map[ref.Selector]Handler),
	}
}

// Handle binds a callback selector to its handler. A second Handle
// for the same selector replaces the first.
func (r *Receiver) Handle(selector ref.Selector, handler Handler) {
	r.manager.mutex.Lock()
	defer r.manager.mutex.Unlock()
	r.handlers[selector] = handler
}

// Fulfill delivers a result for the pending request id. Caller must
// be the oracle recorded for the request; selector names the
// callback the request asked for. The precondition check and the
// entry removal happen before the handler runs — check, then act —
// so a repeated delivery fails authorization no matter what the
// handler did.
func (r *Receiver) Fulfill(ctx context.Context, caller ref.Address, selector ref.Selector, id ref.CorrelationID, result []byte) error {
	r.manager.mutex.Lock()
	defer r.manager.mutex.Unlock()

	handler, ok := r.handlers[selector]
	if !ok {
		return fmt.Errorf("no callback handler registered for selector %s", selector)
	}

	oracle, err := r.manager.fulfillLocked(id, caller)
	if err != nil {
		return err
	}

	if err := handler(ctx, id, result); err != nil {
		// Whole-operation abort: restore the entry so the oracle can
		// redeliver.
		r.manager.pending[id] = oracle
		return fmt.Errorf("callback for request %s failed: %w", id, err)
	}

	r.manager.recordFulfilled(id, oracle)
	return nil
}
