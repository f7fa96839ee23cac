// Copyright 2026 The Oraclelink Authors
// SPDX-License-Identifier: Apache-2.0

package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sync"

	"github.com/oraclelink/oraclelink/lib/ref"
	"github.com/oraclelink/oraclelink/lib/request"
	"github.com/oraclelink/oraclelink/lib/schema"
	"github.com/oraclelink/oraclelink/transport"
)

// Manager tracks the outstanding oracle requests of one issuer. One
// Manager exists per issuer identity; its nonce counter namespaces
// correlation ids together with the issuer address.
//
// All methods are safe for concurrent use. Each transition runs
// atomically under the manager's lock, including the transport call
// inside Send and Cancel — collaborators invoked from there must not
// call back into the same Manager.
type Manager struct {
	mutex    sync.Mutex
	self     ref.Address
	tokens   transport.TokenTransport
	oracles  transport.Directory
	logger   *slog.Logger
	observer Observer

	// nextNonce is the counter value the next Send will consume.
	// Seeded at 1, incremented only after a successful dispatch,
	// never reset.
	nextNonce uint64

	// pending maps each outstanding correlation id to the single
	// oracle entitled to fulfill it. Absence of a key means no
	// outstanding request with that id.
	pending map[ref.CorrelationID]ref.Address
}

// NewManager creates a Manager for the issuer identity self. The
// token transport must be bound to the same identity; the directory
// resolves oracle addresses for direct cancellation calls.
func NewManager(self ref.Address, tokens transport.TokenTransport, oracles transport.Directory, logger *slog.Logger) *Manager {
	return &Manager{
		self:      self,
		tokens:    tokens,
		oracles:   oracles,
		logger:    logger,
		nextNonce: 1,
		pending:   make(map[ref.CorrelationID]ref.Address),
	}
}

// OnEvent registers the observer notified of completed transitions.
// At most one observer; a second call replaces the first.
func (m *Manager) OnEvent(observer Observer) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.observer = observer
}

// Self returns the issuer identity this manager is bound to.
func (m *Manager) Self() ref.Address { return m.self }

// NextNonce returns the counter value the next Send will consume.
func (m *Manager) NextNonce() uint64 {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.nextNonce
}

// PendingOracle returns the oracle recorded for a correlation id and
// whether the id is outstanding.
func (m *Manager) PendingOracle(id ref.CorrelationID) (ref.Address, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	oracle, ok := m.pending[id]
	return oracle, ok
}

// PendingCount returns the number of outstanding requests.
func (m *Manager) PendingCount() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.pending)
}

// Send dispatches req to oracle, carrying payment. It mints the
// request's correlation id from the issuer identity and the current
// counter, assigns the counter value as the request nonce, finalizes
// the parameter stream, and delivers payment plus payload through
// the token transport in one step.
//
// On transport failure nothing changes: no pending entry, no counter
// increment, and the request can be re-sent. On success the request
// is pending, keyed by the returned correlation id, until the oracle
// fulfills it or the issuer cancels it.
func (m *Manager) Send(ctx context.Context, oracle ref.Address, req *request.Request, payment *big.Int) (ref.CorrelationID, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	nonce := m.nextNonce
	id := ref.DeriveCorrelationID(m.self, nonce)
	if _, exists := m.pending[id]; exists {
		// Cannot happen while the counter only moves forward; the
		// check keeps the table invariant explicit.
		return ref.CorrelationID{}, &ProtocolError{
			Code:    CodeDuplicateRequest,
			Message: fmt.Sprintf("correlation id %s already pending", id),
		}
	}

	envelope := schema.OracleRequest{
		Amount:           big.NewInt(0), // override, substituted by the transport
		SpecID:           req.SpecID,
		CallbackTarget:   req.CallbackTarget,
		CallbackSelector: req.CallbackSelector,
		Nonce:            nonce,
		Version:          schema.ArgsVersion,
		Params:           req.EncodeParams(),
	}
	payload, err := envelope.Encode()
	if err != nil {
		return ref.CorrelationID{}, err
	}

	if err := m.tokens.TransferAndCall(ctx, oracle, payment, payload); err != nil {
		m.logger.Warn("oracle request dispatch failed",
			"correlation_id", id,
			"oracle", oracle,
			"error", err)
		return ref.CorrelationID{}, &ProtocolError{
			Code:    CodeTransportFailure,
			Message: fmt.Sprintf("delivering request %s to oracle %s", id, oracle),
			Err:     err,
		}
	}

	req.Nonce = nonce
	m.pending[id] = oracle
	m.nextNonce++

	m.logger.Info("oracle request dispatched",
		"correlation_id", id,
		"oracle", oracle,
		"nonce", nonce,
		"payment", payment)
	m.emit(Event{Kind: EventRequested, CorrelationID: id, Oracle: oracle})
	return id, nil
}

// RegisterExternal adopts a request that was issued elsewhere (by
// another issuer whose acknowledgment named this correlation id) so
// that its fulfillment can be authorized here. No id is minted and
// the counter is untouched.
func (m *Manager) RegisterExternal(oracle ref.Address, id ref.CorrelationID) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.pending[id]; exists {
		return &ProtocolError{
			Code:    CodeDuplicateRequest,
			Message: fmt.Sprintf("request %s already pending", id),
		}
	}
	m.pending[id] = oracle

	m.logger.Info("external oracle request adopted",
		"correlation_id", id,
		"oracle", oracle)
	return nil
}

// Fulfill authorizes and records the fulfillment of a pending
// request: caller must be the oracle recorded for id. On success the
// entry is cleared — a second Fulfill for the same id fails — and
// the caller's own callback logic may run. On failure the entry is
// untouched.
func (m *Manager) Fulfill(id ref.CorrelationID, caller ref.Address) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if _, err := m.fulfillLocked(id, caller); err != nil {
		return err
	}
	m.recordFulfilled(id, caller)
	return nil
}

// fulfillLocked checks the fulfillment preconditions and clears the
// entry, returning the oracle that was recorded. The caller holds
// the mutex and, once the rest of its operation succeeds, reports
// the transition via recordFulfilled.
func (m *Manager) fulfillLocked(id ref.CorrelationID, caller ref.Address) (ref.Address, error) {
	oracle, ok := m.pending[id]
	if !ok {
		m.logger.Warn("fulfillment for unknown request",
			"correlation_id", id,
			"source", caller)
		return ref.Address{}, &ProtocolError{
			Code:    CodeUnknownRequest,
			Message: fmt.Sprintf("no outstanding request %s", id),
		}
	}
	if caller != oracle {
		m.logger.Warn("fulfillment from unauthorized source",
			"correlation_id", id,
			"source", caller,
			"recorded_oracle", oracle)
		return ref.Address{}, &ProtocolError{
			Code:    CodeUnauthorizedFulfillment,
			Message: fmt.Sprintf("source %s must be the oracle of request %s", caller, id),
		}
	}
	delete(m.pending, id)
	return oracle, nil
}

// recordFulfilled logs and emits the fulfilled transition. Caller
// holds the mutex; the transition must already have succeeded in
// full.
func (m *Manager) recordFulfilled(id ref.CorrelationID, oracle ref.Address) {
	m.logger.Info("oracle request fulfilled",
		"correlation_id", id,
		"oracle", oracle)
	m.emit(Event{Kind: EventFulfilled, CorrelationID: id, Oracle: oracle})
}

// Cancel reclaims a pending request: the entry is removed and the
// recorded oracle is asked directly to release the reserved payment
// back to the issuer. Expiration is the unix-seconds value the
// issuer recorded from the original request acknowledgment — the
// manager does not track expirations itself, and the oracle enforces
// both the expiration and who may cancel. If the oracle refuses, the
// entry is restored and nothing has changed.
func (m *Manager) Cancel(ctx context.Context, id ref.CorrelationID, payment *big.Int, callbackSelector ref.Selector, expiration uint64) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	oracle, ok := m.pending[id]
	if !ok {
		return &ProtocolError{
			Code:    CodeUnknownRequest,
			Message: fmt.Sprintf("no outstanding request %s", id),
		}
	}
	endpoint, err := m.oracles.Oracle(oracle)
	if err != nil {
		return &ProtocolError{
			Code:    CodeTransportFailure,
			Message: fmt.Sprintf("resolving oracle %s for cancellation", oracle),
			Err:     err,
		}
	}

	delete(m.pending, id)

	cancel := schema.CancelOracleRequest{
		CorrelationID:    id,
		Requester:        m.self,
		Payment:          payment,
		CallbackSelector: callbackSelector,
		Expiration:       expiration,
	}
	if err := endpoint.CancelOracleRequest(ctx, &cancel); err != nil {
		// Whole-operation abort: the entry goes back exactly as it
		// was.
		m.pending[id] = oracle
		m.logger.Warn("cancellation refused by oracle",
			"correlation_id", id,
			"oracle", oracle,
			"error", err)
		return &ProtocolError{
			Code:    CodeCancelRejected,
			Message: fmt.Sprintf("oracle %s refused cancellation of %s", oracle, id),
			Err:     err,
		}
	}

	m.logger.Info("oracle request cancelled",
		"correlation_id", id,
		"oracle", oracle,
		"payment", payment)
	m.emit(Event{Kind: EventCancelled, CorrelationID: id, Oracle: oracle})
	return nil
}

// emit delivers an event to the observer, if any. Caller holds the
// mutex.
func (m *Manager) emit(event Event) {
	if m.observer != nil {
		m.observer(event)
	}
}
