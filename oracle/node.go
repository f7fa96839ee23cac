// Copyright 2026 The Oraclelink Authors
// SPDX-License-Identifier: Apache-2.0

package oracle

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/oraclelink/oraclelink/lib/clock"
	"github.com/oraclelink/oraclelink/lib/ref"
	"github.com/oraclelink/oraclelink/lib/schema"
	"github.com/oraclelink/oraclelink/transport"
)

// DefaultRequestTimeout is the commitment lifetime used when a Node
// is created with a non-positive timeout. A request older than this
// may be cancelled by its requester.
const DefaultRequestTimeout = 5 * time.Minute

// CallbackEndpoint is the issuer-side fulfillment surface the Node
// delivers results to. lifecycle.Receiver implements it.
type CallbackEndpoint interface {
	Fulfill(ctx context.Context, caller ref.Address, selector ref.Selector, id ref.CorrelationID, result []byte) error
}

// commitment is the Node's record of one unanswered request: who
// paid, how much, where the result goes, and when the requester may
// reclaim the payment.
type commitment struct {
	requester        ref.Address
	payment          *big.Int
	callbackTarget   ref.Address
	callbackSelector ref.Selector
	expiration       time.Time
}

// Node is an oracle participant. It implements
// [transport.OracleEndpoint]; wrap it with
// transport.NewEnvelopeReceiver to register it as a receipt hook.
//
// All methods are safe for concurrent use.
type Node struct {
	mutex   sync.Mutex
	self    ref.Address
	tokens  transport.TokenTransport
	clk     clock.Clock
	logger  *slog.Logger
	timeout time.Duration

	commitments map[ref.CorrelationID]commitment
	clients     map[ref.Address]CallbackEndpoint
}

// NewNode creates a Node with identity self. The token transport
// must be bound to the same identity (refunds are paid from it). A
// non-positive timeout selects DefaultRequestTimeout.
func NewNode(self ref.Address, tokens transport.TokenTransport, clk clock.Clock, logger *slog.Logger, timeout time.Duration) *Node {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &Node{
		self:        self,
		tokens:      tokens,
		clk:         clk,
		logger:      logger,
		timeout:     timeout,
		commitments: make(map[ref.CorrelationID]commitment),
		clients:     make(map[ref.Address]CallbackEndpoint),
	}
}

// Self returns the Node's participant address.
func (n *Node) Self() ref.Address { return n.self }

// RegisterClient makes the callback surface of the participant at
// address reachable for fulfillment delivery.
func (n *Node) RegisterClient(address ref.Address, endpoint CallbackEndpoint) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.clients[address] = endpoint
}

// OracleRequest records a commitment for an authenticated request
// envelope. Sender and Amount must already be the transport's
// substituted values — a zero sender means the envelope never went
// through an authenticating hop and is rejected.
func (n *Node) OracleRequest(ctx context.Context, envelope *schema.OracleRequest) error {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	if envelope.Sender.IsZero() {
		return fmt.Errorf("request envelope has no authenticated sender")
	}
	if envelope.Amount == nil {
		return fmt.Errorf("request envelope has no authenticated amount")
	}

	id := ref.DeriveCorrelationID(envelope.Sender, envelope.Nonce)
	if _, exists := n.commitments[id]; exists {
		n.logger.Warn("duplicate oracle request",
			"correlation_id", id,
			"requester", envelope.Sender,
			"nonce", envelope.Nonce)
		return fmt.Errorf("request %s already pending", id)
	}

	expiration := n.clk.Now().Add(n.timeout)
	n.commitments[id] = commitment{
		requester:        envelope.Sender,
		payment:          new(big.Int).Set(envelope.Amount),
		callbackTarget:   envelope.CallbackTarget,
		callbackSelector: envelope.CallbackSelector,
		expiration:       expiration,
	}

	n.logger.Info("oracle request received",
		"correlation_id", id,
		"requester", envelope.Sender,
		"spec_id", envelope.SpecID,
		"payment", envelope.Amount,
		"expiration", expiration)
	return nil
}

// Fulfill delivers a computed result for the request id through the
// callback target's fulfillment surface. The commitment is cleared
// only after the delivery succeeds, so a failed callback leaves the
// request answerable.
func (n *Node) Fulfill(ctx context.Context, id ref.CorrelationID, result []byte) error {
	n.mutex.Lock()
	pending, ok := n.commitments[id]
	if !ok {
		n.mutex.Unlock()
		return fmt.Errorf("no commitment for request %s", id)
	}
	client, ok := n.clients[pending.callbackTarget]
	n.mutex.Unlock()
	if !ok {
		return fmt.Errorf("no callback endpoint registered for %s", pending.callbackTarget)
	}

	// Delivery runs outside the node lock: the callback surface takes
	// the issuer's lock, and the issuer's Cancel takes this node's —
	// holding ours here would order the two locks both ways.
	// Exactly-once delivery is enforced by the issuer's pending
	// table, not by this lock.
	if err := client.Fulfill(ctx, n.self, pending.callbackSelector, id, result); err != nil {
		return fmt.Errorf("delivering fulfillment of %s: %w", id, err)
	}

	n.mutex.Lock()
	delete(n.commitments, id)
	n.mutex.Unlock()

	n.logger.Info("oracle request fulfilled",
		"correlation_id", id,
		"callback_target", pending.callbackTarget)
	return nil
}

// CancelOracleRequest refunds the payment for an expired,
// unanswered request. The envelope's terms must match the recorded
// commitment exactly, the requester must be the original sender, and
// the commitment must have expired. Any mismatch aborts with the
// commitment intact.
func (n *Node) CancelOracleRequest(ctx context.Context, envelope *schema.CancelOracleRequest) error {
	pending, err := n.takeCancelled(envelope)
	if err != nil {
		n.logger.Warn("cancellation refused",
			"correlation_id", envelope.CorrelationID,
			"requester", envelope.Requester,
			"error", err)
		return err
	}

	// The refund runs outside the node lock: the transfer takes the
	// ledger's lock, and inbound requests arrive holding it. A failed
	// refund restores the commitment so the whole operation aborts.
	if err := n.tokens.Transfer(ctx, pending.requester, pending.payment); err != nil {
		n.mutex.Lock()
		n.commitments[envelope.CorrelationID] = pending
		n.mutex.Unlock()
		return fmt.Errorf("refunding %s for cancelled request %s: %w", pending.payment, envelope.CorrelationID, err)
	}

	n.logger.Info("oracle request cancelled",
		"correlation_id", envelope.CorrelationID,
		"requester", pending.requester,
		"refund", pending.payment)
	return nil
}

// takeCancelled checks the cancellation preconditions and removes the
// commitment, returning it so the caller can refund or restore it.
func (n *Node) takeCancelled(envelope *schema.CancelOracleRequest) (commitment, error) {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	pending, ok := n.commitments[envelope.CorrelationID]
	if !ok {
		return commitment{}, fmt.Errorf("no commitment for request %s", envelope.CorrelationID)
	}
	if envelope.Requester != pending.requester {
		return commitment{}, fmt.Errorf("cancellation of %s from %s: only the requester %s may cancel",
			envelope.CorrelationID, envelope.Requester, pending.requester)
	}
	if envelope.CallbackSelector != pending.callbackSelector {
		return commitment{}, fmt.Errorf("cancellation of %s names callback %s, commitment has %s",
			envelope.CorrelationID, envelope.CallbackSelector, pending.callbackSelector)
	}
	if envelope.Payment == nil || envelope.Payment.Cmp(pending.payment) != 0 {
		return commitment{}, fmt.Errorf("cancellation of %s claims payment %s, commitment holds %s",
			envelope.CorrelationID, envelope.Payment, pending.payment)
	}
	if envelope.Expiration != uint64(pending.expiration.Unix()) {
		return commitment{}, fmt.Errorf("cancellation of %s carries expiration %d, commitment has %d",
			envelope.CorrelationID, envelope.Expiration, pending.expiration.Unix())
	}
	if n.clk.Now().Before(pending.expiration) {
		return commitment{}, fmt.Errorf("request %s is not expired until %v", envelope.CorrelationID, pending.expiration)
	}

	delete(n.commitments, envelope.CorrelationID)
	return pending, nil
}

// Expiration returns the commitment expiration for id. This is the
// acknowledgment value a requester records to authorize a later
// cancellation.
func (n *Node) Expiration(id ref.CorrelationID) (time.Time, bool) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	pending, ok := n.commitments[id]
	if !ok {
		return time.Time{}, false
	}
	return pending.expiration, true
}

// CommitmentCount returns the number of unanswered requests.
func (n *Node) CommitmentCount() int {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return len(n.commitments)
}
