// Copyright 2026 The Oraclelink Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sync"

	"github.com/oraclelink/oraclelink/lib/ref"
	"github.com/oraclelink/oraclelink/lib/schema"
)

// Ledger is an in-memory token ledger and participant registry. It
// implements [Directory] and hands out per-participant
// [TokenTransport] accounts via [Ledger.Account].
//
// All methods are safe for concurrent use; each transfer (including
// its receipt hook) runs atomically with respect to other transfers.
type Ledger struct {
	mutex     sync.Mutex
	logger    *slog.Logger
	balances  map[ref.Address]*big.Int
	receivers map[ref.Address]TransferReceiver
	oracles   map[ref.Address]OracleEndpoint
}

// NewLedger creates an empty ledger.
func NewLedger(logger *slog.Logger) *Ledger {
	return &Ledger{
		logger:    logger,
		balances:  make(map[ref.Address]*big.Int),
		receivers: make(map[ref.Address]TransferReceiver),
		oracles:   make(map[ref.Address]OracleEndpoint),
	}
}

// Mint credits amount to address out of thin air. Test setup only.
func (l *Ledger) Mint(address ref.Address, amount *big.Int) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.credit(address, amount)
}

// Balance returns a copy of the current balance of address.
func (l *Ledger) Balance(address ref.Address) *big.Int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	balance, ok := l.balances[address]
	if !ok {
		return new(big.Int)
	}
	return new(big.Int).Set(balance)
}

// RegisterReceiver installs the receipt hook for address. Transfers
// with payload to an address without a hook fail.
func (l *Ledger) RegisterReceiver(address ref.Address, receiver TransferReceiver) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.receivers[address] = receiver
}

// RegisterOracle makes the oracle at address reachable through the
// [Directory] interface.
func (l *Ledger) RegisterOracle(address ref.Address, endpoint OracleEndpoint) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.oracles[address] = endpoint
}

// Oracle implements [Directory].
func (l *Ledger) Oracle(address ref.Address) (OracleEndpoint, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	endpoint, ok := l.oracles[address]
	if !ok {
		return nil, fmt.Errorf("no oracle registered at %s", address)
	}
	return endpoint, nil
}

// Account returns a TokenTransport bound to sender. Every transfer
// made through it debits sender and reports sender as the
// authenticated source to receipt hooks.
func (l *Ledger) Account(sender ref.Address) TokenTransport {
	return &account{ledger: l, sender: sender}
}

// account is a sender-bound view of the ledger.
type account struct {
	ledger *Ledger
	sender ref.Address
}

func (a *account) Transfer(ctx context.Context, destination ref.Address, amount *big.Int) error {
	return a.ledger.transfer(ctx, a.sender, destination, amount, nil, false)
}

func (a *account) TransferAndCall(ctx context.Context, destination ref.Address, amount *big.Int, payload []byte) error {
	return a.ledger.transfer(ctx, a.sender, destination, amount, payload, true)
}

// transfer moves amount from sender to destination and, when
// withHook is set, invokes the destination's receipt hook with the
// ledger's own knowledge of sender and amount. A hook failure rolls
// the balance movement back, so the operation is all-or-nothing.
func (l *Ledger) transfer(ctx context.Context, sender, destination ref.Address, amount *big.Int, payload []byte, withHook bool) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if amount.Sign() < 0 {
		return fmt.Errorf("negative transfer amount %s", amount)
	}
	balance, ok := l.balances[sender]
	if !ok || balance.Cmp(amount) < 0 {
		return fmt.Errorf("insufficient balance: %s holds %s, transfer needs %s", sender, l.balanceLocked(sender), amount)
	}

	var receiver TransferReceiver
	if withHook {
		receiver, ok = l.receivers[destination]
		if !ok {
			return fmt.Errorf("destination %s has no receipt hook", destination)
		}
	}

	balance.Sub(balance, amount)
	l.credit(destination, amount)

	if receiver != nil {
		if err := receiver.OnTokenTransfer(ctx, sender, new(big.Int).Set(amount), payload); err != nil {
			// Receipt hook rejected the delivery: undo the movement.
			l.balances[destination].Sub(l.balances[destination], amount)
			balance.Add(balance, amount)
			return fmt.Errorf("receipt hook at %s rejected transfer: %w", destination, err)
		}
	}

	l.logger.Debug("token transfer",
		"sender", sender,
		"destination", destination,
		"amount", amount,
		"with_hook", withHook)
	return nil
}

// credit adds amount to address's balance. Caller holds the mutex.
func (l *Ledger) credit(address ref.Address, amount *big.Int) {
	balance, ok := l.balances[address]
	if !ok {
		balance = new(big.Int)
		l.balances[address] = balance
	}
	balance.Add(balance, amount)
}

// balanceLocked formats a balance for error messages. Caller holds
// the mutex.
func (l *Ledger) balanceLocked(address ref.Address) string {
	balance, ok := l.balances[address]
	if !ok {
		return "0"
	}
	return balance.String()
}

// envelopeReceiver adapts an [OracleEndpoint] into a
// [TransferReceiver]: it decodes the payload as a request envelope,
// substitutes the authenticated sender and amount over the zero
// overrides, and forwards it to the endpoint. This is the delegation
// step that makes the sender/amount fields in the payload
// unspoofable.
type envelopeReceiver struct {
	endpoint OracleEndpoint
}

// NewEnvelopeReceiver wraps an oracle endpoint as a receipt hook.
func NewEnvelopeReceiver(endpoint OracleEndpoint) TransferReceiver {
	return &envelopeReceiver{endpoint: endpoint}
}

func (r *envelopeReceiver) OnTokenTransfer(ctx context.Context, sender ref.Address, amount *big.Int, payload []byte) error {
	envelope, err := schema.DecodeOracleRequest(payload)
	if err != nil {
		return err
	}
	if !envelope.Sender.IsZero() {
		return fmt.Errorf("request envelope carries a non-zero sender override %s", envelope.Sender)
	}
	if envelope.Amount != nil && envelope.Amount.Sign() != 0 {
		return fmt.Errorf("request envelope carries a non-zero amount override %s", envelope.Amount)
	}
	envelope.Sender = sender
	envelope.Amount = amount
	return r.endpoint.OracleRequest(ctx, envelope)
}
