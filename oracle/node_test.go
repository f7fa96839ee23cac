// Copyright 2026 The Oraclelink Authors
// SPDX-License-Identifier: Apache-2.0

package oracle

import (
	"context"
	"io"
	"log/slog"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/oraclelink/oraclelink/lib/clock"
	"github.com/oraclelink/oraclelink/lib/ref"
	"github.com/oraclelink/oraclelink/lib/request"
	"github.com/oraclelink/oraclelink/lifecycle"
	"github.com/oraclelink/oraclelink/transport"
)

var (
	issuerAddress = ref.MustParseAddress("1111111111111111111111111111111111111111")
	oracleAddress = ref.MustParseAddress("2222222222222222222222222222222222222222")
	volumeSpec    = ref.MustParseSpecID(strings.Repeat("ab", 32))
	volumeMethod  = ref.SelectorFor("fulfillVolume(bytes32,uint256)")
)

// world wires a complete in-memory deployment: one issuer (manager
// plus receiver) and one oracle node over a shared token ledger.
type world struct {
	ledger   *transport.Ledger
	clk      *clock.Fake
	manager  *lifecycle.Manager
	receiver *lifecycle.Receiver
	node     *Node
}

func newWorld(t *testing.T) *world {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ledger := transport.NewLedger(logger)
	clk := clock.NewFake(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))

	manager := lifecycle.NewManager(issuerAddress, ledger.Account(issuerAddress), ledger, logger)
	receiver := lifecycle.NewReceiver(manager)

	node := NewNode(oracleAddress, ledger.Account(oracleAddress), clk, logger, 10*time.Minute)
	node.RegisterClient(issuerAddress, receiver)

	ledger.RegisterReceiver(oracleAddress, transport.NewEnvelopeReceiver(node))
	ledger.RegisterOracle(oracleAddress, node)
	ledger.Mint(issuerAddress, big.NewInt(1000))

	return &world{ledger: ledger, clk: clk, manager: manager, receiver: receiver, node: node}
}

func (w *world) sendVolumeRequest(t *testing.T, payment int64) ref.CorrelationID {
	t.Helper()
	req := request.New(volumeSpec, issuerAddress, volumeMethod)
	req.Add("get", "https://e.com/v")
	req.Add("path", "data.volume")
	req.AddInt("times", 1_000_000_000_000_000_000)

	id, err := w.manager.Send(context.Background(), oracleAddress, req, big.NewInt(payment))
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	return id
}

func TestRequestReachesOracleWithPayment(t *testing.T) {
	w := newWorld(t)
	id := w.sendVolumeRequest(t, 100)

	if got := w.ledger.Balance(issuerAddress); got.Cmp(big.NewInt(900)) != 0 {
		t.Errorf("issuer balance = %s, want 900", got)
	}
	if got := w.ledger.Balance(oracleAddress); got.Cmp(big.NewInt(100)) != 0 {
		t.Errorf("oracle balance = %s, want 100", got)
	}
	if w.node.CommitmentCount() != 1 {
		t.Fatalf("node has %d commitments, want 1", w.node.CommitmentCount())
	}

	// Both sides derived the same correlation id without it ever
	// being on the wire.
	expiration, ok := w.node.Expiration(id)
	if !ok {
		t.Fatal("node has no commitment under the issuer's correlation id")
	}
	want := w.clk.Now().Add(10 * time.Minute)
	if !expiration.Equal(want) {
		t.Errorf("commitment expiration = %v, want %v", expiration, want)
	}
}

func TestFulfillmentRoundtrip(t *testing.T) {
	w := newWorld(t)

	var delivered []byte
	w.receiver.Handle(volumeMethod, func(ctx context.Context, id ref.CorrelationID, result []byte) error {
		delivered = append([]byte{}, result...)
		return nil
	})

	id := w.sendVolumeRequest(t, 100)

	result := []byte{0x1A, 0x00, 0x0F, 0x42, 0x40} // CBOR 1000000
	if err := w.node.Fulfill(context.Background(), id, result); err != nil {
		t.Fatalf("node.Fulfill: %v", err)
	}
	if string(delivered) != string(result) {
		t.Errorf("callback received %x, want %x", delivered, result)
	}
	if w.manager.PendingCount() != 0 {
		t.Error("issuer still has a pending entry after fulfillment")
	}
	if w.node.CommitmentCount() != 0 {
		t.Error("node still has a commitment after fulfillment")
	}

	// Exactly-once: the node has nothing left to deliver.
	if err := w.node.Fulfill(context.Background(), id, result); err == nil {
		t.Error("second fulfillment should fail")
	}
}

func TestImpostorNodeCannotFulfill(t *testing.T) {
	w := newWorld(t)
	ran := false
	w.receiver.Handle(volumeMethod, func(ctx context.Context, id ref.CorrelationID, result []byte) error {
		ran = true
		return nil
	})

	id := w.sendVolumeRequest(t, 100)

	impostor := ref.MustParseAddress("4444444444444444444444444444444444444444")
	err := w.receiver.Fulfill(context.Background(), impostor, volumeMethod, id, []byte{0x01})
	if !lifecycle.IsProtocolError(err, lifecycle.CodeUnauthorizedFulfillment) {
		t.Fatalf("impostor fulfillment = %v, want UNAUTHORIZED_FULFILLMENT", err)
	}
	if ran {
		t.Error("callback ran for an impostor")
	}

	// The real oracle still can.
	if err := w.node.Fulfill(context.Background(), id, []byte{0x01}); err != nil {
		t.Errorf("genuine fulfillment after impostor attempt: %v", err)
	}
}

func TestCancellationBeforeExpiryIsRefused(t *testing.T) {
	w := newWorld(t)
	id := w.sendVolumeRequest(t, 100)

	expiration, _ := w.node.Expiration(id)
	err := w.manager.Cancel(context.Background(), id, big.NewInt(100), volumeMethod, uint64(expiration.Unix()))
	if !lifecycle.IsProtocolError(err, lifecycle.CodeCancelRejected) {
		t.Fatalf("early Cancel = %v, want CANCEL_REJECTED", err)
	}

	// Nothing changed anywhere: entry restored, commitment intact,
	// no refund.
	if _, ok := w.manager.PendingOracle(id); !ok {
		t.Error("refused cancel consumed the issuer's pending entry")
	}
	if w.node.CommitmentCount() != 1 {
		t.Error("refused cancel consumed the node's commitment")
	}
	if got := w.ledger.Balance(issuerAddress); got.Cmp(big.NewInt(900)) != 0 {
		t.Errorf("issuer balance = %s, want 900 (no refund)", got)
	}
}

func TestCancellationAfterExpiryRefunds(t *testing.T) {
	w := newWorld(t)
	id := w.sendVolumeRequest(t, 100)
	expiration, _ := w.node.Expiration(id)

	w.clk.Advance(11 * time.Minute)

	if err := w.manager.Cancel(context.Background(), id, big.NewInt(100), volumeMethod, uint64(expiration.Unix())); err != nil {
		t.Fatalf("Cancel after expiry: %v", err)
	}
	if got := w.ledger.Balance(issuerAddress); got.Cmp(big.NewInt(1000)) != 0 {
		t.Errorf("issuer balance = %s, want 1000 after refund", got)
	}
	if got := w.ledger.Balance(oracleAddress); got.Sign() != 0 {
		t.Errorf("oracle balance = %s, want 0 after refund", got)
	}
	if w.node.CommitmentCount() != 0 {
		t.Error("cancelled commitment still recorded on the node")
	}

	// Fulfillment after cancellation finds nothing on either side.
	if err := w.node.Fulfill(context.Background(), id, []byte{0x01}); err == nil {
		t.Error("fulfillment after cancellation should fail")
	}
}

func TestCancellationWithWrongTermsIsRefused(t *testing.T) {
	w := newWorld(t)
	id := w.sendVolumeRequest(t, 100)
	expiration, _ := w.node.Expiration(id)
	w.clk.Advance(11 * time.Minute)

	// Wrong payment amount.
	err := w.manager.Cancel(context.Background(), id, big.NewInt(50), volumeMethod, uint64(expiration.Unix()))
	if !lifecycle.IsProtocolError(err, lifecycle.CodeCancelRejected) {
		t.Errorf("Cancel with wrong payment = %v, want CANCEL_REJECTED", err)
	}

	// Wrong recorded expiration.
	err = w.manager.Cancel(context.Background(), id, big.NewInt(100), volumeMethod, uint64(expiration.Unix())+1)
	if !lifecycle.IsProtocolError(err, lifecycle.CodeCancelRejected) {
		t.Errorf("Cancel with wrong expiration = %v, want CANCEL_REJECTED", err)
	}

	// Correct terms still work after the failed attempts.
	if err := w.manager.Cancel(context.Background(), id, big.NewInt(100), volumeMethod, uint64(expiration.Unix())); err != nil {
		t.Errorf("Cancel with correct terms: %v", err)
	}
}

func TestDuplicateDeliveryIsRejectedByNode(t *testing.T) {
	w := newWorld(t)
	w.sendVolumeRequest(t, 100)

	// Replaying the same envelope (same sender, same nonce) through
	// the ledger re-derives the same correlation id and hits the
	// node's duplicate check, which aborts the transfer entirely.
	req := request.New(volumeSpec, issuerAddress, volumeMethod)
	envelopeManager := lifecycle.NewManager(issuerAddress, w.ledger.Account(issuerAddress), w.ledger, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := envelopeManager.Send(context.Background(), oracleAddress, req, big.NewInt(10))
	if !lifecycle.IsProtocolError(err, lifecycle.CodeTransportFailure) {
		t.Fatalf("replayed nonce Send = %v, want TRANSPORT_FAILURE", err)
	}
	if got := w.ledger.Balance(issuerAddress); got.Cmp(big.NewInt(900)) != 0 {
		t.Errorf("issuer balance = %s, want 900 (replay rolled back)", got)
	}
}
