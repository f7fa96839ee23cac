// Copyright 2026 The Oraclelink Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"bytes"
	"math/big"
	"strings"
	"testing"

	"github.com/oraclelink/oraclelink/lib/ref"
)

func sampleOracleRequest() *OracleRequest {
	return &OracleRequest{
		Amount:           big.NewInt(0),
		SpecID:           ref.MustParseSpecID(strings.Repeat("cd", 32)),
		CallbackTarget:   ref.MustParseAddress("0102030405060708090a0b0c0d0e0f1011121314"),
		CallbackSelector: ref.SelectorFor("fulfillVolume(bytes32,uint256)"),
		Nonce:            3,
		Version:          ArgsVersion,
		Params:           []byte{0xBF, 0x63, 'g', 'e', 't', 0x61, 'x', 0xFF},
	}
}

func TestOracleRequestRoundtrip(t *testing.T) {
	original := sampleOracleRequest()
	data, err := original.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := DecodeOracleRequest(data)
	if err != nil {
		t.Fatalf("DecodeOracleRequest: %v", err)
	}
	if decoded.SpecID != original.SpecID {
		t.Errorf("SpecID = %s, want %s", decoded.SpecID, original.SpecID)
	}
	if decoded.CallbackTarget != original.CallbackTarget {
		t.Errorf("CallbackTarget = %s, want %s", decoded.CallbackTarget, original.CallbackTarget)
	}
	if decoded.CallbackSelector != original.CallbackSelector {
		t.Errorf("CallbackSelector = %s, want %s", decoded.CallbackSelector, original.CallbackSelector)
	}
	if decoded.Nonce != original.Nonce {
		t.Errorf("Nonce = %d, want %d", decoded.Nonce, original.Nonce)
	}
	if !decoded.Sender.IsZero() {
		t.Errorf("Sender = %s, want zero override", decoded.Sender)
	}
	if !bytes.Equal(decoded.Params, original.Params) {
		t.Errorf("Params = %x, want %x", decoded.Params, original.Params)
	}
}

func TestDecodeOracleRequestRejectsUnknownVersion(t *testing.T) {
	envelope := sampleOracleRequest()
	envelope.Version = 99
	data, err := envelope.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := DecodeOracleRequest(data); err == nil {
		t.Error("DecodeOracleRequest should reject version 99")
	}
}

func TestDecodeOracleRequestRejectsGarbage(t *testing.T) {
	if _, err := DecodeOracleRequest([]byte{0x01, 0x02}); err == nil {
		t.Error("DecodeOracleRequest should reject non-envelope input")
	}
}

func TestCancelRoundtrip(t *testing.T) {
	issuer := ref.MustParseAddress("aabbccddeeff00112233445566778899aabbccdd")
	original := &CancelOracleRequest{
		CorrelationID:    ref.DeriveCorrelationID(issuer, 1),
		Requester:        issuer,
		Payment:          big.NewInt(500),
		CallbackSelector: ref.SelectorFor("fulfillVolume(bytes32,uint256)"),
		Expiration:       1_900_000_000,
	}

	data, err := original.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := DecodeCancelOracleRequest(data)
	if err != nil {
		t.Fatalf("DecodeCancelOracleRequest: %v", err)
	}
	if decoded.CorrelationID != original.CorrelationID {
		t.Errorf("CorrelationID = %s, want %s", decoded.CorrelationID, original.CorrelationID)
	}
	if decoded.Requester != original.Requester {
		t.Errorf("Requester = %s, want %s", decoded.Requester, original.Requester)
	}
	if decoded.Payment.Cmp(original.Payment) != 0 {
		t.Errorf("Payment = %s, want %s", decoded.Payment, original.Payment)
	}
	if decoded.Expiration != original.Expiration {
		t.Errorf("Expiration = %d, want %d", decoded.Expiration, original.Expiration)
	}
}
