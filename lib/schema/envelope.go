// Copyright 2026 The Oraclelink Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"fmt"
	"math/big"

	"github.com/oraclelink/oraclelink/lib/codec"
	"github.com/oraclelink/oraclelink/lib/ref"
)

// ArgsVersion is the version of the parameter encoding carried in
// OracleRequest.Version. Consumers reject versions they do not
// understand.
const ArgsVersion = 1

// OracleRequest is the request envelope delivered to an oracle
// through the token transport's receipt hook.
type OracleRequest struct {
	// Sender is the requesting participant. Zero on the wire; the
	// transport substitutes the true sender on delivery.
	Sender ref.Address `cbor:"sender"`

	// Amount is the payment carried with the request. Zero on the
	// wire; the transport substitutes the true transfer amount.
	Amount *big.Int `cbor:"amount"`

	// SpecID names the oracle job specification to run.
	SpecID ref.SpecID `cbor:"spec_id"`

	// CallbackTarget receives the fulfillment result.
	CallbackTarget ref.Address `cbor:"callback_target"`

	// CallbackSelector selects the callback method on the target.
	CallbackSelector ref.Selector `cbor:"callback_selector"`

	// Nonce is the issuer counter value for this request. Together
	// with the true sender it re-derives the correlation id.
	Nonce uint64 `cbor:"nonce"`

	// Version is the parameter encoding version (ArgsVersion).
	Version uint64 `cbor:"version"`

	// Params is the break-terminated, insertion-ordered CBOR map of
	// request parameters, carried verbatim.
	Params codec.RawMessage `cbor:"params"`
}

// Encode serializes the envelope to deterministic CBOR.
func (r *OracleRequest) Encode() ([]byte, error) {
	data, err := codec.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encoding oracle request envelope: %w", err)
	}
	return data, nil
}

// DecodeOracleRequest deserializes a request envelope and checks its
// parameter version.
func DecodeOracleRequest(data []byte) (*OracleRequest, error) {
	var envelope OracleRequest
	if err := codec.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decoding oracle request envelope: %w", err)
	}
	if envelope.Version != ArgsVersion {
		return nil, fmt.Errorf("unsupported parameter encoding version %d (want %d)", envelope.Version, ArgsVersion)
	}
	return &envelope, nil
}

// CancelOracleRequest asks an oracle to release the payment reserved
// for an unfulfilled request back to the requester.
type CancelOracleRequest struct {
	// CorrelationID identifies the request being cancelled.
	CorrelationID ref.CorrelationID `cbor:"correlation_id"`

	// Requester is the participant asking for the refund. The oracle
	// rejects cancellations from anyone but the original sender.
	Requester ref.Address `cbor:"requester"`

	// Payment is the amount the requester expects back. Must match
	// the oracle's recorded commitment.
	Payment *big.Int `cbor:"payment"`

	// CallbackSelector echoes the original request's callback
	// selector, binding the cancellation to the request it targets.
	CallbackSelector ref.Selector `cbor:"callback_selector"`

	// Expiration is the unix-seconds expiration the requester
	// recorded from the original request acknowledgment. The oracle
	// refuses to cancel before it passes.
	Expiration uint64 `cbor:"expiration"`
}

// Encode serializes the cancellation to deterministic CBOR.
func (c *CancelOracleRequest) Encode() ([]byte, error) {
	data, err := codec.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding cancel envelope: %w", err)
	}
	return data, nil
}

// DecodeCancelOracleRequest deserializes a cancellation envelope.
func DecodeCancelOracleRequest(data []byte) (*CancelOracleRequest, error) {
	var envelope CancelOracleRequest
	if err := codec.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decoding cancel envelope: %w", err)
	}
	return &envelope, nil
}
