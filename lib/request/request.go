// Copyright 2026 The Oraclelink Authors
// SPDX-License-Identifier: Apache-2.0

package request

import (
	"fmt"
	"math/big"

	"github.com/oraclelink/oraclelink/lib/cborwire"
	"github.com/oraclelink/oraclelink/lib/codec"
	"github.com/oraclelink/oraclelink/lib/ref"
	"github.com/oraclelink/oraclelink/lib/wirebuf"
)

// Request is an oracle request under construction. Create one with
// [New], populate parameters with the Add methods, and hand it to the
// lifecycle manager's Send, which assigns the nonce, finalizes the
// parameter stream, and dispatches it. A Request is consumed by
// exactly one successful Send.
//
// Request is not safe for concurrent use.
type Request struct {
	// SpecID names the oracle job specification to run. Fixed at
	// construction; it travels in the payload envelope, not in the
	// parameter map.
	SpecID ref.SpecID

	// CallbackTarget is the participant whose callback receives the
	// fulfillment result.
	CallbackTarget ref.Address

	// CallbackSelector selects the callback method on the target.
	CallbackSelector ref.Selector

	// Nonce is the issuer counter value assigned by Send. Zero until
	// then; nonces are minted starting at 1.
	Nonce uint64

	// params holds the open indefinite-length parameter map, without
	// its terminating break.
	params *wirebuf.Buffer
}

// New returns a Request for the given spec with an opened, empty
// parameter map.
func New(specID ref.SpecID, callbackTarget ref.Address, callbackSelector ref.Selector) *Request {
	params := wirebuf.New()
	cborwire.StartIndefiniteMap(params)
	return &Request{
		SpecID:           specID,
		CallbackTarget:   callbackTarget,
		CallbackSelector: callbackSelector,
		params:           params,
	}
}

// Add appends a text-valued parameter.
func (r *Request) Add(key, value string) {
	cborwire.AppendText(r.params, key)
	cborwire.AppendText(r.params, value)
}

// AddBytes appends a byte-string-valued parameter.
func (r *Request) AddBytes(key string, value []byte) {
	cborwire.AppendText(r.params, key)
	cborwire.AppendBytes(r.params, value)
}

// AddInt appends a signed-integer-valued parameter.
func (r *Request) AddInt(key string, value int64) {
	cborwire.AppendText(r.params, key)
	cborwire.AppendInt(r.params, value)
}

// AddUint appends an unsigned-integer-valued parameter.
func (r *Request) AddUint(key string, value uint64) {
	cborwire.AppendText(r.params, key)
	cborwire.AppendUint(r.params, value)
}

// AddBigInt appends an arbitrary-precision-integer-valued parameter.
// Values outside the 64-bit ranges encode as CBOR bignums; the
// magnitude must fit in 256 bits.
func (r *Request) AddBigInt(key string, value *big.Int) {
	cborwire.AppendText(r.params, key)
	cborwire.AppendBigInt(r.params, value)
}

// AddStringArray appends a parameter whose value is an
// indefinite-length array of text strings.
func (r *Request) AddStringArray(key string, values []string) {
	cborwire.AppendText(r.params, key)
	cborwire.StartIndefiniteArray(r.params)
	for _, value := range values {
		cborwire.AppendText(r.params, value)
	}
	cborwire.EndIndefinite(r.params)
}

// SetParams replaces the parameter buffer wholesale with a
// pre-encoded stream: an opened indefinite-length map body without
// its terminating break, exactly what Params returns. For callers
// that assembled parameters elsewhere. The stream is validated by
// checking that it break-terminates into well-formed CBOR.
func (r *Request) SetParams(raw []byte) error {
	probe := wirebuf.NewWithCapacity(len(raw) + 1)
	probe.Append(raw)
	cborwire.EndIndefinite(probe)
	if err := codec.Wellformed(probe.Bytes()); err != nil {
		return fmt.Errorf("replacement parameter stream is not a well-formed open map: %w", err)
	}
	replacement := wirebuf.NewWithCapacity(len(raw))
	replacement.Append(raw)
	r.params = replacement
	return nil
}

// Params returns the current parameter stream: the open map without
// its terminating break. The slice shares the request's buffer.
func (r *Request) Params() []byte {
	return r.params.Bytes()
}

// EncodeParams returns an independent, break-terminated copy of the
// parameter stream — a complete CBOR map ready for the payload
// envelope. The request itself is not mutated, so a send aborted by
// transport failure can be retried.
func (r *Request) EncodeParams() []byte {
	encoded := make([]byte, r.params.Len()+1)
	copy(encoded, r.params.Bytes())
	encoded[len(encoded)-1] = 0xFF // CBOR break
	return encoded
}
