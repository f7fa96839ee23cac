// Copyright 2026 The Oraclelink Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// encMode is the CBOR encoder for payload envelopes: Core
// Deterministic Encoding, with indefinite-length items permitted so
// pre-encoded parameter streams pass through as RawMessage values.
var encMode cbor.EncMode

// decMode is the CBOR decoder configured to accept standard CBOR,
// including the indefinite-length containers and bignum tags the
// parameter wire format uses.
var decMode cbor.DecMode

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	// Identifier types (ref.Address, ref.Selector, ref.SpecID, ...)
	// implement encoding.TextMarshaler and must serialize as CBOR
	// text strings. Without this they would serialize as CBOR arrays
	// of their underlying bytes, doubling the wire size.
	encOptions.TextMarshaler = cbor.TextMarshalerTextString
	// The deterministic profile forbids indefinite-length items, but
	// the request parameter stream is an insertion-ordered indefinite
	// map by design. It is embedded as a RawMessage, which the
	// encoder validates against this setting.
	encOptions.IndefLength = cbor.IndefLengthAllowed
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// Envelope map keys are always text. When decoding into an
		// any-typed target, pick map[string]any rather than the CBOR
		// default map[interface{}]interface{}.
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
		// Mirror of the TextMarshaler setting above, for round-trip
		// correctness of the ref identifier types.
		TextUnmarshaler: cbor.TextUnmarshalerTextString,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v to deterministic CBOR.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// RawMessage is a raw encoded CBOR value. Envelopes use it to carry
// the parameter stream without re-encoding it.
type RawMessage = cbor.RawMessage

// Diagnose returns the CBOR diagnostic notation (RFC 8949 §8) for
// the entire contents of data. Used by the inspection CLIs.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}

// Wellformed reports whether data is a single well-formed CBOR data
// item. Send-time validation of externally supplied parameter
// buffers goes through this.
func Wellformed(data []byte) error {
	return cbor.Wellformed(data)
}
