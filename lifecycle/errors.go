// Copyright 2026 The Oraclelink Authors
// SPDX-License-Identifier: Apache-2.0

package lifecycle

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a protocol failure.
type ErrorCode string

// Protocol failure classes. Every failed transition maps to exactly
// one of these; recovery policy (retry, alternate oracle, resubmit)
// is the caller's.
const (
	// CodeTransportFailure: Send could not deliver payment and
	// payload. No pending entry was created.
	CodeTransportFailure ErrorCode = "TRANSPORT_FAILURE"

	// CodeDuplicateRequest: RegisterExternal was invoked for a
	// correlation id that is already pending.
	CodeDuplicateRequest ErrorCode = "DUPLICATE_REQUEST"

	// CodeUnauthorizedFulfillment: Fulfill was invoked by a
	// participant other than the recorded oracle. The pending entry
	// is untouched.
	CodeUnauthorizedFulfillment ErrorCode = "UNAUTHORIZED_FULFILLMENT"

	// CodeUnknownRequest: Fulfill or Cancel targeted a correlation id
	// with no outstanding request (never issued, or already resolved).
	CodeUnknownRequest ErrorCode = "UNKNOWN_REQUEST"

	// CodeCancelRejected: the remote oracle refused the cancellation.
	// The pending entry is restored.
	CodeCancelRejected ErrorCode = "CANCEL_REJECTED"
)

// ProtocolError is a classified request lifecycle failure.
//
//	var protocolErr *lifecycle.ProtocolError
//	if errors.As(err, &protocolErr) {
//	    if protocolErr.Code == lifecycle.CodeUnknownRequest { ... }
//	}
type ProtocolError struct {
	Code    ErrorCode
	Message string
	// Err is the underlying cause, if any (transport errors).
	Err error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// IsProtocolError checks whether err is a *ProtocolError with the
// given code.
func IsProtocolError(err error, code ErrorCode) bool {
	var protocolErr *ProtocolError
	if errors.As(err, &protocolErr) {
		return protocolErr.Code == code
	}
	return false
}
