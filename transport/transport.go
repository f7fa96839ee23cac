// Copyright 2026 The Oraclelink Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"math/big"

	"github.com/oraclelink/oraclelink/lib/ref"
	"github.com/oraclelink/oraclelink/lib/schema"
)

// TokenTransport moves value on behalf of one participant. An
// implementation is bound to its sender identity; the lifecycle
// manager holds one bound to the issuer.
type TokenTransport interface {
	// Transfer delivers amount to destination without invoking a
	// receipt hook. Used for refunds.
	Transfer(ctx context.Context, destination ref.Address, amount *big.Int) error

	// TransferAndCall atomically delivers amount to destination and
	// invokes its receipt hook with payload. If the hook fails, the
	// transfer is rolled back and the error returned.
	TransferAndCall(ctx context.Context, destination ref.Address, amount *big.Int, payload []byte) error
}

// TransferReceiver is the receipt hook a destination registers to be
// notified of incoming TransferAndCall deliveries. Sender and amount
// are the transport's own observations, not payload contents. A hook
// error aborts the whole transfer.
type TransferReceiver interface {
	OnTokenTransfer(ctx context.Context, sender ref.Address, amount *big.Int, payload []byte) error
}

// OracleEndpoint is the oracle's directly callable surface: request
// registration (normally reached through the receipt hook) and
// cancellation (called directly by the lifecycle manager).
type OracleEndpoint interface {
	// OracleRequest registers a request whose sender and amount have
	// already been authenticated by the transport.
	OracleRequest(ctx context.Context, envelope *schema.OracleRequest) error

	// CancelOracleRequest releases the payment reserved for an
	// unfulfilled request back to the requester named in the
	// envelope.
	CancelOracleRequest(ctx context.Context, envelope *schema.CancelOracleRequest) error
}

// Directory resolves an oracle address to its directly callable
// endpoint. The lifecycle manager uses it for cancellations.
type Directory interface {
	Oracle(address ref.Address) (OracleEndpoint, error)
}
