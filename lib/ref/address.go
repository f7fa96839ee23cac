// Copyright 2026 The Oraclelink Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"encoding/hex"
	"fmt"
)

// AddressSize is the length of a participant address in bytes.
const AddressSize = 20

// Address identifies a protocol participant: a request issuer, a
// callback target, or an oracle. Addresses are opaque 20-byte values;
// the canonical text form is 40 lowercase hex characters.
//
// The zero value is the "no participant" placeholder used for the
// sender/amount overrides in outgoing payloads; use IsZero to check.
type Address [AddressSize]byte

// ParseAddress parses the canonical hex form of an address.
func ParseAddress(raw string) (Address, error) {
	var address Address
	decoded, err := hex.DecodeString(raw)
	if err != nil {
		return address, fmt.Errorf("parsing address: %w", err)
	}
	if len(decoded) != AddressSize {
		return address, fmt.Errorf("address is %d bytes, want %d", len(decoded), AddressSize)
	}
	copy(address[:], decoded)
	return address, nil
}

// MustParseAddress is like ParseAddress but panics on error. Use in
// tests and static initialization where the input is known-valid.
func MustParseAddress(raw string) Address {
	address, err := ParseAddress(raw)
	if err != nil {
		panic(fmt.Sprintf("ref.MustParseAddress(%q): %v", raw, err))
	}
	return address
}

// String returns the canonical lowercase hex form.
func (a Address) String() string { return hex.EncodeToString(a[:]) }

// IsZero reports whether the address is the zero placeholder.
func (a Address) IsZero() bool { return a == Address{} }

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(data []byte) error {
	parsed, err := ParseAddress(string(data))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
