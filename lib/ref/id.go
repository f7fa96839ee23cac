// Copyright 2026 The Oraclelink Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// IDSize is the length of spec and correlation identifiers in bytes.
const IDSize = 32

// SpecID identifies the oracle job specification a request asks to
// run. Assigned out of band when the job is defined; opaque here.
type SpecID [IDSize]byte

// CorrelationID links an outstanding request to the single
// fulfillment or cancellation call entitled to resolve it. Minted by
// [DeriveCorrelationID] at send time; opaque everywhere else.
type CorrelationID [IDSize]byte

// requestDomainKey is the BLAKE3 domain key for correlation id
// derivation. Fixed constant — changing it breaks correlation between
// already-issued requests and their fulfillments. ASCII domain name,
// zero padded to 32 bytes.
var requestDomainKey = [32]byte{
	'o', 'r', 'a', 'c', 'l', 'e', 'l', 'i', 'n', 'k', '.',
	'r', 'e', 'q', 'u', 'e', 's', 't', '.', 'i', 'd', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// DeriveCorrelationID mints the correlation id for the issuer's
// nonce'th request: the BLAKE3 keyed hash of the issuer address
// followed by the big-endian nonce. The issuer address namespaces the
// id space per issuer; the strictly increasing nonce makes ids unique
// within it. The oracle side re-derives the same id from the sender
// and nonce it observes, so the id never travels in the payload.
func DeriveCorrelationID(issuer Address, nonce uint64) CorrelationID {
	hasher, err := blake3.NewKeyed(requestDomainKey[:])
	if err != nil {
		panic("ref: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(issuer[:])
	var nonceBytes [8]byte
	for i := 7; i >= 0; i-- {
		nonceBytes[i] = byte(nonce)
		nonce >>= 8
	}
	hasher.Write(nonceBytes[:])
	var id CorrelationID
	copy(id[:], hasher.Sum(nil))
	return id
}

// ParseSpecID parses the canonical 64-character hex form.
func ParseSpecID(raw string) (SpecID, error) {
	var id SpecID
	if err := parseID(raw, id[:], "spec id"); err != nil {
		return SpecID{}, err
	}
	return id, nil
}

// MustParseSpecID is like ParseSpecID but panics on error.
func MustParseSpecID(raw string) SpecID {
	id, err := ParseSpecID(raw)
	if err != nil {
		panic(fmt.Sprintf("ref.MustParseSpecID(%q): %v", raw, err))
	}
	return id
}

// String returns the canonical lowercase hex form.
func (id SpecID) String() string { return hex.EncodeToString(id[:]) }

// IsZero reports whether the spec id is the zero value.
func (id SpecID) IsZero() bool { return id == SpecID{} }

// MarshalText implements encoding.TextMarshaler.
func (id SpecID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *SpecID) UnmarshalText(data []byte) error {
	return parseID(string(data), id[:], "spec id")
}

// ParseCorrelationID parses the canonical 64-character hex form.
func ParseCorrelationID(raw string) (CorrelationID, error) {
	var id CorrelationID
	if err := parseID(raw, id[:], "correlation id"); err != nil {
		return CorrelationID{}, err
	}
	return id, nil
}

// MustParseCorrelationID is like ParseCorrelationID but panics on
// error.
func MustParseCorrelationID(raw string) CorrelationID {
	id, err := ParseCorrelationID(raw)
	if err != nil {
		panic(fmt.Sprintf("ref.MustParseCorrelationID(%q): %v", raw, err))
	}
	return id
}

// String returns the canonical lowercase hex form.
func (id CorrelationID) String() string { return hex.EncodeToString(id[:]) }

// IsZero reports whether the correlation id is the zero value.
func (id CorrelationID) IsZero() bool { return id == CorrelationID{} }

// MarshalText implements encoding.TextMarshaler.
func (id CorrelationID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *CorrelationID) UnmarshalText(data []byte) error {
	return parseID(string(data), id[:], "correlation id")
}

// parseID decodes a 64-character hex string into target, which must
// be a 32-byte slice.
func parseID(raw string, target []byte, kind string) error {
	decoded, err := hex.DecodeString(raw)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", kind, err)
	}
	if len(decoded) != IDSize {
		return fmt.Errorf("%s is %d bytes, want %d", kind, len(decoded), IDSize)
	}
	copy(target, decoded)
	return nil
}
