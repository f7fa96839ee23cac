// Copyright 2026 The Oraclelink Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// SelectorSize is the length of a callback selector in bytes.
const SelectorSize = 4

// Selector identifies the callback method a fulfillment should
// invoke on the callback target. Selectors are derived from the
// method's signature string via [SelectorFor], so both sides of the
// protocol compute the same value without exchanging a registry.
//
// The zero value is not a valid selector; use IsZero to check.
type Selector [SelectorSize]byte

// selectorDomainKey is the BLAKE3 domain key for selector derivation.
// Fixed constant — changing it invalidates every deployed selector.
// The byte values are the ASCII encoding of the domain name, zero
// padded to 32 bytes, so the key is inspectable in hex dumps.
var selectorDomainKey = [32]byte{
	'o', 'r', 'a', 'c', 'l', 'e', 'l', 'i', 'n', 'k', '.',
	's', 'e', 'l', 'e', 'c', 't', 'o', 'r', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// SelectorFor derives the selector for a callback method signature,
// for example "fulfillVolume(bytes32,uint256)": the first four bytes
// of the BLAKE3 keyed hash of the signature under the selector
// domain key.
func SelectorFor(signature string) Selector {
	hasher, err := blake3.NewKeyed(selectorDomainKey[:])
	if err != nil {
		panic("ref: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write([]byte(signature))
	var selector Selector
	copy(selector[:], hasher.Sum(nil))
	return selector
}

// ParseSelector parses the canonical 8-character hex form.
func ParseSelector(raw string) (Selector, error) {
	var selector Selector
	decoded, err := hex.DecodeString(raw)
	if err != nil {
		return selector, fmt.Errorf("parsing selector: %w", err)
	}
	if len(decoded) != SelectorSize {
		return selector, fmt.Errorf("selector is %d bytes, want %d", len(decoded), SelectorSize)
	}
	copy(selector[:], decoded)
	return selector, nil
}

// MustParseSelector is like ParseSelector but panics on error.
func MustParseSelector(raw string) Selector {
	selector, err := ParseSelector(raw)
	if err != nil {
		panic(fmt.Sprintf("ref.MustParseSelector(%q): %v", raw, err))
	}
	return selector
}

// String returns the canonical lowercase hex form.
func (s Selector) String() string { return hex.EncodeToString(s[:]) }

// IsZero reports whether the selector is the zero value.
func (s Selector) IsZero() bool { return s == Selector{} }

// MarshalText implements encoding.TextMarshaler.
func (s Selector) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Selector) UnmarshalText(data []byte) error {
	parsed, err := ParseSelector(string(data))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
