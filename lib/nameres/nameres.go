// Copyright 2026 The Oraclelink Authors
// SPDX-License-Identifier: Apache-2.0

// Package nameres resolves human-readable participant names to
// addresses. Resolution happens only at setup time — the request,
// fulfillment, and cancellation paths deal exclusively in addresses.
package nameres

import (
	"fmt"
	"sort"

	"github.com/oraclelink/oraclelink/lib/ref"
)

// Resolver maps a name like "oracle.main" to a participant address.
type Resolver interface {
	Resolve(name string) (ref.Address, error)
}

// Static is a Resolver over a fixed table, typically loaded from
// configuration.
type Static struct {
	entries map[string]ref.Address
}

// NewStatic creates a Static resolver from a name → address table.
// The table is copied.
func NewStatic(entries map[string]ref.Address) *Static {
	copied := make(map[string]ref.Address, len(entries))
	for name, address := range entries {
		copied[name] = address
	}
	return &Static{entries: copied}
}

// Resolve implements [Resolver]. Unknown names report the known ones
// so configuration typos are diagnosable.
func (s *Static) Resolve(name string) (ref.Address, error) {
	address, ok := s.entries[name]
	if !ok {
		return ref.Address{}, fmt.Errorf("unknown name %q (known: %v)", name, s.names())
	}
	return address, nil
}

// names returns the known names in sorted order.
func (s *Static) names() []string {
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
