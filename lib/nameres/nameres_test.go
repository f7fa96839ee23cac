// Copyright 2026 The Oraclelink Authors
// SPDX-License-Identifier: Apache-2.0

package nameres

import (
	"strings"
	"testing"

	"github.com/oraclelink/oraclelink/lib/ref"
)

func TestResolve(t *testing.T) {
	want := ref.MustParseAddress("2222222222222222222222222222222222222222")
	resolver := NewStatic(map[string]ref.Address{"oracle.main": want})

	got, err := resolver.Resolve("oracle.main")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != want {
		t.Errorf("Resolve = %s, want %s", got, want)
	}
}

func TestResolveUnknownNameListsKnownOnes(t *testing.T) {
	resolver := NewStatic(map[string]ref.Address{
		"oracle.main": ref.MustParseAddress("2222222222222222222222222222222222222222"),
	})
	_, err := resolver.Resolve("oracle.backup")
	if err == nil {
		t.Fatal("Resolve should fail for an unknown name")
	}
	if !strings.Contains(err.Error(), "oracle.main") {
		t.Errorf("error %q should list the known names", err)
	}
}

func TestTableIsCopied(t *testing.T) {
	entries := map[string]ref.Address{
		"token": ref.MustParseAddress("1111111111111111111111111111111111111111"),
	}
	resolver := NewStatic(entries)
	delete(entries, "token")

	if _, err := resolver.Resolve("token"); err != nil {
		t.Errorf("mutating the source table affected the resolver: %v", err)
	}
}
