// Copyright 2026 The Oraclelink Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the YAML client configuration: the issuer
// identity, the spec to request, the oracle to ask, and the name
// table backing setup-time resolution.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/oraclelink/oraclelink/lib/nameres"
	"github.com/oraclelink/oraclelink/lib/ref"
)

// Config is the client configuration file.
//
// Oracle may be either a literal hex address or a name from Names;
// ResolveOracle handles both. Names exist so deployments can swap
// participants without editing every reference.
type Config struct {
	// Issuer is the hex address of the requesting identity.
	Issuer string `yaml:"issuer"`

	// SpecID is the hex id of the oracle job specification to run.
	SpecID string `yaml:"spec_id"`

	// Oracle is the oracle to send requests to: a hex address or a
	// key of Names.
	Oracle string `yaml:"oracle"`

	// Names maps human-readable participant names to hex addresses.
	Names map[string]string `yaml:"names,omitempty"`
}

// Load reads and validates the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var loaded Config
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := loaded.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &loaded, nil
}

// Validate checks that every field parses. Called by Load; exposed
// for configurations built in code.
func (c *Config) Validate() error {
	if _, err := ref.ParseAddress(c.Issuer); err != nil {
		return fmt.Errorf("issuer: %w", err)
	}
	if _, err := ref.ParseSpecID(c.SpecID); err != nil {
		return fmt.Errorf("spec_id: %w", err)
	}
	if c.Oracle == "" {
		return fmt.Errorf("oracle is required")
	}
	for name, raw := range c.Names {
		if _, err := ref.ParseAddress(raw); err != nil {
			return fmt.Errorf("names[%q]: %w", name, err)
		}
	}
	if _, err := c.ResolveOracle(); err != nil {
		return fmt.Errorf("oracle: %w", err)
	}
	return nil
}

// IssuerAddress returns the parsed issuer identity.
func (c *Config) IssuerAddress() ref.Address {
	return ref.MustParseAddress(c.Issuer)
}

// Spec returns the parsed spec id.
func (c *Config) Spec() ref.SpecID {
	return ref.MustParseSpecID(c.SpecID)
}

// Resolver returns a name resolver over the Names table.
func (c *Config) Resolver() nameres.Resolver {
	entries := make(map[string]ref.Address, len(c.Names))
	for name, raw := range c.Names {
		// Validate guarantees these parse.
		entries[name] = ref.MustParseAddress(raw)
	}
	return nameres.NewStatic(entries)
}

// ResolveOracle resolves the Oracle field: a literal hex address
// wins, otherwise it is looked up in the name table.
func (c *Config) ResolveOracle() (ref.Address, error) {
	if address, err := ref.ParseAddress(c.Oracle); err == nil {
		return address, nil
	}
	return c.Resolver().Resolve(c.Oracle)
}
