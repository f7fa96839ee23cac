// Copyright 2026 The Oraclelink Authors
// SPDX-License-Identifier: Apache-2.0

// oraclelink-request builds an oracle request from command-line flags
// and prints its encoded parameter payload, both as hex and in CBOR
// diagnostic notation. Useful for checking what a client would put on
// the wire without running a ledger.
//
// The issuer, spec id, and oracle can come from a YAML config file
// (--config) or be given directly; direct flags win.
package main

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/oraclelink/oraclelink/lib/codec"
	"github.com/oraclelink/oraclelink/lib/config"
	"github.com/oraclelink/oraclelink/lib/ref"
	"github.com/oraclelink/oraclelink/lib/request"
	"github.com/oraclelink/oraclelink/lib/schema"
	"github.com/oraclelink/oraclelink/lib/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var issuerFlag string
	var specFlag string
	var method string
	var params []string
	var intParams []string
	var arrayParams []string
	var envelope bool

	flagSet := pflag.NewFlagSet("oraclelink-request", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "YAML client config supplying issuer and spec id")
	flagSet.StringVar(&issuerFlag, "issuer", "", "issuer address (hex, overrides config)")
	flagSet.StringVar(&specFlag, "spec", "", "spec id (hex, overrides config)")
	flagSet.StringVar(&method, "method", "", "callback method signature, e.g. \"fulfill(bytes32,uint256)\"")
	flagSet.StringArrayVar(&params, "param", nil, "string parameter as key=value (repeatable, order preserved)")
	flagSet.StringArrayVar(&intParams, "param-int", nil, "integer parameter as key=value (repeatable)")
	flagSet.StringArrayVar(&arrayParams, "param-array", nil, "string-array parameter as key=a,b,c (repeatable)")
	flagSet.BoolVar(&envelope, "envelope", false, "print the full request envelope instead of just the parameters")
	flagSet.BoolP("help", "h", false, "show help")

	// Handle --version before flag parsing to match the other binaries.
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("oraclelink-request")
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		flagSet.PrintDefaults()
		return nil
	}
	if arguments := flagSet.Args(); len(arguments) > 0 {
		return fmt.Errorf("unexpected argument: %s", arguments[0])
	}

	issuer, spec, err := resolveIdentity(configPath, issuerFlag, specFlag)
	if err != nil {
		return err
	}
	if method == "" {
		return fmt.Errorf("--method is required")
	}

	req := request.New(spec, issuer, ref.SelectorFor(method))
	if err := addParameters(req, params, intParams, arrayParams); err != nil {
		return err
	}

	payload := req.EncodeParams()
	if envelope {
		return printEnvelope(req, payload)
	}
	return printPayload(payload)
}

// resolveIdentity combines the config file (if any) with the direct
// flags. Both the issuer and the spec id must come from somewhere.
func resolveIdentity(configPath, issuerFlag, specFlag string) (ref.Address, ref.SpecID, error) {
	var issuer ref.Address
	var spec ref.SpecID

	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return issuer, spec, err
		}
		issuer = loaded.IssuerAddress()
		spec = loaded.Spec()
	}
	if issuerFlag != "" {
		parsed, err := ref.ParseAddress(issuerFlag)
		if err != nil {
			return issuer, spec, fmt.Errorf("--issuer: %w", err)
		}
		issuer = parsed
	}
	if specFlag != "" {
		parsed, err := ref.ParseSpecID(specFlag)
		if err != nil {
			return issuer, spec, fmt.Errorf("--spec: %w", err)
		}
		spec = parsed
	}

	if issuer.IsZero() {
		return issuer, spec, fmt.Errorf("no issuer: give --issuer or --config")
	}
	if spec.IsZero() {
		return issuer, spec, fmt.Errorf("no spec id: give --spec or --config")
	}
	return issuer, spec, nil
}

// addParameters applies the --param* flags in their given order within
// each kind. Integer values too large for int64 become bignums.
func addParameters(req *request.Request, params, intParams, arrayParams []string) error {
	for _, pair := range params {
		key, value, err := splitPair(pair)
		if err != nil {
			return fmt.Errorf("--param: %w", err)
		}
		req.Add(key, value)
	}
	for _, pair := range intParams {
		key, value, err := splitPair(pair)
		if err != nil {
			return fmt.Errorf("--param-int: %w", err)
		}
		number, ok := new(big.Int).SetString(value, 10)
		if !ok {
			return fmt.Errorf("--param-int %s: %q is not a decimal integer", key, value)
		}
		req.AddBigInt(key, number)
	}
	for _, pair := range arrayParams {
		key, value, err := splitPair(pair)
		if err != nil {
			return fmt.Errorf("--param-array: %w", err)
		}
		req.AddStringArray(key, strings.Split(value, ","))
	}
	return nil
}

func splitPair(pair string) (key, value string, err error) {
	key, value, found := strings.Cut(pair, "=")
	if !found || key == "" {
		return "", "", fmt.Errorf("%q is not key=value", pair)
	}
	return key, value, nil
}

func printPayload(payload []byte) error {
	diagnostic, err := codec.Diagnose(payload)
	if err != nil {
		return fmt.Errorf("diagnosing payload: %w", err)
	}
	fmt.Printf("params:     %s\n", hex.EncodeToString(payload))
	fmt.Printf("diagnostic: %s\n", diagnostic)
	return nil
}

// printEnvelope shows the full OracleRequest envelope as a direct
// caller would encode it: sender and amount zero, to be substituted
// from the observed transfer on the oracle side.
func printEnvelope(req *request.Request, payload []byte) error {
	wrapped := schema.OracleRequest{
		Amount:           new(big.Int),
		SpecID:           req.SpecID,
		CallbackTarget:   req.CallbackTarget,
		CallbackSelector: req.CallbackSelector,
		Version:          schema.ArgsVersion,
		Params:           codec.RawMessage(payload),
	}
	encoded, err := wrapped.Encode()
	if err != nil {
		return fmt.Errorf("encoding envelope: %w", err)
	}
	diagnostic, err := codec.Diagnose(encoded)
	if err != nil {
		return fmt.Errorf("diagnosing envelope: %w", err)
	}
	fmt.Printf("envelope:   %s\n", hex.EncodeToString(encoded))
	fmt.Printf("diagnostic: %s\n", diagnostic)
	return nil
}
