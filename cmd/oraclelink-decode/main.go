// Copyright 2026 The Oraclelink Authors
// SPDX-License-Identifier: Apache-2.0

// oraclelink-decode prints a hex-encoded CBOR payload in diagnostic
// notation. With --envelope it decodes the payload as a request
// envelope first and prints the decoded fields alongside the
// diagnostic form of the embedded parameters.
//
// The payload comes from the first argument, or from stdin when no
// argument is given.
package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/oraclelink/oraclelink/lib/codec"
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
	var envelope bool

	flagSet := pflag.NewFlagSet("oraclelink-decode", pflag.ContinueOnError)
	flagSet.BoolVar(&envelope, "envelope", false, "decode as a request envelope")
	flagSet.BoolP("help", "h", false, "show help")

	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("oraclelink-decode")
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

	payload, err := readPayload(flagSet.Args())
	if err != nil {
		return err
	}

	if envelope {
		return decodeEnvelope(payload)
	}

	diagnostic, err := codec.Diagnose(payload)
	if err != nil {
		return fmt.Errorf("diagnosing payload: %w", err)
	}
	fmt.Println(diagnostic)
	return nil
}

// readPayload takes the hex payload from the single positional
// argument, or from stdin when there is none.
func readPayload(arguments []string) ([]byte, error) {
	var text string
	switch len(arguments) {
	case 0:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	case 1:
		text = arguments[0]
	default:
		return nil, fmt.Errorf("unexpected argument: %s", arguments[1])
	}

	text = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "0x"))
	payload, err := hex.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("payload is not hex: %w", err)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("empty payload")
	}
	return payload, nil
}

func decodeEnvelope(payload []byte) error {
	decoded, err := schema.DecodeOracleRequest(payload)
	if err != nil {
		return fmt.Errorf("decoding envelope: %w", err)
	}

	fmt.Printf("sender:            %s\n", decoded.Sender)
	fmt.Printf("amount:            %s\n", decoded.Amount)
	fmt.Printf("spec id:           %s\n", decoded.SpecID)
	fmt.Printf("callback target:   %s\n", decoded.CallbackTarget)
	fmt.Printf("callback selector: %s\n", decoded.CallbackSelector)
	fmt.Printf("nonce:             %d\n", decoded.Nonce)
	fmt.Printf("version:           %d\n", decoded.Version)

	diagnostic, err := codec.Diagnose(decoded.Params)
	if err != nil {
		return fmt.Errorf("diagnosing parameters: %w", err)
	}
	fmt.Printf("params:            %s\n", diagnostic)
	return nil
}
