// Copyright 2026 The Oraclelink Authors
// SPDX-License-Identifier: Apache-2.0

package wirebuf

import (
	"bytes"
	"testing"
)

func TestAppendByte(t *testing.T) {
	buffer := New()
	buffer.AppendByte(0xAB)
	buffer.AppendByte(0xCD)

	if got, want := buffer.Bytes(), []byte{0xAB, 0xCD}; !bytes.Equal(got, want) {
		t.Errorf("Bytes() = %x, want %x", got, want)
	}
	if buffer.Len() != 2 {
		t.Errorf("Len() = %d, want 2", buffer.Len())
	}
}

func TestAppendPreservesExistingBytes(t *testing.T) {
	buffer := New()
	first := []byte("the first chunk of appended data")
	second := []byte("the second chunk, forcing growth past one word")
	buffer.Append(first)
	buffer.Append(second)

	want := append(append([]byte{}, first...), second...)
	if !bytes.Equal(buffer.Bytes(), want) {
		t.Errorf("Bytes() = %q, want %q", buffer.Bytes(), want)
	}
}

func TestGrowthDoublesAndWordAligns(t *testing.T) {
	buffer := New()

	// First append establishes a 32-byte word.
	buffer.AppendByte(1)
	if got := cap(buffer.data); got != 32 {
		t.Fatalf("capacity after first append = %d, want 32", got)
	}

	// Filling the word and appending one more byte doubles.
	buffer.Append(make([]byte, 31))
	buffer.AppendByte(2)
	if got := cap(buffer.data); got != 64 {
		t.Errorf("capacity after crossing word boundary = %d, want 64", got)
	}
}

func TestGrowthJumpsToRequiredLength(t *testing.T) {
	buffer := New()
	buffer.AppendByte(1)

	// A large append exceeds double the current capacity: capacity
	// jumps straight to the required length, word-aligned.
	buffer.Append(make([]byte, 1000))
	if buffer.Len() != 1001 {
		t.Fatalf("Len() = %d, want 1001", buffer.Len())
	}
	if got := cap(buffer.data); got != 1024 {
		t.Errorf("capacity = %d, want 1024 (1001 rounded up to 32-byte word)", got)
	}
}

func TestAppendUintWidths(t *testing.T) {
	tests := []struct {
		name  string
		value uint64
		width int
		want  []byte
	}{
		{"one byte", 0x12, 1, []byte{0x12}},
		{"two bytes padded", 0x12, 2, []byte{0x00, 0x12}},
		{"four bytes", 0xDEADBEEF, 4, []byte{0xDE, 0xAD, 0xBE, 0xEF}},
		{"eight bytes", 0x0102030405060708, 8, []byte{1, 2, 3, 4, 5, 6, 7, 8}},
		{
			"thirty-two bytes left pads with zeros", 0xFFFF, 32,
			append(make([]byte, 30), 0xFF, 0xFF),
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			buffer := New()
			buffer.AppendUint(test.value, test.width)
			if !bytes.Equal(buffer.Bytes(), test.want) {
				t.Errorf("AppendUint(%#x, %d) = %x, want %x", test.value, test.width, buffer.Bytes(), test.want)
			}
		})
	}
}

func TestAppendUintInvalidWidthPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("AppendUint with width 3 should panic")
		}
	}()
	New().AppendUint(1, 3)
}

func TestCloneIsIndependent(t *testing.T) {
	buffer := New()
	buffer.Append([]byte{1, 2, 3})
	clone := buffer.Clone()
	buffer.Append([]byte{4})

	if !bytes.Equal(clone, []byte{1, 2, 3}) {
		t.Errorf("Clone() mutated by later append: %x", clone)
	}
}

func TestZeroValueIsUsable(t *testing.T) {
	var buffer Buffer
	buffer.Append([]byte("zero value"))
	if string(buffer.Bytes()) != "zero value" {
		t.Errorf("Bytes() = %q, want %q", buffer.Bytes(), "zero value")
	}
}
