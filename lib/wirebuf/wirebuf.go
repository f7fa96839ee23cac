// Copyright 2026 The Oraclelink Authors
// SPDX-License-Identifier: Apache-2.0

package wirebuf

import "fmt"

// wordSize is the allocation granularity in bytes. Capacities are
// always a multiple of this, so repeated small appends settle into a
// stable doubling sequence instead of byte-at-a-time reallocation.
const wordSize = 32

// Buffer is a growable, append-only byte sequence. The zero value is
// ready to use. Buffer is not safe for concurrent use; each request
// owns exactly one Buffer for the duration of its construction.
type Buffer struct {
	data   []byte
	length int
}

// New returns an empty Buffer with no preallocated capacity.
func New() *Buffer {
	return &Buffer{}
}

// NewWithCapacity returns an empty Buffer preallocated to hold at
// least capacity bytes (rounded up to the word size).
func NewWithCapacity(capacity int) *Buffer {
	return &Buffer{data: make([]byte, roundUpToWord(capacity))}
}

// Len returns the number of bytes appended so far.
func (b *Buffer) Len() int { return b.length }

// Bytes returns the appended bytes. The returned slice shares the
// buffer's backing array; callers that retain it past the next append
// must copy it first.
func (b *Buffer) Bytes() []byte { return b.data[:b.length] }

// Clone returns an independent copy of the appended bytes.
func (b *Buffer) Clone() []byte {
	out := make([]byte, b.length)
	copy(out, b.data[:b.length])
	return out
}

// AppendByte appends a single byte, growing the buffer if needed.
func (b *Buffer) AppendByte(value byte) {
	b.ensure(b.length + 1)
	b.data[b.length] = value
	b.length++
}

// Append appends data, growing the buffer if needed. The input slice
// is copied; the caller keeps ownership of it.
func (b *Buffer) Append(data []byte) {
	b.ensure(b.length + len(data))
	copy(b.data[b.length:], data)
	b.length += len(data)
}

// AppendUint appends value as a big-endian, zero-padded integer of
// exactly width bytes. Width must be 1, 2, 4, 8, or 32. The value is
// not range-checked against the width: callers guarantee it fits, and
// high-order bytes beyond 8 are always zero (the widest native value
// is 64 bits, so a 32-byte append is 24 zero bytes followed by the
// 8-byte big-endian value).
func (b *Buffer) AppendUint(value uint64, width int) {
	switch width {
	case 1, 2, 4, 8, 32:
	default:
		panic(fmt.Sprintf("wirebuf: invalid fixed width %d (want 1, 2, 4, 8, or 32)", width))
	}
	b.ensure(b.length + width)
	for i := width - 1; i >= 0; i-- {
		b.data[b.length+i] = byte(value)
		value >>= 8
	}
	b.length += width
}

// ensure grows the backing array so that it holds at least needed
// bytes. New capacity is the larger of needed and double the current
// capacity, rounded up to the word size. Existing bytes are preserved;
// the new region is zero-filled until overwritten by appends.
func (b *Buffer) ensure(needed int) {
	if needed <= len(b.data) {
		return
	}
	capacity := 2 * len(b.data)
	if needed > capacity {
		capacity = needed
	}
	grown := make([]byte, roundUpToWord(capacity))
	copy(grown, b.data[:b.length])
	b.data = grown
}

// roundUpToWord rounds n up to the nearest multiple of wordSize.
func roundUpToWord(n int) int {
	return (n + wordSize - 1) / wordSize * wordSize
}
