// Copyright 2026 The Oraclelink Authors
// SPDX-License-Identifier: Apache-2.0

package cborwire

import (
	"math"
	"math/big"

	"github.com/oraclelink/oraclelink/lib/wirebuf"
)

// CBOR major types (RFC 8949 §3). The top three bits of every data
// item header.
const (
	majorUnsigned   = 0
	majorNegative   = 1
	majorByteString = 2
	majorTextString = 3
	majorArray      = 4
	majorMap        = 5
	majorTag        = 6
	majorSimple     = 7
)

// Additional-information values in the bottom five bits of a header.
const (
	// additionalMax is the largest value encoded directly in the
	// header byte. Larger values use the uint8/16/32/64 followers.
	additionalMax = 23

	additionalUint8  = 24
	additionalUint16 = 25
	additionalUint32 = 26
	additionalUint64 = 27

	// additionalIndefinite marks an indefinite-length container, and
	// combined with major type 7 forms the "break" stop code.
	additionalIndefinite = 31
)

// Bignum tag numbers (RFC 8949 §3.4.3). Tag 2 wraps the big-endian
// magnitude of a non-negative integer too large for major type 0;
// tag 3 wraps the magnitude of -1-n for a negative integer too small
// for major type 1.
const (
	tagPositiveBignum = 2
	tagNegativeBignum = 3
)

// bignumMagnitudeBytes is the fixed width of a bignum magnitude byte
// string. Magnitudes are always emitted as 256-bit quantities so the
// consumer-side decoder deals with a single width.
const bignumMagnitudeBytes = 32

// maxUint64 is the upper bound of the native unsigned header range.
// Values above it route to the positive bignum tag.
var maxUint64 = new(big.Int).SetUint64(math.MaxUint64)

// minInt64Encodable is -2^64, the most negative integer expressible
// with major type 1 (which stores -1-n for n in the uint64 range).
// Values below it route to the negative bignum tag.
var minInt64Encodable = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 64))

// writeTypeAndLength emits the header for a data item of the given
// major type: the value itself in the bottom five bits when it is at
// most 23, otherwise the smallest of the uint8/16/32/64 follower
// forms whose range contains the value.
func writeTypeAndLength(buffer *wirebuf.Buffer, majorType byte, value uint64) {
	switch {
	case value <= additionalMax:
		buffer.AppendByte(majorType<<5 | byte(value))
	case value <= math.MaxUint8:
		buffer.AppendByte(majorType<<5 | additionalUint8)
		buffer.AppendUint(value, 1)
	case value <= math.MaxUint16:
		buffer.AppendByte(majorType<<5 | additionalUint16)
		buffer.AppendUint(value, 2)
	case value <= math.MaxUint32:
		buffer.AppendByte(majorType<<5 | additionalUint32)
		buffer.AppendUint(value, 4)
	default:
		buffer.AppendByte(majorType<<5 | additionalUint64)
		buffer.AppendUint(value, 8)
	}
}

// AppendUint appends an unsigned integer (major type 0).
func AppendUint(buffer *wirebuf.Buffer, value uint64) {
	writeTypeAndLength(buffer, majorUnsigned, value)
}

// AppendInt appends a signed integer. Non-negative values use major
// type 0; negative values use major type 1, which stores -1-n (there
// is no negative zero in CBOR).
func AppendInt(buffer *wirebuf.Buffer, value int64) {
	if value >= 0 {
		writeTypeAndLength(buffer, majorUnsigned, uint64(value))
		return
	}
	// -1-value, computed before the uint64 conversion so the full
	// int64 range (including math.MinInt64) is safe.
	writeTypeAndLength(buffer, majorNegative, uint64(-(value+1)))
}

// AppendBigInt appends an arbitrary-precision integer. Values within
// the 64-bit native ranges encode exactly as AppendInt/AppendUint
// would; values outside them encode as a bignum tag (2 for positive,
// 3 for negative) wrapping the 256-bit big-endian magnitude. Panics
// if the magnitude exceeds 256 bits — request parameters are bounded
// to 256-bit quantities by the wire format.
func AppendBigInt(buffer *wirebuf.Buffer, value *big.Int) {
	switch {
	case value.Cmp(maxUint64) > 0:
		writeTypeAndLength(buffer, majorTag, tagPositiveBignum)
		appendMagnitude(buffer, value)
	case value.Cmp(minInt64Encodable) < 0:
		// Tag 3 wraps the magnitude of -1-value.
		magnitude := new(big.Int).Sub(big.NewInt(-1), value)
		writeTypeAndLength(buffer, majorTag, tagNegativeBignum)
		appendMagnitude(buffer, magnitude)
	case value.Sign() >= 0:
		writeTypeAndLength(buffer, majorUnsigned, value.Uint64())
	default:
		// -1-value fits in uint64 here because value >= -2^64.
		magnitude := new(big.Int).Sub(big.NewInt(-1), value)
		writeTypeAndLength(buffer, majorNegative, magnitude.Uint64())
	}
}

// appendMagnitude appends a non-negative big integer as a 32-byte
// byte string, left padded with zeros.
func appendMagnitude(buffer *wirebuf.Buffer, magnitude *big.Int) {
	writeTypeAndLength(buffer, majorByteString, bignumMagnitudeBytes)
	var fixed [bignumMagnitudeBytes]byte
	magnitude.FillBytes(fixed[:])
	buffer.Append(fixed[:])
}

// AppendBytes appends a byte string (major type 2): a length header
// followed by the raw bytes.
func AppendBytes(buffer *wirebuf.Buffer, data []byte) {
	writeTypeAndLength(buffer, majorByteString, uint64(len(data)))
	buffer.Append(data)
}

// AppendText appends a text string (major type 3) over the UTF-8
// bytes of text.
func AppendText(buffer *wirebuf.Buffer, text string) {
	writeTypeAndLength(buffer, majorTextString, uint64(len(text)))
	buffer.Append([]byte(text))
}

// StartIndefiniteArray opens an indefinite-length array. The caller
// must close it with EndIndefinite after appending the elements.
func StartIndefiniteArray(buffer *wirebuf.Buffer) {
	buffer.AppendByte(majorArray<<5 | additionalIndefinite)
}

// StartIndefiniteMap opens an indefinite-length map. The caller must
// append an even number of items (alternating keys and values) and
// close it with EndIndefinite.
func StartIndefiniteMap(buffer *wirebuf.Buffer) {
	buffer.AppendByte(majorMap<<5 | additionalIndefinite)
}

// EndIndefinite appends the "break" stop code, closing the most
// recently opened indefinite-length array or map.
func EndIndefinite(buffer *wirebuf.Buffer) {
	buffer.AppendByte(majorSimple<<5 | additionalIndefinite)
}
