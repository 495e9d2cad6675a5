// Package poly1305 implements the Poly1305 one-time authenticator of RFC
// 8439. The radix half of the key may be reused across messages, but each
// nonce must be used for at most one message, and both halves must be kept
// secret.
package poly1305

import (
	"crypto/subtle"
	"encoding/binary"
	"math/bits"

	"krypta.dev/segint"
)

// TagSize is the length of a Poly1305 tag in bytes.
const TagSize = 16

// fieldDesc drives the segmented engine for arithmetic modulo 2^130 - 5,
// with message chunks split into five 26-bit segments.
var fieldDesc = segint.Descriptor{
	SegmentSize: 26,
	CarryFactor: 5,
	SegmentMask: 0x3ffffff,
	AddCarries:  2,
	MulCarries:  3,
}

func from16LEBytes(b [16]byte) segint.Int {
	lo := binary.LittleEndian.Uint64(b[0:8])
	hi := binary.LittleEndian.Uint64(b[8:16])
	m := fieldDesc.SegmentMask
	return segint.Int{
		lo & m,
		(lo >> 26) & m,
		(lo>>52 | hi<<12) & m,
		(hi >> 14) & m,
		hi >> 40,
	}
}

// clampRadix zeroes the 22 radix bits RFC 8439 requires to be clear.
func clampRadix(radix *[16]byte) {
	radix[3] &= 0x0f
	radix[7] &= 0x0f
	radix[11] &= 0x0f
	radix[15] &= 0x0f
	radix[4] &= 0xfc
	radix[8] &= 0xfc
	radix[12] &= 0xfc
}

// Tag computes the Poly1305 authenticator for message under the given key
// halves. The radix is clamped internally.
func Tag(message []byte, radix, nonce [16]byte) [16]byte {
	clampRadix(&radix)
	r := from16LEBytes(radix)

	var acc segint.Int
	for len(message) >= 16 {
		chunk := from16LEBytes([16]byte(message[:16]))
		chunk[4] |= 1 << 24
		fieldDesc.Add(&acc, &acc, &chunk)
		fieldDesc.Mul(&acc, &acc, &r)
		message = message[16:]
	}
	if len(message) > 0 {
		var buf [16]byte
		copy(buf[:], message)
		buf[len(message)] = 1
		chunk := from16LEBytes(buf)
		fieldDesc.Add(&acc, &acc, &chunk)
		fieldDesc.Mul(&acc, &acc, &r)
	}

	fieldDesc.Reduce(&acc)
	lo := acc[0] | acc[1]<<26 | acc[2]<<52
	hi := acc[2]>>12 | acc[3]<<14 | acc[4]<<40

	// The nonce is added modulo 2^128, outside the field.
	var carry uint64
	lo, carry = bits.Add64(lo, binary.LittleEndian.Uint64(nonce[0:8]), 0)
	hi, _ = bits.Add64(hi, binary.LittleEndian.Uint64(nonce[8:16]), carry)

	var tag [16]byte
	binary.LittleEndian.PutUint64(tag[0:8], lo)
	binary.LittleEndian.PutUint64(tag[8:16], hi)
	return tag
}

// Verify reports whether tag authenticates message under the given key
// halves. Comparing tags with == leaks timing; use this instead.
func Verify(message []byte, radix, nonce, tag [16]byte) bool {
	want := Tag(message, radix, nonce)
	return subtle.ConstantTimeCompare(tag[:], want[:]) == 1
}
