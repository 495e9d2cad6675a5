// Package curve25519 implements the Curve25519 field, the X25519 function of
// RFC 7748, and constant-time arithmetic modulo the curve group order L.
package curve25519

import (
	"crypto/subtle"
	"encoding/binary"

	"krypta.dev/segint"
)

// fieldDesc instantiates the segmented engine for GF(2^255 - 19): 51-bit
// segments, top carries wrapping around scaled by 19.
var fieldDesc = segint.Descriptor{
	SegmentSize: 51,
	CarryFactor: 19,
	SegmentMask: 0x7ffffffffffff,
	AddCarries:  2,
	MulCarries:  3,
}

// Num is an element of GF(2^255 - 19). The zero value is 0. Methods write
// their result into the receiver, which may alias any argument. The
// representation is lazy between operations; Bytes and Equal canonicalize.
type Num struct {
	s segint.Int
}

var numOne = Num{segint.Int{1}}

// NumFromBytes interprets buf as a little-endian integer with the top bit of
// the final byte cleared (RFC 7748 u-coordinate decoding) and splits it into
// 51-bit segments.
func NumFromBytes(buf [32]byte) Num {
	buf[31] &= 0x7f
	d0 := binary.LittleEndian.Uint64(buf[0:8])
	d1 := binary.LittleEndian.Uint64(buf[8:16])
	d2 := binary.LittleEndian.Uint64(buf[16:24])
	d3 := binary.LittleEndian.Uint64(buf[24:32])

	var n Num
	n.s[0] = d0 & fieldDesc.SegmentMask
	n.s[1] = (d0>>51 | d1<<13) & fieldDesc.SegmentMask
	n.s[2] = (d1>>38 | d2<<26) & fieldDesc.SegmentMask
	n.s[3] = (d2>>25 | d3<<39) & fieldDesc.SegmentMask
	n.s[4] = d3 >> 12
	return n
}

// Bytes returns the canonical 32-byte little-endian encoding. The receiver is
// not modified; a copy is fully reduced first. The top bit of the last byte
// is always zero.
func (n *Num) Bytes() [32]byte {
	c := n.s
	fieldDesc.Reduce(&c)

	var buf [32]byte
	binary.LittleEndian.PutUint64(buf[0:8], c[0]|c[1]<<51)
	binary.LittleEndian.PutUint64(buf[8:16], c[1]>>13|c[2]<<38)
	binary.LittleEndian.PutUint64(buf[16:24], c[2]>>26|c[3]<<25)
	binary.LittleEndian.PutUint64(buf[24:32], c[3]>>39|c[4]<<12)
	return buf
}

// Add sets r = a + b.
func (r *Num) Add(a, b *Num) {
	fieldDesc.Add(&r.s, &a.s, &b.s)
}

// Sub sets r = a - b.
func (r *Num) Sub(a, b *Num) {
	fieldDesc.Sub(&r.s, &a.s, &b.s)
}

// Mul sets r = a * b.
func (r *Num) Mul(a, b *Num) {
	fieldDesc.Mul(&r.s, &a.s, &b.s)
}

// Neg sets r = -a.
func (r *Num) Neg(a *Num) {
	fieldDesc.Neg(&r.s, &a.s)
}

// reduce brings r to the canonical representative below 2^255 - 19.
func (r *Num) reduce() {
	fieldDesc.Reduce(&r.s)
}

// Recip sets r = a^-1, computed as a^(p-2). The exponent 2^255 - 21 is 250
// one bits followed by 01011, walked by the fixed chain below: 250 rounds of
// square-and-multiply, two rounds of square-square-multiply, and one final
// square-and-multiply. Recip of a zero-congruent element is zero; Div
// inherits that, so dividing by zero yields zero rather than an error.
func (r *Num) Recip(a *Num) {
	x := *a
	acc := numOne
	for i := 0; i < 250; i++ {
		acc.Mul(&acc, &acc)
		acc.Mul(&acc, &x)
	}
	for i := 0; i < 2; i++ {
		acc.Mul(&acc, &acc)
		acc.Mul(&acc, &acc)
		acc.Mul(&acc, &x)
	}
	acc.Mul(&acc, &acc)
	acc.Mul(&acc, &x)
	*r = acc
}

// Div sets r = a / b as a * Recip(b).
func (r *Num) Div(a, b *Num) {
	var inv Num
	inv.Recip(b)
	r.Mul(a, &inv)
}

// Equal reports whether n and a represent the same field element, comparing
// canonical encodings in constant time.
func (n *Num) Equal(a *Num) bool {
	nb, ab := n.Bytes(), a.Bytes()
	return subtle.ConstantTimeCompare(nb[:], ab[:]) == 1
}
