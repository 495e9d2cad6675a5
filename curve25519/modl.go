package curve25519

import (
	"encoding/binary"
	"math/bits"
)

// NumModL is a canonical residue modulo the curve group order
// L = 2^252 + 27742317777372353535851937790883648493, held as four
// little-endian 64-bit limbs. Unlike the field, the order is not a
// radix-minus-small-constant prime, so this arithmetic stands apart from the
// segmented engine: its reduction folds with residues of powers of 2^64
// derived from L itself.
type NumModL struct {
	d [4]uint64
}

// Residues 2^(64k) mod L for k = 4..7, used to fold the high digits of a
// wide value into the low four limbs.
var (
	pow256ModL = [4]uint64{0xd6ec31748d98951d, 0xc6ef5bf4737dcf70, 0xfffffffffffffffe, 0x0fffffffffffffff}
	pow320ModL = [4]uint64{0x5812631a5cf5d3ed, 0x93b8c838d39a5e06, 0xb2106215d086329a, 0x0ffffffffffffffe}
	pow384ModL = [4]uint64{0x39822129a02a6271, 0xb64a7f435e4fdd95, 0x7ed9ce5a30a2c131, 0x02106215d086329a}
	pow448ModL = [4]uint64{0x79daf520a00acb65, 0xe24babbe38d1d7a9, 0xb399411b7c309a3d, 0x0ed9ce5a30a2c131}
)

// Complements 2^n - k*L for the conditional-subtraction ladder: adding one to
// a trial copy wraps exactly when the value is at least k*L.
var (
	pow256Minus8L = [4]uint64{0x3f6ce72d18516098, 0x5908310ae843194d, 0xffffffffffffffff, 0x7fffffffffffffff}
	pow255Minus4L = [4]uint64{0x9fb673968c28b04c, 0xac84188574218ca6, 0xffffffffffffffff, 0x3fffffffffffffff}
	pow254Minus2L = [4]uint64{0x4fdb39cb46145826, 0xd6420c42ba10c653, 0xffffffffffffffff, 0x1fffffffffffffff}
	pow253MinusL  = [4]uint64{0xa7ed9ce5a30a2c13, 0xeb2106215d086329, 0xffffffffffffffff, 0x0fffffffffffffff}
)

// acc128 is a 128-bit accumulator limb, value hi*2^64 + lo.
type acc128 struct {
	lo, hi uint64
}

// add folds a 64-bit value into the accumulator.
func (a *acc128) add(v uint64) {
	var c uint64
	a.lo, c = bits.Add64(a.lo, v, 0)
	a.hi += c
}

// shunt moves the accumulator's high word into next, leaving a 64-bit value.
func (a *acc128) shunt(next *acc128) {
	next.add(a.hi)
	a.hi = 0
}

func shuntChain(a, b, c, d, e, f *acc128) {
	a.shunt(b)
	b.shunt(c)
	c.shunt(d)
	d.shunt(e)
	e.shunt(f)
}

// mulAdd accumulates the 128-bit product x*y across two adjacent limbs.
func mulAdd(lo, hi *acc128, x, y uint64) {
	h, l := bits.Mul64(x, y)
	lo.add(l)
	hi.add(h)
}

// fold accumulates v times the 4-limb constant m into limbs t0..t3, the last
// high half spilling into over.
func fold(v uint64, m *[4]uint64, t0, t1, t2, t3, over *acc128) {
	mulAdd(t0, t1, v, m[0])
	mulAdd(t1, t2, v, m[1])
	mulAdd(t2, t3, v, m[2])
	mulAdd(t3, over, v, m[3])
}

// condSubtract replaces v with v - k*L when v >= k*L, given val = 2^n - k*L:
// the complement is added to a trial copy, wrap reads the wrap bit off the
// trial sum's top limb and carry-out, and a branch-free swap keeps either the
// original or the trial. The top limb is masked unconditionally either way.
func condSubtract(v *[4]uint64, val *[4]uint64, wrap func(top, carry uint64) uint64, mask uint64) {
	var cp [4]uint64
	var c uint64
	cp[0], c = bits.Add64(v[0], val[0], 0)
	cp[1], c = bits.Add64(v[1], val[1], c)
	cp[2], c = bits.Add64(v[2], val[2], c)
	cp[3], c = bits.Add64(v[3], val[3], c)

	m := -wrap(cp[3], c)
	for i := range v {
		x := m & (v[i] ^ cp[i])
		v[i] ^= x
	}
	v[3] &= mask
}

func wrapCarry(_, carry uint64) uint64 { return carry & 1 }
func wrapBit63(top, _ uint64) uint64   { return top >> 63 }
func wrapBit62(top, _ uint64) uint64   { return top >> 62 }
func wrapBit61(top, _ uint64) uint64   { return top >> 61 }

// reduceWide reduces eight little-endian 64-bit digits modulo L to the
// canonical residue. The digit folds, the refold rounds, and the subtraction
// ladder all run unconditionally, so the work done is independent of the
// value.
func reduceWide(v *[8]uint64) [4]uint64 {
	var a, b, c, d, e, f acc128
	a.lo = v[0]
	b.lo = v[1]
	c.lo = v[2]
	d.lo = v[3]

	fold(v[4], &pow256ModL, &a, &b, &c, &d, &e)
	fold(v[5], &pow320ModL, &a, &b, &c, &d, &e)
	fold(v[6], &pow384ModL, &a, &b, &c, &d, &e)
	fold(v[7], &pow448ModL, &a, &b, &c, &d, &e)

	// Every refold scales the spill beyond limb 3 down by at least 2^4 (the
	// fold constants sit four bits below 2^256), so 16 rounds drain a spill
	// of at most 2^66; the extra four let trailing carries settle.
	for i := 0; i < 20; i++ {
		shuntChain(&a, &b, &c, &d, &e, &f)

		ev := e.lo
		e = acc128{}
		fold(ev, &pow256ModL, &a, &b, &c, &d, &e)

		fv := f.lo
		f = acc128{}
		fold(fv, &pow320ModL, &a, &b, &c, &d, &e)
	}

	shuntChain(&a, &b, &c, &d, &e, &f)

	r := [4]uint64{a.lo, b.lo, c.lo, d.lo}
	condSubtract(&r, &pow256Minus8L, wrapCarry, 0xffffffffffffffff)
	condSubtract(&r, &pow255Minus4L, wrapBit63, 0x7fffffffffffffff)
	condSubtract(&r, &pow254Minus2L, wrapBit62, 0x3fffffffffffffff)
	condSubtract(&r, &pow253MinusL, wrapBit61, 0x1fffffffffffffff)
	return r
}

// NumModLFrom32Bytes reduces a 256-bit little-endian value modulo L.
func NumModLFrom32Bytes(buf [32]byte) NumModL {
	var w [8]uint64
	for i := 0; i < 4; i++ {
		w[i] = binary.LittleEndian.Uint64(buf[8*i:])
	}
	return NumModL{reduceWide(&w)}
}

// NumModLFrom64Bytes reduces a 512-bit little-endian value modulo L.
func NumModLFrom64Bytes(buf [64]byte) NumModL {
	var w [8]uint64
	for i := 0; i < 8; i++ {
		w[i] = binary.LittleEndian.Uint64(buf[8*i:])
	}
	return NumModL{reduceWide(&w)}
}

// Bytes returns the canonical 32-byte little-endian encoding.
func (n NumModL) Bytes() [32]byte {
	var out [32]byte
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint64(out[8*i:], n.d[i])
	}
	return out
}

// AddNumModL returns a + b mod L.
func AddNumModL(a, b NumModL) NumModL {
	var w [8]uint64
	var c uint64
	w[0], c = bits.Add64(a.d[0], b.d[0], 0)
	w[1], c = bits.Add64(a.d[1], b.d[1], c)
	w[2], c = bits.Add64(a.d[2], b.d[2], c)
	w[3], c = bits.Add64(a.d[3], b.d[3], c)
	w[4] = c
	return NumModL{reduceWide(&w)}
}

// MulNumModL returns a * b mod L: 4x4 schoolbook products accumulated across
// eight 128-bit limbs, one shunt pass, then the wide reduction.
func MulNumModL(a, b NumModL) NumModL {
	a0, a1, a2, a3 := a.d[0], a.d[1], a.d[2], a.d[3]
	b0, b1, b2, b3 := b.d[0], b.d[1], b.d[2], b.d[3]

	var r [8]acc128

	mulAdd(&r[0], &r[1], a0, b0)

	mulAdd(&r[1], &r[2], a0, b1)
	mulAdd(&r[1], &r[2], a1, b0)

	mulAdd(&r[2], &r[3], a0, b2)
	mulAdd(&r[2], &r[3], a1, b1)
	mulAdd(&r[2], &r[3], a2, b0)

	mulAdd(&r[3], &r[4], a0, b3)
	mulAdd(&r[3], &r[4], a1, b2)
	mulAdd(&r[3], &r[4], a2, b1)
	mulAdd(&r[3], &r[4], a3, b0)

	mulAdd(&r[4], &r[5], a1, b3)
	mulAdd(&r[4], &r[5], a2, b2)
	mulAdd(&r[4], &r[5], a3, b1)

	mulAdd(&r[5], &r[6], a2, b3)
	mulAdd(&r[5], &r[6], a3, b2)

	mulAdd(&r[6], &r[7], a3, b3)

	for i := 0; i < 7; i++ {
		r[i].shunt(&r[i+1])
	}

	var w [8]uint64
	for i := range w {
		w[i] = r[i].lo
	}
	return NumModL{reduceWide(&w)}
}
