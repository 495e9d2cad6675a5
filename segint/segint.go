// Package segint implements fixed-width modular arithmetic on integers split
// into five equally sized segments, for pseudo-Mersenne moduli of the form
// 2^(5*S) - c with a small carry factor c. Each segment holds S bits of the
// value in a 64-bit word, leaving headroom above bit S so that additions and
// multiply-accumulates can proceed without intermediate overflow; carries are
// propagated in a fixed number of bottom-up passes, with the carry leaving the
// top segment wrapped around into the bottom one scaled by c (because
// 2^(5*S) is congruent to c modulo 2^(5*S) - c).
//
// Residues are lazy: between operations a value need not be the canonical
// representative below the modulus, only segment-bounded. Reduce produces the
// canonical residue in constant time.
package segint

import "math/bits"

// Descriptor parameterizes the engine for one modulus. It is a set of
// constants passed by reference; the carry-pass counts are derived from the
// overflow analysis of the segment layout and are not tunable.
type Descriptor struct {
	// SegmentSize is the number of value bits S held per 64-bit segment.
	SegmentSize uint
	// CarryFactor is c in modulus = 2^(5*S) - c. CarryFactor*(SegmentMask+1)
	// must fit in 64 bits.
	CarryFactor uint64
	// SegmentMask is 2^S - 1.
	SegmentMask uint64
	// AddCarries is the number of carry passes after addition and negation.
	AddCarries int
	// MulCarries is the number of carry passes after multiplication.
	MulCarries int
}

// Int is a little-endian 5-segment integer. The zero value represents zero.
type Int [5]uint64

// uint128 is a 128-bit accumulator for segment products.
type uint128 struct {
	high, low uint64
}

// mulU64ToU128 multiplies two uint64 values and returns a uint128.
func mulU64ToU128(a, b uint64) uint128 {
	hi, lo := bits.Mul64(a, b)
	return uint128{high: hi, low: lo}
}

// addMulU128 computes c + a*b.
func addMulU128(c uint128, a, b uint64) uint128 {
	hi, lo := bits.Mul64(a, b)
	newLo, carry := bits.Add64(c.low, lo, 0)
	newHi, _ := bits.Add64(c.high, hi, carry)
	return uint128{high: newHi, low: newLo}
}

// addU128 adds two uint128 values.
func addU128(a, b uint128) uint128 {
	lo, carry := bits.Add64(a.low, b.low, 0)
	hi, _ := bits.Add64(a.high, b.high, carry)
	return uint128{high: hi, low: lo}
}

// mulU128ByU64 computes c * f. The caller guarantees c.high*f does not
// overflow; carries scaled by a descriptor's CarryFactor stay far below that.
func mulU128ByU64(c uint128, f uint64) uint128 {
	hi, lo := bits.Mul64(c.low, f)
	return uint128{high: c.high*f + hi, low: lo}
}

// lo returns the lower 64 bits.
func (u uint128) lo() uint64 {
	return u.low
}

// rshift shifts the uint128 right by n bits, n < 64.
func (u uint128) rshift(n uint) uint128 {
	return uint128{
		high: u.high >> n,
		low:  (u.low >> n) | (u.high << (64 - n)),
	}
}

// extractCarry splits the bits above SegmentSize out of a segment, leaving
// the segment masked.
func (d *Descriptor) extractCarry(seg *uint64) uint64 {
	carry := *seg >> d.SegmentSize
	*seg &= d.SegmentMask
	return carry
}

func (d *Descriptor) extractCarry128(seg *uint128) uint128 {
	carry := seg.rshift(d.SegmentSize)
	*seg = uint128{low: seg.low & d.SegmentMask}
	return carry
}

// carryPropagate adds carry into segment 0 and sweeps carries bottom-up,
// masking every segment. Returns the carry out of the top segment, which the
// caller wraps around scaled by CarryFactor (or proves to be zero).
func (d *Descriptor) carryPropagate(s *Int, carry uint64) uint64 {
	for i := range s {
		s[i] += carry
		carry = d.extractCarry(&s[i])
	}
	return carry
}

func (d *Descriptor) carryPropagate128(w *[5]uint128, carry uint128) uint128 {
	for i := range w {
		w[i] = addU128(w[i], carry)
		carry = d.extractCarry128(&w[i])
	}
	return carry
}

// Add computes r = a + b mod the descriptor's modulus. Operands must be
// segment-bounded (every segment at most SegmentMask, as produced by any
// engine operation); the result is segment-bounded. r may alias a or b.
//
// The carry out of the top segment after the raw per-segment sums is at most
// 1; AddCarries passes are enough because a pass that ripples a carry out of
// the top leaves the low segments small, so the next pass cannot ripple.
func (d *Descriptor) Add(r, a, b *Int) {
	for i := range r {
		r[i] = a[i] + b[i]
	}
	carry := d.extractCarry(&r[4])
	for i := 0; i < d.AddCarries; i++ {
		carry = d.carryPropagate(r, carry*d.CarryFactor)
	}
}

// Neg computes r = -a mod the descriptor's modulus, as 2*modulus - a. The
// per-segment constants 2*(SegmentMask+1) - 2*CarryFactor (segment 0) and
// 2*SegmentMask (the rest) represent twice the modulus and dominate any
// segment-bounded input, so the per-segment differences never go negative.
// r may alias a.
func (d *Descriptor) Neg(r, a *Int) {
	low := 2*(d.SegmentMask+1) - 2*d.CarryFactor
	rest := 2 * d.SegmentMask
	r[0] = low - a[0]
	r[1] = rest - a[1]
	r[2] = rest - a[2]
	r[3] = rest - a[3]
	r[4] = rest - a[4]
	carry := d.extractCarry(&r[4])
	for i := 0; i < d.AddCarries; i++ {
		carry = d.carryPropagate(r, carry*d.CarryFactor)
	}
}

// Sub computes r = a - b mod the descriptor's modulus. r may alias a or b.
func (d *Descriptor) Sub(r, a, b *Int) {
	var nb Int
	d.Neg(&nb, b)
	d.Add(r, a, &nb)
}

// Mul computes r = a * b mod the descriptor's modulus via 5x5 schoolbook
// multiplication with on-the-fly reduction: partial products that would land
// in segment positions 5..8 wrap around to positions 0..3 scaled by
// CarryFactor. Products of 51-bit segments exceed 64 bits, so accumulation
// runs in 128 bits; the wrap scaling is pre-multiplied into the left operand,
// which stays within 64 bits by the descriptor contract. r may alias a or b.
func (d *Descriptor) Mul(r, a, b *Int) {
	a0, a1, a2, a3, a4 := a[0], a[1], a[2], a[3], a[4]
	b0, b1, b2, b3, b4 := b[0], b[1], b[2], b[3], b[4]
	f := d.CarryFactor
	fa1, fa2, fa3, fa4 := f*a1, f*a2, f*a3, f*a4

	var w [5]uint128

	w[0] = mulU64ToU128(a0, b0)
	w[0] = addMulU128(w[0], fa1, b4)
	w[0] = addMulU128(w[0], fa2, b3)
	w[0] = addMulU128(w[0], fa3, b2)
	w[0] = addMulU128(w[0], fa4, b1)

	w[1] = mulU64ToU128(a0, b1)
	w[1] = addMulU128(w[1], a1, b0)
	w[1] = addMulU128(w[1], fa2, b4)
	w[1] = addMulU128(w[1], fa3, b3)
	w[1] = addMulU128(w[1], fa4, b2)

	w[2] = mulU64ToU128(a0, b2)
	w[2] = addMulU128(w[2], a1, b1)
	w[2] = addMulU128(w[2], a2, b0)
	w[2] = addMulU128(w[2], fa3, b4)
	w[2] = addMulU128(w[2], fa4, b3)

	w[3] = mulU64ToU128(a0, b3)
	w[3] = addMulU128(w[3], a1, b2)
	w[3] = addMulU128(w[3], a2, b1)
	w[3] = addMulU128(w[3], a3, b0)
	w[3] = addMulU128(w[3], fa4, b4)

	w[4] = mulU64ToU128(a0, b4)
	w[4] = addMulU128(w[4], a1, b3)
	w[4] = addMulU128(w[4], a2, b2)
	w[4] = addMulU128(w[4], a3, b1)
	w[4] = addMulU128(w[4], a4, b0)

	carry := d.extractCarry128(&w[4])
	for i := 0; i < d.MulCarries; i++ {
		carry = d.carryPropagate128(&w, mulU128ByU64(carry, f))
	}

	for i := range r {
		r[i] = w[i].lo()
	}
}

// Reduce replaces r with its canonical residue below the modulus, in constant
// time. r must be segment-bounded. A speculative carry pass runs over a copy
// seeded with CarryFactor, as if the modulus had been subtracted; its final
// carry is 1 exactly when the value is at least the modulus. The real pass is
// then seeded with that carry times CarryFactor. Both passes always run.
func (d *Descriptor) Reduce(r *Int) {
	probe := *r
	carry := d.carryPropagate(&probe, d.CarryFactor)
	d.carryPropagate(r, carry*d.CarryFactor)
}

// CondSwap exchanges a and b when swap is 1 and leaves them unchanged when
// swap is 0, without branching on swap. swap must be 0 or 1; it is expanded
// into an all-zeros or all-ones mask applied to the XOR difference of each
// segment pair.
func CondSwap(swap uint64, a, b *Int) {
	mask := -swap
	for i := range a {
		t := mask & (a[i] ^ b[i])
		a[i] ^= t
		b[i] ^= t
	}
}
