package curve25519

import (
	"crypto/subtle"

	"krypta.dev/segint"
)

var (
	// basePoint is the u-coordinate of the X25519 generator.
	basePoint = Num{segint.Int{9}}
	// a24 is (A - 2) / 4 = 121665 for the curve coefficient A = 486662.
	a24 = Num{segint.Int{121665}}
)

// condSwapNum conditionally swaps two field elements. swap must be 0 or 1.
func condSwapNum(swap uint64, a, b *Num) {
	segint.CondSwap(swap, &a.s, &b.s)
}

// x25519Mult walks the Montgomery ladder of RFC 7748 section 5 over the
// clamped scalar and the point's u-coordinate. The same fixed sequence of
// field operations runs for every scalar; secret bits only select the XOR
// masks inside the conditional swaps. The swap accumulator defers each
// iteration's swap so that consecutive equal bits cost nothing.
func x25519Mult(scalar [32]byte, point Num) Num {
	scalar[0] &= 0xf8
	scalar[31] &= 0x7f
	scalar[31] |= 0x40

	x1 := point
	x2, z2 := numOne, Num{}
	x3, z3 := point, numOne

	// Temporaries named after the RFC 7748 ladder formulas.
	var a, aa, b, bb, e, c, d, da, cb, t Num
	var swap uint64

	for i := 254; i >= 0; i-- {
		bit := uint64(scalar[i/8]>>(i%8)) & 1
		swap ^= bit
		condSwapNum(swap, &x2, &x3)
		condSwapNum(swap, &z2, &z3)
		swap = bit

		a.Add(&x2, &z2)
		aa.Mul(&a, &a)
		b.Sub(&x2, &z2)
		bb.Mul(&b, &b)
		e.Sub(&aa, &bb)
		c.Add(&x3, &z3)
		d.Sub(&x3, &z3)
		da.Mul(&d, &a)
		cb.Mul(&c, &b)

		t.Add(&da, &cb)
		x3.Mul(&t, &t)
		t.Sub(&da, &cb)
		t.Mul(&t, &t)
		z3.Mul(&x1, &t)
		x2.Mul(&aa, &bb)
		t.Mul(&a24, &e)
		t.Add(&aa, &t)
		z2.Mul(&e, &t)
	}

	condSwapNum(swap, &x2, &x3)
	condSwapNum(swap, &z2, &z3)

	// z2 is zero when the input had low order; Div then yields zero, which
	// callers detect with IsSharedSecretAllZero.
	var out Num
	out.Div(&x2, &z2)
	out.reduce()
	return out
}

// X25519DerivePubKey derives the public key for privKey: the ladder applied
// to the base point. Clamping happens internally, so callers pass the raw
// 32-byte secret.
func X25519DerivePubKey(privKey [32]byte) [32]byte {
	p := x25519Mult(privKey, basePoint)
	return p.Bytes()
}

// X25519DeriveSecret computes the shared secret between privKey and a peer's
// public key. A malicious peer can choose a low-order public key that forces
// the result to all zeros regardless of privKey; callers must reject such
// secrets, checking with IsSharedSecretAllZero rather than a direct
// comparison.
func X25519DeriveSecret(privKey, pubKey [32]byte) [32]byte {
	p := x25519Mult(privKey, NumFromBytes(pubKey))
	return p.Bytes()
}

// IsSharedSecretAllZero reports whether secret is all zeros, in constant
// time.
func IsSharedSecretAllZero(secret [32]byte) bool {
	var zero [32]byte
	return subtle.ConstantTimeCompare(secret[:], zero[:]) == 1
}
