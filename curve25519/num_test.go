package curve25519

import (
	"bytes"
	"io"
	"math/big"
	"testing"

	"krypta.dev/chacha20"
	"krypta.dev/segint"
)

func testStream(purpose string) *chacha20.Stream {
	var key [32]byte
	copy(key[:], purpose)
	return chacha20.New(key, [12]byte{})
}

func fieldPrime() *big.Int {
	p := new(big.Int).Lsh(big.NewInt(1), 255)
	return p.Sub(p, big.NewInt(19))
}

// leBytes32 encodes x as 32 little-endian bytes. x must be below 2^256.
func leBytes32(x *big.Int) [32]byte {
	var be [32]byte
	x.FillBytes(be[:])
	var le [32]byte
	for i := range be {
		le[i] = be[31-i]
	}
	return le
}

func bigFromLE(buf []byte) *big.Int {
	be := make([]byte, len(buf))
	for i := range buf {
		be[i] = buf[len(buf)-1-i]
	}
	return new(big.Int).SetBytes(be)
}

func randBytes32(t *testing.T, r io.Reader) [32]byte {
	t.Helper()
	var b [32]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		t.Fatal(err)
	}
	return b
}

func TestBytesRoundTrip(t *testing.T) {
	rng := testStream("field element codec inputs")
	for i := 0; i < 200; i++ {
		b := randBytes32(t, rng)
		b[31] &= 0x7f
		n := NumFromBytes(b)
		if got := n.Bytes(); got != b {
			t.Fatalf("round trip changed value:\nin  %x\nout %x", b, got)
		}

		set := b
		set[31] |= 0x80
		n = NumFromBytes(set)
		if got := n.Bytes(); got != b {
			t.Fatalf("top bit not masked:\nin  %x\nout %x", set, got)
		}
	}
}

func TestBytesCanonicalizes(t *testing.T) {
	p := fieldPrime()
	cases := []struct {
		name string
		in   *big.Int
		want *big.Int
	}{
		{"p", new(big.Int).Set(p), big.NewInt(0)},
		{"p plus one", new(big.Int).Add(p, big.NewInt(1)), big.NewInt(1)},
		{"p plus five", new(big.Int).Add(p, big.NewInt(5)), big.NewInt(5)},
		{"p minus one", new(big.Int).Sub(p, big.NewInt(1)), new(big.Int).Sub(p, big.NewInt(1))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n := NumFromBytes(leBytes32(tc.in))
			got := n.Bytes()
			if v := bigFromLE(got[:]); v.Cmp(tc.want) != 0 {
				t.Errorf("got %v, want %v", v, tc.want)
			}
		})
	}
}

func TestArithmeticAgainstBigInt(t *testing.T) {
	p := fieldPrime()
	rng := testStream("field arithmetic inputs")
	for i := 0; i < 200; i++ {
		ab := randBytes32(t, rng)
		bb := randBytes32(t, rng)
		ab[31] &= 0x7f
		bb[31] &= 0x7f
		a := NumFromBytes(ab)
		b := NumFromBytes(bb)
		bigA := bigFromLE(ab[:])
		bigB := bigFromLE(bb[:])

		check := func(op string, got *Num, want *big.Int) {
			t.Helper()
			g := got.Bytes()
			w := new(big.Int).Mod(want, p)
			if bigFromLE(g[:]).Cmp(w) != 0 {
				t.Fatalf("%s: got %v, want %v", op, bigFromLE(g[:]), w)
			}
		}

		var r Num
		r.Add(&a, &b)
		check("add", &r, new(big.Int).Add(bigA, bigB))
		r.Sub(&a, &b)
		check("sub", &r, new(big.Int).Sub(bigA, bigB))
		r.Mul(&a, &b)
		check("mul", &r, new(big.Int).Mul(bigA, bigB))
		r.Neg(&a)
		check("neg", &r, new(big.Int).Neg(bigA))
		r.Div(&a, &b)
		// a/b checked as r*b == a, avoiding big.Int modular inverse edge
		// cases; b is nonzero with overwhelming probability.
		var back Num
		back.Mul(&r, &b)
		check("div (times divisor)", &back, bigA)
	}
}

func TestRecip(t *testing.T) {
	rng := testStream("field inversion inputs")
	one := numOne

	for i := uint64(1); i <= 50; i++ {
		n := Num{}
		n.s[0] = i
		var inv, prod Num
		inv.Recip(&n)
		prod.Mul(&n, &inv)
		if !prod.Equal(&one) {
			t.Fatalf("recip(%d) * %d != 1", i, i)
		}
	}

	for i := 0; i < 30; i++ {
		b := randBytes32(t, rng)
		b[31] &= 0x7f
		n := NumFromBytes(b)
		var inv, prod Num
		inv.Recip(&n)
		prod.Mul(&n, &inv)
		if !prod.Equal(&one) {
			t.Fatalf("recip failed for %x", b)
		}
	}
}

func TestRecipOfZeroCongruent(t *testing.T) {
	zero := Num{}
	cases := []struct {
		name string
		in   Num
	}{
		{"zero", Num{}},
		{"p", NumFromBytes(leBytes32(fieldPrime()))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var inv Num
			inv.Recip(&tc.in)
			if !inv.Equal(&zero) {
				t.Errorf("recip of zero-congruent element is %x, want zero", inv.Bytes())
			}

			var q Num
			q.Div(&numOne, &tc.in)
			if !q.Equal(&zero) {
				t.Errorf("division by zero-congruent element is %x, want zero", q.Bytes())
			}
		})
	}
}

func TestEqualAcrossRepresentations(t *testing.T) {
	p := fieldPrime()
	five := Num{segint.Int{5}}
	lazyFive := NumFromBytes(leBytes32(new(big.Int).Add(p, big.NewInt(5))))
	if !five.Equal(&lazyFive) {
		t.Error("canonical and lazy representations of 5 compare unequal")
	}
	six := Num{segint.Int{6}}
	if six.Equal(&lazyFive) {
		t.Error("distinct elements compare equal")
	}

	a := five.Bytes()
	b := lazyFive.Bytes()
	if !bytes.Equal(a[:], b[:]) {
		t.Error("canonical encodings differ")
	}
}
