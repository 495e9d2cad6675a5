package sha3

import "math/bits"

// roundConstants holds the 24 iota constants, generated by the degree-8
// LFSR from the Keccak reference rather than transcribed.
var roundConstants = computeRoundConstants()

func stepLFSR(s uint8) (uint8, bool) {
	newBit := uint8(bits.OnesCount8(s&0x8e) & 1)
	out := s&0x80 != 0
	return s<<1 | newBit, out
}

// Round constant i collects seven LFSR output bits at positions 2^j - 1.
func computeRoundConstants() [24]uint64 {
	var rc [24]uint64
	lfsr := uint8(0x80)
	for i := range rc {
		for j := 0; j < 7; j++ {
			var out bool
			lfsr, out = stepLFSR(lfsr)
			if out {
				rc[i] |= 1 << (1<<j - 1)
			}
		}
	}
	return rc
}

// keccakF1600 applies the 24-round Keccak-f[1600] permutation in place.
// Lane (x, y) of FIPS 202 lives at a[x][y].
func keccakF1600(a *[5][5]uint64) {
	for round := 0; round < 24; round++ {
		theta(a)
		rho(a)
		pi(a)
		chi(a)
		iotaStep(a, round)
	}
}

func theta(a *[5][5]uint64) {
	var parities [5]uint64
	for x := 0; x < 5; x++ {
		for y := 0; y < 5; y++ {
			parities[x] ^= a[x][y]
		}
	}
	for x := 0; x < 5; x++ {
		crossed := parities[(x+4)%5] ^ bits.RotateLeft64(parities[(x+1)%5], 1)
		for y := 0; y < 5; y++ {
			a[x][y] ^= crossed
		}
	}
}

// rho rotates each lane by a triangular-number offset, walking the lanes in
// the (y, 2x+3y) order that starts from (1, 0).
func rho(a *[5][5]uint64) {
	rotation := 0
	x, y := 1, 0
	for t := 0; t < 24; t++ {
		rotation += t + 1
		a[x][y] = bits.RotateLeft64(a[x][y], rotation)
		x, y = y, (2*x+3*y)%5
	}
}

func pi(a *[5][5]uint64) {
	var next [5][5]uint64
	for x := 0; x < 5; x++ {
		for y := 0; y < 5; y++ {
			next[y][(2*x+3*y)%5] = a[x][y]
		}
	}
	*a = next
}

func chi(a *[5][5]uint64) {
	for y := 0; y < 5; y++ {
		var row [5]uint64
		for x := 0; x < 5; x++ {
			row[x] = ^a[(x+1)%5][y] & a[(x+2)%5][y]
		}
		for x := 0; x < 5; x++ {
			a[x][y] ^= row[x]
		}
	}
}

// iotaStep is the iota transform, renamed to leave the predeclared iota
// alone.
func iotaStep(a *[5][5]uint64, round int) {
	a[0][0] ^= roundConstants[round]
}
