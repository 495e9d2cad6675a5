package sha2

import (
	"encoding/binary"
	"math/bits"
)

var roundConstants32 = [64]uint32{
	0x428a2f98, 0x71374491, 0xb5c0fbcf, 0xe9b5dba5, 0x3956c25b, 0x59f111f1, 0x923f82a4, 0xab1c5ed5,
	0xd807aa98, 0x12835b01, 0x243185be, 0x550c7dc3, 0x72be5d74, 0x80deb1fe, 0x9bdc06a7, 0xc19bf174,
	0xe49b69c1, 0xefbe4786, 0x0fc19dc6, 0x240ca1cc, 0x2de92c6f, 0x4a7484aa, 0x5cb0a9dc, 0x76f988da,
	0x983e5152, 0xa831c66d, 0xb00327c8, 0xbf597fc7, 0xc6e00bf3, 0xd5a79147, 0x06ca6351, 0x14292967,
	0x27b70a85, 0x2e1b2138, 0x4d2c6dfc, 0x53380d13, 0x650a7354, 0x766a0abb, 0x81c2c92e, 0x92722c85,
	0xa2bfe8a1, 0xa81a664b, 0xc24b8b70, 0xc76c51a3, 0xd192e819, 0xd6990624, 0xf40e3585, 0x106aa070,
	0x19a4c116, 0x1e376c08, 0x2748774c, 0x34b0bcb5, 0x391c0cb3, 0x4ed8aa4a, 0x5b9cca4f, 0x682e6ff3,
	0x748f82ee, 0x78a5636f, 0x84c87814, 0x8cc70208, 0x90befffa, 0xa4506ceb, 0xbef9a3f7, 0xc67178f2,
}

func mixShift32(v uint32, ra, rb, shift int) uint32 {
	return bits.RotateLeft32(v, -ra) ^ bits.RotateLeft32(v, -rb) ^ (v >> shift)
}

func mixRotate32(v uint32, ra, rb, rc int) uint32 {
	return bits.RotateLeft32(v, -ra) ^ bits.RotateLeft32(v, -rb) ^ bits.RotateLeft32(v, -rc)
}

// sum32 runs the 64-byte-block compression over msg plus padding. The bit
// length and the 0x80 terminator share the last block when the trailing
// partial block leaves at least nine bytes free, and spill into one more
// block otherwise.
func sum32(hv [8]uint32, msg []byte) [8]uint32 {
	excess := len(msg) % 64
	full := msg[:len(msg)-excess]

	var tail [128]byte
	copy(tail[:], msg[len(msg)-excess:])
	tail[excess] = 0x80
	tailLen := 64
	if excess+9 > 64 {
		tailLen = 128
	}
	binary.BigEndian.PutUint64(tail[tailLen-8:], uint64(len(msg))*8)

	for len(full) > 0 {
		block32(&hv, (*[64]byte)(full))
		full = full[64:]
	}
	for off := 0; off < tailLen; off += 64 {
		block32(&hv, (*[64]byte)(tail[off:]))
	}
	return hv
}

func block32(hv *[8]uint32, chunk *[64]byte) {
	var w [64]uint32
	for i := 0; i < 16; i++ {
		w[i] = binary.BigEndian.Uint32(chunk[4*i:])
	}
	for i := 16; i < 64; i++ {
		w[i] = w[i-16] + mixShift32(w[i-15], 7, 18, 3) +
			w[i-7] + mixShift32(w[i-2], 17, 19, 10)
	}

	a, b, c, d, e, f, g, h := hv[0], hv[1], hv[2], hv[3], hv[4], hv[5], hv[6], hv[7]
	for i := 0; i < 64; i++ {
		s1 := mixRotate32(e, 6, 11, 25)
		ch := (e & f) ^ (^e & g)
		t1 := h + s1 + ch + roundConstants32[i] + w[i]
		s0 := mixRotate32(a, 2, 13, 22)
		maj := (a & b) ^ (a & c) ^ (b & c)
		a, b, c, d, e, f, g, h = t1+s0+maj, a, b, c, d+t1, e, f, g
	}

	hv[0] += a
	hv[1] += b
	hv[2] += c
	hv[3] += d
	hv[4] += e
	hv[5] += f
	hv[6] += g
	hv[7] += h
}
