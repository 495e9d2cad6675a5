package sha2

import (
	"encoding/binary"
	"math/bits"
)

var roundConstants64 = [80]uint64{
	0x428a2f98d728ae22, 0x7137449123ef65cd, 0xb5c0fbcfec4d3b2f, 0xe9b5dba58189dbbc,
	0x3956c25bf348b538, 0x59f111f1b605d019, 0x923f82a4af194f9b, 0xab1c5ed5da6d8118,
	0xd807aa98a3030242, 0x12835b0145706fbe, 0x243185be4ee4b28c, 0x550c7dc3d5ffb4e2,
	0x72be5d74f27b896f, 0x80deb1fe3b1696b1, 0x9bdc06a725c71235, 0xc19bf174cf692694,
	0xe49b69c19ef14ad2, 0xefbe4786384f25e3, 0x0fc19dc68b8cd5b5, 0x240ca1cc77ac9c65,
	0x2de92c6f592b0275, 0x4a7484aa6ea6e483, 0x5cb0a9dcbd41fbd4, 0x76f988da831153b5,
	0x983e5152ee66dfab, 0xa831c66d2db43210, 0xb00327c898fb213f, 0xbf597fc7beef0ee4,
	0xc6e00bf33da88fc2, 0xd5a79147930aa725, 0x06ca6351e003826f, 0x142929670a0e6e70,
	0x27b70a8546d22ffc, 0x2e1b21385c26c926, 0x4d2c6dfc5ac42aed, 0x53380d139d95b3df,
	0x650a73548baf63de, 0x766a0abb3c77b2a8, 0x81c2c92e47edaee6, 0x92722c851482353b,
	0xa2bfe8a14cf10364, 0xa81a664bbc423001, 0xc24b8b70d0f89791, 0xc76c51a30654be30,
	0xd192e819d6ef5218, 0xd69906245565a910, 0xf40e35855771202a, 0x106aa07032bbd1b8,
	0x19a4c116b8d2d0c8, 0x1e376c085141ab53, 0x2748774cdf8eeb99, 0x34b0bcb5e19b48a8,
	0x391c0cb3c5c95a63, 0x4ed8aa4ae3418acb, 0x5b9cca4f7763e373, 0x682e6ff3d6b2b8a3,
	0x748f82ee5defb2fc, 0x78a5636f43172f60, 0x84c87814a1f0ab72, 0x8cc702081a6439ec,
	0x90befffa23631e28, 0xa4506cebde82bde9, 0xbef9a3f7b2c67915, 0xc67178f2e372532b,
	0xca273eceea26619c, 0xd186b8c721c0c207, 0xeada7dd6cde0eb1e, 0xf57d4f7fee6ed178,
	0x06f067aa72176fba, 0x0a637dc5a2c898a6, 0x113f9804bef90dae, 0x1b710b35131c471b,
	0x28db77f523047d84, 0x32caab7b40c72493, 0x3c9ebe0a15c9bebc, 0x431d67c49c100d4c,
	0x4cc5d4becb3e42b6, 0x597f299cfc657e2a, 0x5fcb6fab3ad6faec, 0x6c44198c4a475817,
}

func mixShift64(v uint64, ra, rb, shift int) uint64 {
	return bits.RotateLeft64(v, -ra) ^ bits.RotateLeft64(v, -rb) ^ (v >> shift)
}

func mixRotate64(v uint64, ra, rb, rc int) uint64 {
	return bits.RotateLeft64(v, -ra) ^ bits.RotateLeft64(v, -rb) ^ bits.RotateLeft64(v, -rc)
}

// sum64 is sum32 scaled up to 128-byte blocks, an 80-round schedule, and a
// 128-bit length field.
func sum64(hv [8]uint64, msg []byte) [8]uint64 {
	excess := len(msg) % 128
	full := msg[:len(msg)-excess]

	var tail [256]byte
	copy(tail[:], msg[len(msg)-excess:])
	tail[excess] = 0x80
	tailLen := 128
	if excess+17 > 128 {
		tailLen = 256
	}
	binary.BigEndian.PutUint64(tail[tailLen-16:], uint64(len(msg))>>61)
	binary.BigEndian.PutUint64(tail[tailLen-8:], uint64(len(msg))<<3)

	for len(full) > 0 {
		block64(&hv, (*[128]byte)(full))
		full = full[128:]
	}
	for off := 0; off < tailLen; off += 128 {
		block64(&hv, (*[128]byte)(tail[off:]))
	}
	return hv
}

func block64(hv *[8]uint64, chunk *[128]byte) {
	var w [80]uint64
	for i := 0; i < 16; i++ {
		w[i] = binary.BigEndian.Uint64(chunk[8*i:])
	}
	for i := 16; i < 80; i++ {
		w[i] = w[i-16] + mixShift64(w[i-15], 1, 8, 7) +
			w[i-7] + mixShift64(w[i-2], 19, 61, 6)
	}

	a, b, c, d, e, f, g, h := hv[0], hv[1], hv[2], hv[3], hv[4], hv[5], hv[6], hv[7]
	for i := 0; i < 80; i++ {
		s1 := mixRotate64(e, 14, 18, 41)
		ch := (e & f) ^ (^e & g)
		t1 := h + s1 + ch + roundConstants64[i] + w[i]
		s0 := mixRotate64(a, 28, 34, 39)
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
