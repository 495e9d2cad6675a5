// Package sha3 implements the SHA3-512 hash of FIPS 202 on top of the
// Keccak-f[1600] permutation.
package sha3

import "encoding/binary"

// rate512 is the sponge rate for SHA3-512 in bytes.
const rate512 = 72

func absorb(state *[5][5]uint64, block *[rate512]byte) {
	for i := 0; i < rate512/8; i++ {
		state[i%5][i/5] ^= binary.LittleEndian.Uint64(block[8*i:])
	}
	keccakF1600(state)
}

// Sum512 returns the SHA3-512 digest of msg.
func Sum512(msg []byte) [64]byte {
	var state [5][5]uint64

	for len(msg) >= rate512 {
		absorb(&state, (*[rate512]byte)(msg))
		msg = msg[rate512:]
	}

	// Multi-rate padding: 0x06 right after the message, 0x80 on the final
	// byte. The two share a byte when the remainder is 71 bytes long.
	var last [rate512]byte
	copy(last[:], msg)
	last[len(msg)] |= 0x06
	last[rate512-1] |= 0x80
	absorb(&state, &last)

	var out [64]byte
	for i := 0; i < 8; i++ {
		binary.LittleEndian.PutUint64(out[8*i:], state[i%5][i/5])
	}
	return out
}
