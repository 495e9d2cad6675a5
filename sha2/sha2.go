// Package sha2 implements the SHA-2 family of FIPS 180-4 as one-shot
// digests over byte slices.
package sha2

import "encoding/binary"

// Sum224 returns the SHA-224 digest of msg.
func Sum224(msg []byte) [28]byte {
	hv := sum32([8]uint32{
		0xc1059ed8, 0x367cd507, 0x3070dd17, 0xf70e5939,
		0xffc00b31, 0x68581511, 0x64f98fa7, 0xbefa4fa4,
	}, msg)

	var out [28]byte
	for i := 0; i < 7; i++ {
		binary.BigEndian.PutUint32(out[4*i:], hv[i])
	}
	return out
}

// Sum256 returns the SHA-256 digest of msg.
func Sum256(msg []byte) [32]byte {
	hv := sum32([8]uint32{
		0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
		0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
	}, msg)

	var out [32]byte
	for i, v := range hv {
		binary.BigEndian.PutUint32(out[4*i:], v)
	}
	return out
}

// Sum384 returns the SHA-384 digest of msg.
func Sum384(msg []byte) [48]byte {
	hv := sum64([8]uint64{
		0xcbbb9d5dc1059ed8, 0x629a292a367cd507, 0x9159015a3070dd17, 0x152fecd8f70e5939,
		0x67332667ffc00b31, 0x8eb44a8768581511, 0xdb0c2e0d64f98fa7, 0x47b5481dbefa4fa4,
	}, msg)

	var out [48]byte
	for i := 0; i < 6; i++ {
		binary.BigEndian.PutUint64(out[8*i:], hv[i])
	}
	return out
}

// Sum512 returns the SHA-512 digest of msg.
func Sum512(msg []byte) [64]byte {
	hv := sum64([8]uint64{
		0x6a09e667f3bcc908, 0xbb67ae8584caa73b, 0x3c6ef372fe94f82b, 0xa54ff53a5f1d36f1,
		0x510e527fade682d1, 0x9b05688c2b3e6c1f, 0x1f83d9abfb41bd6b, 0x5be0cd19137e2179,
	}, msg)

	var out [64]byte
	for i, v := range hv {
		binary.BigEndian.PutUint64(out[8*i:], v)
	}
	return out
}
