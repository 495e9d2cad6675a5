package poly1305

import (
	"bytes"
	"encoding/binary"
	"io"
	"math/big"
	"testing"

	"golang.org/x/crypto/chacha20poly1305"

	"krypta.dev/chacha20"
)

func testStream(purpose string) *chacha20.Stream {
	var key [32]byte
	copy(key[:], purpose)
	var nonce [12]byte
	return chacha20.New(key, nonce)
}

func mustRead(t *testing.T, r io.Reader, buf []byte) {
	t.Helper()
	if _, err := io.ReadFull(r, buf); err != nil {
		t.Fatal(err)
	}
}

func TestRFC8439Vector(t *testing.T) {
	message := []byte("Cryptographic Forum Research Group")
	radix := [16]byte{
		0x85, 0xd6, 0xbe, 0x78, 0x57, 0x55, 0x6d, 0x33,
		0x7f, 0x44, 0x52, 0xfe, 0x42, 0xd5, 0x06, 0xa8,
	}
	nonce := [16]byte{
		0x01, 0x03, 0x80, 0x8a, 0xfb, 0x0d, 0xb2, 0xfd,
		0x4a, 0xbf, 0xf6, 0xaf, 0x41, 0x49, 0xf5, 0x1b,
	}
	want := [16]byte{
		0xa8, 0x06, 0x1d, 0xc1, 0x30, 0x51, 0x36, 0xc6,
		0xc2, 0x2b, 0x8b, 0xaf, 0x0c, 0x01, 0x27, 0xa9,
	}

	if got := Tag(message, radix, nonce); got != want {
		t.Errorf("tag %x, want %x", got, want)
	}
	if !Verify(message, radix, nonce, want) {
		t.Error("correct tag rejected")
	}
}

func bigFromLE(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i := range b {
		be[i] = b[len(b)-1-i]
	}
	return new(big.Int).SetBytes(be)
}

// referenceTag evaluates the Poly1305 polynomial with big.Int arithmetic,
// following RFC 8439 section 2.5.1 literally.
func referenceTag(message []byte, radix, nonce [16]byte) [16]byte {
	p := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 130), big.NewInt(5))
	mask128 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

	clampRadix(&radix)
	r := bigFromLE(radix[:])
	s := bigFromLE(nonce[:])

	acc := new(big.Int)
	for len(message) > 0 {
		n := len(message)
		if n > 16 {
			n = 16
		}
		chunk := bigFromLE(message[:n])
		chunk.Add(chunk, new(big.Int).Lsh(big.NewInt(1), uint(8*n)))
		acc.Add(acc, chunk)
		acc.Mul(acc, r)
		acc.Mod(acc, p)
		message = message[n:]
	}
	acc.Add(acc, s)
	acc.And(acc, mask128)

	var be [16]byte
	acc.FillBytes(be[:])
	var out [16]byte
	for i := range be {
		out[i] = be[15-i]
	}
	return out
}

func TestTagMatchesBigIntReference(t *testing.T) {
	rng := testStream("poly1305 reference inputs")
	lengths := []int{0, 1, 2, 15, 16, 17, 31, 32, 33, 47, 48, 64, 100, 255}
	for _, n := range lengths {
		for iter := 0; iter < 8; iter++ {
			var radix, nonce [16]byte
			mustRead(t, rng, radix[:])
			mustRead(t, rng, nonce[:])
			message := make([]byte, n)
			mustRead(t, rng, message)

			got := Tag(message, radix, nonce)
			want := referenceTag(message, radix, nonce)
			if got != want {
				t.Fatalf("len %d: tag %x, want %x", n, got, want)
			}
		}
	}
}

func TestEmptyMessageTagIsNonce(t *testing.T) {
	rng := testStream("poly1305 empty message")
	var radix, nonce [16]byte
	mustRead(t, rng, radix[:])
	mustRead(t, rng, nonce[:])

	// With no chunks the accumulator stays zero and the tag is the nonce.
	if got := Tag(nil, radix, nonce); got != nonce {
		t.Errorf("tag %x, want nonce %x", got, nonce)
	}
}

func TestVerifyRejectsTampering(t *testing.T) {
	rng := testStream("poly1305 verify inputs")
	var radix, nonce [16]byte
	mustRead(t, rng, radix[:])
	mustRead(t, rng, nonce[:])
	message := make([]byte, 50)
	mustRead(t, rng, message)

	tag := Tag(message, radix, nonce)
	if !Verify(message, radix, nonce, tag) {
		t.Fatal("genuine tag rejected")
	}

	for i := 0; i < len(tag); i++ {
		bad := tag
		bad[i] ^= 0x40
		if Verify(message, radix, nonce, bad) {
			t.Errorf("accepted tag with byte %d flipped", i)
		}
	}

	tampered := bytes.Clone(message)
	tampered[3] ^= 1
	if Verify(tampered, radix, nonce, tag) {
		t.Error("accepted tag for tampered message")
	}

	wrongNonce := nonce
	wrongNonce[0] ^= 1
	if Verify(message, radix, wrongNonce, tag) {
		t.Error("accepted tag under wrong nonce")
	}
}

// sealRFC8439 builds the RFC 8439 AEAD seal operation out of this library's
// chacha20 keystream and Tag. Block 0 keys the authenticator, blocks 1 and up
// encrypt.
func sealRFC8439(t *testing.T, key [32]byte, nonce [12]byte, plaintext, aad []byte) []byte {
	t.Helper()
	ks := chacha20.New(key, nonce)
	var block0 [64]byte
	mustRead(t, ks, block0[:])

	ciphertext := make([]byte, len(plaintext))
	mustRead(t, ks, ciphertext)
	for i := range ciphertext {
		ciphertext[i] ^= plaintext[i]
	}

	pad := func(b []byte) []byte {
		if rem := len(b) % 16; rem != 0 {
			b = append(b, make([]byte, 16-rem)...)
		}
		return b
	}
	var macData []byte
	macData = append(macData, aad...)
	macData = pad(macData)
	macData = append(macData, ciphertext...)
	macData = pad(macData)
	var lens [16]byte
	binary.LittleEndian.PutUint64(lens[0:8], uint64(len(aad)))
	binary.LittleEndian.PutUint64(lens[8:16], uint64(len(ciphertext)))
	macData = append(macData, lens[:]...)

	tag := Tag(macData, [16]byte(block0[0:16]), [16]byte(block0[16:32]))
	return append(ciphertext, tag[:]...)
}

func TestAEADCompositionMatchesXCrypto(t *testing.T) {
	rng := testStream("aead composition inputs")
	var key [32]byte
	mustRead(t, rng, key[:])
	var nonce [12]byte
	mustRead(t, rng, nonce[:])

	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		t.Fatal(err)
	}

	plainLens := []int{0, 1, 63, 64, 65, 200}
	aadLens := []int{0, 7, 16}
	for _, pl := range plainLens {
		for _, al := range aadLens {
			plaintext := make([]byte, pl)
			mustRead(t, rng, plaintext)
			aad := make([]byte, al)
			mustRead(t, rng, aad)

			got := sealRFC8439(t, key, nonce, plaintext, aad)
			want := aead.Seal(nil, nonce[:], plaintext, aad)
			if !bytes.Equal(got, want) {
				t.Errorf("plaintext %d aad %d: sealed %x, want %x", pl, al, got, want)
			}
		}
	}
}
