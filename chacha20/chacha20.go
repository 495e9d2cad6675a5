// Package chacha20 implements the ChaCha20 keystream generator of RFC 8439,
// exposed as a seekable byte stream.
package chacha20

import (
	"encoding/binary"
	"errors"
	"io"
	"math/bits"
)

const blockSize = 64

// MaxBytes is the keystream length before exhaustion: the block counter is a
// single 32-bit word, giving 2^32 blocks of 64 bytes.
const MaxBytes = int64(1) << 38

var (
	errWhence = errors.New("chacha20: invalid seek whence")
	errOffset = errors.New("chacha20: negative seek position")
)

// Stream is the keystream for one key and nonce pair, readable from any byte
// offset. It implements io.Reader and io.Seeker: Read serves successive
// keystream bytes and returns io.EOF once the counter space is spent, Seek
// repositions to an absolute keystream offset. The zero block counter is the
// start of the stream.
//
// A Stream must not be used from multiple goroutines concurrently.
type Stream struct {
	input  [16]uint32
	block  [blockSize]byte
	cached int64
	pos    int64
}

// New returns the keystream for key and nonce, positioned at offset 0.
func New(key [32]byte, nonce [12]byte) *Stream {
	s := &Stream{cached: -1}
	s.input[0] = 0x61707865
	s.input[1] = 0x3320646e
	s.input[2] = 0x79622d32
	s.input[3] = 0x6b206574
	for i := 0; i < 8; i++ {
		s.input[4+i] = binary.LittleEndian.Uint32(key[4*i:])
	}
	for i := 0; i < 3; i++ {
		s.input[13+i] = binary.LittleEndian.Uint32(nonce[4*i:])
	}
	return s
}

// quarterRound mixes four state words in place, RFC 8439 section 2.1.
func quarterRound(st *[16]uint32, a, b, c, d int) {
	st[a] += st[b]
	st[d] = bits.RotateLeft32(st[d]^st[a], 16)
	st[c] += st[d]
	st[b] = bits.RotateLeft32(st[b]^st[c], 12)
	st[a] += st[b]
	st[d] = bits.RotateLeft32(st[d]^st[a], 8)
	st[c] += st[d]
	st[b] = bits.RotateLeft32(st[b]^st[c], 7)
}

// doubleRound is one column round followed by one diagonal round.
func doubleRound(st *[16]uint32) {
	quarterRound(st, 0, 4, 8, 12)
	quarterRound(st, 1, 5, 9, 13)
	quarterRound(st, 2, 6, 10, 14)
	quarterRound(st, 3, 7, 11, 15)
	quarterRound(st, 0, 5, 10, 15)
	quarterRound(st, 1, 6, 11, 12)
	quarterRound(st, 2, 7, 8, 13)
	quarterRound(st, 3, 4, 9, 14)
}

// generate fills the block cache with the keystream block for counter: ten
// double rounds over the input state, then a wrapping add of the input state,
// serialized little-endian.
func (s *Stream) generate(counter uint32) {
	s.input[12] = counter
	working := s.input
	for i := 0; i < 10; i++ {
		doubleRound(&working)
	}
	for i := range working {
		working[i] += s.input[i]
		binary.LittleEndian.PutUint32(s.block[4*i:], working[i])
	}
	s.cached = int64(counter)
}

// Read fills p with keystream bytes from the current position.
func (s *Stream) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if s.pos >= MaxBytes {
			if n > 0 {
				return n, nil
			}
			return 0, io.EOF
		}
		idx := s.pos / blockSize
		if idx != s.cached {
			s.generate(uint32(idx))
		}
		off := int(s.pos % blockSize)
		c := copy(p[n:], s.block[off:])
		n += c
		s.pos += int64(c)
	}
	return n, nil
}

// Seek repositions the stream. The stream's length for io.SeekEnd purposes is
// MaxBytes; seeking past the end is allowed and leaves the stream at EOF.
func (s *Stream) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = s.pos + offset
	case io.SeekEnd:
		abs = MaxBytes + offset
	default:
		return 0, errWhence
	}
	if abs < 0 {
		return 0, errOffset
	}
	s.pos = abs
	return abs, nil
}
