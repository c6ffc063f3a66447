package bits

import "strings"

// Bits is a sequence of single-bit values, one bit per element.
// Only the least significant bit of each element is meaningful.
type Bits []byte

// At reads bit i of an MSB-first packed byte slice:
// bit 0 is the most significant bit of packed[0].
func At(packed []byte, i int) byte {
	return (packed[i>>3] >> (7 - uint(i&7))) & 1
}

// Unpack expands the first n bits of packed into one bit per element,
// MSB first within each byte.
func Unpack(packed []byte, n int) Bits {
	out := make(Bits, n)
	for i := range out {
		out[i] = At(packed, i)
	}
	return out
}

// NewBits unpacks every bit of packed.
func NewBits(packed []byte) Bits {
	return Unpack(packed, len(packed)*8)
}

// Bytes packs b into a byte-aligned array, MSB first, the inverse of Unpack.
// The final byte is zero-padded when len(b) is not a multiple of 8.
func (b Bits) Bytes() []byte {
	out := make([]byte, (len(b)+7)/8)
	for i, v := range b {
		if v&1 != 0 {
			out[i>>3] |= 1 << (7 - uint(i&7))
		}
	}
	return out
}

// String renders b as a run of '0' and '1' characters.
func (b Bits) String() string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, v := range b {
		if v&1 != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// HammingDistance counts the positions at which a and b differ.
// When the lengths differ, only the common prefix is compared.
func HammingDistance(a, b Bits) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	d := 0
	for i := 0; i < n; i++ {
		if a[i]&1 != b[i]&1 {
			d++
		}
	}
	return d
}
