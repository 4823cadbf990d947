package aeha

// ReverseBits reverses the bit order of b (bit 0 <-> bit 7, 1 <-> 6, ...).
//
// Swaps adjacent bits, then bit pairs, then nibbles.
func ReverseBits(b byte) byte {
	b = (b&0b01010101)<<1 | (b&0b10101010)>>1
	b = (b&0b00110011)<<2 | (b&0b11001100)>>2
	return (b&0b00001111)<<4 | b>>4
}

// ReverseBytes returns a new slice with every byte of data bit-reversed.
func ReverseBytes(data []byte) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = ReverseBits(b)
	}
	return out
}
