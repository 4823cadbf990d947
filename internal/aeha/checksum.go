package aeha

// Parity calculates the 4-bit parity of a customer code.
//
// The input must already be bit-reversed (MSB-first). Both nibbles of every
// byte are XORed together.
func Parity(customerCodeMSB []byte) byte {
	var parity byte
	for _, b := range customerCodeMSB {
		parity ^= b>>4 ^ b&0x0F
	}
	return parity & 0x0F
}

// Checksum calculates the sum of data modulo 256.
//
// The frame checksum covers the original (LSB-first) customer code followed
// by the original payload.
func Checksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return sum
}
