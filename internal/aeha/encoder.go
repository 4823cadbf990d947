package aeha

import (
	"fmt"
	"strings"
)

// Field widths in bits
const (
	ByteBits   = 8
	NibbleBits = 4
)

// Bitstream is an encoded AEHA frame as a string of '0' and '1' characters,
// in transmission order.
type Bitstream string

// Len returns the number of bits in the stream
func (b Bitstream) Len() int {
	return len(b)
}

// Validate checks that the stream only contains '0' and '1'
func (b Bitstream) Validate() error {
	for i := 0; i < len(b); i++ {
		if b[i] != '0' && b[i] != '1' {
			return NewValidationError(fmt.Sprintf("bits[%d]", i),
				fmt.Sprintf("invalid bit character %q (expected '0' or '1')", b[i]))
		}
	}
	return nil
}

// Grouped returns the stream split into groups of size bits separated by
// spaces, for display.
func (b Bitstream) Grouped(size int) string {
	if size <= 0 || len(b) <= size {
		return string(b)
	}
	var sb strings.Builder
	for i := 0; i < len(b); i += size {
		if i > 0 {
			sb.WriteByte(' ')
		}
		end := i + size
		if end > len(b) {
			end = len(b)
		}
		sb.WriteString(string(b[i:end]))
	}
	return sb.String()
}

// Command is one transmission: a customer code and the payloads sent
// back-to-back under it.
type Command struct {
	CustomerCode []byte
	Payloads     [][]byte
}

// BitLength returns the bitstream length for the given customer code and
// payload sizes.
//
//	8*customer + 4 (parity) + 4 (data0) + 8*(payload-1) + 8 (checksum)
func BitLength(customerCodeLen, payloadLen int) int {
	if payloadLen < 1 {
		return ByteBits*customerCodeLen + NibbleBits
	}
	return ByteBits*customerCodeLen + NibbleBits + NibbleBits + ByteBits*(payloadLen-1) + ByteBits
}

// Encode assembles the AEHA bitstream for one payload.
//
// Both inputs are LSB-first logical byte values. Layout:
//
//	[0]   reversed customer code bytes, 8 bits each
//	[1]   4-bit parity of the reversed customer code
//	[2]   low 4 bits of the reversed first payload byte
//	[3]   remaining reversed payload bytes, 8 bits each
//	[4]   reversed checksum of customer code + payload, 8 bits
//
// Returns a validation error if either input is empty.
func Encode(customerCode, payload []byte) (Bitstream, error) {
	if err := validateInputs(customerCode, payload); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.Grow(BitLength(len(customerCode), len(payload)))

	customerMSB := ReverseBytes(customerCode)
	for _, b := range customerMSB {
		appendBits(&sb, b, ByteBits)
	}
	appendBits(&sb, Parity(customerMSB), NibbleBits)

	// Working list: reversed payload followed by the reversed checksum
	sum := Checksum(append(append(make([]byte, 0, len(customerCode)+len(payload)), customerCode...), payload...))
	data := append(ReverseBytes(payload), ReverseBits(sum))

	for i, b := range data {
		if i == 0 {
			appendBits(&sb, b, NibbleBits)
		} else {
			appendBits(&sb, b, ByteBits)
		}
	}

	return Bitstream(sb.String()), nil
}

// EncodeCommand encodes every payload of cmd in order.
// Returns an invocation error if cmd has no payloads.
func EncodeCommand(cmd Command) ([]Bitstream, error) {
	if len(cmd.Payloads) == 0 {
		return nil, NewInvocationError("command has no payloads")
	}

	out := make([]Bitstream, 0, len(cmd.Payloads))
	for i, payload := range cmd.Payloads {
		bits, err := Encode(cmd.CustomerCode, payload)
		if err != nil {
			return nil, fmt.Errorf("payload %d: %w", i, err)
		}
		out = append(out, bits)
	}
	return out, nil
}

func validateInputs(customerCode, payload []byte) error {
	if len(customerCode) == 0 {
		return NewValidationError("customer_code", "must contain at least one byte")
	}
	if len(payload) == 0 {
		return NewValidationError("payload", "must contain at least one byte")
	}
	return nil
}

// appendBits writes the low width bits of v, most significant first
func appendBits(sb *strings.Builder, v byte, width int) {
	for i := width - 1; i >= 0; i-- {
		if v&(1<<uint(i)) != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
}
