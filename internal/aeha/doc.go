// Package aeha encodes infrared remote-control commands in the AEHA format.
//
// AEHA (Association for Electric Home Appliances) is the IR protocol used by
// most Japanese air conditioners, TVs and lighting. This package turns a
// customer code and a payload into the bitstream the protocol defines and then
// into the mark/space pulse durations a transmitter drives an IR LED with.
//
// # Frame Layout
//
// Logical byte values are stored LSB-first, while each byte goes on the air
// MSB-first, so every byte is bit-reversed before it is emitted:
//
//	customer code   8 bits per byte (reversed)
//	parity          4 bits  XOR of the nibbles of the reversed customer code
//	data0           4 bits  low nibble of the reversed first payload byte
//	data1..dataN    8 bits per byte (reversed)
//	checksum        8 bits  reversed sum mod 256 of customer code + payload
//
// The checksum is computed over the original (non-reversed) bytes.
//
// # Pulse Timing
//
// A frame starts with a header mark and space, carries one mark/space pair per
// bit and ends with a trailing mark:
//
//	header  3400us mark, 1750us space
//	0       T mark, T space
//	1       T mark, 3T space
//	trailer T mark
//
// where T is 436us. The values live in DefaultTiming; other variants are
// supported by building a different Timing.
//
// # Usage Example
//
//	bits, err := aeha.Encode([]byte{0x23, 0xCB}, []byte{0x20, 0x00, 0x02})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	frame, err := aeha.GenerateFrame(bits)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// frame is ready for transmit.Peripheral.WritePulses
//
// # Error Handling
//
// Empty customer codes and payloads are rejected with an *Error of type
// ErrTypeValidation instead of producing a malformed frame. The pulse
// generator rejects any character other than '0' and '1'.
//
// # Thread Safety
//
// Every function in this package is pure and safe for concurrent use.
package aeha
