package aeha

import (
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestEncode(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		name     string
		customer []byte
		payload  []byte
		want     string
	}{
		{
			name:     "single payload byte",
			customer: []byte{0x23, 0xCB},
			payload:  []byte{0x20},
			// customer C4 D3 | parity 6 | data0 4 | checksum rev(0x0E)=0x70
			want: "11000100" + "11010011" + "0110" + "0100" + "01110000",
		},
		{
			name:     "three payload bytes",
			customer: []byte{0x23, 0xCB},
			payload:  []byte{0x20, 0x00, 0x02},
			// checksum 0x10 reversed is 0x08
			want: "11000100" + "11010011" + "0110" + "0100" + "00000000" + "01000000" + "00001000",
		},
		{
			name:     "first payload byte keeps only low nibble",
			customer: []byte{0x23, 0xCB},
			payload:  []byte{0x12, 0x34, 0x56},
			// rev(0x12)=0x48 -> 1000, rev(0x34)=0x2C, rev(0x56)=0x6A, rev(0x8A)=0x51
			want: "11000100" + "11010011" + "0110" + "1000" + "00101100" + "01101010" + "01010001",
		},
		{
			name:     "four byte payload",
			customer: []byte{0xAA, 0x5A},
			payload:  []byte{0x8F, 0x12, 0x16, 0xD1},
			want:     "01010101" + "01011010" + "1111" + "0001" + "01001000" + "01101000" + "10001011" + "00110001",
		},
	}

	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			bits, err := Encode(tt.customer, tt.payload)
			c.Assert(err, qt.IsNil)
			c.Assert(string(bits), qt.Equals, tt.want)
			c.Assert(bits.Len(), qt.Equals, BitLength(len(tt.customer), len(tt.payload)))
			c.Assert(bits.Validate(), qt.IsNil)
		})
	}
}

func TestEncodeSinglePayloadLength(t *testing.T) {
	c := qt.New(t)

	for _, customer := range [][]byte{{0x01}, {0x23, 0xCB}, {0x01, 0x02, 0x03}} {
		bits, err := Encode(customer, []byte{0x20})
		c.Assert(err, qt.IsNil)
		c.Assert(bits.Len(), qt.Equals, 8*len(customer)+4+4+8)
	}
}

func TestEncodeDoesNotModifyInputs(t *testing.T) {
	c := qt.New(t)

	customer := []byte{0x23, 0xCB}
	payload := []byte{0x20, 0x00, 0x02}

	_, err := Encode(customer, payload)
	c.Assert(err, qt.IsNil)
	c.Assert(customer, qt.DeepEquals, []byte{0x23, 0xCB})
	c.Assert(payload, qt.DeepEquals, []byte{0x20, 0x00, 0x02})
}

func TestEncodeValidation(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		name      string
		customer  []byte
		payload   []byte
		wantField string
	}{
		{"empty customer code", nil, []byte{0x20}, "customer_code"},
		{"empty payload", []byte{0x23, 0xCB}, []byte{}, "payload"},
	}

	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			bits, err := Encode(tt.customer, tt.payload)
			c.Assert(bits, qt.Equals, Bitstream(""))
			c.Assert(IsValidationError(err), qt.IsTrue)

			var encErr *Error
			c.Assert(err, qt.ErrorAs, &encErr)
			c.Assert(encErr.Field, qt.Equals, tt.wantField)
		})
	}
}

func TestEncodeCommand(t *testing.T) {
	c := qt.New(t)

	c.Run("encodes every payload", func(c *qt.C) {
		cmd := Command{
			CustomerCode: []byte{0x23, 0xCB},
			Payloads:     [][]byte{{0x20}, {0x20, 0x00, 0x02}},
		}
		streams, err := EncodeCommand(cmd)
		c.Assert(err, qt.IsNil)
		c.Assert(streams, qt.HasLen, 2)
		c.Assert(streams[0].Len(), qt.Equals, 32)
		c.Assert(streams[1].Len(), qt.Equals, 48)
	})

	c.Run("no payloads", func(c *qt.C) {
		_, err := EncodeCommand(Command{CustomerCode: []byte{0x23, 0xCB}})
		c.Assert(IsInvocationError(err), qt.IsTrue)
	})

	c.Run("empty payload reports index", func(c *qt.C) {
		_, err := EncodeCommand(Command{
			CustomerCode: []byte{0x23, 0xCB},
			Payloads:     [][]byte{{0x20}, {}},
		})
		c.Assert(err, qt.ErrorMatches, "payload 1: .*")
		c.Assert(IsValidationError(err), qt.IsTrue)
	})
}

func TestBitstreamValidate(t *testing.T) {
	c := qt.New(t)

	c.Assert(Bitstream("0101").Validate(), qt.IsNil)
	c.Assert(Bitstream("").Validate(), qt.IsNil)

	err := Bitstream("01x1").Validate()
	c.Assert(IsValidationError(err), qt.IsTrue)
	c.Assert(err, qt.ErrorMatches, `.*bits\[2\].*`)
}

func TestBitstreamGrouped(t *testing.T) {
	c := qt.New(t)

	c.Assert(Bitstream("110001001101").Grouped(4), qt.Equals, "1100 0100 1101")
	c.Assert(Bitstream("1100010011").Grouped(8), qt.Equals, "11000100 11")
	c.Assert(Bitstream("1100").Grouped(8), qt.Equals, "1100")
	c.Assert(strings.Count(Bitstream("10101010").Grouped(0), " "), qt.Equals, 0)
}

func TestBitLength(t *testing.T) {
	c := qt.New(t)

	c.Assert(BitLength(2, 1), qt.Equals, 32)
	c.Assert(BitLength(2, 3), qt.Equals, 48)
	c.Assert(BitLength(2, 0), qt.Equals, 20)
}
