package aeha

import (
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestDescribe(t *testing.T) {
	c := qt.New(t)

	customer := []byte{0x23, 0xCB}
	payload := []byte{0x20, 0x00, 0x02}

	layout, err := Describe(customer, payload)
	c.Assert(err, qt.IsNil)

	c.Assert(layout.Parity, qt.Equals, byte(0x6))
	c.Assert(layout.Checksum, qt.Equals, byte(0x10))

	names := make([]string, len(layout.Fields))
	for i, f := range layout.Fields {
		names[i] = f.Name
	}
	c.Assert(names, qt.DeepEquals, []string{
		"customer[0]", "customer[1]", "parity", "data0", "data[1]", "data[2]", "checksum",
	})

	parity := layout.Fields[2]
	c.Assert(parity.Kind, qt.Equals, FieldParity)
	c.Assert(parity.Offset, qt.Equals, 16)
	c.Assert(parity.Width, qt.Equals, 4)
	c.Assert(parity.Bits, qt.Equals, "0110")

	data0 := layout.Fields[3]
	c.Assert(data0.Offset, qt.Equals, 20)
	c.Assert(data0.Value, qt.Equals, byte(0x20))
	c.Assert(data0.Bits, qt.Equals, "0100")

	checksum := layout.Fields[6]
	c.Assert(checksum.Offset, qt.Equals, 40)
	c.Assert(checksum.Bits, qt.Equals, "00001000")
}

func TestDescribeMatchesEncode(t *testing.T) {
	c := qt.New(t)

	inputs := []struct {
		customer []byte
		payload  []byte
	}{
		{[]byte{0x23, 0xCB}, []byte{0x20}},
		{[]byte{0x23, 0xCB}, []byte{0x12, 0x34, 0x56}},
		{[]byte{0xAA, 0x5A}, []byte{0x8F, 0x12, 0x16, 0xD1}},
		{[]byte{0x01}, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}},
	}

	for _, in := range inputs {
		layout, err := Describe(in.customer, in.payload)
		c.Assert(err, qt.IsNil)
		bits, err := Encode(in.customer, in.payload)
		c.Assert(err, qt.IsNil)
		c.Assert(layout.Bitstream(), qt.Equals, bits)

		last := layout.Fields[len(layout.Fields)-1]
		c.Assert(last.Offset+last.Width, qt.Equals, bits.Len())
	}
}

func TestDescribeValidation(t *testing.T) {
	c := qt.New(t)

	_, err := Describe(nil, []byte{0x20})
	c.Assert(IsValidationError(err), qt.IsTrue)
	_, err = Describe([]byte{0x23}, nil)
	c.Assert(IsValidationError(err), qt.IsTrue)
}

func TestLayoutString(t *testing.T) {
	c := qt.New(t)

	layout, err := Describe([]byte{0x23, 0xCB}, []byte{0x20})
	c.Assert(err, qt.IsNil)

	lines := strings.Split(strings.TrimSpace(layout.String()), "\n")
	c.Assert(lines, qt.HasLen, 5)
	c.Assert(lines[0], qt.Matches, `customer\[0\]\s+@0\s+11000100\s+0x23`)
	c.Assert(lines[4], qt.Matches, `checksum\s+@24\s+01110000\s+0x0E`)
}
