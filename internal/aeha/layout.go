package aeha

import (
	"fmt"
	"strings"
)

// FieldKind identifies which part of the frame a field belongs to
type FieldKind int

const (
	FieldCustomer FieldKind = iota
	FieldParity
	FieldData0
	FieldData
	FieldChecksum
)

// String returns the field kind name
func (k FieldKind) String() string {
	switch k {
	case FieldCustomer:
		return "customer"
	case FieldParity:
		return "parity"
	case FieldData0:
		return "data0"
	case FieldData:
		return "data"
	case FieldChecksum:
		return "checksum"
	default:
		return fmt.Sprintf("FieldKind(%d)", k)
	}
}

// Field is one annotated section of an encoded frame
type Field struct {
	Kind   FieldKind `json:"-"`
	Name   string    `json:"name"`   // e.g., "customer[0]", "parity", "data[2]"
	Offset int       `json:"offset"` // Bit offset in the stream
	Width  int       `json:"width"`  // Bit width (4 or 8)
	Value  byte      `json:"value"`  // Logical (LSB-first) value; parity is as computed
	Bits   string    `json:"bits"`   // Emitted bits
}

// Layout is the annotated field breakdown of one encoded frame
type Layout struct {
	CustomerCode []byte  `json:"customer_code"`
	Payload      []byte  `json:"payload"`
	Parity       byte    `json:"parity"`
	Checksum     byte    `json:"checksum"`
	Fields       []Field `json:"fields"`
}

// Describe encodes one payload and returns the field-by-field breakdown.
// Joining the Bits of every field yields the same stream as Encode.
func Describe(customerCode, payload []byte) (*Layout, error) {
	if err := validateInputs(customerCode, payload); err != nil {
		return nil, err
	}

	layout := &Layout{
		CustomerCode: append([]byte(nil), customerCode...),
		Payload:      append([]byte(nil), payload...),
	}

	offset := 0
	add := func(kind FieldKind, name string, value, emitted byte, width int) {
		var sb strings.Builder
		appendBits(&sb, emitted, width)
		layout.Fields = append(layout.Fields, Field{
			Kind:   kind,
			Name:   name,
			Offset: offset,
			Width:  width,
			Value:  value,
			Bits:   sb.String(),
		})
		offset += width
	}

	customerMSB := ReverseBytes(customerCode)
	for i, b := range customerMSB {
		add(FieldCustomer, fmt.Sprintf("customer[%d]", i), customerCode[i], b, ByteBits)
	}

	layout.Parity = Parity(customerMSB)
	add(FieldParity, "parity", layout.Parity, layout.Parity, NibbleBits)

	for i, b := range payload {
		if i == 0 {
			add(FieldData0, "data0", b, ReverseBits(b), NibbleBits)
			continue
		}
		add(FieldData, fmt.Sprintf("data[%d]", i), b, ReverseBits(b), ByteBits)
	}

	all := append(append([]byte(nil), customerCode...), payload...)
	layout.Checksum = Checksum(all)
	add(FieldChecksum, "checksum", layout.Checksum, ReverseBits(layout.Checksum), ByteBits)

	return layout, nil
}

// Bitstream joins the emitted bits of every field
func (l *Layout) Bitstream() Bitstream {
	var sb strings.Builder
	for _, f := range l.Fields {
		sb.WriteString(f.Bits)
	}
	return Bitstream(sb.String())
}

// String renders the layout as one line per field
func (l *Layout) String() string {
	var sb strings.Builder
	for _, f := range l.Fields {
		fmt.Fprintf(&sb, "%-12s @%-3d %-8s 0x%02X\n", f.Name, f.Offset, f.Bits, f.Value)
	}
	return sb.String()
}
