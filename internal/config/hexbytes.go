package config

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// HexBytes is a byte string stored as compact upper-case hex ("23CB").
//
// When reading, separators and 0x prefixes are accepted ("0x23, 0xCB",
// "23 cb"), as is a YAML or JSON list of numbers ([0x23, 0xCB]).
type HexBytes []byte

// String returns the bytes as upper-case hex
func (h HexBytes) String() string {
	return fmt.Sprintf("%X", []byte(h))
}

// MarshalYAML implements yaml.Marshaler
func (h HexBytes) MarshalYAML() (interface{}, error) {
	return h.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (h *HexBytes) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		b, err := ParseHexBytes(value.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", value.Line, err)
		}
		*h = b
		return nil

	case yaml.SequenceNode:
		out := make(HexBytes, 0, len(value.Content))
		for _, item := range value.Content {
			v, err := strconv.ParseUint(item.Value, 0, 8)
			if err != nil {
				return fmt.Errorf("line %d: invalid byte %q", item.Line, item.Value)
			}
			out = append(out, byte(v))
		}
		*h = out
		return nil

	default:
		return fmt.Errorf("line %d: expected hex string or list of bytes", value.Line)
	}
}

// MarshalJSON implements json.Marshaler
func (h HexBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (h *HexBytes) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			*h = HexBytes{}
			return nil
		}
		b, err := ParseHexBytes(s)
		if err != nil {
			return err
		}
		*h = b
		return nil
	}

	var nums []uint8
	if err := json.Unmarshal(data, &nums); err != nil {
		return fmt.Errorf("expected hex string or list of bytes: %w", err)
	}
	*h = HexBytes(nums)
	return nil
}

// ParseHexBytes parses a byte string written as hex.
//
// Accepted forms: "23CB", "0x23CB", "23 CB", "0x23,0xCB", "23:cb".
// Tokens of one or two digits are single bytes; longer tokens must have an
// even number of digits. Empty input is an error.
func ParseHexBytes(s string) ([]byte, error) {
	tokens := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ':' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(tokens) == 0 {
		return nil, fmt.Errorf("no bytes in %q", s)
	}

	var out []byte
	for _, tok := range tokens {
		digits := strings.TrimPrefix(strings.TrimPrefix(tok, "0x"), "0X")
		switch {
		case digits == "":
			return nil, fmt.Errorf("invalid hex byte %q", tok)
		case len(digits) <= 2:
			v, err := strconv.ParseUint(digits, 16, 8)
			if err != nil {
				return nil, fmt.Errorf("invalid hex byte %q", tok)
			}
			out = append(out, byte(v))
		case len(digits)%2 != 0:
			return nil, fmt.Errorf("hex string %q has an odd number of digits", tok)
		default:
			b, err := hex.DecodeString(digits)
			if err != nil {
				return nil, fmt.Errorf("invalid hex string %q", tok)
			}
			out = append(out, b...)
		}
	}
	return out, nil
}
