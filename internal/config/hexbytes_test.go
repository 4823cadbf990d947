package config

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestParseHexBytes(t *testing.T) {
	tests := []struct {
		in      string
		want    []byte
		wantErr bool
	}{
		{in: "23CB", want: []byte{0x23, 0xCB}},
		{in: "0x23CB", want: []byte{0x23, 0xCB}},
		{in: "0x23,0xCB", want: []byte{0x23, 0xCB}},
		{in: "23 cb", want: []byte{0x23, 0xCB}},
		{in: "23:CB", want: []byte{0x23, 0xCB}},
		{in: "0x2, 0x0", want: []byte{0x02, 0x00}},
		{in: "20", want: []byte{0x20}},
		{in: "", wantErr: true},
		{in: " , ", wantErr: true},
		{in: "0x", wantErr: true},
		{in: "123", wantErr: true},
		{in: "GG", wantErr: true},
		{in: "23CG", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHexBytes(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHexBytes(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && !bytes.Equal(got, tt.want) {
				t.Errorf("ParseHexBytes(%q) = %X, want %X", tt.in, got, tt.want)
			}
		})
	}
}

func TestHexBytesJSON(t *testing.T) {
	data, err := json.Marshal(HexBytes{0x23, 0xCB})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"23CB"` {
		t.Errorf("MarshalJSON() = %s, want \"23CB\"", data)
	}

	var h HexBytes
	if err := json.Unmarshal([]byte(`"0x20,0x00"`), &h); err != nil || h.String() != "2000" {
		t.Errorf("UnmarshalJSON(string) = %v, %v", h, err)
	}
	if err := json.Unmarshal([]byte(`[32, 0, 2]`), &h); err != nil || h.String() != "200002" {
		t.Errorf("UnmarshalJSON(list) = %v, %v", h, err)
	}
	if err := json.Unmarshal([]byte(`""`), &h); err != nil || len(h) != 0 {
		t.Errorf("UnmarshalJSON(empty) = %v, %v", h, err)
	}
	if err := json.Unmarshal([]byte(`{}`), &h); err == nil {
		t.Error("UnmarshalJSON(object) should fail")
	}
}
