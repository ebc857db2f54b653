package protocol

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestScalarRoundTrips(t *testing.T) {
	var buf bytes.Buffer

	if err := WriteUint8(&buf, 0xAB); err != nil {
		t.Fatal(err)
	}
	if err := WriteUint16(&buf, 25565); err != nil {
		t.Fatal(err)
	}
	if err := WriteInt32(&buf, -123456789); err != nil {
		t.Fatal(err)
	}
	if err := WriteInt64(&buf, math.MinInt64); err != nil {
		t.Fatal(err)
	}
	if err := WriteFloat32(&buf, -90.5); err != nil {
		t.Fatal(err)
	}
	if err := WriteFloat64(&buf, 123.456); err != nil {
		t.Fatal(err)
	}

	if v, err := ReadUint8(&buf); err != nil || v != 0xAB {
		t.Errorf("ReadUint8() = %d, %v", v, err)
	}
	if v, err := ReadUint16(&buf); err != nil || v != 25565 {
		t.Errorf("ReadUint16() = %d, %v", v, err)
	}
	if v, err := ReadInt32(&buf); err != nil || v != -123456789 {
		t.Errorf("ReadInt32() = %d, %v", v, err)
	}
	if v, err := ReadInt64(&buf); err != nil || v != math.MinInt64 {
		t.Errorf("ReadInt64() = %d, %v", v, err)
	}
	if v, err := ReadFloat32(&buf); err != nil || v != -90.5 {
		t.Errorf("ReadFloat32() = %f, %v", v, err)
	}
	if v, err := ReadFloat64(&buf); err != nil || v != 123.456 {
		t.Errorf("ReadFloat64() = %f, %v", v, err)
	}
	if buf.Len() != 0 {
		t.Errorf("%d bytes left over after reads", buf.Len())
	}
}

func TestScalarsAreBigEndian(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteUint16(&buf, 0x1234); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]byte{0x12, 0x34}, buf.Bytes()); diff != "" {
		t.Errorf("WriteUint16() byte order wrong; diff:\n%s", diff)
	}
}

func TestBoolDecodeTolerance(t *testing.T) {
	// Decode accepts any nonzero byte as true, but encode only ever emits 1.
	tests := []struct {
		name string
		b    byte
		want bool
	}{
		{"zero", 0x00, false},
		{"one", 0x01, true},
		{"other nonzero", 0x7F, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadBool(bytes.NewReader([]byte{tt.b}))
			if err != nil {
				t.Fatalf("ReadBool() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ReadBool(%#x) = %v, want %v", tt.b, got, tt.want)
			}
		})
	}

	var buf bytes.Buffer
	if err := WriteBool(&buf, true); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]byte{0x01}, buf.Bytes()); diff != "" {
		t.Errorf("WriteBool(true) emitted wrong bytes; diff:\n%s", diff)
	}
}

func TestScalarShortStream(t *testing.T) {
	_, err := ReadInt64(bytes.NewReader([]byte{0x01, 0x02}))
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Errorf("ReadInt64() error = %v, want ErrUnexpectedEOF", err)
	}
}
