package protocol

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestStringRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"empty", ""},
		{"ascii", "Notch"},
		{"multibyte", "日本語テスト"},
		{"mixed", "héllo wörld ☃"},
		{"limit", strings.Repeat("a", MaxStringBytes)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteString(&buf, tt.value); err != nil {
				t.Fatalf("WriteString() error = %v", err)
			}
			got, err := ReadString(&buf)
			if err != nil {
				t.Fatalf("ReadString() error = %v", err)
			}
			if got != tt.value {
				t.Errorf("round trip = %q, want %q", got, tt.value)
			}
		})
	}
}

func TestWriteStringTooLong(t *testing.T) {
	err := WriteString(&bytes.Buffer{}, strings.Repeat("a", MaxStringBytes+1))
	if !errors.Is(err, ErrValueTooLarge) {
		t.Errorf("WriteString() error = %v, want ErrValueTooLarge", err)
	}
}

func TestReadStringBadPrefix(t *testing.T) {
	tests := []struct {
		name   string
		prefix int32
	}{
		{"negative", -1},
		{"above limit", MaxStringBytes + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteVarInt(&buf, tt.prefix); err != nil {
				t.Fatal(err)
			}
			_, err := ReadString(&buf)
			if !errors.Is(err, ErrLengthOutOfRange) {
				t.Errorf("ReadString() error = %v, want ErrLengthOutOfRange", err)
			}
		})
	}
}

func TestReadStringInvalidUTF8(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteVarInt(&buf, 2); err != nil {
		t.Fatal(err)
	}
	buf.Write([]byte{0xFF, 0xFE})

	_, err := ReadString(&buf)
	if !errors.Is(err, ErrInvalidEncoding) {
		t.Errorf("ReadString() error = %v, want ErrInvalidEncoding", err)
	}
}

func TestReadStringShortStream(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteVarInt(&buf, 10); err != nil {
		t.Fatal(err)
	}
	buf.WriteString("abc")

	_, err := ReadString(&buf)
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Errorf("ReadString() error = %v, want ErrUnexpectedEOF", err)
	}
}
