package protocol

import (
	"fmt"
	"io"
	"unicode/utf8"
)

// MaxStringBytes is the largest UTF-8 byte length a protocol string may
// declare in either direction.
const MaxStringBytes = 32767

// ReadString decodes a VarInt-length-prefixed UTF-8 string.
func ReadString(r io.Reader) (string, error) {
	length, err := ReadVarInt(r)
	if err != nil {
		return "", err
	}
	if length < 0 || length > MaxStringBytes {
		return "", fmt.Errorf("%w: string length %d", ErrLengthOutOfRange, length)
	}

	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", wrapEOF(err)
	}
	if !utf8.Valid(buf) {
		return "", fmt.Errorf("%w: string bytes are not valid utf-8", ErrInvalidEncoding)
	}
	return string(buf), nil
}

// WriteString encodes s with its VarInt byte-length prefix.
func WriteString(w io.Writer, s string) error {
	if len(s) > MaxStringBytes {
		return fmt.Errorf("%w: string is %d bytes", ErrValueTooLarge, len(s))
	}
	if err := WriteVarInt(w, int32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}
