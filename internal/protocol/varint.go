// Package protocol implements the wire-level serialization layer: the
// variable-length integer format, length-prefixed strings, big-endian
// fixed-width scalars, and length-prefixed packet framing.
package protocol

import (
	"fmt"
	"io"
)

// Version of the game protocol this server speaks. There is no negotiation;
// handshakes for any other version are rejected.
const (
	ProtocolName    = "1.15.2"
	ProtocolVersion = 578
)

// maxVarIntBytes is the longest legal VarInt encoding. A fifth byte with its
// continuation bit set cannot be part of a 32-bit value.
const maxVarIntBytes = 5

// ReadVarInt decodes a signed 32-bit integer encoded 7 bits per byte,
// least-significant group first, with the high bit of each byte acting as a
// continuation flag.
func ReadVarInt(r io.Reader) (int32, error) {
	var result int32
	var buf [1]byte

	for i := 0; i < maxVarIntBytes; i++ {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, wrapEOF(err)
		}

		val := buf[0] & 0x7F
		hasMore := buf[0]&0x80 != 0
		if i == maxVarIntBytes-1 && hasMore {
			return 0, fmt.Errorf("%w: varint exceeds %d bytes", ErrLengthOutOfRange, maxVarIntBytes)
		}

		result |= int32(val) << (7 * i)
		if !hasMore {
			break
		}
	}
	return result, nil
}

// WriteVarInt encodes v in the VarInt format. Negative values are
// zero-extended through a uint32 so that the full 32-bit two's complement
// range maps onto at most five bytes.
func WriteVarInt(w io.Writer, v int32) error {
	val := uint32(v)
	var buf [maxVarIntBytes]byte
	n := 0

	for {
		b := byte(val & 0x7F)
		val >>= 7
		if val != 0 {
			b |= 0x80
		}
		buf[n] = b
		n++
		if val == 0 {
			break
		}
	}

	_, err := w.Write(buf[:n])
	return err
}
