package protocol

import (
	"bytes"
	"fmt"
	"io"
)

// MaxFrameBytes bounds the declared length of a single frame. 2 MiB matches
// the vanilla server and caps the allocation a malicious length prefix can
// force before any payload bytes are read.
const MaxFrameBytes = 2 * 1024 * 1024

// RawPacket is the framing-layer view of one wire frame: the discriminator
// identifying the packet's schema within its state and direction, and the
// undecoded payload bytes.
type RawPacket struct {
	ID      int32
	Payload []byte
}

// ReadFrame reads one length-prefixed frame from the stream and splits it
// into discriminator and payload. The declared length is validated before any
// buffer is allocated.
func ReadFrame(r io.Reader) (*RawPacket, error) {
	length, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if length < 0 || length > MaxFrameBytes {
		return nil, fmt.Errorf("%w: declared length %d", ErrFrameTooLarge, length)
	}

	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, wrapEOF(err)
	}

	body := bytes.NewReader(buf)
	id, err := ReadVarInt(body)
	if err != nil {
		return nil, err
	}

	return &RawPacket{
		ID:      id,
		Payload: buf[len(buf)-body.Len():],
	}, nil
}

// WriteFrame serializes the discriminator and payload into a scratch buffer
// first, since the length prefix must precede content whose size is unknown
// until it has been encoded, and then writes the prefixed frame to w.
func WriteFrame(w io.Writer, id int32, encodePayload func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := WriteVarInt(&buf, id); err != nil {
		return err
	}
	if encodePayload != nil {
		if err := encodePayload(&buf); err != nil {
			return err
		}
	}

	if err := WriteVarInt(w, int32(buf.Len())); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
