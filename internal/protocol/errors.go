package protocol

import (
	"errors"
	"fmt"
	"io"
)

// Errors shared by the codec and framing layers. Decode failures always
// desynchronize the stream, so callers are expected to tear the connection
// down rather than attempt to resynchronize (play packet decodes being the
// one exception, since framing itself succeeded).
var (
	// ErrFrameTooLarge indicates a declared frame length that is negative or
	// above MaxFrameBytes.
	ErrFrameTooLarge = errors.New("frame length out of range")

	// ErrUnexpectedEOF indicates the stream ended partway through a value.
	ErrUnexpectedEOF = errors.New("unexpected end of stream")

	// ErrLengthOutOfRange indicates a VarInt or string length prefix outside
	// its legal range.
	ErrLengthOutOfRange = errors.New("declared length out of range")

	// ErrValueTooLarge indicates a value too large to be encoded, such as a
	// string longer than MaxStringBytes.
	ErrValueTooLarge = errors.New("value too large to encode")

	// ErrInvalidEncoding indicates string bytes that are not valid UTF-8.
	ErrInvalidEncoding = errors.New("invalid string encoding")

	// ErrWrongPhase indicates a packet that is only valid in a different
	// connection state.
	ErrWrongPhase = errors.New("packet not valid in current state")

	// ErrVersionMismatch indicates a handshake for a protocol version other
	// than the one this server supports.
	ErrVersionMismatch = errors.New("unsupported protocol version")

	// ErrUnsupportedLegacyProbe indicates a pre-framing legacy ping probe
	// (lead byte 0xFE), which this server does not answer.
	ErrUnsupportedLegacyProbe = errors.New("unsupported legacy server ping")

	// ErrChannelClosed indicates the peer endpoint of a player channel is
	// gone. Treated as a normal disconnect, not a failure.
	ErrChannelClosed = errors.New("player channel closed")
)

// wrapEOF converts the io short-read sentinels into ErrUnexpectedEOF so that
// callers have a single error to match against. Other errors pass through.
func wrapEOF(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %v", ErrUnexpectedEOF, err)
	}
	return err
}
