package packets

import (
	"bytes"
	"fmt"
	"io"

	"github.com/williewillus/mcrs/internal/protocol"
)

// Serverbound is implemented by every packet a client can send. Consumers
// dispatch on the concrete type.
type Serverbound interface {
	isServerbound()
}

// Clientbound is implemented by every packet the server can send. The
// discriminator lives with the type so that the framing layer never needs to
// know individual schemas.
type Clientbound interface {
	ID() int32
	Encode(w io.Writer) error
}

type decodeFunc func(r io.Reader) (Serverbound, error)

// serverboundTables maps each state to its discriminator table. Adding a
// packet type means adding one entry here and one decode function.
var serverboundTables = map[State]map[int32]decodeFunc{
	StateHandshake: {
		0x00: decodeHandshake,
	},
	StateStatus: {
		0x00: decodeStatusRequest,
		0x01: decodePing,
	},
	StateLogin: {
		0x00: decodeLoginStart,
	},
	StatePlay: {
		0x03: decodeChat,
		0x0F: decodeKeepAliveResponse,
		0x11: decodePlayerPosition,
		0x12: decodePlayerPositionAndRotation,
		0x13: decodePlayerRotation,
		0x14: decodePlayerMovement,
	},
}

// UnknownPacketError indicates a discriminator with no schema in the given
// state's serverbound table.
type UnknownPacketError struct {
	State State
	ID    int32
}

func (e *UnknownPacketError) Error() string {
	return fmt.Sprintf("unknown %s packet discriminator %#x", e.State, e.ID)
}

// Decode dispatches raw against the serverbound table for state. It returns
// the decoded packet along with the number of payload bytes the decoder left
// unconsumed; the caller decides whether leftovers are a warning or a hard
// error for its state. A discriminator known only to a different state yields
// protocol.ErrWrongPhase.
func Decode(state State, raw *protocol.RawPacket) (Serverbound, int, error) {
	table := serverboundTables[state]
	decode, ok := table[raw.ID]
	if !ok {
		for other, otherTable := range serverboundTables {
			if other == state {
				continue
			}
			if _, ok := otherTable[raw.ID]; ok {
				return nil, 0, fmt.Errorf("%w: discriminator %#x is not valid in the %s state",
					protocol.ErrWrongPhase, raw.ID, state)
			}
		}
		return nil, 0, &UnknownPacketError{State: state, ID: raw.ID}
	}

	r := bytes.NewReader(raw.Payload)
	pkt, err := decode(r)
	if err != nil {
		return nil, 0, err
	}
	return pkt, r.Len(), nil
}

// Write frames and writes one clientbound packet.
func Write(w io.Writer, pkt Clientbound) error {
	return protocol.WriteFrame(w, pkt.ID(), pkt.Encode)
}
