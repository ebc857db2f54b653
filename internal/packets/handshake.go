package packets

import (
	"fmt"
	"io"

	"github.com/williewillus/mcrs/internal/protocol"
)

// Values of the handshake next-state field.
const (
	NextStateStatus = 1
	NextStateLogin  = 2
)

// Handshake is the first packet of every session. It declares the client's
// protocol version and which state the connection should move to.
type Handshake struct {
	ProtocolVersion int32
	ServerAddress   string
	ServerPort      uint16
	NextState       int32
}

func (*Handshake) isServerbound() {}

func decodeHandshake(r io.Reader) (Serverbound, error) {
	version, err := protocol.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	addr, err := protocol.ReadString(r)
	if err != nil {
		return nil, err
	}
	port, err := protocol.ReadUint16(r)
	if err != nil {
		return nil, err
	}
	next, err := protocol.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if next != NextStateStatus && next != NextStateLogin {
		return nil, fmt.Errorf("unknown next state %d in handshake", next)
	}

	return &Handshake{
		ProtocolVersion: version,
		ServerAddress:   addr,
		ServerPort:      port,
		NextState:       next,
	}, nil
}
