package packets

import (
	"io"

	"github.com/williewillus/mcrs/internal/protocol"
)

// StatusVersion is the version block of the status JSON payload.
type StatusVersion struct {
	// Display name of the version, e.g. "1.15.2".
	Name string `json:"name"`
	// Protocol number of the version.
	Protocol int32 `json:"protocol"`
}

// PlayerSample is one entry of the hover-text player list.
type PlayerSample struct {
	Name string `json:"name"`
	// Uuid of the player in dashed string form.
	ID string `json:"id"`
}

// StatusPlayers is the players block of the status JSON payload.
type StatusPlayers struct {
	Max    uint32         `json:"max"`
	Online uint32         `json:"online"`
	Sample []PlayerSample `json:"sample"`
}

// StatusPayload is the server-list payload, serialized to JSON and carried
// inside the Response packet as a protocol string.
type StatusPayload struct {
	Version     StatusVersion `json:"version"`
	Players     StatusPlayers `json:"players"`
	Description Text          `json:"description"`
	Favicon     string        `json:"favicon,omitempty"`
}

// StatusRequest asks for the server-list payload. It has no fields.
type StatusRequest struct{}

func (*StatusRequest) isServerbound() {}

func decodeStatusRequest(io.Reader) (Serverbound, error) {
	return &StatusRequest{}, nil
}

// Ping carries an arbitrary client value that must be echoed back verbatim.
type Ping struct {
	Value int64
}

func (*Ping) isServerbound() {}

func decodePing(r io.Reader) (Serverbound, error) {
	v, err := protocol.ReadInt64(r)
	if err != nil {
		return nil, err
	}
	return &Ping{Value: v}, nil
}

// StatusResponse carries the JSON-encoded status payload.
type StatusResponse struct {
	StatusJSON string
}

func (*StatusResponse) ID() int32 { return 0x00 }

func (p *StatusResponse) Encode(w io.Writer) error {
	return protocol.WriteString(w, p.StatusJSON)
}

// Pong echoes a Ping value. Sending it is the terminal action of the status
// state.
type Pong struct {
	Value int64
}

func (*Pong) ID() int32 { return 0x01 }

func (p *Pong) Encode(w io.Writer) error {
	return protocol.WriteInt64(w, p.Value)
}
