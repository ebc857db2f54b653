package packets

import (
	"io"

	"github.com/google/uuid"

	"github.com/williewillus/mcrs/internal/protocol"
)

// LoginStart begins authentication. The name is the only credential; there is
// no external identity service.
type LoginStart struct {
	Name string
}

func (*LoginStart) isServerbound() {}

func decodeLoginStart(r io.Reader) (Serverbound, error) {
	name, err := protocol.ReadString(r)
	if err != nil {
		return nil, err
	}
	return &LoginStart{Name: name}, nil
}

// LoginDisconnect rejects a login with a reason shown to the client.
type LoginDisconnect struct {
	Reason Text
}

func (*LoginDisconnect) ID() int32 { return 0x00 }

func (p *LoginDisconnect) Encode(w io.Writer) error {
	return p.Reason.encode(w)
}

// LoginSuccess completes the login handshake and moves the connection to the
// play state. The UUID travels in its 36-character dashed string form.
type LoginSuccess struct {
	UUID uuid.UUID
	Name string
}

func (*LoginSuccess) ID() int32 { return 0x02 }

func (p *LoginSuccess) Encode(w io.Writer) error {
	if err := protocol.WriteString(w, p.UUID.String()); err != nil {
		return err
	}
	return protocol.WriteString(w, p.Name)
}
