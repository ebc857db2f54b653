package packets

import (
	"io"

	"github.com/williewillus/mcrs/internal/protocol"
)

// PlayDisconnect kicks a player with a reason shown on their screen.
type PlayDisconnect struct {
	Reason Text
}

func (*PlayDisconnect) ID() int32 { return 0x1B }

func (p *PlayDisconnect) Encode(w io.Writer) error {
	return p.Reason.encode(w)
}

// KeepAlive probes a client for liveness. The client must echo the value in a
// KeepAliveResponse or be considered stalled.
type KeepAlive struct {
	Value int64
}

func (*KeepAlive) ID() int32 { return 0x21 }

func (p *KeepAlive) Encode(w io.Writer) error {
	return protocol.WriteInt64(w, p.Value)
}

// JoinGame is the first clientbound play packet, describing the world the
// player is entering.
type JoinGame struct {
	EntityID      int32
	Gamemode      uint8
	Dimension     int32
	HashedSeed    int64
	MaxPlayers    uint8
	LevelType     string
	ViewDistance  int32
	ReducedDebug  bool
	RespawnScreen bool
}

func (*JoinGame) ID() int32 { return 0x26 }

func (p *JoinGame) Encode(w io.Writer) error {
	if err := protocol.WriteInt32(w, p.EntityID); err != nil {
		return err
	}
	if err := protocol.WriteUint8(w, p.Gamemode); err != nil {
		return err
	}
	if err := protocol.WriteInt32(w, p.Dimension); err != nil {
		return err
	}
	if err := protocol.WriteInt64(w, p.HashedSeed); err != nil {
		return err
	}
	if err := protocol.WriteUint8(w, p.MaxPlayers); err != nil {
		return err
	}
	if err := protocol.WriteString(w, p.LevelType); err != nil {
		return err
	}
	if err := protocol.WriteVarInt(w, p.ViewDistance); err != nil {
		return err
	}
	if err := protocol.WriteBool(w, p.ReducedDebug); err != nil {
		return err
	}
	return protocol.WriteBool(w, p.RespawnScreen)
}

// UpdateViewPosition tells the client which chunk column it is centered on.
type UpdateViewPosition struct {
	ChunkX int32
	ChunkZ int32
}

func (*UpdateViewPosition) ID() int32 { return 0x41 }

func (p *UpdateViewPosition) Encode(w io.Writer) error {
	if err := protocol.WriteVarInt(w, p.ChunkX); err != nil {
		return err
	}
	return protocol.WriteVarInt(w, p.ChunkZ)
}

// Chat is a message typed by the player.
type Chat struct {
	Message string
}

func (*Chat) isServerbound() {}

func decodeChat(r io.Reader) (Serverbound, error) {
	msg, err := protocol.ReadString(r)
	if err != nil {
		return nil, err
	}
	return &Chat{Message: msg}, nil
}

// KeepAliveResponse echoes a KeepAlive value back to the server.
type KeepAliveResponse struct {
	Value int64
}

func (*KeepAliveResponse) isServerbound() {}

func decodeKeepAliveResponse(r io.Reader) (Serverbound, error) {
	v, err := protocol.ReadInt64(r)
	if err != nil {
		return nil, err
	}
	return &KeepAliveResponse{Value: v}, nil
}

// PlayerPosition reports a position-only movement.
type PlayerPosition struct {
	X, Y, Z  float64
	OnGround bool
}

func (*PlayerPosition) isServerbound() {}

func decodePlayerPosition(r io.Reader) (Serverbound, error) {
	var p PlayerPosition
	var err error
	if p.X, err = protocol.ReadFloat64(r); err != nil {
		return nil, err
	}
	if p.Y, err = protocol.ReadFloat64(r); err != nil {
		return nil, err
	}
	if p.Z, err = protocol.ReadFloat64(r); err != nil {
		return nil, err
	}
	if p.OnGround, err = protocol.ReadBool(r); err != nil {
		return nil, err
	}
	return &p, nil
}

// PlayerPositionAndRotation reports a combined position and look movement.
type PlayerPositionAndRotation struct {
	X, Y, Z    float64
	Yaw, Pitch float32
	OnGround   bool
}

func (*PlayerPositionAndRotation) isServerbound() {}

func decodePlayerPositionAndRotation(r io.Reader) (Serverbound, error) {
	var p PlayerPositionAndRotation
	var err error
	if p.X, err = protocol.ReadFloat64(r); err != nil {
		return nil, err
	}
	if p.Y, err = protocol.ReadFloat64(r); err != nil {
		return nil, err
	}
	if p.Z, err = protocol.ReadFloat64(r); err != nil {
		return nil, err
	}
	if p.Yaw, err = protocol.ReadFloat32(r); err != nil {
		return nil, err
	}
	if p.Pitch, err = protocol.ReadFloat32(r); err != nil {
		return nil, err
	}
	if p.OnGround, err = protocol.ReadBool(r); err != nil {
		return nil, err
	}
	return &p, nil
}

// PlayerRotation reports a look-only movement.
type PlayerRotation struct {
	Yaw, Pitch float32
	OnGround   bool
}

func (*PlayerRotation) isServerbound() {}

func decodePlayerRotation(r io.Reader) (Serverbound, error) {
	var p PlayerRotation
	var err error
	if p.Yaw, err = protocol.ReadFloat32(r); err != nil {
		return nil, err
	}
	if p.Pitch, err = protocol.ReadFloat32(r); err != nil {
		return nil, err
	}
	if p.OnGround, err = protocol.ReadBool(r); err != nil {
		return nil, err
	}
	return &p, nil
}

// PlayerMovement reports only the on-ground flag.
type PlayerMovement struct {
	OnGround bool
}

func (*PlayerMovement) isServerbound() {}

func decodePlayerMovement(r io.Reader) (Serverbound, error) {
	onGround, err := protocol.ReadBool(r)
	if err != nil {
		return nil, err
	}
	return &PlayerMovement{OnGround: onGround}, nil
}
