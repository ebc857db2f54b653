package packets

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-test/deep"
	"github.com/google/uuid"

	"github.com/williewillus/mcrs/internal/protocol"
)

func encodeHandshakePayload(t *testing.T, version int32, addr string, port uint16, next int32) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := protocol.WriteVarInt(&buf, version); err != nil {
		t.Fatal(err)
	}
	if err := protocol.WriteString(&buf, addr); err != nil {
		t.Fatal(err)
	}
	if err := protocol.WriteUint16(&buf, port); err != nil {
		t.Fatal(err)
	}
	if err := protocol.WriteVarInt(&buf, next); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecodeHandshake(t *testing.T) {
	payload := encodeHandshakePayload(t, protocol.ProtocolVersion, "localhost", 25565, NextStateLogin)

	pkt, leftover, err := Decode(StateHandshake, &protocol.RawPacket{ID: 0x00, Payload: payload})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if leftover != 0 {
		t.Errorf("Decode() leftover = %d, want 0", leftover)
	}

	want := &Handshake{
		ProtocolVersion: protocol.ProtocolVersion,
		ServerAddress:   "localhost",
		ServerPort:      25565,
		NextState:       NextStateLogin,
	}
	if diff := deep.Equal(want, pkt); diff != nil {
		t.Errorf("Decode() produced wrong packet: %v", diff)
	}
}

func TestDecodeHandshakeBadNextState(t *testing.T) {
	payload := encodeHandshakePayload(t, protocol.ProtocolVersion, "localhost", 25565, 3)

	_, _, err := Decode(StateHandshake, &protocol.RawPacket{ID: 0x00, Payload: payload})
	if err == nil {
		t.Error("Decode() accepted next state 3")
	}
}

func TestDecodeUnknownDiscriminator(t *testing.T) {
	_, _, err := Decode(StatePlay, &protocol.RawPacket{ID: 0x7E, Payload: nil})

	var unknown *UnknownPacketError
	if !errors.As(err, &unknown) {
		t.Fatalf("Decode() error = %v, want UnknownPacketError", err)
	}
	if unknown.ID != 0x7E || unknown.State != StatePlay {
		t.Errorf("UnknownPacketError = %+v", unknown)
	}
}

func TestDecodeWrongPhase(t *testing.T) {
	// 0x11 is a play discriminator; in the status state it must be reported
	// as a phase error rather than an unknown packet.
	var buf bytes.Buffer
	if err := protocol.WriteFloat64(&buf, 1.0); err != nil {
		t.Fatal(err)
	}

	_, _, err := Decode(StateStatus, &protocol.RawPacket{ID: 0x11, Payload: buf.Bytes()})
	if !errors.Is(err, protocol.ErrWrongPhase) {
		t.Errorf("Decode() error = %v, want ErrWrongPhase", err)
	}
}

func TestDecodeReportsLeftoverBytes(t *testing.T) {
	var buf bytes.Buffer
	if err := protocol.WriteString(&buf, "Alice"); err != nil {
		t.Fatal(err)
	}
	buf.Write([]byte{0xDE, 0xAD})

	pkt, leftover, err := Decode(StateLogin, &protocol.RawPacket{ID: 0x00, Payload: buf.Bytes()})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if leftover != 2 {
		t.Errorf("Decode() leftover = %d, want 2", leftover)
	}
	if got := pkt.(*LoginStart).Name; got != "Alice" {
		t.Errorf("LoginStart.Name = %q, want \"Alice\"", got)
	}
}

func TestDecodeTruncatedPayload(t *testing.T) {
	// A keepalive response needs 8 bytes of payload.
	_, _, err := Decode(StatePlay, &protocol.RawPacket{ID: 0x0F, Payload: []byte{0x01}})
	if !errors.Is(err, protocol.ErrUnexpectedEOF) {
		t.Errorf("Decode() error = %v, want ErrUnexpectedEOF", err)
	}
}

func TestLoginSuccessEncoding(t *testing.T) {
	id := uuid.MustParse("f81d4fae-7dec-11d0-a765-00a0c91e6bf6")
	var buf bytes.Buffer
	if err := Write(&buf, &LoginSuccess{UUID: id, Name: "Alice"}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	raw, err := protocol.ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	if raw.ID != 0x02 {
		t.Errorf("discriminator = %#x, want 0x02", raw.ID)
	}

	body := bytes.NewReader(raw.Payload)
	uuidStr, err := protocol.ReadString(body)
	if err != nil {
		t.Fatal(err)
	}
	if len(uuidStr) != 36 || uuidStr != id.String() {
		t.Errorf("uuid on the wire = %q, want %q", uuidStr, id.String())
	}
	name, err := protocol.ReadString(body)
	if err != nil || name != "Alice" {
		t.Errorf("name on the wire = %q, %v", name, err)
	}
}

func TestPlayClientboundDiscriminators(t *testing.T) {
	tests := []struct {
		pkt  Clientbound
		want int32
	}{
		{&PlayDisconnect{}, 0x1B},
		{&KeepAlive{}, 0x21},
		{&JoinGame{}, 0x26},
		{&UpdateViewPosition{}, 0x41},
		{&StatusResponse{}, 0x00},
		{&Pong{}, 0x01},
		{&LoginDisconnect{}, 0x00},
		{&LoginSuccess{}, 0x02},
	}
	for _, tt := range tests {
		if got := tt.pkt.ID(); got != tt.want {
			t.Errorf("%T.ID() = %#x, want %#x", tt.pkt, got, tt.want)
		}
	}
}

func TestJoinGameRoundTripFields(t *testing.T) {
	pkt := &JoinGame{
		EntityID:      7,
		Gamemode:      1,
		Dimension:     -1,
		HashedSeed:    1234567,
		MaxPlayers:    25,
		LevelType:     "default",
		ViewDistance:  8,
		ReducedDebug:  false,
		RespawnScreen: true,
	}

	var buf bytes.Buffer
	if err := pkt.Encode(&buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	r := bytes.NewReader(buf.Bytes())
	var got JoinGame
	var err error
	if got.EntityID, err = protocol.ReadInt32(r); err != nil {
		t.Fatal(err)
	}
	if got.Gamemode, err = protocol.ReadUint8(r); err != nil {
		t.Fatal(err)
	}
	if got.Dimension, err = protocol.ReadInt32(r); err != nil {
		t.Fatal(err)
	}
	if got.HashedSeed, err = protocol.ReadInt64(r); err != nil {
		t.Fatal(err)
	}
	if got.MaxPlayers, err = protocol.ReadUint8(r); err != nil {
		t.Fatal(err)
	}
	if got.LevelType, err = protocol.ReadString(r); err != nil {
		t.Fatal(err)
	}
	if got.ViewDistance, err = protocol.ReadVarInt(r); err != nil {
		t.Fatal(err)
	}
	if got.ReducedDebug, err = protocol.ReadBool(r); err != nil {
		t.Fatal(err)
	}
	if got.RespawnScreen, err = protocol.ReadBool(r); err != nil {
		t.Fatal(err)
	}

	if diff := deep.Equal(pkt, &got); diff != nil {
		t.Errorf("JoinGame round trip mismatch: %v", diff)
	}
	if r.Len() != 0 {
		t.Errorf("%d bytes left over after JoinGame decode", r.Len())
	}
}

func TestStatusPayloadJSON(t *testing.T) {
	payload := &StatusPayload{
		Version:     StatusVersion{Name: protocol.ProtocolName, Protocol: protocol.ProtocolVersion},
		Players:     StatusPlayers{Max: 25, Online: 0, Sample: []PlayerSample{}},
		Description: Text{Text: "mcrs server"},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if _, ok := decoded["favicon"]; ok {
		t.Error("empty favicon should be omitted from the status JSON")
	}
	version := decoded["version"].(map[string]interface{})
	if version["name"] != protocol.ProtocolName {
		t.Errorf("version.name = %v, want %s", version["name"], protocol.ProtocolName)
	}
}
