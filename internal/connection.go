package internal

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/williewillus/mcrs/internal/core"
	"github.com/williewillus/mcrs/internal/game"
	"github.com/williewillus/mcrs/internal/packets"
	"github.com/williewillus/mcrs/internal/protocol"
)

// legacyPingProbe is the lead byte of the pre-framing server list ping. It is
// not a valid frame length lead byte, so it must be caught before framing.
const legacyPingProbe = 0xFE

// Sizes of the per-player channel pair created at login. The game loop
// drains inbound every tick and the writer goroutine drains outbound
// continuously, so these only need to absorb bursts.
const (
	inboundQueueSize  = 64
	outboundQueueSize = 64
)

// connection walks one socket through the protocol states. The reading half
// of the socket belongs to this struct for the connection's whole life; the
// writing half is handed to a dedicated writer goroutine when the connection
// enters the play state.
type connection struct {
	state  packets.State
	conn   net.Conn
	reader *bufio.Reader

	config *core.Config
	logger *logrus.Logger
	game   *game.Server

	// Favicon data URI served in status responses, blank if unconfigured.
	favicon string

	// Set once login completes.
	playerID   uuid.UUID
	playerName string
	inbound    chan<- packets.Serverbound
}

func newConnection(conn net.Conn, cfg *core.Config, logger *logrus.Logger, gameServer *game.Server, favicon string) *connection {
	return &connection{
		state:   packets.StateHandshake,
		conn:    conn,
		reader:  bufio.NewReader(conn),
		config:  cfg,
		logger:  logger,
		game:    gameServer,
		favicon: favicon,
	}
}

// process runs the connection's read loop until the session ends. Any error
// return is fatal to the connection; the caller closes the socket.
func (c *connection) process() error {
	defer c.teardownPlay()

	for {
		if err := c.refreshReadDeadline(); err != nil {
			return err
		}

		switch c.state {
		case packets.StateHandshake:
			if err := c.processHandshake(); err != nil {
				return err
			}
		case packets.StateStatus:
			done, err := c.processStatus()
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		case packets.StateLogin:
			if err := c.processLogin(); err != nil {
				return err
			}
		case packets.StatePlay:
			if err := c.processPlay(); err != nil {
				return err
			}
		}
	}
}

// refreshReadDeadline arms the idle timeout before each frame read so a
// stalled peer cannot hold the reader goroutine forever.
func (c *connection) refreshReadDeadline() error {
	if c.config.Network.ReadTimeout <= 0 {
		return nil
	}
	deadline := time.Now().Add(time.Duration(c.config.Network.ReadTimeout) * time.Second)
	return c.conn.SetReadDeadline(deadline)
}

// readPacket reads one frame and decodes it against the current state's
// table. strict controls the leftover-byte policy: states that gate a
// transition (handshake, login) treat unconsumed payload bytes as a decode
// failure, the rest log them as an anomaly.
func (c *connection) readPacket(strict bool) (packets.Serverbound, error) {
	raw, err := protocol.ReadFrame(c.reader)
	if err != nil {
		return nil, err
	}

	if c.config.Debugging.PacketLoggingEnabled {
		c.logger.Debugf("recv %s packet %#x from %s\n%s", c.state, raw.ID, c.conn.RemoteAddr(), hex.Dump(raw.Payload))
	}

	pkt, leftover, err := packets.Decode(c.state, raw)
	if err != nil {
		return nil, err
	}
	if leftover > 0 {
		if strict {
			return nil, fmt.Errorf("%s packet %#x left %d payload bytes unconsumed", c.state, raw.ID, leftover)
		}
		c.logger.Warnf("%s packet %#x from %s left %d payload bytes unconsumed", c.state, raw.ID, c.conn.RemoteAddr(), leftover)
	}
	return pkt, nil
}

// processHandshake validates the first packet of the session and performs the
// only state transition a client can request.
func (c *connection) processHandshake() error {
	// The legacy ping is not framed, so it has to be caught by peeking
	// before the frame reader consumes anything.
	lead, err := c.reader.Peek(1)
	if err != nil {
		return fmt.Errorf("%w: %v", protocol.ErrUnexpectedEOF, err)
	}
	if lead[0] == legacyPingProbe {
		return protocol.ErrUnsupportedLegacyProbe
	}

	pkt, err := c.readPacket(true)
	if err != nil {
		return err
	}
	handshake := pkt.(*packets.Handshake)

	if handshake.ProtocolVersion != protocol.ProtocolVersion {
		return fmt.Errorf("%w: client sent %d, server supports %d",
			protocol.ErrVersionMismatch, handshake.ProtocolVersion, protocol.ProtocolVersion)
	}

	switch handshake.NextState {
	case packets.NextStateStatus:
		c.state = packets.StateStatus
	case packets.NextStateLogin:
		c.state = packets.StateLogin
	}
	c.logger.Debugf("%s switched to %s state", c.conn.RemoteAddr(), c.state)

	return nil
}

// processStatus handles one status-state packet. The bool return signals that
// the session is complete and should be closed.
func (c *connection) processStatus() (bool, error) {
	pkt, err := c.readPacket(false)
	if err != nil {
		return false, err
	}

	switch p := pkt.(type) {
	case *packets.StatusRequest:
		payload := c.buildStatusPayload()
		data, err := json.Marshal(payload)
		if err != nil {
			return false, fmt.Errorf("encoding status payload: %w", err)
		}
		return false, packets.Write(c.conn, &packets.StatusResponse{StatusJSON: string(data)})
	case *packets.Ping:
		// Pong is the terminal exchange of the status state.
		if err := packets.Write(c.conn, &packets.Pong{Value: p.Value}); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, fmt.Errorf("unhandled status packet %T", pkt)
}

// buildStatusPayload assembles a fresh server list payload. The online count
// reflects the live player table; everything else comes from config.
func (c *connection) buildStatusPayload() *packets.StatusPayload {
	return &packets.StatusPayload{
		Version: packets.StatusVersion{
			Name:     protocol.ProtocolName,
			Protocol: protocol.ProtocolVersion,
		},
		Players: packets.StatusPlayers{
			Max:    uint32(c.config.Status.MaxPlayers),
			Online: uint32(c.game.OnlineCount()),
			Sample: []packets.PlayerSample{},
		},
		Description: packets.Text{Text: c.config.Status.MOTD},
		Favicon:     c.favicon,
	}
}

// processLogin completes the login handshake: generate the session UUID,
// acknowledge the client, wire the player into the game loop, hand the write
// half of the socket to a dedicated writer goroutine, and enter play.
func (c *connection) processLogin() error {
	pkt, err := c.readPacket(true)
	if err != nil {
		return err
	}
	loginStart := pkt.(*packets.LoginStart)

	sessionID := uuid.New()
	if err := packets.Write(c.conn, &packets.LoginSuccess{UUID: sessionID, Name: loginStart.Name}); err != nil {
		return err
	}

	inbound := make(chan packets.Serverbound, inboundQueueSize)
	outbound := make(chan packets.Clientbound, outboundQueueSize)
	c.game.AddPlayer(sessionID, loginStart.Name, inbound, outbound)

	c.playerID = sessionID
	c.playerName = loginStart.Name
	c.inbound = inbound

	go c.writeOutbound(outbound)

	c.logger.Infof("%s logged in as %s (%s)", c.conn.RemoteAddr(), loginStart.Name, sessionID)
	c.state = packets.StatePlay

	return nil
}

// writeOutbound drains the player's outbound queue to the socket. It owns the
// write half of the socket exclusively from login completion onward, which
// keeps outbound delivery in the order the game loop enqueued it. The channel
// closing is the normal disconnect signal.
func (c *connection) writeOutbound(outbound <-chan packets.Clientbound) {
	for pkt := range outbound {
		if err := packets.Write(c.conn, pkt); err != nil {
			c.logger.Errorf("outbound writer for %s: %v", c.playerName, err)
			// Unblock the reader so the connection tears down.
			_ = c.conn.Close()
			return
		}
	}
	c.logger.Debugf("outbound queue for %s closed", c.playerName)
}

// processPlay forwards one serverbound play packet to the game loop. Decode
// failures are dropped since framing succeeded and the stream is still in
// sync; framing failures remain fatal.
func (c *connection) processPlay() error {
	raw, err := protocol.ReadFrame(c.reader)
	if err != nil {
		return err
	}

	if c.config.Debugging.PacketLoggingEnabled {
		c.logger.Debugf("recv play packet %#x from %s\n%s", raw.ID, c.playerName, hex.Dump(raw.Payload))
	}

	pkt, leftover, err := packets.Decode(c.state, raw)
	if err != nil {
		c.logger.Warnf("dropping bad play packet from %s: %v", c.playerName, err)
		return nil
	}
	if leftover > 0 {
		c.logger.Warnf("play packet %#x from %s left %d payload bytes unconsumed", raw.ID, c.playerName, leftover)
	}

	c.inbound <- pkt
	return nil
}

// teardownPlay deregisters the player if the connection made it into the play
// state. Closing inbound tells the game loop no more packets are coming;
// removal closes outbound, which ends the writer goroutine.
func (c *connection) teardownPlay() {
	if c.playerID == uuid.Nil {
		return
	}
	close(c.inbound)
	c.game.RemovePlayer(c.playerID)
}
