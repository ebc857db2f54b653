// Package game implements the authoritative game loop. A single goroutine
// ticks all registered players at a fixed cadence; connections only interact
// with it through their per-player channel pair.
package game

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/williewillus/mcrs/internal/core"
	"github.com/williewillus/mcrs/internal/packets"
)

// TargetTickInterval is the time budget of a single tick (20 Hz). A tick
// that overruns simply stretches its own period; there is no catch-up.
const TargetTickInterval = 50 * time.Millisecond

// playerConnection is the server-side record of one logged-in player. The
// two channels are the only communication path to the connection's threads.
type playerConnection struct {
	name string

	// Ticks this player has been registered for.
	ticks uint32

	// Inbound play packets read from this player's socket.
	inbound <-chan packets.Serverbound

	// Outbound play packets drained to this player's socket by its writer
	// goroutine. Closed by the server when the player is removed.
	outbound chan<- packets.Clientbound
}

// Server owns the player table and the tick loop that mutates it.
type Server struct {
	config *core.Config
	logger *logrus.Logger

	mu      sync.Mutex
	players map[uuid.UUID]*playerConnection
}

func NewServer(cfg *core.Config, logger *logrus.Logger) *Server {
	return &Server{
		config:  cfg,
		logger:  logger,
		players: make(map[uuid.UUID]*playerConnection),
	}
}

// AddPlayer registers a logged-in player. The server takes the receive end of
// the inbound channel and the send end of the outbound channel; the
// connection's threads keep the opposite endpoints.
func (s *Server) AddPlayer(id uuid.UUID, name string, inbound <-chan packets.Serverbound, outbound chan<- packets.Clientbound) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.players[id] = &playerConnection{
		name:     name,
		inbound:  inbound,
		outbound: outbound,
	}
}

// RemovePlayer deletes a player's table entry and closes their outbound
// channel, which terminates the connection's writer goroutine. Removing an
// unknown player is a no-op.
func (s *Server) RemovePlayer(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, ok := s.players[id]
	if !ok {
		return
	}
	close(player.outbound)
	delete(s.players, id)
}

// OnlineCount returns the number of registered players.
func (s *Server) OnlineCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.players)
}

// Run drives the tick loop until the context is canceled. Each tick is given
// TargetTickInterval; whatever remains after the tick body is slept off.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Infof("game loop running at %v per tick", TargetTickInterval)

	for {
		start := time.Now()
		if stop := s.tick(); stop {
			return nil
		}

		remaining := TargetTickInterval - time.Since(start)
		if remaining > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(remaining):
			}
		} else {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
	}
}

// tick processes every registered player once. The stop return is reserved
// for future shutdown support and is currently always false.
func (s *Server) tick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	keepAliveTicks := uint32(s.config.Game.KeepAliveIntervalTicks)

	for id, player := range s.players {
		s.drainInbound(id, player)

		if player.ticks == 0 {
			s.logger.Debugf("first play tick for %s (%s)", player.name, id)
			s.send(id, player, &packets.JoinGame{
				EntityID:      0,
				Gamemode:      uint8(s.config.Game.Gamemode),
				Dimension:     int32(s.config.Game.Dimension),
				HashedSeed:    0,
				MaxPlayers:    0,
				LevelType:     s.config.Game.LevelType,
				ViewDistance:  int32(s.config.Game.ViewDistance),
				ReducedDebug:  false,
				RespawnScreen: true,
			})
		} else if keepAliveTicks > 0 && player.ticks%keepAliveTicks == 0 {
			s.send(id, player, &packets.KeepAlive{Value: time.Now().UnixNano() / int64(time.Millisecond)})
		}

		player.ticks++
	}

	return false
}

// send enqueues one outbound packet without ever blocking the tick loop. A
// saturated queue means the player's writer goroutine is not keeping up, so
// the packet is dropped and logged.
func (s *Server) send(id uuid.UUID, player *playerConnection, pkt packets.Clientbound) {
	select {
	case player.outbound <- pkt:
	default:
		s.logger.Warnf("dropping outbound packet %#x for %s: queue full", pkt.ID(), id)
	}
}

// drainInbound consumes everything the player's connection has forwarded
// since the last tick. World simulation is not implemented, so handling stops
// at acknowledgement and logging.
func (s *Server) drainInbound(id uuid.UUID, player *playerConnection) {
	for {
		select {
		case pkt, ok := <-player.inbound:
			if !ok {
				return
			}
			switch p := pkt.(type) {
			case *packets.Chat:
				s.logger.Infof("<%s> %s", player.name, p.Message)
			case *packets.KeepAliveResponse:
				s.logger.Debugf("keepalive response %d from %s", p.Value, player.name)
			case *packets.PlayerPosition, *packets.PlayerPositionAndRotation,
				*packets.PlayerRotation, *packets.PlayerMovement:
				s.logger.Tracef("movement update from %s", id)
			}
		default:
			return
		}
	}
}
