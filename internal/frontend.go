// Package internal wires the accept loop, the per-connection state machines,
// and the game loop into one running server.
package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"runtime/debug"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/williewillus/mcrs/internal/core"
	"github.com/williewillus/mcrs/internal/game"
	"github.com/williewillus/mcrs/internal/protocol"
)

// frontend implements the concurrent client connection logic.
//
// Each accepted socket gets its own goroutine running a connection state
// machine; the frontend itself only accepts, tracks, and reaps connections.
type frontend struct {
	Address string
	Config  *core.Config
	Logger  *logrus.Logger
	Game    *game.Server

	// Favicon data URI passed through to status responses.
	Favicon string

	mu        sync.Mutex
	connected map[string]net.Conn
}

// Start opens the listening TCP socket. A blocking loop for accepting client
// connections is spun off in its own goroutine and added to the WaitGroup.
// Context cancellation stops the server.
func (f *frontend) Start(ctx context.Context, wg *sync.WaitGroup) error {
	f.connected = make(map[string]net.Conn)

	socket, err := f.createSocket()
	if err != nil {
		return fmt.Errorf("error creating socket on %s: %v", f.Address, err)
	}

	wg.Add(1)
	go f.startBlockingLoop(ctx, socket, wg)

	return nil
}

// createSocket opens a TCP socket to listen for client connections on the
// Address provided to the frontend.
func (f *frontend) createSocket() (*net.TCPListener, error) {
	hostAddr, err := net.ResolveTCPAddr("tcp", f.Address)
	if err != nil {
		return nil, fmt.Errorf("error resolving address %s", err.Error())
	}

	socket, err := net.ListenTCP("tcp", hostAddr)
	if err != nil {
		return nil, fmt.Errorf("error listening on socket: %s", err.Error())
	}

	return socket, nil
}

// startBlockingLoop implements a connection handling loop that's purely
// responsible for accepting new connections and spinning off goroutines to
// run their state machines.
func (f *frontend) startBlockingLoop(ctx context.Context, socket *net.TCPListener, wg *sync.WaitGroup) {
	defer wg.Done()

	f.Logger.Infof("waiting for connections on %v", f.Address)

	connections := make(chan *net.TCPConn)
	go func() {
		for {
			// Poll until we can accept more clients.
			for f.connectionCount() >= f.Config.MaxConnections {
				time.Sleep(time.Second)
			}

			connection, err := socket.AcceptTCP()
			if err != nil {
				if errors.Is(err, net.ErrClosed) {
					return
				}
				f.Logger.Warnf("failed to accept connection: %s", err.Error())
				continue
			}

			connections <- connection
		}
	}()

	clientWg := &sync.WaitGroup{}
handleLoop:
	for {
		select {
		case <-ctx.Done():
			_ = socket.Close()
			break handleLoop
		case connection := <-connections:
			clientWg.Add(1)
			// Note: If there is eventually a need to implement worker pooling rather than spawning
			// new goroutines for each client, this is where it should be implemented.
			go f.handleConnection(connection, clientWg)
		}
	}

	f.Logger.Infof("shutting down (waiting for connections to close)")
	clientWg.Wait()
	f.Logger.Infof("exited")
}

func (f *frontend) connectionCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.connected)
}

// handleConnection runs one connection's state machine from handshake to
// close. The session is one-shot: any fatal error unwinds back here, the
// socket is closed, and the goroutine exits.
func (f *frontend) handleConnection(connection *net.TCPConn, wg *sync.WaitGroup) {
	defer wg.Done()

	addr := connection.RemoteAddr().String()
	f.Logger.Infof("accepted connection from %s", addr)

	f.mu.Lock()
	f.connected[addr] = connection
	f.mu.Unlock()

	c := newConnection(connection, f.Config, f.Logger, f.Game, f.Favicon)
	defer f.closeConnectionAndRecover(addr, connection)

	switch err := c.process(); {
	case err == nil:
		f.Logger.Infof("session with %s completed", addr)
	case errors.Is(err, protocol.ErrUnexpectedEOF):
		f.Logger.Infof("%s disconnected", addr)
	case errors.Is(err, protocol.ErrUnsupportedLegacyProbe):
		f.Logger.Infof("rejected legacy ping probe from %s", addr)
	default:
		f.Logger.Warnf("error processing connection from %s: %v", addr, err)
	}
}

// closeConnectionAndRecover is the failsafe that catches any panics,
// disconnects the client, and removes them from the list regardless of the
// state of the connection.
func (f *frontend) closeConnectionAndRecover(addr string, connection net.Conn) {
	if err := recover(); err != nil {
		f.Logger.Errorf("error in client communication with %s: error=%s, trace: %s",
			addr, err, debug.Stack())
	}

	if err := connection.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		f.Logger.Warnf("failed to close client connection: %s", err)
	}

	f.mu.Lock()
	delete(f.connected, addr)
	f.mu.Unlock()

	f.Logger.Infof("disconnected client %s", addr)
}
