// The ping command is a diagnostic client that speaks the status phase of the
// protocol: it performs a handshake against a running server, prints the
// status payload, and measures the ping round trip.
package main

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/williewillus/mcrs/internal/protocol"
)

func main() {
	if err := app().Run(os.Args); err != nil {
		fmt.Printf("ping error: %v\n", err)
		os.Exit(1)
	}
}

func app() *cli.App {
	return &cli.App{
		Name:   "ping",
		Usage:  "query a server's status and measure its ping round trip",
		Action: ping,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Aliases: []string{"a"},
				Usage:   "Address of the server to query",
				Value:   "127.0.0.1:25565",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Dial and read timeout",
				Value: 5 * time.Second,
			},
		},
	}
}

func ping(c *cli.Context) error {
	addr := c.String("addr")
	timeout := c.Duration("timeout")

	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", addr, err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(timeout))

	host, port, err := splitHostPort(addr)
	if err != nil {
		return err
	}

	// Handshake into the status state, then request the payload.
	err = protocol.WriteFrame(conn, 0x00, func(w io.Writer) error {
		if err := protocol.WriteVarInt(w, protocol.ProtocolVersion); err != nil {
			return err
		}
		if err := protocol.WriteString(w, host); err != nil {
			return err
		}
		if err := protocol.WriteUint16(w, port); err != nil {
			return err
		}
		return protocol.WriteVarInt(w, 1)
	})
	if err != nil {
		return fmt.Errorf("sending handshake: %w", err)
	}
	if err := protocol.WriteFrame(conn, 0x00, nil); err != nil {
		return fmt.Errorf("sending status request: %w", err)
	}

	raw, err := protocol.ReadFrame(conn)
	if err != nil {
		return fmt.Errorf("reading status response: %w", err)
	}
	status, err := protocol.ReadString(bytes.NewReader(raw.Payload))
	if err != nil {
		return fmt.Errorf("decoding status response: %w", err)
	}
	fmt.Println(status)

	// Ping with the current time so the echoed value doubles as a sanity check.
	sent := time.Now()
	err = protocol.WriteFrame(conn, 0x01, func(w io.Writer) error {
		return protocol.WriteInt64(w, sent.UnixNano())
	})
	if err != nil {
		return fmt.Errorf("sending ping: %w", err)
	}

	raw, err = protocol.ReadFrame(conn)
	if err != nil {
		return fmt.Errorf("reading pong: %w", err)
	}
	value, err := protocol.ReadInt64(bytes.NewReader(raw.Payload))
	if err != nil {
		return fmt.Errorf("decoding pong: %w", err)
	}
	if value != sent.UnixNano() {
		return fmt.Errorf("pong value %d does not match ping value %d", value, sent.UnixNano())
	}

	fmt.Printf("ping: %v\n", time.Since(sent))
	return nil
}

func splitHostPort(addr string) (string, uint16, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid address %s: %w", addr, err)
	}
	port, err := net.LookupPort("tcp", portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid port %s: %w", portStr, err)
	}
	return host, uint16(port), nil
}
