// Package packets defines the typed packets for each protocol state and the
// table-driven registries that map wire discriminators to them.
package packets

// State identifies which phase of the protocol a connection is in, which in
// turn determines the set of packet schemas that are valid on it.
type State int

const (
	StateHandshake State = iota
	StateStatus
	StateLogin
	StatePlay
)

func (s State) String() string {
	switch s {
	case StateHandshake:
		return "handshake"
	case StateStatus:
		return "status"
	case StateLogin:
		return "login"
	case StatePlay:
		return "play"
	}
	return "unknown"
}
