package exchange

// State is the position of one exchange in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateBuilding
	StateSent
	StateDecoded
	StateTimedOut
	StateProtocolError
	StateParseFailed
	StateOverflowed
	StateTransportFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBuilding:
		return "building"
	case StateSent:
		return "sent"
	case StateDecoded:
		return "decoded"
	case StateTimedOut:
		return "timed_out"
	case StateProtocolError:
		return "protocol_error"
	case StateParseFailed:
		return "parse_failed"
	case StateOverflowed:
		return "overflowed"
	case StateTransportFailed:
		return "transport_failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether s ends an exchange.
func (s State) Terminal() bool {
	return s >= StateDecoded
}
