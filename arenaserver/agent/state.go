package agent

// Lifecycle is what the robot is doing.
type Lifecycle int

const (
	Idle Lifecycle = iota
	Driving
	Negotiating
	Yielding
	Arrived
)

func (l Lifecycle) String() string {
	switch l {
	case Idle:
		return "idle"
	case Driving:
		return "driving"
	case Negotiating:
		return "negotiating"
	case Yielding:
		return "yielding"
	case Arrived:
		return "arrived"
	}

	return "unknown"
}

func (l Lifecycle) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Acting is true while the robot owns a driving goroutine.
func (l Lifecycle) Acting() bool {
	return l == Driving || l == Negotiating
}

// Negotiation is the outcome of the current encounter with the peer.
type Negotiation int

const (
	Undetermined Negotiation = iota
	Won
	Lost
)

func (n Negotiation) String() string {
	switch n {
	case Undetermined:
		return "undetermined"
	case Won:
		return "won"
	case Lost:
		return "lost"
	}

	return "unknown"
}

func (n Negotiation) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}
