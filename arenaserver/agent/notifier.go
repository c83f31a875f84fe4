package agent

import (
	"sync"
	"sync/atomic"
	"time"

	notify "github.com/bitly/go-notify"

	"github.com/bytearena/robotworld/arenaserver/geometry"
)

// RobotChangedEvent is the go-notify event every robot posts on.
const RobotChangedEvent = "robot:changed"

const (
	DefaultNotifyEvery = 200
	postTimeout        = 10 * time.Millisecond
)

type EventKind int

const (
	EventStep EventKind = iota
	EventStarted
	EventStopped
	EventCollision
	EventNegotiated
	EventResumed
	EventArrived
	EventWallCollision
	EventPlanningFailure
	EventSentBack
	EventFailure
)

var eventKindNames = []string{
	"step",
	"started",
	"stopped",
	"collision",
	"negotiated",
	"resumed",
	"arrived",
	"wallcollision",
	"planningfailure",
	"sentback",
	"failure",
}

func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}

	return "unknown"
}

func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

type Event struct {
	Kind        EventKind              `json:"kind"`
	Robot       string                 `json:"robot"`
	Position    geometry.Point         `json:"position"`
	Front       geometry.BoundedVector `json:"front"`
	Lifecycle   Lifecycle              `json:"lifecycle"`
	Negotiation Negotiation            `json:"negotiation"`
	Time        time.Time              `json:"time"`
}

// Notifier fans robot events out to callbacks and to the go-notify bus.
// Step events are throttled to one in every; the others always go out.
type Notifier struct {
	every   int64
	counter int64

	mutex     sync.Mutex
	observers []func(Event)
}

func NewNotifier(every int) *Notifier {
	if every <= 0 {
		every = DefaultNotifyEvery
	}

	return &Notifier{
		every:     int64(every),
		observers: make([]func(Event), 0),
	}
}

func (n *Notifier) Observe(fn func(Event)) {
	n.mutex.Lock()
	n.observers = append(n.observers, fn)
	n.mutex.Unlock()
}

// Step reports whether the event was delivered.
func (n *Notifier) Step(e Event) bool {
	if atomic.AddInt64(&n.counter, 1)%n.every != 0 {
		return false
	}

	n.fire(e)
	return true
}

func (n *Notifier) Transition(e Event) {
	n.fire(e)
}

func (n *Notifier) fire(e Event) {
	n.mutex.Lock()
	observers := make([]func(Event), len(n.observers))
	copy(observers, n.observers)
	n.mutex.Unlock()

	for _, fn := range observers {
		fn(e)
	}

	// no listener is not an error here
	_ = notify.PostTimeout(RobotChangedEvent, e, postTimeout)
}
