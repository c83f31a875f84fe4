package agent

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"

	"github.com/bytearena/robotworld/arenaserver/comm"
	"github.com/bytearena/robotworld/arenaserver/geometry"
	"github.com/bytearena/robotworld/arenaserver/perception"
	"github.com/bytearena/robotworld/arenaserver/planner"
	"github.com/bytearena/robotworld/arenaserver/state"
	"github.com/bytearena/robotworld/common/influxdb"
	"github.com/bytearena/robotworld/common/utils"
)

const (
	DefaultSpeed            = 10
	DefaultStepInterval     = 100 * time.Millisecond
	DefaultSendBackDistance = 10
	broadcastTimeout        = 500 * time.Millisecond
)

type Config struct {
	Name     string
	Position geometry.Point
	Size     geometry.Size
	Speed    int
	GoalName string

	// Listen is the address the robot answers requests on; empty means no
	// listener. Peer is where negotiation and drive requests go.
	Listen string
	Peer   string

	// Broadcast sends EchoLocation to the peer after each step. Robots
	// sharing one world have no use for it.
	Broadcast bool

	StepInterval     time.Duration
	NotifyEvery      int
	SendBackDistance int
	Workers          int

	Sensors []perception.Sensor
	Client  *comm.Client
	Metrics *influxdb.RobotMetrics

	// Roll draws the negotiation number; defaults to RandomRoll.
	Roll func() int
}

func (c Config) withDefaults() Config {
	if c.Size.IsZero() {
		c.Size = geometry.DefaultSize
	}

	if c.GoalName == "" {
		c.GoalName = state.DefaultGoalName
	}

	if c.StepInterval <= 0 {
		c.StepInterval = DefaultStepInterval
	}

	if c.NotifyEvery <= 0 {
		c.NotifyEvery = DefaultNotifyEvery
	}

	if c.SendBackDistance <= 0 {
		c.SendBackDistance = DefaultSendBackDistance
	}

	if c.Workers <= 0 {
		c.Workers = comm.DefaultWorkers
	}

	if c.Sensors == nil {
		c.Sensors = []perception.Sensor{perception.ProximitySensor{}}
	}

	if c.Client == nil {
		c.Client = comm.NewClient()
	}

	if c.Metrics == nil {
		c.Metrics = influxdb.NewRobotMetrics()
	}

	if c.Roll == nil {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		var mu sync.Mutex
		c.Roll = func() int {
			mu.Lock()
			defer mu.Unlock()
			return RandomRoll(rng)
		}
	}

	return c
}

// Robot drives one registry entry towards its goal and talks to one peer.
type Robot struct {
	config Config

	world    *state.World
	astar    *planner.AStar
	percepts *perception.PerceptQueue
	notifier *Notifier
	server   *comm.Server

	mutex         sync.Mutex
	lifecycle     Lifecycle
	negotiation   Negotiation
	communicating bool
	pendingRoll   int
	pendingID     uuid.UUID

	run    int
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRobot registers the robot in world, or adopts the local entry of the
// same name when there is one.
func NewRobot(world *state.World, config Config) (*Robot, error) {
	if config.Name == "" {
		return nil, errors.New("robot has no name")
	}

	config = config.withDefaults()

	if existing, ok := world.GetRobot(config.Name); ok {
		if existing.Shadow {
			return nil, errors.Errorf("robot %s is driven by a peer", config.Name)
		}

		world.UpdateRobot(config.Name, func(robot *state.RobotState) {
			if robot.Size.IsZero() {
				robot.Size = config.Size
			}
			if config.Speed > 0 {
				robot.Speed = config.Speed
			}
		})
	} else {
		robot := state.MakeRobotState(config.Name, config.Position)
		robot.Size = config.Size
		robot.Speed = config.Speed
		world.AddRobot(robot)
	}

	return &Robot{
		config:   config,
		world:    world,
		astar:    planner.NewAStar(),
		percepts: perception.NewPerceptQueue(),
		notifier: NewNotifier(config.NotifyEvery),
	}, nil
}

func (r *Robot) Name() string {
	return r.config.Name
}

func (r *Robot) World() *state.World {
	return r.world
}

func (r *Robot) State() state.RobotState {
	s, _ := r.world.GetRobot(r.config.Name)
	return s
}

func (r *Robot) Position() geometry.Point {
	return r.State().Position
}

func (r *Robot) Front() geometry.BoundedVector {
	return r.State().Front
}

func (r *Robot) Speed() int {
	if speed := r.State().Speed; speed > 0 {
		return speed
	}

	return DefaultSpeed
}

func (r *Robot) SetSpeed(speed int) {
	r.world.UpdateRobot(r.config.Name, func(robot *state.RobotState) {
		robot.Speed = speed
	})
}

func (r *Robot) Path() []geometry.Point {
	return r.astar.Path().Points()
}

func (r *Robot) OpenSet() []planner.Vertex {
	return r.astar.OpenSet()
}

func (r *Robot) Lifecycle() Lifecycle {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.lifecycle
}

func (r *Robot) Negotiation() Negotiation {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.negotiation
}

func (r *Robot) Communicating() bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.communicating
}

func (r *Robot) Metrics() *influxdb.RobotMetrics {
	return r.config.Metrics
}

// Healthy fails when the robot should listen and does not.
func (r *Robot) Healthy() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.config.Listen != "" && !r.communicating {
		return errors.Errorf("%s is not listening on %s", r.config.Name, r.config.Listen)
	}

	return nil
}

// Observe registers fn for every delivered event of this robot.
func (r *Robot) Observe(fn func(Event)) {
	r.notifier.Observe(fn)
}

func (r *Robot) event(kind EventKind) Event {
	self := r.State()

	r.mutex.Lock()
	lifecycle, negotiation := r.lifecycle, r.negotiation
	r.mutex.Unlock()

	return Event{
		Kind:        kind,
		Robot:       r.config.Name,
		Position:    self.Position,
		Front:       self.Front,
		Lifecycle:   lifecycle,
		Negotiation: negotiation,
		Time:        time.Now(),
	}
}

func (r *Robot) transition(kind EventKind) {
	r.notifier.Transition(r.event(kind))
}

// Listen starts answering requests on the configured address.
func (r *Robot) Listen() error {
	if r.config.Listen == "" {
		return nil
	}

	server := comm.NewServer(r.config.Listen)
	server.Workers = r.config.Workers

	if err := server.Listen(r); err != nil {
		return err
	}

	r.mutex.Lock()
	r.server = server
	r.communicating = true
	r.mutex.Unlock()

	go r.watchServer(server)

	return nil
}

// Addr is the address the listener is bound to.
func (r *Robot) Addr() string {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.server == nil {
		return r.config.Listen
	}

	return r.server.Addr()
}

// SetPeer points the robot at the listener of the robot it negotiates with.
func (r *Robot) SetPeer(address string) {
	r.mutex.Lock()
	r.config.Peer = address
	r.mutex.Unlock()
}

func (r *Robot) peer() string {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.config.Peer
}

func (r *Robot) watchServer(server *comm.Server) {
	for {
		select {
		case <-server.Stopped():
			r.mutex.Lock()
			if r.server == server {
				r.communicating = false
			}
			r.mutex.Unlock()
			utils.Debug("robot", r.config.Name+" stopped communicating")
			return

		case e := <-server.Events():
			switch event := e.(type) {
			case comm.EventLog:
				utils.Debug("comm", event.Value)
			case comm.EventWarn:
				utils.Debug("comm", event.Err.Error())
			case comm.EventError:
				utils.Warn("comm", event.Err)
			}
		}
	}
}

// Close stops driving and the listener.
func (r *Robot) Close() {
	r.StopActing()

	r.mutex.Lock()
	server := r.server
	r.mutex.Unlock()

	if server != nil {
		server.Stop()
	}
}

func (r *Robot) String() string {
	return r.State().String()
}

type debugView struct {
	State         state.RobotState
	Lifecycle     Lifecycle
	Negotiation   Negotiation
	Communicating bool
	Peer          string
	Path          []geometry.Point
	Percepts      int
}

// DebugString dumps everything known about the robot.
func (r *Robot) DebugString() string {
	r.mutex.Lock()
	view := debugView{
		Lifecycle:     r.lifecycle,
		Negotiation:   r.negotiation,
		Communicating: r.communicating,
		Peer:          r.config.Peer,
	}
	r.mutex.Unlock()

	view.State = r.State()
	view.Path = r.Path()
	view.Percepts = r.percepts.Len()

	return spew.Sdump(view)
}
