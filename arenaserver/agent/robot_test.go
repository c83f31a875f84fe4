package agent

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytearena/robotworld/arenaserver/comm"
	"github.com/bytearena/robotworld/arenaserver/geometry"
	"github.com/bytearena/robotworld/arenaserver/protocol"
	"github.com/bytearena/robotworld/arenaserver/state"
	"github.com/bytearena/robotworld/common/utils"
)

func init() {
	utils.SetQuiet(true)
	geometry.StrictMode = true
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

const (
	waitFor = 10 * time.Second
	tick    = 5 * time.Millisecond
)

func newTestRobot(t *testing.T, world *state.World, config Config) *Robot {
	t.Helper()

	if config.StepInterval == 0 {
		config.StepInterval = 2 * time.Millisecond
	}

	if config.Client == nil {
		config.Client = &comm.Client{DialTimeout: 200 * time.Millisecond, IOTimeout: time.Second, MaxRetries: 1}
	}

	robot, err := NewRobot(world, config)
	require.NoError(t, err)
	t.Cleanup(robot.Close)

	return robot
}

type recorder struct {
	mutex  sync.Mutex
	events []Event
}

func (rec *recorder) observe(e Event) {
	rec.mutex.Lock()
	rec.events = append(rec.events, e)
	rec.mutex.Unlock()
}

func (rec *recorder) kinds() []EventKind {
	rec.mutex.Lock()
	defer rec.mutex.Unlock()

	res := make([]EventKind, len(rec.events))
	for i, e := range rec.events {
		res[i] = e.Kind
	}

	return res
}

func (rec *recorder) indexOf(robot string, kind EventKind) int {
	rec.mutex.Lock()
	defer rec.mutex.Unlock()

	for i, e := range rec.events {
		if e.Robot == robot && e.Kind == kind {
			return i
		}
	}

	return -1
}

func goalWorld(x, y int) *state.World {
	world := state.NewWorld()
	world.SetGoal(state.Goal{Position: geometry.MakePoint(x, y), Size: geometry.Size{X: 40, Y: 40}})
	return world
}

func TestDrivesToGoal(t *testing.T) {
	world := goalWorld(400, 400)
	robot := newTestRobot(t, world, Config{Name: "Robot", Position: geometry.MakePoint(50, 50)})

	rec := &recorder{}
	robot.Observe(rec.observe)

	require.True(t, robot.StartActing())
	require.Eventually(t, func() bool { return robot.Lifecycle() == Arrived }, waitFor, tick)

	goal, _ := world.GetGoal(state.DefaultGoalName)
	assert.True(t, robot.State().Region().Intersects(goal.Region()))
	assert.Equal(t, Undetermined, robot.Negotiation())
	assert.NotEmpty(t, robot.Path())
	assert.Equal(t, geometry.MakePoint(50, 50), robot.Path()[0])
	assert.True(t, robot.Metrics().Steps.Get() > 0)

	assert.Equal(t, EventStarted, rec.kinds()[0])
	assert.Contains(t, rec.kinds(), EventArrived)
}

func TestStartActingTwice(t *testing.T) {
	robot := newTestRobot(t, goalWorld(400, 400), Config{
		Name:         "Robot",
		Position:     geometry.MakePoint(50, 50),
		StepInterval: 50 * time.Millisecond,
	})

	assert.True(t, robot.StartActing())
	assert.False(t, robot.StartActing())
}

func TestStopActing(t *testing.T) {
	robot := newTestRobot(t, goalWorld(400, 400), Config{
		Name:         "Robot",
		Position:     geometry.MakePoint(50, 50),
		StepInterval: 20 * time.Millisecond,
	})

	require.True(t, robot.StartActing())
	require.Eventually(t, func() bool { return robot.Position() != geometry.MakePoint(50, 50) }, waitFor, tick)

	robot.StopActing()
	assert.Equal(t, Idle, robot.Lifecycle())

	stoppedAt := robot.Position()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, stoppedAt, robot.Position(), "no step after StopActing returned")
}

func TestNoGoalIsPlanningFailure(t *testing.T) {
	robot := newTestRobot(t, state.NewWorld(), Config{Name: "Robot", Position: geometry.MakePoint(50, 50)})

	rec := &recorder{}
	robot.Observe(rec.observe)

	robot.StartActing()
	require.Eventually(t, func() bool { return rec.indexOf("Robot", EventPlanningFailure) >= 0 }, waitFor, tick)
	assert.Equal(t, Idle, robot.Lifecycle())
}

func TestWalledOffGoalIsPlanningFailure(t *testing.T) {
	world := goalWorld(400, 400)
	world.AddWall(geometry.MakePoint(360, 360), geometry.MakePoint(440, 360))
	world.AddWall(geometry.MakePoint(440, 360), geometry.MakePoint(440, 440))
	world.AddWall(geometry.MakePoint(440, 440), geometry.MakePoint(360, 440))
	world.AddWall(geometry.MakePoint(360, 440), geometry.MakePoint(360, 360))

	robot := newTestRobot(t, world, Config{Name: "Robot", Position: geometry.MakePoint(50, 50)})

	rec := &recorder{}
	robot.Observe(rec.observe)

	robot.StartActing()
	require.Eventually(t, func() bool { return rec.indexOf("Robot", EventPlanningFailure) >= 0 }, waitFor, tick)
	assert.Equal(t, Idle, robot.Lifecycle())
	assert.Equal(t, geometry.MakePoint(50, 50), robot.Position())
}

func TestCollisionWithoutPeerDrivesOn(t *testing.T) {
	world := goalWorld(400, 100)
	world.AddRobot(state.MakeShadowRobotState("Parked", geometry.MakePoint(200, 140)))

	robot := newTestRobot(t, world, Config{Name: "Robot", Position: geometry.MakePoint(50, 100)})

	robot.StartActing()
	require.Eventually(t, func() bool { return robot.Lifecycle() == Arrived }, waitFor, tick)
	assert.True(t, robot.Metrics().Negotiations.Get() > 0)
}

func TestLosingResponderYieldsUntilDriveRequest(t *testing.T) {
	robot := newTestRobot(t, goalWorld(400, 400), Config{
		Name:         "Robot",
		Position:     geometry.MakePoint(50, 50),
		StepInterval: 10 * time.Millisecond,
		Roll:         fixedRoll(1),
	})

	rec := &recorder{}
	robot.Observe(rec.observe)

	robot.StartActing()
	require.Eventually(t, func() bool { return robot.Position() != geometry.MakePoint(50, 50) }, waitFor, tick)

	response := robot.HandleRequest(protocol.NewMessage(protocol.NegotiateRequest, "100"))
	assert.Equal(t, "false", response.Body)
	assert.Equal(t, Yielding, robot.Lifecycle())
	assert.Equal(t, Lost, robot.Negotiation())

	response = robot.HandleRequest(protocol.NewMessage(protocol.DriveRequest, "Peer"))
	assert.Equal(t, protocol.DriveResponse, response.Type)
	assert.Equal(t, "true", response.Body)
	assert.Equal(t, Undetermined, robot.Negotiation())

	require.Eventually(t, func() bool { return robot.Lifecycle() == Arrived }, waitFor, tick)
	assert.True(t, rec.indexOf("Robot", EventResumed) >= 0)

	response = robot.HandleRequest(protocol.NewMessage(protocol.DriveRequest, "Peer"))
	assert.Equal(t, "false", response.Body, "only a yielding robot resumes")
}

func TestRestartForgetsTheLastEncounter(t *testing.T) {
	robot := newTestRobot(t, goalWorld(400, 400), Config{
		Name:         "Robot",
		Position:     geometry.MakePoint(50, 50),
		StepInterval: 20 * time.Millisecond,
		Roll:         fixedRoll(1),
	})

	require.True(t, robot.StartActing())
	robot.HandleRequest(protocol.NewMessage(protocol.NegotiateRequest, "100"))
	require.Equal(t, Yielding, robot.Lifecycle())
	require.Equal(t, Lost, robot.Negotiation())

	robot.StopActing()
	assert.Equal(t, Idle, robot.Lifecycle())
	assert.Equal(t, Undetermined, robot.Negotiation())

	require.True(t, robot.StartActing())
	assert.Equal(t, Undetermined, robot.Negotiation())

	response := robot.HandleRequest(protocol.NewMessage(protocol.NegotiateRequest, "100"))
	assert.Equal(t, "false", response.Body, "the new encounter is negotiated afresh")
	assert.Equal(t, Yielding, robot.Lifecycle())
}

func TestRemoteStartForgetsTheLastEncounter(t *testing.T) {
	robot := newTestRobot(t, goalWorld(400, 400), Config{
		Name:         "Robot",
		Position:     geometry.MakePoint(50, 50),
		StepInterval: 20 * time.Millisecond,
		Roll:         fixedRoll(MaxRoll),
	})

	require.True(t, robot.StartActing())
	robot.HandleRequest(protocol.NewMessage(protocol.NegotiateRequest, "1"))
	require.Equal(t, Won, robot.Negotiation())

	robot.StopActing()

	response := robot.HandleRequest(protocol.NewMessage(protocol.StartRequest, "Peer"))
	assert.Equal(t, "true", response.Body)
	assert.Equal(t, Undetermined, robot.Negotiation())
}

func TestOvershootLandsOnLastVertex(t *testing.T) {
	world := goalWorld(400, 100)
	robot := newTestRobot(t, world, Config{
		Name:     "Robot",
		Position: geometry.MakePoint(50, 100),
		Speed:    1000,
	})

	rec := &recorder{}
	robot.Observe(rec.observe)

	require.True(t, robot.StartActing())
	require.Eventually(t, func() bool { return robot.Lifecycle() == Arrived }, waitFor, tick)

	path := robot.Path()
	require.True(t, len(path) > 1)
	assert.True(t, robot.stride() > len(path))

	assert.Equal(t, path[len(path)-1], robot.Position())
	assert.Equal(t, 1, robot.Metrics().Steps.Get())
	assert.Equal(t, 0, robot.Metrics().Failures.Get())
	assert.Equal(t, -1, rec.indexOf("Robot", EventFailure))
}

func TestParkedPeerLetsRequesterThrough(t *testing.T) {
	world := state.NewWorld()
	world.SetGoal(state.Goal{Name: "East", Position: geometry.MakePoint(420, 250), Size: geometry.Size{X: 40, Y: 40}})

	alice := newTestRobot(t, world, Config{
		Name:         "Alice",
		Position:     geometry.MakePoint(100, 250),
		GoalName:     "East",
		Broadcast:    true,
		StepInterval: 5 * time.Millisecond,
		Roll:         fixedRoll(1),
	})

	bob := newTestRobot(t, state.NewWorld(), Config{
		Name:     "Bob",
		Position: geometry.MakePoint(300, 250),
		Listen:   "127.0.0.1:0",
		Roll:     fixedRoll(MaxRoll),
	})
	require.NoError(t, bob.Listen())

	bob.mutex.Lock()
	bob.lifecycle = Arrived
	bob.mutex.Unlock()

	alice.SetPeer(bob.Addr())

	require.True(t, alice.StartActing())
	require.Eventually(t, func() bool { return alice.Lifecycle() == Arrived }, waitFor, tick)

	assert.True(t, alice.Metrics().Negotiations.Get() > 0)
	assert.Equal(t, Arrived, bob.Lifecycle())
	assert.Equal(t, Undetermined, bob.Negotiation())
}

func TestHandleRequest(t *testing.T) {
	world := state.NewWorld()
	world.AddWall(geometry.MakePoint(0, 0), geometry.MakePoint(10, 10))
	robot := newTestRobot(t, world, Config{Name: "Robot", Position: geometry.MakePoint(50, 60)})

	t.Run("echo", func(t *testing.T) {
		response := robot.HandleRequest(protocol.NewMessage(protocol.EchoRequest, "Hello world"))
		assert.Equal(t, protocol.EchoResponse, response.Type)
		assert.Equal(t, ": case 1 Hello world", response.Body)
	})

	t.Run("echo location", func(t *testing.T) {
		response := robot.HandleRequest(protocol.NewMessage(protocol.EchoLocation, "0 Bob 10 20 1 0"))
		assert.Equal(t, protocol.EchoLocation, response.Type)
		assert.Equal(t, "0 Robot 50 60 0 0", response.Body)

		bob, ok := world.GetRobot("Bob")
		require.True(t, ok)
		assert.True(t, bob.Shadow)
		assert.Equal(t, geometry.MakePoint(10, 20), bob.Position)
		assert.Equal(t, geometry.BoundedVector{X: 1, Y: 0}, bob.Front)
	})

	t.Run("sync", func(t *testing.T) {
		response := robot.HandleRequest(protocol.NewMessage(protocol.SyncRequest, "0 Peer 300 300\n1 100 100 200 100\n"))
		assert.Equal(t, protocol.SyncResponse, response.Type)
		assert.Equal(t, "0 Robot 50 60\n1 0 0 10 10\n1 100 100 200 100\n", response.Body)

		_, ok := world.GetRobot("_Peer")
		assert.True(t, ok)
	})

	t.Run("send back", func(t *testing.T) {
		world.MoveRobot("Robot", geometry.MakePoint(50, 60), geometry.BoundedVector{X: 0, Y: 5})

		response := robot.HandleRequest(protocol.NewMessage(protocol.SendBackRequest, "Peer"))
		assert.Equal(t, protocol.SendBackResponse, response.Type)
		assert.Equal(t, "0 Robot 50 50 0 5", response.Body)
	})

	t.Run("unknown type", func(t *testing.T) {
		response := robot.HandleRequest(protocol.NewMessage(protocol.MessageType(7), "?"))
		assert.Equal(t, protocol.MessageType(7), response.Type)
		assert.Equal(t, protocol.DefaultBody, response.Body)
	})

	t.Run("response sent as request", func(t *testing.T) {
		response := robot.HandleRequest(protocol.NewMessage(protocol.EchoResponse, "?"))
		assert.Equal(t, protocol.DefaultBody, response.Body)
	})

	t.Run("malformed location", func(t *testing.T) {
		response := robot.HandleRequest(protocol.NewMessage(protocol.EchoLocation, "0 Bob"))
		assert.Equal(t, protocol.DefaultBody, response.Body)
	})

	t.Run("malformed roll", func(t *testing.T) {
		response := robot.HandleRequest(protocol.NewMessage(protocol.NegotiateRequest, "lots"))
		assert.Equal(t, protocol.DefaultBody, response.Body)
		assert.Equal(t, Undetermined, robot.Negotiation())
	})
}

func TestRemoteOperations(t *testing.T) {
	peerWorld := goalWorld(400, 400)
	peer := newTestRobot(t, peerWorld, Config{
		Name:         "Peer",
		Position:     geometry.MakePoint(300, 300),
		Listen:       "127.0.0.1:0",
		StepInterval: 20 * time.Millisecond,
	})
	require.NoError(t, peer.Listen())
	assert.True(t, peer.Communicating())

	world := state.NewWorld()
	robot := newTestRobot(t, world, Config{Name: "Robot", Position: geometry.MakePoint(50, 50), Peer: peer.Addr()})

	ctx := context.Background()

	body, err := robot.Echo(ctx, "ping")
	require.NoError(t, err)
	assert.Equal(t, ": case 1 ping", body)

	report, err := robot.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Robots)

	_, ok := peerWorld.GetRobot("_Robot")
	assert.True(t, ok, "the peer learnt about us")

	world.UpdateRobot("_Peer", func(r *state.RobotState) { r.Position = geometry.MakePoint(0, 0) })
	require.NoError(t, robot.RequestSendBack(ctx))
	shadow, ok := world.GetRobot("_Peer")
	require.True(t, ok)
	assert.Equal(t, geometry.MakePoint(300, 300), shadow.Position, "the send back answer carries the peer location")

	started, err := robot.RequestStart(ctx)
	require.NoError(t, err)
	assert.True(t, started)
	assert.True(t, peer.Lifecycle().Acting() || peer.Lifecycle() == Arrived)

	peer.Close()
	assert.Eventually(t, func() bool { return !peer.Communicating() }, waitFor, tick)

	_, err = robot.Echo(ctx, "anyone?")
	assert.Error(t, err)
}

func TestNoPeer(t *testing.T) {
	robot := newTestRobot(t, state.NewWorld(), Config{Name: "Robot", Position: geometry.MakePoint(50, 50)})

	_, err := robot.Echo(context.Background(), "ping")
	assert.Equal(t, ErrNoPeer, err)
}

func TestUnreachablePeerCountsAsWin(t *testing.T) {
	world := goalWorld(400, 100)
	world.AddRobot(state.MakeShadowRobotState("Parked", geometry.MakePoint(200, 140)))

	robot := newTestRobot(t, world, Config{
		Name:     "Robot",
		Position: geometry.MakePoint(50, 100),
		Peer:     "127.0.0.1:1",
	})

	robot.StartActing()
	require.Eventually(t, func() bool { return robot.Lifecycle() == Arrived }, waitFor, tick)
}

func TestNotifierThrottlesSteps(t *testing.T) {
	n := NewNotifier(3)

	count := 0
	n.Observe(func(Event) { count++ })

	delivered := 0
	for i := 0; i < 9; i++ {
		if n.Step(Event{Kind: EventStep}) {
			delivered++
		}
	}

	assert.Equal(t, 3, delivered)
	assert.Equal(t, 3, count)

	n.Transition(Event{Kind: EventArrived})
	assert.Equal(t, 4, count)
}

func TestDebugString(t *testing.T) {
	robot := newTestRobot(t, state.NewWorld(), Config{Name: "Robot", Position: geometry.MakePoint(50, 60)})

	assert.Contains(t, robot.DebugString(), "Robot")
	assert.Equal(t, "Robot Robot at (50,60)", robot.String())
}
