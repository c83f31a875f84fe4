package agent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytearena/robotworld/arenaserver/geometry"
	"github.com/bytearena/robotworld/arenaserver/state"
)

type crossing struct {
	alice, bob *Robot
	rec        *recorder
}

// Alice drives east along y=250 while Bob drives south along x=250; each one
// lives in its own world and learns about the other through broadcasts.
func newCrossing(t *testing.T, aliceRoll, bobRoll int) crossing {
	return newPair(t, geometry.MakePoint(100, 250), geometry.MakePoint(250, 100), geometry.MakePoint(250, 420), aliceRoll, bobRoll)
}

// newPair places Alice at aliceAt heading for (420,250) and Bob at bobAt
// heading for bobGoal, each in its own world.
func newPair(t *testing.T, aliceAt, bobAt, bobGoal geometry.Point, aliceRoll, bobRoll int) crossing {
	t.Helper()

	aliceWorld := state.NewWorld()
	aliceWorld.SetGoal(state.Goal{Name: "GoalA", Position: geometry.MakePoint(420, 250), Size: geometry.Size{X: 40, Y: 40}})

	bobWorld := state.NewWorld()
	bobWorld.SetGoal(state.Goal{Name: "GoalB", Position: bobGoal, Size: geometry.Size{X: 40, Y: 40}})

	alice := newTestRobot(t, aliceWorld, Config{
		Name:         "Alice",
		Position:     aliceAt,
		GoalName:     "GoalA",
		Listen:       "127.0.0.1:0",
		Broadcast:    true,
		StepInterval: 5 * time.Millisecond,
		Roll:         fixedRoll(aliceRoll),
	})

	bob := newTestRobot(t, bobWorld, Config{
		Name:         "Bob",
		Position:     bobAt,
		GoalName:     "GoalB",
		Listen:       "127.0.0.1:0",
		Broadcast:    true,
		StepInterval: 5 * time.Millisecond,
		Roll:         fixedRoll(bobRoll),
	})

	require.NoError(t, alice.Listen())
	require.NoError(t, bob.Listen())

	alice.SetPeer(bob.Addr())
	bob.SetPeer(alice.Addr())

	rec := &recorder{}
	alice.Observe(rec.observe)
	bob.Observe(rec.observe)

	return crossing{alice: alice, bob: bob, rec: rec}
}

func TestCrossingRobotsTakeTurns(t *testing.T) {
	cases := []struct {
		name      string
		aliceRoll int
		bobRoll   int
	}{
		{"alice rolls higher", 90, 10},
		{"bob rolls higher", 10, 90},
		{"tie", 50, 50},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			x := newCrossing(t, c.aliceRoll, c.bobRoll)

			require.True(t, x.alice.StartActing())
			require.True(t, x.bob.StartActing())

			require.Eventually(t, func() bool {
				return x.alice.Lifecycle() == Arrived && x.bob.Lifecycle() == Arrived
			}, waitFor, tick)

			aliceArrived := x.rec.indexOf("Alice", EventArrived)
			bobArrived := x.rec.indexOf("Bob", EventArrived)
			require.True(t, aliceArrived >= 0 && bobArrived >= 0)

			winner, loser := "Alice", "Bob"
			winnerArrived := aliceArrived
			if bobArrived < aliceArrived {
				winner, loser = "Bob", "Alice"
				winnerArrived = bobArrived
			}

			require.True(t, x.alice.Metrics().Negotiations.Get()+x.bob.Metrics().Negotiations.Get() > 0, "the robots never negotiated")
			require.True(t, x.rec.indexOf(loser, EventNegotiated) >= 0, "%s never learned it lost", loser)

			resumed := x.rec.indexOf(loser, EventResumed)
			require.True(t, resumed >= 0, "%s never got the right of way back", loser)
			assert.True(t, winnerArrived < resumed, "%s resumed before %s arrived", loser, winner)

			aliceBody := x.alice.State().Region()
			bobBody := x.bob.State().Region()
			assert.False(t, aliceBody.Intersects(bobBody), "final bodies overlap")

			assert.Equal(t, Undetermined, x.alice.Negotiation())
			assert.Equal(t, Undetermined, x.bob.Negotiation())
		})
	}
}

// Alice catches up with Bob on the way to the same goal. Whoever arrives
// first parks on the goal and must still let the other one in.
func TestSameGoalBothArrive(t *testing.T) {
	cases := []struct {
		name      string
		aliceRoll int
		bobRoll   int
	}{
		{"alice rolls higher", 90, 10},
		{"bob rolls higher", 10, 90},
		{"tie", 50, 50},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			x := newPair(t, geometry.MakePoint(60, 250), geometry.MakePoint(110, 250), geometry.MakePoint(420, 250), c.aliceRoll, c.bobRoll)

			require.True(t, x.alice.StartActing())
			require.True(t, x.bob.StartActing())

			require.Eventually(t, func() bool {
				return x.alice.Lifecycle() == Arrived && x.bob.Lifecycle() == Arrived
			}, waitFor, tick)

			assert.True(t, x.alice.Metrics().Negotiations.Get()+x.bob.Metrics().Negotiations.Get() > 0)
			assert.Equal(t, Undetermined, x.alice.Negotiation())
			assert.Equal(t, Undetermined, x.bob.Negotiation())
		})
	}
}
