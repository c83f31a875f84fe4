package perception

import (
	"strconv"

	"github.com/bytearena/robotworld/arenaserver/state"
)

type Stimulus interface {
	String() string
}

type Percept interface {
	String() string
}

// Sensor turns the world as seen from one robot into a stimulus, and a
// stimulus into a percept the robot acts upon. Sensors are handed copies;
// they never see the registry itself.
type Sensor interface {
	Stimulus(self state.RobotState, world state.Snapshot) Stimulus
	Percept(stimulus Stimulus) Percept
	String() string
}

type CollisionStimulus struct {
	Collision bool
}

func (s CollisionStimulus) String() string {
	return "CollisionStimulus(" + strconv.FormatBool(s.Collision) + ")"
}

type CollisionPercept struct {
	Collision bool
}

func (p CollisionPercept) String() string {
	return "CollisionPercept(" + strconv.FormatBool(p.Collision) + ")"
}

type DistanceStimulus struct {
	Angle    float64
	Distance float64
}

func (s DistanceStimulus) String() string {
	return "DistanceStimulus(" + strconv.FormatFloat(s.Angle, 'f', -1, 64) + ", " + strconv.FormatFloat(s.Distance, 'f', -1, 64) + ")"
}

type DistancePercept struct {
	Angle    float64
	Distance float64
}

func (p DistancePercept) String() string {
	return "DistancePercept(" + strconv.FormatFloat(p.Angle, 'f', -1, 64) + ", " + strconv.FormatFloat(p.Distance, 'f', -1, 64) + ")"
}

// Sense runs every sensor once and queues the resulting percepts.
func Sense(sensors []Sensor, self state.RobotState, world state.Snapshot, queue *PerceptQueue) {
	for _, sensor := range sensors {
		queue.Push(sensor.Percept(sensor.Stimulus(self, world)))
	}
}
