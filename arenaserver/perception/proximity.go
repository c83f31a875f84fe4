package perception

import (
	"github.com/bytearena/robotworld/arenaserver/geometry"
	"github.com/bytearena/robotworld/arenaserver/state"
	"github.com/bytearena/robotworld/common/utils/trigo"
)

// ProximitySensor flags a collision when the area just ahead of the robot
// reaches another robot.
type ProximitySensor struct{}

func (sensor ProximitySensor) Stimulus(self state.RobotState, world state.Snapshot) Stimulus {
	return CollisionStimulus{Collision: sensor.collision(self, world.Others(self.Name))}
}

func (sensor ProximitySensor) Percept(stimulus Stimulus) Percept {
	s, _ := stimulus.(CollisionStimulus)
	return CollisionPercept{Collision: s.Collision}
}

func (sensor ProximitySensor) String() string {
	return "ProximitySensor"
}

func proximityQuad(self state.RobotState) geometry.Quad {
	size := self.Size
	if size.IsZero() {
		size = geometry.DefaultSize
	}

	return geometry.ProximityQuad(self.Position, size, self.Front)
}

func (sensor ProximitySensor) collision(self state.RobotState, others []state.RobotState) bool {
	scan := proximityQuad(self)
	scanRegion := scan.Region()
	body := self.Region()

	for _, other := range others {
		ob := other.Body()

		if trigo.SegmentsIntersect(scan.FrontEdge(), ob.FrontEdge()) ||
			trigo.SegmentsIntersect(scan.BackEdge(), ob.BackEdge()) ||
			trigo.SegmentsIntersect(scan.LeftEdge(), ob.FrontLeftToBackRight()) ||
			trigo.SegmentsIntersect(scan.RightEdge(), ob.RightEdge()) {
			return true
		}

		otherRegion := ob.Region()
		if scanRegion.Intersects(otherRegion) || body.Intersects(otherRegion) {
			return true
		}
	}

	return false
}

// DistanceSensor is a placeholder: it does no ranging and always reports
// the same reading.
type DistanceSensor struct{}

const placeholderReading = 666

func (sensor DistanceSensor) Stimulus(self state.RobotState, world state.Snapshot) Stimulus {
	return DistanceStimulus{Angle: placeholderReading, Distance: placeholderReading}
}

func (sensor DistanceSensor) Percept(stimulus Stimulus) Percept {
	s, _ := stimulus.(DistanceStimulus)
	return DistancePercept{Angle: s.Angle, Distance: s.Distance}
}

func (sensor DistanceSensor) String() string {
	return "DistanceSensor"
}
