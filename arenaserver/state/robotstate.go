package state

import (
	"fmt"

	uuid "github.com/satori/go.uuid"

	"github.com/bytearena/robotworld/arenaserver/geometry"
)

// RobotState is the registry record of a robot. It is passed by value:
// mutating a copy never changes the registry.
type RobotState struct {
	ID       uuid.UUID
	Name     string
	Size     geometry.Size
	Position geometry.Point
	Front    geometry.BoundedVector
	Speed    int

	// Shadow robots are the local picture of a robot driven by a peer process.
	Shadow bool
}

func MakeRobotState(name string, position geometry.Point) RobotState {
	return RobotState{
		ID:       uuid.NewV4(),
		Name:     name,
		Size:     geometry.DefaultSize,
		Position: position,
	}
}

func MakeShadowRobotState(name string, position geometry.Point) RobotState {
	s := MakeRobotState(name, position)
	s.Shadow = true
	return s
}

func (state RobotState) Body() geometry.Quad {
	return geometry.BodyQuad(state.Position, state.footprint(), state.Front)
}

func (state RobotState) Region() geometry.Region {
	return state.Body().Region()
}

func (state RobotState) footprint() geometry.Size {
	if state.Size.IsZero() {
		return geometry.DefaultSize
	}

	return state.Size
}

func (state RobotState) InArena() bool {
	return InArena(state.Position)
}

func (state RobotState) String() string {
	return fmt.Sprintf("Robot %s at (%d,%d)", state.Name, state.Position.X, state.Position.Y)
}
