package state

import (
	"sync"

	"github.com/bytearena/robotworld/arenaserver/geometry"
	"github.com/bytearena/robotworld/common/utils/vector"
)

const (
	ArenaMin = 0
	ArenaMax = 500
)

// InArena is true for points strictly inside the arena bounds.
func InArena(p geometry.Point) bool {
	return p.X > ArenaMin && p.X < ArenaMax && p.Y > ArenaMin && p.Y < ArenaMax
}

// World is the registry of every robot, wall and goal known to this process.
// Entries are never removed. One mutex guards everything.
type World struct {
	robots     map[string]RobotState
	robotorder []string

	walls     []Wall
	wallindex wallIndex

	goals map[string]Goal

	mutex *sync.Mutex
}

func NewWorld() *World {
	return &World{
		robots:     make(map[string]RobotState),
		robotorder: make([]string, 0),
		walls:      make([]Wall, 0),
		wallindex:  buildWallIndex(nil),
		goals:      make(map[string]Goal),
		mutex:      &sync.Mutex{},
	}
}

// AddRobot registers robot unless the name is already taken. It reports
// whether the robot was added.
func (world *World) AddRobot(robot RobotState) bool {
	world.mutex.Lock()
	defer world.mutex.Unlock()

	return world.addRobot(robot)
}

func (world *World) addRobot(robot RobotState) bool {
	if _, ok := world.robots[robot.Name]; ok {
		return false
	}

	world.robots[robot.Name] = robot
	world.robotorder = append(world.robotorder, robot.Name)
	return true
}

func (world *World) GetRobot(name string) (RobotState, bool) {
	world.mutex.Lock()
	res, ok := world.robots[name]
	world.mutex.Unlock()

	return res, ok
}

// UpdateRobot applies fn to the record of name under the world lock.
func (world *World) UpdateRobot(name string, fn func(robot *RobotState)) (RobotState, bool) {
	world.mutex.Lock()
	defer world.mutex.Unlock()

	robot, ok := world.robots[name]
	if !ok {
		return RobotState{}, false
	}

	fn(&robot)
	world.robots[name] = robot

	return robot, true
}

func (world *World) MoveRobot(name string, position geometry.Point, front geometry.BoundedVector) (RobotState, bool) {
	return world.UpdateRobot(name, func(robot *RobotState) {
		robot.Position = position
		robot.Front = front
	})
}

// Robots lists the robots in registration order.
func (world *World) Robots() []RobotState {
	world.mutex.Lock()
	defer world.mutex.Unlock()

	return world.robotList()
}

func (world *World) robotList() []RobotState {
	res := make([]RobotState, 0, len(world.robotorder))
	for _, name := range world.robotorder {
		res = append(res, world.robots[name])
	}

	return res
}

// AddWall registers the wall p1-p2 unless a wall with the same endpoints
// exists, in which case the existing one is returned.
func (world *World) AddWall(p1 geometry.Point, p2 geometry.Point) (Wall, bool) {
	world.mutex.Lock()
	defer world.mutex.Unlock()

	return world.addWall(p1, p2)
}

func (world *World) addWall(p1 geometry.Point, p2 geometry.Point) (Wall, bool) {
	for _, w := range world.walls {
		if w.SameEndpoints(p1, p2) {
			return w, false
		}
	}

	wall := MakeWall(p1, p2)

	walls := make([]Wall, len(world.walls), len(world.walls)+1)
	copy(walls, world.walls)
	world.walls = append(walls, wall)
	world.wallindex = buildWallIndex(world.walls)

	return wall, true
}

func (world *World) Walls() []Wall {
	world.mutex.Lock()
	defer world.mutex.Unlock()

	return world.walls
}

// SetGoal registers goal under its name; an unnamed goal is the default
// one.
func (world *World) SetGoal(goal Goal) {
	if goal.Name == "" {
		goal.Name = DefaultGoalName
	}

	world.mutex.Lock()
	world.goals[goal.Name] = goal
	world.mutex.Unlock()
}

func (world *World) GetGoal(name string) (Goal, bool) {
	world.mutex.Lock()
	res, ok := world.goals[name]
	world.mutex.Unlock()

	return res, ok
}

// Snapshot copies the registry for lock-free reading.
func (world *World) Snapshot() Snapshot {
	world.mutex.Lock()
	defer world.mutex.Unlock()

	snap := Snapshot{
		Robots:    world.robotList(),
		Walls:     world.walls,
		Goals:     make(map[string]Goal, len(world.goals)),
		wallindex: world.wallindex,
	}

	for name, goal := range world.goals {
		snap.Goals[name] = goal
	}

	return snap
}

// Snapshot is a read-only copy of the world at one instant.
type Snapshot struct {
	Robots []RobotState
	Walls  []Wall
	Goals  map[string]Goal

	wallindex wallIndex
}

func (snap Snapshot) Robot(name string) (RobotState, bool) {
	for _, r := range snap.Robots {
		if r.Name == name {
			return r, true
		}
	}

	return RobotState{}, false
}

// Others lists every robot but the named one.
func (snap Snapshot) Others(name string) []RobotState {
	res := make([]RobotState, 0, len(snap.Robots))
	for _, r := range snap.Robots {
		if r.Name != name {
			res = append(res, r)
		}
	}

	return res
}

// WallsNear returns the walls whose bounding box touches [min, max].
func (snap Snapshot) WallsNear(min vector.Vector2, max vector.Vector2) []Wall {
	if snap.wallindex.tree == nil {
		return snap.Walls
	}

	return snap.wallindex.intersecting(min, max)
}
