package types

import (
	"github.com/bytearena/robotworld/arenaserver/agent"
	"github.com/bytearena/robotworld/arenaserver/geometry"
	"github.com/bytearena/robotworld/arenaserver/state"
	"github.com/bytearena/robotworld/common/utils"
)

type RobotView struct {
	Name          string                 `json:"name"`
	Position      geometry.Point         `json:"position"`
	Front         geometry.BoundedVector `json:"front"`
	Speed         int                    `json:"speed"`
	Path          []geometry.Point       `json:"path"`
	OpenSet       int                    `json:"openset"`
	Lifecycle     agent.Lifecycle        `json:"lifecycle"`
	Negotiation   agent.Negotiation      `json:"negotiation"`
	Communicating bool                   `json:"communicating"`
}

func MakeRobotView(robot *agent.Robot) RobotView {
	return RobotView{
		Name:          robot.Name(),
		Position:      robot.Position(),
		Front:         robot.Front(),
		Speed:         robot.Speed(),
		Path:          robot.Path(),
		OpenSet:       len(robot.OpenSet()),
		Lifecycle:     robot.Lifecycle(),
		Negotiation:   robot.Negotiation(),
		Communicating: robot.Communicating(),
	}
}

type WallView struct {
	From geometry.Point `json:"from"`
	To   geometry.Point `json:"to"`
}

type GoalView struct {
	Name     string         `json:"name"`
	Position geometry.Point `json:"position"`
	Size     geometry.Size  `json:"size"`
}

// VizArena is what the telemetry server shows: one world and the robots
// driven in this process.
type VizArena struct {
	world  *state.World
	robots []*agent.Robot
	pool   *WatcherMap
}

func NewVizArena(world *state.World, robots []*agent.Robot) *VizArena {
	return &VizArena{
		world:  world,
		robots: robots,
		pool:   NewWatcherMap(),
	}
}

func (arena *VizArena) Robots() []RobotView {
	res := make([]RobotView, len(arena.robots))
	for i, robot := range arena.robots {
		res[i] = MakeRobotView(robot)
	}

	return res
}

func (arena *VizArena) Robot(name string) (RobotView, bool) {
	for _, robot := range arena.robots {
		if robot.Name() == name {
			return MakeRobotView(robot), true
		}
	}

	return RobotView{}, false
}

func (arena *VizArena) Walls() []WallView {
	walls := arena.world.Walls()

	res := make([]WallView, len(walls))
	for i, w := range walls {
		res[i] = WallView{From: w.P1(), To: w.P2()}
	}

	return res
}

func (arena *VizArena) Goals() []GoalView {
	snap := arena.world.Snapshot()

	res := make([]GoalView, 0, len(snap.Goals))
	for _, g := range snap.Goals {
		res = append(res, GoalView{Name: g.Name, Position: g.Position, Size: g.Size})
	}

	return res
}

type VizInitMessageData struct {
	Walls  []WallView  `json:"walls"`
	Goals  []GoalView  `json:"goals"`
	Robots []RobotView `json:"robots"`
}

type VizInitMessage struct {
	Type string             `json:"type"`
	Data VizInitMessageData `json:"data"`
}

type VizEventMessage struct {
	Type   string      `json:"type"`
	Event  agent.Event `json:"event"`
	Robots []RobotView `json:"robots"`
}

func (arena *VizArena) SetWatcher(watcher *Watcher) {
	arena.pool.Store(watcher.GetId(), watcher)

	initMsg := VizInitMessage{
		Type: "init",
		Data: VizInitMessageData{
			Walls:  arena.Walls(),
			Goals:  arena.Goals(),
			Robots: arena.Robots(),
		},
	}

	if err := watcher.Send(initMsg); err != nil {
		utils.Debug("viz-server", "Could not send VizInitMessage JSON;"+err.Error())
	}
}

func (arena *VizArena) RemoveWatcher(watcherid string) {
	arena.pool.Delete(watcherid)
}

func (arena *VizArena) GetNumberWatchers() int {
	return arena.pool.Len()
}

func (arena *VizArena) EventMessage(e agent.Event) VizEventMessage {
	return VizEventMessage{
		Type:   "event",
		Event:  e,
		Robots: arena.Robots(),
	}
}
