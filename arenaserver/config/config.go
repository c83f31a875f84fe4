package config

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/bytearena/robotworld/arenaserver/agent"
	"github.com/bytearena/robotworld/arenaserver/geometry"
	"github.com/bytearena/robotworld/arenaserver/state"
	"github.com/bytearena/robotworld/common/utils"
)

var ErrInvalidConfig = errors.New("invalid arena config")

// DefaultGoalSize applies to goals declared without a size.
var DefaultGoalSize = geometry.Size{X: 40, Y: 40}

type RobotConfig struct {
	Name   string
	X      int
	Y      int
	Width  int
	Height int
	Speed  int
	Goal   string
	Listen string
	Peer   string
}

type WallConfig struct {
	X1 int
	Y1 int
	X2 int
	Y2 int
}

type GoalConfig struct {
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

type ArenaConfig struct {
	Robots []RobotConfig
	Walls  []WallConfig
	Goals  []GoalConfig

	// milliseconds between two steps of a robot
	StepInterval int
	NotifyEvery  int
	Broadcast    bool

	Viz        string
	RecordFile string
}

type fileArenaConfig struct {
	Arena struct {
		StepInterval int
		NotifyEvery  int
		Broadcast    bool
		Viz          string
		RecordFile   string
	}
	Robots []RobotConfig
	Walls  []WallConfig
	Goals  []GoalConfig
}

// LoadArenaConfig reads a JSON arena file. A relative filename that does not
// exist from the working directory is looked up next to the executable.
func LoadArenaConfig(filename string) (ArenaConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		filename = utils.GetAbsoluteDir(filename)
	}

	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return ArenaConfig{}, errors.Wrapf(err, "cannot read arena config %s", filename)
	}

	return ParseArenaConfig(data)
}

func ParseArenaConfig(data []byte) (ArenaConfig, error) {
	var file fileArenaConfig

	if err := json.Unmarshal(data, &file); err != nil {
		return ArenaConfig{}, errors.Wrap(err, "cannot decode arena config")
	}

	config := ArenaConfig{
		Robots:       file.Robots,
		Walls:        file.Walls,
		Goals:        file.Goals,
		StepInterval: file.Arena.StepInterval,
		NotifyEvery:  file.Arena.NotifyEvery,
		Broadcast:    file.Arena.Broadcast,
		Viz:          file.Arena.Viz,
		RecordFile:   file.Arena.RecordFile,
	}

	if err := config.Validate(); err != nil {
		return ArenaConfig{}, err
	}

	return config, nil
}

func (config ArenaConfig) Validate() error {
	if len(config.Robots) == 0 {
		return errors.Wrap(ErrInvalidConfig, "at least one robot must be provided")
	}

	if config.StepInterval < 0 {
		return errors.Wrap(ErrInvalidConfig, "StepInterval must not be negative")
	}

	goals := make(map[string]bool)
	for _, g := range config.Goals {
		goals[goalName(g.Name)] = true

		if !state.InArena(geometry.MakePoint(g.X, g.Y)) {
			return errors.Wrapf(ErrInvalidConfig, "goal %s lies outside of the arena", goalName(g.Name))
		}
	}

	names := make(map[string]bool)
	for _, r := range config.Robots {
		if err := assertString(r.Name, "every robot must have a name"); err != nil {
			return err
		}

		if names[r.Name] {
			return errors.Wrapf(ErrInvalidConfig, "robot %s is declared twice", r.Name)
		}
		names[r.Name] = true

		if !state.InArena(geometry.MakePoint(r.X, r.Y)) {
			return errors.Wrapf(ErrInvalidConfig, "robot %s starts outside of the arena", r.Name)
		}

		if !goals[goalName(r.Goal)] {
			return errors.Wrapf(ErrInvalidConfig, "robot %s drives to unknown goal %s", r.Name, goalName(r.Goal))
		}
	}

	return nil
}

func assertString(value string, msg string) error {
	if value == "" {
		return errors.Wrap(ErrInvalidConfig, msg)
	}

	return nil
}

func goalName(name string) string {
	if name == "" {
		return state.DefaultGoalName
	}

	return name
}

// Populate puts the walls and goals of the config in world. Robots are
// registered by agent.NewRobot.
func (config ArenaConfig) Populate(world *state.World) {
	for _, w := range config.Walls {
		world.AddWall(geometry.MakePoint(w.X1, w.Y1), geometry.MakePoint(w.X2, w.Y2))
	}

	for _, g := range config.Goals {
		size := geometry.Size{X: g.Width, Y: g.Height}
		if size.IsZero() {
			size = DefaultGoalSize
		}

		world.SetGoal(state.Goal{
			Name:     g.Name,
			Position: geometry.MakePoint(g.X, g.Y),
			Size:     size,
		})
	}
}

func (config ArenaConfig) Interval() time.Duration {
	return time.Duration(config.StepInterval) * time.Millisecond
}

func (config ArenaConfig) Robot(name string) (RobotConfig, bool) {
	for _, r := range config.Robots {
		if r.Name == name {
			return r, true
		}
	}

	return RobotConfig{}, false
}

// AgentConfig turns a robot entry into the settings of its driving loop.
func (config ArenaConfig) AgentConfig(r RobotConfig) agent.Config {
	return agent.Config{
		Name:         r.Name,
		Position:     geometry.MakePoint(r.X, r.Y),
		Size:         geometry.Size{X: r.Width, Y: r.Height},
		Speed:        r.Speed,
		GoalName:     r.Goal,
		Listen:       r.Listen,
		Peer:         r.Peer,
		Broadcast:    config.Broadcast,
		StepInterval: config.Interval(),
		NotifyEvery:  config.NotifyEvery,
	}
}
