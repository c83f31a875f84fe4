package config

import (
	"sort"

	"github.com/pkg/errors"
)

// Robots of a pair find each other on these ports; a scenario run in one
// process still negotiates over loopback.
const (
	port1 = "127.0.0.1:9001"
	port2 = "127.0.0.1:9002"
	port3 = "127.0.0.1:9003"
	port4 = "127.0.0.1:9004"
)

var ErrUnknownScenario = errors.New("unknown scenario")

func pair(a, b RobotConfig) []RobotConfig {
	return pairOn(port1, port2, a, b)
}

func pairOn(portA, portB string, a, b RobotConfig) []RobotConfig {
	a.Listen, a.Peer = portA, portB
	b.Listen, b.Peer = portB, portA

	return []RobotConfig{a, b}
}

func base(robots []RobotConfig, goals ...GoalConfig) ArenaConfig {
	return ArenaConfig{
		Robots:       robots,
		Goals:        goals,
		StepInterval: 100,
		NotifyEvery:  1,
	}
}

var scenarios = map[string]func() ArenaConfig{
	// two robots, a few walls and two goals
	"populate": func() ArenaConfig {
		config := base(
			pair(
				RobotConfig{Name: "Robot", X: 100, Y: 100},
				RobotConfig{Name: "Robot2", X: 450, Y: 100, Goal: "Goal2"},
			),
			GoalConfig{X: 450, Y: 450},
			GoalConfig{Name: "Goal2", X: 50, Y: 450},
		)

		config.Walls = []WallConfig{
			{X1: 0, Y1: 300, X2: 250, Y2: 300},
			{X1: 300, Y1: 150, X2: 300, Y2: 450},
			{X1: 150, Y1: 380, X2: 150, Y2: 500},
		}

		return config
	},

	// head-on
	"situation1": func() ArenaConfig {
		return base(
			pair(
				RobotConfig{Name: "Robot1", X: 50, Y: 250, Goal: "East"},
				RobotConfig{Name: "Robot2", X: 450, Y: 250, Goal: "West"},
			),
			GoalConfig{Name: "East", X: 470, Y: 250},
			GoalConfig{Name: "West", X: 30, Y: 250},
		)
	},

	// crossing
	"situation2": func() ArenaConfig {
		return base(
			pair(
				RobotConfig{Name: "Robot1", X: 100, Y: 250, Goal: "East"},
				RobotConfig{Name: "Robot2", X: 250, Y: 100, Goal: "South"},
			),
			GoalConfig{Name: "East", X: 420, Y: 250},
			GoalConfig{Name: "South", X: 250, Y: 420},
		)
	},

	// overtaking: the faster robot starts behind the slower one
	"situation3": func() ArenaConfig {
		return base(
			pair(
				RobotConfig{Name: "Robot1", X: 50, Y: 250, Speed: 20},
				RobotConfig{Name: "Robot2", X: 110, Y: 250, Speed: 5},
			),
			GoalConfig{X: 450, Y: 250},
		)
	},

	// head-on in a corridor
	"situation4": func() ArenaConfig {
		config := base(
			pair(
				RobotConfig{Name: "Robot1", X: 50, Y: 250, Goal: "East"},
				RobotConfig{Name: "Robot2", X: 450, Y: 250, Goal: "West"},
			),
			GoalConfig{Name: "East", X: 470, Y: 250},
			GoalConfig{Name: "West", X: 30, Y: 250},
		)

		config.Walls = []WallConfig{
			{X1: 150, Y1: 220, X2: 350, Y2: 220},
			{X1: 150, Y1: 280, X2: 350, Y2: 280},
		}

		return config
	},

	// the goal is walled in
	"situation5": func() ArenaConfig {
		config := base(
			[]RobotConfig{{Name: "Robot", X: 100, Y: 100}},
			GoalConfig{X: 420, Y: 420},
		)

		config.Walls = []WallConfig{
			{X1: 380, Y1: 380, X2: 460, Y2: 380},
			{X1: 460, Y1: 380, X2: 460, Y2: 460},
			{X1: 460, Y1: 460, X2: 380, Y2: 460},
			{X1: 380, Y1: 460, X2: 380, Y2: 380},
		}

		return config
	},

	// four-way crossing. Robots driving head-on are peers; a robot has one
	// peer, so an encounter across the pairs is negotiated with its own
	// peer instead of the robot it meets.
	"situation6": func() ArenaConfig {
		robots := pairOn(port1, port3,
			RobotConfig{Name: "Robot1", X: 50, Y: 250, Goal: "East"},
			RobotConfig{Name: "Robot3", X: 450, Y: 240, Goal: "West"},
		)

		robots = append(robots, pairOn(port2, port4,
			RobotConfig{Name: "Robot2", X: 250, Y: 50, Goal: "South"},
			RobotConfig{Name: "Robot4", X: 240, Y: 450, Goal: "North"},
		)...)

		return base(
			robots,
			GoalConfig{Name: "East", X: 470, Y: 250},
			GoalConfig{Name: "South", X: 250, Y: 470},
			GoalConfig{Name: "West", X: 30, Y: 240},
			GoalConfig{Name: "North", X: 240, Y: 30},
		)
	},
}

func Scenario(name string) (ArenaConfig, error) {
	build, ok := scenarios[name]
	if !ok {
		return ArenaConfig{}, errors.Wrapf(ErrUnknownScenario, "%q", name)
	}

	return build(), nil
}

func ScenarioNames() []string {
	res := make([]string, 0, len(scenarios))
	for name := range scenarios {
		res = append(res, name)
	}

	sort.Strings(res)

	return res
}
