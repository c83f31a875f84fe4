package main

import (
	"github.com/urfave/cli"
	bettererrors "github.com/xtuc/better-errors"

	"github.com/bytearena/robotworld/arenaserver/config"
	"github.com/bytearena/robotworld/common/utils"
)

func loadArena(c *cli.Context) (config.ArenaConfig, error) {
	utils.SetQuiet(c.Bool("quiet"))

	if filename := c.String("config"); filename != "" {
		arena, err := config.LoadArenaConfig(filename)
		if err != nil {
			return arena, bettererrors.
				New("Could not load the arena").
				With(err).
				SetContext("config", filename)
		}

		return arena, nil
	}

	scenario := c.String("scenario")

	arena, err := config.Scenario(scenario)
	if err != nil {
		return arena, bettererrors.
			New("Could not load the arena").
			With(err).
			SetContext("scenario", scenario)
	}

	return arena, nil
}

// overrides are the run flags; zero values keep what the arena says.
type overrides struct {
	Robots       []string
	Listen       string
	Peer         string
	StepInterval int
	NotifyEvery  int
	Broadcast    bool
	Viz          string
	RecordFile   string
}

func applyOverrides(arena config.ArenaConfig, o overrides) (config.ArenaConfig, error) {
	if len(o.Robots) > 0 {
		robots := make([]config.RobotConfig, 0, len(o.Robots))

		for _, name := range o.Robots {
			robot, ok := arena.Robot(name)
			if !ok {
				return arena, bettererrors.
					New("Unknown robot").
					SetContext("robot", name)
			}

			robots = append(robots, robot)
		}

		arena.Robots = robots
	}

	if o.Listen != "" || o.Peer != "" {
		if len(arena.Robots) != 1 {
			return arena, bettererrors.New("--listen and --peer need exactly one robot; use --robot")
		}

		if o.Listen != "" {
			arena.Robots[0].Listen = o.Listen
		}

		if o.Peer != "" {
			arena.Robots[0].Peer = o.Peer
		}
	}

	if o.StepInterval > 0 {
		arena.StepInterval = o.StepInterval
	}

	if o.NotifyEvery > 0 {
		arena.NotifyEvery = o.NotifyEvery
	}

	if o.Broadcast {
		arena.Broadcast = true
	}

	if o.Viz != "" {
		arena.Viz = o.Viz
	}

	if o.RecordFile != "" {
		arena.RecordFile = o.RecordFile
	}

	return arena, nil
}
