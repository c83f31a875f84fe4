package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/urfave/cli"

	"github.com/bytearena/robotworld/arenaserver/config"
	"github.com/bytearena/robotworld/common/utils"
)

const (
	TIME_BEFORE_FORCE_QUIT = 5 * time.Second
	requestTimeout         = 5 * time.Second
)

func main() {
	rand.Seed(time.Now().UnixNano())

	app := makeapp()
	if err := app.Run(os.Args); err != nil {
		utils.FailWith(err)
	}
}

var arenaFlags = []cli.Flag{
	cli.StringFlag{Name: "config", Value: "", Usage: "JSON arena file; overrides --scenario"},
	cli.StringFlag{Name: "scenario", Value: "populate", Usage: "Built-in arena: populate, situation1 to situation6"},
	cli.BoolFlag{Name: "quiet", Usage: "Disable debug logging"},
}

func makeapp() *cli.App {
	app := cli.NewApp()
	app.Description = "Robots driving to their goal and negotiating the right of way"
	app.Name = "robotworld"
	app.Version = utils.GetVersion()

	app.Commands = []cli.Command{
		{
			Name:    "run",
			Aliases: []string{"r"},
			Usage:   "Drive the robots of an arena",
			Flags: append([]cli.Flag{
				cli.StringSliceFlag{Name: "robot", Usage: "Only drive these robots of the arena"},
				cli.StringFlag{Name: "listen", Value: "", Usage: "Listen address of the robot; needs exactly one --robot"},
				cli.StringFlag{Name: "peer", Value: "", Usage: "Peer address of the robot; needs exactly one --robot"},
				cli.IntFlag{Name: "step-interval", Value: 0, Usage: "Milliseconds between two steps"},
				cli.IntFlag{Name: "notify-every", Value: 0, Usage: "Notify one step in that many"},
				cli.BoolFlag{Name: "broadcast", Usage: "Send the position to the peer after every step"},
				cli.StringFlag{Name: "viz", Value: "", Usage: "Address serving the telemetry"},
				cli.BoolFlag{Name: "open", Usage: "Open the telemetry in a browser"},
				cli.StringFlag{Name: "record-file", Value: "", Usage: "Destination file for recording the run"},
			}, arenaFlags...),
			Action: func(c *cli.Context) error {
				arena, err := loadArena(c)
				if err != nil {
					return err
				}

				arena, err = applyOverrides(arena, overrides{
					Robots:       c.StringSlice("robot"),
					Listen:       c.String("listen"),
					Peer:         c.String("peer"),
					StepInterval: c.Int("step-interval"),
					NotifyEvery:  c.Int("notify-every"),
					Broadcast:    c.Bool("broadcast"),
					Viz:          c.String("viz"),
					RecordFile:   c.String("record-file"),
				})
				if err != nil {
					return err
				}

				return runAction(arena, c.Bool("open"))
			},
		},
		{
			Name:  "sync",
			Usage: "Exchange the world with a peer",
			Flags: append([]cli.Flag{
				cli.StringFlag{Name: "peer", Value: "", Usage: "Address of the peer; required"},
				cli.StringFlag{Name: "name", Value: "", Usage: "Robot of the arena to sync as"},
			}, arenaFlags...),
			Action: func(c *cli.Context) error {
				arena, err := loadArena(c)
				if err != nil {
					return err
				}

				return syncAction(arena, c.String("name"), c.String("peer"))
			},
		},
		{
			Name:  "echo",
			Usage: "Probe a peer",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "peer", Value: "", Usage: "Address of the peer; required"},
				cli.StringFlag{Name: "body", Value: "Hello world", Usage: "Message to echo"},
			},
			Action: func(c *cli.Context) error {
				return echoAction(c.String("peer"), c.String("body"))
			},
		},
		{
			Name:  "start",
			Usage: "Ask a peer robot to start driving",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "peer", Value: "", Usage: "Address of the peer; required"},
			},
			Action: func(c *cli.Context) error {
				return startAction(c.String("peer"))
			},
		},
		{
			Name:  "sendback",
			Usage: "Ask a peer robot to back off",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "peer", Value: "", Usage: "Address of the peer; required"},
			},
			Action: func(c *cli.Context) error {
				return sendBackAction(c.String("peer"))
			},
		},
		{
			Name:  "stop",
			Usage: "Stop the listener of a peer",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "peer", Value: "", Usage: "Address of the peer; required"},
			},
			Action: func(c *cli.Context) error {
				return stopAction(c.String("peer"))
			},
		},
		{
			Name:  "scenarios",
			Usage: "List the built-in arenas",
			Action: func(c *cli.Context) error {
				for _, name := range config.ScenarioNames() {
					fmt.Println(name)
				}

				return nil
			},
		},
	}

	return app
}
