package main

import (
	"encoding/json"
	"sync"
	"time"

	notify "github.com/bitly/go-notify"
	"github.com/skratchdot/open-golang/open"
	bettererrors "github.com/xtuc/better-errors"

	"github.com/bytearena/robotworld/arenaserver/agent"
	"github.com/bytearena/robotworld/arenaserver/config"
	"github.com/bytearena/robotworld/arenaserver/state"
	"github.com/bytearena/robotworld/common"
	"github.com/bytearena/robotworld/common/influxdb"
	"github.com/bytearena/robotworld/common/recording"
	"github.com/bytearena/robotworld/common/utils"
	"github.com/bytearena/robotworld/vizserver"
)

const appStopEvent = "app:stop"

func runAction(arena config.ArenaConfig, openBrowser bool) error {
	world := state.NewWorld()
	arena.Populate(world)

	metricsclient, err := influxdb.NewClient("robotworld")
	if err != nil {
		utils.WarnWith(bettererrors.New("Metrics are only logged").With(err))
	}
	defer metricsclient.TearDown()

	var recorder recording.Recorder = recording.MakeEmptyRecorder()
	if arena.RecordFile != "" {
		fr, err := recording.MakeFileRecorder(arena.RecordFile)
		if err != nil {
			return bettererrors.New("Could not record the run").With(err).SetContext("file", arena.RecordFile)
		}
		recorder = fr
	}
	defer recorder.Close()

	robots := make([]*agent.Robot, 0, len(arena.Robots))
	names := make([]string, 0, len(arena.Robots))

	defer func() {
		for _, robot := range robots {
			robot.Close()
		}
	}()

	for _, r := range arena.Robots {
		robot, err := agent.NewRobot(world, arena.AgentConfig(r))
		if err != nil {
			return bettererrors.New("Could not create robot").With(err).SetContext("robot", r.Name)
		}

		if err := robot.Listen(); err != nil {
			return bettererrors.New("Could not listen").With(err).SetContext("robot", r.Name).SetContext("address", r.Listen)
		}

		robot.Metrics().Report(metricsclient, "robot."+r.Name)
		robot.Observe(recordTo(recorder))

		robots = append(robots, robot)
		names = append(names, r.Name)
	}

	recorder.RecordMetadata(names)

	if arena.Viz != "" {
		viz := vizserver.NewVizService(arena.Viz, world, robots)
		if err := viz.Start(); err != nil {
			return bettererrors.New("Could not start the telemetry server").With(err).SetContext("address", arena.Viz)
		}
		defer viz.Stop()

		if openBrowser {
			url := "http://" + viz.Addr() + "/"
			if err := open.Run(url); err != nil {
				utils.WarnWith(bettererrors.New("Could not open the browser").With(err).SetContext("url", url))
			}
		}
	}

	settled := watchSettled(robots)

	for _, robot := range robots {
		robot.StartActing()
	}

	stopChan := make(chan interface{})
	notify.Start(appStopEvent, stopChan)
	defer notify.Stop(appStopEvent, stopChan)

	go func() {
		<-common.SignalHandler()
		utils.Debug("sighandler", "RECEIVED SHUTDOWN SIGNAL; closing.")
		notify.PostTimeout(appStopEvent, nil, time.Millisecond)

		<-time.After(TIME_BEFORE_FORCE_QUIT)
		utils.FailWith(bettererrors.New("Forced shutdown").SetContext("timeout", TIME_BEFORE_FORCE_QUIT.String()))
	}()

	select {
	case <-stopChan:
	case <-settled:
		utils.Debug("robotworld", "every robot came to a halt")
	}

	for _, robot := range robots {
		utils.Debug("robotworld", robot.String()+" ended "+robot.Lifecycle().String())
	}

	return nil
}

func recordTo(recorder recording.Recorder) func(agent.Event) {
	return func(e agent.Event) {
		data, err := json.Marshal(e)
		if err != nil {
			utils.Warn("recording", err)
			return
		}

		recorder.Record(e.Robot, string(data))
	}
}

// watchSettled closes the channel once no robot is driving, negotiating or
// waiting for a peer any more. A robot that listens keeps the run alive so
// its peer can still reach it.
func watchSettled(robots []*agent.Robot) <-chan struct{} {
	settled := make(chan struct{})

	var once sync.Once
	check := func(agent.Event) {
		for _, robot := range robots {
			if robot.Communicating() {
				return
			}

			switch robot.Lifecycle() {
			case agent.Idle, agent.Arrived:
			default:
				return
			}
		}

		once.Do(func() { close(settled) })
	}

	for _, robot := range robots {
		robot.Observe(check)
	}

	return settled
}
