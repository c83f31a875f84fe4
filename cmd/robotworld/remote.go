package main

import (
	"context"
	"fmt"

	bettererrors "github.com/xtuc/better-errors"

	"github.com/bytearena/robotworld/arenaserver/agent"
	"github.com/bytearena/robotworld/arenaserver/comm"
	"github.com/bytearena/robotworld/arenaserver/config"
	"github.com/bytearena/robotworld/arenaserver/geometry"
	"github.com/bytearena/robotworld/arenaserver/state"
	"github.com/bytearena/robotworld/common/assert"
)

const defaultClientName = "robotworld-cli"

func requirePeer(peer string) error {
	if peer == "" {
		return bettererrors.New("No peer was specified; use --peer")
	}

	return nil
}

// remoteRobot is a robot that never drives; it only talks to peer.
func remoteRobot(world *state.World, name string, position geometry.Point, peer string) (*agent.Robot, error) {
	if err := requirePeer(peer); err != nil {
		return nil, err
	}

	robot, err := agent.NewRobot(world, agent.Config{Name: name, Position: position, Peer: peer})
	if err != nil {
		return nil, bettererrors.New("Could not create robot").With(err).SetContext("robot", name)
	}

	return robot, nil
}

func requestFailed(what string, peer string, err error) error {
	return bettererrors.
		New(what + " failed").
		With(err).
		SetContext("peer", peer)
}

func syncAction(arena config.ArenaConfig, name string, peer string) error {
	world := state.NewWorld()
	arena.Populate(world)

	if err := assert.Check(len(arena.Robots) > 0, "The arena has no robot to sync as"); err != nil {
		return err
	}

	r := arena.Robots[0]
	if name != "" {
		var ok bool
		if r, ok = arena.Robot(name); !ok {
			return bettererrors.New("Unknown robot").SetContext("robot", name)
		}
	}

	robot, err := remoteRobot(world, r.Name, geometry.MakePoint(r.X, r.Y), peer)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	report, err := robot.Sync(ctx)
	if err != nil {
		return requestFailed("Sync", peer, err)
	}

	fmt.Printf("learnt %d robots and %d walls, skipped %d records\n", report.Robots, report.Walls, report.Skipped)
	fmt.Print(world.Serialize())

	return nil
}

func echoAction(peer string, body string) error {
	robot, err := remoteRobot(state.NewWorld(), defaultClientName, geometry.MakePoint(0, 0), peer)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	answer, err := robot.Echo(ctx, body)
	if err != nil {
		return requestFailed("Echo", peer, err)
	}

	fmt.Println(answer)
	return nil
}

func startAction(peer string) error {
	robot, err := remoteRobot(state.NewWorld(), defaultClientName, geometry.MakePoint(0, 0), peer)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	started, err := robot.RequestStart(ctx)
	if err != nil {
		return requestFailed("Start", peer, err)
	}

	if started {
		fmt.Println("started")
	} else {
		fmt.Println("already driving")
	}

	return nil
}

func sendBackAction(peer string) error {
	world := state.NewWorld()

	robot, err := remoteRobot(world, defaultClientName, geometry.MakePoint(0, 0), peer)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if err := robot.RequestSendBack(ctx); err != nil {
		return requestFailed("Send back", peer, err)
	}

	for _, r := range world.Snapshot().Others(defaultClientName) {
		fmt.Println(r.String())
	}

	return nil
}

func stopAction(peer string) error {
	if err := requirePeer(peer); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if err := comm.NewClient().Stop(ctx, peer); err != nil {
		return requestFailed("Stop", peer, err)
	}

	fmt.Println("stopped")
	return nil
}
