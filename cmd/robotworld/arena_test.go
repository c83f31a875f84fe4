package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytearena/robotworld/arenaserver/config"
)

func TestApplyOverrides(t *testing.T) {
	arena, err := config.Scenario("situation2")
	require.NoError(t, err)

	cases := []struct {
		name  string
		o     overrides
		check func(t *testing.T, arena config.ArenaConfig)
		err   bool
	}{
		{
			name: "nothing",
			check: func(t *testing.T, a config.ArenaConfig) {
				assert.Equal(t, arena, a)
			},
		},
		{
			name: "one robot with addresses",
			o:    overrides{Robots: []string{"Robot2"}, Listen: ":7000", Peer: "10.0.0.2:7000"},
			check: func(t *testing.T, a config.ArenaConfig) {
				require.Len(t, a.Robots, 1)
				assert.Equal(t, "Robot2", a.Robots[0].Name)
				assert.Equal(t, ":7000", a.Robots[0].Listen)
				assert.Equal(t, "10.0.0.2:7000", a.Robots[0].Peer)
			},
		},
		{
			name: "timing and outputs",
			o:    overrides{StepInterval: 5, NotifyEvery: 3, Broadcast: true, Viz: ":8080", RecordFile: "run.jsonl"},
			check: func(t *testing.T, a config.ArenaConfig) {
				assert.Equal(t, 5, a.StepInterval)
				assert.Equal(t, 3, a.NotifyEvery)
				assert.True(t, a.Broadcast)
				assert.Equal(t, ":8080", a.Viz)
				assert.Equal(t, "run.jsonl", a.RecordFile)
			},
		},
		{name: "unknown robot", o: overrides{Robots: []string{"Robot9"}}, err: true},
		{name: "addresses for two robots", o: overrides{Listen: ":7000"}, err: true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			fresh, _ := config.Scenario("situation2")

			res, err := applyOverrides(fresh, c.o)
			if c.err {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			c.check(t, res)
		})
	}
}

func TestCommands(t *testing.T) {
	app := makeapp()

	names := make([]string, 0, len(app.Commands))
	for _, command := range app.Commands {
		names = append(names, command.Name)
	}

	assert.Equal(t, []string{"run", "sync", "echo", "start", "sendback", "stop", "scenarios"}, names)
}
