package vizserver

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytearena/robotworld/arenaserver/agent"
	"github.com/bytearena/robotworld/arenaserver/geometry"
	"github.com/bytearena/robotworld/arenaserver/state"
	"github.com/bytearena/robotworld/common/utils"
)

func init() {
	utils.SetQuiet(true)
}

func newTestService(t *testing.T, configs ...agent.Config) (*httptest.Server, []*agent.Robot) {
	t.Helper()

	world := state.NewWorld()
	world.SetGoal(state.Goal{Position: geometry.MakePoint(400, 400), Size: geometry.Size{X: 40, Y: 40}})
	world.AddWall(geometry.MakePoint(0, 300), geometry.MakePoint(100, 300))

	robots := make([]*agent.Robot, 0, len(configs))
	for _, config := range configs {
		robot, err := agent.NewRobot(world, config)
		require.NoError(t, err)
		t.Cleanup(robot.Close)
		robots = append(robots, robot)
	}

	viz := NewVizService("127.0.0.1:0", world, robots)
	viz.SetLogger(ioutil.Discard)

	server := httptest.NewServer(viz.Handler())
	t.Cleanup(server.Close)

	return server, robots
}

func getJSON(t *testing.T, url string, v interface{}) int {
	t.Helper()

	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()

	if v != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(v))
	}

	return res.StatusCode
}

func TestRobotsEndpoints(t *testing.T) {
	server, _ := newTestService(t,
		agent.Config{Name: "Alice", Position: geometry.MakePoint(50, 50)},
		agent.Config{Name: "Bob", Position: geometry.MakePoint(150, 50)},
	)

	var robots []map[string]interface{}
	assert.Equal(t, http.StatusOK, getJSON(t, server.URL+"/robots", &robots))
	require.Len(t, robots, 2)
	assert.Equal(t, "Alice", robots[0]["name"])
	assert.Equal(t, "idle", robots[0]["lifecycle"])
	assert.Equal(t, "undetermined", robots[0]["negotiation"])

	var bob map[string]interface{}
	assert.Equal(t, http.StatusOK, getJSON(t, server.URL+"/robot/Bob", &bob))
	assert.Equal(t, "Bob", bob["name"])

	assert.Equal(t, http.StatusNotFound, getJSON(t, server.URL+"/robot/Carol", nil))

	res, err := http.Get(server.URL + "/")
	require.NoError(t, err)
	body, _ := ioutil.ReadAll(res.Body)
	res.Body.Close()
	assert.Contains(t, string(body), "Alice")
}

func TestHealth(t *testing.T) {
	server, _ := newTestService(t, agent.Config{Name: "Alice", Position: geometry.MakePoint(50, 50)})
	assert.Equal(t, http.StatusOK, getJSON(t, server.URL+"/health", nil))

	deaf, _ := newTestService(t, agent.Config{Name: "Deaf", Position: geometry.MakePoint(50, 50), Listen: "127.0.0.1:0"})
	assert.Equal(t, http.StatusInternalServerError, getJSON(t, deaf.URL+"/health", nil))
}

func TestWebsocketStreamsEvents(t *testing.T) {
	server, robots := newTestService(t, agent.Config{
		Name:         "Alice",
		Position:     geometry.MakePoint(50, 50),
		StepInterval: 2 * time.Millisecond,
	})

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var init struct {
		Type string
		Data struct {
			Walls  []interface{}
			Goals  []interface{}
			Robots []interface{}
		}
	}
	require.NoError(t, conn.ReadJSON(&init))
	assert.Equal(t, "init", init.Type)
	assert.Len(t, init.Data.Walls, 1)
	assert.Len(t, init.Data.Goals, 1)
	assert.Len(t, init.Data.Robots, 1)

	require.True(t, robots[0].StartActing())

	kinds := make(map[string]bool)
	for !kinds["arrived"] {
		var msg struct {
			Type  string
			Event struct {
				Kind  string
				Robot string
			}
		}
		require.NoError(t, conn.ReadJSON(&msg))

		if msg.Type == "event" && msg.Event.Robot == "Alice" {
			kinds[msg.Event.Kind] = true
		}
	}

	assert.True(t, kinds["started"])
}
