package handler

import (
	"log"
	"net/http"

	notify "github.com/bitly/go-notify"
	"github.com/gorilla/websocket"

	"github.com/bytearena/robotworld/arenaserver/agent"
	"github.com/bytearena/robotworld/common/utils"
	"github.com/bytearena/robotworld/vizserver/types"
)

func Websocket(arena *types.VizArena) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		}

		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Print("upgrade:", err)
			return
		}

		// subscribe before the init message so the client misses nothing
		// once it has read it
		robotchan := make(chan interface{}, 16)
		notify.Start(agent.RobotChangedEvent, robotchan)

		watcher := types.NewWatcher(c)
		arena.SetWatcher(watcher)

		defer func(c *websocket.Conn) {
			notify.Stop(agent.RobotChangedEvent, robotchan)
			arena.RemoveWatcher(watcher.GetId())
			c.Close()
			utils.Debug("viz-server", "watcher "+watcher.GetId()+" left")
		}(c)

		// reading is mandatory to notice when the websocket is closed client side
		clientclosedsocket := make(chan struct{})
		go func(client *websocket.Conn) {
			defer close(clientclosedsocket)
			for {
				if _, _, err := client.ReadMessage(); err != nil {
					return
				}
			}
		}(c)

		for {
			select {
			case <-clientclosedsocket:
				return

			case msg := <-robotchan:
				e, ok := msg.(agent.Event)
				if !ok {
					continue
				}

				if err := watcher.Send(arena.EventMessage(e)); err != nil {
					utils.Debug("viz-server", "Could not send event to watcher;"+err.Error())
					return
				}
			}
		}
	}
}
