package types

import (
	"sync"

	"github.com/gorilla/websocket"
	uuid "github.com/satori/go.uuid"
)

// Watcher is one websocket client of the telemetry server.
type Watcher struct {
	id   string
	conn *websocket.Conn
	lock sync.Mutex
}

func NewWatcher(conn *websocket.Conn) *Watcher {
	return &Watcher{
		id:   uuid.NewV4().String(),
		conn: conn,
	}
}

func (w *Watcher) GetId() string {
	return w.id
}

// Send writes v as JSON; gorilla connections take one writer at a time.
func (w *Watcher) Send(v interface{}) error {
	w.lock.Lock()
	defer w.lock.Unlock()

	return w.conn.WriteJSON(v)
}
