package handler

import (
	"html"
	"net/http"
	"strconv"

	"github.com/bytearena/robotworld/vizserver/types"
)

func Home(arena *types.VizArena) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<h2>Welcome on VIZ SERVER !</h2>"))
		w.Write([]byte("<p>" + strconv.Itoa(arena.GetNumberWatchers()) + " watchers right now</p>"))

		for _, robot := range arena.Robots() {
			name := html.EscapeString(robot.Name)
			w.Write([]byte("<a href='/robot/" + name + "'>" + name + " (" + robot.Lifecycle.String() + " at " + robot.Position.String() + ")</a><br />"))
		}
	}
}
