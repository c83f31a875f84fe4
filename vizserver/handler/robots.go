package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bytearena/robotworld/common/utils"
	"github.com/bytearena/robotworld/vizserver/types"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		utils.Warn("viz-server", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func Robots(arena *types.VizArena) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, arena.Robots())
	}
}

func Robot(arena *types.VizArena) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		robot, ok := arena.Robot(vars["name"])
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "ROBOT NOT FOUND !"})
			return
		}

		writeJSON(w, http.StatusOK, robot)
	}
}
