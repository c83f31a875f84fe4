package healthcheck

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/bytearena/robotworld/common/utils"
)

type HealthCheckServer struct {
	checkers []namedChecker
	port     string
	lock     sync.RWMutex
}

type HealthChecks struct {
	Status bool
	Name   string
	Error  string `json:",omitempty"`
}

type HealthCheckHttpResponse struct {
	Checks     []HealthChecks
	StatusCode int
}

type HealthCheckHandler func() (err error, ok bool)

type namedChecker struct {
	name    string
	handler HealthCheckHandler
}

func (server *HealthCheckServer) run() HealthCheckHttpResponse {
	res := HealthCheckHttpResponse{
		Checks:     make([]HealthChecks, 0),
		StatusCode: http.StatusOK,
	}

	server.lock.RLock()
	checkers := append([]namedChecker(nil), server.checkers...)
	server.lock.RUnlock()

	for _, checker := range checkers {
		err, ok := checker.handler()

		check := HealthChecks{Name: checker.name, Status: ok && err == nil}
		if err != nil {
			check.Error = err.Error()
		}

		if !check.Status {
			res.StatusCode = http.StatusInternalServerError
		}

		res.Checks = append(res.Checks, check)
	}

	return res
}

// ServeHTTP answers /health; it is mounted by the telemetry server too.
func (server *HealthCheckServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res := server.run()

	data, err := json.Marshal(res)
	utils.Check(err, "Failed to marshal response")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.StatusCode)
	w.Write(data)
}

func NewHealthCheckServer(port string) *HealthCheckServer {
	return &HealthCheckServer{
		port: port,
	}
}

func (server *HealthCheckServer) Listen() error {
	mux := http.NewServeMux()
	mux.Handle("/health", server)

	return http.ListenAndServe(":"+server.port, mux)
}

func (server *HealthCheckServer) Register(name string, handler HealthCheckHandler) {
	server.lock.Lock()
	server.checkers = append(server.checkers, namedChecker{name: name, handler: handler})
	server.lock.Unlock()
}
