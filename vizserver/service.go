package vizserver

import (
	"io"
	"log"
	"net"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/bytearena/robotworld/arenaserver/agent"
	"github.com/bytearena/robotworld/arenaserver/state"
	"github.com/bytearena/robotworld/common/healthcheck"
	apphandler "github.com/bytearena/robotworld/vizserver/handler"
	"github.com/bytearena/robotworld/vizserver/types"
)

type VizService struct {
	addr   string
	arena  *types.VizArena
	health *healthcheck.HealthCheckServer
	logger io.Writer

	server   *http.Server
	listener net.Listener
}

func NewVizService(addr string, world *state.World, robots []*agent.Robot) *VizService {
	health := healthcheck.NewHealthCheckServer("")

	for _, robot := range robots {
		robot := robot
		health.Register(robot.Name(), func() (error, bool) {
			err := robot.Healthy()
			return err, err == nil
		})
	}

	return &VizService{
		addr:   addr,
		arena:  types.NewVizArena(world, robots),
		health: health,
		logger: os.Stdout,
	}
}

func (viz *VizService) SetLogger(logger io.Writer) {
	viz.logger = logger
}

func (viz *VizService) Health() *healthcheck.HealthCheckServer {
	return viz.health
}

func (viz *VizService) Handler() http.Handler {
	router := mux.NewRouter()

	router.Handle("/", handlers.CombinedLoggingHandler(viz.logger,
		http.HandlerFunc(apphandler.Home(viz.arena)),
	)).Methods("GET")

	router.Handle("/robots", handlers.CombinedLoggingHandler(viz.logger,
		http.HandlerFunc(apphandler.Robots(viz.arena)),
	)).Methods("GET")

	router.Handle("/robot/{name}", handlers.CombinedLoggingHandler(viz.logger,
		http.HandlerFunc(apphandler.Robot(viz.arena)),
	)).Methods("GET")

	router.Handle("/ws", handlers.CombinedLoggingHandler(viz.logger,
		http.HandlerFunc(apphandler.Websocket(viz.arena)),
	)).Methods("GET")

	router.Handle("/health", viz.health).Methods("GET")

	return router
}

// Start binds the address and serves in the background.
func (viz *VizService) Start() error {
	listener, err := net.Listen("tcp", viz.addr)
	if err != nil {
		return err
	}

	viz.listener = listener
	viz.server = &http.Server{Handler: viz.Handler()}

	log.Println("VIZ Listening on " + listener.Addr().String())

	go viz.server.Serve(listener)

	return nil
}

func (viz *VizService) Addr() string {
	if viz.listener == nil {
		return viz.addr
	}

	return viz.listener.Addr().String()
}

func (viz *VizService) Stop() error {
	if viz.server == nil {
		return nil
	}

	return viz.server.Close()
}
