package comm

import (
	"bufio"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/bytearena/robotworld/arenaserver/protocol"
	"github.com/bytearena/robotworld/common/utils"
)

const (
	DefaultWorkers   = 8
	DefaultIOTimeout = 2 * time.Second
)

type Handler interface {
	HandleRequest(msg protocol.Message) protocol.Message
}

type HandlerFunc func(msg protocol.Message) protocol.Message

func (f HandlerFunc) HandleRequest(msg protocol.Message) protocol.Message {
	return f(msg)
}

// Server answers one request per connection. Connections are handed to a
// fixed pool of workers.
type Server struct {
	address   string
	Workers   int
	IOTimeout time.Duration

	listener net.Listener
	conns    chan net.Conn
	events   chan interface{}

	stopOnce sync.Once
	stopped  chan struct{}
	wg       sync.WaitGroup
}

func NewServer(address string) *Server {
	return &Server{
		address:   address,
		Workers:   DefaultWorkers,
		IOTimeout: DefaultIOTimeout,
		events:    make(chan interface{}, 64),
		stopped:   make(chan struct{}),
	}
}

// Listen binds the address and serves in the background until Stop is
// called or a Stop message arrives.
func (s *Server) Listen(handler Handler) error {
	ln, err := net.Listen("tcp4", s.address)
	if err != nil {
		return fmt.Errorf("Comm server could not listen on %s; %s", s.address, err.Error())
	}

	s.listener = ln

	workers := s.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	s.conns = make(chan net.Conn, workers)

	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for conn := range s.conns {
				s.handle(conn, handler)
			}
		}()
	}

	go func() {
		defer close(s.conns)
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.stopped:
					return
				default:
				}

				s.emit(EventError{errors.Wrap(err, "accept")})
				continue
			}

			select {
			case s.conns <- conn:
			case <-s.stopped:
				conn.Close()
				return
			}
		}
	}()

	return nil
}

// Addr is the bound address, useful when listening on port 0.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.address
	}

	return s.listener.Addr().String()
}

func (s *Server) Events() <-chan interface{} {
	return s.events
}

// Stopped is closed once Stop has been called.
func (s *Server) Stopped() <-chan struct{} {
	return s.stopped
}

// Stop closes the listener and waits for in-flight requests, at most
// twice the IO timeout.
func (s *Server) Stop() {
	s.shutdown()

	if !utils.WaitTimeout(&s.wg, 2*s.IOTimeout+time.Second) {
		utils.Debug("comm", "gave up waiting for in-flight requests on "+s.Addr())
	}
}

func (s *Server) shutdown() {
	s.stopOnce.Do(func() {
		close(s.stopped)
		if s.listener != nil {
			s.listener.Close()
		}
		s.emit(EventStopped{})
	})
}

func (s *Server) emit(event interface{}) {
	select {
	case s.events <- event:
	default:
	}
}

func (s *Server) handle(conn net.Conn, handler Handler) {
	defer conn.Close()

	if s.IOTimeout > 0 {
		conn.SetDeadline(time.Now().Add(s.IOTimeout))
	}

	msg, err := protocol.ReadMessage(bufio.NewReader(conn))
	if err != nil {
		if errors.Cause(err) != protocol.ErrProtocolViolation {
			s.emit(EventLog{"Connexion closed unexpectedly; " + err.Error()})
			return
		}

		s.emit(EventWarn{err})
		s.reply(conn, protocol.Message{Body: protocol.DefaultBody})
		return
	}

	if msg.Type == protocol.Stop {
		s.reply(conn, msg.Reply(protocol.Stop, protocol.StopBody))
		s.shutdown()
		return
	}

	if !msg.Type.Known() {
		s.emit(EventWarn{errors.Wrapf(protocol.ErrProtocolViolation, "unknown message type in %s", msg)})
		s.reply(conn, msg.Reply(msg.Type, protocol.DefaultBody))
		return
	}

	s.reply(conn, s.dispatch(handler, msg))
}

func (s *Server) dispatch(handler Handler, msg protocol.Message) (response protocol.Message) {
	defer func() {
		if r := recover(); r != nil {
			s.emit(EventError{fmt.Errorf("handler failed on %s: %v", msg, r)})
			response = msg.Reply(msg.Type, protocol.DefaultBody)
		}
	}()

	return handler.HandleRequest(msg)
}

func (s *Server) reply(conn net.Conn, msg protocol.Message) {
	if err := protocol.WriteMessage(conn, msg); err != nil {
		s.emit(EventLog{"Failed to write response; " + err.Error()})
	}
}
