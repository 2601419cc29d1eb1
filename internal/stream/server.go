package stream

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/urfave/negroni"
)

// Server exposes a broker over HTTP:
//
//	GET  /ws              websocket frame stream
//	GET  /status          JSON from the status func
//	POST /command/{type}  same as sending {"type": ...} on the socket
type Server struct {
	broker  *Broker
	status  func() any
	command func(Command) error
}

// ErrUnsupported is returned for commands when no handler is configured.
var ErrUnsupported = errors.New("stream: commands not supported")

type ServerOption func(*Server)

func WithStatus(fn func() any) ServerOption {
	return func(s *Server) { s.status = fn }
}

// WithCommands handles client commands. Errors are reported to HTTP callers
// and logged for websocket callers.
func WithCommands(fn func(Command) error) ServerOption {
	return func(s *Server) { s.command = fn }
}

func NewServer(b *Broker, opts ...ServerOption) *Server {
	s := &Server{broker: b}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routes wrapped in panic recovery and request logging
// to the standard logger.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Handle("/ws", Handler{Broker: s.broker, OnCommand: s.onSocketCommand}).Methods(http.MethodGet)
	r.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/command/{type}", s.handleCommand).Methods(http.MethodPost)

	logger := negroni.NewLogger()
	logger.ALogger = log.Default()
	n := negroni.New(negroni.NewRecovery(), logger)
	n.UseHandler(r)
	return n
}

func (s *Server) onSocketCommand(cmd Command) {
	if err := s.dispatch(cmd); err != nil {
		log.Printf("stream: command %q: %v", cmd.Type, err)
	}
}

func (s *Server) dispatch(cmd Command) error {
	if s.command == nil {
		return ErrUnsupported
	}
	return s.command(cmd)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"clients": s.broker.Clients(),
		"dropped": s.broker.Dropped(),
	}
	if s.status != nil {
		status["animation"] = s.status()
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	cmd := Command{Type: mux.Vars(r)["type"]}
	if err := s.dispatch(cmd); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"ok": cmd.Type})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("stream: encode response: %v", err)
	}
}
