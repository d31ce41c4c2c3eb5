// Package server exposes a running session over HTTP and websockets.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/hangry/game"
	"github.com/pthm-cable/hangry/storage"
)

// Server wires a session loop, the websocket hub and the result store.
type Server struct {
	hub      *Hub
	loop     *Loop
	sessions storage.SessionRepository
	upgrader websocket.Upgrader
}

// New creates a server for g. Session events are broadcast to websocket
// clients. sessions may be nil.
func New(g *game.Game, tps int, sessions storage.SessionRepository) *Server {
	s := &Server{
		hub:      NewHub(),
		loop:     NewLoop(g, tps),
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	g.Subscribe(s.hub.BroadcastEvent)
	return s
}

// Loop returns the session loop.
func (s *Server) Loop() *Loop { return s.loop }

// Start runs the hub and the session loop until ctx is cancelled. The
// returned channel closes once both have stopped.
func (s *Server) Start(ctx context.Context) <-chan struct{} {
	stopped := make(chan struct{})
	go s.hub.Run(ctx)
	go func() {
		s.loop.Run(ctx)
		<-s.hub.done
		close(stopped)
	}()
	return stopped
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.serveWs)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("POST /api/command", s.handleCommand)
	mux.HandleFunc("GET /api/sessions", s.handleSessions)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleSession)
	return mux
}

// ListenAndServe serves Handler on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	stopped := s.Start(ctx)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	<-stopped
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	c := NewClient(s.hub, s.loop, conn)
	if !c.Register() {
		conn.Close()
		return
	}
	go c.WritePump()
	go c.ReadPump()

	if st, err := s.loop.Status(); err == nil {
		payload, err := json.Marshal(Message{Type: "status", Status: &st})
		if err == nil {
			select {
			case c.replies <- payload:
			default:
			}
		}
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.loop.Status()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	msg, err := s.loop.Apply(req.Command())
	switch {
	case errors.Is(err, ErrStopped):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	case errors.Is(err, game.ErrUnknownVerb):
		writeJSON(w, http.StatusBadRequest, Reply{Error: err.Error()})
	case errors.Is(err, game.ErrUnknownFish):
		writeJSON(w, http.StatusNotFound, Reply{Error: err.Error()})
	case err != nil:
		writeJSON(w, http.StatusConflict, Reply{Error: err.Error()})
	default:
		writeJSON(w, http.StatusOK, Reply{OK: true, Message: msg})
	}
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		http.Error(w, "session storage disabled", http.StatusNotFound)
		return
	}
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	var (
		list []storage.Session
		err  error
	)
	if r.URL.Query().Get("order") == "best" {
		list, err = s.sessions.Best(r.Context(), limit)
	} else {
		list, err = s.sessions.Recent(r.Context(), limit)
	}
	if err != nil {
		slog.Error("failed to list sessions", "error", err)
		http.Error(w, "failed to list sessions", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []storage.Session{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		http.Error(w, "session storage disabled", http.StatusNotFound)
		return
	}
	sess, err := s.sessions.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("failed to load session", "error", err)
		http.Error(w, "failed to load session", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}
