// Package control exposes the daemon's engine contexts over a local HTTP API
// and provides the matching client used by the CLI.
package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jayseik/cinefill/internal/app/messaging"
	"github.com/jayseik/cinefill/internal/application/port"
	"github.com/jayseik/cinefill/internal/domain/entity"
	"github.com/jayseik/cinefill/internal/logging"
)

// DefaultListen is the control API address.
const DefaultListen = "127.0.0.1:7733"

const maxMessageBytes = 64 << 10

// ErrNoEngine is reported when the target tab has no engine context.
var ErrNoEngine = port.ErrNoEngine

// Dispatcher routes commands to engine contexts.
type Dispatcher interface {
	Dispatch(ctx context.Context, tabID string, cmd entity.Command) (*entity.CommandResponse, error)
	Tabs(ctx context.Context) []entity.TabInfo
}

// Health is the body of GET /health.
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Tabs    int    `json:"tabs"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Server is the control API HTTP handler.
type Server struct {
	router     chi.Router
	dispatcher Dispatcher
	version    string
}

// NewServer builds the router. ctx supplies the request logger.
func NewServer(ctx context.Context, dispatcher Dispatcher, version string) *Server {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logging.WithComponent(ctx, "control")))

	s := &Server{router: r, dispatcher: dispatcher, version: version}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Route("/v1", func(r chi.Router) {
		r.Post("/message", s.handleMessage)
		r.Get("/tabs", s.handleTabs)
		r.Post("/tabs/{tabID}/message", s.handleMessage)
	})
}

// Route is one endpoint of the control API.
type Route struct {
	Method  string
	Pattern string
}

// Routes lists the control API endpoints ordered by pattern, then method.
func Routes() ([]Route, error) {
	s := NewServer(context.Background(), nil, "")
	var out []Route
	err := chi.Walk(s.router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		out = append(out, Route{Method: method, Pattern: route})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk routes: %w", err)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pattern != out[j].Pattern {
			return out[i].Pattern < out[j].Pattern
		}
		return out[i].Method < out[j].Method
	})
	return out, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Serve listens on addr until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, addr string) error {
	log := logging.FromContext(ctx)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	log.Info().Str("addr", ln.Addr().String()).Msg("control api listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown control api: %w", err)
		}
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Health{
		Status:  "ok",
		Version: s.version,
		Tabs:    len(s.dispatcher.Tabs(r.Context())),
	})
}

func (s *Server) handleTabs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.dispatcher.Tabs(r.Context()))
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxMessageBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body")
		return
	}
	cmd, err := messaging.ParseCommand(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := s.dispatcher.Dispatch(r.Context(), chi.URLParam(r, "tabID"), cmd)
	switch {
	case errors.Is(err, ErrNoEngine):
		writeError(w, http.StatusNotFound, "no engine")
		return
	case err != nil:
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: message})
}
