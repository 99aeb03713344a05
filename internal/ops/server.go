package ops

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/tutien/tutien-server/internal/rooms"
)

const shutdownTimeout = 5 * time.Second

// SessionCounter reports live session totals.
type SessionCounter interface {
	Counts() (conns, players int)
}

// StoreCounter reports persisted player totals.
type StoreCounter interface {
	Count() (total, online int)
}

// Server exposes operational endpoints: /healthz for liveness and
// /stats for a snapshot of rooms, connections, and store counts.
type Server struct {
	port      uint16
	sessions  SessionCounter
	store     StoreCounter
	registry  *rooms.Registry
	logger    *slog.Logger
	startedAt time.Time
}

func NewServer(port uint16, sessions SessionCounter, store StoreCounter, registry *rooms.Registry, logger *slog.Logger) *Server {
	return &Server{
		port:     port,
		sessions: sessions,
		store:    store,
		registry: registry,
		logger:   logger,
	}
}

func (s *Server) Start(ctx context.Context) error {
	s.startedAt = time.Now()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/stats", s.handleStats)

	svr := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: mux,
	}

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			svr.Shutdown(shutdownCtx)
		case <-done:
		}
	}()

	s.logger.Info("ops server started", "port", s.port)
	err := svr.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving ops endpoints on port %d: %w", s.port, err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_, online := s.store.Count()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"uptimeSeconds": int(time.Since(s.startedAt).Seconds()),
		"onlinePlayers": online,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	conns, players := s.sessions.Counts()
	total, online := s.store.Count()
	writeJSON(w, http.StatusOK, map[string]any{
		"connections":     conns,
		"residentPlayers": players,
		"storedPlayers":   total,
		"onlinePlayers":   online,
		"rooms":           s.registry.Sizes(),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
