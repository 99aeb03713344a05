package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

const (
	DefaultPath         = "/ws"
	DefaultReadLimit    = 64 * 1024
	DefaultPingInterval = 30 * time.Second
	DefaultPongWait     = 60 * time.Second
	DefaultWriteWait    = 10 * time.Second

	shutdownTimeout = 5 * time.Second
)

// Handler receives connection lifecycle callbacks and inbound frames.
// Implemented by session.Coordinator.
type Handler interface {
	OnConnect(connId string) error
	OnMessage(connId, frame string, payload json.RawMessage)
	OnDisconnect(connId string)
}

// Bus is the subscription side of the message bus. Each connection
// subscribes to its own subject and forwards whatever is published
// there to the socket.
type Bus interface {
	Subscribe(subject string, handler func(data []byte)) (func(), error)
}

// WebsocketListener accepts websocket clients and pumps frames between
// them and the session handler.
type WebsocketListener struct {
	port    uint16
	path    string
	handler Handler
	bus     Bus
	logger  *slog.Logger

	readLimit    int64
	pingInterval time.Duration
	pongWait     time.Duration
	writeWait    time.Duration

	upgrader websocket.Upgrader
	wg       sync.WaitGroup
}

type ListenerOpt func(*WebsocketListener)

func WithPath(path string) ListenerOpt {
	return func(l *WebsocketListener) { l.path = path }
}

func WithReadLimit(n int64) ListenerOpt {
	return func(l *WebsocketListener) { l.readLimit = n }
}

func WithPingInterval(d time.Duration) ListenerOpt {
	return func(l *WebsocketListener) { l.pingInterval = d }
}

func NewWebsocketListener(port uint16, handler Handler, bus Bus, logger *slog.Logger, opts ...ListenerOpt) *WebsocketListener {
	l := &WebsocketListener{
		port:         port,
		path:         DefaultPath,
		handler:      handler,
		bus:          bus,
		logger:       logger,
		readLimit:    DefaultReadLimit,
		pingInterval: DefaultPingInterval,
		pongWait:     DefaultPongWait,
		writeWait:    DefaultWriteWait,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

func (l *WebsocketListener) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc(l.path, l.handleUpgrade)

	svr := &http.Server{
		Addr:    fmt.Sprintf(":%d", l.port),
		Handler: mux,
	}

	// done signals that Start is returning (either success or failure)
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := svr.Shutdown(shutdownCtx); err != nil {
				l.logger.Warn("websocket server shutdown", "error", err)
			}
		case <-done:
		}
	}()

	l.logger.Info("websocket listener started", "port", l.port, "path", l.path)
	err := svr.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		if errors.Is(err, syscall.EADDRINUSE) {
			return fmt.Errorf("port %d is already in use (another server running?)", l.port)
		}
		return fmt.Errorf("serving websocket on port %d: %w", l.port, err)
	}

	l.wg.Wait()
	return nil
}

func (l *WebsocketListener) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := l.upgrader.Upgrade(w, r, nil)
	if err != nil {
		l.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		l.runClient(conn)
	}()
}
