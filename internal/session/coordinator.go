package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/tutien/tutien-server/internal/game"
	"github.com/tutien/tutien-server/internal/rooms"
	"github.com/tutien/tutien-server/internal/rules"
)

const (
	DefaultMaxConnections  = 500
	DefaultMaxNameLength   = 32
	DefaultMaxChatLength   = 500
	DefaultIdleTimeout     = 10 * time.Minute
	DefaultEvictionGrace   = 5 * time.Minute
	DefaultPersistInterval = 30 * time.Second
	DefaultMoveInterval    = 5 * time.Second
	DefaultRoomIdleCutoff  = 15 * time.Minute

	writeQueueDepth = 256
)

// Store is the persistence gateway the coordinator writes snapshots
// through. Implemented by storage.PlayerStore.
type Store interface {
	Load(playerId string) (*game.Player, bool, error)
	Upsert(p *game.Player) error
	SetOnline(playerId string, online bool) error
	Count() (total, online int)
}

// Broadcaster delivers events to connections. Implemented by
// messaging.Broadcaster.
type Broadcaster interface {
	Unicast(connId, event string, payload any) error
	Roomcast(roomId, event string, payload any, exclude ...string) error
}

// connState tracks one live connection.
type connState struct {
	playerId     string
	lastActivity time.Time
}

var zeroTime time.Time

// playerEntry holds the authoritative snapshot for one player along
// with the lock that serializes all mutations to it. An entry with an
// empty connId is linkless and awaiting reconnection or eviction.
//
// The snapshot pointer is written only while holding both mu and the
// coordinator lock; holding either one is enough to read it.
type playerEntry struct {
	mu           sync.Mutex
	snapshot     *game.Player
	connId       string
	evictAt      time.Time
	lastMoveSave time.Time
}

// Coordinator owns all live sessions. Frames arrive through the
// per-connection handlers; state leaves through the Broadcaster and the
// write-behind persistence queue.
type Coordinator struct {
	mu      sync.Mutex
	conns   map[string]*connState
	players map[string]*playerEntry

	registry  *rooms.Registry
	store     Store
	bcast     Broadcaster
	processor *rules.Processor
	logger    *slog.Logger

	writes chan *game.Player

	maxConns        int
	maxNameLen      int
	maxChatLen      int
	idleTimeout     time.Duration
	evictionGrace   time.Duration
	persistInterval time.Duration
	moveInterval    time.Duration
	roomIdleCutoff  time.Duration

	// lastPersistSweep is touched only from Tick, which the driver
	// calls from a single goroutine.
	lastPersistSweep time.Time

	now func() time.Time
}

type CoordinatorOpt func(*Coordinator)

func WithMaxConnections(n int) CoordinatorOpt {
	return func(c *Coordinator) { c.maxConns = n }
}

func WithMaxNameLength(n int) CoordinatorOpt {
	return func(c *Coordinator) { c.maxNameLen = n }
}

func WithMaxChatLength(n int) CoordinatorOpt {
	return func(c *Coordinator) { c.maxChatLen = n }
}

func WithIdleTimeout(d time.Duration) CoordinatorOpt {
	return func(c *Coordinator) { c.idleTimeout = d }
}

func WithEvictionGrace(d time.Duration) CoordinatorOpt {
	return func(c *Coordinator) { c.evictionGrace = d }
}

func WithPersistInterval(d time.Duration) CoordinatorOpt {
	return func(c *Coordinator) { c.persistInterval = d }
}

func WithMoveInterval(d time.Duration) CoordinatorOpt {
	return func(c *Coordinator) { c.moveInterval = d }
}

func WithRoomIdleCutoff(d time.Duration) CoordinatorOpt {
	return func(c *Coordinator) { c.roomIdleCutoff = d }
}

func WithCoordinatorClock(now func() time.Time) CoordinatorOpt {
	return func(c *Coordinator) { c.now = now }
}

func NewCoordinator(store Store, bcast Broadcaster, registry *rooms.Registry, processor *rules.Processor, logger *slog.Logger, opts ...CoordinatorOpt) *Coordinator {
	c := &Coordinator{
		conns:           make(map[string]*connState),
		players:         make(map[string]*playerEntry),
		registry:        registry,
		store:           store,
		bcast:           bcast,
		processor:       processor,
		logger:          logger,
		writes:          make(chan *game.Player, writeQueueDepth),
		maxConns:        DefaultMaxConnections,
		maxNameLen:      DefaultMaxNameLength,
		maxChatLen:      DefaultMaxChatLength,
		idleTimeout:     DefaultIdleTimeout,
		evictionGrace:   DefaultEvictionGrace,
		persistInterval: DefaultPersistInterval,
		moveInterval:    DefaultMoveInterval,
		roomIdleCutoff:  DefaultRoomIdleCutoff,
		now:             time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Start drains the write-behind queue until the context is cancelled,
// then flushes whatever is still pending.
func (c *Coordinator) Start(ctx context.Context) error {
	c.logger.Info("session coordinator started")
	for {
		select {
		case p := <-c.writes:
			c.writeSnapshot(p)
		case <-ctx.Done():
			for {
				select {
				case p := <-c.writes:
					c.writeSnapshot(p)
				default:
					return nil
				}
			}
		}
	}
}

// writeSnapshot attempts a store upsert with a short backoff. A write
// that still fails is dropped; the periodic flush will retry it with
// fresher data.
func (c *Coordinator) writeSnapshot(p *game.Player) {
	backoff := 100 * time.Millisecond
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		if err = c.store.Upsert(p); err == nil {
			return
		}
		time.Sleep(backoff)
		backoff *= 2
	}
	c.logger.Error("dropping player write after retries", "player", p.Id, "error", err)
}

// enqueueWrite hands a snapshot copy to the write-behind worker. The
// caller must pass an already-cloned snapshot; nothing here may still
// alias live state.
func (c *Coordinator) enqueueWrite(p *game.Player) {
	select {
	case c.writes <- p:
	default:
		c.logger.Warn("write queue full, deferring to periodic flush", "player", p.Id)
	}
}

// OnConnect registers a new connection before any join has happened.
func (c *Coordinator) OnConnect(connId string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.conns) >= c.maxConns {
		return ErrServerFull
	}
	c.conns[connId] = &connState{lastActivity: c.now()}
	return nil
}

// OnMessage dispatches one inbound frame. Errors are reported back to
// the connection here so the transport stays payload-agnostic.
func (c *Coordinator) OnMessage(connId, frame string, payload json.RawMessage) {
	switch frame {
	case FramePlayerJoin:
		var req struct {
			PlayerId string `json:"playerId"`
			Name     string `json:"name"`
		}
		if err := json.Unmarshal(payload, &req); err != nil {
			c.logger.Warn("malformed join payload", "conn", connId, "error", err)
			c.unicast(connId, EventError, errorNotice{Message: "malformed join payload"})
			return
		}
		if _, err := c.HandleJoin(connId, req.PlayerId, game.Defaults{Name: req.Name}); err != nil {
			c.unicast(connId, EventError, errorNotice{Message: err.Error()})
		}
	case FramePlayerCommand:
		var req struct {
			Command string          `json:"command"`
			Data    json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(payload, &req); err != nil {
			c.unicast(connId, EventError, errorNotice{Message: "malformed command payload"})
			return
		}
		c.HandleCommand(connId, req.Command, req.Data)
	case FramePlayerMove:
		var pos game.Position
		if err := json.Unmarshal(payload, &pos); err != nil {
			c.logger.Warn("malformed move payload", "conn", connId, "error", err)
			return
		}
		c.HandleMove(connId, pos)
	case FrameChatMessage:
		var req struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(payload, &req); err != nil {
			return
		}
		c.HandleChat(connId, req.Message)
	case FrameDisconnect:
		c.HandleDisconnect(connId)
	default:
		c.logger.Warn("unknown frame", "conn", connId, "frame", frame)
		c.unicast(connId, EventError, errorNotice{Message: "unknown frame: " + frame})
	}
}

// touch refreshes a connection's activity clock and resolves its bound
// player id, if any.
func (c *Coordinator) touch(connId string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cs, ok := c.conns[connId]
	if !ok {
		return "", false
	}
	cs.lastActivity = c.now()
	return cs.playerId, true
}

func (c *Coordinator) entryFor(playerId string) (*playerEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.players[playerId]
	return e, ok
}

// Counts reports live connection and resident player totals.
func (c *Coordinator) Counts() (conns, players int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.conns), len(c.players)
}

func (c *Coordinator) unicast(connId, event string, payload any) {
	if err := c.bcast.Unicast(connId, event, payload); err != nil {
		c.logger.Warn("unicast failed", "conn", connId, "event", event, "error", err)
	}
}

func (c *Coordinator) roomcast(roomId, event string, payload any, exclude ...string) {
	if err := c.bcast.Roomcast(roomId, event, payload, exclude...); err != nil {
		c.logger.Warn("roomcast failed", "room", roomId, "event", event, "error", err)
	}
}
