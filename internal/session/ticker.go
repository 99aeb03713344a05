package session

import (
	"context"
)

// Tick performs the periodic maintenance passes: idle connections are
// kicked, linkless players past their grace window are flushed and
// evicted, online snapshots are re-persisted on the flush interval, and
// empty idle rooms are collected. Implements driver.Manager.
func (c *Coordinator) Tick(ctx context.Context) error {
	now := c.now()

	idleCutoff := now.Add(-c.idleTimeout)
	var idle []string
	c.mu.Lock()
	for connId, cs := range c.conns {
		if cs.lastActivity.Before(idleCutoff) {
			idle = append(idle, connId)
		}
	}
	var resident []string
	for playerId := range c.players {
		resident = append(resident, playerId)
	}
	c.mu.Unlock()

	for _, connId := range idle {
		c.logger.Info("kicking idle connection", "conn", connId)
		c.unicast(connId, EventKick, errorNotice{Message: "disconnected due to inactivity"})
		c.HandleDisconnect(connId)
	}

	flush := now.Sub(c.lastPersistSweep) >= c.persistInterval
	if flush {
		c.lastPersistSweep = now
	}

	for _, playerId := range resident {
		entry, ok := c.entryFor(playerId)
		if !ok {
			continue
		}
		entry.mu.Lock()
		switch {
		case entry.connId == "" && !entry.evictAt.IsZero() && now.After(entry.evictAt):
			captured := entry.snapshot.Clone()
			c.mu.Lock()
			delete(c.players, playerId)
			c.mu.Unlock()
			entry.mu.Unlock()
			c.enqueueWrite(captured)
			c.logger.Info("evicted linkless player", "player", playerId)
		case flush && entry.connId != "":
			captured := entry.snapshot.Clone()
			entry.mu.Unlock()
			c.enqueueWrite(captured)
		default:
			entry.mu.Unlock()
		}
	}

	if flush {
		if removed := c.registry.Sweep(c.roomIdleCutoff); removed > 0 {
			c.logger.Info("collected idle rooms", "count", removed)
		}
	}

	return ctx.Err()
}
