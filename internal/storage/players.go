package storage

import (
	"fmt"

	"github.com/tutien/tutien-server/internal/game"
)

// PlayerStore adapts a generic Storer to the persistence gateway the
// session coordinator consumes: load-by-id, idempotent full-snapshot
// upsert, online-flag update, and counts for the ops surface.
type PlayerStore struct {
	store Storer[*game.Player]
}

// NewPlayerStore wraps a player record store.
func NewPlayerStore(store Storer[*game.Player]) *PlayerStore {
	return &PlayerStore{store: store}
}

// Load fetches a player record. The second return reports whether a
// record exists; a missing record is not an error. The returned player
// is an independent copy: callers may mutate it without the cached
// record ever aliasing live session state.
func (ps *PlayerStore) Load(playerId string) (*game.Player, bool, error) {
	p := ps.store.Get(playerId)
	if p == nil {
		return nil, false, nil
	}
	return p.Clone(), true, nil
}

// Upsert writes the complete snapshot. Safe to call concurrently for
// the same player: the write is the whole record, last write wins.
func (ps *PlayerStore) Upsert(p *game.Player) error {
	if p.Id == "" {
		return fmt.Errorf("player id is required")
	}
	return ps.store.Save(p.Id, p)
}

// SetOnline flips the stored online flag without touching the rest of
// the record. A missing record is a no-op; the flag only matters for
// players that have been persisted at least once.
func (ps *PlayerStore) SetOnline(playerId string, online bool) error {
	p := ps.store.Get(playerId)
	if p == nil {
		return nil
	}
	if p.Online == online {
		return nil
	}
	// Never mutate the cached record in place; concurrent Count and
	// Load calls read it.
	updated := p.Clone()
	updated.Online = online
	return ps.store.Save(playerId, updated)
}

// Count returns total and online player record counts.
func (ps *PlayerStore) Count() (total, online int) {
	all := ps.store.GetAll()
	for _, p := range all {
		if p.Online {
			online++
		}
	}
	return len(all), online
}
