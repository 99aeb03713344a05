package session

import (
	"encoding/json"
	"errors"
	"math"

	"github.com/tutien/tutien-server/internal/game"
	"github.com/tutien/tutien-server/internal/rules"
)

// HandleCommand runs one game command for the player bound to connId.
// The processor mutates a clone of the snapshot; the clone replaces the
// snapshot only when the whole command succeeded, so a rejected command
// leaves no partial effects.
func (c *Coordinator) HandleCommand(connId, name string, payload json.RawMessage) (*rules.Result, error) {
	playerId, ok := c.touch(connId)
	if !ok || playerId == "" {
		c.unicast(connId, EventError, errorNotice{Message: "join before sending commands"})
		return nil, ErrNotJoined
	}
	entry, ok := c.entryFor(playerId)
	if !ok {
		return nil, ErrNotJoined
	}

	cmd, err := rules.ParseCommand(name)
	if err != nil {
		c.reportRuleError(connId, err)
		return nil, err
	}

	entry.mu.Lock()
	clone := entry.snapshot.Clone()
	res, err := c.processor.Process(clone, cmd, payload)
	if err != nil {
		entry.mu.Unlock()
		c.reportRuleError(connId, err)
		return nil, err
	}
	c.setSnapshot(entry, clone)
	captured := clone.Clone()
	summary := clone.Summary()
	roomId := clone.CurrentRoom
	playerName := clone.Name
	entry.mu.Unlock()

	c.enqueueWrite(captured)
	c.unicast(connId, EventCommandResult, res)

	update := categoryUpdate{
		PlayerId:   playerId,
		PlayerName: playerName,
		Type:       string(cmd),
		Result:     res,
	}
	switch cmd.Category() {
	case rules.CategoryCompanion:
		c.roomcast(roomId, EventCompanionUpdate, update, connId)
	case rules.CategoryQuest:
		c.roomcast(roomId, EventQuestUpdate, update, connId)
	case rules.CategoryGuild:
		c.roomcast(roomId, EventGuildUpdate, update, connId)
	}
	c.roomcast(roomId, EventStateUpdate, summary)

	return res, nil
}

func (c *Coordinator) reportRuleError(connId string, err error) {
	var rerr *rules.Error
	if errors.As(err, &rerr) {
		c.unicast(connId, EventCommandError, commandErrorNotice{Reason: rerr.Reason, Message: rerr.Message})
		return
	}
	c.logger.Error("command failed", "conn", connId, "error", err)
	c.unicast(connId, EventError, errorNotice{Message: "command failed"})
}

// HandleMove updates the player's position and tells the rest of the
// room. Position writes reach the store on a debounce interval rather
// than per-frame.
func (c *Coordinator) HandleMove(connId string, pos game.Position) error {
	if !finite(pos.X) || !finite(pos.Y) || !finite(pos.Z) {
		c.logger.Warn("discarding non-finite position", "conn", connId)
		return ErrMalformedMessage
	}
	playerId, ok := c.touch(connId)
	if !ok || playerId == "" {
		return ErrNotJoined
	}
	entry, ok := c.entryFor(playerId)
	if !ok {
		return ErrNotJoined
	}

	entry.mu.Lock()
	snapshot := entry.snapshot
	snapshot.Position = pos
	notice := moveNotice{Id: snapshot.Id, Name: snapshot.Name, Position: pos}
	roomId := snapshot.CurrentRoom
	var captured *game.Player
	if now := c.now(); now.Sub(entry.lastMoveSave) >= c.moveInterval {
		entry.lastMoveSave = now
		captured = snapshot.Clone()
	}
	entry.mu.Unlock()

	if captured != nil {
		c.enqueueWrite(captured)
	}
	c.roomcast(roomId, EventPlayerMoved, notice, connId)
	return nil
}

// HandleChat relays a chat line to the whole room, sender included.
// Overlong messages are truncated, not rejected.
func (c *Coordinator) HandleChat(connId, message string) error {
	playerId, ok := c.touch(connId)
	if !ok || playerId == "" {
		return ErrNotJoined
	}
	entry, ok := c.entryFor(playerId)
	if !ok {
		return ErrNotJoined
	}
	if runes := []rune(message); len(runes) > c.maxChatLen {
		message = string(runes[:c.maxChatLen])
	}

	entry.mu.Lock()
	notice := chatNotice{
		PlayerId:   entry.snapshot.Id,
		PlayerName: entry.snapshot.Name,
		Message:    message,
		Timestamp:  c.now().UnixMilli(),
	}
	roomId := entry.snapshot.CurrentRoom
	entry.mu.Unlock()

	c.roomcast(roomId, EventChatMessage, notice)
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
