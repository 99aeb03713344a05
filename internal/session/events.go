package session

import (
	"github.com/tutien/tutien-server/internal/game"
	"github.com/tutien/tutien-server/internal/rules"
)

// Inbound frame names.
const (
	FramePlayerJoin    = "player_join"
	FramePlayerCommand = "player_command"
	FramePlayerMove    = "player_move"
	FrameChatMessage   = "chat_message"
	FrameDisconnect    = "disconnect"
)

// Outbound event names.
const (
	EventPlayerData      = "player_data"
	EventPlayerJoined    = "player_joined"
	EventPlayerLeft      = "player_left"
	EventCommandResult   = "command_result"
	EventCommandError    = "command_error"
	EventStateUpdate     = "player_state_update"
	EventCompanionUpdate = "player_companion_update"
	EventQuestUpdate     = "player_quest_update"
	EventGuildUpdate     = "player_guild_update"
	EventPlayerMoved     = "player_moved"
	EventChatMessage     = "chat_message"
	EventRoomPlayers     = "room_players"
	EventError           = "error"

	// EventKick is a control event the transport consumes itself: it
	// closes the connection instead of forwarding the event.
	EventKick = "kick"
)

// JoinResult is returned from HandleJoin and unicast as player_data.
type JoinResult struct {
	Player      *game.Player   `json:"player"`
	RoomId      string         `json:"roomId"`
	RoomPlayers []game.Summary `json:"roomPlayers"`
}

// joinedNotice announces a new room member to the rest of the room.
type joinedNotice struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// leftNotice announces a departed room member.
type leftNotice struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

// categoryUpdate is the extra room-cast for companion, quest, and
// guild command categories.
type categoryUpdate struct {
	PlayerId   string        `json:"playerId"`
	PlayerName string        `json:"playerName"`
	Type       string        `json:"type"`
	Result     *rules.Result `json:"result"`
}

// moveNotice broadcasts a position change to the rest of the room.
type moveNotice struct {
	Id       string        `json:"id"`
	Name     string        `json:"name"`
	Position game.Position `json:"position"`
}

// chatNotice is the room-wide chat payload. The sender receives it too
// so every client renders identical ordering.
type chatNotice struct {
	PlayerId   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Message    string `json:"message"`
	Timestamp  int64  `json:"timestamp"`
}

// errorNotice is the generic unicast error payload.
type errorNotice struct {
	Message string `json:"message"`
}

// commandErrorNotice carries a rule violation back to the actor.
type commandErrorNotice struct {
	Reason  rules.Reason `json:"reason"`
	Message string       `json:"message"`
}
