package session

import "errors"

var (
	// ErrNotJoined is returned when a frame other than player_join
	// arrives on a connection with no bound player.
	ErrNotJoined = errors.New("no player joined on this connection")

	// ErrInvalidPlayerData is returned when join input fails validation.
	ErrInvalidPlayerData = errors.New("invalid player data")

	// ErrRoomFull is returned when the target room is at capacity.
	ErrRoomFull = errors.New("room is full")

	// ErrPersistenceUnavailable is returned when a synchronous load or
	// save against the player store fails.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")

	// ErrMalformedMessage is returned for frames whose payload cannot
	// be interpreted, such as non-finite movement coordinates.
	ErrMalformedMessage = errors.New("malformed message")

	// ErrServerFull is returned when the connection limit is reached.
	ErrServerFull = errors.New("server is full")
)
