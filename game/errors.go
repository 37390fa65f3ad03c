package game

import "errors"

var (
	ErrNotYourTurn    = errors.New("not this participant's turn")
	ErrNoParticipants = errors.New("no participants in room")
	ErrAlreadyJoined  = errors.New("participant already in room")
	ErrNotInRoom      = errors.New("participant not in room")
	ErrBotLimit       = errors.New("bot limit reached")
)
