package domain

import "errors"

// Domain errors
var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrCardNotFound      = errors.New("card not found")
	ErrInvalidPhase      = errors.New("invalid action for current phase")
	ErrUnauthorized      = errors.New("player not allowed to perform this action")
	ErrDuplicateAction   = errors.New("action already performed this round")
	ErrRoomFull          = errors.New("room is full")
	ErrUsernameTaken     = errors.New("username already taken in this room")
	ErrNotEnoughPlayers  = errors.New("not enough players to start")
	ErrPlayersNotReady   = errors.New("not all players are ready")
	ErrNotEnoughCards    = errors.New("not enough cards in deck")
	ErrCannotVoteOwnCard = errors.New("cannot vote for your own card")
	ErrUsernameMismatch  = errors.New("username does not match")
)
