package ws

import (
	"encoding/json"
	"errors"

	"dixit/internal/domain"
)

// MessageType tags a client-to-server wire message.
type MessageType string

// Client -> server message types
const (
	MsgCreateRoom       MessageType = "CREATE_ROOM"
	MsgJoinRoom         MessageType = "JOIN_ROOM"
	MsgReady            MessageType = "READY"
	MsgStartGame        MessageType = "START_GAME"
	MsgLeaderSubmitCard MessageType = "LEADER_SUBMIT_CARD"
	MsgSubmitCard       MessageType = "SUBMIT_CARD"
	MsgVote             MessageType = "VOTE"
	MsgNextRound        MessageType = "NEXT_ROUND"
	MsgReconnect        MessageType = "RECONNECT"
)

// ClientMessage is the wire envelope: a required type literal selecting
// the payload schema, decoded into the matching struct at dispatch.
type ClientMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Client message payloads

// CreateRoomPayload opens a new room with the sender as first member.
type CreateRoomPayload struct {
	Username string `json:"username"`
}

// JoinRoomPayload joins an existing room by code.
type JoinRoomPayload struct {
	Username string `json:"username"`
	RoomID   string `json:"roomId"`
}

// ReadyPayload marks the sender ready to start.
type ReadyPayload struct {
	PlayerID string `json:"playerId"`
	RoomID   string `json:"roomId"`
}

// StartGamePayload requests the game start.
type StartGamePayload struct {
	PlayerID string `json:"playerId"`
	RoomID   string `json:"roomId"`
}

// LeaderSubmitCardPayload carries the leader's card and description.
type LeaderSubmitCardPayload struct {
	PlayerID    string `json:"playerId"`
	RoomID      string `json:"roomId"`
	CardID      string `json:"cardId"`
	Description string `json:"description"`
}

// SubmitCardPayload carries a non-leader's face-down card.
type SubmitCardPayload struct {
	PlayerID string `json:"playerId"`
	RoomID   string `json:"roomId"`
	CardID   string `json:"cardId"`
}

// VotePayload carries a non-leader's guess at the leader's card.
type VotePayload struct {
	PlayerID string `json:"playerId"`
	RoomID   string `json:"roomId"`
	CardID   string `json:"cardId"`
}

// NextRoundPayload requests the next round from the results phase.
type NextRoundPayload struct {
	PlayerID string `json:"playerId"`
	RoomID   string `json:"roomId"`
}

// ReconnectPayload resumes a prior session on a fresh connection.
type ReconnectPayload struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
	Username string `json:"username"`
}

// Error codes carried in ERROR payloads.
const (
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeInvalidPhase    = "INVALID_PHASE"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeDuplicateAction = "DUPLICATE_ACTION"
	ErrCodeRoomFull        = "ROOM_FULL"
	ErrCodeUsernameTaken   = "USERNAME_TAKEN"
	ErrCodeInvalidMessage  = "INVALID_MESSAGE"
	ErrCodeInternal        = "INTERNAL"
)

// errorCode maps a domain error onto its wire taxonomy code.
func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound),
		errors.Is(err, domain.ErrPlayerNotFound),
		errors.Is(err, domain.ErrCardNotFound):
		return ErrCodeNotFound
	case errors.Is(err, domain.ErrInvalidPhase),
		errors.Is(err, domain.ErrNotEnoughPlayers),
		errors.Is(err, domain.ErrPlayersNotReady):
		return ErrCodeInvalidPhase
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrCannotVoteOwnCard),
		errors.Is(err, domain.ErrUsernameMismatch):
		return ErrCodeUnauthorized
	case errors.Is(err, domain.ErrDuplicateAction):
		return ErrCodeDuplicateAction
	case errors.Is(err, domain.ErrRoomFull):
		return ErrCodeRoomFull
	case errors.Is(err, domain.ErrUsernameTaken):
		return ErrCodeUsernameTaken
	default:
		return ErrCodeInternal
	}
}
