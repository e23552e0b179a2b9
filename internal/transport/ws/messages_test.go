package ws

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dixit/internal/domain"
)

func TestClientMessageDecoding(t *testing.T) {
	raw := []byte(`{"type":"JOIN_ROOM","payload":{"username":"alice","roomId":"ABCD"}}`)

	var msg ClientMessage
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, MsgJoinRoom, msg.Type)

	var payload JoinRoomPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.Equal(t, "alice", payload.Username)
	assert.Equal(t, "ABCD", payload.RoomID)
}

func TestClientMessageWithoutPayload(t *testing.T) {
	var msg ClientMessage
	require.NoError(t, json.Unmarshal([]byte(`{"type":"READY"}`), &msg))
	assert.Equal(t, MsgReady, msg.Type)
	assert.Nil(t, msg.Payload)
}

func TestErrorCodeMapping(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{domain.ErrRoomNotFound, ErrCodeNotFound},
		{domain.ErrPlayerNotFound, ErrCodeNotFound},
		{domain.ErrCardNotFound, ErrCodeNotFound},
		{domain.ErrInvalidPhase, ErrCodeInvalidPhase},
		{domain.ErrNotEnoughPlayers, ErrCodeInvalidPhase},
		{domain.ErrPlayersNotReady, ErrCodeInvalidPhase},
		{domain.ErrUnauthorized, ErrCodeUnauthorized},
		{domain.ErrCannotVoteOwnCard, ErrCodeUnauthorized},
		{domain.ErrUsernameMismatch, ErrCodeUnauthorized},
		{domain.ErrDuplicateAction, ErrCodeDuplicateAction},
		{domain.ErrRoomFull, ErrCodeRoomFull},
		{domain.ErrUsernameTaken, ErrCodeUsernameTaken},
		{errors.New("disk on fire"), ErrCodeInternal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, errorCode(tt.err), "errorCode(%v)", tt.err)
	}
}

func TestErrorCodeWrappedError(t *testing.T) {
	wrapped := errors.Join(errors.New("cast vote"), domain.ErrDuplicateAction)
	assert.Equal(t, ErrCodeDuplicateAction, errorCode(wrapped))
}
