package store

import (
	"crypto/rand"
	"fmt"
)

// DefaultRoomCodeLength is the default length for room codes.
const DefaultRoomCodeLength = 4

// roomCodeChars are characters used for room codes (no ambiguous chars).
const roomCodeChars = "abcdefghjkmnpqrstuvwxyz23456789"

// maxCodeAttempts bounds collision retries before giving up.
const maxCodeAttempts = 10

// NewRoomCode generates a short human-typeable room code not already
// present in the registry, regenerating on collision.
func NewRoomCode(rooms Rooms, length int) (string, error) {
	if length <= 0 {
		length = DefaultRoomCodeLength
	}

	for attempts := 0; attempts < maxCodeAttempts; attempts++ {
		code := randomCode(length)
		if !rooms.Has(code) {
			return code, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique room code of length %d", length)
}

func randomCode(length int) string {
	b := make([]byte, length)
	rand.Read(b)

	code := make([]byte, length)
	for i := range code {
		code[i] = roomCodeChars[int(b[i])%len(roomCodeChars)]
	}
	return string(code)
}
