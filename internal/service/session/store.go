// Package session keeps the per-browser conversation transcript.
//
// Stores give no cross-request ordering guarantee: two requests racing on the
// same session may each read the transcript before the other appends. Append
// writes all of its turns as one unit, so a user/model pair is never split.
package session

import (
	"context"
	"errors"

	"github.com/esvchat/bible-chat/backend/internal/model/chat"
)

// ErrSessionRequired is returned when a store is called without a session id.
var ErrSessionRequired = errors.New("session id is required")

// Store holds one ordered transcript per session id.
type Store interface {
	// Transcript returns the stored turns, or an empty slice for unknown sessions.
	Transcript(ctx context.Context, sessionID string) ([]chat.Turn, error)
	// Append adds turns to the end of the transcript in the given order.
	Append(ctx context.Context, sessionID string, turns ...chat.Turn) error
	// Clear drops the transcript.
	Clear(ctx context.Context, sessionID string) error
}
