package ai

import (
	"context"

	"github.com/esvchat/bible-chat/backend/internal/model/chat"
	"github.com/esvchat/bible-chat/backend/internal/model/persona"
)

// Client sends a remote history payload plus a new user message to a hosted
// model and returns the generated text.
type Client interface {
	Generate(ctx context.Context, history []chat.Turn, message string) (string, error)
}

// BuildHistory derives the remote history payload for one request: the
// persona's instruction pair followed by every stored turn, in order. The
// result never aliases transcript.
func BuildHistory(p persona.Persona, transcript []chat.Turn) []chat.Turn {
	history := make([]chat.Turn, 0, len(transcript)+2)
	history = append(history,
		chat.UserTurn(p.Instruction),
		chat.ModelTurn(p.Acknowledgement),
	)
	return append(history, transcript...)
}
