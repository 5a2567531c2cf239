package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/esvchat/bible-chat/backend/internal/model/chat"
	"github.com/esvchat/bible-chat/backend/internal/model/persona"
	"github.com/esvchat/bible-chat/backend/internal/service/ai"
	"github.com/esvchat/bible-chat/backend/internal/service/session"
	"github.com/esvchat/bible-chat/backend/pkg/log"
)

// Exchange is the outcome of one relay turn.
type Exchange struct {
	// Reply is the remote text, or an "An error occurred: ..." message when
	// the remote call failed.
	Reply string
	// Turns are the user and model turns to append, in that order.
	Turns []chat.Turn
	// RemoteErr is the classified remote failure, if any.
	RemoteErr error
}

// Respond relays message to remote on top of transcript. It touches no
// session state. A remote failure does not fail Respond: the error text
// becomes the reply and is reported in Exchange.RemoteErr.
func Respond(ctx context.Context, remote ai.Client, p persona.Persona, transcript []chat.Turn, message string) (Exchange, error) {
	if strings.TrimSpace(message) == "" {
		return Exchange{}, ErrInvalidInput
	}

	history := ai.BuildHistory(p, transcript)
	reply, err := remote.Generate(ctx, history, p.GuidedQuery(message))
	if err != nil {
		reply = fmt.Sprintf("An error occurred: %v", err)
	}

	return Exchange{
		Reply:     reply,
		Turns:     []chat.Turn{chat.UserTurn(message), chat.ModelTurn(reply)},
		RemoteErr: err,
	}, nil
}

// Service binds Respond to a session store.
type Service struct {
	remote  ai.Client
	store   session.Store
	persona persona.Persona
}

// NewService wires the relay to its collaborators.
func NewService(remote ai.Client, store session.Store, p persona.Persona) *Service {
	return &Service{
		remote:  remote,
		store:   store,
		persona: p,
	}
}

// Ask answers message for sessionID and appends the user/model pair to the
// session transcript. ErrInvalidInput is returned before anything is read or
// sent.
func (s *Service) Ask(ctx context.Context, sessionID, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", ErrInvalidInput
	}

	transcript, err := s.store.Transcript(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("load transcript: %w", err)
	}

	exchange, err := Respond(ctx, s.remote, s.persona, transcript, message)
	if err != nil {
		return "", err
	}

	if exchange.RemoteErr != nil {
		kind := KindOf(exchange.RemoteErr)
		log.Warnw("remote call failed",
			"session", sessionID,
			"kind", kind.String(),
			"retryable", kind.Retryable(),
			"error", exchange.RemoteErr,
		)
	} else {
		log.Infow("generated reply",
			"session", sessionID,
			"history", len(transcript)+2,
			"length", len(exchange.Reply),
		)
	}

	if err := s.store.Append(ctx, sessionID, exchange.Turns...); err != nil {
		return "", fmt.Errorf("save transcript: %w", err)
	}
	return exchange.Reply, nil
}

// Reset clears the session transcript.
func (s *Service) Reset(ctx context.Context, sessionID string) error {
	if err := s.store.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("clear transcript: %w", err)
	}
	return nil
}

// Transcript returns the stored turns for sessionID.
func (s *Service) Transcript(ctx context.Context, sessionID string) ([]chat.Turn, error) {
	return s.store.Transcript(ctx, sessionID)
}
