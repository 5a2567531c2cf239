package chat

import (
	"errors"

	"github.com/esvchat/bible-chat/backend/internal/service/ai"
)

// ErrInvalidInput is returned for an empty or missing user message.
var ErrInvalidInput = errors.New("message is required")

// Kind is the closed set of failures a relay call can report.
type Kind int

const (
	KindNone Kind = iota
	KindInvalidInput
	KindRemoteUnavailable
	KindRemoteQuotaExceeded
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInvalidInput:
		return "invalid_input"
	case KindRemoteUnavailable:
		return "remote_unavailable"
	case KindRemoteQuotaExceeded:
		return "remote_quota_exceeded"
	default:
		return "unknown"
	}
}

// Retryable reports whether the same request may succeed if sent again later.
func (k Kind) Retryable() bool {
	return k == KindRemoteUnavailable
}

// KindOf maps err onto Kind. Remote errors that were not classified by the
// backend count as unavailable.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ai.ErrRemoteQuotaExceeded):
		return KindRemoteQuotaExceeded
	default:
		return KindRemoteUnavailable
	}
}
