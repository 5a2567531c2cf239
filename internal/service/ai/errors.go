package ai

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

var (
	// ErrRemoteUnavailable covers transport failures, server errors and
	// malformed or empty responses. Retrying later may succeed.
	ErrRemoteUnavailable = errors.New("remote model unavailable")
	// ErrRemoteQuotaExceeded means the credential ran out of quota or hit a rate limit.
	ErrRemoteQuotaExceeded = errors.New("remote model quota exceeded")
)

var quotaMarkers = []string{
	"RESOURCE_EXHAUSTED",
	"Error 429",
	"TooManyRequests",
	"QuotaExceeded",
	"RateLimitExceeded",
}

// classifyError wraps err with ErrRemoteQuotaExceeded or ErrRemoteUnavailable
// while keeping the provider detail in the message.
func classifyError(provider string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrRemoteQuotaExceeded) || errors.Is(err, ErrRemoteUnavailable) {
		return err
	}

	var apiErr *genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %s: %v", ErrRemoteQuotaExceeded, provider, err)
	}

	detail := err.Error()
	for _, marker := range quotaMarkers {
		if strings.Contains(detail, marker) {
			return fmt.Errorf("%w: %s: %v", ErrRemoteQuotaExceeded, provider, err)
		}
	}
	return fmt.Errorf("%w: %s: %v", ErrRemoteUnavailable, provider, err)
}
